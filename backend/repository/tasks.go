package repository

import (
	"context"
	"time"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var taskColumns = []string{
	"type", "title", "description", "instructions", "due_date", "allow_late", "late_policy",
	"has_timer", "time_limit_minutes", "published", "visible_from", "visible_until",
	"allow_file_upload", "answer_format",
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

// CreateTask inserts the task together with its questions.
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	return errors.Wrap(s.conn(ctx).Omit("Submissions").Create(t).Error, "create task")
}

func (s *Store) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var t models.Task
	err := s.conn(ctx).Preload("Questions", orderedQuestions).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, apperr.ErrTaskNotFound, "get task")
	}
	return &t, nil
}

// TasksByCourse lists the course's live tasks by due date. publishedOnly hides drafts.
func (s *Store) TasksByCourse(ctx context.Context, courseID uuid.UUID, publishedOnly bool) ([]models.Task, error) {
	q := s.conn(ctx).Preload("Questions", orderedQuestions).Where("course_id = ?", courseID)
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	var tasks []models.Task
	err := q.Order("due_date ASC").Find(&tasks).Error
	return tasks, errors.Wrap(err, "tasks by course")
}

// TasksByCourses is the statistics input: every live task in the given courses.
func (s *Store) TasksByCourses(ctx context.Context, courseIDs []uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	if len(courseIDs) == 0 {
		return tasks, nil
	}
	err := s.conn(ctx).Where("course_id IN ?", courseIDs).Order("due_date ASC").Find(&tasks).Error
	return tasks, errors.Wrap(err, "tasks by courses")
}

func (s *Store) UpdateTask(ctx context.Context, t *models.Task) error {
	return errors.Wrap(s.conn(ctx).Model(t).Select(taskColumns).Updates(t).Error, "update task")
}

func (s *Store) SoftDeleteTask(ctx context.Context, id uuid.UUID) error {
	res := s.conn(ctx).Delete(&models.Task{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete task")
	}
	if res.RowsAffected == 0 {
		return apperr.ErrTaskNotFound
	}
	return nil
}

// TasksForStudent returns published tasks of the courses the student is enrolled in.
func (s *Store) TasksForStudent(ctx context.Context, studentID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := s.conn(ctx).
		Joins("JOIN enrollments ON enrollments.course_id = tasks.course_id").
		Where("enrollments.user_id = ? AND tasks.published = ?", studentID, true).
		Order("tasks.due_date ASC").
		Find(&tasks).Error
	return tasks, errors.Wrap(err, "tasks for student")
}

// TasksByInstructor pages through the live tasks of every course the instructor teaches,
// ordered by due date, with the number of handed-in submissions per task.
func (s *Store) TasksByInstructor(ctx context.Context, instructorID uuid.UUID, page, pageSize int) ([]models.TaskSubmissionCount, int64, error) {
	base := s.conn(ctx).Model(&models.Task{}).
		Joins("JOIN course_instructors ON course_instructors.course_id = tasks.course_id").
		Where("course_instructors.user_id = ?", instructorID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count instructor tasks")
	}

	counts := s.conn(ctx).Model(&models.TaskSubmission{}).
		Select("task_id, COUNT(*) AS submission_count").
		Where("status IN ?", []models.SubmissionStatus{models.SubmissionSubmitted, models.SubmissionGraded}).
		Group("task_id")

	var rows []models.TaskSubmissionCount
	err := base.Session(&gorm.Session{}).
		Select("tasks.*, COALESCE(sc.submission_count, 0) AS submission_count").
		Joins("LEFT JOIN (?) AS sc ON sc.task_id = tasks.id", counts).
		Order("tasks.due_date ASC, tasks.id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list instructor tasks")
	}
	return rows, total, nil
}

// PurgeDeletedTasks hard-deletes tasks soft-deleted before cutoff, with their submissions.
func (s *Store) PurgeDeletedTasks(ctx context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	err := s.Tx(ctx, func(tx *Store) error {
		db := tx.conn(ctx)
		expired := db.Unscoped().Model(&models.Task{}).Select("id").
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff)
		submissions := db.Model(&models.TaskSubmission{}).Select("id").Where("task_id IN (?)", expired)

		if err := db.Where("submission_id IN (?)", submissions).Delete(&models.StudentAnswer{}).Error; err != nil {
			return errors.Wrap(err, "purge answers")
		}
		if err := db.Where("task_id IN (?)", expired).Delete(&models.TaskSubmission{}).Error; err != nil {
			return errors.Wrap(err, "purge submissions")
		}
		if err := db.Where("task_id IN (?)", expired).Delete(&models.TaskQuestion{}).Error; err != nil {
			return errors.Wrap(err, "purge questions")
		}
		res := db.Unscoped().Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).Delete(&models.Task{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "purge tasks")
		}
		purged = res.RowsAffected
		return nil
	})
	return purged, err
}
