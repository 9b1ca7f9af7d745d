package repository

import (
	"context"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// courseColumns are the columns a course PATCH may touch. Enrolled is owned by enrollments.
var courseColumns = []string{
	"name", "description", "short_description", "start_date", "end_date", "capacity",
	"category", "level", "modality", "prerequisites", "image_url",
}

func (s *Store) CreateCourse(ctx context.Context, c *models.Course) error {
	return errors.Wrap(s.conn(ctx).Omit(clause.Associations).Create(c).Error, "create course")
}

func (s *Store) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var c models.Course
	if err := s.conn(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err, apperr.ErrCourseNotFound, "get course")
	}
	return &c, nil
}

// LockCourse reads the course with FOR UPDATE. Only meaningful inside Tx.
func (s *Store) LockCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var c models.Course
	err := s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, apperr.ErrCourseNotFound, "lock course")
	}
	return &c, nil
}

func (s *Store) CourseExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Course{}).Where("id = ?", id).Count(&n).Error
	return n > 0, errors.Wrap(err, "count course")
}

func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := s.conn(ctx).Order("start_date ASC, name ASC").Find(&courses).Error
	return courses, errors.Wrap(err, "list courses")
}

func (s *Store) UpdateCourse(ctx context.Context, c *models.Course) error {
	err := s.conn(ctx).Model(c).Select(courseColumns).Updates(c).Error
	return errors.Wrap(err, "update course")
}

// DeleteCourse removes the course and everything hanging off it. The explicit deletes keep the
// behaviour identical whether or not the database enforces the cascade constraints.
func (s *Store) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return s.Tx(ctx, func(tx *Store) error {
		db := tx.conn(ctx)

		if ok, err := tx.CourseExists(ctx, id); err != nil {
			return err
		} else if !ok {
			return apperr.ErrCourseNotFound
		}

		modules := db.Model(&models.Module{}).Select("id").Where("course_id = ?", id)
		if err := db.Where("module_id IN (?)", modules).Delete(&models.Resource{}).Error; err != nil {
			return errors.Wrap(err, "delete resources")
		}
		tasks := db.Unscoped().Model(&models.Task{}).Select("id").Where("course_id = ?", id)
		submissions := db.Model(&models.TaskSubmission{}).Select("id").Where("task_id IN (?)", tasks)
		if err := db.Where("submission_id IN (?)", submissions).Delete(&models.StudentAnswer{}).Error; err != nil {
			return errors.Wrap(err, "delete answers")
		}
		if err := db.Where("task_id IN (?)", tasks).Delete(&models.TaskSubmission{}).Error; err != nil {
			return errors.Wrap(err, "delete submissions")
		}
		if err := db.Where("task_id IN (?)", tasks).Delete(&models.TaskQuestion{}).Error; err != nil {
			return errors.Wrap(err, "delete questions")
		}
		if err := db.Unscoped().Where("course_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return errors.Wrap(err, "delete tasks")
		}
		for _, child := range []any{
			&models.Module{}, &models.Enrollment{}, &models.CourseInstructor{}, &models.FavoriteCourse{},
			&models.CourseFeedback{}, &models.StudentFeedback{}, &models.CourseActivityLog{},
		} {
			if err := db.Where("course_id = ?", id).Delete(child).Error; err != nil {
				return errors.Wrapf(err, "delete %T", child)
			}
		}
		return errors.Wrap(db.Delete(&models.Course{}, "id = ?", id).Error, "delete course")
	})
}

// CoursesByUser returns the courses the user is enrolled in.
func (s *Store) CoursesByUser(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	var courses []models.Course
	err := s.conn(ctx).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Order("enrollments.enrollment_date ASC").
		Find(&courses).Error
	return courses, errors.Wrap(err, "courses by user")
}

// CoursesByInstructor returns the courses where the user holds any instructor role.
func (s *Store) CoursesByInstructor(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	var courses []models.Course
	err := s.conn(ctx).
		Joins("JOIN course_instructors ON course_instructors.course_id = courses.id").
		Where("course_instructors.user_id = ?", userID).
		Order("courses.start_date ASC").
		Find(&courses).Error
	return courses, errors.Wrap(err, "courses by instructor")
}

// IncrementEnrolled bumps the counter only while a seat is left. It reports false when the
// guard rejected the update.
func (s *Store) IncrementEnrolled(ctx context.Context, id uuid.UUID) (bool, error) {
	res := s.conn(ctx).Model(&models.Course{}).
		Where("id = ? AND enrolled < capacity", id).
		UpdateColumn("enrolled", gorm.Expr("enrolled + 1"))
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "increment enrolled")
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) DecrementEnrolled(ctx context.Context, id uuid.UUID) error {
	err := s.conn(ctx).Model(&models.Course{}).
		Where("id = ? AND enrolled > 0", id).
		UpdateColumn("enrolled", gorm.Expr("enrolled - 1")).Error
	return errors.Wrap(err, "decrement enrolled")
}

func (s *Store) AppendActivity(ctx context.Context, entry *models.CourseActivityLog) error {
	return errors.Wrap(s.conn(ctx).Create(entry).Error, "append activity")
}

func (s *Store) ActivityLog(ctx context.Context, courseID uuid.UUID) ([]models.CourseActivityLog, error) {
	var entries []models.CourseActivityLog
	err := s.conn(ctx).Where("course_id = ?", courseID).Order("created_at DESC").Find(&entries).Error
	return entries, errors.Wrap(err, "activity log")
}
