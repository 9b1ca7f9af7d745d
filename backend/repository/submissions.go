package repository

import (
	"context"
	"time"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

var handedIn = []models.SubmissionStatus{models.SubmissionSubmitted, models.SubmissionGraded}

// CreateSubmission relies on the (task_id, student_id) unique index for at-most-once.
func (s *Store) CreateSubmission(ctx context.Context, sub *models.TaskSubmission) error {
	err := s.conn(ctx).Create(sub).Error
	if isUniqueViolation(err) {
		return apperr.ErrAlreadySubmitted
	}
	return errors.Wrap(err, "create submission")
}

func (s *Store) GetSubmission(ctx context.Context, taskID, studentID uuid.UUID) (*models.TaskSubmission, error) {
	var sub models.TaskSubmission
	err := s.conn(ctx).Preload("StudentAnswers").
		Where("task_id = ? AND student_id = ?", taskID, studentID).
		First(&sub).Error
	if err != nil {
		return nil, notFound(err, apperr.ErrSubmissionNotFound, "get submission")
	}
	return &sub, nil
}

// LockSubmission is GetSubmission with FOR UPDATE, without answers.
func (s *Store) LockSubmission(ctx context.Context, taskID, studentID uuid.UUID) (*models.TaskSubmission, error) {
	var sub models.TaskSubmission
	err := s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("task_id = ? AND student_id = ?", taskID, studentID).
		First(&sub).Error
	if err != nil {
		return nil, notFound(err, apperr.ErrSubmissionNotFound, "lock submission")
	}
	return &sub, nil
}

// SaveSubmission writes every column of the submission row. Answers are stored separately.
func (s *Store) SaveSubmission(ctx context.Context, sub *models.TaskSubmission) error {
	return errors.Wrap(s.conn(ctx).Omit(clause.Associations).Save(sub).Error, "save submission")
}

func (s *Store) CreateAnswers(ctx context.Context, answers []models.StudentAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	return errors.Wrap(s.conn(ctx).Create(&answers).Error, "create answers")
}

func (s *Store) UpdateAnswerPoints(ctx context.Context, answerID uuid.UUID, points float64) error {
	err := s.conn(ctx).Model(&models.StudentAnswer{}).Where("id = ?", answerID).
		UpdateColumn("awarded_points", points).Error
	return errors.Wrap(err, "update answer points")
}

func (s *Store) SubmissionsByTask(ctx context.Context, taskID uuid.UUID) ([]models.TaskSubmission, error) {
	var subs []models.TaskSubmission
	err := s.conn(ctx).Preload("StudentAnswers").
		Where("task_id = ?", taskID).
		Order("submitted_at ASC").
		Find(&subs).Error
	return subs, errors.Wrap(err, "submissions by task")
}

type AggregateFilter struct {
	StudentID *uuid.UUID
	From      time.Time
	To        time.Time
}

// GradeAggregates rolls up handed-in submissions per task. Tasks without submissions in the
// window have no row.
func (s *Store) GradeAggregates(ctx context.Context, taskIDs []uuid.UUID, f AggregateFilter) ([]models.GradeAggregate, error) {
	var rows []models.GradeAggregate
	if len(taskIDs) == 0 {
		return rows, nil
	}
	q := s.conn(ctx).Model(&models.TaskSubmission{}).
		Select(`task_id,
			COUNT(*) AS submissions,
			SUM(CASE WHEN status = ? AND grade IS NOT NULL THEN 1 ELSE 0 END) AS graded,
			COALESCE(SUM(CASE WHEN status = ? THEN grade END), 0) AS grade_sum`,
			models.SubmissionGraded, models.SubmissionGraded).
		Where("task_id IN ?", taskIDs).
		Where("status IN ?", handedIn)
	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}
	if !f.From.IsZero() {
		q = q.Where("submitted_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("submitted_at <= ?", f.To)
	}
	err := q.Group("task_id").Scan(&rows).Error
	return rows, errors.Wrap(err, "grade aggregates")
}
