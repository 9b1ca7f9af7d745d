package services

import (
	"context"
	"math"

	"aulavirtual/backend/ai"
	"aulavirtual/backend/apperr"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"

	"github.com/google/uuid"
)

const maxGrade = 10.0

// GradingPolicy turns a late submission's recorded policy into arithmetic.
type GradingPolicy struct {
	DiscountRate  float64
	PenaltyPoints float64
}

// Apply returns the grade that is stored for a submission given the instructor's raw grade.
func (p GradingPolicy) Apply(raw float64, late bool, policy models.LatePolicy) float64 {
	if !late {
		return raw
	}
	switch {
	case policy.Discounts():
		return round2(raw * (1 - p.DiscountRate))
	case policy.Penalizes():
		return round2(math.Max(raw-p.PenaltyPoints, 0))
	}
	return raw
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type GradeInput struct {
	Grade    float64
	Feedback string
}

// Grade sets grade and feedback on the student's submission and marks it graded. Regrading
// overwrites the previous values.
func (s *TaskService) Grade(ctx context.Context, taskID, studentID, instructorID uuid.UUID, in GradeInput) (*models.TaskSubmission, error) {
	if in.Grade < 0 || in.Grade > maxGrade || math.IsNaN(in.Grade) {
		return nil, apperr.Validation("grade must be between 0 and 10", map[string]string{"grade": "out of range"})
	}
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := requireInstructor(ctx, s.store, task.CourseID, instructorID, models.CanGrade); err != nil {
		return nil, err
	}
	var graded *models.TaskSubmission
	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		sub, err := s.applyGrade(ctx, tx, taskID, studentID, instructorID, in)
		graded = sub
		return err
	})
	if err != nil {
		return nil, err
	}
	return graded, nil
}

func (s *TaskService) applyGrade(ctx context.Context, tx *repository.Store, taskID, studentID, instructorID uuid.UUID, in GradeInput) (*models.TaskSubmission, error) {
	sub, err := tx.LockSubmission(ctx, taskID, studentID)
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubmissionInProgress {
		return nil, apperr.ErrNotSubmitted
	}
	now := s.now()
	raw := in.Grade
	final := s.policy.Apply(raw, sub.IsLate, sub.LatePolicy)
	feedback := in.Feedback
	grader := instructorID

	sub.RawGrade = &raw
	sub.Grade = &final
	sub.Feedback = &feedback
	sub.GradedBy = &grader
	sub.GradedAt = &now
	sub.Status = models.SubmissionGraded
	if err := tx.SaveSubmission(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

type AIGrading struct {
	ai.GradingResult
	Applied    bool                   `json:"applied"`
	Submission *models.TaskSubmission `json:"submission,omitempty"`
}

// AIGrade asks the oracle for a suggestion. With apply it is stored like a manual grade,
// including the per-question points; a failed suggestion is never applied.
func (s *TaskService) AIGrade(ctx context.Context, taskID, studentID, instructorID uuid.UUID, apply bool) (*AIGrading, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := requireInstructor(ctx, s.store, task.CourseID, instructorID, models.CanGrade); err != nil {
		return nil, err
	}
	sub, err := s.store.GetSubmission(ctx, taskID, studentID)
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubmissionInProgress {
		return nil, apperr.ErrNotSubmitted
	}

	answers := make(map[uuid.UUID]models.StudentAnswer, len(sub.StudentAnswers))
	for _, a := range sub.StudentAnswers {
		answers[a.QuestionID] = a
	}
	items := make([]ai.QuestionAnswer, 0, len(task.Questions))
	for _, q := range task.Questions {
		items = append(items, ai.QuestionAnswer{
			QuestionID: q.ID,
			Prompt:     q.Prompt,
			MaxPoints:  q.MaxPoints,
			Answer:     answers[q.ID].Answer,
		})
	}

	result := s.oracle.Grade(ctx, task.Title, task.Instructions, items)
	out := &AIGrading{GradingResult: result}
	if !apply || result.Failed {
		return out, nil
	}

	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		for _, q := range result.Questions {
			if a, ok := answers[q.QuestionID]; ok {
				if err := tx.UpdateAnswerPoints(ctx, a.ID, q.AwardedPoints); err != nil {
					return err
				}
			}
		}
		graded, err := s.applyGrade(ctx, tx, taskID, studentID, instructorID, GradeInput{Grade: result.Grade, Feedback: result.Feedback})
		out.Submission = graded
		return err
	})
	if err != nil {
		return nil, err
	}
	out.Applied = true
	return out, nil
}
