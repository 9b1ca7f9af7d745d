package services

import (
	"context"
	"fmt"
	"time"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

type AnswerInput struct {
	QuestionID uuid.UUID `json:"question_id"`
	Answer     string    `json:"answer"`
}

type SubmitInput struct {
	Answers []AnswerInput
	FileURL string
	// TimeSpent is the client-reported duration in seconds for untimed tasks.
	TimeSpent int
}

// available loads a task the student may work on right now.
func (s *TaskService) available(ctx context.Context, taskID, studentID uuid.UUID, at time.Time) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrolled(ctx, s.store, task.CourseID, studentID); err != nil {
		return nil, err
	}
	if !task.VisibleAt(at) {
		return nil, apperr.ErrTaskNotAvailable
	}
	return task, nil
}

// Start opens a timed attempt. The clock for time_spent starts here.
func (s *TaskService) Start(ctx context.Context, taskID, studentID uuid.UUID) (*models.TaskSubmission, error) {
	now := s.now()
	task, err := s.available(ctx, taskID, studentID, now)
	if err != nil {
		return nil, err
	}
	if !task.HasTimer {
		return nil, apperr.ErrTaskNotTimed
	}
	if task.LateAt(now) && !task.AllowLate {
		return nil, apperr.ErrLateNotAllowed
	}
	sub := &models.TaskSubmission{
		TaskID:    taskID,
		StudentID: studentID,
		StartedAt: &now,
		Status:    models.SubmissionInProgress,
	}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		if errors.Is(err, apperr.ErrAlreadySubmitted) {
			return nil, s.conflictFor(ctx, taskID, studentID)
		}
		return nil, err
	}
	return sub, nil
}

func (s *TaskService) conflictFor(ctx context.Context, taskID, studentID uuid.UUID) error {
	existing, err := s.store.GetSubmission(ctx, taskID, studentID)
	if err == nil && existing.Status == models.SubmissionInProgress {
		return apperr.ErrAlreadyStarted
	}
	return apperr.ErrAlreadySubmitted
}

// Submit hands in the student's work. Lateness is decided against the server clock: exactly
// at due_date is on time. The late policy is recorded here and applied when grading.
func (s *TaskService) Submit(ctx context.Context, taskID, studentID uuid.UUID, in SubmitInput) (*models.TaskSubmission, error) {
	now := s.now()
	task, err := s.available(ctx, taskID, studentID, now)
	if err != nil {
		return nil, err
	}
	late := task.LateAt(now)
	if late && !task.AllowLate {
		return nil, apperr.ErrLateNotAllowed
	}
	if in.FileURL != "" && !task.AllowFileUpload {
		return nil, apperr.ErrFileUploadNotAccepted
	}
	answers, err := answerRows(task, in.Answers)
	if err != nil {
		return nil, err
	}
	raw, err := sonic.Marshal(in.Answers)
	if err != nil {
		return nil, errors.Wrap(err, "encode answers")
	}

	var sub *models.TaskSubmission
	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		existing, err := tx.LockSubmission(ctx, taskID, studentID)
		switch {
		case err == nil && existing.Status != models.SubmissionInProgress:
			return apperr.ErrAlreadySubmitted
		case err == nil:
			sub = existing
		case errors.Is(err, apperr.ErrSubmissionNotFound):
			if task.HasTimer {
				return apperr.ErrTaskNotStarted
			}
			sub = &models.TaskSubmission{TaskID: taskID, StudentID: studentID, TimeSpent: max(in.TimeSpent, 0)}
		default:
			return err
		}

		if task.HasTimer {
			sub.TimeSpent = int(now.Sub(*sub.StartedAt).Seconds())
			if task.TimeLimitMinutes != nil && sub.TimeSpent > *task.TimeLimitMinutes*60 {
				return apperr.ErrTimeLimitExceeded
			}
		}

		sub.Status = models.SubmissionSubmitted
		sub.SubmittedAt = &now
		sub.Answers = datatypes.JSON(raw)
		sub.FileURL = in.FileURL
		sub.IsLate = late
		sub.LatePolicy = models.LatePolicyNone
		if late {
			sub.LatePolicy = task.LatePolicy
		}

		if sub.ID == uuid.Nil {
			if err := tx.CreateSubmission(ctx, sub); err != nil {
				return err
			}
		} else if err := tx.SaveSubmission(ctx, sub); err != nil {
			return err
		}
		for i := range answers {
			answers[i].SubmissionID = sub.ID
		}
		if err := tx.CreateAnswers(ctx, answers); err != nil {
			return err
		}
		sub.StudentAnswers = answers
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// answerRows maps answers onto the task's questions. Unknown or repeated question ids are
// rejected.
func answerRows(task *models.Task, in []AnswerInput) ([]models.StudentAnswer, error) {
	known := make(map[uuid.UUID]bool, len(task.Questions))
	for _, q := range task.Questions {
		known[q.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(in))
	rows := make([]models.StudentAnswer, 0, len(in))
	for i, a := range in {
		if a.QuestionID == uuid.Nil {
			continue
		}
		if !known[a.QuestionID] || seen[a.QuestionID] {
			field := fmt.Sprintf("answers[%d].question_id", i)
			return nil, apperr.Validation("answer does not match a question of this task",
				map[string]string{field: a.QuestionID.String()})
		}
		seen[a.QuestionID] = true
		rows = append(rows, models.StudentAnswer{QuestionID: a.QuestionID, Answer: a.Answer})
	}
	return rows, nil
}

// Submissions lists every submission of a task for the course's instructors.
func (s *TaskService) Submissions(ctx context.Context, taskID, instructorID uuid.UUID) ([]models.TaskSubmission, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := requireInstructor(ctx, s.store, task.CourseID, instructorID, 0); err != nil {
		return nil, err
	}
	return s.store.SubmissionsByTask(ctx, taskID)
}

// Submission is readable by its student and by the course's instructors.
func (s *TaskService) Submission(ctx context.Context, taskID, studentID, viewerID uuid.UUID) (*models.TaskSubmission, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if viewerID != studentID {
		if _, err := requireInstructor(ctx, s.store, task.CourseID, viewerID, 0); err != nil {
			return nil, apperr.ErrForbidden
		}
	}
	return s.store.GetSubmission(ctx, taskID, studentID)
}
