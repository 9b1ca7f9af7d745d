package services

import (
	"context"
	"log"

	"aulavirtual/backend/ai"
	"aulavirtual/backend/apperr"
	"aulavirtual/backend/entities"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"

	"github.com/google/uuid"
)

type TaskService struct {
	store  *repository.Store
	oracle ai.GradingOracle
	policy GradingPolicy
	logger *log.Logger
	now    Clock
}

func NewTaskService(store *repository.Store, oracle ai.GradingOracle, policy GradingPolicy, logger *log.Logger) *TaskService {
	return &TaskService{store: store, oracle: oracle, policy: policy, logger: logger, now: systemClock}
}

// WithClock replaces the time source. Used by tests.
func (s *TaskService) WithClock(c Clock) *TaskService {
	s.now = c
	return s
}

func (s *TaskService) Add(ctx context.Context, courseID, actorID uuid.UUID, in entities.Input) (*models.Task, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	actor, err := requireInstructor(ctx, s.store, courseID, actorID, models.CanCreateContent)
	if err != nil {
		return nil, err
	}
	task, err := entities.NewTask(in, courseID, actorID)
	if err != nil {
		return nil, err
	}
	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		if err := tx.CreateTask(ctx, &task); err != nil {
			return err
		}
		return audit(ctx, tx, actor, "add_task", map[string]any{"taskId": task.ID, "title": task.Title})
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Update(ctx context.Context, taskID, actorID uuid.UUID, patch entities.Input) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	actor, err := requireInstructor(ctx, s.store, task.CourseID, actorID, models.CanCreateContent)
	if err != nil {
		return nil, err
	}
	if err := entities.ApplyTaskPatch(task, patch); err != nil {
		return nil, err
	}
	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}
		return audit(ctx, tx, actor, "update_task", map[string]any{"taskId": taskID, "changes": patch})
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Remove soft-deletes the task. The purge job drops it for good after the retention period.
func (s *TaskService) Remove(ctx context.Context, taskID, actorID uuid.UUID) error {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	actor, err := requireInstructor(ctx, s.store, task.CourseID, actorID, models.CanCreateContent)
	if err != nil {
		return err
	}
	if err := s.store.SoftDeleteTask(ctx, taskID); err != nil {
		return err
	}
	return audit(ctx, s.store, actor, "remove_task", map[string]any{"taskId": taskID})
}

// List returns every task to the course's instructors and only the visible ones to its
// students.
func (s *TaskService) List(ctx context.Context, courseID, viewerID uuid.UUID) ([]models.Task, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	if _, err := requireInstructor(ctx, s.store, courseID, viewerID, 0); err == nil {
		return s.store.TasksByCourse(ctx, courseID, false)
	} else if apperr.KindOf(err) != apperr.KindForbidden {
		return nil, err
	}
	if err := requireEnrolled(ctx, s.store, courseID, viewerID); err != nil {
		return nil, err
	}
	tasks, err := s.store.TasksByCourse(ctx, courseID, true)
	if err != nil {
		return nil, err
	}
	now := s.now()
	visible := tasks[:0]
	for _, t := range tasks {
		if t.VisibleAt(now) {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

// Get hides drafts and out-of-window tasks from students as if they did not exist.
func (s *TaskService) Get(ctx context.Context, taskID, viewerID uuid.UUID) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := requireInstructor(ctx, s.store, task.CourseID, viewerID, 0); err == nil {
		return task, nil
	} else if apperr.KindOf(err) != apperr.KindForbidden {
		return nil, err
	}
	if err := requireEnrolled(ctx, s.store, task.CourseID, viewerID); err != nil {
		return nil, err
	}
	if !task.VisibleAt(s.now()) {
		return nil, apperr.ErrTaskNotFound
	}
	return task, nil
}

// ForStudent lists published tasks of every course the student is enrolled in.
func (s *TaskService) ForStudent(ctx context.Context, studentID uuid.UUID) ([]models.Task, error) {
	return s.store.TasksForStudent(ctx, studentID)
}

type TaskPage struct {
	Tasks    []models.TaskSubmissionCount
	Total    int64
	Page     int
	PageSize int
}

const maxPageSize = 100

func (s *TaskService) ForInstructor(ctx context.Context, instructorID uuid.UUID, page, pageSize int) (*TaskPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	rows, total, err := s.store.TasksByInstructor(ctx, instructorID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &TaskPage{Tasks: rows, Total: total, Page: page, PageSize: pageSize}, nil
}
