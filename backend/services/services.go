// Package services holds the business rules. Services receive an explicit repository.Store and
// never reach for global state.
package services

import (
	"context"
	"log"
	"time"

	"aulavirtual/backend/ai"
	"aulavirtual/backend/apperr"
	"aulavirtual/backend/config"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

// Clock is swapped in tests to pin "now".
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// Services bundles every service over one store, the way routes wire them.
type Services struct {
	Courses     *CourseService
	Modules     *ModuleService
	Resources   *ResourceService
	Enrollments *EnrollmentService
	Instructors *InstructorService
	Tasks       *TaskService
	Stats       *StatsService
	Favorites   *FavoriteService
	Feedback    *FeedbackService
	Assistant   *AssistantService
}

func New(store *repository.Store, cfg *config.Config, completer ai.Completer, logger *log.Logger) *Services {
	grader := ai.NewCompletionGrader(completer, logger)
	policy := GradingPolicy{DiscountRate: cfg.LateDiscountRate, PenaltyPoints: cfg.LatePenaltyPoints}
	return &Services{
		Courses:     NewCourseService(store, logger),
		Modules:     NewModuleService(store, logger),
		Resources:   NewResourceService(store, logger),
		Enrollments: NewEnrollmentService(store, logger),
		Instructors: NewInstructorService(store, logger),
		Tasks:       NewTaskService(store, grader, policy, logger),
		Stats:       NewStatsService(store),
		Favorites:   NewFavoriteService(store),
		Feedback:    NewFeedbackService(store, completer, logger),
		Assistant:   NewAssistantService(store, completer, logger),
	}
}

// requireInstructor returns the caller's role in the course. A zero capability only checks
// membership.
func requireInstructor(ctx context.Context, store *repository.Store, courseID, userID uuid.UUID, capability models.Capability) (*models.CourseInstructor, error) {
	ci, err := store.GetInstructor(ctx, courseID, userID)
	if errors.Is(err, apperr.ErrInstructorNotFound) {
		return nil, apperr.ErrNotInstructor
	}
	if err != nil {
		return nil, err
	}
	if capability != 0 && !ci.Has(capability) {
		return nil, apperr.Newf(apperr.KindForbidden, apperr.ErrForbidden.Code,
			"instructor lacks the %s permission", capability)
	}
	return ci, nil
}

func requireTitular(ctx context.Context, store *repository.Store, courseID, userID uuid.UUID) (*models.CourseInstructor, error) {
	ci, err := store.GetInstructor(ctx, courseID, userID)
	if errors.Is(err, apperr.ErrInstructorNotFound) {
		return nil, apperr.ErrNotTitular
	}
	if err != nil {
		return nil, err
	}
	if ci.Type != models.InstructorTitular {
		return nil, apperr.ErrNotTitular
	}
	return ci, nil
}

func requireCourse(ctx context.Context, store *repository.Store, courseID uuid.UUID) error {
	ok, err := store.CourseExists(ctx, courseID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrCourseNotFound
	}
	return nil
}

func requireEnrolled(ctx context.Context, store *repository.Store, courseID, studentID uuid.UUID) error {
	ok, err := store.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotEnrolled
	}
	return nil
}

// audit records a mutation made by anyone but the course's titular instructor.
func audit(ctx context.Context, store *repository.Store, actor *models.CourseInstructor, action string, metadata map[string]any) error {
	if actor == nil || actor.Type == models.InstructorTitular {
		return nil
	}
	raw, err := sonic.Marshal(metadata)
	if err != nil {
		return errors.Wrap(err, "encode activity metadata")
	}
	return store.AppendActivity(ctx, &models.CourseActivityLog{
		CourseID: actor.CourseID,
		ActorID:  actor.UserID,
		Action:   action,
		Metadata: datatypes.JSON(raw),
	})
}
