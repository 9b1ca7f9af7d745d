package services

import (
	"context"
	"log"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/entities"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"

	"github.com/google/uuid"
)

type CourseService struct {
	store  *repository.Store
	logger *log.Logger
}

func NewCourseService(store *repository.Store, logger *log.Logger) *CourseService {
	return &CourseService{store: store, logger: logger}
}

// Create stores the course and registers the creator as its TITULAR in one transaction.
func (s *CourseService) Create(ctx context.Context, in entities.Input, creatorID uuid.UUID) (*models.Course, error) {
	course, err := entities.NewCourse(in, creatorID)
	if err != nil {
		return nil, err
	}
	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		if err := tx.CreateCourse(ctx, &course); err != nil {
			return err
		}
		return tx.CreateInstructor(ctx, &models.CourseInstructor{
			CourseID:         course.ID,
			UserID:           creatorID,
			Type:             models.InstructorTitular,
			CanCreateContent: true,
			CanGrade:         true,
			CanUpdateCourse:  true,
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("[CourseService] course %s created by %s", course.ID, creatorID)
	return &course, nil
}

func (s *CourseService) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.store.GetCourse(ctx, id)
}

func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	return s.store.ListCourses(ctx)
}

// Update merges patch over the stored course. Changes by anyone other than the TITULAR are
// written to the activity log.
func (s *CourseService) Update(ctx context.Context, id uuid.UUID, patch entities.Input, actorID uuid.UUID) (*models.Course, error) {
	var updated *models.Course
	err := s.store.Tx(ctx, func(tx *repository.Store) error {
		course, err := tx.LockCourse(ctx, id)
		if err != nil {
			return err
		}
		actor, err := requireInstructor(ctx, tx, id, actorID, models.CanUpdateCourse)
		if err != nil {
			return err
		}
		if err := entities.ApplyCoursePatch(course, patch); err != nil {
			return err
		}
		if err := tx.UpdateCourse(ctx, course); err != nil {
			return err
		}
		if err := audit(ctx, tx, actor, "update_course", map[string]any{"changes": patch}); err != nil {
			return err
		}
		updated = course
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CourseService) Remove(ctx context.Context, id, actorID uuid.UUID) error {
	if err := requireCourse(ctx, s.store, id); err != nil {
		return err
	}
	if _, err := requireTitular(ctx, s.store, id, actorID); err != nil {
		return err
	}
	if err := s.store.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.logger.Printf("[CourseService] course %s removed by %s", id, actorID)
	return nil
}

func (s *CourseService) ActivityLog(ctx context.Context, id, actorID uuid.UUID) ([]models.CourseActivityLog, error) {
	if err := requireCourse(ctx, s.store, id); err != nil {
		return nil, err
	}
	if _, err := requireTitular(ctx, s.store, id, actorID); err != nil {
		return nil, err
	}
	return s.store.ActivityLog(ctx, id)
}

// ByUser lists the courses a user is enrolled in. No enrollments is reported as not found.
func (s *CourseService) ByUser(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	courses, err := s.store.CoursesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, apperr.ErrNoEnrollments
	}
	return courses, nil
}
