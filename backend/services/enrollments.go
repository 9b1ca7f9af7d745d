package services

import (
	"context"
	"log"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"

	"github.com/google/uuid"
)

type EnrollmentService struct {
	store  *repository.Store
	logger *log.Logger
}

func NewEnrollmentService(store *repository.Store, logger *log.Logger) *EnrollmentService {
	return &EnrollmentService{store: store, logger: logger}
}

// Enroll runs the capacity check, the insert and the counter bump in one transaction on a
// locked course row. The counter update is guarded by enrolled < capacity as well, so a
// store without row locks still cannot overrun the course.
func (s *EnrollmentService) Enroll(ctx context.Context, courseID, userID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.store.Tx(ctx, func(tx *repository.Store) error {
		course, err := tx.LockCourse(ctx, courseID)
		if err != nil {
			return err
		}
		if course.Enrolled >= course.Capacity {
			return apperr.ErrCourseFull
		}
		enrollment = models.Enrollment{CourseID: courseID, UserID: userID}
		if err := tx.CreateEnrollment(ctx, &enrollment); err != nil {
			return err
		}
		ok, err := tx.IncrementEnrolled(ctx, courseID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrCourseFull
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("[EnrollmentService] user %s enrolled in %s", userID, courseID)
	return &enrollment, nil
}

func (s *EnrollmentService) Unenroll(ctx context.Context, courseID, userID uuid.UUID) error {
	return s.store.Tx(ctx, func(tx *repository.Store) error {
		if _, err := tx.LockCourse(ctx, courseID); err != nil {
			return err
		}
		removed, err := tx.DeleteEnrollment(ctx, courseID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.ErrNotEnrolled
		}
		if _, err := tx.DeleteFavorite(ctx, courseID, userID); err != nil {
			return err
		}
		return tx.DecrementEnrolled(ctx, courseID)
	})
}

// IsEnrolled is a pure existence check; the course itself must exist.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return false, err
	}
	return s.store.IsEnrolled(ctx, courseID, userID)
}

// Students lists the course's enrollments for any of its instructors.
func (s *EnrollmentService) Students(ctx context.Context, courseID, actorID uuid.UUID) ([]models.Enrollment, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	if _, err := requireInstructor(ctx, s.store, courseID, actorID, 0); err != nil {
		return nil, err
	}
	return s.store.Enrollments(ctx, courseID)
}
