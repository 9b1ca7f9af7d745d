package services

import (
	"context"
	"log"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"

	"github.com/google/uuid"
)

type Permissions struct {
	CanCreateContent bool `json:"can_create_content"`
	CanGrade         bool `json:"can_grade"`
	CanUpdateCourse  bool `json:"can_update_course"`
}

func permissionsOf(ci *models.CourseInstructor) Permissions {
	return Permissions{
		CanCreateContent: ci.Has(models.CanCreateContent),
		CanGrade:         ci.Has(models.CanGrade),
		CanUpdateCourse:  ci.Has(models.CanUpdateCourse),
	}
}

type InstructorService struct {
	store  *repository.Store
	logger *log.Logger
}

func NewInstructorService(store *repository.Store, logger *log.Logger) *InstructorService {
	return &InstructorService{store: store, logger: logger}
}

// AddAuxiliary lets the course's TITULAR grant an AUXILIAR role with explicit capabilities.
func (s *InstructorService) AddAuxiliary(ctx context.Context, courseID, auxID, titularID uuid.UUID, perms Permissions) (*models.CourseInstructor, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	if _, err := requireTitular(ctx, s.store, courseID, titularID); err != nil {
		return nil, err
	}
	ci := &models.CourseInstructor{
		CourseID:         courseID,
		UserID:           auxID,
		Type:             models.InstructorAuxiliar,
		CanCreateContent: perms.CanCreateContent,
		CanGrade:         perms.CanGrade,
		CanUpdateCourse:  perms.CanUpdateCourse,
	}
	if err := s.store.CreateInstructor(ctx, ci); err != nil {
		return nil, err
	}
	s.logger.Printf("[InstructorService] %s added %s as AUXILIAR of %s", titularID, auxID, courseID)
	return ci, nil
}

func (s *InstructorService) Remove(ctx context.Context, courseID, userID, titularID uuid.UUID) error {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return err
	}
	if _, err := requireTitular(ctx, s.store, courseID, titularID); err != nil {
		return err
	}
	target, err := s.store.GetInstructor(ctx, courseID, userID)
	if err != nil {
		return err
	}
	if target.Type == models.InstructorTitular {
		return apperr.ErrCannotRemoveTitular
	}
	_, err = s.store.DeleteInstructor(ctx, courseID, userID)
	return err
}

func (s *InstructorService) UpdatePermissions(ctx context.Context, courseID, userID, titularID uuid.UUID, perms Permissions) (*models.CourseInstructor, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	if _, err := requireTitular(ctx, s.store, courseID, titularID); err != nil {
		return nil, err
	}
	target, err := s.store.GetInstructor(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if target.Type == models.InstructorTitular {
		return nil, apperr.New(apperr.KindConflict, "TitularPermissions", "the titular instructor always holds every permission")
	}
	target.CanCreateContent = perms.CanCreateContent
	target.CanGrade = perms.CanGrade
	target.CanUpdateCourse = perms.CanUpdateCourse
	if err := s.store.UpdateInstructorPermissions(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *InstructorService) IsInstructor(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	_, err := s.store.GetInstructor(ctx, courseID, userID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return false, nil
	}
	return err == nil, err
}

func (s *InstructorService) IsTitular(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	ci, err := s.store.GetInstructor(ctx, courseID, userID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ci.Type == models.InstructorTitular, nil
}

func (s *InstructorService) Permissions(ctx context.Context, courseID, userID uuid.UUID) (Permissions, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return Permissions{}, err
	}
	ci, err := s.store.GetInstructor(ctx, courseID, userID)
	if err != nil {
		return Permissions{}, err
	}
	return permissionsOf(ci), nil
}

func (s *InstructorService) ByCourse(ctx context.Context, courseID uuid.UUID) ([]models.CourseInstructor, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	return s.store.Instructors(ctx, courseID)
}

func (s *InstructorService) CoursesOf(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	return s.store.CoursesByInstructor(ctx, userID)
}
