package repository

import (
	"context"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func (s *Store) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	err := s.conn(ctx).Create(e).Error
	if isUniqueViolation(err) {
		return apperr.ErrAlreadyEnrolled
	}
	return errors.Wrap(err, "create enrollment")
}

// DeleteEnrollment reports whether a row was removed.
func (s *Store) DeleteEnrollment(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	res := s.conn(ctx).Where("course_id = ? AND user_id = ?", courseID, userID).Delete(&models.Enrollment{})
	return res.RowsAffected > 0, errors.Wrap(res.Error, "delete enrollment")
}

func (s *Store) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).Count(&n).Error
	return n > 0, errors.Wrap(err, "is enrolled")
}

func (s *Store) Enrollments(ctx context.Context, courseID uuid.UUID) ([]models.Enrollment, error) {
	var rows []models.Enrollment
	err := s.conn(ctx).Where("course_id = ?", courseID).Order("enrollment_date ASC").Find(&rows).Error
	return rows, errors.Wrap(err, "list enrollments")
}

// EnrollmentCounts returns enrollments per course for the given ids. Missing keys mean zero.
func (s *Store) EnrollmentCounts(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		CourseID uuid.UUID
		Total    int64
	}
	err := s.conn(ctx).Model(&models.Enrollment{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "enrollment counts")
	}
	for _, r := range rows {
		out[r.CourseID] = r.Total
	}
	return out, nil
}

func (s *Store) CreateInstructor(ctx context.Context, ci *models.CourseInstructor) error {
	err := s.conn(ctx).Create(ci).Error
	if isUniqueViolation(err) {
		return apperr.ErrAlreadyInstructor
	}
	return errors.Wrap(err, "create instructor")
}

func (s *Store) GetInstructor(ctx context.Context, courseID, userID uuid.UUID) (*models.CourseInstructor, error) {
	var ci models.CourseInstructor
	err := s.conn(ctx).Where("course_id = ? AND user_id = ?", courseID, userID).First(&ci).Error
	if err != nil {
		return nil, notFound(err, apperr.ErrInstructorNotFound, "get instructor")
	}
	return &ci, nil
}

func (s *Store) UpdateInstructorPermissions(ctx context.Context, ci *models.CourseInstructor) error {
	err := s.conn(ctx).Model(ci).
		Select("can_create_content", "can_grade", "can_update_course").
		Updates(ci).Error
	return errors.Wrap(err, "update instructor")
}

func (s *Store) DeleteInstructor(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	res := s.conn(ctx).Where("course_id = ? AND user_id = ?", courseID, userID).Delete(&models.CourseInstructor{})
	return res.RowsAffected > 0, errors.Wrap(res.Error, "delete instructor")
}

func (s *Store) Instructors(ctx context.Context, courseID uuid.UUID) ([]models.CourseInstructor, error) {
	var rows []models.CourseInstructor
	err := s.conn(ctx).Where("course_id = ?", courseID).Order("type DESC, created_at ASC").Find(&rows).Error
	return rows, errors.Wrap(err, "list instructors")
}

func (s *Store) CreateFavorite(ctx context.Context, f *models.FavoriteCourse) error {
	err := s.conn(ctx).Create(f).Error
	if isUniqueViolation(err) {
		return apperr.ErrAlreadyFavorite
	}
	return errors.Wrap(err, "create favorite")
}

func (s *Store) DeleteFavorite(ctx context.Context, courseID, studentID uuid.UUID) (bool, error) {
	res := s.conn(ctx).Where("course_id = ? AND student_id = ?", courseID, studentID).Delete(&models.FavoriteCourse{})
	return res.RowsAffected > 0, errors.Wrap(res.Error, "delete favorite")
}

func (s *Store) FavoriteCourses(ctx context.Context, studentID uuid.UUID) ([]models.Course, error) {
	var courses []models.Course
	err := s.conn(ctx).
		Joins("JOIN favorite_courses ON favorite_courses.course_id = courses.id").
		Where("favorite_courses.student_id = ?", studentID).
		Order("favorite_courses.created_at DESC").
		Find(&courses).Error
	return courses, errors.Wrap(err, "favorite courses")
}

func (s *Store) CreateCourseFeedback(ctx context.Context, f *models.CourseFeedback) error {
	err := s.conn(ctx).Create(f).Error
	if isUniqueViolation(err) {
		return apperr.ErrAlreadyGaveFeedback
	}
	return errors.Wrap(err, "create course feedback")
}

func (s *Store) CourseFeedback(ctx context.Context, courseID uuid.UUID) ([]models.CourseFeedback, error) {
	var rows []models.CourseFeedback
	err := s.conn(ctx).Where("course_id = ?", courseID).Order("created_at DESC").Find(&rows).Error
	return rows, errors.Wrap(err, "course feedback")
}

func (s *Store) CreateStudentFeedback(ctx context.Context, f *models.StudentFeedback) error {
	err := s.conn(ctx).Create(f).Error
	if isUniqueViolation(err) {
		return apperr.ErrAlreadyGaveFeedback
	}
	return errors.Wrap(err, "create student feedback")
}

func (s *Store) StudentFeedback(ctx context.Context, courseID, studentID uuid.UUID) ([]models.StudentFeedback, error) {
	var rows []models.StudentFeedback
	err := s.conn(ctx).Where("course_id = ? AND student_id = ?", courseID, studentID).
		Order("created_at DESC").Find(&rows).Error
	return rows, errors.Wrap(err, "student feedback")
}
