package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Users live in the external identity provider; these rows only link user ids to courses.

type UserType string

const (
	UserTypeStudent    UserType = "student"
	UserTypeInstructor UserType = "instructor"
)

type Enrollment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_course_user;index" json:"userId"`
	CourseID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_course_user" json:"courseId"`
	EnrollmentDate time.Time `gorm:"not null" json:"enrollmentDate"`
}

func (e *Enrollment) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	if e.EnrollmentDate.IsZero() {
		e.EnrollmentDate = time.Now().UTC()
	}
	return nil
}

type InstructorType string

const (
	InstructorTitular  InstructorType = "TITULAR"
	InstructorAuxiliar InstructorType = "AUXILIAR"
)

type Capability int

const (
	CanCreateContent Capability = iota + 1
	CanGrade
	CanUpdateCourse
)

func (c Capability) String() string {
	switch c {
	case CanCreateContent:
		return "can_create_content"
	case CanGrade:
		return "can_grade"
	case CanUpdateCourse:
		return "can_update_course"
	}
	return "unknown"
}

type CourseInstructor struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_instructor_course_user" json:"courseId"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_instructor_course_user;index" json:"userId"`
	Type             InstructorType `gorm:"type:varchar(16);not null" json:"type"`
	CanCreateContent bool           `gorm:"not null;default:false" json:"can_create_content"`
	CanGrade         bool           `gorm:"not null;default:false" json:"can_grade"`
	CanUpdateCourse  bool           `gorm:"not null;default:false" json:"can_update_course"`
	CreatedAt        time.Time      `json:"createdAt"`
}

func (i *CourseInstructor) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// Has reports whether the instructor holds a capability. TITULAR holds all of them.
func (i *CourseInstructor) Has(c Capability) bool {
	if i.Type == InstructorTitular {
		return true
	}
	switch c {
	case CanCreateContent:
		return i.CanCreateContent
	case CanGrade:
		return i.CanGrade
	case CanUpdateCourse:
		return i.CanUpdateCourse
	}
	return false
}

type FavoriteCourse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_course_student" json:"courseId"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_course_student;index" json:"studentId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f *FavoriteCourse) BeforeCreate(*gorm.DB) error {
	assignID(&f.ID)
	return nil
}

// All lists every model for AutoMigrate, parents first.
func All() []any {
	return []any{
		&Course{},
		&Module{},
		&Resource{},
		&Enrollment{},
		&CourseInstructor{},
		&Task{},
		&TaskQuestion{},
		&TaskSubmission{},
		&StudentAnswer{},
		&CourseFeedback{},
		&StudentFeedback{},
		&FavoriteCourse{},
		&CourseActivityLog{},
	}
}
