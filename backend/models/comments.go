package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseFeedback is a student's rating of a course, one per (course, student).
type CourseFeedback struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_feedback" json:"courseId"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_feedback" json:"studentId"`
	Punctuation int       `gorm:"not null;check:punctuation >= 1 AND punctuation <= 5" json:"punctuation"`
	Comment     string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (f *CourseFeedback) BeforeCreate(*gorm.DB) error {
	assignID(&f.ID)
	return nil
}

// StudentFeedback is an instructor's note about a student, one per (course, student, instructor).
type StudentFeedback struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_student_feedback" json:"courseId"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_student_feedback" json:"studentId"`
	InstructorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_student_feedback" json:"instructorId"`
	Punctuation  float64   `gorm:"not null" json:"punctuation"`
	Comment      string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (f *StudentFeedback) BeforeCreate(*gorm.DB) error {
	assignID(&f.ID)
	return nil
}
