package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionSubmitted  SubmissionStatus = "submitted"
	SubmissionGraded     SubmissionStatus = "graded"
)

// TaskSubmission is unique per (task, student). Grade is written by instructor actions only.
type TaskSubmission struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_submission_task_student" json:"task_id"`
	StudentID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_submission_task_student;index" json:"student_id"`
	StartedAt   *time.Time       `json:"started_at"`
	SubmittedAt *time.Time       `gorm:"index" json:"submitted_at"`
	Status      SubmissionStatus `gorm:"type:varchar(16);not null;default:'submitted'" json:"status"`
	Answers     datatypes.JSON   `json:"answers"`
	FileURL     string           `json:"file_url"`
	IsLate      bool             `gorm:"not null;default:false" json:"is_late"`
	LatePolicy  LatePolicy       `gorm:"type:varchar(32);not null;default:'none'" json:"late_policy"`
	Grade       *float64         `json:"grade"`
	RawGrade    *float64         `json:"raw_grade"`
	Feedback    *string          `gorm:"type:text" json:"feedback"`
	GradedBy    *uuid.UUID       `gorm:"type:uuid" json:"graded_by"`
	GradedAt    *time.Time       `json:"graded_at"`
	TimeSpent   int              `gorm:"not null;default:0" json:"time_spent"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	StudentAnswers []StudentAnswer `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"student_answers,omitempty"`
}

func (s *TaskSubmission) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (s *TaskSubmission) IsGraded() bool {
	return s.Status == SubmissionGraded && s.Grade != nil
}

type StudentAnswer struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID  uuid.UUID `gorm:"type:uuid;index;not null" json:"submission_id"`
	QuestionID    uuid.UUID `gorm:"type:uuid;index;not null" json:"question_id"`
	Answer        string    `gorm:"type:text" json:"answer"`
	AwardedPoints *float64  `json:"awarded_points"`
}

func (a *StudentAnswer) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}
