package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskType string

const (
	TaskTypeAssignment TaskType = "tarea"
	TaskTypeExam       TaskType = "examen"
)

func (t TaskType) Valid() bool {
	return t == TaskTypeAssignment || t == TaskTypeExam
}

type LatePolicy string

const (
	LatePolicyNone               LatePolicy = "none"
	LatePolicyAccept             LatePolicy = "accept"
	LatePolicyAcceptWithDiscount LatePolicy = "accept_with_discount"
	LatePolicyAcceptWithPenalty  LatePolicy = "accept_with_penalty"
	LatePolicyDiscount           LatePolicy = "discount"
	LatePolicyPenalize           LatePolicy = "penalize"
)

func (p LatePolicy) Valid() bool {
	switch p {
	case LatePolicyNone, LatePolicyAccept, LatePolicyAcceptWithDiscount,
		LatePolicyAcceptWithPenalty, LatePolicyDiscount, LatePolicyPenalize:
		return true
	}
	return false
}

func (p LatePolicy) Discounts() bool {
	return p == LatePolicyDiscount || p == LatePolicyAcceptWithDiscount
}

func (p LatePolicy) Penalizes() bool {
	return p == LatePolicyPenalize || p == LatePolicyAcceptWithPenalty
}

type AnswerFormat string

const (
	AnswerFormatText           AnswerFormat = "text"
	AnswerFormatMultipleChoice AnswerFormat = "multiple_choice"
	AnswerFormatFile           AnswerFormat = "file"
	AnswerFormatMixed          AnswerFormat = "mixed"
)

func (f AnswerFormat) Valid() bool {
	switch f {
	case AnswerFormatText, AnswerFormatMultipleChoice, AnswerFormatFile, AnswerFormatMixed:
		return true
	}
	return false
}

// Task is soft-deleted; students only see it while Published and inside the visibility window.
type Task struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID         uuid.UUID      `gorm:"type:uuid;index;not null" json:"course_id"`
	CreatedBy        uuid.UUID      `gorm:"type:uuid;index;not null" json:"created_by"`
	Type             TaskType       `gorm:"type:varchar(16);not null" json:"type"`
	Title            string         `gorm:"not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Instructions     string         `gorm:"type:text" json:"instructions"`
	DueDate          time.Time      `gorm:"index;not null" json:"due_date"`
	AllowLate        bool           `gorm:"not null;default:false" json:"allow_late"`
	LatePolicy       LatePolicy     `gorm:"type:varchar(32);not null;default:'none'" json:"late_policy"`
	HasTimer         bool           `gorm:"not null;default:false" json:"has_timer"`
	TimeLimitMinutes *int           `json:"time_limit_minutes"`
	Published        bool           `gorm:"not null;default:false" json:"published"`
	VisibleFrom      *time.Time     `json:"visible_from"`
	VisibleUntil     *time.Time     `json:"visible_until"`
	AllowFileUpload  bool           `gorm:"not null;default:false" json:"allow_file_upload"`
	AnswerFormat     AnswerFormat   `gorm:"type:varchar(24);not null;default:'text'" json:"answer_format"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Questions   []TaskQuestion   `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Submissions []TaskSubmission `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// VisibleAt reports whether a student may see the task at the given instant.
func (t *Task) VisibleAt(at time.Time) bool {
	if !t.Published {
		return false
	}
	if t.VisibleFrom != nil && at.Before(*t.VisibleFrom) {
		return false
	}
	if t.VisibleUntil != nil && at.After(*t.VisibleUntil) {
		return false
	}
	return true
}

// LateAt is strict: submitting exactly at DueDate is on time.
func (t *Task) LateAt(at time.Time) bool {
	return at.After(t.DueDate)
}

type TaskQuestion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;index;not null" json:"task_id"`
	Prompt    string    `gorm:"type:text;not null" json:"prompt"`
	MaxPoints float64   `gorm:"not null" json:"max_points"`
	Order     int       `gorm:"column:sort_order;not null;default:0" json:"order"`
}

func (q *TaskQuestion) BeforeCreate(*gorm.DB) error {
	assignID(&q.ID)
	return nil
}
