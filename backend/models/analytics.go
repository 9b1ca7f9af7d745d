package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseActivityLog is append-only. Rows are written when someone other than the titular
// instructor mutates a course.
type CourseActivityLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID      `gorm:"type:uuid;index;not null" json:"courseId"`
	ActorID   uuid.UUID      `gorm:"type:uuid;not null" json:"actorId"`
	Action    string         `gorm:"not null" json:"action"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
}

func (l *CourseActivityLog) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}

// TaskSubmissionCount is the row shape of the instructor task listing.
type TaskSubmissionCount struct {
	Task
	SubmissionCount int64 `json:"submission_count"`
}

// GradeAggregate is the per-task rollup used by the statistics service.
type GradeAggregate struct {
	TaskID      uuid.UUID
	Submissions int64
	Graded      int64
	GradeSum    float64
}
