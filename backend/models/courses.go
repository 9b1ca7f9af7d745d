package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

func (l CourseLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type CourseModality string

const (
	ModalityOnline   CourseModality = "Online"
	ModalityInPerson CourseModality = "In-person"
	ModalityHybrid   CourseModality = "Hybrid"
)

func (m CourseModality) Valid() bool {
	switch m {
	case ModalityOnline, ModalityInPerson, ModalityHybrid:
		return true
	}
	return false
}

// Course.Enrolled is only moved by the enrollment repository, inside a transaction.
type Course struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string                      `gorm:"not null" json:"name"`
	Description      string                      `gorm:"type:text;not null" json:"description"`
	ShortDescription string                      `json:"shortDescription"`
	StartDate        time.Time                   `gorm:"not null" json:"startDate"`
	EndDate          time.Time                   `gorm:"not null" json:"endDate"`
	Capacity         int                         `gorm:"not null" json:"capacity"`
	Enrolled         int                         `gorm:"not null;default:0" json:"enrolled"`
	Category         string                      `gorm:"not null" json:"category"`
	Level            CourseLevel                 `gorm:"type:varchar(16);not null" json:"level"`
	Modality         CourseModality              `gorm:"type:varchar(16);not null" json:"modality"`
	Prerequisites    datatypes.JSONSlice[string] `json:"prerequisites"`
	ImageURL         string                      `json:"imageUrl"`
	CreatorID        uuid.UUID                   `gorm:"type:uuid;index;not null" json:"creatorId"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`

	Modules      []Module            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Tasks        []Task              `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Enrollments  []Enrollment        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Instructors  []CourseInstructor  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Favorites    []FavoriteCourse    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Feedback     []CourseFeedback    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	StudentNotes []StudentFeedback   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ActivityLog  []CourseActivityLog `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Course) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

type Module struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;index;not null" json:"courseId"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	URL         string    `json:"url"`
	Order       int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Resources []Resource `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (m *Module) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	return nil
}

type Resource struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID    uuid.UUID `gorm:"type:uuid;index;not null" json:"moduleId"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Type        string    `gorm:"not null" json:"type"`
	URL         string    `gorm:"not null" json:"url"`
	Order       int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (r *Resource) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
