package controllers

import (
	"aulavirtual/backend/ai"

	"github.com/google/uuid"
)

type ReorderRequest struct {
	Order []uuid.UUID `json:"order" validate:"required"`
}

type AddInstructorRequest struct {
	UserID           uuid.UUID `json:"userId" validate:"required"`
	CanCreateContent bool      `json:"can_create_content"`
	CanGrade         bool      `json:"can_grade"`
	CanUpdateCourse  bool      `json:"can_update_course"`
}

type PermissionsRequest struct {
	CanCreateContent bool `json:"can_create_content"`
	CanGrade         bool `json:"can_grade"`
	CanUpdateCourse  bool `json:"can_update_course"`
}

type AnswerRequest struct {
	QuestionID uuid.UUID `json:"question_id" validate:"required"`
	Answer     string    `json:"answer"`
}

type SubmitRequest struct {
	Answers   []AnswerRequest `json:"answers" validate:"dive"`
	FileURL   string          `json:"file_url" validate:"omitempty,url"`
	TimeSpent int             `json:"time_spent" validate:"gte=0"`
}

type GradeRequest struct {
	Grade    *float64 `json:"grade" validate:"required,gte=0,lte=10"`
	Feedback string   `json:"feedback" validate:"max=2000"`
}

type CourseFeedbackRequest struct {
	Punctuation int    `json:"punctuation" validate:"required,min=1,max=5"`
	Comment     string `json:"comment" validate:"required,max=500"`
}

type StudentFeedbackRequest struct {
	Punctuation float64 `json:"punctuation" validate:"required,gte=1,lte=5"`
	Comment     string  `json:"comment" validate:"required,max=500"`
}

type ChatRequest struct {
	Message string       `json:"message" validate:"required,max=4000"`
	History []ai.Message `json:"history" validate:"max=50"`
}
