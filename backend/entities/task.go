package entities

import (
	"fmt"

	"aulavirtual/backend/models"

	"github.com/google/uuid"
)

// NewTask checks course_id, created_by, type, title, description, instructions, due_date,
// then the optional scheduling, late and answer settings, then the questions.
func NewTask(in Input, courseID, createdBy uuid.UUID) (models.Task, error) {
	var t models.Task
	var err error

	if courseID == uuid.Nil {
		return models.Task{}, missing("course_id")
	}
	t.CourseID = courseID
	if createdBy == uuid.Nil {
		return models.Task{}, missing("created_by")
	}
	t.CreatedBy = createdBy

	taskType, err := in.requiredString("type")
	if err != nil {
		return models.Task{}, err
	}
	t.Type = models.TaskType(taskType)
	if !t.Type.Valid() {
		return models.Task{}, invalid("type", "must be one of tarea, examen")
	}
	if t.Title, err = in.requiredString("title"); err != nil {
		return models.Task{}, err
	}
	if t.Description, err = in.requiredString("description"); err != nil {
		return models.Task{}, err
	}
	if t.Instructions, err = in.optionalString("instructions"); err != nil {
		return models.Task{}, err
	}
	if t.DueDate, err = in.requiredDate("due_date"); err != nil {
		return models.Task{}, err
	}

	t.LatePolicy = models.LatePolicyNone
	t.AnswerFormat = models.AnswerFormatText
	if err := applyTaskOptions(&t, in); err != nil {
		return models.Task{}, err
	}

	questions, err := parseQuestions(in)
	if err != nil {
		return models.Task{}, err
	}
	t.Questions = questions

	if err := checkTask(&t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// ApplyTaskPatch merges the present fields over t. Questions are not patchable.
func ApplyTaskPatch(t *models.Task, in Input) error {
	next := *t
	var err error

	if in.present("type") {
		taskType, err := in.requiredString("type")
		if err != nil {
			return err
		}
		next.Type = models.TaskType(taskType)
		if !next.Type.Valid() {
			return invalid("type", "must be one of tarea, examen")
		}
	}
	if in.present("title") {
		if next.Title, err = in.requiredString("title"); err != nil {
			return err
		}
	}
	if in.present("description") {
		if next.Description, err = in.requiredString("description"); err != nil {
			return err
		}
	}
	if in.present("instructions") {
		if next.Instructions, err = in.optionalString("instructions"); err != nil {
			return err
		}
	}
	if in.present("due_date") {
		if next.DueDate, err = in.requiredDate("due_date"); err != nil {
			return err
		}
	}
	if err := applyTaskOptions(&next, in); err != nil {
		return err
	}
	if err := checkTask(&next); err != nil {
		return err
	}
	*t = next
	return nil
}

func applyTaskOptions(t *models.Task, in Input) error {
	var err error

	if t.AllowLate, err = in.optionalBool("allow_late", t.AllowLate); err != nil {
		return err
	}
	if in.present("late_policy") {
		policy, err := in.requiredString("late_policy")
		if err != nil {
			return err
		}
		t.LatePolicy = models.LatePolicy(policy)
		if !t.LatePolicy.Valid() {
			return invalid("late_policy", "unknown policy %q", t.LatePolicy)
		}
	}
	if t.HasTimer, err = in.optionalBool("has_timer", t.HasTimer); err != nil {
		return err
	}
	if in.sent("time_limit_minutes") {
		if t.TimeLimitMinutes, err = in.optionalInt("time_limit_minutes"); err != nil {
			return err
		}
	}
	if t.Published, err = in.optionalBool("published", t.Published); err != nil {
		return err
	}
	if in.sent("visible_from") {
		if t.VisibleFrom, err = in.optionalDate("visible_from"); err != nil {
			return err
		}
	}
	if in.sent("visible_until") {
		if t.VisibleUntil, err = in.optionalDate("visible_until"); err != nil {
			return err
		}
	}
	if t.AllowFileUpload, err = in.optionalBool("allow_file_upload", t.AllowFileUpload); err != nil {
		return err
	}
	if in.present("answer_format") {
		format, err := in.requiredString("answer_format")
		if err != nil {
			return err
		}
		t.AnswerFormat = models.AnswerFormat(format)
		if !t.AnswerFormat.Valid() {
			return invalid("answer_format", "must be one of text, multiple_choice, file, mixed")
		}
	}
	return nil
}

// checkTask holds the cross-field rules, run once every field has been read.
func checkTask(t *models.Task) error {
	if t.HasTimer {
		if t.TimeLimitMinutes == nil {
			return missing("time_limit_minutes")
		}
		if *t.TimeLimitMinutes <= 0 {
			return invalid("time_limit_minutes", "must be greater than 0")
		}
	}
	if t.VisibleFrom != nil && t.VisibleUntil != nil && t.VisibleUntil.Before(*t.VisibleFrom) {
		return invalid("visible_until", "must not be before visible_from")
	}
	return nil
}

func parseQuestions(in Input) ([]models.TaskQuestion, error) {
	if !in.has("questions") {
		return nil, nil
	}
	raw, ok := in["questions"].([]any)
	if !ok {
		return nil, invalid("questions", "must be a list")
	}
	questions := make([]models.TaskQuestion, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, invalid("questions", "item %d must be an object", i)
		}
		q := Input(obj)
		prompt, err := q.requiredString("prompt")
		if err != nil {
			return nil, invalid("questions", "item %d: %s", i, err.Error())
		}
		if !q.has("max_points") {
			return nil, missing(fmt.Sprintf("questions[%d].max_points", i))
		}
		points, err := number("max_points", q["max_points"])
		if err != nil || points <= 0 {
			return nil, invalid("questions", "item %d: max_points must be a positive number", i)
		}
		questions = append(questions, models.TaskQuestion{Prompt: prompt, MaxPoints: points, Order: i})
	}
	return questions, nil
}
