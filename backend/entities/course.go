package entities

import (
	"aulavirtual/backend/models"

	"github.com/google/uuid"
)

// NewCourse checks, in order: name, description, startDate, endDate, capacity, category,
// level, modality, creatorId; then the optional fields.
func NewCourse(in Input, creatorID uuid.UUID) (models.Course, error) {
	var c models.Course
	var err error

	if c.Name, err = in.requiredString("name"); err != nil {
		return models.Course{}, err
	}
	if c.Description, err = in.requiredString("description"); err != nil {
		return models.Course{}, err
	}
	if c.StartDate, err = in.requiredDate("startDate"); err != nil {
		return models.Course{}, err
	}
	if c.EndDate, err = in.requiredDate("endDate"); err != nil {
		return models.Course{}, err
	}
	if c.Capacity, err = in.requiredInt("capacity"); err != nil {
		return models.Course{}, err
	}
	if err := checkCapacity(c.Capacity, 0); err != nil {
		return models.Course{}, err
	}
	if c.Category, err = in.requiredString("category"); err != nil {
		return models.Course{}, err
	}
	level, err := in.requiredString("level")
	if err != nil {
		return models.Course{}, err
	}
	if c.Level, err = checkLevel(level); err != nil {
		return models.Course{}, err
	}
	modality, err := in.requiredString("modality")
	if err != nil {
		return models.Course{}, err
	}
	if c.Modality, err = checkModality(modality); err != nil {
		return models.Course{}, err
	}
	if creatorID == uuid.Nil {
		return models.Course{}, missing("creatorId")
	}
	c.CreatorID = creatorID

	if c.ShortDescription, err = in.optionalString("shortDescription"); err != nil {
		return models.Course{}, err
	}
	prereq, err := in.optionalStrings("prerequisites")
	if err != nil {
		return models.Course{}, err
	}
	c.Prerequisites = prereq
	if c.ImageURL, err = in.optionalString("imageUrl"); err != nil {
		return models.Course{}, err
	}

	if err := checkSchedule(&c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// ApplyCoursePatch merges the present fields of in over c. Fields not sent are preserved.
func ApplyCoursePatch(c *models.Course, in Input) error {
	next := *c
	var err error

	if in.present("name") {
		if next.Name, err = in.requiredString("name"); err != nil {
			return err
		}
	}
	if in.present("description") {
		if next.Description, err = in.requiredString("description"); err != nil {
			return err
		}
	}
	if in.present("shortDescription") {
		if next.ShortDescription, err = in.optionalString("shortDescription"); err != nil {
			return err
		}
	}
	if in.present("startDate") {
		if next.StartDate, err = in.requiredDate("startDate"); err != nil {
			return err
		}
	}
	if in.present("endDate") {
		if next.EndDate, err = in.requiredDate("endDate"); err != nil {
			return err
		}
	}
	if in.present("capacity") {
		if next.Capacity, err = in.requiredInt("capacity"); err != nil {
			return err
		}
		if err := checkCapacity(next.Capacity, next.Enrolled); err != nil {
			return err
		}
	}
	if in.present("category") {
		if next.Category, err = in.requiredString("category"); err != nil {
			return err
		}
	}
	if in.present("level") {
		level, err := in.requiredString("level")
		if err != nil {
			return err
		}
		if next.Level, err = checkLevel(level); err != nil {
			return err
		}
	}
	if in.present("modality") {
		modality, err := in.requiredString("modality")
		if err != nil {
			return err
		}
		if next.Modality, err = checkModality(modality); err != nil {
			return err
		}
	}
	if in.present("prerequisites") {
		prereq, err := in.optionalStrings("prerequisites")
		if err != nil {
			return err
		}
		next.Prerequisites = prereq
	}
	if in.present("imageUrl") {
		if next.ImageURL, err = in.optionalString("imageUrl"); err != nil {
			return err
		}
	}

	if err := checkSchedule(&next); err != nil {
		return err
	}
	*c = next
	return nil
}

func checkCapacity(capacity, enrolled int) error {
	if capacity <= 0 {
		return invalid("capacity", "must be greater than 0")
	}
	if capacity < enrolled {
		return invalid("capacity", "cannot be lower than the %d students already enrolled", enrolled)
	}
	return nil
}

func checkLevel(s string) (models.CourseLevel, error) {
	level := models.CourseLevel(s)
	if !level.Valid() {
		return "", invalid("level", "must be one of Beginner, Intermediate, Advanced")
	}
	return level, nil
}

func checkModality(s string) (models.CourseModality, error) {
	modality := models.CourseModality(s)
	if !modality.Valid() {
		return "", invalid("modality", "must be one of Online, In-person, Hybrid")
	}
	return modality, nil
}

// checkSchedule holds the cross-field rules, run once every field has been read.
func checkSchedule(c *models.Course) error {
	if c.EndDate.Before(c.StartDate) {
		return invalid("endDate", "must not be before startDate")
	}
	return nil
}
