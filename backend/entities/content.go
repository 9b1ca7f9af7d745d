package entities

import (
	"aulavirtual/backend/models"

	"github.com/google/uuid"
)

// NewModule checks name, description, then the optional url and order.
func NewModule(in Input, courseID uuid.UUID) (models.Module, error) {
	var m models.Module
	var err error

	if courseID == uuid.Nil {
		return models.Module{}, missing("courseId")
	}
	m.CourseID = courseID
	if m.Name, err = in.requiredString("name"); err != nil {
		return models.Module{}, err
	}
	if m.Description, err = in.requiredString("description"); err != nil {
		return models.Module{}, err
	}
	if m.URL, err = in.optionalString("url"); err != nil {
		return models.Module{}, err
	}
	order, err := in.optionalInt("order")
	if err != nil {
		return models.Module{}, err
	}
	if order != nil {
		if *order < 0 {
			return models.Module{}, invalid("order", "must not be negative")
		}
		m.Order = *order
	}
	return m, nil
}

func ApplyModulePatch(m *models.Module, in Input) error {
	next := *m
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
	if in.present("url") {
		if next.URL, err = in.optionalString("url"); err != nil {
			return err
		}
	}
	*m = next
	return nil
}

// NewResource checks description, type, url.
func NewResource(in Input, moduleID uuid.UUID) (models.Resource, error) {
	var r models.Resource
	var err error

	if moduleID == uuid.Nil {
		return models.Resource{}, missing("moduleId")
	}
	r.ModuleID = moduleID
	if r.Description, err = in.requiredString("description"); err != nil {
		return models.Resource{}, err
	}
	if r.Type, err = in.requiredString("type"); err != nil {
		return models.Resource{}, err
	}
	if r.URL, err = in.requiredString("url"); err != nil {
		return models.Resource{}, err
	}
	order, err := in.optionalInt("order")
	if err != nil {
		return models.Resource{}, err
	}
	if order != nil {
		if *order < 0 {
			return models.Resource{}, invalid("order", "must not be negative")
		}
		r.Order = *order
	}
	return r, nil
}

func ApplyResourcePatch(r *models.Resource, in Input) error {
	next := *r
	var err error

	if in.present("description") {
		if next.Description, err = in.requiredString("description"); err != nil {
			return err
		}
	}
	if in.present("type") {
		if next.Type, err = in.requiredString("type"); err != nil {
			return err
		}
	}
	if in.present("url") {
		if next.URL, err = in.requiredString("url"); err != nil {
			return err
		}
	}
	*r = next
	return nil
}
