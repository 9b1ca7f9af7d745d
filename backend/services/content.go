package services

import (
	"context"
	"log"

	"aulavirtual/backend/entities"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"

	"github.com/google/uuid"
)

type ModuleService struct {
	store  *repository.Store
	logger *log.Logger
}

func NewModuleService(store *repository.Store, logger *log.Logger) *ModuleService {
	return &ModuleService{store: store, logger: logger}
}

// Add appends the module after the existing ones unless the input carries an explicit order.
func (s *ModuleService) Add(ctx context.Context, courseID, actorID uuid.UUID, in entities.Input) (*models.Module, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	actor, err := requireInstructor(ctx, s.store, courseID, actorID, models.CanCreateContent)
	if err != nil {
		return nil, err
	}
	module, err := entities.NewModule(in, courseID)
	if err != nil {
		return nil, err
	}
	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		if in["order"] == nil {
			n, err := tx.CountModules(ctx, courseID)
			if err != nil {
				return err
			}
			module.Order = int(n)
		}
		if err := tx.CreateModule(ctx, &module); err != nil {
			return err
		}
		return audit(ctx, tx, actor, "add_module", map[string]any{"moduleId": module.ID, "name": module.Name})
	})
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (s *ModuleService) List(ctx context.Context, courseID uuid.UUID) ([]models.Module, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	return s.store.ListModules(ctx, courseID)
}

func (s *ModuleService) Get(ctx context.Context, courseID, moduleID uuid.UUID) (*models.Module, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	return s.store.GetModule(ctx, courseID, moduleID)
}

func (s *ModuleService) Update(ctx context.Context, courseID, moduleID, actorID uuid.UUID, patch entities.Input) (*models.Module, error) {
	module, err := s.Get(ctx, courseID, moduleID)
	if err != nil {
		return nil, err
	}
	actor, err := requireInstructor(ctx, s.store, courseID, actorID, models.CanCreateContent)
	if err != nil {
		return nil, err
	}
	if err := entities.ApplyModulePatch(module, patch); err != nil {
		return nil, err
	}
	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		if err := tx.UpdateModule(ctx, module); err != nil {
			return err
		}
		return audit(ctx, tx, actor, "update_module", map[string]any{"moduleId": moduleID, "changes": patch})
	})
	if err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ModuleService) Remove(ctx context.Context, courseID, moduleID, actorID uuid.UUID) error {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return err
	}
	actor, err := requireInstructor(ctx, s.store, courseID, actorID, models.CanCreateContent)
	if err != nil {
		return err
	}
	if err := s.store.DeleteModule(ctx, courseID, moduleID); err != nil {
		return err
	}
	return audit(ctx, s.store, actor, "remove_module", map[string]any{"moduleId": moduleID})
}

// Reorder assigns order = index to the listed modules of the course. Ids that are not modules
// of this course are ignored.
func (s *ModuleService) Reorder(ctx context.Context, courseID, actorID uuid.UUID, ids []uuid.UUID) ([]models.Module, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	actor, err := requireInstructor(ctx, s.store, courseID, actorID, models.CanCreateContent)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReorderModules(ctx, courseID, ids); err != nil {
		return nil, err
	}
	if err := audit(ctx, s.store, actor, "reorder_modules", map[string]any{"order": ids}); err != nil {
		return nil, err
	}
	return s.store.ListModules(ctx, courseID)
}

type ResourceService struct {
	store  *repository.Store
	logger *log.Logger
}

func NewResourceService(store *repository.Store, logger *log.Logger) *ResourceService {
	return &ResourceService{store: store, logger: logger}
}

// authorize resolves the module's course and checks the content permission on it.
func (s *ResourceService) authorize(ctx context.Context, moduleID, actorID uuid.UUID) (*models.CourseInstructor, error) {
	module, err := s.store.GetModule(ctx, uuid.Nil, moduleID)
	if err != nil {
		return nil, err
	}
	return requireInstructor(ctx, s.store, module.CourseID, actorID, models.CanCreateContent)
}

func (s *ResourceService) Add(ctx context.Context, moduleID, actorID uuid.UUID, in entities.Input) (*models.Resource, error) {
	actor, err := s.authorize(ctx, moduleID, actorID)
	if err != nil {
		return nil, err
	}
	resource, err := entities.NewResource(in, moduleID)
	if err != nil {
		return nil, err
	}
	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		if in["order"] == nil {
			n, err := tx.CountResources(ctx, moduleID)
			if err != nil {
				return err
			}
			resource.Order = int(n)
		}
		if err := tx.CreateResource(ctx, &resource); err != nil {
			return err
		}
		return audit(ctx, tx, actor, "add_resource", map[string]any{"moduleId": moduleID, "resourceId": resource.ID})
	})
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (s *ResourceService) List(ctx context.Context, moduleID uuid.UUID) ([]models.Resource, error) {
	if _, err := s.store.GetModule(ctx, uuid.Nil, moduleID); err != nil {
		return nil, err
	}
	return s.store.ListResources(ctx, moduleID)
}

func (s *ResourceService) Get(ctx context.Context, moduleID, resourceID uuid.UUID) (*models.Resource, error) {
	return s.store.GetResource(ctx, moduleID, resourceID)
}

func (s *ResourceService) Update(ctx context.Context, moduleID, resourceID, actorID uuid.UUID, patch entities.Input) (*models.Resource, error) {
	actor, err := s.authorize(ctx, moduleID, actorID)
	if err != nil {
		return nil, err
	}
	resource, err := s.store.GetResource(ctx, moduleID, resourceID)
	if err != nil {
		return nil, err
	}
	if err := entities.ApplyResourcePatch(resource, patch); err != nil {
		return nil, err
	}
	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		if err := tx.UpdateResource(ctx, resource); err != nil {
			return err
		}
		return audit(ctx, tx, actor, "update_resource", map[string]any{"resourceId": resourceID, "changes": patch})
	})
	if err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *ResourceService) Remove(ctx context.Context, moduleID, resourceID, actorID uuid.UUID) error {
	actor, err := s.authorize(ctx, moduleID, actorID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteResource(ctx, moduleID, resourceID); err != nil {
		return err
	}
	return audit(ctx, s.store, actor, "remove_resource", map[string]any{"resourceId": resourceID})
}

func (s *ResourceService) Reorder(ctx context.Context, moduleID, actorID uuid.UUID, ids []uuid.UUID) ([]models.Resource, error) {
	actor, err := s.authorize(ctx, moduleID, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReorderResources(ctx, moduleID, ids); err != nil {
		return nil, err
	}
	if err := audit(ctx, s.store, actor, "reorder_resources", map[string]any{"moduleId": moduleID, "order": ids}); err != nil {
		return nil, err
	}
	return s.store.ListResources(ctx, moduleID)
}
