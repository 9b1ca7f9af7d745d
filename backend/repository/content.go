package repository

import (
	"context"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func (s *Store) CreateModule(ctx context.Context, m *models.Module) error {
	return errors.Wrap(s.conn(ctx).Omit("Resources").Create(m).Error, "create module")
}

func (s *Store) CountModules(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Module{}).Where("course_id = ?", courseID).Count(&n).Error
	return n, errors.Wrap(err, "count modules")
}

// GetModule resolves a module by id. A non-nil courseID also scopes it to that course.
func (s *Store) GetModule(ctx context.Context, courseID, moduleID uuid.UUID) (*models.Module, error) {
	q := s.conn(ctx).Where("id = ?", moduleID)
	if courseID != uuid.Nil {
		q = q.Where("course_id = ?", courseID)
	}
	var m models.Module
	if err := q.First(&m).Error; err != nil {
		return nil, notFound(err, apperr.ErrModuleNotFound, "get module")
	}
	return &m, nil
}

func (s *Store) ListModules(ctx context.Context, courseID uuid.UUID) ([]models.Module, error) {
	var modules []models.Module
	err := s.conn(ctx).Where("course_id = ?", courseID).Order("sort_order ASC, created_at ASC").Find(&modules).Error
	return modules, errors.Wrap(err, "list modules")
}

func (s *Store) UpdateModule(ctx context.Context, m *models.Module) error {
	err := s.conn(ctx).Model(m).Select("name", "description", "url").Updates(m).Error
	return errors.Wrap(err, "update module")
}

func (s *Store) DeleteModule(ctx context.Context, courseID, moduleID uuid.UUID) error {
	return s.Tx(ctx, func(tx *Store) error {
		db := tx.conn(ctx)
		if err := db.Where("module_id = ?", moduleID).Delete(&models.Resource{}).Error; err != nil {
			return errors.Wrap(err, "delete module resources")
		}
		res := db.Where("id = ? AND course_id = ?", moduleID, courseID).Delete(&models.Module{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete module")
		}
		if res.RowsAffected == 0 {
			return apperr.ErrModuleNotFound
		}
		return nil
	})
}

// ReorderModules sets sort_order = index for every listed id that belongs to the course.
// Ids from other courses match no row and are skipped; unlisted modules keep their order.
func (s *Store) ReorderModules(ctx context.Context, courseID uuid.UUID, ids []uuid.UUID) error {
	return s.Tx(ctx, func(tx *Store) error {
		db := tx.conn(ctx)
		for i, id := range ids {
			err := db.Model(&models.Module{}).
				Where("id = ? AND course_id = ?", id, courseID).
				UpdateColumn("sort_order", i).Error
			if err != nil {
				return errors.Wrap(err, "reorder modules")
			}
		}
		return nil
	})
}

func (s *Store) CreateResource(ctx context.Context, r *models.Resource) error {
	return errors.Wrap(s.conn(ctx).Create(r).Error, "create resource")
}

func (s *Store) CountResources(ctx context.Context, moduleID uuid.UUID) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Resource{}).Where("module_id = ?", moduleID).Count(&n).Error
	return n, errors.Wrap(err, "count resources")
}

func (s *Store) GetResource(ctx context.Context, moduleID, resourceID uuid.UUID) (*models.Resource, error) {
	var r models.Resource
	err := s.conn(ctx).Where("id = ? AND module_id = ?", resourceID, moduleID).First(&r).Error
	if err != nil {
		return nil, notFound(err, apperr.ErrResourceNotFound, "get resource")
	}
	return &r, nil
}

func (s *Store) ListResources(ctx context.Context, moduleID uuid.UUID) ([]models.Resource, error) {
	var resources []models.Resource
	err := s.conn(ctx).Where("module_id = ?", moduleID).Order("sort_order ASC, created_at ASC").Find(&resources).Error
	return resources, errors.Wrap(err, "list resources")
}

func (s *Store) UpdateResource(ctx context.Context, r *models.Resource) error {
	err := s.conn(ctx).Model(r).Select("description", "type", "url").Updates(r).Error
	return errors.Wrap(err, "update resource")
}

func (s *Store) DeleteResource(ctx context.Context, moduleID, resourceID uuid.UUID) error {
	res := s.conn(ctx).Where("id = ? AND module_id = ?", resourceID, moduleID).Delete(&models.Resource{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete resource")
	}
	if res.RowsAffected == 0 {
		return apperr.ErrResourceNotFound
	}
	return nil
}

func (s *Store) ReorderResources(ctx context.Context, moduleID uuid.UUID, ids []uuid.UUID) error {
	return s.Tx(ctx, func(tx *Store) error {
		db := tx.conn(ctx)
		for i, id := range ids {
			err := db.Model(&models.Resource{}).
				Where("id = ? AND module_id = ?", id, moduleID).
				UpdateColumn("sort_order", i).Error
			if err != nil {
				return errors.Wrap(err, "reorder resources")
			}
		}
		return nil
	})
}
