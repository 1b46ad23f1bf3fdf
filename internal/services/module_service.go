package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type moduleService struct {
	repo   repositories.Repository
	db     *gorm.DB
	cache  cache.CacheService
	logger *ServiceLogger
}

func NewModuleService(deps Dependencies) ModuleService {
	return &moduleService{
		repo:   deps.Repo,
		db:     deps.Repo.DB(),
		cache:  deps.Cache,
		logger: deps.serviceLogger("module"),
	}
}

func (s *moduleService) Create(ctx context.Context, identity auth.Identity, req *CreateModuleRequest) (module *models.Module, err error) {
	op := s.logger.WithOperation(ctx, "module.create", identity.UserID)
	defer func() { op.LogResult(req.CourseID, "course", err) }()

	if err = requireAdmin(identity, "module", "create", 0); err != nil {
		return nil, err
	}

	module = &models.Module{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.repo.Course().GetByID(ctx, tx, req.CourseID); err != nil {
			return notFoundAs(err, ErrCourseNotFound, "get course")
		}

		// An explicit order is stored as given; collisions are the caller's concern
		if req.Order != nil {
			module.Order = *req.Order
		} else {
			next, err := s.repo.Module().NextOrder(ctx, tx, req.CourseID)
			if err != nil {
				return fmt.Errorf("failed to get next module order: %w", err)
			}
			module.Order = next
		}

		if err := s.repo.Module().Create(ctx, tx, module); err != nil {
			return fmt.Errorf("failed to create module: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateCourseStats(ctx, s.cache, s.logger.Logger(), req.CourseID)
	return module, nil
}

func (s *moduleService) GetByID(ctx context.Context, identity auth.Identity, id uint) (*models.Module, error) {
	if err := requireAdmin(identity, "module", "read", id); err != nil {
		return nil, err
	}

	module, err := s.repo.Module().GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, ErrModuleNotFound, "get module")
	}
	return module, nil
}

func (s *moduleService) GetWithLessons(ctx context.Context, identity auth.Identity, id uint) (*models.Module, error) {
	if err := requireAdmin(identity, "module", "read", id); err != nil {
		return nil, err
	}

	module, err := s.repo.Module().GetByIDWithLessons(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, ErrModuleNotFound, "get module")
	}
	return module, nil
}

func (s *moduleService) ListByCourse(ctx context.Context, identity auth.Identity, courseID uint) ([]*models.Module, error) {
	if err := requireAdmin(identity, "module", "list", courseID); err != nil {
		return nil, err
	}

	if _, err := s.repo.Course().GetByID(ctx, nil, courseID); err != nil {
		return nil, notFoundAs(err, ErrCourseNotFound, "get course")
	}

	modules, err := s.repo.Module().GetByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	return modules, nil
}

// Update changes title and description only. Order is owned by the ordering operations.
func (s *moduleService) Update(ctx context.Context, identity auth.Identity, id uint, req *UpdateModuleRequest) (module *models.Module, err error) {
	op := s.logger.WithOperation(ctx, "module.update", identity.UserID)
	defer func() { op.LogResult(id, "module", err) }()

	if err = requireAdmin(identity, "module", "update", id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err = s.repo.Module().Update(ctx, nil, id, updates); err != nil {
			return nil, notFoundAs(err, ErrModuleNotFound, "update module")
		}
	}

	module, err = s.repo.Module().GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, ErrModuleNotFound, "get module")
	}
	return module, nil
}

// Delete removes the module and closes the gap it leaves in its course.
// Both steps share one transaction so a failed delete never shifts siblings.
func (s *moduleService) Delete(ctx context.Context, identity auth.Identity, id uint) (err error) {
	op := s.logger.WithOperation(ctx, "module.delete", identity.UserID)
	defer func() { op.LogResult(id, "module", err) }()

	if err = requireAdmin(identity, "module", "delete", id); err != nil {
		return err
	}

	var courseID uint
	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		module, err := s.repo.Module().GetByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, ErrModuleNotFound, "get module")
		}
		courseID = module.CourseID

		if err := s.repo.Module().Delete(ctx, tx, id); err != nil {
			return notFoundAs(err, ErrModuleNotFound, "delete module")
		}
		if err := s.repo.Module().ReorderAfterDeletion(ctx, tx, module.CourseID, module.Order); err != nil {
			return fmt.Errorf("failed to reorder modules: %w", err)
		}

		return recordAudit(ctx, tx, s.repo.Audit(), identity, models.AuditModuleDeleted, "module", id,
			fmt.Sprintf("Module %q deleted from course %d", module.Title, module.CourseID),
			map[string]interface{}{"course_id": module.CourseID, "order": module.Order})
	})
	if err != nil {
		return err
	}

	invalidateCourseStats(ctx, s.cache, s.logger.Logger(), courseID)
	return nil
}

func (s *moduleService) NextOrder(ctx context.Context, courseID uint) (int, error) {
	return s.repo.Module().NextOrder(ctx, nil, courseID)
}

// UpdateOrder overwrites one module's order without shifting its siblings.
// Use Reorder to keep the course densely ordered.
func (s *moduleService) UpdateOrder(ctx context.Context, identity auth.Identity, id uint, order int) (err error) {
	op := s.logger.WithOperation(ctx, "module.update_order", identity.UserID)
	defer func() { op.LogResult(id, "module", err) }()

	if err = requireAdmin(identity, "module", "reorder", id); err != nil {
		return err
	}
	if order < 1 {
		return NewValidationError("order", "Order must be at least 1", order)
	}

	return withTx(ctx, s.db, func(tx *gorm.DB) error {
		module, err := s.repo.Module().GetByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, ErrModuleNotFound, "get module")
		}
		if err := s.repo.Module().UpdateOrder(ctx, tx, id, order); err != nil {
			return notFoundAs(err, ErrModuleNotFound, "update module order")
		}

		return recordAudit(ctx, tx, s.repo.Audit(), identity, models.AuditOrderChanged, "module", id,
			fmt.Sprintf("Module order changed from %d to %d", module.Order, order),
			map[string]interface{}{"old_order": module.Order, "new_order": order})
	})
}

// Reorder rewrites the course's module orders to 1..N following moduleIDs
func (s *moduleService) Reorder(ctx context.Context, identity auth.Identity, courseID uint, moduleIDs []uint) (modules []*models.Module, err error) {
	op := s.logger.WithOperation(ctx, "module.reorder", identity.UserID)
	defer func() { op.LogResult(courseID, "course", err) }()

	if err = requireAdmin(identity, "module", "reorder", courseID); err != nil {
		return nil, err
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.repo.Course().GetByID(ctx, tx, courseID); err != nil {
			return notFoundAs(err, ErrCourseNotFound, "get course")
		}
		if err := s.repo.Module().Resequence(ctx, tx, courseID, moduleIDs); err != nil {
			return fmt.Errorf("failed to resequence modules: %w", err)
		}

		return recordAudit(ctx, tx, s.repo.Audit(), identity, models.AuditScopeResequenced, "course", courseID,
			"Modules resequenced", map[string]interface{}{"module_ids": moduleIDs})
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Module().GetByCourse(ctx, nil, courseID)
}
