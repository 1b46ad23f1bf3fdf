package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"gorm.io/gorm"
)

type lessonService struct {
	repo      repositories.Repository
	db        *gorm.DB
	validator *validator.Validator
	logger    *ServiceLogger
}

func NewLessonService(deps Dependencies) LessonService {
	return &lessonService{
		repo:      deps.Repo,
		db:        deps.Repo.DB(),
		validator: deps.Validator,
		logger:    deps.serviceLogger("lesson"),
	}
}

func (s *lessonService) Create(ctx context.Context, identity auth.Identity, req *CreateLessonRequest) (lesson *models.Lesson, err error) {
	op := s.logger.WithOperation(ctx, "lesson.create", identity.UserID)
	defer func() { op.LogResult(req.ModuleID, "module", err) }()

	if err = requireAdmin(identity, "lesson", "create", 0); err != nil {
		return nil, err
	}

	content, err := s.validator.Lesson().ValidateContent(validator.LessonContentInput{
		Type:     req.Type,
		VideoURL: req.VideoURL,
		Content:  req.Content,
	})
	if err != nil {
		return nil, err
	}

	lesson = &models.Lesson{
		ModuleID:        req.ModuleID,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
	}
	lesson.ApplyContent(content)

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.repo.Module().GetByID(ctx, tx, req.ModuleID); err != nil {
			return notFoundAs(err, ErrModuleNotFound, "get module")
		}

		if req.Order != nil {
			lesson.Order = *req.Order
		} else {
			next, err := s.repo.Lesson().NextOrder(ctx, tx, req.ModuleID)
			if err != nil {
				return fmt.Errorf("failed to get next lesson order: %w", err)
			}
			lesson.Order = next
		}

		if err := s.repo.Lesson().Create(ctx, tx, lesson); err != nil {
			return fmt.Errorf("failed to create lesson: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *lessonService) GetByID(ctx context.Context, identity auth.Identity, id uint) (*models.Lesson, error) {
	if err := requireAdmin(identity, "lesson", "read", id); err != nil {
		return nil, err
	}

	lesson, err := s.repo.Lesson().GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, ErrLessonNotFound, "get lesson")
	}
	return lesson, nil
}

func (s *lessonService) ListByModule(ctx context.Context, identity auth.Identity, moduleID uint) ([]*models.Lesson, error) {
	if err := requireAdmin(identity, "lesson", "list", moduleID); err != nil {
		return nil, err
	}

	if _, err := s.repo.Module().GetByID(ctx, nil, moduleID); err != nil {
		return nil, notFoundAs(err, ErrModuleNotFound, "get module")
	}

	lessons, err := s.repo.Lesson().GetByModule(ctx, nil, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

// Update validates content only when the request names a type. Without a type,
// content and video_url are written as given.
func (s *lessonService) Update(ctx context.Context, identity auth.Identity, id uint, req *UpdateLessonRequest) (lesson *models.Lesson, err error) {
	op := s.logger.WithOperation(ctx, "lesson.update", identity.UserID)
	defer func() { op.LogResult(id, "lesson", err) }()

	if err = requireAdmin(identity, "lesson", "update", id); err != nil {
		return nil, err
	}

	normalized, err := s.validator.Lesson().ValidatePartial(req.Type, req.VideoURL, req.Content)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}

	if normalized != nil {
		updates["type"] = normalized.Type
		updates["content"] = nullable(normalized.Content)
		updates["video_url"] = nullable(normalized.VideoURL)
	} else {
		if req.Content != nil {
			updates["content"] = *req.Content
		}
		if req.VideoURL != nil {
			updates["video_url"] = *req.VideoURL
		}
	}

	if len(updates) > 0 {
		if err = s.repo.Lesson().Update(ctx, nil, id, updates); err != nil {
			return nil, notFoundAs(err, ErrLessonNotFound, "update lesson")
		}
	}

	lesson, err = s.repo.Lesson().GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, ErrLessonNotFound, "get lesson")
	}
	return lesson, nil
}

func (s *lessonService) Delete(ctx context.Context, identity auth.Identity, id uint) (err error) {
	op := s.logger.WithOperation(ctx, "lesson.delete", identity.UserID)
	defer func() { op.LogResult(id, "lesson", err) }()

	if err = requireAdmin(identity, "lesson", "delete", id); err != nil {
		return err
	}

	return withTx(ctx, s.db, func(tx *gorm.DB) error {
		lesson, err := s.repo.Lesson().GetByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, ErrLessonNotFound, "get lesson")
		}

		if err := s.repo.Lesson().Delete(ctx, tx, id); err != nil {
			return notFoundAs(err, ErrLessonNotFound, "delete lesson")
		}
		if err := s.repo.Lesson().ReorderAfterDeletion(ctx, tx, lesson.ModuleID, lesson.Order); err != nil {
			return fmt.Errorf("failed to reorder lessons: %w", err)
		}

		return recordAudit(ctx, tx, s.repo.Audit(), identity, models.AuditLessonDeleted, "lesson", id,
			fmt.Sprintf("Lesson %q deleted from module %d", lesson.Title, lesson.ModuleID),
			map[string]interface{}{"module_id": lesson.ModuleID, "order": lesson.Order})
	})
}

func (s *lessonService) NextOrder(ctx context.Context, moduleID uint) (int, error) {
	return s.repo.Lesson().NextOrder(ctx, nil, moduleID)
}

// UpdateOrder overwrites one lesson's order without shifting its siblings
func (s *lessonService) UpdateOrder(ctx context.Context, identity auth.Identity, id uint, order int) (err error) {
	op := s.logger.WithOperation(ctx, "lesson.update_order", identity.UserID)
	defer func() { op.LogResult(id, "lesson", err) }()

	if err = requireAdmin(identity, "lesson", "reorder", id); err != nil {
		return err
	}
	if order < 1 {
		return NewValidationError("order", "Order must be at least 1", order)
	}

	return withTx(ctx, s.db, func(tx *gorm.DB) error {
		lesson, err := s.repo.Lesson().GetByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, ErrLessonNotFound, "get lesson")
		}
		if err := s.repo.Lesson().UpdateOrder(ctx, tx, id, order); err != nil {
			return notFoundAs(err, ErrLessonNotFound, "update lesson order")
		}

		return recordAudit(ctx, tx, s.repo.Audit(), identity, models.AuditOrderChanged, "lesson", id,
			fmt.Sprintf("Lesson order changed from %d to %d", lesson.Order, order),
			map[string]interface{}{"old_order": lesson.Order, "new_order": order})
	})
}

func (s *lessonService) Reorder(ctx context.Context, identity auth.Identity, moduleID uint, lessonIDs []uint) (lessons []*models.Lesson, err error) {
	op := s.logger.WithOperation(ctx, "lesson.reorder", identity.UserID)
	defer func() { op.LogResult(moduleID, "module", err) }()

	if err = requireAdmin(identity, "lesson", "reorder", moduleID); err != nil {
		return nil, err
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.repo.Module().GetByID(ctx, tx, moduleID); err != nil {
			return notFoundAs(err, ErrModuleNotFound, "get module")
		}
		if err := s.repo.Lesson().Resequence(ctx, tx, moduleID, lessonIDs); err != nil {
			return fmt.Errorf("failed to resequence lessons: %w", err)
		}

		return recordAudit(ctx, tx, s.repo.Audit(), identity, models.AuditScopeResequenced, "module", moduleID,
			"Lessons resequenced", map[string]interface{}{"lesson_ids": lessonIDs})
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Lesson().GetByModule(ctx, nil, moduleID)
}
