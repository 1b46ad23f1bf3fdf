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

type courseService struct {
	repo   repositories.Repository
	db     *gorm.DB
	cache  cache.CacheService
	logger *ServiceLogger
}

func NewCourseService(deps Dependencies) CourseService {
	return &courseService{
		repo:   deps.Repo,
		db:     deps.Repo.DB(),
		cache:  deps.Cache,
		logger: deps.serviceLogger("course"),
	}
}

func (s *courseService) Create(ctx context.Context, identity auth.Identity, req *CreateCourseRequest) (course *models.Course, err error) {
	op := s.logger.WithOperation(ctx, "course.create", identity.UserID)
	defer func() {
		var id uint
		if course != nil {
			id = course.ID
		}
		op.LogResult(id, "course", err)
	}()

	if err = requireAdmin(identity, "course", "create", 0); err != nil {
		return nil, err
	}

	course = &models.Course{
		Title:         req.Title,
		Description:   req.Description,
		Image:         req.Image,
		DurationHours: req.DurationHours,
		Active:        true,
	}
	if req.Active != nil {
		course.Active = *req.Active
	}

	if err = s.repo.Course().Create(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, identity auth.Identity, id uint) (*models.Course, error) {
	if err := requireAdmin(identity, "course", "read", id); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, ErrCourseNotFound, "get course")
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, identity auth.Identity, id uint, req *UpdateCourseRequest) (course *models.Course, err error) {
	op := s.logger.WithOperation(ctx, "course.update", identity.UserID)
	defer func() { op.LogResult(id, "course", err) }()

	if err = requireAdmin(identity, "course", "update", id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.DurationHours != nil {
		updates["duration_hours"] = *req.DurationHours
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err = s.repo.Course().Update(ctx, nil, id, updates); err != nil {
			return nil, notFoundAs(err, ErrCourseNotFound, "update course")
		}
		invalidateCourseStats(ctx, s.cache, s.logger.Logger(), id)
	}

	course, err = s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, ErrCourseNotFound, "get course")
	}
	return course, nil
}

// Delete removes the course with its modules, lessons, enrollments and certificates
func (s *courseService) Delete(ctx context.Context, identity auth.Identity, id uint) (err error) {
	op := s.logger.WithOperation(ctx, "course.delete", identity.UserID)
	defer func() { op.LogResult(id, "course", err) }()

	if err = requireAdmin(identity, "course", "delete", id); err != nil {
		return err
	}

	if err = s.repo.Course().Delete(ctx, nil, id); err != nil {
		return notFoundAs(err, ErrCourseNotFound, "delete course")
	}
	invalidateCourseStats(ctx, s.cache, s.logger.Logger(), id)
	return nil
}

// ToggleStatus flips the course between active and inactive. Inactive courses
// disappear from the student catalog.
func (s *courseService) ToggleStatus(ctx context.Context, identity auth.Identity, id uint) (course *models.Course, err error) {
	op := s.logger.WithOperation(ctx, "course.toggle_status", identity.UserID)
	defer func() { op.LogResult(id, "course", err) }()

	if err = requireAdmin(identity, "course", "update", id); err != nil {
		return nil, err
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		course, err = s.repo.Course().GetByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, ErrCourseNotFound, "get course")
		}
		course.Active = !course.Active
		return s.repo.Course().Update(ctx, tx, id, map[string]interface{}{"active": course.Active})
	})
	if err != nil {
		return nil, err
	}

	invalidateCourseStats(ctx, s.cache, s.logger.Logger(), id)
	return course, nil
}
