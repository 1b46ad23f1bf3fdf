package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type catalogService struct {
	repo     repositories.Repository
	cache    cache.CacheService
	cacheTTL time.Duration
	logger   *ServiceLogger
}

func NewCatalogService(deps Dependencies) CatalogService {
	return &catalogService{
		repo:     deps.Repo,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
		logger:   deps.serviceLogger("catalog"),
	}
}

// ===== ADMIN PROJECTION =====

func (s *catalogService) GetCourseWithStats(ctx context.Context, identity auth.Identity, courseID uint) (*repositories.CourseWithCounts, error) {
	if err := requireAdmin(identity, "course", "stats", courseID); err != nil {
		return nil, err
	}

	key := cache.CourseStatsKey(courseID)
	var cached repositories.CourseWithCounts
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Logger().WarnContext(ctx, "Course stats cache unavailable", "course_id", courseID, "error", err)
	}

	course, err := s.repo.Course().GetWithCounts(ctx, nil, courseID)
	if err != nil {
		return nil, notFoundAs(err, ErrCourseNotFound, "get course")
	}

	if err := s.cache.Set(ctx, key, course, s.cacheTTL); err != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to cache course stats", "course_id", courseID, "error", err)
	}
	return course, nil
}

func (s *catalogService) SearchCourses(ctx context.Context, identity auth.Identity, filters repositories.CourseFilters) (*CoursePage, error) {
	if err := requireAdmin(identity, "course", "search", 0); err != nil {
		return nil, err
	}

	courses, total, err := s.repo.Course().Search(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}
	return repositories.NewPage(courses, total, filters.Pagination), nil
}

// ===== STUDENT PROJECTION =====

// ListCoursesForStudent lists active courses joined with the caller's own active enrollment
func (s *catalogService) ListCoursesForStudent(ctx context.Context, identity auth.Identity, filters repositories.StudentCourseFilters) (*StudentCoursePage, error) {
	courses, total, err := s.repo.Course().ListForStudent(ctx, nil, identity.UserID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return repositories.NewPage(courses, total, filters.Pagination), nil
}

// GetCourseForStudent returns NotFound for inactive courses even though the row exists
func (s *catalogService) GetCourseForStudent(ctx context.Context, identity auth.Identity, courseID uint) (*repositories.StudentCourseDetail, error) {
	view, err := s.repo.Course().GetForStudent(ctx, nil, courseID, identity.UserID)
	if err != nil {
		return nil, notFoundAs(err, ErrCourseNotFound, "get course")
	}

	modules, err := s.repo.Module().GetByCourseWithLessonCounts(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course modules: %w", err)
	}
	if modules == nil {
		modules = []repositories.ModuleWithLessonCount{}
	}

	return &repositories.StudentCourseDetail{
		StudentCourseView: *view,
		Modules:           modules,
	}, nil
}
