package services

import (
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_StudentView(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCatalogService(env.deps)

	course, _ := env.courseWithLessons(2, 1)
	other := env.fx.Course("Rust", true)
	hidden := env.fx.Course("Legacy", false)
	enrollment, ana := enrollStudent(t, env, "ana@example.com", course.ID)
	identity := identityOf(ana)

	page, err := svc.ListCoursesForStudent(env.ctx, identity, repositories.StudentCourseFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, view := range page.Data {
		assert.NotEqual(t, hidden.ID, view.ID)
		if view.ID == course.ID {
			assert.True(t, view.IsEnrolled)
			require.NotNil(t, view.EnrollmentID)
			assert.Equal(t, enrollment.ID, *view.EnrollmentID)
		} else {
			assert.False(t, view.IsEnrolled)
			assert.Nil(t, view.ProgressPercentage)
		}
	}

	enrolled := true
	page, err = svc.ListCoursesForStudent(env.ctx, identity, repositories.StudentCourseFilters{Enrolled: &enrolled})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, course.ID, page.Data[0].ID)

	notEnrolled := false
	page, err = svc.ListCoursesForStudent(env.ctx, identity, repositories.StudentCourseFilters{Enrolled: &notEnrolled})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, other.ID, page.Data[0].ID)

	detail, err := svc.GetCourseForStudent(env.ctx, identity, course.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsEnrolled)
	require.Len(t, detail.Modules, 2)
	assert.Equal(t, int64(2), detail.Modules[0].LessonsCount)
	assert.Equal(t, int64(1), detail.Modules[1].LessonsCount)

	// Inactive courses look missing to students even though the row exists
	_, err = svc.GetCourseForStudent(env.ctx, identity, hidden.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.GetCourseForStudent(env.ctx, identity, 9999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCatalogService_SearchCourses(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCatalogService(env.deps)
	env.fx.Course("Go Basics", true)
	env.fx.Course("Advanced Go", false)
	env.fx.Course("Rust", true)

	page, err := svc.SearchCourses(env.ctx, env.admin, repositories.CourseFilters{Search: "go"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	active := true
	page, err = svc.SearchCourses(env.ctx, env.admin, repositories.CourseFilters{Search: "go", Active: &active})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Go Basics", page.Data[0].Title)

	_, student := env.student("ana@example.com")
	_, err = svc.SearchCourses(env.ctx, student, repositories.CourseFilters{})
	assert.True(t, IsUnauthorized(err))
}

func TestCatalogService_CourseStatsCache(t *testing.T) {
	env := newTestEnv(t)
	mockCache := new(MockCache)
	env.deps.Cache = mockCache
	svc := NewCatalogService(env.deps)

	course := env.fx.Course("Go", true)
	env.fx.Module(course.ID, 1)
	env.fx.Module(course.ID, 2)
	key := cache.CourseStatsKey(course.ID)

	mockCache.On("Get", mock.Anything, key, mock.Anything).Return(cache.ErrCacheMiss).Once()
	mockCache.On("Set", mock.Anything, key, mock.AnythingOfType("*repositories.CourseWithCounts"), env.deps.CacheTTL).Return(nil).Once()

	stats, err := svc.GetCourseWithStats(env.ctx, env.admin, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ModulesCount)
	assert.Zero(t, stats.EnrollmentsCount)

	mockCache.On("Get", mock.Anything, key, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*repositories.CourseWithCounts)
			dest.ID = course.ID
			dest.ModulesCount = 7
		}).
		Return(nil).Once()

	stats, err = svc.GetCourseWithStats(env.ctx, env.admin, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.ModulesCount)

	mockCache.AssertExpectations(t)
}

func TestCatalogService_CourseStatsNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := NewCatalogService(env.deps).GetCourseWithStats(env.ctx, env.admin, 9999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}
