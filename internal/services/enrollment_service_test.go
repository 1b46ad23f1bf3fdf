package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentService_CanEnroll(t *testing.T) {
	env := newTestEnv(t)
	svc := NewEnrollmentService(env.deps)

	active := env.fx.Course("Go", true)
	inactive := env.fx.Course("Legacy", false)
	ana, anaID := env.student("ana@example.com")
	_, err := svc.EnrollStudent(env.ctx, anaID, ana.ID, active.ID)
	require.NoError(t, err)
	ben, _ := env.student("ben@example.com")

	tests := []struct {
		name      string
		studentID uint
		courseID  uint
		want      bool
	}{
		{"eligible student", ben.ID, active.ID, true},
		{"already enrolled", ana.ID, active.ID, false},
		{"inactive course", ben.ID, inactive.ID, false},
		{"unknown course", ben.ID, 9999, false},
		{"admin is not a student", env.admin.UserID, active.ID, false},
		{"unknown user", 9999, active.ID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := svc.CanEnroll(env.ctx, tt.studentID, tt.courseID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestEnrollmentService_EnrollTwiceKeepsOneRow(t *testing.T) {
	env := newTestEnv(t)
	svc := NewEnrollmentService(env.deps)
	course := env.fx.Course("Go", true)
	ana, identity := env.student("ana@example.com")

	enrollment, err := svc.EnrollStudent(env.ctx, identity, ana.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrollment.Active)
	assert.Zero(t, enrollment.ProgressPercentage)
	assert.Nil(t, enrollment.CompletedAt)

	_, err = svc.EnrollStudent(env.ctx, identity, ana.ID, course.ID)
	assert.ErrorIs(t, err, ErrCannotEnroll)
	assert.True(t, IsConflict(err))

	var count int64
	require.NoError(t, env.db.Model(&models.Enrollment{}).Where("student_id = ? AND course_id = ?", ana.ID, course.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	published := env.publisher.EventsOfType(events.EventEnrollmentCreated)
	require.Len(t, published, 1)
	payload, ok := published[0].Data.(events.EnrollmentEvent)
	require.True(t, ok)
	assert.Equal(t, enrollment.ID, payload.EnrollmentID)
	assert.Equal(t, course.ID, payload.CourseID)
}

func TestEnrollmentService_EnrollRejections(t *testing.T) {
	env := newTestEnv(t)
	svc := NewEnrollmentService(env.deps)
	inactive := env.fx.Course("Legacy", false)
	active := env.fx.Course("Go", true)
	ana, anaID := env.student("ana@example.com")
	ben, _ := env.student("ben@example.com")

	_, err := svc.EnrollStudent(env.ctx, anaID, ana.ID, inactive.ID)
	assert.ErrorIs(t, err, ErrCannotEnroll)

	// A student may only enroll themselves
	_, err = svc.EnrollStudent(env.ctx, anaID, ben.ID, active.ID)
	assert.True(t, IsUnauthorized(err))

	// Admins enroll students on their behalf but are never enrolled themselves
	_, err = svc.EnrollStudent(env.ctx, env.admin, ben.ID, active.ID)
	require.NoError(t, err)
	_, err = svc.EnrollStudent(env.ctx, env.admin, env.admin.UserID, active.ID)
	assert.ErrorIs(t, err, ErrCannotEnroll)

	assert.Len(t, env.publisher.EventsOfType(events.EventEnrollmentCreated), 1)
}

func TestEnrollmentService_Cancel(t *testing.T) {
	env := newTestEnv(t)
	svc := NewEnrollmentService(env.deps)
	course := env.fx.Course("Go", true)
	ana, anaID := env.student("ana@example.com")
	_, benID := env.student("ben@example.com")

	enrollment, err := svc.EnrollStudent(env.ctx, anaID, ana.ID, course.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelEnrollment(env.ctx, benID, enrollment.ID), ErrEnrollmentAccessDenied)

	require.NoError(t, svc.CancelEnrollment(env.ctx, anaID, enrollment.ID))
	require.NoError(t, svc.CancelEnrollment(env.ctx, anaID, enrollment.ID))
	assert.Len(t, env.publisher.EventsOfType(events.EventEnrollmentCancelled), 1)

	stored, err := svc.GetEnrollment(env.ctx, anaID, enrollment.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
	assert.Equal(t, models.EnrollmentStatusCancelled, stored.Status())

	err = svc.CancelEnrollment(env.ctx, anaID, 9999)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
	assert.True(t, IsNotFound(err))
}

func TestEnrollmentService_ReenrollAfterCancelIsBlocked(t *testing.T) {
	env := newTestEnv(t)
	svc := NewEnrollmentService(env.deps)
	course := env.fx.Course("Go", true)
	ana, identity := env.student("ana@example.com")

	enrollment, err := svc.EnrollStudent(env.ctx, identity, ana.ID, course.ID)
	require.NoError(t, err)
	require.NoError(t, svc.CancelEnrollment(env.ctx, identity, enrollment.ID))

	// No active enrollment remains, but the pair is unique
	ok, err := svc.CanEnroll(env.ctx, ana.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.EnrollStudent(env.ctx, identity, ana.ID, course.ID)
	assert.ErrorIs(t, err, ErrCannotEnroll)
}

func TestEnrollmentService_Reads(t *testing.T) {
	env := newTestEnv(t)
	svc := NewEnrollmentService(env.deps)
	goCourse := env.fx.Course("Go", true)
	rust := env.fx.Course("Rust", true)
	ana, anaID := env.student("ana@example.com")
	ben, benID := env.student("ben@example.com")

	first, err := svc.EnrollStudent(env.ctx, anaID, ana.ID, goCourse.ID)
	require.NoError(t, err)
	_, err = svc.EnrollStudent(env.ctx, anaID, ana.ID, rust.ID)
	require.NoError(t, err)
	_, err = svc.EnrollStudent(env.ctx, benID, ben.ID, goCourse.ID)
	require.NoError(t, err)

	mine, err := svc.GetStudentEnrollments(env.ctx, anaID, ana.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = svc.GetStudentEnrollments(env.ctx, benID, ana.ID)
	assert.True(t, IsUnauthorized(err))

	_, err = svc.GetEnrollment(env.ctx, benID, first.ID)
	assert.ErrorIs(t, err, ErrEnrollmentAccessDenied)

	byCourse, err := svc.GetCourseEnrollments(env.ctx, env.admin, goCourse.ID)
	require.NoError(t, err)
	assert.Len(t, byCourse, 2)

	_, err = svc.GetCourseEnrollments(env.ctx, anaID, goCourse.ID)
	assert.True(t, IsUnauthorized(err))

	found, err := svc.FindByStudentAndCourse(env.ctx, anaID, ana.ID, goCourse.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = svc.FindByStudentAndCourse(env.ctx, benID, ben.ID, rust.ID)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestEnrollmentService_Search(t *testing.T) {
	env := newTestEnv(t)
	svc := NewEnrollmentService(env.deps)
	course := env.fx.Course("Go", true)
	ana, anaID := env.student("ana@example.com")
	_, err := svc.EnrollStudent(env.ctx, anaID, ana.ID, course.ID)
	require.NoError(t, err)

	page, err := svc.SearchEnrollments(env.ctx, env.admin, repositories.EnrollmentFilters{
		Search:     "ana",
		Pagination: repositories.Pagination{Page: 1, PerPage: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, ana.ID, page.Data[0].StudentID)

	bogus := models.EnrollmentStatus("paused")
	_, err = svc.SearchEnrollments(env.ctx, env.admin, repositories.EnrollmentFilters{Status: &bogus})
	assert.True(t, IsValidation(err))

	_, err = svc.SearchEnrollments(env.ctx, anaID, repositories.EnrollmentFilters{})
	assert.True(t, IsUnauthorized(err))
}

func TestEnrollmentService_StatsUseCache(t *testing.T) {
	env := newTestEnv(t)
	mockCache := new(MockCache)
	env.deps.Cache = mockCache
	svc := NewEnrollmentService(env.deps)

	course := env.fx.Course("Go", true)
	ana, anaID := env.student("ana@example.com")

	mockCache.On("Delete", mock.Anything, cache.CourseStatsKey(course.ID)).Return(nil).Once()
	mockCache.On("Delete", mock.Anything, cache.EnrollmentStatsKey).Return(nil).Once()
	_, err := svc.EnrollStudent(env.ctx, anaID, ana.ID, course.ID)
	require.NoError(t, err)

	mockCache.On("Get", mock.Anything, cache.EnrollmentStatsKey, mock.Anything).Return(cache.ErrCacheMiss).Once()
	mockCache.On("Set", mock.Anything, cache.EnrollmentStatsKey, mock.Anything, env.deps.CacheTTL).Return(errors.New("redis down")).Once()

	stats, err := svc.GetEnrollmentStats(env.ctx, env.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.Active)

	mockCache.On("Get", mock.Anything, cache.EnrollmentStatsKey, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*repositories.EnrollmentStats)
			*dest = repositories.EnrollmentStats{Total: 42}
		}).
		Return(nil).Once()

	stats, err = svc.GetEnrollmentStats(env.ctx, env.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.Total)

	mockCache.AssertExpectations(t)
}

func TestEnrollmentService_ConcurrentEnrollOfSamePair(t *testing.T) {
	env := newTestEnv(t)
	svc := NewEnrollmentService(env.deps)
	course, _ := env.courseWithLessons(1)
	student, identity := env.student("ana@example.com")

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.EnrollStudent(env.ctx, identity, student.ID, course.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrCannotEnroll)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, env.db.Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
