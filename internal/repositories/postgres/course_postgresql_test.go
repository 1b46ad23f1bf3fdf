package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func boolPtr(b bool) *bool { return &b }

func enroll(t *testing.T, db *gorm.DB, studentID, courseID uint, active bool) *models.Enrollment {
	t.Helper()
	enrollment := &models.Enrollment{StudentID: studentID, CourseID: courseID, EnrolledAt: time.Now(), Active: active}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

func TestCoursePostgreSQL_StudentProjection(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewCoursePostgreSQL(db)
	ctx := context.Background()

	student := fx.Student("ana@example.com")
	otherStudent := fx.Student("ben@example.com")
	goCourse := fx.Course("Go Basics", true)
	rustCourse := fx.Course("Rust Basics", true)
	cancelledCourse := fx.Course("Python", true)
	hidden := fx.Course("Hidden Go", false)

	enroll(t, db, student.ID, goCourse.ID, true)
	enroll(t, db, student.ID, cancelledCourse.ID, false)
	enroll(t, db, otherStudent.ID, rustCourse.ID, true)

	t.Run("lists active courses with enrollment fields", func(t *testing.T) {
		views, total, err := repo.ListForStudent(ctx, nil, student.ID, repositories.StudentCourseFilters{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		byID := map[uint]*repositories.StudentCourseView{}
		for _, v := range views {
			byID[v.ID] = v
		}
		require.Contains(t, byID, goCourse.ID)
		assert.True(t, byID[goCourse.ID].IsEnrolled)
		require.NotNil(t, byID[goCourse.ID].ProgressPercentage)
		assert.Equal(t, 0.0, *byID[goCourse.ID].ProgressPercentage)

		// A cancelled enrollment and another student's enrollment do not count
		assert.False(t, byID[cancelledCourse.ID].IsEnrolled)
		assert.Nil(t, byID[cancelledCourse.ID].EnrollmentID)
		assert.False(t, byID[rustCourse.ID].IsEnrolled)
		assert.NotContains(t, byID, hidden.ID)
	})

	t.Run("enrolled filter", func(t *testing.T) {
		views, total, err := repo.ListForStudent(ctx, nil, student.ID, repositories.StudentCourseFilters{Enrolled: boolPtr(true)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, views, 1)
		assert.Equal(t, goCourse.ID, views[0].ID)

		_, total, err = repo.ListForStudent(ctx, nil, student.ID, repositories.StudentCourseFilters{Enrolled: boolPtr(false)})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		views, _, err := repo.ListForStudent(ctx, nil, student.ID, repositories.StudentCourseFilters{Search: "go"})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, goCourse.ID, views[0].ID)
	})

	t.Run("inactive course is not found", func(t *testing.T) {
		_, err := repo.GetForStudent(ctx, nil, hidden.ID, student.ID)
		assert.True(t, repositories.IsNotFoundError(err))

		view, err := repo.GetForStudent(ctx, nil, goCourse.ID, student.ID)
		require.NoError(t, err)
		assert.True(t, view.IsEnrolled)
	})
}

func TestCoursePostgreSQL_AdminProjection(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewCoursePostgreSQL(db)
	ctx := context.Background()

	course := fx.Course("Go", true)
	fx.Course("Draft", false)
	fx.Module(course.ID, 1)
	fx.Module(course.ID, 2)
	enroll(t, db, fx.Student("a@example.com").ID, course.ID, true)

	withCounts, err := repo.GetWithCounts(ctx, nil, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), withCounts.ModulesCount)
	assert.Equal(t, int64(1), withCounts.EnrollmentsCount)

	courses, total, err := repo.Search(ctx, nil, repositories.CourseFilters{Active: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, courses, 1)
	assert.Equal(t, "Draft", courses[0].Title)
	assert.Zero(t, courses[0].ModulesCount)

	_, err = repo.GetWithCounts(ctx, nil, 9999)
	assert.True(t, repositories.IsNotFoundError(err))
}
