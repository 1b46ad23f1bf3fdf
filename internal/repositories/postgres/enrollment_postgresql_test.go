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
)

func TestEnrollmentPostgreSQL_UniquePair(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewEnrollmentPostgreSQL(db)
	ctx := context.Background()

	student := fx.Student("ana@example.com")
	course := fx.Course("Go", true)

	require.NoError(t, repo.Create(ctx, nil, &models.Enrollment{StudentID: student.ID, CourseID: course.ID, EnrolledAt: time.Now(), Active: true}))

	err := repo.Create(ctx, nil, &models.Enrollment{StudentID: student.ID, CourseID: course.ID, EnrolledAt: time.Now(), Active: true})
	require.Error(t, err)
	assert.True(t, repositories.IsDuplicateKeyError(err))
}

func TestEnrollmentPostgreSQL_SearchAndStats(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewEnrollmentPostgreSQL(db)
	ctx := context.Background()

	ana := fx.Student("ana@example.com")
	ben := fx.Student("ben@example.com")
	goCourse := fx.Course("Go", true)
	rust := fx.Course("Rust", true)

	active := enroll(t, db, ana.ID, goCourse.ID, true)
	completed := enroll(t, db, ana.ID, rust.ID, true)
	now := time.Now()
	require.NoError(t, repo.Update(ctx, nil, completed.ID, map[string]interface{}{"completed_at": &now, "progress_percentage": 100}))
	cancelled := enroll(t, db, ben.ID, goCourse.ID, false)

	status := func(s models.EnrollmentStatus) *models.EnrollmentStatus { return &s }

	tests := []struct {
		name    string
		filters repositories.EnrollmentFilters
		want    []uint
	}{
		{"active", repositories.EnrollmentFilters{Status: status(models.EnrollmentStatusActive)}, []uint{active.ID}},
		{"completed", repositories.EnrollmentFilters{Status: status(models.EnrollmentStatusCompleted)}, []uint{completed.ID}},
		{"cancelled", repositories.EnrollmentFilters{Status: status(models.EnrollmentStatusCancelled)}, []uint{cancelled.ID}},
		{"by course", repositories.EnrollmentFilters{CourseID: &goCourse.ID}, []uint{active.ID, cancelled.ID}},
		{"search student email", repositories.EnrollmentFilters{Search: "BEN@"}, []uint{cancelled.ID}},
		{"search course title", repositories.EnrollmentFilters{Search: "rus"}, []uint{completed.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enrollments, total, err := repo.Search(ctx, nil, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)

			var got []uint
			for _, e := range enrollments {
				got = append(got, e.ID)
				assert.NotNil(t, e.Student)
				assert.NotNil(t, e.Course)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}

	stats, err := repo.GetStats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, &repositories.EnrollmentStats{Total: 3, Active: 2, Completed: 1, Cancelled: 1}, stats)
}

func TestProgressPostgreSQL_MarkCompletedUpserts(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewProgressPostgreSQL(db)
	ctx := context.Background()

	student := fx.Student("ana@example.com")
	course := fx.Course("Go", true)
	lesson := fx.TextLesson(fx.Module(course.ID, 1).ID, 1)
	enrollment := enroll(t, db, student.ID, course.ID, true)

	first, err := repo.MarkCompleted(ctx, nil, enrollment.ID, lesson.ID, time.Now())
	require.NoError(t, err)
	second, err := repo.MarkCompleted(ctx, nil, enrollment.ID, lesson.ID, time.Now())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Completed)

	count, err := repo.CountCompleted(ctx, nil, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	progress, err := repo.GetForStudentLesson(ctx, nil, student.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, progress.ID)
}
