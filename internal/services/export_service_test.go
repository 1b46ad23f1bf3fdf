package services

import (
	"bytes"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService_ExportEnrollments(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExportService(env.deps)

	course := env.fx.Course("Go", true)
	enrollStudent(t, env, "ana@example.com", course.ID)
	cancelled, ben := enrollStudent(t, env, "ben@example.com", course.ID)
	require.NoError(t, NewEnrollmentService(env.deps).CancelEnrollment(env.ctx, identityOf(ben), cancelled.ID))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportEnrollments(env.ctx, env.admin, repositories.EnrollmentFilters{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(enrollmentSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, enrollmentHeaders, rows[0])

	statuses := map[string]string{}
	for _, row := range rows[1:] {
		require.GreaterOrEqual(t, len(row), 5)
		assert.Equal(t, "Go", row[3])
		statuses[row[2]] = row[4]
	}
	assert.Equal(t, string(models.EnrollmentStatusActive), statuses["ana@example.com"])
	assert.Equal(t, string(models.EnrollmentStatusCancelled), statuses["ben@example.com"])

	status := models.EnrollmentStatusCancelled
	buf.Reset()
	require.NoError(t, svc.ExportEnrollments(env.ctx, env.admin, repositories.EnrollmentFilters{Status: &status}, &buf))
	filtered, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer filtered.Close()
	rows, err = filtered.GetRows(enrollmentSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestExportService_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, student := env.student("ana@example.com")

	var buf bytes.Buffer
	err := NewExportService(env.deps).ExportEnrollments(env.ctx, student, repositories.EnrollmentFilters{}, &buf)
	assert.True(t, IsUnauthorized(err))
	assert.Zero(t, buf.Len())
}
