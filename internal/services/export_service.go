package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	enrollmentSheet  = "Enrollments"
	exportPageSize   = 100
	exportTimeLayout = "2006-01-02 15:04"
)

var enrollmentHeaders = []string{
	"Enrollment ID", "Student", "Email", "Course", "Status", "Progress (%)", "Enrolled At", "Completed At",
}

type exportService struct {
	repo   repositories.Repository
	logger *ServiceLogger
}

func NewExportService(deps Dependencies) ExportService {
	return &exportService{
		repo:   deps.Repo,
		logger: deps.serviceLogger("export"),
	}
}

// ExportEnrollments writes every enrollment matching the filters as an xlsx workbook.
// The pagination in filters is ignored.
func (s *exportService) ExportEnrollments(ctx context.Context, identity auth.Identity, filters repositories.EnrollmentFilters, w io.Writer) (err error) {
	op := s.logger.WithOperation(ctx, "export.enrollments", identity.UserID)
	defer func() { op.LogResult(0, "enrollment", err) }()

	if err = requireAdmin(identity, "enrollment", "export", 0); err != nil {
		return err
	}

	enrollments, err := s.collectEnrollments(ctx, filters)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err = f.SetSheetName(f.GetSheetName(0), enrollmentSheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	for col, header := range enrollmentHeaders {
		if err = setCell(f, col+1, 1, header); err != nil {
			return err
		}
	}

	for i, enrollment := range enrollments {
		for col, value := range enrollmentRow(enrollment) {
			if err = setCell(f, col+1, i+2, value); err != nil {
				return err
			}
		}
	}

	if _, err = f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func (s *exportService) collectEnrollments(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, error) {
	var all []*models.Enrollment
	filters.Pagination = repositories.Pagination{Page: 1, PerPage: exportPageSize}

	for {
		page, total, err := s.repo.Enrollment().Search(ctx, nil, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to load enrollments: %w", err)
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			return all, nil
		}
		filters.Page++
	}
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell coordinates: %w", err)
	}
	return f.SetCellValue(enrollmentSheet, cell, value)
}

func enrollmentRow(e *models.Enrollment) []interface{} {
	var student, email, course string
	if e.Student != nil {
		student, email = e.Student.Name, e.Student.Email
	}
	if e.Course != nil {
		course = e.Course.Title
	}

	return []interface{}{
		e.ID,
		student,
		email,
		course,
		string(e.Status()),
		e.ProgressPercentage,
		e.EnrolledAt.Format(exportTimeLayout),
		formatOptionalTime(e.CompletedAt),
	}
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeLayout)
}
