package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

const (
	certificatePrefix     = "CERT-"
	certificateCodeLength = 10
	certificateAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts       = 5
)

type certificateService struct {
	repo      repositories.Repository
	db        *gorm.DB
	publisher events.EventPublisher
	logger    *ServiceLogger
	newCode   func() (string, error)
}

func NewCertificateService(deps Dependencies) CertificateService {
	return &certificateService{
		repo:      deps.Repo,
		db:        deps.Repo.DB(),
		publisher: deps.Publisher,
		logger:    deps.serviceLogger("certificate"),
		newCode:   generateCertificateCode,
	}
}

// generateCertificateCode returns CERT- followed by 10 random uppercase alphanumerics
func generateCertificateCode() (string, error) {
	code := make([]byte, certificateCodeLength)
	limit := big.NewInt(int64(len(certificateAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate certificate code: %w", err)
		}
		code[i] = certificateAlphabet[n.Int64()]
	}
	return certificatePrefix + string(code), nil
}

// Issue creates a certificate for a completed enrollment. A student holds at
// most one active certificate per course.
func (s *certificateService) Issue(ctx context.Context, identity auth.Identity, enrollmentID uint) (certificate *models.Certificate, err error) {
	op := s.logger.WithOperation(ctx, "certificate.issue", identity.UserID)
	defer func() { op.LogResult(enrollmentID, "enrollment", err) }()

	if err = requireAdmin(identity, "certificate", "issue", enrollmentID); err != nil {
		return nil, err
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		enrollment, err := s.repo.Enrollment().GetByID(ctx, tx, enrollmentID)
		if err != nil {
			return notFoundAs(err, ErrEnrollmentNotFound, "get enrollment")
		}
		if !enrollment.IsCompleted() {
			return ErrEnrollmentNotCompleted
		}

		exists, err := s.repo.Certificate().HasActive(ctx, tx, enrollment.StudentID, enrollment.CourseID)
		if err != nil {
			return fmt.Errorf("failed to check certificates: %w", err)
		}
		if exists {
			return ErrCertificateExists
		}

		code, err := s.uniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		certificate = &models.Certificate{
			StudentID:       enrollment.StudentID,
			CourseID:        enrollment.CourseID,
			CertificateCode: code,
			IssuedAt:        time.Now(),
			Active:          true,
		}
		if err := s.repo.Certificate().Create(ctx, tx, certificate); err != nil {
			return fmt.Errorf("failed to create certificate: %w", err)
		}

		return recordAudit(ctx, tx, s.repo.Audit(), identity, models.AuditCertificateIssued, "certificate", certificate.ID,
			fmt.Sprintf("Certificate %s issued", code),
			map[string]interface{}{"enrollment_id": enrollmentID})
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger.Logger(), events.EventCertificateIssued, events.CertificateIssuedEvent{
		CertificateID:   certificate.ID,
		CertificateCode: certificate.CertificateCode,
		StudentID:       certificate.StudentID,
		CourseID:        certificate.CourseID,
	})
	return certificate, nil
}

func (s *certificateService) uniqueCode(ctx context.Context, tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		taken, err := s.repo.Certificate().ExistsByCode(ctx, tx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check certificate code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCertificateCodeExhausted
}

func (s *certificateService) Revoke(ctx context.Context, identity auth.Identity, certificateID uint) (err error) {
	op := s.logger.WithOperation(ctx, "certificate.revoke", identity.UserID)
	defer func() { op.LogResult(certificateID, "certificate", err) }()

	if err = requireAdmin(identity, "certificate", "revoke", certificateID); err != nil {
		return err
	}

	return withTx(ctx, s.db, func(tx *gorm.DB) error {
		certificate, err := s.repo.Certificate().GetByID(ctx, tx, certificateID)
		if err != nil {
			return notFoundAs(err, ErrCertificateNotFound, "get certificate")
		}
		if !certificate.Active {
			return nil
		}

		if err := s.repo.Certificate().Update(ctx, tx, certificateID, map[string]interface{}{"active": false}); err != nil {
			return fmt.Errorf("failed to revoke certificate: %w", err)
		}
		return recordAudit(ctx, tx, s.repo.Audit(), identity, models.AuditCertificateRevoked, "certificate", certificateID,
			fmt.Sprintf("Certificate %s revoked", certificate.CertificateCode), nil)
	})
}

func (s *certificateService) GetByCode(ctx context.Context, code string) (*models.Certificate, error) {
	certificate, err := s.repo.Certificate().GetByCode(ctx, nil, code)
	if err != nil {
		return nil, notFoundAs(err, ErrCertificateNotFound, "get certificate")
	}
	return certificate, nil
}

func (s *certificateService) ListForStudent(ctx context.Context, identity auth.Identity, studentID uint) ([]*models.Certificate, error) {
	if err := requireSelfOrAdmin(identity, studentID, "certificate", "list"); err != nil {
		return nil, err
	}

	certificates, err := s.repo.Certificate().GetByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return certificates, nil
}
