package repositories

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"gorm.io/gorm"
)

// CertificateRepository interface for certificate operations
type CertificateRepository interface {
	Create(ctx context.Context, tx *gorm.DB, certificate *models.Certificate) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Certificate, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Certificate, error)
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Certificate, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error

	ExistsByCode(ctx context.Context, tx *gorm.DB, code string) (bool, error)
	HasActive(ctx context.Context, tx *gorm.DB, studentID, courseID uint) (bool, error)
}
