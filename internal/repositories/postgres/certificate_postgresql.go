package postgres

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type CertificatePostgreSQL struct {
	*Store[models.Certificate]
}

func NewCertificatePostgreSQL(db *gorm.DB) repositories.CertificateRepository {
	return &CertificatePostgreSQL{Store: NewStore[models.Certificate](db)}
}

func (c *CertificatePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Certificate, error) {
	return c.FindByID(ctx, tx, id, preload("Course"))
}

func (c *CertificatePostgreSQL) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Certificate, error) {
	return c.FindOneBy(ctx, tx, "certificate_code = ?", code)
}

func (c *CertificatePostgreSQL) GetByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Certificate, error) {
	return c.FindBy(ctx, tx, whereEq("student_id", studentID), preload("Course"), orderedBy("issued_at DESC, id DESC"))
}

func (c *CertificatePostgreSQL) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	return c.UpdateByID(ctx, tx, id, updates)
}

func (c *CertificatePostgreSQL) ExistsByCode(ctx context.Context, tx *gorm.DB, code string) (bool, error) {
	return c.Exists(ctx, tx, "certificate_code = ?", code)
}

func (c *CertificatePostgreSQL) HasActive(ctx context.Context, tx *gorm.DB, studentID, courseID uint) (bool, error) {
	return c.Exists(ctx, tx, "student_id = ? AND course_id = ? AND active = ?", studentID, courseID, true)
}
