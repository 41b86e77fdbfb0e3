package repository

import (
	"context"

	"github.com/tourismoam/backoffice/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuotationRepository interface {
	CountByPrefix(ctx context.Context, tx *gorm.DB, prefix string) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, q *models.Quotation) error
	FindByID(ctx context.Context, packageID, id uint) (*models.Quotation, error)
	FindByPackage(ctx context.Context, packageID uint) ([]models.Quotation, error)
	Save(ctx context.Context, q *models.Quotation) error
}

type quotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) CountByPrefix(ctx context.Context, tx *gorm.DB, prefix string) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Quotation{}).
		Where("quotation_number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

func (r *quotationRepository) Create(ctx context.Context, tx *gorm.DB, q *models.Quotation) error {
	return tx.WithContext(ctx).Create(q).Error
}

func (r *quotationRepository) FindByID(ctx context.Context, packageID, id uint) (*models.Quotation, error) {
	var q models.Quotation
	err := r.db.WithContext(ctx).
		Where("id = ? AND package_id = ?", id, packageID).
		First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quotationRepository) FindByPackage(ctx context.Context, packageID uint) ([]models.Quotation, error) {
	quotations := make([]models.Quotation, 0)
	err := r.db.WithContext(ctx).
		Where("package_id = ?", packageID).
		Order("generated_date DESC, id DESC").
		Find(&quotations).Error
	if err != nil {
		return nil, err
	}
	return quotations, nil
}

func (r *quotationRepository) Save(ctx context.Context, q *models.Quotation) error {
	return r.db.WithContext(ctx).Save(q).Error
}

type ContractRepository interface {
	// Upsert inserts the package contract or resets the existing one to the given draft.
	Upsert(ctx context.Context, c *models.Contract) error
	FindByPackage(ctx context.Context, packageID uint) (*models.Contract, error)
	Save(ctx context.Context, c *models.Contract) error
}

type contractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Upsert(ctx context.Context, c *models.Contract) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "package_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"contract_pdf_path", "status", "notes", "updated_at"}),
		}).
		Create(c).Error
	if err != nil {
		return err
	}
	stored, err := r.FindByPackage(ctx, c.PackageID)
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

func (r *contractRepository) FindByPackage(ctx context.Context, packageID uint) (*models.Contract, error) {
	var c models.Contract
	if err := r.db.WithContext(ctx).Where("package_id = ?", packageID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contractRepository) Save(ctx context.Context, c *models.Contract) error {
	return r.db.WithContext(ctx).Save(c).Error
}
