package repository

import (
	"context"

	"github.com/tourismoam/backoffice/internal/models"
	"gorm.io/gorm"
)

// PackageItem is any row owned by a travel package.
type PackageItem interface {
	models.AirTravel | models.Accommodation | models.Tour | models.Visa | models.Payment
}

// ItemRepository covers the rows that hang off a package: air travel,
// accommodations, tours, visas and payments.
type ItemRepository[T PackageItem] interface {
	Create(ctx context.Context, tx *gorm.DB, item *T) error
	Save(ctx context.Context, tx *gorm.DB, item *T) error
	FindByID(ctx context.Context, packageID, id uint) (*T, error)
	FindOne(ctx context.Context, id uint) (*T, error)
	FindByPackage(ctx context.Context, tx *gorm.DB, packageID uint) ([]T, error)
	Delete(ctx context.Context, tx *gorm.DB, packageID, id uint) (int64, error)
	DeleteByPackage(ctx context.Context, tx *gorm.DB, packageID uint) error
	// SumAmount totals the money column, zero when the package has no rows.
	SumAmount(ctx context.Context, tx *gorm.DB, packageID uint) (float64, error)
	GetDB() *gorm.DB
}

type itemRepository[T PackageItem] struct {
	db           *gorm.DB
	amountColumn string
	order        string
}

func newItemRepository[T PackageItem](db *gorm.DB, amountColumn, order string) ItemRepository[T] {
	return &itemRepository[T]{db: db, amountColumn: amountColumn, order: order}
}

func NewAirTravelRepository(db *gorm.DB) ItemRepository[models.AirTravel] {
	return newItemRepository[models.AirTravel](db, "estimated_cost", "id ASC")
}

func NewAccommodationRepository(db *gorm.DB) ItemRepository[models.Accommodation] {
	return newItemRepository[models.Accommodation](db, "cost", "check_in_date ASC, id ASC")
}

func NewTourRepository(db *gorm.DB) ItemRepository[models.Tour] {
	return newItemRepository[models.Tour](db, "cost", "tour_date ASC, id ASC")
}

func NewVisaRepository(db *gorm.DB) ItemRepository[models.Visa] {
	return newItemRepository[models.Visa](db, "cost", "id ASC")
}

func NewPaymentRepository(db *gorm.DB) ItemRepository[models.Payment] {
	return newItemRepository[models.Payment](db, "payment_amount", "payment_date DESC, id DESC")
}

func (r *itemRepository[T]) GetDB() *gorm.DB {
	return r.db
}

func (r *itemRepository[T]) Create(ctx context.Context, tx *gorm.DB, item *T) error {
	return tx.WithContext(ctx).Create(item).Error
}

func (r *itemRepository[T]) Save(ctx context.Context, tx *gorm.DB, item *T) error {
	return tx.WithContext(ctx).Save(item).Error
}

func (r *itemRepository[T]) FindByID(ctx context.Context, packageID, id uint) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).
		Where("id = ? AND package_id = ?", id, packageID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository[T]) FindOne(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository[T]) FindByPackage(ctx context.Context, tx *gorm.DB, packageID uint) ([]T, error) {
	items := make([]T, 0)
	err := tx.WithContext(ctx).
		Where("package_id = ?", packageID).
		Order(r.order).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository[T]) Delete(ctx context.Context, tx *gorm.DB, packageID, id uint) (int64, error) {
	var item T
	result := tx.WithContext(ctx).
		Where("id = ? AND package_id = ?", id, packageID).
		Delete(&item)
	return result.RowsAffected, result.Error
}

func (r *itemRepository[T]) DeleteByPackage(ctx context.Context, tx *gorm.DB, packageID uint) error {
	var item T
	return tx.WithContext(ctx).
		Where("package_id = ?", packageID).
		Delete(&item).Error
}

func (r *itemRepository[T]) SumAmount(ctx context.Context, tx *gorm.DB, packageID uint) (float64, error) {
	var total float64
	var item T
	err := tx.WithContext(ctx).
		Model(&item).
		Select("COALESCE(SUM(" + r.amountColumn + "), 0)").
		Where("package_id = ?", packageID).
		Scan(&total).Error
	return total, err
}
