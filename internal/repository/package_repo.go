package repository

import (
	"context"
	"strings"
	"time"

	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PackageRow is one line of the package list, with guest name and component counts.
type PackageRow struct {
	ID                  uint
	GuestID             uint
	PackageName         *string
	Status              models.PackageStatus
	TotalEstimatedCost  float64
	CreatedAt           time.Time
	UpdatedAt           time.Time
	GuestName           *string
	AirTravelCount      int64
	AccommodationsCount int64
	ToursCount          int64
	VisasCount          int64
}

type PackageRepository interface {
	Create(ctx context.Context, tx *gorm.DB, pkg *models.Package) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Package, error)
	// FindHydrated loads the package with guest, itinerary and timeline. When
	// withDocuments is set quotations, contract and payments are loaded too.
	FindHydrated(ctx context.Context, tx *gorm.DB, id uint, withDocuments bool) (*models.Package, error)
	FindByGuest(ctx context.Context, guestID uint, status string) ([]models.Package, error)
	List(ctx context.Context, filter dto.PackageFilter) ([]PackageRow, int64, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Save(ctx context.Context, tx *gorm.DB, pkg *models.Package) error
	UpdateTotal(ctx context.Context, tx *gorm.DB, id uint, total float64) error
	UpdateName(ctx context.Context, tx *gorm.DB, id uint, name *string) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	GetDB() *gorm.DB
}

type packageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *packageRepository) Create(ctx context.Context, tx *gorm.DB, pkg *models.Package) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(pkg).Error
}

func (r *packageRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Package, error) {
	var pkg models.Package
	if err := tx.WithContext(ctx).First(&pkg, id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepository) FindHydrated(ctx context.Context, tx *gorm.DB, id uint, withDocuments bool) (*models.Package, error) {
	q := tx.WithContext(ctx).
		Preload("Guest").
		Preload("AirTravel").
		Preload("Accommodations", func(db *gorm.DB) *gorm.DB {
			return db.Order("check_in_date ASC, id ASC")
		}).
		Preload("Tours", func(db *gorm.DB) *gorm.DB {
			return db.Order("tour_date ASC, id ASC")
		}).
		Preload("Visas", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
	if withDocuments {
		q = q.
			Preload("Quotations", func(db *gorm.DB) *gorm.DB {
				return db.Order("generated_date DESC, id DESC")
			}).
			Preload("Contract").
			Preload("Payments", func(db *gorm.DB) *gorm.DB {
				return db.Order("payment_date DESC, id DESC")
			})
	}

	var pkg models.Package
	if err := q.First(&pkg, id).Error; err != nil {
		return nil, err
	}
	normalizeCollections(&pkg, withDocuments)
	return &pkg, nil
}

// normalizeCollections makes empty relations encode as [] instead of null.
func normalizeCollections(pkg *models.Package, withDocuments bool) {
	if pkg.Accommodations == nil {
		pkg.Accommodations = []models.Accommodation{}
	}
	if pkg.Tours == nil {
		pkg.Tours = []models.Tour{}
	}
	if pkg.Visas == nil {
		pkg.Visas = []models.Visa{}
	}
	if pkg.Timeline == nil {
		pkg.Timeline = []models.TimelineStep{}
	}
	if withDocuments {
		if pkg.Quotations == nil {
			pkg.Quotations = []models.Quotation{}
		}
		if pkg.Payments == nil {
			pkg.Payments = []models.Payment{}
		}
	}
}

func (r *packageRepository) FindByGuest(ctx context.Context, guestID uint, status string) ([]models.Package, error) {
	packages := make([]models.Package, 0)
	q := r.db.WithContext(ctx).Where("guest_id = ?", guestID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *packageRepository) List(ctx context.Context, filter dto.PackageFilter) ([]PackageRow, int64, error) {
	base := r.db.WithContext(ctx).Table("travel_packages AS tp")
	if filter.GuestID != 0 {
		base = base.Where("tp.guest_id = ?", filter.GuestID)
	}
	if filter.Status != "" {
		base = base.Where("tp.status = ?", filter.Status)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "tp.created_at"
	if filter.SortBy == "total_estimated_cost" {
		sortBy = "tp.total_estimated_cost"
	}
	order := "DESC"
	if strings.EqualFold(filter.Order, "ASC") {
		order = "ASC"
	}

	rows := make([]PackageRow, 0)
	err := base.Session(&gorm.Session{}).
		Select(`tp.id, tp.guest_id, tp.package_name, tp.status, tp.total_estimated_cost, tp.created_at, tp.updated_at,
			g.full_name AS guest_name,
			(SELECT COUNT(*) FROM air_travel a WHERE a.package_id = tp.id) AS air_travel_count,
			(SELECT COUNT(*) FROM accommodations ac WHERE ac.package_id = tp.id) AS accommodations_count,
			(SELECT COUNT(*) FROM tours t WHERE t.package_id = tp.id) AS tours_count,
			(SELECT COUNT(*) FROM visas v WHERE v.package_id = tp.id) AS visas_count`).
		Joins("LEFT JOIN guests g ON g.id = tp.guest_id").
		Order(sortBy + " " + order).
		Order("tp.id " + order).
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *packageRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Package{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *packageRepository) Save(ctx context.Context, tx *gorm.DB, pkg *models.Package) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Save(pkg).Error
}

func (r *packageRepository) UpdateTotal(ctx context.Context, tx *gorm.DB, id uint, total float64) error {
	return tx.WithContext(ctx).
		Model(&models.Package{}).
		Where("id = ?", id).
		Update("total_estimated_cost", total).Error
}

func (r *packageRepository) UpdateName(ctx context.Context, tx *gorm.DB, id uint, name *string) error {
	return tx.WithContext(ctx).
		Model(&models.Package{}).
		Where("id = ?", id).
		Update("package_name", name).Error
}

// Delete removes the package and every row it owns.
func (r *packageRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	children := []any{
		&models.AirTravel{},
		&models.Accommodation{},
		&models.Tour{},
		&models.Visa{},
		&models.TimelineStep{},
		&models.Quotation{},
		&models.Contract{},
		&models.Payment{},
	}
	for _, child := range children {
		if err := tx.WithContext(ctx).Where("package_id = ?", id).Delete(child).Error; err != nil {
			return err
		}
	}
	return tx.WithContext(ctx).Delete(&models.Package{}, id).Error
}
