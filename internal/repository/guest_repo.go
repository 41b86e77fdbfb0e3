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

// GuestRow is one line of the guest list with the number of packages booked.
type GuestRow struct {
	ID                 uint               `json:"guest_id"`
	FullName           string             `json:"full_name"`
	PhoneNumber        string             `json:"phone_number"`
	CountryOfResidence string             `json:"country_of_residence"`
	PassportImagePath  *string            `json:"passport_image_path"`
	Status             models.GuestStatus `json:"status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	PackagesCount      int64              `json:"packages_count"`
}

type GuestRepository interface {
	Create(ctx context.Context, tx *gorm.DB, guest *models.Guest) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Guest, error)
	FindByPhone(ctx context.Context, tx *gorm.DB, phone string) (*models.Guest, error)
	FindByPackage(ctx context.Context, tx *gorm.DB, packageID uint) (*models.Guest, error)
	List(ctx context.Context, filter dto.GuestFilter) ([]GuestRow, int64, error)
	Save(ctx context.Context, guest *models.Guest) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.GuestStatus) (int64, error)
	UpdatePassport(ctx context.Context, id uint, path string) (int64, error)
	CountPackages(ctx context.Context, id uint) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	GetDB() *gorm.DB
}

type guestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) GuestRepository {
	return &guestRepository{db: db}
}

func (r *guestRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *guestRepository) Create(ctx context.Context, tx *gorm.DB, guest *models.Guest) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(guest).Error
}

func (r *guestRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := tx.WithContext(ctx).First(&guest, id).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

// FindByPhone returns the oldest guest with the given phone number.
func (r *guestRepository) FindByPhone(ctx context.Context, tx *gorm.DB, phone string) (*models.Guest, error) {
	var guest models.Guest
	err := tx.WithContext(ctx).
		Where("phone_number = ?", phone).
		Order("id ASC").
		First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) FindByPackage(ctx context.Context, tx *gorm.DB, packageID uint) (*models.Guest, error) {
	var guest models.Guest
	err := tx.WithContext(ctx).
		Joins("JOIN travel_packages tp ON tp.guest_id = guests.id").
		Where("tp.id = ?", packageID).
		First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) List(ctx context.Context, filter dto.GuestFilter) ([]GuestRow, int64, error) {
	base := r.db.WithContext(ctx).Table("guests AS g")
	if filter.Status != "" {
		base = base.Where("g.status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		base = base.Where("(LOWER(g.full_name) LIKE ? OR LOWER(g.phone_number) LIKE ?)", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]GuestRow, 0)
	err := base.Session(&gorm.Session{}).
		Select(`g.id, g.full_name, g.phone_number, g.country_of_residence, g.passport_image_path, g.status,
			g.created_at, g.updated_at,
			(SELECT COUNT(*) FROM travel_packages tp WHERE tp.guest_id = g.id) AS packages_count`).
		Order("g.created_at DESC").
		Order("g.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *guestRepository) Save(ctx context.Context, guest *models.Guest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(guest).Error
}

func (r *guestRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.GuestStatus) (int64, error) {
	result := tx.WithContext(ctx).
		Model(&models.Guest{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *guestRepository) UpdatePassport(ctx context.Context, id uint, path string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Guest{}).
		Where("id = ?", id).
		Update("passport_image_path", path)
	return result.RowsAffected, result.Error
}

func (r *guestRepository) CountPackages(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Package{}).
		Where("guest_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *guestRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Guest{}, id)
	return result.RowsAffected, result.Error
}
