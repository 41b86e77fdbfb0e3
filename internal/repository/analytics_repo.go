package repository

import (
	"context"
	"time"

	"github.com/tourismoam/backoffice/internal/models"
	"gorm.io/gorm"
)

// SalesQuery narrows the package set used for sales figures. From is inclusive, To exclusive.
type SalesQuery struct {
	From        *time.Time
	To          *time.Time
	Statuses    []models.PackageStatus
	Airline     string
	Destination string
}

type SalesTotals struct {
	TotalSales    float64 `gorm:"column:total_sales"`
	TotalPackages int64   `gorm:"column:total_packages"`
}

type SalePoint struct {
	CreatedAt time.Time `gorm:"column:created_at"`
	Total     float64   `gorm:"column:total_estimated_cost"`
}

// GroupSales is one bucket of a grouped sales breakdown.
type GroupSales struct {
	Label         string  `gorm:"column:label"`
	Country       string  `gorm:"column:country"`
	City          *string `gorm:"column:city"`
	Sales         float64 `gorm:"column:sales"`
	PackagesCount int64   `gorm:"column:packages_count"`
}

type AnalyticsRepository interface {
	CountGuests(ctx context.Context, status models.GuestStatus) (int64, error)
	CountPackages(ctx context.Context, statuses ...models.PackageStatus) (int64, error)
	Sales(ctx context.Context, q SalesQuery) (SalesTotals, error)
	SalePoints(ctx context.Context, from, to time.Time) ([]SalePoint, error)
	// AirlineQuotes and DestinationQuotes aggregate quoted air fares.
	AirlineQuotes(ctx context.Context, limit int) ([]GroupSales, error)
	DestinationQuotes(ctx context.Context, limit int) ([]GroupSales, error)
	// SalesByAirline and SalesByDestination aggregate package totals.
	SalesByAirline(ctx context.Context) ([]GroupSales, error)
	SalesByDestination(ctx context.Context, byCity bool) ([]GroupSales, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountGuests(ctx context.Context, status models.GuestStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Guest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountPackages(ctx context.Context, statuses ...models.PackageStatus) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Package{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *analyticsRepository) Sales(ctx context.Context, sq SalesQuery) (SalesTotals, error) {
	q := r.db.WithContext(ctx).
		Table("travel_packages AS tp").
		Select("COALESCE(SUM(tp.total_estimated_cost), 0) AS total_sales, COUNT(*) AS total_packages").
		Joins("LEFT JOIN air_travel air ON air.package_id = tp.id")
	if sq.From != nil {
		q = q.Where("tp.created_at >= ?", *sq.From)
	}
	if sq.To != nil {
		q = q.Where("tp.created_at < ?", *sq.To)
	}
	if len(sq.Statuses) > 0 {
		q = q.Where("tp.status IN ?", sq.Statuses)
	}
	if sq.Airline != "" {
		q = q.Where("air.preferred_airline = ?", sq.Airline)
	}
	if sq.Destination != "" {
		q = q.Where("(air.destination_country = ? OR air.destination_city = ?)", sq.Destination, sq.Destination)
	}

	var totals SalesTotals
	err := q.Scan(&totals).Error
	return totals, err
}

func (r *analyticsRepository) SalePoints(ctx context.Context, from, to time.Time) ([]SalePoint, error) {
	points := make([]SalePoint, 0)
	err := r.db.WithContext(ctx).
		Model(&models.Package{}).
		Select("created_at, total_estimated_cost").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (r *analyticsRepository) AirlineQuotes(ctx context.Context, limit int) ([]GroupSales, error) {
	rows := make([]GroupSales, 0)
	err := r.db.WithContext(ctx).
		Table("air_travel").
		Select("preferred_airline AS label, COALESCE(SUM(estimated_cost), 0) AS sales, COUNT(*) AS packages_count").
		Where("preferred_airline IS NOT NULL").
		Group("preferred_airline").
		Order("sales DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) DestinationQuotes(ctx context.Context, limit int) ([]GroupSales, error) {
	rows := make([]GroupSales, 0)
	err := r.db.WithContext(ctx).
		Table("air_travel").
		Select("destination_country AS country, destination_city AS city, COALESCE(SUM(estimated_cost), 0) AS sales, COUNT(*) AS packages_count").
		Group("destination_country, destination_city").
		Order("sales DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Label = rows[i].Country
		if rows[i].City != nil {
			rows[i].Label += ", " + *rows[i].City
		}
	}
	return rows, nil
}

func (r *analyticsRepository) SalesByAirline(ctx context.Context) ([]GroupSales, error) {
	rows := make([]GroupSales, 0)
	err := r.db.WithContext(ctx).
		Table("air_travel AS air").
		Select("air.preferred_airline AS label, COALESCE(SUM(tp.total_estimated_cost), 0) AS sales, COUNT(*) AS packages_count").
		Joins("JOIN travel_packages tp ON tp.id = air.package_id").
		Where("air.preferred_airline IS NOT NULL").
		Group("air.preferred_airline").
		Order("sales DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) SalesByDestination(ctx context.Context, byCity bool) ([]GroupSales, error) {
	rows := make([]GroupSales, 0)
	q := r.db.WithContext(ctx).
		Table("air_travel AS air").
		Joins("JOIN travel_packages tp ON tp.id = air.package_id")
	if byCity {
		q = q.Select("air.destination_city AS label, air.destination_country AS country, air.destination_city AS city, COALESCE(SUM(tp.total_estimated_cost), 0) AS sales, COUNT(*) AS packages_count").
			Group("air.destination_country, air.destination_city")
	} else {
		q = q.Select("air.destination_country AS label, air.destination_country AS country, COALESCE(SUM(tp.total_estimated_cost), 0) AS sales, COUNT(*) AS packages_count").
			Group("air.destination_country")
	}
	if err := q.Order("sales DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
