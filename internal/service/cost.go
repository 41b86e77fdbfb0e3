package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"gorm.io/gorm"
)

type CostBreakdown struct {
	AirTravelCost      float64 `json:"air_travel_cost"`
	AccommodationsCost float64 `json:"accommodations_cost"`
	ToursCost          float64 `json:"tours_cost"`
	VisasCost          float64 `json:"visas_cost"`
	Total              float64 `json:"total"`
}

// CostAggregator keeps travel_packages.total_estimated_cost equal to the sum of
// the package's air travel, accommodation, tour and visa costs.
type CostAggregator struct {
	packages       repository.PackageRepository
	airTravel      repository.ItemRepository[models.AirTravel]
	accommodations repository.ItemRepository[models.Accommodation]
	tours          repository.ItemRepository[models.Tour]
	visas          repository.ItemRepository[models.Visa]
}

func NewCostAggregator(
	packages repository.PackageRepository,
	airTravel repository.ItemRepository[models.AirTravel],
	accommodations repository.ItemRepository[models.Accommodation],
	tours repository.ItemRepository[models.Tour],
	visas repository.ItemRepository[models.Visa],
) *CostAggregator {
	return &CostAggregator{
		packages:       packages,
		airTravel:      airTravel,
		accommodations: accommodations,
		tours:          tours,
		visas:          visas,
	}
}

// Compute sums the four component costs without writing anything.
func (a *CostAggregator) Compute(ctx context.Context, tx *gorm.DB, packageID uint) (*CostBreakdown, error) {
	air, err := a.airTravel.SumAmount(ctx, tx, packageID)
	if err != nil {
		return nil, fmt.Errorf("sum air travel cost: %w", err)
	}
	acc, err := a.accommodations.SumAmount(ctx, tx, packageID)
	if err != nil {
		return nil, fmt.Errorf("sum accommodations cost: %w", err)
	}
	tours, err := a.tours.SumAmount(ctx, tx, packageID)
	if err != nil {
		return nil, fmt.Errorf("sum tours cost: %w", err)
	}
	visas, err := a.visas.SumAmount(ctx, tx, packageID)
	if err != nil {
		return nil, fmt.Errorf("sum visas cost: %w", err)
	}

	parts := []decimal.Decimal{
		decimal.NewFromFloat(air),
		decimal.NewFromFloat(acc),
		decimal.NewFromFloat(tours),
		decimal.NewFromFloat(visas),
	}
	total := decimal.Sum(parts[0], parts[1:]...).Round(2)

	return &CostBreakdown{
		AirTravelCost:      parts[0].Round(2).InexactFloat64(),
		AccommodationsCost: parts[1].Round(2).InexactFloat64(),
		ToursCost:          parts[2].Round(2).InexactFloat64(),
		VisasCost:          parts[3].Round(2).InexactFloat64(),
		Total:              total.InexactFloat64(),
	}, nil
}

// Recalculate recomputes the total and overwrites the stored value.
func (a *CostAggregator) Recalculate(ctx context.Context, tx *gorm.DB, packageID uint) (*CostBreakdown, error) {
	breakdown, err := a.Compute(ctx, tx, packageID)
	if err != nil {
		return nil, err
	}
	if err := a.packages.UpdateTotal(ctx, tx, packageID, breakdown.Total); err != nil {
		return nil, fmt.Errorf("update package total: %w", err)
	}
	return breakdown, nil
}
