package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PackageListItem struct {
	ID                 uint                 `json:"package_id"`
	GuestID            uint                 `json:"guest_id"`
	GuestName          *string              `json:"guest_name"`
	PackageName        *string              `json:"package_name"`
	Status             models.PackageStatus `json:"status"`
	TotalEstimatedCost float64              `json:"total_estimated_cost"`
	HasAirTravel       bool                 `json:"has_air_travel"`
	HasAccommodations  bool                 `json:"has_accommodations"`
	HasTours           bool                 `json:"has_tours"`
	HasVisas           bool                 `json:"has_visas"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

type TotalCostView struct {
	PackageID          uint           `json:"package_id"`
	TotalEstimatedCost float64        `json:"total_estimated_cost"`
	Breakdown          *CostBreakdown `json:"breakdown"`
	LastCalculated     time.Time      `json:"last_calculated"`
}

type RecalculationView struct {
	PackageID     uint           `json:"package_id"`
	PreviousTotal float64        `json:"previous_total"`
	NewTotal      float64        `json:"new_total"`
	Breakdown     *CostBreakdown `json:"breakdown"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type PackageService interface {
	Create(ctx context.Context, req *dto.PackageCreateRequest) (*models.Package, error)
	List(ctx context.Context, filter dto.PackageFilter) ([]PackageListItem, int64, error)
	Get(ctx context.Context, id uint) (*models.Package, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, id uint, u *dto.PackageUpdate) (*models.Package, error)
	UpdateStatus(ctx context.Context, id uint, status models.PackageStatus) (*models.Package, error)
	Delete(ctx context.Context, id uint) error
	TotalCost(ctx context.Context, id uint) (*TotalCostView, error)
	Recalculate(ctx context.Context, id uint) (*RecalculationView, error)
}

type packageService struct {
	packages repository.PackageRepository
	guests   repository.GuestRepository
	timeline TimelineService
	cost     *CostAggregator
	events   notifier
}

func NewPackageService(
	packages repository.PackageRepository,
	guests repository.GuestRepository,
	timeline TimelineService,
	cost *CostAggregator,
	publisher EventPublisher,
	log *zap.Logger,
) PackageService {
	return &packageService{
		packages: packages,
		guests:   guests,
		timeline: timeline,
		cost:     cost,
		events:   newNotifier(publisher, log),
	}
}

func (s *packageService) Create(ctx context.Context, req *dto.PackageCreateRequest) (*models.Package, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	pkg := &models.Package{
		GuestID:     *req.GuestID,
		PackageName: req.PackageName,
		Status:      models.PackageStatusDraft,
	}
	err := s.packages.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guests.FindByID(ctx, tx, pkg.GuestID); err != nil {
			return notFoundOr(err, "Guest", "load guest")
		}
		if err := s.packages.Create(ctx, tx, pkg); err != nil {
			return fmt.Errorf("create package: %w", err)
		}
		return s.timeline.Initialize(ctx, tx, pkg.ID)
	})
	if err != nil {
		return nil, err
	}

	s.events.notify(EventPackageCreated, pkg.ID, pkg.GuestID, "Package created")
	return s.Get(ctx, pkg.ID)
}

func (s *packageService) List(ctx context.Context, filter dto.PackageFilter) ([]PackageListItem, int64, error) {
	filter.Normalize()
	rows, total, err := s.packages.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list packages: %w", err)
	}

	items := make([]PackageListItem, len(rows))
	for i, r := range rows {
		items[i] = PackageListItem{
			ID:                 r.ID,
			GuestID:            r.GuestID,
			GuestName:          r.GuestName,
			PackageName:        r.PackageName,
			Status:             r.Status,
			TotalEstimatedCost: r.TotalEstimatedCost,
			HasAirTravel:       r.AirTravelCount > 0,
			HasAccommodations:  r.AccommodationsCount > 0,
			HasTours:           r.ToursCount > 0,
			HasVisas:           r.VisasCount > 0,
			CreatedAt:          r.CreatedAt,
			UpdatedAt:          r.UpdatedAt,
		}
	}
	return items, total, nil
}

func (s *packageService) Get(ctx context.Context, id uint) (*models.Package, error) {
	pkg, err := s.packages.FindHydrated(ctx, s.packages.GetDB(), id, true)
	if err != nil {
		return nil, notFoundOr(err, "Package", "get package")
	}
	return pkg, nil
}

func (s *packageService) Exists(ctx context.Context, id uint) (bool, error) {
	return s.packages.Exists(ctx, id)
}

func (s *packageService) Update(ctx context.Context, id uint, u *dto.PackageUpdate) (*models.Package, error) {
	if err := ValidateStruct(u); err != nil {
		return nil, err
	}
	db := s.packages.GetDB()
	pkg, err := s.packages.FindByID(ctx, db, id)
	if err != nil {
		return nil, notFoundOr(err, "Package", "get package")
	}
	if u.ApplyTo(pkg) == 0 {
		return nil, errNoFieldsToUpdate
	}
	if err := s.packages.Save(ctx, db, pkg); err != nil {
		return nil, fmt.Errorf("update package: %w", err)
	}

	s.events.notify(EventPackageUpdated, pkg.ID, pkg.GuestID, "Package updated")
	return pkg, nil
}

func (s *packageService) UpdateStatus(ctx context.Context, id uint, status models.PackageStatus) (*models.Package, error) {
	return s.Update(ctx, id, &dto.PackageUpdate{Status: &status})
}

func (s *packageService) Delete(ctx context.Context, id uint) error {
	var guestID uint
	err := s.packages.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pkg, err := s.packages.FindByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "Package", "get package")
		}
		guestID = pkg.GuestID
		if err := s.packages.Delete(ctx, tx, id); err != nil {
			return fmt.Errorf("delete package: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.notify(EventPackageDeleted, id, guestID, "Package deleted")
	return nil
}

func (s *packageService) TotalCost(ctx context.Context, id uint) (*TotalCostView, error) {
	db := s.packages.GetDB()
	pkg, err := s.packages.FindByID(ctx, db, id)
	if err != nil {
		return nil, notFoundOr(err, "Package", "get package")
	}
	breakdown, err := s.cost.Compute(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return &TotalCostView{
		PackageID:          id,
		TotalEstimatedCost: pkg.TotalEstimatedCost,
		Breakdown:          breakdown,
		LastCalculated:     pkg.UpdatedAt,
	}, nil
}

func (s *packageService) Recalculate(ctx context.Context, id uint) (*RecalculationView, error) {
	view := &RecalculationView{PackageID: id}
	err := s.packages.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pkg, err := s.packages.FindByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "Package", "get package")
		}
		view.PreviousTotal = pkg.TotalEstimatedCost

		breakdown, err := s.cost.Recalculate(ctx, tx, id)
		if err != nil {
			return err
		}
		view.Breakdown = breakdown
		view.NewTotal = breakdown.Total
		return nil
	})
	if err != nil {
		return nil, err
	}
	view.UpdatedAt = time.Now().UTC()
	return view, nil
}
