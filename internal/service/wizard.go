package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WizardService creates or replaces a whole package, guest and components
// included, as a single transaction.
type WizardService interface {
	Create(ctx context.Context, req *dto.WizardCreateRequest) (*models.Package, error)
	Replace(ctx context.Context, packageID uint, req *dto.WizardUpdateRequest) (*models.Package, error)
}

type wizardService struct {
	guests         repository.GuestRepository
	packages       repository.PackageRepository
	airTravel      repository.ItemRepository[models.AirTravel]
	accommodations repository.ItemRepository[models.Accommodation]
	tours          repository.ItemRepository[models.Tour]
	visas          repository.ItemRepository[models.Visa]
	timeline       TimelineService
	cost           *CostAggregator
	events         notifier
}

func NewWizardService(
	guests repository.GuestRepository,
	packages repository.PackageRepository,
	airTravel repository.ItemRepository[models.AirTravel],
	accommodations repository.ItemRepository[models.Accommodation],
	tours repository.ItemRepository[models.Tour],
	visas repository.ItemRepository[models.Visa],
	timeline TimelineService,
	cost *CostAggregator,
	publisher EventPublisher,
	log *zap.Logger,
) WizardService {
	return &wizardService{
		guests:         guests,
		packages:       packages,
		airTravel:      airTravel,
		accommodations: accommodations,
		tours:          tours,
		visas:          visas,
		timeline:       timeline,
		cost:           cost,
		events:         newNotifier(publisher, log),
	}
}

func (s *wizardService) Create(ctx context.Context, req *dto.WizardCreateRequest) (*models.Package, error) {
	if req.Guest == nil {
		return nil, missingFields("guest")
	}
	if err := ValidateStruct(req.Guest); err != nil {
		return nil, err
	}

	var pkg *models.Package
	err := s.packages.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Reuse the guest with this phone number, or register a new one
		guest, err := s.resolveGuest(ctx, tx, req.Guest)
		if err != nil {
			return err
		}

		// 2. Package
		pkg = &models.Package{
			GuestID:     guest.ID,
			PackageName: req.PackageName,
			Status:      models.PackageStatusDraft,
		}
		if err := s.packages.Create(ctx, tx, pkg); err != nil {
			return fmt.Errorf("create package: %w", err)
		}

		// 3. Components
		if req.AirTravel != nil {
			if err := s.insertAirTravel(ctx, tx, pkg.ID, req.AirTravel); err != nil {
				return err
			}
		}
		if err := s.insertAccommodations(ctx, tx, pkg.ID, req.Accommodations); err != nil {
			return err
		}
		if err := s.insertTours(ctx, tx, pkg.ID, req.Tours); err != nil {
			return err
		}
		if err := s.insertVisas(ctx, tx, pkg.ID, req.Visas); err != nil {
			return err
		}

		// 4. Timeline and total
		if err := s.timeline.Initialize(ctx, tx, pkg.ID); err != nil {
			return err
		}
		_, err = s.cost.Recalculate(ctx, tx, pkg.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.notify(EventPackageCreated, pkg.ID, pkg.GuestID, "Package created through the wizard")
	return s.hydrate(ctx, pkg.ID)
}

func (s *wizardService) Replace(ctx context.Context, packageID uint, req *dto.WizardUpdateRequest) (*models.Package, error) {
	var guestID uint
	err := s.packages.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pkg, err := s.packages.FindByID(ctx, tx, packageID)
		if err != nil {
			return notFoundOr(err, "Package", "load package")
		}
		guestID = pkg.GuestID

		if req.PackageName.Set {
			if err := s.packages.UpdateName(ctx, tx, packageID, req.PackageName.Value); err != nil {
				return fmt.Errorf("update package name: %w", err)
			}
		}

		if req.AirTravel.Set {
			if err := s.airTravel.DeleteByPackage(ctx, tx, packageID); err != nil {
				return fmt.Errorf("clear air travel: %w", err)
			}
			if req.AirTravel.Value != nil {
				if err := s.insertAirTravel(ctx, tx, packageID, req.AirTravel.Value); err != nil {
					return err
				}
			}
		}
		if req.Accommodations.Set {
			if err := s.accommodations.DeleteByPackage(ctx, tx, packageID); err != nil {
				return fmt.Errorf("clear accommodations: %w", err)
			}
			if err := s.insertAccommodations(ctx, tx, packageID, req.Accommodations.Value); err != nil {
				return err
			}
		}
		if req.Tours.Set {
			if err := s.tours.DeleteByPackage(ctx, tx, packageID); err != nil {
				return fmt.Errorf("clear tours: %w", err)
			}
			if err := s.insertTours(ctx, tx, packageID, req.Tours.Value); err != nil {
				return err
			}
		}
		if req.Visas.Set {
			if err := s.visas.DeleteByPackage(ctx, tx, packageID); err != nil {
				return fmt.Errorf("clear visas: %w", err)
			}
			if err := s.insertVisas(ctx, tx, packageID, req.Visas.Value); err != nil {
				return err
			}
		}

		_, err = s.cost.Recalculate(ctx, tx, packageID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.notify(EventPackageUpdated, packageID, guestID, "Package replaced through the wizard")
	return s.hydrate(ctx, packageID)
}

func (s *wizardService) resolveGuest(ctx context.Context, tx *gorm.DB, in *dto.GuestInput) (*models.Guest, error) {
	guest, err := s.guests.FindByPhone(ctx, tx, in.PhoneNumber)
	if err == nil {
		return guest, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find guest by phone: %w", err)
	}

	guest = in.ToModel()
	if err := s.guests.Create(ctx, tx, guest); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	return guest, nil
}

func (s *wizardService) insertAirTravel(ctx context.Context, tx *gorm.DB, packageID uint, in *dto.AirTravelInput) error {
	if err := validateAirTravel(in); err != nil {
		return prefixed("air_travel", err)
	}
	if err := s.airTravel.Create(ctx, tx, in.ToModel(packageID)); err != nil {
		return fmt.Errorf("create air travel: %w", err)
	}
	return nil
}

func (s *wizardService) insertAccommodations(ctx context.Context, tx *gorm.DB, packageID uint, items []dto.AccommodationInput) error {
	for i := range items {
		if err := validateAccommodation(&items[i]); err != nil {
			return prefixed(fmt.Sprintf("accommodations[%d]", i), err)
		}
		if err := s.accommodations.Create(ctx, tx, items[i].ToModel(packageID)); err != nil {
			return fmt.Errorf("create accommodation: %w", err)
		}
	}
	return nil
}

func (s *wizardService) insertTours(ctx context.Context, tx *gorm.DB, packageID uint, items []dto.TourInput) error {
	for i := range items {
		if err := ValidateStruct(&items[i]); err != nil {
			return prefixed(fmt.Sprintf("tours[%d]", i), err)
		}
		if err := s.tours.Create(ctx, tx, items[i].ToModel(packageID)); err != nil {
			return fmt.Errorf("create tour: %w", err)
		}
	}
	return nil
}

func (s *wizardService) insertVisas(ctx context.Context, tx *gorm.DB, packageID uint, items []dto.VisaInput) error {
	for i := range items {
		if err := validateVisa(&items[i]); err != nil {
			return prefixed(fmt.Sprintf("visas[%d]", i), err)
		}
		if err := s.visas.Create(ctx, tx, items[i].ToModel(packageID)); err != nil {
			return fmt.Errorf("create visa: %w", err)
		}
	}
	return nil
}

func (s *wizardService) hydrate(ctx context.Context, packageID uint) (*models.Package, error) {
	pkg, err := s.packages.FindHydrated(ctx, s.packages.GetDB(), packageID, false)
	if err != nil {
		return nil, notFoundOr(err, "Package", "load package")
	}
	return pkg, nil
}

// prefixed adds the payload location to a validation message.
func prefixed(location string, err error) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	if ve == errCruiseVisa {
		return ve
	}
	return &ValidationError{Message: location + ": " + ve.Message, Fields: ve.Fields}
}
