package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"gorm.io/gorm"
)

var errCruiseVisa = &ValidationError{Message: "Cruise Visa is not allowed"}

// ItineraryService manages the cost-bearing components of a package. Every
// mutation recomputes the package total in the same transaction.
type ItineraryService interface {
	SetAirTravel(ctx context.Context, packageID uint, in *dto.AirTravelInput) (*models.AirTravel, error)
	GetAirTravel(ctx context.Context, packageID uint) (*models.AirTravel, error)
	UpdateAirTravel(ctx context.Context, packageID uint, u *dto.AirTravelUpdate) (*models.AirTravel, error)
	DeleteAirTravel(ctx context.Context, packageID uint) error

	AddAccommodation(ctx context.Context, packageID uint, in *dto.AccommodationInput) (*models.Accommodation, error)
	ListAccommodations(ctx context.Context, packageID uint) ([]models.Accommodation, error)
	GetAccommodation(ctx context.Context, packageID, id uint) (*models.Accommodation, error)
	UpdateAccommodation(ctx context.Context, packageID, id uint, u *dto.AccommodationUpdate) (*models.Accommodation, error)
	DeleteAccommodation(ctx context.Context, packageID, id uint) error

	AddTour(ctx context.Context, packageID uint, in *dto.TourInput) (*models.Tour, error)
	ListTours(ctx context.Context, packageID uint) ([]models.Tour, error)
	GetTour(ctx context.Context, packageID, id uint) (*models.Tour, error)
	UpdateTour(ctx context.Context, packageID, id uint, u *dto.TourUpdate) (*models.Tour, error)
	DeleteTour(ctx context.Context, packageID, id uint) error

	AddVisa(ctx context.Context, packageID uint, in *dto.VisaInput) (*models.Visa, error)
	ListVisas(ctx context.Context, packageID uint) ([]models.Visa, error)
	GetVisa(ctx context.Context, packageID, id uint) (*models.Visa, error)
	UpdateVisa(ctx context.Context, packageID, id uint, u *dto.VisaUpdate) (*models.Visa, error)
	DeleteVisa(ctx context.Context, packageID, id uint) error
}

type itineraryService struct {
	db             *gorm.DB
	airTravel      repository.ItemRepository[models.AirTravel]
	accommodations repository.ItemRepository[models.Accommodation]
	tours          repository.ItemRepository[models.Tour]
	visas          repository.ItemRepository[models.Visa]
	cost           *CostAggregator
}

func NewItineraryService(
	db *gorm.DB,
	airTravel repository.ItemRepository[models.AirTravel],
	accommodations repository.ItemRepository[models.Accommodation],
	tours repository.ItemRepository[models.Tour],
	visas repository.ItemRepository[models.Visa],
	cost *CostAggregator,
) ItineraryService {
	return &itineraryService{
		db:             db,
		airTravel:      airTravel,
		accommodations: accommodations,
		tours:          tours,
		visas:          visas,
		cost:           cost,
	}
}

// --- validation shared with the wizard ---

func validateAirTravel(in *dto.AirTravelInput) error {
	return ValidateStruct(in)
}

func validateAccommodation(in *dto.AccommodationInput) error {
	if err := ValidateStruct(in); err != nil {
		return err
	}
	return checkStayDates(*in.CheckInDate, *in.CheckOutDate)
}

func checkStayDates(checkIn, checkOut models.Date) error {
	if !checkOut.After(checkIn) {
		return NewValidationError("Check-out date must be after check-in date")
	}
	return nil
}

func validateVisa(in *dto.VisaInput) error {
	if err := ValidateStruct(in); err != nil {
		return err
	}
	return checkVisaType(in.VisaType)
}

func checkVisaType(visaType string) error {
	if strings.EqualFold(strings.TrimSpace(visaType), "cruise visa") {
		return errCruiseVisa
	}
	return nil
}

// --- air travel ---

// SetAirTravel replaces whatever air travel the package had.
func (s *itineraryService) SetAirTravel(ctx context.Context, packageID uint, in *dto.AirTravelInput) (*models.AirTravel, error) {
	if err := validateAirTravel(in); err != nil {
		return nil, err
	}
	item := in.ToModel(packageID)
	err := s.withTotal(ctx, packageID, func(tx *gorm.DB) error {
		if err := s.airTravel.DeleteByPackage(ctx, tx, packageID); err != nil {
			return fmt.Errorf("clear air travel: %w", err)
		}
		if err := s.airTravel.Create(ctx, tx, item); err != nil {
			return fmt.Errorf("create air travel: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itineraryService) GetAirTravel(ctx context.Context, packageID uint) (*models.AirTravel, error) {
	items, err := s.airTravel.FindByPackage(ctx, s.db, packageID)
	if err != nil {
		return nil, fmt.Errorf("get air travel: %w", err)
	}
	if len(items) == 0 {
		return nil, notFound("Air travel")
	}
	return &items[0], nil
}

func (s *itineraryService) UpdateAirTravel(ctx context.Context, packageID uint, u *dto.AirTravelUpdate) (*models.AirTravel, error) {
	if err := ValidateStruct(u); err != nil {
		return nil, err
	}
	current, err := s.GetAirTravel(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if u.ApplyTo(current) == 0 {
		return nil, errNoFieldsToUpdate
	}
	err = s.withTotal(ctx, packageID, func(tx *gorm.DB) error {
		return s.airTravel.Save(ctx, tx, current)
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}

func (s *itineraryService) DeleteAirTravel(ctx context.Context, packageID uint) error {
	current, err := s.GetAirTravel(ctx, packageID)
	if err != nil {
		return err
	}
	return deleteItem(ctx, s, s.airTravel, packageID, current.ID, "Air travel")
}

// --- accommodations ---

func (s *itineraryService) AddAccommodation(ctx context.Context, packageID uint, in *dto.AccommodationInput) (*models.Accommodation, error) {
	if err := validateAccommodation(in); err != nil {
		return nil, err
	}
	item := in.ToModel(packageID)
	if err := createItem(ctx, s, s.accommodations, packageID, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itineraryService) ListAccommodations(ctx context.Context, packageID uint) ([]models.Accommodation, error) {
	return s.accommodations.FindByPackage(ctx, s.db, packageID)
}

func (s *itineraryService) GetAccommodation(ctx context.Context, packageID, id uint) (*models.Accommodation, error) {
	return getItem(ctx, s.accommodations, packageID, id, "Accommodation")
}

func (s *itineraryService) UpdateAccommodation(ctx context.Context, packageID, id uint, u *dto.AccommodationUpdate) (*models.Accommodation, error) {
	return updateItem(ctx, s, s.accommodations, packageID, id, "Accommodation", u, func(a *models.Accommodation) (int, error) {
		n := u.ApplyTo(a)
		if n == 0 {
			return 0, nil
		}
		return n, checkStayDates(a.CheckInDate, a.CheckOutDate)
	})
}

func (s *itineraryService) DeleteAccommodation(ctx context.Context, packageID, id uint) error {
	return deleteItem(ctx, s, s.accommodations, packageID, id, "Accommodation")
}

// --- tours ---

func (s *itineraryService) AddTour(ctx context.Context, packageID uint, in *dto.TourInput) (*models.Tour, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	item := in.ToModel(packageID)
	if err := createItem(ctx, s, s.tours, packageID, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itineraryService) ListTours(ctx context.Context, packageID uint) ([]models.Tour, error) {
	return s.tours.FindByPackage(ctx, s.db, packageID)
}

func (s *itineraryService) GetTour(ctx context.Context, packageID, id uint) (*models.Tour, error) {
	return getItem(ctx, s.tours, packageID, id, "Tour")
}

func (s *itineraryService) UpdateTour(ctx context.Context, packageID, id uint, u *dto.TourUpdate) (*models.Tour, error) {
	return updateItem(ctx, s, s.tours, packageID, id, "Tour", u, func(t *models.Tour) (int, error) {
		return u.ApplyTo(t), nil
	})
}

func (s *itineraryService) DeleteTour(ctx context.Context, packageID, id uint) error {
	return deleteItem(ctx, s, s.tours, packageID, id, "Tour")
}

// --- visas ---

func (s *itineraryService) AddVisa(ctx context.Context, packageID uint, in *dto.VisaInput) (*models.Visa, error) {
	if err := validateVisa(in); err != nil {
		return nil, err
	}
	item := in.ToModel(packageID)
	if err := createItem(ctx, s, s.visas, packageID, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itineraryService) ListVisas(ctx context.Context, packageID uint) ([]models.Visa, error) {
	return s.visas.FindByPackage(ctx, s.db, packageID)
}

func (s *itineraryService) GetVisa(ctx context.Context, packageID, id uint) (*models.Visa, error) {
	return getItem(ctx, s.visas, packageID, id, "Visa")
}

func (s *itineraryService) UpdateVisa(ctx context.Context, packageID, id uint, u *dto.VisaUpdate) (*models.Visa, error) {
	return updateItem(ctx, s, s.visas, packageID, id, "Visa", u, func(v *models.Visa) (int, error) {
		n := u.ApplyTo(v)
		if n == 0 {
			return 0, nil
		}
		return n, checkVisaType(v.VisaType)
	})
}

func (s *itineraryService) DeleteVisa(ctx context.Context, packageID, id uint) error {
	return deleteItem(ctx, s, s.visas, packageID, id, "Visa")
}

// --- shared item plumbing ---

// withTotal runs fn and the cost recomputation in one transaction.
func (s *itineraryService) withTotal(ctx context.Context, packageID uint, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(tx); err != nil {
			return err
		}
		_, err := s.cost.Recalculate(ctx, tx, packageID)
		return err
	})
}

func getItem[T repository.PackageItem](ctx context.Context, repo repository.ItemRepository[T], packageID, id uint, entity string) (*T, error) {
	item, err := repo.FindByID(ctx, packageID, id)
	if err != nil {
		return nil, notFoundOr(err, entity, "get "+strings.ToLower(entity))
	}
	return item, nil
}

func createItem[T repository.PackageItem](ctx context.Context, s *itineraryService, repo repository.ItemRepository[T], packageID uint, item *T) error {
	return s.withTotal(ctx, packageID, func(tx *gorm.DB) error {
		return repo.Create(ctx, tx, item)
	})
}

func updateItem[T repository.PackageItem](
	ctx context.Context,
	s *itineraryService,
	repo repository.ItemRepository[T],
	packageID, id uint,
	entity string,
	update any,
	apply func(*T) (int, error),
) (*T, error) {
	if err := ValidateStruct(update); err != nil {
		return nil, err
	}
	item, err := getItem(ctx, repo, packageID, id, entity)
	if err != nil {
		return nil, err
	}
	n, err := apply(item)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errNoFieldsToUpdate
	}
	err = s.withTotal(ctx, packageID, func(tx *gorm.DB) error {
		return repo.Save(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func deleteItem[T repository.PackageItem](ctx context.Context, s *itineraryService, repo repository.ItemRepository[T], packageID, id uint, entity string) error {
	return s.withTotal(ctx, packageID, func(tx *gorm.DB) error {
		rows, err := repo.Delete(ctx, tx, packageID, id)
		if err != nil {
			return fmt.Errorf("delete %s: %w", strings.ToLower(entity), err)
		}
		if rows == 0 {
			return notFound(entity)
		}
		return nil
	})
}
