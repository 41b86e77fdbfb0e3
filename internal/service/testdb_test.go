package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"github.com/tourismoam/backoffice/pkg/database"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	db, err := gorm.Open(sqlite.Open(dsn), database.Config())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// testStack wires the package services against one database.
type testStack struct {
	db             *gorm.DB
	guests         repository.GuestRepository
	packages       repository.PackageRepository
	airTravel      repository.ItemRepository[models.AirTravel]
	accommodations repository.ItemRepository[models.Accommodation]
	tours          repository.ItemRepository[models.Tour]
	visas          repository.ItemRepository[models.Visa]
	payments       repository.ItemRepository[models.Payment]
	cost           *CostAggregator
	timeline       TimelineService
	wizard         WizardService
	itinerary      ItineraryService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	db := newTestDB(t)
	s := &testStack{
		db:             db,
		guests:         repository.NewGuestRepository(db),
		packages:       repository.NewPackageRepository(db),
		airTravel:      repository.NewAirTravelRepository(db),
		accommodations: repository.NewAccommodationRepository(db),
		tours:          repository.NewTourRepository(db),
		visas:          repository.NewVisaRepository(db),
		payments:       repository.NewPaymentRepository(db),
	}
	s.cost = NewCostAggregator(s.packages, s.airTravel, s.accommodations, s.tours, s.visas)
	s.timeline = NewTimelineService(repository.NewTimelineRepository(db), db)
	s.wizard = NewWizardService(s.guests, s.packages, s.airTravel, s.accommodations, s.tours, s.visas, s.timeline, s.cost, nil, nil)
	s.itinerary = NewItineraryService(db, s.airTravel, s.accommodations, s.tours, s.visas, s.cost)
	return s
}

func (s *testStack) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(model).Count(&n).Error)
	return n
}

func (s *testStack) storedTotal(t *testing.T, packageID uint) float64 {
	t.Helper()
	var pkg models.Package
	require.NoError(t, s.db.First(&pkg, packageID).Error)
	return pkg.TotalEstimatedCost
}

func guestInput(phone string) *dto.GuestInput {
	return &dto.GuestInput{FullName: "A", PhoneNumber: phone, CountryOfResidence: "US"}
}

func accommodationInput(cost float64, in, out models.Date) dto.AccommodationInput {
	bedrooms := 1
	return dto.AccommodationInput{
		AccommodationType: "Hotel",
		Country:           "France",
		City:              "Paris",
		NumberOfBedrooms:  &bedrooms,
		Cost:              &cost,
		CheckInDate:       &in,
		CheckOutDate:      &out,
	}
}

func ptr[T any](v T) *T {
	return &v
}
