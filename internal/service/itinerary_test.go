package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
)

func newEmptyPackage(t *testing.T, s *testStack) *models.Package {
	t.Helper()
	pkg, err := s.wizard.Create(context.Background(), &dto.WizardCreateRequest{Guest: guestInput("555")})
	require.NoError(t, err)
	return pkg
}

func TestAddAccommodation_CheckOutNotAfterCheckIn(t *testing.T) {
	s := newTestStack(t)
	pkg := newEmptyPackage(t, s)
	day := models.NewDate(2025, time.June, 10)

	for _, out := range []models.Date{day, models.NewDate(2025, time.June, 9)} {
		in := accommodationInput(100, day, out)
		_, err := s.itinerary.AddAccommodation(context.Background(), pkg.ID, &in)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "Check-out date must be after check-in date", ve.Message)
	}
	assert.Zero(t, s.count(t, &models.Accommodation{}))
	assert.Equal(t, 0.0, s.storedTotal(t, pkg.ID))
}

func TestItinerary_TotalFollowsEveryMutation(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	pkg := newEmptyPackage(t, s)

	in := accommodationInput(120.5, models.NewDate(2025, time.June, 1), models.NewDate(2025, time.June, 4))
	acc, err := s.itinerary.AddAccommodation(ctx, pkg.ID, &in)
	require.NoError(t, err)
	assert.Equal(t, 120.5, s.storedTotal(t, pkg.ID))

	tour, err := s.itinerary.AddTour(ctx, pkg.ID, &dto.TourInput{TourType: "City", Country: "France", City: "Paris", Cost: 40})
	require.NoError(t, err)
	_, err = s.itinerary.AddVisa(ctx, pkg.ID, &dto.VisaInput{VisaType: "Tourist", Country: "France", Cost: 19.5})
	require.NoError(t, err)
	assert.Equal(t, 180.0, s.storedTotal(t, pkg.ID))

	_, err = s.itinerary.UpdateTour(ctx, pkg.ID, tour.ID, &dto.TourUpdate{Cost: ptr(60.0)})
	require.NoError(t, err)
	assert.Equal(t, 200.0, s.storedTotal(t, pkg.ID))

	require.NoError(t, s.itinerary.DeleteAccommodation(ctx, pkg.ID, acc.ID))
	assert.Equal(t, 79.5, s.storedTotal(t, pkg.ID))

	breakdown, err := s.cost.Compute(ctx, s.db, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, CostBreakdown{ToursCost: 60, VisasCost: 19.5, Total: 79.5}, *breakdown)
}

func TestAddVisa_RejectsCruiseVisa(t *testing.T) {
	s := newTestStack(t)
	pkg := newEmptyPackage(t, s)

	_, err := s.itinerary.AddVisa(context.Background(), pkg.ID, &dto.VisaInput{VisaType: "cruise VISA", Country: "Bahamas"})
	assert.ErrorIs(t, err, errCruiseVisa)
	assert.Zero(t, s.count(t, &models.Visa{}))
}

func TestDeleteTour_WrongPackage(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	pkg := newEmptyPackage(t, s)
	other, err := s.wizard.Create(ctx, &dto.WizardCreateRequest{Guest: guestInput("777")})
	require.NoError(t, err)

	tour, err := s.itinerary.AddTour(ctx, pkg.ID, &dto.TourInput{TourType: "City", Country: "France", City: "Paris", Cost: 40})
	require.NoError(t, err)

	err = s.itinerary.DeleteTour(ctx, other.ID, tour.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(1), s.count(t, &models.Tour{}))
}

func TestCostRecalculate_Idempotent(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	pkg := newEmptyPackage(t, s)
	_, err := s.itinerary.AddTour(ctx, pkg.ID, &dto.TourInput{TourType: "City", Country: "France", City: "Paris", Cost: 33.33})
	require.NoError(t, err)

	require.NoError(t, s.db.Model(&models.Package{}).Where("id = ?", pkg.ID).Update("total_estimated_cost", 999).Error)

	first, err := s.cost.Recalculate(ctx, s.db, pkg.ID)
	require.NoError(t, err)
	second, err := s.cost.Recalculate(ctx, s.db, pkg.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 33.33, s.storedTotal(t, pkg.ID))
}
