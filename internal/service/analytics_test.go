package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
)

// --- Mock AnalyticsRepository ---

type mockAnalyticsRepo struct {
	salesFn      func(ctx context.Context, q repository.SalesQuery) (repository.SalesTotals, error)
	salePointsFn func(ctx context.Context, from, to time.Time) ([]repository.SalePoint, error)
	calls        int
}

func (m *mockAnalyticsRepo) CountGuests(ctx context.Context, status models.GuestStatus) (int64, error) {
	m.calls++
	if status == models.GuestStatusClient {
		return 2, nil
	}
	return 5, nil
}
func (m *mockAnalyticsRepo) CountPackages(ctx context.Context, statuses ...models.PackageStatus) (int64, error) {
	m.calls++
	return int64(10 - len(statuses)), nil
}
func (m *mockAnalyticsRepo) Sales(ctx context.Context, q repository.SalesQuery) (repository.SalesTotals, error) {
	m.calls++
	if m.salesFn != nil {
		return m.salesFn(ctx, q)
	}
	return repository.SalesTotals{}, nil
}
func (m *mockAnalyticsRepo) SalePoints(ctx context.Context, from, to time.Time) ([]repository.SalePoint, error) {
	m.calls++
	return m.salePointsFn(ctx, from, to)
}
func (m *mockAnalyticsRepo) AirlineQuotes(ctx context.Context, limit int) ([]repository.GroupSales, error) {
	m.calls++
	return []repository.GroupSales{{Label: "Emirates", Sales: 900, PackagesCount: 3}}, nil
}
func (m *mockAnalyticsRepo) DestinationQuotes(ctx context.Context, limit int) ([]repository.GroupSales, error) {
	m.calls++
	return []repository.GroupSales{}, nil
}
func (m *mockAnalyticsRepo) SalesByAirline(ctx context.Context) ([]repository.GroupSales, error) {
	return nil, nil
}
func (m *mockAnalyticsRepo) SalesByDestination(ctx context.Context, byCity bool) ([]repository.GroupSales, error) {
	return nil, nil
}

// --- Mock Cache ---

type memoryCache struct {
	values map[string][]byte
	getErr error
	sets   int
}

func (m *memoryCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.values == nil {
		m.values = map[string][]byte{}
	}
	m.values[key] = raw
	m.sets++
	return nil
}

func newAnalytics(repo repository.AnalyticsRepository, cache Cache, now time.Time) *analyticsService {
	svc := NewAnalyticsService(repo, nil, cache, time.Minute, nil).(*analyticsService)
	svc.now = func() time.Time { return now }
	return svc
}

// --- Tests ---

func TestSales_DateRangeIsInclusive(t *testing.T) {
	var got repository.SalesQuery
	repo := &mockAnalyticsRepo{
		salesFn: func(ctx context.Context, q repository.SalesQuery) (repository.SalesTotals, error) {
			got = q
			return repository.SalesTotals{TotalSales: 1000, TotalPackages: 3}, nil
		},
	}
	svc := newAnalytics(repo, nil, time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC))

	start := models.NewDate(2025, time.March, 1)
	end := models.NewDate(2025, time.March, 31)
	report, err := svc.Sales(context.Background(), &dto.SalesFilter{
		StartDate:   &start,
		EndDate:     &end,
		FilterBy:    "airline",
		FilterValue: "Emirates",
	})
	require.NoError(t, err)

	require.NotNil(t, got.From)
	require.NotNil(t, got.To)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), *got.From)
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), *got.To)
	assert.Equal(t, "Emirates", got.Airline)

	assert.Equal(t, "month", report.Period)
	assert.Equal(t, 333.33, report.AveragePackageValue)
	assert.Empty(t, report.Breakdown)
	require.NotNil(t, report.FilterApplied.FilterBy)
	assert.Equal(t, "airline", *report.FilterApplied.FilterBy)
}

func TestSales_EndBeforeStart(t *testing.T) {
	svc := newAnalytics(&mockAnalyticsRepo{}, nil, time.Now())

	start := models.NewDate(2025, time.March, 10)
	end := models.NewDate(2025, time.March, 1)
	_, err := svc.Sales(context.Background(), &dto.SalesFilter{StartDate: &start, EndDate: &end})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "endDate must not be before startDate", ve.Message)
}

func TestSales_NoPackagesHasZeroAverage(t *testing.T) {
	svc := newAnalytics(&mockAnalyticsRepo{}, nil, time.Now())

	report, err := svc.Sales(context.Background(), &dto.SalesFilter{Period: "all"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.AveragePackageValue)
	assert.Equal(t, "all", report.Period)
}

func TestMonthly_BucketsByDay(t *testing.T) {
	repo := &mockAnalyticsRepo{
		salePointsFn: func(ctx context.Context, from, to time.Time) ([]repository.SalePoint, error) {
			assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), from)
			assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), to)
			return []repository.SalePoint{
				{CreatedAt: time.Date(2025, time.February, 3, 9, 0, 0, 0, time.UTC), Total: 100.1},
				{CreatedAt: time.Date(2025, time.February, 3, 17, 0, 0, 0, time.UTC), Total: 200.2},
				{CreatedAt: time.Date(2025, time.February, 14, 12, 0, 0, 0, time.UTC), Total: 50},
			}, nil
		},
	}
	svc := newAnalytics(repo, nil, time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC))

	report, err := svc.Monthly(context.Background(), &dto.PeriodQuery{Year: 2025, Month: 2})
	require.NoError(t, err)

	assert.Equal(t, "February", report.MonthName)
	assert.Equal(t, 350.3, report.TotalSales)
	assert.Equal(t, int64(3), report.TotalPackages)
	require.Len(t, report.DailyBreakdown, 2)
	assert.Equal(t, "2025-02-03", report.DailyBreakdown[0].Date)
	assert.Equal(t, 300.3, report.DailyBreakdown[0].Sales)
	assert.Equal(t, int64(2), report.DailyBreakdown[0].PackagesCount)
}

func TestMonthly_RejectsBadMonth(t *testing.T) {
	svc := newAnalytics(&mockAnalyticsRepo{}, nil, time.Now())

	_, err := svc.Monthly(context.Background(), &dto.PeriodQuery{Month: 13})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestOverview_LastMonthWindowCrossesYear(t *testing.T) {
	var windows [][2]time.Time
	repo := &mockAnalyticsRepo{
		salesFn: func(ctx context.Context, q repository.SalesQuery) (repository.SalesTotals, error) {
			if q.From != nil {
				windows = append(windows, [2]time.Time{*q.From, *q.To})
			}
			return repository.SalesTotals{TotalSales: 10, TotalPackages: 1}, nil
		},
	}
	svc := newAnalytics(repo, nil, time.Date(2026, time.January, 15, 8, 0, 0, 0, time.UTC))

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	require.Len(t, windows, 3)
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), windows[1][0])
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), windows[1][1])
	assert.Equal(t, int64(5), overview.Summary.TotalGuests)
	assert.Equal(t, int64(2), overview.Summary.TotalClients)
	require.Len(t, overview.TopAirlines, 1)
	assert.Equal(t, "Emirates", overview.TopAirlines[0].Airline)
}

func TestOverview_ServedFromCache(t *testing.T) {
	repo := &mockAnalyticsRepo{}
	cache := &memoryCache{}
	svc := newAnalytics(repo, cache, time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := svc.Overview(ctx)
	require.NoError(t, err)
	callsAfterFirst := repo.calls

	second, err := svc.Overview(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, callsAfterFirst, repo.calls)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestOverview_CacheFailureFallsBackToDatabase(t *testing.T) {
	repo := &mockAnalyticsRepo{}
	cache := &memoryCache{getErr: errors.New("connection refused")}
	svc := newAnalytics(repo, cache, time.Now())

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), overview.Summary.TotalGuests)
	assert.NotZero(t, repo.calls)
}
