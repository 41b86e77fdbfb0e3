package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"go.uber.org/zap"
)

const (
	overviewCacheKey     = "analytics:overview"
	overviewTopLimit     = 5
	defaultActivityLimit = 20
)

// Cache stores JSON-encodable values for a limited time.
type Cache interface {
	// Get reports false when the key is absent or expired.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type OverviewSummary struct {
	TotalGuests       int64   `json:"total_guests"`
	TotalClients      int64   `json:"total_clients"`
	TotalPackages     int64   `json:"total_packages"`
	TotalSales        float64 `json:"total_sales"`
	PendingPackages   int64   `json:"pending_packages"`
	ConfirmedPackages int64   `json:"confirmed_packages"`
}

type SalesWindow struct {
	Sales    float64 `json:"sales"`
	Packages int64   `json:"packages"`
}

type RecentSales struct {
	ThisMonth SalesWindow `json:"this_month"`
	LastMonth SalesWindow `json:"last_month"`
	ThisYear  SalesWindow `json:"this_year"`
}

type AirlineSales struct {
	Airline  string  `json:"airline"`
	Sales    float64 `json:"sales"`
	Packages int64   `json:"packages"`
}

type DestinationSales struct {
	Destination string  `json:"destination"`
	Sales       float64 `json:"sales"`
	Packages    int64   `json:"packages"`
}

type Overview struct {
	Summary         OverviewSummary    `json:"summary"`
	RecentSales     RecentSales        `json:"recent_sales"`
	TopAirlines     []AirlineSales     `json:"top_airlines"`
	TopDestinations []DestinationSales `json:"top_destinations"`
}

type FilterApplied struct {
	FilterBy    *string `json:"filter_by"`
	FilterValue *string `json:"filter_value"`
}

type SalesReport struct {
	Period              string        `json:"period"`
	StartDate           *models.Date  `json:"start_date"`
	EndDate             *models.Date  `json:"end_date"`
	TotalSales          float64       `json:"total_sales"`
	TotalPackages       int64         `json:"total_packages"`
	AveragePackageValue float64       `json:"average_package_value"`
	Breakdown           []any         `json:"breakdown"`
	FilterApplied       FilterApplied `json:"filter_applied"`
}

type DailySales struct {
	Date          string  `json:"date"`
	Sales         float64 `json:"sales"`
	PackagesCount int64   `json:"packages_count"`
}

type MonthlySales struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	MonthName     string  `json:"month_name,omitempty"`
	Sales         float64 `json:"sales"`
	PackagesCount int64   `json:"packages_count"`
}

type MonthlyReport struct {
	Year           int           `json:"year"`
	Month          int           `json:"month"`
	MonthName      string        `json:"month_name"`
	TotalSales     float64       `json:"total_sales"`
	TotalPackages  int64         `json:"total_packages"`
	DailyBreakdown []DailySales  `json:"daily_breakdown"`
	FilterApplied  FilterApplied `json:"filter_applied"`
}

type QuarterlyReport struct {
	Period           string         `json:"period"`
	StartDate        models.Date    `json:"start_date"`
	EndDate          models.Date    `json:"end_date"`
	TotalSales       float64        `json:"total_sales"`
	TotalPackages    int64          `json:"total_packages"`
	MonthlyBreakdown []MonthlySales `json:"monthly_breakdown"`
	FilterApplied    FilterApplied  `json:"filter_applied"`
}

type YearlyReport struct {
	Year             int            `json:"year"`
	TotalSales       float64        `json:"total_sales"`
	TotalPackages    int64          `json:"total_packages"`
	MonthlyBreakdown []MonthlySales `json:"monthly_breakdown"`
	FilterApplied    FilterApplied  `json:"filter_applied"`
}

type AirlineShare struct {
	Airline       string  `json:"airline"`
	Sales         float64 `json:"sales"`
	PackagesCount int64   `json:"packages_count"`
	Percentage    float64 `json:"percentage"`
}

type DestinationShare struct {
	Destination   string  `json:"destination"`
	Country       string  `json:"country"`
	City          *string `json:"city"`
	Sales         float64 `json:"sales"`
	PackagesCount int64   `json:"packages_count"`
	Percentage    float64 `json:"percentage"`
}

// ShareReport splits the sales total across groups.
type ShareReport[T any] struct {
	Period     string       `json:"period"`
	StartDate  *models.Date `json:"start_date"`
	EndDate    *models.Date `json:"end_date"`
	GroupBy    string       `json:"group_by,omitempty"`
	TotalSales float64      `json:"total_sales"`
	Breakdown  []T          `json:"breakdown"`
}

type AnalyticsService interface {
	Overview(ctx context.Context) (*Overview, error)
	Sales(ctx context.Context, f *dto.SalesFilter) (*SalesReport, error)
	Monthly(ctx context.Context, q *dto.PeriodQuery) (*MonthlyReport, error)
	Quarterly(ctx context.Context, q *dto.PeriodQuery) (*QuarterlyReport, error)
	Yearly(ctx context.Context, q *dto.PeriodQuery) (*YearlyReport, error)
	ByAirline(ctx context.Context, q *dto.GroupQuery) (*ShareReport[AirlineShare], error)
	ByDestination(ctx context.Context, q *dto.GroupQuery) (*ShareReport[DestinationShare], error)
	Activity(ctx context.Context, limit int) ([]models.Activity, error)
}

type analyticsService struct {
	repo       repository.AnalyticsRepository
	activities repository.ActivityRepository
	cache      Cache
	cacheTTL   time.Duration
	log        *zap.Logger
	now        func() time.Time
}

// NewAnalyticsService builds the dashboard queries. A nil cache disables overview caching.
func NewAnalyticsService(
	repo repository.AnalyticsRepository,
	activities repository.ActivityRepository,
	cache Cache,
	cacheTTL time.Duration,
	log *zap.Logger,
) AnalyticsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &analyticsService{
		repo:       repo,
		activities: activities,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *analyticsService) Overview(ctx context.Context) (*Overview, error) {
	if s.cache != nil {
		var cached Overview
		hit, err := s.cache.Get(ctx, overviewCacheKey, &cached)
		if err != nil {
			s.log.Warn("read analytics cache failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	overview, err := s.buildOverview(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, overviewCacheKey, overview, s.cacheTTL); err != nil {
			s.log.Warn("write analytics cache failed", zap.Error(err))
		}
	}
	return overview, nil
}

func (s *analyticsService) buildOverview(ctx context.Context) (*Overview, error) {
	var (
		o   Overview
		err error
	)
	if o.Summary.TotalGuests, err = s.repo.CountGuests(ctx, models.GuestStatusGuest); err != nil {
		return nil, fmt.Errorf("count guests: %w", err)
	}
	if o.Summary.TotalClients, err = s.repo.CountGuests(ctx, models.GuestStatusClient); err != nil {
		return nil, fmt.Errorf("count clients: %w", err)
	}
	if o.Summary.TotalPackages, err = s.repo.CountPackages(ctx); err != nil {
		return nil, fmt.Errorf("count packages: %w", err)
	}
	if o.Summary.PendingPackages, err = s.repo.CountPackages(ctx, models.PackageStatusDraft); err != nil {
		return nil, fmt.Errorf("count draft packages: %w", err)
	}
	if o.Summary.ConfirmedPackages, err = s.repo.CountPackages(ctx, models.PackageStatusConfirmed); err != nil {
		return nil, fmt.Errorf("count confirmed packages: %w", err)
	}
	sold, err := s.repo.Sales(ctx, repository.SalesQuery{Statuses: models.SoldPackageStatuses})
	if err != nil {
		return nil, fmt.Errorf("total sales: %w", err)
	}
	o.Summary.TotalSales = sold.TotalSales

	now := s.now()
	monthStart := startOfMonth(now)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	windows := []struct {
		dst      *SalesWindow
		from, to time.Time
	}{
		{&o.RecentSales.ThisMonth, monthStart, monthStart.AddDate(0, 1, 0)},
		{&o.RecentSales.LastMonth, monthStart.AddDate(0, -1, 0), monthStart},
		{&o.RecentSales.ThisYear, yearStart, yearStart.AddDate(1, 0, 0)},
	}
	for _, w := range windows {
		totals, err := s.repo.Sales(ctx, repository.SalesQuery{
			From:     &w.from,
			To:       &w.to,
			Statuses: models.SoldPackageStatuses,
		})
		if err != nil {
			return nil, fmt.Errorf("window sales: %w", err)
		}
		*w.dst = SalesWindow{Sales: totals.TotalSales, Packages: totals.TotalPackages}
	}

	airlines, err := s.repo.AirlineQuotes(ctx, overviewTopLimit)
	if err != nil {
		return nil, fmt.Errorf("top airlines: %w", err)
	}
	o.TopAirlines = make([]AirlineSales, len(airlines))
	for i, a := range airlines {
		o.TopAirlines[i] = AirlineSales{Airline: a.Label, Sales: a.Sales, Packages: a.PackagesCount}
	}

	destinations, err := s.repo.DestinationQuotes(ctx, overviewTopLimit)
	if err != nil {
		return nil, fmt.Errorf("top destinations: %w", err)
	}
	o.TopDestinations = make([]DestinationSales, len(destinations))
	for i, d := range destinations {
		o.TopDestinations[i] = DestinationSales{Destination: d.Label, Sales: d.Sales, Packages: d.PackagesCount}
	}
	return &o, nil
}

func (s *analyticsService) Sales(ctx context.Context, f *dto.SalesFilter) (*SalesReport, error) {
	if f == nil {
		f = &dto.SalesFilter{}
	}
	if err := ValidateStruct(f); err != nil {
		return nil, err
	}
	if f.Period == "" {
		f.Period = "month"
	}

	q := repository.SalesQuery{}
	now := s.now()
	switch {
	case f.StartDate != nil && f.EndDate != nil:
		if f.EndDate.Before(f.StartDate.Time) {
			return nil, NewValidationError("endDate must not be before startDate")
		}
		from := f.StartDate.Time
		to := f.EndDate.AddDate(0, 0, 1)
		q.From, q.To = &from, &to
	case f.Period == "month":
		from := startOfMonth(now)
		to := from.AddDate(0, 1, 0)
		q.From, q.To = &from, &to
	case f.Period == "3months":
		from := now.AddDate(0, -3, 0)
		q.From = &from
	case f.Period == "year":
		from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)
		q.From, q.To = &from, &to
	}
	if f.Status != "" {
		q.Statuses = []models.PackageStatus{models.PackageStatus(f.Status)}
	}
	if f.FilterValue != "" {
		switch f.FilterBy {
		case "airline":
			q.Airline = f.FilterValue
		case "destination":
			q.Destination = f.FilterValue
		}
	}

	totals, err := s.repo.Sales(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sales totals: %w", err)
	}

	report := &SalesReport{
		Period:        f.Period,
		StartDate:     f.StartDate,
		EndDate:       f.EndDate,
		TotalSales:    totals.TotalSales,
		TotalPackages: totals.TotalPackages,
		Breakdown:     []any{},
		FilterApplied: filterApplied(f.FilterBy, f.FilterValue),
	}
	if totals.TotalPackages > 0 {
		report.AveragePackageValue = decimal.NewFromFloat(totals.TotalSales).
			Div(decimal.NewFromInt(totals.TotalPackages)).
			Round(2).
			InexactFloat64()
	}
	return report, nil
}

func (s *analyticsService) Monthly(ctx context.Context, q *dto.PeriodQuery) (*MonthlyReport, error) {
	if q == nil {
		q = &dto.PeriodQuery{}
	}
	if err := ValidateStruct(q); err != nil {
		return nil, err
	}
	now := s.now()
	year, month := q.Year, q.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	points, err := s.repo.SalePoints(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}

	days := make([]DailySales, 0)
	var total salesSum
	var day *salesSum
	var dayKey string
	flush := func() {
		if day != nil {
			days = append(days, DailySales{Date: dayKey, Sales: day.value(), PackagesCount: day.count})
		}
	}
	for _, p := range points {
		key := p.CreatedAt.UTC().Format(models.DateLayout)
		if day == nil || key != dayKey {
			flush()
			day, dayKey = &salesSum{}, key
		}
		day.add(p.Total)
		total.add(p.Total)
	}
	flush()

	return &MonthlyReport{
		Year:           year,
		Month:          month,
		MonthName:      time.Month(month).String(),
		TotalSales:     total.value(),
		TotalPackages:  total.count,
		DailyBreakdown: days,
		FilterApplied:  filterApplied(q.FilterBy, q.FilterValue),
	}, nil
}

func (s *analyticsService) Quarterly(ctx context.Context, q *dto.PeriodQuery) (*QuarterlyReport, error) {
	if q == nil {
		q = &dto.PeriodQuery{}
	}
	now := s.now()
	from := now.AddDate(0, -3, 0)
	to := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	points, err := s.repo.SalePoints(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("quarterly sales: %w", err)
	}

	months, total := bucketByMonth(points, false)
	return &QuarterlyReport{
		Period:           "Last 3 Months",
		StartDate:        models.NewDate(from.Year(), from.Month(), from.Day()),
		EndDate:          models.NewDate(now.Year(), now.Month(), now.Day()),
		TotalSales:       total.value(),
		TotalPackages:    total.count,
		MonthlyBreakdown: months,
		FilterApplied:    filterApplied(q.FilterBy, q.FilterValue),
	}, nil
}

func (s *analyticsService) Yearly(ctx context.Context, q *dto.PeriodQuery) (*YearlyReport, error) {
	if q == nil {
		q = &dto.PeriodQuery{}
	}
	if err := ValidateStruct(q); err != nil {
		return nil, err
	}
	year := q.Year
	if year == 0 {
		year = s.now().Year()
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	points, err := s.repo.SalePoints(ctx, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("yearly sales: %w", err)
	}

	months, total := bucketByMonth(points, true)
	return &YearlyReport{
		Year:             year,
		TotalSales:       total.value(),
		TotalPackages:    total.count,
		MonthlyBreakdown: months,
		FilterApplied:    filterApplied(q.FilterBy, q.FilterValue),
	}, nil
}

func (s *analyticsService) ByAirline(ctx context.Context, q *dto.GroupQuery) (*ShareReport[AirlineShare], error) {
	if q == nil {
		q = &dto.GroupQuery{}
	}
	rows, err := s.repo.SalesByAirline(ctx)
	if err != nil {
		return nil, fmt.Errorf("sales by airline: %w", err)
	}

	total := sumGroups(rows)
	shares := make([]AirlineShare, len(rows))
	for i, r := range rows {
		shares[i] = AirlineShare{
			Airline:       r.Label,
			Sales:         r.Sales,
			PackagesCount: r.PackagesCount,
			Percentage:    percentage(r.Sales, total),
		}
	}
	return &ShareReport[AirlineShare]{
		Period:     periodOrAll(q.Period),
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		TotalSales: total.InexactFloat64(),
		Breakdown:  shares,
	}, nil
}

func (s *analyticsService) ByDestination(ctx context.Context, q *dto.GroupQuery) (*ShareReport[DestinationShare], error) {
	if q == nil {
		q = &dto.GroupQuery{}
	}
	if err := ValidateStruct(q); err != nil {
		return nil, err
	}
	groupBy := q.GroupBy
	if groupBy == "" {
		groupBy = "country"
	}

	rows, err := s.repo.SalesByDestination(ctx, groupBy == "city")
	if err != nil {
		return nil, fmt.Errorf("sales by destination: %w", err)
	}

	total := sumGroups(rows)
	shares := make([]DestinationShare, len(rows))
	for i, r := range rows {
		share := DestinationShare{
			Destination:   r.Label,
			Country:       r.Country,
			Sales:         r.Sales,
			PackagesCount: r.PackagesCount,
			Percentage:    percentage(r.Sales, total),
		}
		if groupBy == "city" {
			share.City = r.City
		}
		shares[i] = share
	}
	return &ShareReport[DestinationShare]{
		Period:     periodOrAll(q.Period),
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		GroupBy:    groupBy,
		TotalSales: total.InexactFloat64(),
		Breakdown:  shares,
	}, nil
}

func (s *analyticsService) Activity(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > dto.MaxLimit {
		limit = dto.MaxLimit
	}
	activities, err := s.activities.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return activities, nil
}

// salesSum accumulates package totals without float drift.
type salesSum struct {
	total decimal.Decimal
	count int64
}

func (s *salesSum) add(v float64) {
	s.total = s.total.Add(decimal.NewFromFloat(v))
	s.count++
}

func (s *salesSum) value() float64 {
	return s.total.Round(2).InexactFloat64()
}

// bucketByMonth groups time-ordered points by calendar month.
func bucketByMonth(points []repository.SalePoint, withNames bool) ([]MonthlySales, salesSum) {
	months := make([]MonthlySales, 0)
	var total salesSum
	var cur *salesSum
	var year int
	var month time.Month
	flush := func() {
		if cur == nil {
			return
		}
		m := MonthlySales{Year: year, Month: int(month), Sales: cur.value(), PackagesCount: cur.count}
		if withNames {
			m.MonthName = month.String()
		}
		months = append(months, m)
	}
	for _, p := range points {
		t := p.CreatedAt.UTC()
		if cur == nil || t.Year() != year || t.Month() != month {
			flush()
			cur, year, month = &salesSum{}, t.Year(), t.Month()
		}
		cur.add(p.Total)
		total.add(p.Total)
	}
	flush()
	return months, total
}

func sumGroups(rows []repository.GroupSales) decimal.Decimal {
	values := make([]decimal.Decimal, len(rows))
	for i, r := range rows {
		values[i] = decimal.NewFromFloat(r.Sales)
	}
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...)
}

func percentage(part float64, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}
	return decimal.NewFromFloat(part).
		Div(total).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

func filterApplied(by, value string) FilterApplied {
	var f FilterApplied
	if by != "" {
		f.FilterBy = &by
	}
	if value != "" {
		f.FilterValue = &value
	}
	return f
}

func periodOrAll(p string) string {
	if p == "" {
		return "all"
	}
	return p
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
