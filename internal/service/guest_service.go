package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"gorm.io/gorm"
)

// PackagePayments is one package of a guest's payment overview.
type PackagePayments struct {
	PackageID          uint                 `json:"package_id"`
	PackageName        *string              `json:"package_name"`
	Status             models.PackageStatus `json:"status"`
	TotalEstimatedCost float64              `json:"total_estimated_cost"`
	CreatedAt          time.Time            `json:"created_at"`
	Contract           *models.Contract     `json:"contract"`
	Payments           []models.Payment     `json:"payments"`
	TotalPaid          float64              `json:"total_paid"`
	RemainingBalance   float64              `json:"remaining_balance"`
	IsPaidInFull       bool                 `json:"is_paid_in_full"`
}

type GuestPaymentInfo struct {
	Guest    *models.Guest     `json:"guest"`
	Packages []PackagePayments `json:"packages"`
}

type GuestService interface {
	Create(ctx context.Context, in *dto.GuestInput) (*models.Guest, error)
	List(ctx context.Context, filter dto.GuestFilter) ([]repository.GuestRow, int64, error)
	Get(ctx context.Context, id uint) (*models.Guest, error)
	Update(ctx context.Context, id uint, u *dto.GuestUpdate) (*models.Guest, error)
	UpdateStatus(ctx context.Context, id uint, status models.GuestStatus) (*models.Guest, error)
	Delete(ctx context.Context, id uint) error
	Packages(ctx context.Context, id uint, status string) ([]models.Package, error)
	PaymentInfo(ctx context.Context, id uint) (*GuestPaymentInfo, error)
	SetPassport(ctx context.Context, id uint, path string) error
}

type guestService struct {
	guests    repository.GuestRepository
	packages  repository.PackageRepository
	payments  repository.ItemRepository[models.Payment]
	contracts repository.ContractRepository
}

func NewGuestService(
	guests repository.GuestRepository,
	packages repository.PackageRepository,
	payments repository.ItemRepository[models.Payment],
	contracts repository.ContractRepository,
) GuestService {
	return &guestService{guests: guests, packages: packages, payments: payments, contracts: contracts}
}

func (s *guestService) Create(ctx context.Context, in *dto.GuestInput) (*models.Guest, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	guest := in.ToModel()
	if err := s.guests.Create(ctx, s.guests.GetDB(), guest); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	return guest, nil
}

func (s *guestService) List(ctx context.Context, filter dto.GuestFilter) ([]repository.GuestRow, int64, error) {
	filter.Normalize()
	rows, total, err := s.guests.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list guests: %w", err)
	}
	return rows, total, nil
}

// Get returns the guest with every package booked, newest first.
func (s *guestService) Get(ctx context.Context, id uint) (*models.Guest, error) {
	guest, err := s.guests.FindByID(ctx, s.guests.GetDB(), id)
	if err != nil {
		return nil, notFoundOr(err, "Guest", "get guest")
	}
	guest.Packages, err = s.packages.FindByGuest(ctx, id, "")
	if err != nil {
		return nil, fmt.Errorf("list guest packages: %w", err)
	}
	return guest, nil
}

func (s *guestService) Update(ctx context.Context, id uint, u *dto.GuestUpdate) (*models.Guest, error) {
	if err := ValidateStruct(u); err != nil {
		return nil, err
	}
	guest, err := s.guests.FindByID(ctx, s.guests.GetDB(), id)
	if err != nil {
		return nil, notFoundOr(err, "Guest", "get guest")
	}
	if u.ApplyTo(guest) == 0 {
		return nil, errNoFieldsToUpdate
	}
	if err := s.guests.Save(ctx, guest); err != nil {
		return nil, fmt.Errorf("update guest: %w", err)
	}
	return guest, nil
}

func (s *guestService) UpdateStatus(ctx context.Context, id uint, status models.GuestStatus) (*models.Guest, error) {
	if err := ValidateStruct(&dto.GuestStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	db := s.guests.GetDB()
	rows, err := s.guests.UpdateStatus(ctx, db, id, status)
	if err != nil {
		return nil, fmt.Errorf("update guest status: %w", err)
	}
	if rows == 0 {
		return nil, notFound("Guest")
	}
	guest, err := s.guests.FindByID(ctx, db, id)
	if err != nil {
		return nil, notFoundOr(err, "Guest", "get guest")
	}
	return guest, nil
}

// Delete removes a guest that has no packages.
func (s *guestService) Delete(ctx context.Context, id uint) error {
	count, err := s.guests.CountPackages(ctx, id)
	if err != nil {
		return fmt.Errorf("count guest packages: %w", err)
	}
	if count > 0 {
		return NewValidationError("Guest has %d package(s) and cannot be deleted", count)
	}
	rows, err := s.guests.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	if rows == 0 {
		return notFound("Guest")
	}
	return nil
}

func (s *guestService) Packages(ctx context.Context, id uint, status string) ([]models.Package, error) {
	if _, err := s.guests.FindByID(ctx, s.guests.GetDB(), id); err != nil {
		return nil, notFoundOr(err, "Guest", "get guest")
	}
	packages, err := s.packages.FindByGuest(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("list guest packages: %w", err)
	}
	return packages, nil
}

func (s *guestService) PaymentInfo(ctx context.Context, id uint) (*GuestPaymentInfo, error) {
	db := s.guests.GetDB()
	guest, err := s.guests.FindByID(ctx, db, id)
	if err != nil {
		return nil, notFoundOr(err, "Guest", "get guest")
	}
	packages, err := s.packages.FindByGuest(ctx, id, "")
	if err != nil {
		return nil, fmt.Errorf("list guest packages: %w", err)
	}

	info := &GuestPaymentInfo{Guest: guest, Packages: make([]PackagePayments, 0, len(packages))}
	for _, pkg := range packages {
		payments, err := s.payments.FindByPackage(ctx, db, pkg.ID)
		if err != nil {
			return nil, fmt.Errorf("list payments: %w", err)
		}
		var contract *models.Contract
		if c, err := s.contracts.FindByPackage(ctx, pkg.ID); err == nil {
			contract = c
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get contract: %w", err)
		}

		summary := summarizePayments(pkg.TotalEstimatedCost, payments)
		info.Packages = append(info.Packages, PackagePayments{
			PackageID:          pkg.ID,
			PackageName:        pkg.PackageName,
			Status:             pkg.Status,
			TotalEstimatedCost: pkg.TotalEstimatedCost,
			CreatedAt:          pkg.CreatedAt,
			Contract:           contract,
			Payments:           payments,
			TotalPaid:          summary.TotalPaid,
			RemainingBalance:   summary.RemainingBalance,
			IsPaidInFull:       summary.IsPaidInFull,
		})
	}
	return info, nil
}

func (s *guestService) SetPassport(ctx context.Context, id uint, path string) error {
	rows, err := s.guests.UpdatePassport(ctx, id, path)
	if err != nil {
		return fmt.Errorf("update passport: %w", err)
	}
	if rows == 0 {
		return notFound("Guest")
	}
	return nil
}

type PaymentSummary struct {
	PackageTotal     float64 `json:"package_total"`
	TotalPaid        float64 `json:"total_paid"`
	RemainingBalance float64 `json:"remaining_balance"`
	IsPaidInFull     bool    `json:"is_paid_in_full"`
}

func summarizePayments(packageTotal float64, payments []models.Payment) PaymentSummary {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(decimal.NewFromFloat(p.PaymentAmount))
	}
	total := decimal.NewFromFloat(packageTotal)
	remaining := total.Sub(paid).Round(2)
	return PaymentSummary{
		PackageTotal:     total.Round(2).InexactFloat64(),
		TotalPaid:        paid.Round(2).InexactFloat64(),
		RemainingBalance: remaining.InexactFloat64(),
		IsPaidInFull:     !remaining.IsPositive(),
	}
}
