package service

import (
	"context"
	"fmt"

	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentList struct {
	Payments []models.Payment `json:"payments"`
	PaymentSummary
}

type PaymentService interface {
	// Record stores the payment and promotes the package's guest to client.
	Record(ctx context.Context, packageID uint, in *dto.PaymentInput) (*models.Payment, error)
	List(ctx context.Context, packageID uint) (*PaymentList, error)
	Get(ctx context.Context, packageID, id uint) (*models.Payment, error)
	Update(ctx context.Context, packageID, id uint, u *dto.PaymentUpdate) (*models.Payment, error)
	Delete(ctx context.Context, packageID, id uint) error
	SetReceipt(ctx context.Context, packageID, id uint, path string) (*models.Payment, error)
	FindAnyByID(ctx context.Context, id uint) (*models.Payment, error)
}

type paymentService struct {
	payments repository.ItemRepository[models.Payment]
	packages repository.PackageRepository
	guests   repository.GuestRepository
	events   notifier
}

func NewPaymentService(
	payments repository.ItemRepository[models.Payment],
	packages repository.PackageRepository,
	guests repository.GuestRepository,
	publisher EventPublisher,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		payments: payments,
		packages: packages,
		guests:   guests,
		events:   newNotifier(publisher, log),
	}
}

func (s *paymentService) Record(ctx context.Context, packageID uint, in *dto.PaymentInput) (*models.Payment, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	payment := in.ToModel(packageID)
	var guestID uint
	var promoted bool
	err := s.payments.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pkg, err := s.packages.FindByID(ctx, tx, packageID)
		if err != nil {
			return notFoundOr(err, "Package", "get package")
		}
		guestID = pkg.GuestID

		if err := s.payments.Create(ctx, tx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		guest, err := s.guests.FindByID(ctx, tx, guestID)
		if err != nil {
			return notFoundOr(err, "Guest", "get guest")
		}
		if guest.Status != models.GuestStatusClient {
			if _, err := s.guests.UpdateStatus(ctx, tx, guestID, models.GuestStatusClient); err != nil {
				return fmt.Errorf("promote guest: %w", err)
			}
			promoted = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.notify(EventPaymentRecorded, packageID, guestID, fmt.Sprintf("Payment of %.2f recorded", payment.PaymentAmount))
	if promoted {
		s.events.notify(EventGuestPromoted, packageID, guestID, "Guest became a client")
	}
	return payment, nil
}

func (s *paymentService) List(ctx context.Context, packageID uint) (*PaymentList, error) {
	db := s.payments.GetDB()
	pkg, err := s.packages.FindByID(ctx, db, packageID)
	if err != nil {
		return nil, notFoundOr(err, "Package", "get package")
	}
	payments, err := s.payments.FindByPackage(ctx, db, packageID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return &PaymentList{
		Payments:       payments,
		PaymentSummary: summarizePayments(pkg.TotalEstimatedCost, payments),
	}, nil
}

func (s *paymentService) Get(ctx context.Context, packageID, id uint) (*models.Payment, error) {
	payment, err := s.payments.FindByID(ctx, packageID, id)
	if err != nil {
		return nil, notFoundOr(err, "Payment", "get payment")
	}
	return payment, nil
}

// FindAnyByID looks a payment up without knowing its package.
func (s *paymentService) FindAnyByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.payments.FindOne(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Payment", "get payment")
	}
	return payment, nil
}

func (s *paymentService) Update(ctx context.Context, packageID, id uint, u *dto.PaymentUpdate) (*models.Payment, error) {
	if err := ValidateStruct(u); err != nil {
		return nil, err
	}
	payment, err := s.Get(ctx, packageID, id)
	if err != nil {
		return nil, err
	}
	if u.ApplyTo(payment) == 0 {
		return nil, errNoFieldsToUpdate
	}
	if err := s.payments.Save(ctx, s.payments.GetDB(), payment); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) Delete(ctx context.Context, packageID, id uint) error {
	rows, err := s.payments.Delete(ctx, s.payments.GetDB(), packageID, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if rows == 0 {
		return notFound("Payment")
	}
	return nil
}

func (s *paymentService) SetReceipt(ctx context.Context, packageID, id uint, path string) (*models.Payment, error) {
	payment, err := s.Get(ctx, packageID, id)
	if err != nil {
		return nil, err
	}
	payment.ReceiptImagePath = &path
	if err := s.payments.Save(ctx, s.payments.GetDB(), payment); err != nil {
		return nil, fmt.Errorf("attach receipt: %w", err)
	}
	return payment, nil
}
