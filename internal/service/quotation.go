package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	quotationPrefix      = "QUO"
	maxQuotationAttempts = 3
)

// QuotationNumberer hands out QUO-{year}-{NNNN} numbers, counting the
// quotations already issued in the current UTC year.
type QuotationNumberer struct {
	repo repository.QuotationRepository
	now  func() time.Time
}

func NewQuotationNumberer(repo repository.QuotationRepository, now func() time.Time) *QuotationNumberer {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &QuotationNumberer{repo: repo, now: now}
}

func (n *QuotationNumberer) Next(ctx context.Context, tx *gorm.DB) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", quotationPrefix, n.now().UTC().Year())
	count, err := n.repo.CountByPrefix(ctx, tx, prefix)
	if err != nil {
		return "", fmt.Errorf("count quotations: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

type QuotationPackageDetails struct {
	GuestName   string  `json:"guest_name"`
	PackageName *string `json:"package_name"`
}

type QuotationView struct {
	models.Quotation
	Breakdown      *CostBreakdown           `json:"breakdown,omitempty"`
	PackageDetails *QuotationPackageDetails `json:"package_details,omitempty"`
}

type QuotationService interface {
	Generate(ctx context.Context, packageID uint, req *dto.QuotationCreateRequest) (*QuotationView, error)
	List(ctx context.Context, packageID uint) ([]models.Quotation, error)
	Get(ctx context.Context, packageID, id uint) (*QuotationView, error)
	PDFPath(ctx context.Context, packageID, id uint) (string, error)
	Send(ctx context.Context, packageID, id uint) (*models.Quotation, error)
	UpdateStatus(ctx context.Context, packageID, id uint, status models.QuotationStatus) (*models.Quotation, error)
}

type quotationService struct {
	quotations repository.QuotationRepository
	packages   repository.PackageRepository
	guests     repository.GuestRepository
	numbers    *QuotationNumberer
	cost       *CostAggregator
	files      FileStore
	events     notifier
	now        func() time.Time
}

func NewQuotationService(
	quotations repository.QuotationRepository,
	packages repository.PackageRepository,
	guests repository.GuestRepository,
	numbers *QuotationNumberer,
	cost *CostAggregator,
	files FileStore,
	publisher EventPublisher,
	log *zap.Logger,
) QuotationService {
	return &quotationService{
		quotations: quotations,
		packages:   packages,
		guests:     guests,
		numbers:    numbers,
		cost:       cost,
		files:      files,
		events:     newNotifier(publisher, log),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Generate snapshots the recomputed package total into a new draft quotation.
// A number taken concurrently by another writer is retried with the next one.
func (s *quotationService) Generate(ctx context.Context, packageID uint, req *dto.QuotationCreateRequest) (*QuotationView, error) {
	if req == nil {
		req = &dto.QuotationCreateRequest{}
	}

	var view *QuotationView
	var guestID uint
	for attempt := 1; ; attempt++ {
		err := s.packages.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			pkg, err := s.packages.FindByID(ctx, tx, packageID)
			if err != nil {
				return notFoundOr(err, "Package", "get package")
			}
			guestID = pkg.GuestID

			breakdown, err := s.cost.Recalculate(ctx, tx, packageID)
			if err != nil {
				return err
			}
			number, err := s.numbers.Next(ctx, tx)
			if err != nil {
				return err
			}
			pdfPath, err := s.files.Path(KindQuotations, number+".pdf")
			if err != nil {
				return fmt.Errorf("prepare quotation pdf path: %w", err)
			}

			q := models.Quotation{
				PackageID:        packageID,
				QuotationNumber:  number,
				QuotationPDFPath: &pdfPath,
				TotalAmount:      breakdown.Total,
				GeneratedDate:    s.now(),
				ExpiryDate:       req.ExpiryDate,
				Status:           models.QuotationStatusDraft,
				Notes:            req.Notes,
			}
			if err := s.quotations.Create(ctx, tx, &q); err != nil {
				return fmt.Errorf("create quotation: %w", err)
			}
			view = &QuotationView{Quotation: q, Breakdown: breakdown}
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < maxQuotationAttempts {
			continue
		}
		return nil, err
	}

	s.events.notify(EventQuotationGenerated, packageID, guestID, "Quotation "+view.QuotationNumber+" generated")
	return view, nil
}

func (s *quotationService) List(ctx context.Context, packageID uint) ([]models.Quotation, error) {
	quotations, err := s.quotations.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	return quotations, nil
}

func (s *quotationService) Get(ctx context.Context, packageID, id uint) (*QuotationView, error) {
	q, err := s.quotations.FindByID(ctx, packageID, id)
	if err != nil {
		return nil, notFoundOr(err, "Quotation", "get quotation")
	}

	db := s.packages.GetDB()
	pkg, err := s.packages.FindByID(ctx, db, packageID)
	if err != nil {
		return nil, notFoundOr(err, "Package", "get package")
	}
	guest, err := s.guests.FindByPackage(ctx, db, packageID)
	if err != nil {
		return nil, notFoundOr(err, "Guest", "get guest")
	}

	return &QuotationView{
		Quotation: *q,
		PackageDetails: &QuotationPackageDetails{
			GuestName:   guest.FullName,
			PackageName: pkg.PackageName,
		},
	}, nil
}

func (s *quotationService) PDFPath(ctx context.Context, packageID, id uint) (string, error) {
	q, err := s.quotations.FindByID(ctx, packageID, id)
	if err != nil {
		return "", notFoundOr(err, "Quotation", "get quotation")
	}
	if q.QuotationPDFPath == nil || !fileExists(*q.QuotationPDFPath) {
		return "", notFound("PDF")
	}
	return *q.QuotationPDFPath, nil
}

func (s *quotationService) Send(ctx context.Context, packageID, id uint) (*models.Quotation, error) {
	q, err := s.quotations.FindByID(ctx, packageID, id)
	if err != nil {
		return nil, notFoundOr(err, "Quotation", "get quotation")
	}
	now := s.now()
	q.Status = models.QuotationStatusSent
	q.SentDate = &now
	if err := s.quotations.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("send quotation: %w", err)
	}

	s.events.notify(EventQuotationSent, packageID, 0, "Quotation "+q.QuotationNumber+" sent")
	return q, nil
}

func (s *quotationService) UpdateStatus(ctx context.Context, packageID, id uint, status models.QuotationStatus) (*models.Quotation, error) {
	if err := ValidateStruct(&dto.QuotationStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	q, err := s.quotations.FindByID(ctx, packageID, id)
	if err != nil {
		return nil, notFoundOr(err, "Quotation", "get quotation")
	}
	q.Status = status
	if err := s.quotations.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("update quotation status: %w", err)
	}
	return q, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
