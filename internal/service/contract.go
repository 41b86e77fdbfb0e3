package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"go.uber.org/zap"
)

type ClientInfo struct {
	GuestID            uint   `json:"guest_id"`
	FullName           string `json:"full_name"`
	PhoneNumber        string `json:"phone_number"`
	CountryOfResidence string `json:"country_of_residence"`
}

type ContractView struct {
	models.Contract
	ClientInfo *ClientInfo `json:"client_info,omitempty"`
}

type ContractService interface {
	Generate(ctx context.Context, packageID uint, req *dto.ContractCreateRequest) (*ContractView, error)
	Get(ctx context.Context, packageID uint) (*models.Contract, error)
	PDFPath(ctx context.Context, packageID uint) (string, error)
	Send(ctx context.Context, packageID uint) (*models.Contract, error)
	Confirm(ctx context.Context, packageID uint, confirmed bool) (*models.Contract, error)
	UpdateStatus(ctx context.Context, packageID uint, status models.ContractStatus) (*models.Contract, error)
}

type contractService struct {
	contracts repository.ContractRepository
	guests    repository.GuestRepository
	files     FileStore
	events    notifier
	now       func() time.Time
}

func NewContractService(
	contracts repository.ContractRepository,
	guests repository.GuestRepository,
	files FileStore,
	publisher EventPublisher,
	log *zap.Logger,
) ContractService {
	return &contractService{
		contracts: contracts,
		guests:    guests,
		files:     files,
		events:    newNotifier(publisher, log),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Generate creates the package contract, or resets an existing one to draft.
func (s *contractService) Generate(ctx context.Context, packageID uint, req *dto.ContractCreateRequest) (*ContractView, error) {
	if req == nil {
		req = &dto.ContractCreateRequest{}
	}
	guest, err := s.guests.FindByPackage(ctx, s.guests.GetDB(), packageID)
	if err != nil {
		return nil, notFoundOr(err, "Package or guest", "get package guest")
	}

	number := fmt.Sprintf("CONTRACT-%d-%04d", s.now().Year(), packageID)
	pdfPath, err := s.files.Path(KindContracts, number+".pdf")
	if err != nil {
		return nil, fmt.Errorf("prepare contract pdf path: %w", err)
	}

	contract := &models.Contract{
		PackageID:            packageID,
		ContractTemplatePath: req.ContractTemplatePath,
		ContractPDFPath:      &pdfPath,
		Status:               models.ContractStatusDraft,
		Notes:                req.Notes,
	}
	if err := s.contracts.Upsert(ctx, contract); err != nil {
		return nil, fmt.Errorf("save contract: %w", err)
	}

	return &ContractView{
		Contract: *contract,
		ClientInfo: &ClientInfo{
			GuestID:            guest.ID,
			FullName:           guest.FullName,
			PhoneNumber:        guest.PhoneNumber,
			CountryOfResidence: guest.CountryOfResidence,
		},
	}, nil
}

func (s *contractService) Get(ctx context.Context, packageID uint) (*models.Contract, error) {
	contract, err := s.contracts.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, notFoundOr(err, "Contract", "get contract")
	}
	return contract, nil
}

func (s *contractService) PDFPath(ctx context.Context, packageID uint) (string, error) {
	contract, err := s.Get(ctx, packageID)
	if err != nil {
		return "", notFound("PDF")
	}
	if contract.ContractPDFPath == nil || !fileExists(*contract.ContractPDFPath) {
		return "", notFound("PDF")
	}
	return *contract.ContractPDFPath, nil
}

func (s *contractService) Send(ctx context.Context, packageID uint) (*models.Contract, error) {
	contract, err := s.Get(ctx, packageID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	contract.Status = models.ContractStatusSent
	contract.SentDate = &now
	if err := s.contracts.Save(ctx, contract); err != nil {
		return nil, fmt.Errorf("send contract: %w", err)
	}

	s.events.notify(EventContractSent, packageID, 0, "Contract sent")
	return contract, nil
}

func (s *contractService) Confirm(ctx context.Context, packageID uint, confirmed bool) (*models.Contract, error) {
	if !confirmed {
		return nil, NewValidationError("Contract confirmation failed")
	}
	contract, err := s.Get(ctx, packageID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	contract.Status = models.ContractStatusConfirmed
	contract.ConfirmedDate = &now
	if err := s.contracts.Save(ctx, contract); err != nil {
		return nil, fmt.Errorf("confirm contract: %w", err)
	}

	s.events.notify(EventContractConfirmed, packageID, 0, "Contract confirmed")
	return contract, nil
}

func (s *contractService) UpdateStatus(ctx context.Context, packageID uint, status models.ContractStatus) (*models.Contract, error) {
	if err := ValidateStruct(&dto.ContractStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	contract, err := s.Get(ctx, packageID)
	if err != nil {
		return nil, err
	}
	contract.Status = status
	if err := s.contracts.Save(ctx, contract); err != nil {
		return nil, fmt.Errorf("update contract status: %w", err)
	}
	return contract, nil
}
