package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"gorm.io/gorm"
)

// DefaultTimelineSteps is the fulfilment checklist every package starts with, in order.
var DefaultTimelineSteps = []string{
	"Guest Info Collection",
	"Air Travel",
	"Accommodations",
	"Tours",
	"Visa",
	"Quotation Generation",
	"Payment Processing",
}

type TimelineView struct {
	PackageID          uint                  `json:"package_id"`
	Steps              []models.TimelineStep `json:"steps"`
	ProgressPercentage int                   `json:"progress_percentage"`
}

type TimelineService interface {
	// Initialize inserts any missing default step as pending. Existing rows are untouched.
	Initialize(ctx context.Context, tx *gorm.DB, packageID uint) error
	Get(ctx context.Context, packageID uint) (*TimelineView, error)
	GetStep(ctx context.Context, packageID uint, stepName string) (*models.TimelineStep, error)
	SetSteps(ctx context.Context, packageID uint, req *dto.TimelineInitRequest) (*TimelineView, error)
	UpdateStep(ctx context.Context, packageID uint, stepName string, req *dto.TimelineStepUpdateRequest) (*models.TimelineStep, error)
}

type timelineService struct {
	repo repository.TimelineRepository
	db   *gorm.DB
	now  func() time.Time
}

func NewTimelineService(repo repository.TimelineRepository, db *gorm.DB) TimelineService {
	return &timelineService{repo: repo, db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *timelineService) Initialize(ctx context.Context, tx *gorm.DB, packageID uint) error {
	steps := make([]models.TimelineStep, len(DefaultTimelineSteps))
	for i, name := range DefaultTimelineSteps {
		steps[i] = models.TimelineStep{
			PackageID: packageID,
			StepName:  name,
			Status:    models.StepStatusPending,
		}
	}
	if err := s.repo.InsertMissing(ctx, tx, steps); err != nil {
		return fmt.Errorf("initialize timeline: %w", err)
	}
	return nil
}

func (s *timelineService) Get(ctx context.Context, packageID uint) (*TimelineView, error) {
	steps, err := s.repo.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("list timeline steps: %w", err)
	}
	return &TimelineView{
		PackageID:          packageID,
		Steps:              steps,
		ProgressPercentage: progress(steps),
	}, nil
}

func progress(steps []models.TimelineStep) int {
	if len(steps) == 0 {
		return 0
	}
	completed := 0
	for _, st := range steps {
		if st.Status == models.StepStatusCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(steps)) * 100))
}

func (s *timelineService) GetStep(ctx context.Context, packageID uint, stepName string) (*models.TimelineStep, error) {
	step, err := s.repo.FindByName(ctx, packageID, stepName)
	if err != nil {
		return nil, notFoundOr(err, "Timeline step", "get timeline step")
	}
	return step, nil
}

// SetSteps upserts the given steps, or seeds the defaults when none are given.
func (s *timelineService) SetSteps(ctx context.Context, packageID uint, req *dto.TimelineInitRequest) (*TimelineView, error) {
	if req == nil || len(req.Steps) == 0 {
		if err := s.Initialize(ctx, s.db, packageID); err != nil {
			return nil, err
		}
		return s.Get(ctx, packageID)
	}

	steps := make([]models.TimelineStep, len(req.Steps))
	for i, in := range req.Steps {
		status := models.StepStatusPending
		if in.Status != nil {
			status = *in.Status
		}
		steps[i] = models.TimelineStep{PackageID: packageID, StepName: in.StepName, Status: status}
		if status == models.StepStatusCompleted {
			now := s.now()
			steps[i].CompletedDate = &now
		}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Upsert(ctx, tx, steps)
	})
	if err != nil {
		return nil, fmt.Errorf("upsert timeline steps: %w", err)
	}
	return s.Get(ctx, packageID)
}

func (s *timelineService) UpdateStep(ctx context.Context, packageID uint, stepName string, req *dto.TimelineStepUpdateRequest) (*models.TimelineStep, error) {
	step, err := s.GetStep(ctx, packageID, stepName)
	if err != nil {
		return nil, err
	}

	step.Status = req.Status
	if req.Status == models.StepStatusCompleted {
		now := s.now()
		step.CompletedDate = &now
	} else {
		step.CompletedDate = nil
	}
	if req.Notes != nil {
		step.Notes = req.Notes
	}

	if err := s.repo.Save(ctx, step); err != nil {
		return nil, fmt.Errorf("update timeline step: %w", err)
	}
	return step, nil
}
