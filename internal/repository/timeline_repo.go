package repository

import (
	"context"

	"github.com/tourismoam/backoffice/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TimelineRepository interface {
	// InsertMissing adds the given steps, leaving existing (package_id, step_name) rows alone.
	InsertMissing(ctx context.Context, tx *gorm.DB, steps []models.TimelineStep) error
	// Upsert adds the given steps and overwrites the status of existing ones.
	Upsert(ctx context.Context, tx *gorm.DB, steps []models.TimelineStep) error
	FindByPackage(ctx context.Context, packageID uint) ([]models.TimelineStep, error)
	FindByName(ctx context.Context, packageID uint, stepName string) (*models.TimelineStep, error)
	Save(ctx context.Context, step *models.TimelineStep) error
}

type timelineRepository struct {
	db *gorm.DB
}

func NewTimelineRepository(db *gorm.DB) TimelineRepository {
	return &timelineRepository{db: db}
}

var timelineKey = []clause.Column{{Name: "package_id"}, {Name: "step_name"}}

func (r *timelineRepository) InsertMissing(ctx context.Context, tx *gorm.DB, steps []models.TimelineStep) error {
	if len(steps) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: timelineKey, DoNothing: true}).
		Create(&steps).Error
}

func (r *timelineRepository) Upsert(ctx context.Context, tx *gorm.DB, steps []models.TimelineStep) error {
	if len(steps) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   timelineKey,
			DoUpdates: clause.AssignmentColumns([]string{"status", "completed_date", "updated_at"}),
		}).
		Create(&steps).Error
}

func (r *timelineRepository) FindByPackage(ctx context.Context, packageID uint) ([]models.TimelineStep, error) {
	steps := make([]models.TimelineStep, 0)
	err := r.db.WithContext(ctx).
		Where("package_id = ?", packageID).
		Order("id ASC").
		Find(&steps).Error
	if err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *timelineRepository) FindByName(ctx context.Context, packageID uint, stepName string) (*models.TimelineStep, error) {
	var step models.TimelineStep
	err := r.db.WithContext(ctx).
		Where("package_id = ? AND step_name = ?", packageID, stepName).
		First(&step).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *timelineRepository) Save(ctx context.Context, step *models.TimelineStep) error {
	return r.db.WithContext(ctx).Save(step).Error
}
