package repository

import (
	"context"

	"github.com/tourismoam/backoffice/internal/models"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	activities := make([]models.Activity, 0)
	err := r.db.WithContext(ctx).
		Order("occurred_at DESC, id DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}
