package repository

import (
	"context"
	"errors"
	"time"

	"medical-clinic-api/internal/domain/entity"
	domainRepo "medical-clinic-api/internal/domain/repository"

	"gorm.io/gorm"
)

type systemAlertRepository struct{}

func NewSystemAlertRepository() domainRepo.SystemAlertRepository {
	return &systemAlertRepository{}
}

func (r *systemAlertRepository) Create(ctx context.Context, db *gorm.DB, alert *entity.SystemAlert) error {
	return db.WithContext(ctx).Create(alert).Error
}

func (r *systemAlertRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.SystemAlert, error) {
	var alert entity.SystemAlert
	err := db.WithContext(ctx).Where("id = ?", id).First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

func (r *systemAlertRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.SystemAlert, error) {
	var alerts []entity.SystemAlert
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindLive returns active alerts that have not expired at the given time.
func (r *systemAlertRepository) FindLive(ctx context.Context, db *gorm.DB, at time.Time) ([]entity.SystemAlert, error) {
	var alerts []entity.SystemAlert
	err := db.WithContext(ctx).
		Where("is_active = ? AND (expires_at IS NULL OR expires_at > ?)", true, at).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *systemAlertRepository) Update(ctx context.Context, db *gorm.DB, alert *entity.SystemAlert) error {
	return db.WithContext(ctx).Save(alert).Error
}

func (r *systemAlertRepository) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.SystemAlert{})
	return result.RowsAffected, result.Error
}
