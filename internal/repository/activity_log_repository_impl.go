package repository

import (
	"context"
	"errors"

	"medical-clinic-api/internal/domain/entity"
	domainRepo "medical-clinic-api/internal/domain/repository"

	"gorm.io/gorm"
)

type activityLogRepository struct{}

func NewActivityLogRepository() domainRepo.ActivityLogRepository {
	return &activityLogRepository{}
}

func (r *activityLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.ActivityLog) error {
	return db.WithContext(ctx).Omit("User").Create(log).Error
}

func (r *activityLogRepository) FindAll(ctx context.Context, db *gorm.DB, action string, limit, offset int) ([]entity.ActivityLog, int64, error) {
	var logs []entity.ActivityLog
	var total int64

	query := db.WithContext(ctx).Model(&entity.ActivityLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("User.Role").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *activityLogRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.ActivityLog, error) {
	var log entity.ActivityLog
	err := db.WithContext(ctx).Preload("User.Role").Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *activityLogRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ActivityLog{})
	return result.RowsAffected, result.Error
}
