package repository

import (
	"context"

	"medical-clinic-api/internal/domain/entity"

	"gorm.io/gorm"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.ActivityLog) error
	FindAll(ctx context.Context, db *gorm.DB, action string, limit, offset int) ([]entity.ActivityLog, int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.ActivityLog, error)
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}
