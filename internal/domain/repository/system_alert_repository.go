package repository

import (
	"context"
	"time"

	"medical-clinic-api/internal/domain/entity"

	"gorm.io/gorm"
)

type SystemAlertRepository interface {
	Create(ctx context.Context, db *gorm.DB, alert *entity.SystemAlert) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.SystemAlert, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.SystemAlert, error)
	FindLive(ctx context.Context, db *gorm.DB, at time.Time) ([]entity.SystemAlert, error)
	Update(ctx context.Context, db *gorm.DB, alert *entity.SystemAlert) error
	Delete(ctx context.Context, db *gorm.DB, id int) (int64, error)
}
