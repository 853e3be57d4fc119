package repository

import (
	"context"

	"medical-clinic-api/internal/domain/entity"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, db *gorm.DB, notification *entity.Notification) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Notification, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.NotificationFilter, limit, offset int) ([]entity.Notification, int64, error)
	Update(ctx context.Context, db *gorm.DB, notification *entity.Notification) error
	MarkRead(ctx context.Context, db *gorm.DB, id int64) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}
