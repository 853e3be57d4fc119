package repository

import (
	"context"

	"medical-clinic-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.User, error)
	// FindByLogin matches the identifier against username or email.
	FindByLogin(ctx context.Context, db *gorm.DB, identifier string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, db *gorm.DB, username string, exceptID *uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, db *gorm.DB, email string, exceptID *uuid.UUID) (bool, error)
	Update(ctx context.Context, db *gorm.DB, user *entity.User) error
	SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error
}
