package repository

import (
	"context"
	"errors"

	"medical-clinic-api/internal/domain/entity"
	domainRepo "medical-clinic-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return db.WithContext(ctx).Omit("Role", "DoctorProfile", "PatientProfile").Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return r.first(db.WithContext(ctx).Where("id = ?", id))
}

func (r *userRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	return r.first(db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email))
}

func (r *userRepository) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.User, error) {
	return r.first(db.WithContext(ctx).Where("username = ?", username))
}

func (r *userRepository) FindByLogin(ctx context.Context, db *gorm.DB, identifier string) (*entity.User, error) {
	return r.first(db.WithContext(ctx).Where("username = ? OR LOWER(email) = LOWER(?)", identifier, identifier))
}

func (r *userRepository) first(query *gorm.DB) (*entity.User, error) {
	var user entity.User
	err := query.Preload("Role").First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, db *gorm.DB, username string, exceptID *uuid.UUID) (bool, error) {
	query := db.WithContext(ctx).Model(&entity.User{}).Where("username = ?", username)
	return r.exists(query, exceptID)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, db *gorm.DB, email string, exceptID *uuid.UUID) (bool, error) {
	query := db.WithContext(ctx).Model(&entity.User{}).Where("LOWER(email) = LOWER(?)", email)
	return r.exists(query, exceptID)
}

func (r *userRepository) exists(query *gorm.DB, exceptID *uuid.UUID) (bool, error) {
	if exceptID != nil {
		query = query.Where("id <> ?", *exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return db.WithContext(ctx).Omit("Role", "DoctorProfile", "PatientProfile").Save(user).Error
}

func (r *userRepository) SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) error {
	return db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *userRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&entity.User{}).Error
}
