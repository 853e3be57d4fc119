package repository

import (
	"context"
	"errors"

	"medical-clinic-api/internal/domain/entity"
	domainRepo "medical-clinic-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.WithContext(ctx).Omit("User", "Specialty", "Availabilities").Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.WithContext(ctx).
		Preload("User").Preload("Specialty").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAll returns doctors joined with their user rows, newest first.
// Supports optional filters: name, specialization, specialty, moderation flags.
func (r *doctorProfileRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter, limit, offset int) ([]entity.DoctorProfile, int64, error) {
	var profiles []entity.DoctorProfile
	var total int64

	if err := r.filtered(db.WithContext(ctx), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.filtered(db.WithContext(ctx), filter).
		Preload("User").Preload("Specialty").
		Order("users.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *doctorProfileRepository) Count(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) (int64, error) {
	var total int64
	err := r.filtered(db.WithContext(ctx), filter).Count(&total).Error
	return total, err
}

func (r *doctorProfileRepository) filtered(db *gorm.DB, filter *entity.DoctorFilter) *gorm.DB {
	query := db.Model(&entity.DoctorProfile{}).
		Joins("JOIN users ON users.id = doctor_profiles.user_id")

	if filter == nil {
		return query
	}
	if filter.ActiveOnly {
		query = query.Where("users.is_active = ?", true)
	}
	if filter.Name != "" {
		like := "%" + filter.Name + "%"
		query = query.Where("(users.first_name || ' ' || users.last_name) ILIKE ? OR users.username ILIKE ?", like, like)
	}
	if filter.Specialization != "" {
		query = query.Where("doctor_profiles.specialization ILIKE ?", "%"+filter.Specialization+"%")
	}
	if filter.SpecialtyID != nil {
		query = query.Where("doctor_profiles.specialty_id = ?", *filter.SpecialtyID)
	}
	if filter.IsApproved != nil {
		query = query.Where("doctor_profiles.is_approved = ?", *filter.IsApproved)
	}
	if filter.IsBlocked != nil {
		query = query.Where("doctor_profiles.is_blocked = ?", *filter.IsBlocked)
	}
	return query
}

func (r *doctorProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.WithContext(ctx).Omit("User", "Specialty", "Availabilities").Save(profile).Error
}

func (r *doctorProfileRepository) Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.DoctorProfile{}).Error
}
