package repository

import (
	"context"
	"errors"

	"medical-clinic-api/internal/domain/entity"
	domainRepo "medical-clinic-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientProfileRepository struct{}

func NewPatientProfileRepository() domainRepo.PatientProfileRepository {
	return &patientProfileRepository{}
}

func (r *patientProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	return db.WithContext(ctx).Omit("User", "Appointments").Create(profile).Error
}

func (r *patientProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	err := db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *patientProfileRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.PatientFilter, limit, offset int) ([]entity.PatientProfile, int64, error) {
	var profiles []entity.PatientProfile
	var total int64

	if err := r.filtered(db.WithContext(ctx), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.filtered(db.WithContext(ctx), filter).Preload("User").Order("users.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *patientProfileRepository) Count(ctx context.Context, db *gorm.DB, filter *entity.PatientFilter) (int64, error) {
	var total int64
	err := r.filtered(db.WithContext(ctx), filter).Count(&total).Error
	return total, err
}

func (r *patientProfileRepository) filtered(db *gorm.DB, filter *entity.PatientFilter) *gorm.DB {
	query := db.Model(&entity.PatientProfile{}).
		Joins("JOIN users ON users.id = patient_profiles.user_id")

	if filter == nil {
		return query
	}
	if filter.Name != "" {
		like := "%" + filter.Name + "%"
		query = query.Where("(users.first_name || ' ' || users.last_name) ILIKE ? OR users.username ILIKE ?", like, like)
	}
	if filter.IsApproved != nil {
		query = query.Where("patient_profiles.is_approved = ?", *filter.IsApproved)
	}
	if filter.IsBlocked != nil {
		query = query.Where("patient_profiles.is_blocked = ?", *filter.IsBlocked)
	}
	return query
}

func (r *patientProfileRepository) FindByDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.PatientProfile, error) {
	var profiles []entity.PatientProfile
	err := db.WithContext(ctx).
		Preload("User").
		Where("user_id IN (?)", db.Model(&entity.Appointment{}).Select("patient_id").Where("doctor_id = ?", doctorID)).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *patientProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	return db.WithContext(ctx).Omit("User", "Appointments").Save(profile).Error
}

func (r *patientProfileRepository) Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.PatientProfile{}).Error
}
