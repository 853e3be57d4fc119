package repository

import (
	"context"
	"errors"

	"medical-clinic-api/internal/domain/entity"
	domainRepo "medical-clinic-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorAvailabilityRepository struct{}

func NewDoctorAvailabilityRepository() domainRepo.DoctorAvailabilityRepository {
	return &doctorAvailabilityRepository{}
}

func (r *doctorAvailabilityRepository) Upsert(ctx context.Context, db *gorm.DB, slot *entity.DoctorAvailability) error {
	return db.WithContext(ctx).
		Omit("Doctor").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doctor_id"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "updated_at"}),
		}).
		Create(slot).Error
}

func (r *doctorAvailabilityRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.DoctorAvailability, error) {
	var slot entity.DoctorAvailability
	err := db.WithContext(ctx).Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *doctorAvailabilityRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorAvailability, error) {
	var slots []entity.DoctorAvailability
	err := db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("CASE day WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2 WHEN 'Wednesday' THEN 3 WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5 WHEN 'Saturday' THEN 6 ELSE 7 END").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *doctorAvailabilityRepository) FindByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, day string) (*entity.DoctorAvailability, error) {
	var slot entity.DoctorAvailability
	err := db.WithContext(ctx).Where("doctor_id = ? AND day = ?", doctorID, day).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *doctorAvailabilityRepository) Update(ctx context.Context, db *gorm.DB, slot *entity.DoctorAvailability) error {
	return db.WithContext(ctx).Omit("Doctor").Save(slot).Error
}

func (r *doctorAvailabilityRepository) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DoctorAvailability{})
	return result.RowsAffected, result.Error
}
