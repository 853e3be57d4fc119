package repository

import (
	"context"

	"medical-clinic-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorAvailabilityRepository interface {
	// Upsert inserts the slot or overwrites the existing one for (doctor, day).
	Upsert(ctx context.Context, db *gorm.DB, slot *entity.DoctorAvailability) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.DoctorAvailability, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorAvailability, error)
	FindByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, day string) (*entity.DoctorAvailability, error)
	Update(ctx context.Context, db *gorm.DB, slot *entity.DoctorAvailability) error
	Delete(ctx context.Context, db *gorm.DB, id int) (int64, error)
}
