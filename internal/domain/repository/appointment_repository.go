package repository

import (
	"context"
	"time"

	"medical-clinic-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter, limit, offset int) ([]entity.Appointment, int64, error)
	// SlotTaken reports whether the doctor already has a non-rejected appointment at the
	// given time, ignoring exceptID when set.
	SlotTaken(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, at time.Time, exceptID *uuid.UUID) (bool, error)
	// FindUpcomingHeld pages through non-rejected appointments scheduled after the given time.
	FindUpcomingHeld(ctx context.Context, db *gorm.DB, after time.Time, limit, offset int) ([]entity.Appointment, error)
	Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	CountUpcoming(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, from time.Time) (int64, error)
	CountBetween(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, from, to time.Time) (int64, error)
	CountDistinctPatients(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, db *gorm.DB) (map[entity.AppointmentStatus]int64, error)
}
