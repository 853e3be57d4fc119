package usecase

import (
	"context"
	"errors"
	"strconv"

	"medical-clinic-api/internal/converter"
	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"
	"medical-clinic-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidTimeRange     = errors.New("start_time must be before end_time")
	ErrAvailabilityNotFound = errors.New("availability not found")
	ErrAvailabilityDayTaken = errors.New("availability for this day already exists")
)

type AvailabilityUsecase interface {
	Upsert(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
	ListMine(ctx context.Context) ([]dto.AvailabilityResponse, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.AvailabilityResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateAvailabilityRequest) (*dto.AvailabilityResponse, error)
	Delete(ctx context.Context, id int) error
}

type availabilityUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	availabilityRepo  repository.DoctorAvailabilityRepository
	activity          service.ActivityService
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	availabilityRepo repository.DoctorAvailabilityRepository,
	activity service.ActivityService,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:                db,
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
		availabilityRepo:  availabilityRepo,
		activity:          activity,
	}
}

// Upsert inserts the weekly window or overwrites the doctor's existing row for that day.
func (u *availabilityUsecase) Upsert(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	if !entity.ValidTimeRange(req.StartTime, req.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := currentDoctor(ctx, tx, u.log, u.doctorProfileRepo)
	if err != nil {
		return nil, err
	}

	existing, err := u.availabilityRepo.FindByDoctorAndDay(ctx, tx, doctor.UserID, req.Day)
	if err != nil {
		u.log.Warnf("Failed to find availability for %s: %+v", req.Day, err)
		return nil, err
	}

	slot := &entity.DoctorAvailability{
		DoctorID:  doctor.UserID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := u.availabilityRepo.Upsert(ctx, tx, slot); err != nil {
		u.log.Warnf("Failed to upsert availability: %+v", err)
		return nil, err
	}

	var before interface{}
	if existing != nil {
		before = converter.AvailabilityToResponse(existing)
	}
	after := converter.AvailabilityToResponse(slot)
	if err := u.activity.LogUpdate(ctx, tx, &doctor.UserID, entity.ActionAvailabilityUpsert, entity.EntityAvailability, strconv.Itoa(slot.ID), before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

func (u *availabilityUsecase) ListMine(ctx context.Context) ([]dto.AvailabilityResponse, error) {
	doctor, err := currentDoctor(ctx, u.db, u.log, u.doctorProfileRepo)
	if err != nil {
		return nil, err
	}
	return u.list(ctx, doctor.UserID)
}

func (u *availabilityUsecase) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.AvailabilityResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return u.list(ctx, doctorID)
}

func (u *availabilityUsecase) list(ctx context.Context, doctorID uuid.UUID) ([]dto.AvailabilityResponse, error) {
	slots, err := u.availabilityRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find availability for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	responses := converter.AvailabilitiesToResponses(slots)
	if responses == nil {
		responses = []dto.AvailabilityResponse{}
	}
	return responses, nil
}

func (u *availabilityUsecase) Update(ctx context.Context, id int, req *dto.UpdateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, slot, err := u.ownSlot(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	before := converter.AvailabilityToResponse(slot)

	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if !entity.ValidTimeRange(slot.StartTime, slot.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	if req.Day != nil && *req.Day != slot.Day {
		taken, err := u.availabilityRepo.FindByDoctorAndDay(ctx, tx, doctor.UserID, *req.Day)
		if err != nil {
			u.log.Warnf("Failed to find availability for %s: %+v", *req.Day, err)
			return nil, err
		}
		if taken != nil {
			return nil, ErrAvailabilityDayTaken
		}
		slot.Day = *req.Day
	}

	if err := u.availabilityRepo.Update(ctx, tx, slot); err != nil {
		if isDuplicateKeyError(err, "uq_doctor_availability_day") {
			return nil, ErrAvailabilityDayTaken
		}
		u.log.Warnf("Failed to update availability %d: %+v", id, err)
		return nil, err
	}

	after := converter.AvailabilityToResponse(slot)
	if err := u.activity.LogUpdate(ctx, tx, &doctor.UserID, entity.ActionUpdate, entity.EntityAvailability, strconv.Itoa(id), before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

func (u *availabilityUsecase) Delete(ctx context.Context, id int) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, slot, err := u.ownSlot(ctx, tx, id)
	if err != nil {
		return err
	}

	if _, err := u.availabilityRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete availability %d: %+v", id, err)
		return err
	}

	if err := u.activity.LogDelete(ctx, tx, &doctor.UserID, entity.ActionDelete, entity.EntityAvailability, strconv.Itoa(id), converter.AvailabilityToResponse(slot)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// ownSlot loads a slot that belongs to the signed-in doctor. Other doctors' rows are reported as missing.
func (u *availabilityUsecase) ownSlot(ctx context.Context, tx *gorm.DB, id int) (*entity.DoctorProfile, *entity.DoctorAvailability, error) {
	doctor, err := currentDoctor(ctx, tx, u.log, u.doctorProfileRepo)
	if err != nil {
		return nil, nil, err
	}

	slot, err := u.availabilityRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find availability %d: %+v", id, err)
		return nil, nil, err
	}
	if slot == nil || slot.DoctorID != doctor.UserID {
		return nil, nil, ErrAvailabilityNotFound
	}
	return doctor, slot, nil
}
