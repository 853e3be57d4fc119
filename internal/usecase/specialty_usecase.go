package usecase

import (
	"context"
	"errors"
	"strconv"

	"medical-clinic-api/internal/converter"
	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/delivery/http/middleware"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"
	"medical-clinic-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrSpecialtyAlreadyExists = errors.New("specialty with this name already exists")

type SpecialtyUsecase interface {
	List(ctx context.Context) ([]dto.SpecialtyResponse, error)
	Get(ctx context.Context, id int) (*dto.SpecialtyResponse, error)
	Create(ctx context.Context, req *dto.SpecialtyRequest) (*dto.SpecialtyResponse, error)
	Update(ctx context.Context, id int, req *dto.SpecialtyRequest) (*dto.SpecialtyResponse, error)
	Delete(ctx context.Context, id int) error
}

type specialtyUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	specialtyRepo repository.SpecialtyRepository
	activity      service.ActivityService
}

func NewSpecialtyUsecase(db *gorm.DB, log *logrus.Logger, specialtyRepo repository.SpecialtyRepository, activity service.ActivityService) SpecialtyUsecase {
	return &specialtyUsecase{
		db:            db,
		log:           log,
		specialtyRepo: specialtyRepo,
		activity:      activity,
	}
}

func (u *specialtyUsecase) List(ctx context.Context) ([]dto.SpecialtyResponse, error) {
	specialties, err := u.specialtyRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to list specialties: %+v", err)
		return nil, err
	}
	return converter.SpecialtiesToResponses(specialties), nil
}

func (u *specialtyUsecase) find(ctx context.Context, db *gorm.DB, id int) (*entity.Specialty, error) {
	specialty, err := u.specialtyRepo.FindByID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find specialty %d: %+v", id, err)
		return nil, err
	}
	if specialty == nil {
		return nil, ErrSpecialtyNotFound
	}
	return specialty, nil
}

func (u *specialtyUsecase) Get(ctx context.Context, id int) (*dto.SpecialtyResponse, error) {
	specialty, err := u.find(ctx, u.db, id)
	if err != nil {
		return nil, err
	}
	return converter.SpecialtyToResponse(specialty), nil
}

func (u *specialtyUsecase) Create(ctx context.Context, req *dto.SpecialtyRequest) (*dto.SpecialtyResponse, error) {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specialty := &entity.Specialty{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := u.specialtyRepo.Create(ctx, tx, specialty); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrSpecialtyAlreadyExists
		}
		u.log.Warnf("Failed to create specialty: %+v", err)
		return nil, err
	}

	after := converter.SpecialtyToResponse(specialty)
	if err := u.activity.LogCreate(ctx, tx, &adminID, entity.ActionCreate, entity.EntitySpecialty, strconv.Itoa(specialty.ID), after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

func (u *specialtyUsecase) Update(ctx context.Context, id int, req *dto.SpecialtyRequest) (*dto.SpecialtyResponse, error) {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specialty, err := u.find(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	before := converter.SpecialtyToResponse(specialty)

	specialty.Name = req.Name
	specialty.Description = req.Description

	if err := u.specialtyRepo.Update(ctx, tx, specialty); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrSpecialtyAlreadyExists
		}
		u.log.Warnf("Failed to update specialty %d: %+v", id, err)
		return nil, err
	}

	after := converter.SpecialtyToResponse(specialty)
	if err := u.activity.LogUpdate(ctx, tx, &adminID, entity.ActionUpdate, entity.EntitySpecialty, strconv.Itoa(id), before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

// Delete removes a specialty; doctors referencing it keep their free-text specialization.
func (u *specialtyUsecase) Delete(ctx context.Context, id int) error {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specialty, err := u.find(ctx, tx, id)
	if err != nil {
		return err
	}

	if _, err := u.specialtyRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete specialty %d: %+v", id, err)
		return err
	}

	if err := u.activity.LogDelete(ctx, tx, &adminID, entity.ActionDelete, entity.EntitySpecialty, strconv.Itoa(id), converter.SpecialtyToResponse(specialty)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
