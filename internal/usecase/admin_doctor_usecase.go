package usecase

import (
	"context"
	"errors"

	"medical-clinic-api/internal/converter"
	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/delivery/http/middleware"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"
	"medical-clinic-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidRating = errors.New("rating must be between 0 and 5")

// AdminDoctorUsecase is the admin CRUD and moderation over doctor accounts.
type AdminDoctorUsecase interface {
	List(ctx context.Context, filter *entity.DoctorFilter, page, limit int) ([]dto.DoctorResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	Create(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Approve(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	Block(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	Unblock(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
}

type adminDoctorUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	availabilityRepo  repository.DoctorAvailabilityRepository
	appointmentRepo   repository.AppointmentRepository
	slots             *service.SlotReservationService
	accountStatus     service.AccountStatusService
	activity          service.ActivityService
	notifier          service.NotificationService
}

func NewAdminDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	availabilityRepo repository.DoctorAvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
	slots *service.SlotReservationService,
	accountStatus service.AccountStatusService,
	activity service.ActivityService,
	notifier service.NotificationService,
) AdminDoctorUsecase {
	return &adminDoctorUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		availabilityRepo:  availabilityRepo,
		appointmentRepo:   appointmentRepo,
		slots:             slots,
		accountStatus:     accountStatus,
		activity:          activity,
		notifier:          notifier,
	}
}

func (u *adminDoctorUsecase) List(ctx context.Context, filter *entity.DoctorFilter, page, limit int) ([]dto.DoctorResponse, int64, error) {
	_, limit, offset := paginate(page, limit)

	doctors, total, err := u.doctorProfileRepo.FindAll(ctx, u.db, filter, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, 0, err
	}

	return converter.DoctorProfilesToResponses(doctors), total, nil
}

func (u *adminDoctorUsecase) find(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.DoctorProfile, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

func (u *adminDoctorUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.find(ctx, u.db, id)
	if err != nil {
		return nil, err
	}

	doctor.Availabilities, err = u.availabilityRepo.FindByDoctorID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find availability for doctor %s: %+v", id, err)
		return nil, err
	}

	return converter.DoctorProfileToResponse(doctor), nil
}

func (u *adminDoctorUsecase) Create(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if req.Rating != nil && !entity.ValidRating(*req.Rating) {
		return nil, ErrInvalidRating
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := ensureAccountUnique(ctx, tx, u.userRepo, req.Username, req.Email, nil); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	moderation := entity.Moderation{IsApproved: req.IsApproved}
	user := &entity.User{
		RoleID:    entity.RoleIDDoctor,
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  entity.BoolPtr(moderation.AccountActive()),
	}
	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if mapped := mapUserConstraintError(err); mapped != nil {
			return nil, mapped
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	profile := &entity.DoctorProfile{
		UserID:         user.ID,
		SpecialtyID:    req.SpecialtyID,
		Specialization: req.Specialization,
		Phone:          req.Phone,
		Bio:            req.Bio,
		Address:        req.Address,
		ImageURL:       req.ImageURL,
		Moderation:     moderation,
	}
	if req.Rating != nil {
		profile.Rating = *req.Rating
	}
	if err := u.doctorProfileRepo.Create(ctx, tx, profile); err != nil {
		if isForeignKeyError(err, "specialty") {
			return nil, ErrSpecialtyNotFound
		}
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, err
	}

	created, err := u.find(ctx, tx, user.ID)
	if err != nil {
		return nil, err
	}
	after := converter.DoctorProfileToResponse(created)

	if err := u.activity.LogCreate(ctx, tx, &adminID, entity.ActionCreate, entity.EntityDoctor, user.ID.String(), after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

func (u *adminDoctorUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	if req.Rating != nil && !entity.ValidRating(*req.Rating) {
		return nil, ErrInvalidRating
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.find(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	before := converter.DoctorProfileToResponse(doctor)

	user := &doctor.User
	userChanged, err := applyAccountChanges(ctx, tx, u.userRepo, user, accountChanges{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return nil, err
	}
	if userChanged {
		if err := u.userRepo.Update(ctx, tx, user); err != nil {
			if mapped := mapUserConstraintError(err); mapped != nil {
				return nil, mapped
			}
			u.log.Warnf("Failed to update user %s: %+v", id, err)
			return nil, err
		}
	}

	applyDoctorFields(doctor, req.Specialization, req.SpecialtyID, req.Phone, req.Bio, req.Address, req.ImageURL)
	if req.Rating != nil {
		doctor.Rating = *req.Rating
	}
	if req.IsApproved != nil {
		doctor.IsApproved = *req.IsApproved
	}
	if req.IsBlocked != nil {
		doctor.IsBlocked = *req.IsBlocked
	}

	if err := u.doctorProfileRepo.Update(ctx, tx, doctor); err != nil {
		if isForeignKeyError(err, "specialty") {
			return nil, ErrSpecialtyNotFound
		}
		u.log.Warnf("Failed to update doctor profile %s: %+v", id, err)
		return nil, err
	}

	deactivated, err := u.accountStatus.Apply(ctx, tx, id, doctor.Moderation)
	if err != nil {
		return nil, err
	}

	updated, err := u.find(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	after := converter.DoctorProfileToResponse(updated)

	if err := u.activity.LogUpdate(ctx, tx, &adminID, entity.ActionUpdate, entity.EntityDoctor, id.String(), before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.accountStatus.AfterCommit(ctx, id, deactivated)
	return after, nil
}

// Delete removes the doctor's user row; the profile, availability and appointments cascade.
func (u *adminDoctorUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.find(ctx, tx, id)
	if err != nil {
		return err
	}

	held, err := heldAppointments(ctx, tx, u.appointmentRepo, &entity.AppointmentFilter{DoctorID: &id})
	if err != nil {
		u.log.Warnf("Failed to find appointments of doctor %s: %+v", id, err)
		return err
	}

	if err := u.userRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete doctor %s: %+v", id, err)
		return err
	}

	if err := u.activity.LogDelete(ctx, tx, &adminID, entity.ActionDelete, entity.EntityDoctor, id.String(), converter.DoctorProfileToResponse(doctor)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.accountStatus.AfterCommit(ctx, id, true)
	releaseHeldSlots(u.log, u.slots, held)
	return nil
}

func (u *adminDoctorUsecase) Approve(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	return u.moderate(ctx, id, entity.ActionApprove, (*entity.Moderation).Approve,
		"Account approved", "Your doctor account has been approved. You can now sign in.")
}

func (u *adminDoctorUsecase) Block(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	return u.moderate(ctx, id, entity.ActionBlock, (*entity.Moderation).Block,
		"Account blocked", "Your doctor account has been blocked by an administrator.")
}

func (u *adminDoctorUsecase) Unblock(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	return u.moderate(ctx, id, entity.ActionUnblock, (*entity.Moderation).Unblock,
		"Account unblocked", "Your doctor account has been unblocked and awaits approval.")
}

// moderate flips the moderation flags and keeps users.is_active in step, all in one transaction.
func (u *adminDoctorUsecase) moderate(ctx context.Context, id uuid.UUID, action string, mutate func(*entity.Moderation), title, message string) (*dto.DoctorResponse, error) {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.find(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	before := doctor.Moderation

	mutate(&doctor.Moderation)

	if err := u.doctorProfileRepo.Update(ctx, tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor profile %s: %+v", id, err)
		return nil, err
	}

	deactivated, err := u.accountStatus.Apply(ctx, tx, id, doctor.Moderation)
	if err != nil {
		return nil, err
	}
	doctor.User.IsActive = entity.BoolPtr(doctor.AccountActive())

	if err := u.activity.LogUpdate(ctx, tx, &adminID, action, entity.EntityDoctor, id.String(), before, doctor.Moderation); err != nil {
		return nil, err
	}

	delivery, err := u.notifier.Notify(ctx, tx, &doctor.User, title, message)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.accountStatus.AfterCommit(ctx, id, deactivated)
	u.notifier.Dispatch(delivery)

	u.log.Infof("Doctor %s moderated: %s", id, action)
	return converter.DoctorProfileToResponse(doctor), nil
}

