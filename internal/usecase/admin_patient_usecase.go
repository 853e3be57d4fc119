package usecase

import (
	"context"
	"time"

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

type AdminPatientUsecase interface {
	List(ctx context.Context, filter *entity.PatientFilter, page, limit int) ([]dto.PatientResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Approve(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	Block(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	Unblock(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
}

type adminPatientUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	appointmentRepo    repository.AppointmentRepository
	slots              *service.SlotReservationService
	accountStatus      service.AccountStatusService
	activity           service.ActivityService
	notifier           service.NotificationService
}

func NewAdminPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	appointmentRepo repository.AppointmentRepository,
	slots *service.SlotReservationService,
	accountStatus service.AccountStatusService,
	activity service.ActivityService,
	notifier service.NotificationService,
) AdminPatientUsecase {
	return &adminPatientUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		appointmentRepo:    appointmentRepo,
		slots:              slots,
		accountStatus:      accountStatus,
		activity:           activity,
		notifier:           notifier,
	}
}

func (u *adminPatientUsecase) List(ctx context.Context, filter *entity.PatientFilter, page, limit int) ([]dto.PatientResponse, int64, error) {
	_, limit, offset := paginate(page, limit)

	patients, total, err := u.patientProfileRepo.FindAll(ctx, u.db, filter, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, 0, err
	}

	return converter.PatientProfilesToResponses(patients), total, nil
}

func (u *adminPatientUsecase) find(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.PatientProfile, error) {
	patient, err := u.patientProfileRepo.FindByUserID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

func (u *adminPatientUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.find(ctx, u.db, id)
	if err != nil {
		return nil, err
	}
	return converter.PatientProfileToResponse(patient), nil
}

// Create adds a patient account. Admin-created patients are approved unless is_approved is false.
func (u *adminPatientUsecase) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
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

	moderation := entity.Moderation{IsApproved: req.IsApproved == nil || *req.IsApproved}
	user := &entity.User{
		RoleID:    entity.RoleIDPatient,
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

	profile := &entity.PatientProfile{
		UserID:         user.ID,
		Phone:          req.Phone,
		Address:        req.Address,
		DateOfBirth:    dob,
		Gender:         req.Gender,
		BloodType:      req.BloodType,
		Allergies:      req.Allergies,
		MedicalHistory: req.MedicalHistory,
		Moderation:     moderation,
	}
	if err := u.patientProfileRepo.Create(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return nil, err
	}
	profile.User = *user

	after := converter.PatientProfileToResponse(profile)
	if err := u.activity.LogCreate(ctx, tx, &adminID, entity.ActionCreate, entity.EntityPatient, user.ID.String(), after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

func (u *adminPatientUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	if req.DateOfBirth != nil {
		if _, err := parseDate(*req.DateOfBirth); err != nil {
			return nil, err
		}
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.find(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	before := converter.PatientProfileToResponse(patient)

	user := &patient.User
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

	if err := applyPatientFields(patient, patientFields{
		Phone:          req.Phone,
		Address:        req.Address,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		BloodType:      req.BloodType,
		Allergies:      req.Allergies,
		MedicalHistory: req.MedicalHistory,
	}); err != nil {
		return nil, err
	}
	if req.IsApproved != nil {
		patient.IsApproved = *req.IsApproved
	}
	if req.IsBlocked != nil {
		patient.IsBlocked = *req.IsBlocked
	}

	if err := u.patientProfileRepo.Update(ctx, tx, patient); err != nil {
		u.log.Warnf("Failed to update patient profile %s: %+v", id, err)
		return nil, err
	}

	deactivated, err := u.accountStatus.Apply(ctx, tx, id, patient.Moderation)
	if err != nil {
		return nil, err
	}
	user.IsActive = entity.BoolPtr(patient.AccountActive())

	after := converter.PatientProfileToResponse(patient)
	if err := u.activity.LogUpdate(ctx, tx, &adminID, entity.ActionUpdate, entity.EntityPatient, id.String(), before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.accountStatus.AfterCommit(ctx, id, deactivated)
	return after, nil
}

// Delete removes the patient's user row; the profile and appointments cascade.
func (u *adminPatientUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.find(ctx, tx, id)
	if err != nil {
		return err
	}

	held, err := heldAppointments(ctx, tx, u.appointmentRepo, &entity.AppointmentFilter{PatientID: &id})
	if err != nil {
		u.log.Warnf("Failed to find appointments of patient %s: %+v", id, err)
		return err
	}

	if err := u.userRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete patient %s: %+v", id, err)
		return err
	}

	if err := u.activity.LogDelete(ctx, tx, &adminID, entity.ActionDelete, entity.EntityPatient, id.String(), converter.PatientProfileToResponse(patient)); err != nil {
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

func (u *adminPatientUsecase) Approve(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	return u.moderate(ctx, id, entity.ActionApprove, (*entity.Moderation).Approve,
		"Account approved", "Your patient account has been approved. You can now sign in.")
}

func (u *adminPatientUsecase) Block(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	return u.moderate(ctx, id, entity.ActionBlock, (*entity.Moderation).Block,
		"Account blocked", "Your patient account has been blocked by an administrator.")
}

func (u *adminPatientUsecase) Unblock(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	return u.moderate(ctx, id, entity.ActionUnblock, (*entity.Moderation).Unblock,
		"Account unblocked", "Your patient account has been unblocked and awaits approval.")
}

func (u *adminPatientUsecase) moderate(ctx context.Context, id uuid.UUID, action string, mutate func(*entity.Moderation), title, message string) (*dto.PatientResponse, error) {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.find(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	before := patient.Moderation

	mutate(&patient.Moderation)

	if err := u.patientProfileRepo.Update(ctx, tx, patient); err != nil {
		u.log.Warnf("Failed to update patient profile %s: %+v", id, err)
		return nil, err
	}

	deactivated, err := u.accountStatus.Apply(ctx, tx, id, patient.Moderation)
	if err != nil {
		return nil, err
	}
	patient.User.IsActive = entity.BoolPtr(patient.AccountActive())

	if err := u.activity.LogUpdate(ctx, tx, &adminID, action, entity.EntityPatient, id.String(), before, patient.Moderation); err != nil {
		return nil, err
	}

	delivery, err := u.notifier.Notify(ctx, tx, &patient.User, title, message)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.accountStatus.AfterCommit(ctx, id, deactivated)
	u.notifier.Dispatch(delivery)

	u.log.Infof("Patient %s moderated: %s", id, action)
	return converter.PatientProfileToResponse(patient), nil
}

// heldAppointments lists the appointments that still occupy a Redis slot and are not yet past.
func heldAppointments(ctx context.Context, db *gorm.DB, appointmentRepo repository.AppointmentRepository, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	appointments, _, err := appointmentRepo.FindAll(ctx, db, filter, 0, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	held := make([]entity.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.HoldsSlot() && a.ScheduledAt.After(now) {
			held = append(held, a)
		}
	}
	return held, nil
}

// releaseHeldSlots frees the slots of appointments removed by a cascading delete.
func releaseHeldSlots(log *logrus.Logger, slots *service.SlotReservationService, appointments []entity.Appointment) {
	if slots == nil || len(appointments) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
	defer cancel()

	for _, a := range appointments {
		if err := slots.Release(ctx, a.DoctorID, a.ScheduledAt, a.ID); err != nil {
			log.Errorf("CRITICAL: Failed to release slot of deleted appointment %s: %+v", a.ID, err)
		}
	}
}
