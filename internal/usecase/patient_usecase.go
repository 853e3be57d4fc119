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

var ErrNotPatient = errors.New("Only patients can access this endpoint.")

// PatientUsecase serves the signed-in patient's profile and the doctor directory.
type PatientUsecase interface {
	GetProfile(ctx context.Context) (*dto.PatientResponse, error)
	UpdateProfile(ctx context.Context, req *dto.UpdatePatientProfileRequest) (*dto.PatientResponse, error)
	FindDoctors(ctx context.Context, filter *entity.DoctorFilter, page, limit int) ([]dto.DoctorResponse, int64, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
}

type patientUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	availabilityRepo   repository.DoctorAvailabilityRepository
	activity           service.ActivityService
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	availabilityRepo repository.DoctorAvailabilityRepository,
	activity service.ActivityService,
) PatientUsecase {
	return &patientUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		doctorProfileRepo:  doctorProfileRepo,
		availabilityRepo:   availabilityRepo,
		activity:           activity,
	}
}

func (u *patientUsecase) currentPatient(ctx context.Context, db *gorm.DB) (*entity.PatientProfile, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if roleID, _ := middleware.GetRoleIDFromContext(ctx); roleID != entity.RoleIDPatient {
		return nil, ErrNotPatient
	}

	profile, err := u.patientProfileRepo.FindByUserID(ctx, db, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile for user %s: %+v", userID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}
	return profile, nil
}

func (u *patientUsecase) GetProfile(ctx context.Context) (*dto.PatientResponse, error) {
	profile, err := u.currentPatient(ctx, u.db)
	if err != nil {
		return nil, err
	}
	return converter.PatientProfileToResponse(profile), nil
}

func (u *patientUsecase) UpdateProfile(ctx context.Context, req *dto.UpdatePatientProfileRequest) (*dto.PatientResponse, error) {
	if roleID, _ := middleware.GetRoleIDFromContext(ctx); roleID != entity.RoleIDPatient {
		return nil, ErrNotPatient
	}

	if req.DateOfBirth != nil {
		if _, err := parseDate(*req.DateOfBirth); err != nil {
			return nil, err
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.currentPatient(ctx, tx)
	if err != nil {
		return nil, err
	}
	before := converter.PatientProfileToResponse(profile)

	user := &profile.User
	userChanged, err := applyAccountChanges(ctx, tx, u.userRepo, user, accountChanges{
		Email:             req.Email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Password:          req.Password,
		OldPassword:       req.OldPassword,
		VerifyOldPassword: true,
	})
	if err != nil {
		return nil, err
	}
	if userChanged {
		if err := u.userRepo.Update(ctx, tx, user); err != nil {
			if mapped := mapUserConstraintError(err); mapped != nil {
				return nil, mapped
			}
			u.log.Warnf("Failed to update user %s: %+v", user.ID, err)
			return nil, err
		}
	}

	if err := applyPatientFields(profile, patientFields{
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

	if err := u.patientProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update patient profile %s: %+v", profile.UserID, err)
		return nil, err
	}

	after := converter.PatientProfileToResponse(profile)
	if err := u.activity.LogUpdate(ctx, tx, &profile.UserID, entity.ActionUpdate, entity.EntityPatient, profile.UserID.String(), before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

// FindDoctors lists bookable doctors only.
func (u *patientUsecase) FindDoctors(ctx context.Context, filter *entity.DoctorFilter, page, limit int) ([]dto.DoctorResponse, int64, error) {
	if filter == nil {
		filter = &entity.DoctorFilter{}
	}
	filter.ActiveOnly = true
	filter.IsApproved = nil
	filter.IsBlocked = nil

	_, limit, offset := paginate(page, limit)

	doctors, total, err := u.doctorProfileRepo.FindAll(ctx, u.db, filter, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, 0, err
	}

	return converter.DoctorProfilesToResponses(doctors), total, nil
}

func (u *patientUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil || !doctor.User.Active() {
		return nil, ErrDoctorNotFound
	}

	doctor.Availabilities, err = u.availabilityRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find availability for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return converter.DoctorProfileToResponse(doctor), nil
}

// patientFields is the profile part of a partial patient update.
type patientFields struct {
	Phone          *string
	Address        *string
	DateOfBirth    *string
	Gender         *string
	BloodType      *string
	Allergies      *string
	MedicalHistory *string
}

func applyPatientFields(profile *entity.PatientProfile, f patientFields) error {
	if f.Phone != nil {
		profile.Phone = *f.Phone
	}
	if f.Address != nil {
		profile.Address = *f.Address
	}
	if f.DateOfBirth != nil {
		dob, err := parseDate(*f.DateOfBirth)
		if err != nil {
			return err
		}
		profile.DateOfBirth = dob
	}
	if f.Gender != nil {
		profile.Gender = *f.Gender
	}
	if f.BloodType != nil {
		profile.BloodType = *f.BloodType
	}
	if f.Allergies != nil {
		profile.Allergies = *f.Allergies
	}
	if f.MedicalHistory != nil {
		profile.MedicalHistory = *f.MedicalHistory
	}
	return nil
}
