package usecase

import (
	"context"
	"errors"
	"time"

	"medical-clinic-api/internal/converter"
	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/delivery/http/middleware"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"
	"medical-clinic-api/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrNoDoctorProfile = errors.New("no doctor profile linked to this user")
	ErrDoctorNotFound  = errors.New("doctor not found")
)

// DoctorUsecase serves the signed-in doctor's own data.
type DoctorUsecase interface {
	GetProfile(ctx context.Context) (*dto.DoctorResponse, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error)
	DashboardStats(ctx context.Context) (*dto.DoctorDashboardResponse, error)
	ListPatients(ctx context.Context) ([]dto.PatientResponse, error)
}

type doctorUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	availabilityRepo   repository.DoctorAvailabilityRepository
	appointmentRepo    repository.AppointmentRepository
	activity           service.ActivityService
	location           *time.Location
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	availabilityRepo repository.DoctorAvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
	activity service.ActivityService,
	location *time.Location,
) DoctorUsecase {
	return &doctorUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		availabilityRepo:   availabilityRepo,
		appointmentRepo:    appointmentRepo,
		activity:           activity,
		location:           location,
	}
}

// currentDoctor resolves the doctor profile of the authenticated user.
func currentDoctor(ctx context.Context, db *gorm.DB, log *logrus.Logger, doctorProfileRepo repository.DoctorProfileRepository) (*entity.DoctorProfile, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	profile, err := doctorProfileRepo.FindByUserID(ctx, db, userID)
	if err != nil {
		log.Warnf("Failed to find doctor profile for user %s: %+v", userID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoDoctorProfile
	}
	return profile, nil
}

func (u *doctorUsecase) GetProfile(ctx context.Context) (*dto.DoctorResponse, error) {
	profile, err := currentDoctor(ctx, u.db, u.log, u.doctorProfileRepo)
	if err != nil {
		return nil, err
	}

	profile.Availabilities, err = u.availabilityRepo.FindByDoctorID(ctx, u.db, profile.UserID)
	if err != nil {
		u.log.Warnf("Failed to find availability for doctor %s: %+v", profile.UserID, err)
		return nil, err
	}

	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorUsecase) UpdateProfile(ctx context.Context, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := currentDoctor(ctx, tx, u.log, u.doctorProfileRepo)
	if err != nil {
		return nil, err
	}
	before := converter.DoctorProfileToResponse(profile)

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

	applyDoctorFields(profile, req.Specialization, req.SpecialtyID, req.Phone, req.Bio, req.Address, req.ImageURL)

	if err := u.doctorProfileRepo.Update(ctx, tx, profile); err != nil {
		if isForeignKeyError(err, "specialty") {
			return nil, ErrSpecialtyNotFound
		}
		u.log.Warnf("Failed to update doctor profile %s: %+v", profile.UserID, err)
		return nil, err
	}

	updated, err := u.doctorProfileRepo.FindByUserID(ctx, tx, profile.UserID)
	if err != nil {
		return nil, err
	}
	after := converter.DoctorProfileToResponse(updated)

	if err := u.activity.LogUpdate(ctx, tx, &profile.UserID, entity.ActionUpdate, entity.EntityDoctor, profile.UserID.String(), before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

// DashboardStats runs the three counters concurrently.
func (u *doctorUsecase) DashboardStats(ctx context.Context) (*dto.DoctorDashboardResponse, error) {
	profile, err := currentDoctor(ctx, u.db, u.log, u.doctorProfileRepo)
	if err != nil {
		return nil, err
	}

	now := entity.InZone(time.Now(), u.location)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var stats dto.DoctorDashboardResponse
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		stats.UpcomingAppointments, err = u.appointmentRepo.CountUpcoming(gctx, u.db, profile.UserID, now)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalPatients, err = u.appointmentRepo.CountDistinctPatients(gctx, u.db, profile.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TodayAppointments, err = u.appointmentRepo.CountBetween(gctx, u.db, profile.UserID, startOfDay, startOfDay.AddDate(0, 0, 1))
		return err
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to compute dashboard stats for doctor %s: %+v", profile.UserID, err)
		return nil, err
	}

	return &stats, nil
}

func (u *doctorUsecase) ListPatients(ctx context.Context) ([]dto.PatientResponse, error) {
	profile, err := currentDoctor(ctx, u.db, u.log, u.doctorProfileRepo)
	if err != nil {
		return nil, err
	}

	patients, err := u.patientProfileRepo.FindByDoctor(ctx, u.db, profile.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patients of doctor %s: %+v", profile.UserID, err)
		return nil, err
	}

	return converter.PatientProfilesToResponses(patients), nil
}

// applyDoctorFields copies the optional profile fields shared by self and admin updates.
func applyDoctorFields(profile *entity.DoctorProfile, specialization *string, specialtyID *int, phone, bio, address, imageURL *string) {
	if specialization != nil {
		profile.Specialization = *specialization
	}
	if specialtyID != nil {
		profile.SpecialtyID = specialtyID
		profile.Specialty = nil
	}
	if phone != nil {
		profile.Phone = *phone
	}
	if bio != nil {
		profile.Bio = *bio
	}
	if address != nil {
		profile.Address = *address
	}
	if imageURL != nil {
		profile.ImageURL = *imageURL
	}
}
