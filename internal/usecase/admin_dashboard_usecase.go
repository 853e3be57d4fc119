package usecase

import (
	"context"

	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type AdminDashboardUsecase interface {
	Stats(ctx context.Context) (*dto.AdminDashboardResponse, error)
}

type adminDashboardUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	appointmentRepo    repository.AppointmentRepository
}

func NewAdminDashboardUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	appointmentRepo repository.AppointmentRepository,
) AdminDashboardUsecase {
	return &adminDashboardUsecase{
		db:                 db,
		log:                log,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		appointmentRepo:    appointmentRepo,
	}
}

func (u *adminDashboardUsecase) Stats(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	pending := false

	var stats dto.AdminDashboardResponse
	var byStatus map[entity.AppointmentStatus]int64
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		stats.TotalDoctors, err = u.doctorProfileRepo.Count(gctx, u.db, nil)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalPatients, err = u.patientProfileRepo.Count(gctx, u.db, nil)
		return err
	})
	g.Go(func() error {
		var err error
		stats.PendingDoctorApprovals, err = u.doctorProfileRepo.Count(gctx, u.db, &entity.DoctorFilter{IsApproved: &pending, IsBlocked: &pending})
		return err
	})
	g.Go(func() error {
		var err error
		stats.PendingPatientApprovals, err = u.patientProfileRepo.Count(gctx, u.db, &entity.PatientFilter{IsApproved: &pending, IsBlocked: &pending})
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = u.appointmentRepo.CountByStatus(gctx, u.db)
		return err
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to compute admin dashboard stats: %+v", err)
		return nil, err
	}

	stats.Appointments = appointmentStatusCounts(byStatus)
	return &stats, nil
}

// appointmentStatusCounts reports every status, zero included.
func appointmentStatusCounts(byStatus map[entity.AppointmentStatus]int64) map[string]int64 {
	counts := map[string]int64{
		string(entity.AppointmentStatusPending):  0,
		string(entity.AppointmentStatusApproved): 0,
		string(entity.AppointmentStatusRejected): 0,
	}
	var total int64
	for status, n := range byStatus {
		counts[string(status)] = n
		total += n
	}
	counts["total"] = total
	return counts
}
