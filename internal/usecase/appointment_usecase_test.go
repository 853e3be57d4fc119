package usecase

import (
	"context"
	"testing"
	"time"

	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/delivery/http/middleware"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asUser(id uuid.UUID, roleID int) context.Context {
	return middleware.WithUser(context.Background(), jwt.Subject{UserID: id, RoleID: roleID, Role: entity.RoleNameByID(roleID)}, "token-"+id.String())
}

func TestAppointmentUsecase_UpdateByDoctorRequiresOwnership(t *testing.T) {
	ownerID, otherDoctorID, patientID := uuid.New(), uuid.New(), uuid.New()
	appointment := &entity.Appointment{
		ID:          uuid.New(),
		DoctorID:    ownerID,
		PatientID:   patientID,
		ScheduledAt: time.Date(2099, 1, 5, 9, 0, 0, 0, time.UTC),
		Status:      entity.AppointmentStatusPending,
	}

	doctorRepo := &mockDoctorProfileRepository{
		FindByUserIDFunc: func(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
			if userID == patientID {
				return nil, nil
			}
			return &entity.DoctorProfile{UserID: userID}, nil
		},
	}
	appointmentRepo := &mockAppointmentRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
			clone := *appointment
			return &clone, nil
		},
	}
	db, pool := newTestDB(t)
	uc := NewAppointmentUsecase(db, quietLogger(), doctorRepo, nil, nil, appointmentRepo, nil, &mockActivityService{}, &mockNotifier{}, 1, time.UTC)

	approved := "approved"
	req := &dto.UpdateAppointmentStatusRequest{Status: &approved, Notes: strPtr("bring your x-rays")}

	t.Run("another doctor", func(t *testing.T) {
		_, err := uc.UpdateByDoctor(asUser(otherDoctorID, entity.RoleIDDoctor), appointment.ID, req)
		assert.ErrorIs(t, err, ErrAppointmentNotOwned)
	})

	t.Run("the appointment's patient", func(t *testing.T) {
		_, err := uc.UpdateByDoctor(asUser(patientID, entity.RoleIDPatient), appointment.ID, req)
		assert.ErrorIs(t, err, ErrNoDoctorProfile)
	})

	assert.Zero(t, appointmentRepo.UpdateCalls)
	begun, _, _ := pool.counts()
	assert.Zero(t, begun)
	assert.Equal(t, entity.AppointmentStatusPending, appointment.Status)
}

func TestAppointmentUsecase_RescheduleToSameTime(t *testing.T) {
	patientID := uuid.New()
	scheduled := time.Date(2099, 1, 5, 9, 0, 0, 0, time.UTC)
	appointment := &entity.Appointment{
		ID:          uuid.New(),
		DoctorID:    uuid.New(),
		PatientID:   patientID,
		ScheduledAt: scheduled,
		Status:      entity.AppointmentStatusApproved,
	}

	appointmentRepo := &mockAppointmentRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
			clone := *appointment
			return &clone, nil
		},
	}
	db, pool := newTestDB(t)
	uc := NewAppointmentUsecase(db, quietLogger(), &mockDoctorProfileRepository{}, nil, nil, appointmentRepo, nil, &mockActivityService{}, &mockNotifier{}, 1, time.UTC)
	ctx := asUser(patientID, entity.RoleIDPatient)

	for _, at := range []time.Time{scheduled, scheduled.In(time.FixedZone("WIB", 7*60*60))} {
		resp, err := uc.Reschedule(ctx, appointment.ID, &dto.RescheduleAppointmentRequest{ScheduledAt: at})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrRescheduleSameTime, at.String())
	}

	assert.Zero(t, appointmentRepo.UpdateCalls)
	begun, _, _ := pool.counts()
	assert.Zero(t, begun)
	assert.Equal(t, entity.AppointmentStatusApproved, appointment.Status)

	t.Run("someone else's appointment", func(t *testing.T) {
		_, err := uc.Reschedule(asUser(uuid.New(), entity.RoleIDPatient), appointment.ID, &dto.RescheduleAppointmentRequest{ScheduledAt: scheduled})
		assert.ErrorIs(t, err, ErrAppointmentNotOwned)
	})
}

func TestAppointmentUsecase_CheckScheduleUsesClinicZone(t *testing.T) {
	doctorID := uuid.New()
	clinic := time.FixedZone("WIB", 7*60*60)

	doctorRepo := &mockDoctorProfileRepository{
		FindByUserIDFunc: func(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
			return &entity.DoctorProfile{UserID: userID, User: entity.User{ID: userID, IsActive: entity.BoolPtr(true)}}, nil
		},
	}
	var askedDay string
	availabilityRepo := &mockDoctorAvailabilityRepository{
		FindByDoctorAndDayFunc: func(ctx context.Context, id uuid.UUID, day string) (*entity.DoctorAvailability, error) {
			askedDay = day
			if day != "Monday" {
				return nil, nil
			}
			return &entity.DoctorAvailability{DoctorID: doctorID, Day: "Monday", StartTime: "08:00:00", EndTime: "10:00:00"}, nil
		},
	}
	uc := &appointmentUsecase{
		log:               quietLogger(),
		doctorProfileRepo: doctorRepo,
		availabilityRepo:  availabilityRepo,
		minLeadDays:       1,
		location:          clinic,
	}

	tests := []struct {
		name    string
		at      string
		wantDay string
		wantErr error
	}{
		// Monday 08:00 at the clinic, written as Sunday evening in -06:00.
		{"inside window from another offset", "2099-01-04T19:00:00-06:00", "Monday", nil},
		{"inside window in UTC", "2099-01-05T01:30:00Z", "Monday", nil},
		// Monday 09:00 UTC is 16:00 at the clinic.
		{"clinic afternoon", "2099-01-05T09:00:00Z", "Monday", ErrOutsideAvailability},
		// Monday 20:00 in -06:00 is Tuesday 09:00 at the clinic.
		{"next clinic day", "2099-01-05T20:00:00-06:00", "Tuesday", ErrOutsideAvailability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at, err := time.Parse(time.RFC3339, tt.at)
			require.NoError(t, err)

			_, err = uc.checkSchedule(context.Background(), doctorID, at)
			assert.Equal(t, tt.wantDay, askedDay)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDoctorUsecase_DashboardTodayFollowsClinicCalendar(t *testing.T) {
	doctorID := uuid.New()
	clinic := time.FixedZone("NZDT", 13*60*60)

	var from, to time.Time
	appointmentRepo := &mockAppointmentRepository{
		CountBetweenFunc: func(ctx context.Context, id uuid.UUID, f, tt time.Time) (int64, error) {
			from, to = f, tt
			return 2, nil
		},
	}
	doctorRepo := &mockDoctorProfileRepository{
		FindByUserIDFunc: func(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
			return &entity.DoctorProfile{UserID: userID}, nil
		},
	}
	uc := NewDoctorUsecase(nil, quietLogger(), nil, doctorRepo, nil, nil, appointmentRepo, &mockActivityService{}, clinic)

	stats, err := uc.DashboardStats(asUser(doctorID, entity.RoleIDDoctor))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TodayAppointments)

	local := from.In(clinic)
	assert.Zero(t, local.Hour())
	assert.Zero(t, local.Minute())
	assert.Equal(t, 24*time.Hour, to.Sub(from))
}
