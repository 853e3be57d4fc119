package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medical-clinic-api/internal/converter"
	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/delivery/http/middleware"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"
	"medical-clinic-api/internal/infrastructure/pdf"
	"medical-clinic-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentNotOwned     = errors.New("appointment does not belong to you")
	ErrInvalidStatus           = errors.New("status must be one of: pending approved rejected")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrAppointmentRejected     = errors.New("appointment has been rejected")
	ErrBookingTooSoon          = errors.New("appointment is too soon, book further in advance")
	ErrOutsideAvailability     = errors.New("doctor is not available at the requested time")
	ErrDoctorInactive          = errors.New("doctor is not accepting appointments")
	ErrRescheduleSameTime      = errors.New("new time must differ from the current appointment time")
	ErrPatientRequired         = errors.New("patient_id is required")
	ErrPatientNotFound         = errors.New("patient not found")
	ErrSlipNotAvailable        = errors.New("slip is only available for approved appointments")
)

// compensationTimeout bounds Redis clean-up after a failed database write.
const compensationTimeout = 5 * time.Second

type AppointmentUsecase interface {
	Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListForDoctor(ctx context.Context, status string, page, limit int) ([]dto.AppointmentResponse, int64, error)
	ListForPatient(ctx context.Context, status string, page, limit int) ([]dto.AppointmentResponse, int64, error)
	ListAll(ctx context.Context, status string, doctorID, patientID *uuid.UUID, page, limit int) ([]dto.AppointmentResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	UpdateByDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, req *dto.AdminUpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	Slip(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type appointmentUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	availabilityRepo   repository.DoctorAvailabilityRepository
	appointmentRepo    repository.AppointmentRepository
	slots              *service.SlotReservationService
	activity           service.ActivityService
	notifier           service.NotificationService
	minLeadDays        int
	location           *time.Location
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	availabilityRepo repository.DoctorAvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
	slots *service.SlotReservationService,
	activity service.ActivityService,
	notifier service.NotificationService,
	minLeadDays int,
	location *time.Location,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                 db,
		log:                log,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		availabilityRepo:   availabilityRepo,
		appointmentRepo:    appointmentRepo,
		slots:              slots,
		activity:           activity,
		notifier:           notifier,
		minLeadDays:        minLeadDays,
		location:           location,
	}
}

// bookingTooSoon reports whether at falls before the first bookable calendar
// day, minLeadDays after today on the clinic's calendar. Past times are always too soon.
func bookingTooSoon(now, at time.Time, minLeadDays int, loc *time.Location) bool {
	if !at.After(now) {
		return true
	}
	local := entity.InZone(now, loc)
	earliest := time.Date(local.Year(), local.Month(), local.Day()+minLeadDays, 0, 0, 0, 0, local.Location())
	return at.Before(earliest)
}

// applyDecision applies an optional status and notes change and reports whether the status moved.
func applyDecision(appointment *entity.Appointment, next *entity.AppointmentStatus, notes *string) (bool, error) {
	changed := false
	if next != nil {
		if !appointment.CanTransitionTo(*next) {
			return false, ErrInvalidStatusTransition
		}
		changed = appointment.Status != *next
		appointment.Status = *next
	}
	if notes != nil {
		appointment.Notes = *notes
	}
	return changed, nil
}

func parseStatus(value *string) (*entity.AppointmentStatus, error) {
	if value == nil {
		return nil, nil
	}
	status, ok := entity.ParseAppointmentStatus(*value)
	if !ok {
		return nil, ErrInvalidStatus
	}
	return &status, nil
}

func (u *appointmentUsecase) when(t time.Time) string {
	return entity.InZone(t, u.location).Format("Mon, 02 Jan 2006 15:04 MST")
}

// checkSchedule verifies the doctor can take an appointment at the given time.
func (u *appointmentUsecase) checkSchedule(ctx context.Context, doctorID uuid.UUID, at time.Time) (*entity.DoctorProfile, error) {
	if bookingTooSoon(time.Now(), at, u.minLeadDays, u.location) {
		return nil, ErrBookingTooSoon
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.User.Active() {
		return nil, ErrDoctorInactive
	}

	window, err := u.availabilityRepo.FindByDoctorAndDay(ctx, u.db, doctorID, entity.InZone(at, u.location).Weekday().String())
	if err != nil {
		u.log.Warnf("Failed to find availability of doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if window == nil || !window.Covers(at, u.location) {
		return nil, ErrOutsideAvailability
	}

	return doctor, nil
}

// Book creates a pending appointment.
//
// Flow:
// 1. Validate lead time, doctor and availability window
// 2. Reserve the (doctor, time) slot in Redis
// 3. Double-check the slot and insert the appointment in one transaction
// 4. If the transaction fails -> compensate: release the Redis slot
func (u *appointmentUsecase) Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	patientID := userID
	if middleware.IsAdmin(ctx) {
		if req.PatientID == nil {
			return nil, ErrPatientRequired
		}
		patientID = *req.PatientID
	}

	at := req.ScheduledAt
	doctor, err := u.checkSchedule(ctx, req.DoctorID, at)
	if err != nil {
		return nil, err
	}

	patient, err := u.patientProfileRepo.FindByUserID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointment := &entity.Appointment{
		ID:          uuid.New(),
		DoctorID:    doctor.UserID,
		PatientID:   patient.UserID,
		ScheduledAt: at,
		Status:      entity.AppointmentStatusPending,
		Notes:       req.Notes,
	}

	if err := u.slots.Reserve(ctx, appointment.DoctorID, at, appointment.ID); err != nil {
		return nil, err
	}

	delivery, err := u.insert(ctx, appointment, doctor, patient, userID)
	if err != nil {
		u.log.Errorf("Failed to insert appointment, compensating Redis: %+v", err)
		u.releaseSlot(appointment.DoctorID, at, appointment.ID)
		if isDuplicateKeyError(err, "uq_appointments_doctor_slot") {
			return nil, service.ErrSlotTaken
		}
		return nil, err
	}

	u.notifier.Dispatch(delivery)

	appointment.Doctor = *doctor
	appointment.Patient = *patient

	u.log.Infof("Appointment booked: id=%s, doctor=%s, at=%s", appointment.ID, appointment.DoctorID, at.Format(time.RFC3339))
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) insert(ctx context.Context, appointment *entity.Appointment, doctor *entity.DoctorProfile, patient *entity.PatientProfile, actorID uuid.UUID) (*service.Delivery, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	taken, err := u.appointmentRepo.SlotTaken(ctx, tx, appointment.DoctorID, appointment.ScheduledAt, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, service.ErrSlotTaken
	}

	if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		return nil, err
	}

	if err := u.activity.LogCreate(ctx, tx, &actorID, entity.ActionAppointmentBook, entity.EntityAppointment, appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		return nil, err
	}

	delivery, err := u.notifier.Notify(ctx, tx, &doctor.User, "New appointment request",
		fmt.Sprintf("%s requested an appointment on %s.", patient.User.FullName(), u.when(appointment.ScheduledAt)))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return delivery, nil
}

func (u *appointmentUsecase) ListForDoctor(ctx context.Context, status string, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	doctor, err := currentDoctor(ctx, u.db, u.log, u.doctorProfileRepo)
	if err != nil {
		return nil, 0, err
	}
	return u.list(ctx, status, &doctor.UserID, nil, page, limit)
}

func (u *appointmentUsecase) ListForPatient(ctx context.Context, status string, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, 0, ErrUnauthenticated
	}
	return u.list(ctx, status, nil, &userID, page, limit)
}

func (u *appointmentUsecase) ListAll(ctx context.Context, status string, doctorID, patientID *uuid.UUID, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	return u.list(ctx, status, doctorID, patientID, page, limit)
}

func (u *appointmentUsecase) list(ctx context.Context, status string, doctorID, patientID *uuid.UUID, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	filter := &entity.AppointmentFilter{DoctorID: doctorID, PatientID: patientID}
	if status != "" {
		parsed, ok := entity.ParseAppointmentStatus(status)
		if !ok {
			return nil, 0, ErrInvalidStatus
		}
		filter.Status = parsed
	}

	_, limit, offset := paginate(page, limit)

	appointments, total, err := u.appointmentRepo.FindAll(ctx, u.db, filter, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, 0, err
	}

	return converter.AppointmentsToResponses(appointments), total, nil
}

// load fetches an appointment the caller may see: its doctor, its patient or an admin.
func (u *appointmentUsecase) load(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if !middleware.IsAdmin(ctx) && appointment.DoctorID != userID && appointment.PatientID != userID {
		return nil, ErrAppointmentNotOwned
	}
	return appointment, nil
}

func (u *appointmentUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

// UpdateByDoctor lets the owning doctor decide on the appointment and edit its notes.
func (u *appointmentUsecase) UpdateByDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	next, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	doctor, err := currentDoctor(ctx, u.db, u.log, u.doctorProfileRepo)
	if err != nil {
		return nil, err
	}

	appointment, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctor.UserID {
		return nil, ErrAppointmentNotOwned
	}

	return u.decide(ctx, appointment, next, req.Notes, doctor.UserID)
}

func (u *appointmentUsecase) decide(ctx context.Context, appointment *entity.Appointment, next *entity.AppointmentStatus, notes *string, actorID uuid.UUID) (*dto.AppointmentResponse, error) {
	before := converter.AppointmentToResponse(appointment)
	heldSlot := appointment.HoldsSlot()

	changed, err := applyDecision(appointment, next, notes)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Update(ctx, tx, appointment); err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", appointment.ID, err)
		return nil, err
	}

	after := converter.AppointmentToResponse(appointment)
	if err := u.activity.LogUpdate(ctx, tx, &actorID, entity.ActionAppointmentDecide, entity.EntityAppointment, appointment.ID.String(), before, after); err != nil {
		return nil, err
	}

	var delivery *service.Delivery
	if changed {
		delivery, err = u.notifier.Notify(ctx, tx, &appointment.Patient.User,
			fmt.Sprintf("Appointment %s", appointment.Status),
			fmt.Sprintf("Your appointment with %s on %s is now %s.", appointment.Doctor.User.FullName(), u.when(appointment.ScheduledAt), appointment.Status))
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if heldSlot && !appointment.HoldsSlot() {
		u.releaseSlot(appointment.DoctorID, appointment.ScheduledAt, appointment.ID)
	}
	u.notifier.Dispatch(delivery)

	return after, nil
}

// Reschedule moves the caller's appointment to a new time and sends it back to pending.
func (u *appointmentUsecase) Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	if bookingTooSoon(time.Now(), req.ScheduledAt, u.minLeadDays, u.location) {
		return nil, ErrBookingTooSoon
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	appointment, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != userID {
		return nil, ErrAppointmentNotOwned
	}
	if appointment.IsRejected() {
		return nil, ErrAppointmentRejected
	}
	if req.ScheduledAt.Equal(appointment.ScheduledAt) {
		return nil, ErrRescheduleSameTime
	}

	return u.move(ctx, appointment, req.ScheduledAt, nil, req.Notes, userID)
}

// AdminUpdate edits status, time and notes. A time change goes through the reschedule path.
func (u *appointmentUsecase) AdminUpdate(ctx context.Context, id uuid.UUID, req *dto.AdminUpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	next, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	appointment, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ScheduledAt != nil && !req.ScheduledAt.Equal(appointment.ScheduledAt) {
		if appointment.IsRejected() {
			return nil, ErrAppointmentRejected
		}
		return u.move(ctx, appointment, *req.ScheduledAt, next, req.Notes, userID)
	}

	return u.decide(ctx, appointment, next, req.Notes, userID)
}

func (u *appointmentUsecase) move(ctx context.Context, appointment *entity.Appointment, at time.Time, next *entity.AppointmentStatus, notes *string, actorID uuid.UUID) (*dto.AppointmentResponse, error) {
	if _, err := u.checkSchedule(ctx, appointment.DoctorID, at); err != nil {
		return nil, err
	}

	before := converter.AppointmentToResponse(appointment)
	from := appointment.ScheduledAt

	appointment.Reschedule(at)
	if _, err := applyDecision(appointment, next, notes); err != nil {
		return nil, err
	}

	if err := u.slots.Move(ctx, appointment.DoctorID, from, at, appointment.ID); err != nil {
		return nil, err
	}

	deliveries, err := u.saveMove(ctx, appointment, before, actorID)
	if err != nil {
		u.log.Errorf("Failed to reschedule appointment %s, compensating Redis: %+v", appointment.ID, err)
		u.restoreSlot(appointment.DoctorID, at, from, appointment.ID)
		if isDuplicateKeyError(err, "uq_appointments_doctor_slot") {
			return nil, service.ErrSlotTaken
		}
		return nil, err
	}

	if !appointment.HoldsSlot() {
		u.releaseSlot(appointment.DoctorID, at, appointment.ID)
	}
	u.notifier.Dispatch(deliveries...)

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) saveMove(ctx context.Context, appointment *entity.Appointment, before *dto.AppointmentResponse, actorID uuid.UUID) ([]*service.Delivery, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	taken, err := u.appointmentRepo.SlotTaken(ctx, tx, appointment.DoctorID, appointment.ScheduledAt, &appointment.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, service.ErrSlotTaken
	}

	if err := u.appointmentRepo.Update(ctx, tx, appointment); err != nil {
		return nil, err
	}

	after := converter.AppointmentToResponse(appointment)
	if err := u.activity.LogUpdate(ctx, tx, &actorID, entity.ActionAppointmentMove, entity.EntityAppointment, appointment.ID.String(), before, after); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Appointment between %s and %s moved to %s.",
		appointment.Patient.User.FullName(), appointment.Doctor.User.FullName(), u.when(appointment.ScheduledAt))

	var deliveries []*service.Delivery
	recipients := []*entity.User{&appointment.Doctor.User}
	if actorID != appointment.PatientID {
		recipients = append(recipients, &appointment.Patient.User)
	}
	for _, recipient := range recipients {
		delivery, err := u.notifier.Notify(ctx, tx, recipient, "Appointment rescheduled", message)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, delivery)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return deliveries, nil
}

// Cancel deletes the appointment. Patients may not cancel rejected appointments.
func (u *appointmentUsecase) Cancel(ctx context.Context, id uuid.UUID) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	appointment, err := u.load(ctx, id)
	if err != nil {
		return err
	}

	byPatient := !middleware.IsAdmin(ctx) && appointment.PatientID == userID
	if byPatient && appointment.IsRejected() {
		return ErrAppointmentRejected
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.appointmentRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return err
	}

	if err := u.activity.LogDelete(ctx, tx, &userID, entity.ActionAppointmentCancel, entity.EntityAppointment, id.String(), converter.AppointmentToResponse(appointment)); err != nil {
		return err
	}

	recipient := &appointment.Patient.User
	if byPatient {
		recipient = &appointment.Doctor.User
	}
	delivery, err := u.notifier.Notify(ctx, tx, recipient, "Appointment cancelled",
		fmt.Sprintf("The appointment on %s has been cancelled.", u.when(appointment.ScheduledAt)))
	if err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if appointment.HoldsSlot() {
		u.releaseSlot(appointment.DoctorID, appointment.ScheduledAt, appointment.ID)
	}
	u.notifier.Dispatch(delivery)

	u.log.Infof("Appointment cancelled: id=%s", id)
	return nil
}

// Slip renders a printable PDF for an approved appointment.
func (u *appointmentUsecase) Slip(ctx context.Context, id uuid.UUID) ([]byte, error) {
	appointment, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appointment.IsApproved() {
		return nil, ErrSlipNotAvailable
	}

	return pdf.RenderAppointmentSlip(pdf.AppointmentSlip{
		AppointmentID:  appointment.ID.String(),
		PatientName:    appointment.Patient.User.FullName(),
		DoctorName:     appointment.Doctor.User.FullName(),
		Specialization: appointment.Doctor.Specialization,
		ScheduledAt:    entity.InZone(appointment.ScheduledAt, u.location),
		Status:         string(appointment.Status),
		Notes:          appointment.Notes,
		IssuedAt:       entity.InZone(time.Now(), u.location),
	})
}

func (u *appointmentUsecase) releaseSlot(doctorID uuid.UUID, at time.Time, appointmentID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
	defer cancel()
	if err := u.slots.Release(ctx, doctorID, at, appointmentID); err != nil {
		u.log.Errorf("CRITICAL: Failed to release slot of appointment %s: %+v", appointmentID, err)
	}
}

func (u *appointmentUsecase) restoreSlot(doctorID uuid.UUID, from, to time.Time, appointmentID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
	defer cancel()
	if err := u.slots.Move(ctx, doctorID, from, to, appointmentID); err != nil {
		u.log.Errorf("CRITICAL: Failed to restore slot of appointment %s: %+v", appointmentID, err)
	}
}
