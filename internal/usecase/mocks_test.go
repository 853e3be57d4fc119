package usecase

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"
	"medical-clinic-api/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errNoSQL = errors.New("statement reached the test connection pool")

// txPool records transaction boundaries. Repositories are mocked, so no
// statement is ever sent through it.
type txPool struct {
	mu         sync.Mutex
	begun      int
	committed  int
	rolledBack int
}

func (p *txPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, errNoSQL
}

func (p *txPool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, errNoSQL
}

func (p *txPool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errNoSQL
}

func (p *txPool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (p *txPool) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.begun++
	return &txConn{txPool: p}, nil
}

func (p *txPool) counts() (begun, committed, rolledBack int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.begun, p.committed, p.rolledBack
}

type txConn struct {
	*txPool
	done bool
}

func (c *txConn) Commit() error {
	if c.done {
		return sql.ErrTxDone
	}
	c.done = true
	c.mu.Lock()
	defer c.mu.Unlock()
	c.committed++
	return nil
}

func (c *txConn) Rollback() error {
	if c.done {
		return sql.ErrTxDone
	}
	c.done = true
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rolledBack++
	return nil
}

func newTestDB(t *testing.T) (*gorm.DB, *txPool) {
	t.Helper()
	pool := &txPool{}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: pool}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, pool
}

// --- mockUserRepository ---
var _ repository.UserRepository = (*mockUserRepository)(nil)

type mockUserRepository struct {
	CreateFunc           func(ctx context.Context, user *entity.User) error
	FindByIDFunc         func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByLoginFunc      func(ctx context.Context, identifier string) (*entity.User, error)
	ExistsByUsernameFunc func(ctx context.Context, username string) (bool, error)
	ExistsByEmailFunc    func(ctx context.Context, email string) (bool, error)
	SetActiveFunc        func(ctx context.Context, id uuid.UUID, active bool) error

	CreateCalls int
}

func (m *mockUserRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return errors.New("Create not implemented in mock")
}

func (m *mockUserRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("FindByID not implemented in mock")
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	return nil, errors.New("FindByEmail not implemented in mock")
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.User, error) {
	return nil, errors.New("FindByUsername not implemented in mock")
}

func (m *mockUserRepository) FindByLogin(ctx context.Context, db *gorm.DB, identifier string) (*entity.User, error) {
	if m.FindByLoginFunc != nil {
		return m.FindByLoginFunc(ctx, identifier)
	}
	return nil, errors.New("FindByLogin not implemented in mock")
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, db *gorm.DB, username string, exceptID *uuid.UUID) (bool, error) {
	if m.ExistsByUsernameFunc != nil {
		return m.ExistsByUsernameFunc(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, db *gorm.DB, email string, exceptID *uuid.UUID) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return errors.New("Update not implemented in mock")
}

func (m *mockUserRepository) SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active)
	}
	return errors.New("SetActive not implemented in mock")
}

func (m *mockUserRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return errors.New("Delete not implemented in mock")
}

// --- mockDoctorProfileRepository ---
var _ repository.DoctorProfileRepository = (*mockDoctorProfileRepository)(nil)

type mockDoctorProfileRepository struct {
	FindByUserIDFunc func(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error)
	UpdateFunc       func(ctx context.Context, profile *entity.DoctorProfile) error
}

func (m *mockDoctorProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	return errors.New("Create not implemented in mock")
}

func (m *mockDoctorProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, errors.New("FindByUserID not implemented in mock")
}

func (m *mockDoctorProfileRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter, limit, offset int) ([]entity.DoctorProfile, int64, error) {
	return nil, 0, errors.New("FindAll not implemented in mock")
}

func (m *mockDoctorProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, profile)
	}
	return errors.New("Update not implemented in mock")
}

func (m *mockDoctorProfileRepository) Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	return errors.New("Delete not implemented in mock")
}

func (m *mockDoctorProfileRepository) Count(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) (int64, error) {
	return 0, errors.New("Count not implemented in mock")
}

// --- mockDoctorAvailabilityRepository ---
var _ repository.DoctorAvailabilityRepository = (*mockDoctorAvailabilityRepository)(nil)

type mockDoctorAvailabilityRepository struct {
	FindByDoctorAndDayFunc func(ctx context.Context, doctorID uuid.UUID, day string) (*entity.DoctorAvailability, error)
}

func (m *mockDoctorAvailabilityRepository) Upsert(ctx context.Context, db *gorm.DB, slot *entity.DoctorAvailability) error {
	return errors.New("Upsert not implemented in mock")
}

func (m *mockDoctorAvailabilityRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.DoctorAvailability, error) {
	return nil, errors.New("FindByID not implemented in mock")
}

func (m *mockDoctorAvailabilityRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorAvailability, error) {
	return nil, errors.New("FindByDoctorID not implemented in mock")
}

func (m *mockDoctorAvailabilityRepository) FindByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, day string) (*entity.DoctorAvailability, error) {
	if m.FindByDoctorAndDayFunc != nil {
		return m.FindByDoctorAndDayFunc(ctx, doctorID, day)
	}
	return nil, errors.New("FindByDoctorAndDay not implemented in mock")
}

func (m *mockDoctorAvailabilityRepository) Update(ctx context.Context, db *gorm.DB, slot *entity.DoctorAvailability) error {
	return errors.New("Update not implemented in mock")
}

func (m *mockDoctorAvailabilityRepository) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	return 0, errors.New("Delete not implemented in mock")
}

// --- mockAppointmentRepository ---
var _ repository.AppointmentRepository = (*mockAppointmentRepository)(nil)

type mockAppointmentRepository struct {
	FindByIDFunc     func(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	CountBetweenFunc func(ctx context.Context, doctorID uuid.UUID, from, to time.Time) (int64, error)

	UpdateCalls int
}

func (m *mockAppointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return errors.New("Create not implemented in mock")
}

func (m *mockAppointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("FindByID not implemented in mock")
}

func (m *mockAppointmentRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter, limit, offset int) ([]entity.Appointment, int64, error) {
	return nil, 0, errors.New("FindAll not implemented in mock")
}

func (m *mockAppointmentRepository) SlotTaken(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, at time.Time, exceptID *uuid.UUID) (bool, error) {
	return false, errors.New("SlotTaken not implemented in mock")
}

func (m *mockAppointmentRepository) FindUpcomingHeld(ctx context.Context, db *gorm.DB, after time.Time, limit, offset int) ([]entity.Appointment, error) {
	return nil, errors.New("FindUpcomingHeld not implemented in mock")
}

func (m *mockAppointmentRepository) Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	m.UpdateCalls++
	return errors.New("Update not implemented in mock")
}

func (m *mockAppointmentRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	return 0, errors.New("Delete not implemented in mock")
}

func (m *mockAppointmentRepository) CountUpcoming(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, from time.Time) (int64, error) {
	return 0, nil
}

func (m *mockAppointmentRepository) CountBetween(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, from, to time.Time) (int64, error) {
	if m.CountBetweenFunc != nil {
		return m.CountBetweenFunc(ctx, doctorID, from, to)
	}
	return 0, errors.New("CountBetween not implemented in mock")
}

func (m *mockAppointmentRepository) CountDistinctPatients(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	return 0, nil
}

func (m *mockAppointmentRepository) CountByStatus(ctx context.Context, db *gorm.DB) (map[entity.AppointmentStatus]int64, error) {
	return nil, errors.New("CountByStatus not implemented in mock")
}

// --- mockActivityService ---
var _ service.ActivityService = (*mockActivityService)(nil)

type mockActivityService struct {
	mu      sync.Mutex
	Actions []string
}

func (m *mockActivityService) record(action string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Actions = append(m.Actions, action)
	return nil
}

func (m *mockActivityService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return m.record(action)
}

func (m *mockActivityService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return m.record(action)
}

func (m *mockActivityService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	return m.record(action)
}

// --- mockNotifier ---
var _ service.NotificationService = (*mockNotifier)(nil)

type mockNotifier struct {
	Titles     []string
	Dispatched int
}

func (m *mockNotifier) Notify(ctx context.Context, tx *gorm.DB, recipient *entity.User, title, message string) (*service.Delivery, error) {
	m.Titles = append(m.Titles, title)
	return &service.Delivery{Notification: &entity.Notification{Title: title, Message: message}}, nil
}

func (m *mockNotifier) Dispatch(deliveries ...*service.Delivery) {
	m.Dispatched += len(deliveries)
}

func (m *mockNotifier) Wait() {}
