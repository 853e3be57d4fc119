package service

import (
	"context"
	"errors"
	"sync"

	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- MockUserRepository ---
var _ repository.UserRepository = (*MockUserRepository)(nil)

type MockUserRepository struct {
	FindByIDFunc  func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	SetActiveFunc func(ctx context.Context, id uuid.UUID, active bool) error

	SetActiveCalls int
}

func (m *MockUserRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return errors.New("Create not implemented in mock")
}

func (m *MockUserRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("FindByIDFunc not implemented in mock")
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	return nil, errors.New("FindByEmail not implemented in mock")
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.User, error) {
	return nil, errors.New("FindByUsername not implemented in mock")
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, db *gorm.DB, identifier string) (*entity.User, error) {
	return nil, errors.New("FindByLogin not implemented in mock")
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, db *gorm.DB, username string, exceptID *uuid.UUID) (bool, error) {
	return false, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, db *gorm.DB, email string, exceptID *uuid.UUID) (bool, error) {
	return false, nil
}

func (m *MockUserRepository) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return nil
}

func (m *MockUserRepository) SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) error {
	m.SetActiveCalls++
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active)
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return nil
}

// --- MockNotificationRepository ---
var _ repository.NotificationRepository = (*MockNotificationRepository)(nil)

type MockNotificationRepository struct {
	CreateFunc func(ctx context.Context, notification *entity.Notification) error
	Created    []*entity.Notification
}

func (m *MockNotificationRepository) Create(ctx context.Context, db *gorm.DB, notification *entity.Notification) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, notification); err != nil {
			return err
		}
	}
	notification.ID = int64(len(m.Created) + 1)
	m.Created = append(m.Created, notification)
	return nil
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Notification, error) {
	return nil, nil
}

func (m *MockNotificationRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.NotificationFilter, limit, offset int) ([]entity.Notification, int64, error) {
	return nil, 0, nil
}

func (m *MockNotificationRepository) Update(ctx context.Context, db *gorm.DB, notification *entity.Notification) error {
	return nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	return 0, nil
}

func (m *MockNotificationRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	return 0, nil
}

// --- MockActivityLogRepository ---
var _ repository.ActivityLogRepository = (*MockActivityLogRepository)(nil)

type MockActivityLogRepository struct {
	CreateFunc func(ctx context.Context, log *entity.ActivityLog) error
	Created    []*entity.ActivityLog
}

func (m *MockActivityLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.ActivityLog) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, log); err != nil {
			return err
		}
	}
	m.Created = append(m.Created, log)
	return nil
}

func (m *MockActivityLogRepository) FindAll(ctx context.Context, db *gorm.DB, action string, limit, offset int) ([]entity.ActivityLog, int64, error) {
	return nil, 0, nil
}

func (m *MockActivityLogRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.ActivityLog, error) {
	return nil, nil
}

func (m *MockActivityLogRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	return 0, nil
}

// --- MockMailer ---
type MockMailer struct {
	mu   sync.Mutex
	Err  error
	Sent []string
}

func (m *MockMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, to+"|"+subject)
	return m.Err
}

// --- MockBroadcaster ---
type MockBroadcaster struct {
	Events []interface{}
}

func (m *MockBroadcaster) Broadcast(event interface{}) {
	m.Events = append(m.Events, event)
}
