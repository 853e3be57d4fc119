package service

import (
	"context"
	"sync"

	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Mailer sends a plain e-mail. Implemented by infrastructure/mail.
type Mailer interface {
	Send(to, subject, body string) error
}

// Broadcaster fans an event out to live websocket clients. Implemented by delivery/ws.
type Broadcaster interface {
	Broadcast(event interface{})
}

// NotificationEvent is the payload pushed to websocket clients.
type NotificationEvent struct {
	Type         string               `json:"type"`
	Notification *entity.Notification `json:"notification"`
}

// Delivery is a stored notification waiting for its post-commit dispatch.
type Delivery struct {
	Notification *entity.Notification
	Email        string
}

type NotificationService interface {
	// Notify stores a notification in tx. A nil recipient addresses the admin inbox.
	Notify(ctx context.Context, tx *gorm.DB, recipient *entity.User, title, message string) (*Delivery, error)
	// Dispatch e-mails and broadcasts deliveries. Call it after commit; failures
	// are logged only.
	Dispatch(deliveries ...*Delivery)
	// Wait blocks until in-flight e-mails are sent.
	Wait()
}

type notificationService struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	mailer           Mailer
	broadcaster      Broadcaster
	wg               sync.WaitGroup
}

// NewNotificationService builds the notifier. mailer and broadcaster may be nil.
func NewNotificationService(log *logrus.Logger, notificationRepo repository.NotificationRepository, mailer Mailer, broadcaster Broadcaster) NotificationService {
	return &notificationService{
		log:              log,
		notificationRepo: notificationRepo,
		mailer:           mailer,
		broadcaster:      broadcaster,
	}
}

func (s *notificationService) Notify(ctx context.Context, tx *gorm.DB, recipient *entity.User, title, message string) (*Delivery, error) {
	notification := &entity.Notification{
		Title:   title,
		Message: message,
	}
	delivery := &Delivery{Notification: notification}
	if recipient != nil {
		notification.UserID = &recipient.ID
		delivery.Email = recipient.Email
	}

	if err := s.notificationRepo.Create(ctx, tx, notification); err != nil {
		s.log.Warnf("Failed to create notification: %+v", err)
		return nil, err
	}

	return delivery, nil
}

func (s *notificationService) Dispatch(deliveries ...*Delivery) {
	for _, d := range deliveries {
		if d == nil || d.Notification == nil {
			continue
		}

		if s.broadcaster != nil {
			s.broadcaster.Broadcast(NotificationEvent{Type: "notification", Notification: d.Notification})
		}

		if s.mailer == nil || d.Email == "" {
			continue
		}

		s.wg.Add(1)
		go func(to, subject, body string) {
			defer s.wg.Done()
			if err := s.mailer.Send(to, subject, body); err != nil {
				s.log.Warnf("Failed to send notification e-mail to %s: %+v", to, err)
				return
			}
			s.log.Debugf("Notification e-mail sent to %s", to)
		}(d.Email, d.Notification.Title, d.Notification.Message)
	}
}

func (s *notificationService) Wait() {
	s.wg.Wait()
}
