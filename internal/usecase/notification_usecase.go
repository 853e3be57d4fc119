package usecase

import (
	"context"
	"errors"
	"strconv"

	"medical-clinic-api/internal/converter"
	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/delivery/http/middleware"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"
	"medical-clinic-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationUsecase interface {
	// Admin inbox and management
	List(ctx context.Context, filter *entity.NotificationFilter, page, limit int) ([]dto.NotificationResponse, int64, error)
	Get(ctx context.Context, id int64) (*dto.NotificationResponse, error)
	Create(ctx context.Context, req *dto.NotificationRequest) (*dto.NotificationResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateNotificationRequest) (*dto.NotificationResponse, error)
	Delete(ctx context.Context, id int64) error
	MarkRead(ctx context.Context, id int64) error

	// Signed-in user's own notifications
	ListMine(ctx context.Context, unreadOnly bool, page, limit int) ([]dto.NotificationResponse, int64, error)
	MarkMineRead(ctx context.Context, id int64) error
}

type notificationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	activity         service.ActivityService
	notifier         service.NotificationService
}

func NewNotificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	activity service.ActivityService,
	notifier service.NotificationService,
) NotificationUsecase {
	return &notificationUsecase{
		db:               db,
		log:              log,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		activity:         activity,
		notifier:         notifier,
	}
}

func (u *notificationUsecase) List(ctx context.Context, filter *entity.NotificationFilter, page, limit int) ([]dto.NotificationResponse, int64, error) {
	_, limit, offset := paginate(page, limit)

	notifications, total, err := u.notificationRepo.FindAll(ctx, u.db, filter, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list notifications: %+v", err)
		return nil, 0, err
	}

	return converter.NotificationsToResponses(notifications), total, nil
}

func (u *notificationUsecase) find(ctx context.Context, db *gorm.DB, id int64) (*entity.Notification, error) {
	notification, err := u.notificationRepo.FindByID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find notification %d: %+v", id, err)
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

func (u *notificationUsecase) Get(ctx context.Context, id int64) (*dto.NotificationResponse, error) {
	notification, err := u.find(ctx, u.db, id)
	if err != nil {
		return nil, err
	}
	return converter.NotificationToResponse(notification), nil
}

// Create stores a notification through the notifier so the recipient also gets the e-mail and live push.
func (u *notificationUsecase) Create(ctx context.Context, req *dto.NotificationRequest) (*dto.NotificationResponse, error) {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	var recipient *entity.User
	if req.UserID != nil {
		user, err := u.userRepo.FindByID(ctx, tx, *req.UserID)
		if err != nil {
			u.log.Warnf("Failed to find user %s: %+v", *req.UserID, err)
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		recipient = user
	}

	delivery, err := u.notifier.Notify(ctx, tx, recipient, req.Title, req.Message)
	if err != nil {
		return nil, err
	}

	after := converter.NotificationToResponse(delivery.Notification)
	if err := u.activity.LogCreate(ctx, tx, &adminID, entity.ActionCreate, entity.EntityNotification, strconv.FormatInt(after.ID, 10), after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notifier.Dispatch(delivery)
	return after, nil
}

func (u *notificationUsecase) Update(ctx context.Context, id int64, req *dto.UpdateNotificationRequest) (*dto.NotificationResponse, error) {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	notification, err := u.find(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	before := converter.NotificationToResponse(notification)

	if req.Title != nil {
		notification.Title = *req.Title
	}
	if req.Message != nil {
		notification.Message = *req.Message
	}
	if req.IsRead != nil {
		notification.IsRead = *req.IsRead
	}

	if err := u.notificationRepo.Update(ctx, tx, notification); err != nil {
		u.log.Warnf("Failed to update notification %d: %+v", id, err)
		return nil, err
	}

	after := converter.NotificationToResponse(notification)
	if err := u.activity.LogUpdate(ctx, tx, &adminID, entity.ActionUpdate, entity.EntityNotification, strconv.FormatInt(id, 10), before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

func (u *notificationUsecase) Delete(ctx context.Context, id int64) error {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	notification, err := u.find(ctx, tx, id)
	if err != nil {
		return err
	}

	if _, err := u.notificationRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete notification %d: %+v", id, err)
		return err
	}

	if err := u.activity.LogDelete(ctx, tx, &adminID, entity.ActionDelete, entity.EntityNotification, strconv.FormatInt(id, 10), converter.NotificationToResponse(notification)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *notificationUsecase) MarkRead(ctx context.Context, id int64) error {
	affected, err := u.notificationRepo.MarkRead(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to mark notification %d read: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (u *notificationUsecase) ListMine(ctx context.Context, unreadOnly bool, page, limit int) ([]dto.NotificationResponse, int64, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, 0, ErrUnauthenticated
	}
	return u.List(ctx, &entity.NotificationFilter{UserID: &userID, UnreadOnly: unreadOnly}, page, limit)
}

// MarkMineRead marks one of the caller's notifications read. Other users' rows are reported as missing.
func (u *notificationUsecase) MarkMineRead(ctx context.Context, id int64) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	notification, err := u.find(ctx, u.db, id)
	if err != nil {
		return err
	}
	if !notification.AddressedTo(userID) {
		return ErrNotificationNotFound
	}

	return u.MarkRead(ctx, id)
}
