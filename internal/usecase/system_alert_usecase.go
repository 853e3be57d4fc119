package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"medical-clinic-api/internal/converter"
	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/delivery/http/middleware"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"
	"medical-clinic-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrSystemAlertNotFound = errors.New("system alert not found")

// SystemAlertEvent is pushed to websocket clients when an alert is published or changed.
type SystemAlertEvent struct {
	Type  string                   `json:"type"`
	Alert *dto.SystemAlertResponse `json:"alert"`
}

type SystemAlertUsecase interface {
	// List returns every alert, or only the live ones when activeOnly is set.
	List(ctx context.Context, activeOnly bool) ([]dto.SystemAlertResponse, error)
	// Live returns the active, unexpired alerts shown to every signed-in user.
	Live(ctx context.Context) ([]dto.SystemAlertResponse, error)
	Get(ctx context.Context, id int) (*dto.SystemAlertResponse, error)
	Create(ctx context.Context, req *dto.SystemAlertRequest) (*dto.SystemAlertResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateSystemAlertRequest) (*dto.SystemAlertResponse, error)
	Delete(ctx context.Context, id int) error
}

type systemAlertUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	alertRepo   repository.SystemAlertRepository
	activity    service.ActivityService
	broadcaster service.Broadcaster
}

// NewSystemAlertUsecase builds the alert usecase. broadcaster may be nil.
func NewSystemAlertUsecase(db *gorm.DB, log *logrus.Logger, alertRepo repository.SystemAlertRepository, activity service.ActivityService, broadcaster service.Broadcaster) SystemAlertUsecase {
	return &systemAlertUsecase{
		db:          db,
		log:         log,
		alertRepo:   alertRepo,
		activity:    activity,
		broadcaster: broadcaster,
	}
}

func (u *systemAlertUsecase) List(ctx context.Context, activeOnly bool) ([]dto.SystemAlertResponse, error) {
	if activeOnly {
		return u.Live(ctx)
	}

	alerts, err := u.alertRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to list system alerts: %+v", err)
		return nil, err
	}
	return converter.SystemAlertsToResponses(alerts), nil
}

func (u *systemAlertUsecase) Live(ctx context.Context) ([]dto.SystemAlertResponse, error) {
	alerts, err := u.alertRepo.FindLive(ctx, u.db, time.Now())
	if err != nil {
		u.log.Warnf("Failed to list live system alerts: %+v", err)
		return nil, err
	}
	return converter.SystemAlertsToResponses(alerts), nil
}

func (u *systemAlertUsecase) find(ctx context.Context, db *gorm.DB, id int) (*entity.SystemAlert, error) {
	alert, err := u.alertRepo.FindByID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find system alert %d: %+v", id, err)
		return nil, err
	}
	if alert == nil {
		return nil, ErrSystemAlertNotFound
	}
	return alert, nil
}

func (u *systemAlertUsecase) Get(ctx context.Context, id int) (*dto.SystemAlertResponse, error) {
	alert, err := u.find(ctx, u.db, id)
	if err != nil {
		return nil, err
	}
	return converter.SystemAlertToResponse(alert), nil
}

func (u *systemAlertUsecase) Create(ctx context.Context, req *dto.SystemAlertRequest) (*dto.SystemAlertResponse, error) {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	alert := &entity.SystemAlert{
		Title:     req.Title,
		Message:   req.Message,
		Severity:  req.Severity,
		IsActive:  req.IsActive == nil || *req.IsActive,
		ExpiresAt: req.ExpiresAt,
	}
	if alert.Severity == "" {
		alert.Severity = entity.AlertSeverityInfo
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.alertRepo.Create(ctx, tx, alert); err != nil {
		u.log.Warnf("Failed to create system alert: %+v", err)
		return nil, err
	}

	after := converter.SystemAlertToResponse(alert)
	if err := u.activity.LogCreate(ctx, tx, &adminID, entity.ActionCreate, entity.EntitySystemAlert, strconv.Itoa(alert.ID), after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.publish(alert, after)
	return after, nil
}

func (u *systemAlertUsecase) Update(ctx context.Context, id int, req *dto.UpdateSystemAlertRequest) (*dto.SystemAlertResponse, error) {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	alert, err := u.find(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	before := converter.SystemAlertToResponse(alert)

	if req.Title != nil {
		alert.Title = *req.Title
	}
	if req.Message != nil {
		alert.Message = *req.Message
	}
	if req.Severity != nil {
		alert.Severity = *req.Severity
	}
	if req.IsActive != nil {
		alert.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		alert.ExpiresAt = req.ExpiresAt
	}

	if err := u.alertRepo.Update(ctx, tx, alert); err != nil {
		u.log.Warnf("Failed to update system alert %d: %+v", id, err)
		return nil, err
	}

	after := converter.SystemAlertToResponse(alert)
	if err := u.activity.LogUpdate(ctx, tx, &adminID, entity.ActionUpdate, entity.EntitySystemAlert, strconv.Itoa(id), before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.publish(alert, after)
	return after, nil
}

func (u *systemAlertUsecase) Delete(ctx context.Context, id int) error {
	adminID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	alert, err := u.find(ctx, tx, id)
	if err != nil {
		return err
	}

	if _, err := u.alertRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete system alert %d: %+v", id, err)
		return err
	}

	if err := u.activity.LogDelete(ctx, tx, &adminID, entity.ActionDelete, entity.EntitySystemAlert, strconv.Itoa(id), converter.SystemAlertToResponse(alert)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// publish pushes live alerts to connected clients.
func (u *systemAlertUsecase) publish(alert *entity.SystemAlert, resp *dto.SystemAlertResponse) {
	if u.broadcaster == nil || !alert.LiveAt(time.Now()) {
		return
	}
	u.broadcaster.Broadcast(SystemAlertEvent{Type: "system_alert", Alert: resp})
}
