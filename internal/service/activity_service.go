package service

import (
	"context"

	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ActivityService writes activity log rows inside the caller's transaction.
type ActivityService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error
}

type activityService struct {
	log             *logrus.Logger
	activityLogRepo repository.ActivityLogRepository
}

func NewActivityService(log *logrus.Logger, activityLogRepo repository.ActivityLogRepository) ActivityService {
	return &activityService{
		log:             log,
		activityLogRepo: activityLogRepo,
	}
}

// LogCreate logs a create action
func (s *activityService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, tx, userID, action, entityName, entityID, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *activityService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, userID, action, entityName, entityID, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *activityService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.write(ctx, tx, userID, action, entityName, entityID, oldValue, nil)
}

func (s *activityService) write(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	activity := &entity.ActivityLog{
		PerformedBy: userID,
		Action:      action,
		Entity:      entityName,
		EntityID:    entityID,
		Metadata: entity.JSON{
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.activityLogRepo.Create(ctx, tx, activity); err != nil {
		s.log.Warnf("Failed to create activity log: %+v", err)
		return err
	}

	return nil
}
