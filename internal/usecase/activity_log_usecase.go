package usecase

import (
	"context"
	"errors"

	"medical-clinic-api/internal/converter"
	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrActivityLogNotFound = errors.New("activity log not found")

type ActivityLogUsecase interface {
	List(ctx context.Context, action string, page, limit int) ([]dto.ActivityLogResponse, int64, error)
	Get(ctx context.Context, id int64) (*dto.ActivityLogResponse, error)
	Delete(ctx context.Context, id int64) error
}

type activityLogUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	activityLogRepo repository.ActivityLogRepository
}

func NewActivityLogUsecase(db *gorm.DB, log *logrus.Logger, activityLogRepo repository.ActivityLogRepository) ActivityLogUsecase {
	return &activityLogUsecase{
		db:              db,
		log:             log,
		activityLogRepo: activityLogRepo,
	}
}

func (u *activityLogUsecase) List(ctx context.Context, action string, page, limit int) ([]dto.ActivityLogResponse, int64, error) {
	_, limit, offset := paginate(page, limit)

	logs, total, err := u.activityLogRepo.FindAll(ctx, u.db, action, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list activity logs: %+v", err)
		return nil, 0, err
	}

	return converter.ActivityLogsToResponses(logs), total, nil
}

func (u *activityLogUsecase) Get(ctx context.Context, id int64) (*dto.ActivityLogResponse, error) {
	log, err := u.activityLogRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find activity log %d: %+v", id, err)
		return nil, err
	}
	if log == nil {
		return nil, ErrActivityLogNotFound
	}
	return converter.ActivityLogToResponse(log), nil
}

// Delete removes a log row. Deletions are not themselves logged.
func (u *activityLogUsecase) Delete(ctx context.Context, id int64) error {
	affected, err := u.activityLogRepo.Delete(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to delete activity log %d: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrActivityLogNotFound
	}

	u.log.Infof("Activity log %d deleted", id)
	return nil
}
