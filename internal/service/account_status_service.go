package service

import (
	"context"

	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AccountStatusService keeps users.is_active in step with a profile's
// moderation flags.
type AccountStatusService interface {
	// Apply writes the derived activation flag inside tx and reports whether
	// the account went from active to inactive.
	Apply(ctx context.Context, tx *gorm.DB, userID uuid.UUID, moderation entity.Moderation) (bool, error)
	// AfterCommit revokes the user's tokens when Apply reported a deactivation.
	AfterCommit(ctx context.Context, userID uuid.UUID, deactivated bool)
}

type accountStatusService struct {
	log        *logrus.Logger
	userRepo   repository.UserRepository
	tokenStore *TokenStore
}

func NewAccountStatusService(log *logrus.Logger, userRepo repository.UserRepository, tokenStore *TokenStore) AccountStatusService {
	return &accountStatusService{
		log:        log,
		userRepo:   userRepo,
		tokenStore: tokenStore,
	}
}

func (s *accountStatusService) Apply(ctx context.Context, tx *gorm.DB, userID uuid.UUID, moderation entity.Moderation) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, tx, userID)
	if err != nil {
		s.log.Warnf("Failed to find user %s: %+v", userID, err)
		return false, err
	}
	if user == nil {
		return false, nil
	}

	wasActive := user.Active()
	active := moderation.AccountActive()
	if wasActive == active && user.IsActive != nil {
		return false, nil
	}

	if err := s.userRepo.SetActive(ctx, tx, userID, active); err != nil {
		s.log.Warnf("Failed to update activation for user %s: %+v", userID, err)
		return false, err
	}

	s.log.Infof("User %s activation changed: active=%t", userID, active)
	return wasActive && !active, nil
}

func (s *accountStatusService) AfterCommit(ctx context.Context, userID uuid.UUID, deactivated bool) {
	if !deactivated || s.tokenStore == nil {
		return
	}
	if err := s.tokenStore.RevokeAll(ctx, userID); err != nil {
		s.log.Errorf("Failed to revoke tokens of deactivated user %s: %+v", userID, err)
	}
}
