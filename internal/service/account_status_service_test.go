package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountStatus_ApplyDeactivates(t *testing.T) {
	userID := uuid.New()
	var stored *bool
	repo := &MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, IsActive: entity.BoolPtr(true)}, nil
		},
		SetActiveFunc: func(ctx context.Context, id uuid.UUID, active bool) error {
			stored = &active
			return nil
		},
	}
	svc := NewAccountStatusService(newTestLogger(), repo, nil)

	deactivated, err := svc.Apply(context.Background(), nil, userID, entity.Moderation{IsApproved: true, IsBlocked: true})
	require.NoError(t, err)
	assert.True(t, deactivated)
	require.NotNil(t, stored)
	assert.False(t, *stored)
}

func TestAccountStatus_ApplyActivates(t *testing.T) {
	repo := &MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, IsActive: entity.BoolPtr(false)}, nil
		},
	}
	svc := NewAccountStatusService(newTestLogger(), repo, nil)

	deactivated, err := svc.Apply(context.Background(), nil, uuid.New(), entity.Moderation{IsApproved: true})
	require.NoError(t, err)
	assert.False(t, deactivated)
	assert.Equal(t, 1, repo.SetActiveCalls)
}

func TestAccountStatus_ApplyNoChange(t *testing.T) {
	repo := &MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, IsActive: entity.BoolPtr(false)}, nil
		},
	}
	svc := NewAccountStatusService(newTestLogger(), repo, nil)

	deactivated, err := svc.Apply(context.Background(), nil, uuid.New(), entity.Moderation{IsBlocked: true})
	require.NoError(t, err)
	assert.False(t, deactivated)
	assert.Equal(t, 0, repo.SetActiveCalls)
}

func TestAccountStatus_ApplyPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	repo := &MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
			return nil, boom
		},
	}
	svc := NewAccountStatusService(newTestLogger(), repo, nil)

	_, err := svc.Apply(context.Background(), nil, uuid.New(), entity.Moderation{})
	assert.ErrorIs(t, err, boom)
}

func TestAccountStatus_AfterCommitRevokesTokens(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewTokenStore(client, newTestLogger())
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Save(ctx, jwt.AccessToken, userID, "a1", time.Hour))
	require.NoError(t, store.Save(ctx, jwt.RefreshToken, userID, "r1", time.Hour))

	svc := NewAccountStatusService(newTestLogger(), &MockUserRepository{}, store)

	svc.AfterCommit(ctx, userID, false)
	assert.Len(t, mr.Keys(), 2)

	svc.AfterCommit(ctx, userID, true)
	assert.Empty(t, mr.Keys())
}
