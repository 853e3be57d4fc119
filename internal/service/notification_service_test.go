package service

import (
	"context"
	"errors"
	"testing"

	"medical-clinic-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_NotifyAndDispatch(t *testing.T) {
	repo := &MockNotificationRepository{}
	mailer := &MockMailer{}
	hub := &MockBroadcaster{}
	svc := NewNotificationService(newTestLogger(), repo, mailer, hub)

	patient := &entity.User{ID: uuid.New(), Email: "jane@clinic.test"}

	d, err := svc.Notify(context.Background(), nil, patient, "Appointment approved", "See you soon")
	require.NoError(t, err)
	require.Len(t, repo.Created, 1)
	assert.Equal(t, patient.ID, *repo.Created[0].UserID)
	assert.Equal(t, "jane@clinic.test", d.Email)

	admin, err := svc.Notify(context.Background(), nil, nil, "New doctor", "house awaits approval")
	require.NoError(t, err)
	assert.Nil(t, admin.Notification.UserID)
	assert.Empty(t, admin.Email)

	svc.Dispatch(d, admin, nil)
	svc.Wait()

	assert.Len(t, hub.Events, 2)
	assert.Equal(t, []string{"jane@clinic.test|Appointment approved"}, mailer.Sent)
}

func TestNotificationService_DispatchSwallowsMailErrors(t *testing.T) {
	mailer := &MockMailer{Err: errors.New("smtp down")}
	svc := NewNotificationService(newTestLogger(), &MockNotificationRepository{}, mailer, nil)

	d, err := svc.Notify(context.Background(), nil, &entity.User{ID: uuid.New(), Email: "a@b.test"}, "t", "m")
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		svc.Dispatch(d)
		svc.Wait()
	})
	assert.Len(t, mailer.Sent, 1)
}

func TestNotificationService_NotifyError(t *testing.T) {
	boom := errors.New("insert failed")
	repo := &MockNotificationRepository{
		CreateFunc: func(ctx context.Context, n *entity.Notification) error { return boom },
	}
	svc := NewNotificationService(newTestLogger(), repo, nil, nil)

	_, err := svc.Notify(context.Background(), nil, nil, "t", "m")
	assert.ErrorIs(t, err, boom)
}

func TestActivityService_WritesMetadata(t *testing.T) {
	repo := &MockActivityLogRepository{}
	svc := NewActivityService(newTestLogger(), repo)
	actor := uuid.New()

	require.NoError(t, svc.LogUpdate(context.Background(), nil, &actor, entity.ActionApprove, entity.EntityDoctor, "42",
		map[string]bool{"is_approved": false}, map[string]bool{"is_approved": true}))
	require.NoError(t, svc.LogDelete(context.Background(), nil, nil, entity.ActionDelete, entity.EntitySpecialty, "7", "Cardiology"))

	require.Len(t, repo.Created, 2)
	first := repo.Created[0]
	assert.Equal(t, &actor, first.PerformedBy)
	assert.Equal(t, entity.EntityDoctor, first.Entity)
	assert.Equal(t, "42", first.EntityID)
	assert.Equal(t, map[string]bool{"is_approved": true}, first.Metadata["new_value"])
	assert.Nil(t, repo.Created[1].Metadata["new_value"])
}
