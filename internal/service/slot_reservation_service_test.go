package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newTestSlotService(t *testing.T) (*miniredis.Miniredis, *SlotReservationService) {
	t.Helper()
	mr, client := newTestRedis(t)
	svc := NewSlotReservationService(nil, client, newTestLogger(), nil)
	t.Cleanup(svc.Stop)
	return mr, svc
}

func TestSlotReservation_ReserveIsExclusive(t *testing.T) {
	mr, svc := newTestSlotService(t)
	ctx := context.Background()

	doctorID := uuid.New()
	at := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	first, second := uuid.New(), uuid.New()

	require.NoError(t, svc.Reserve(ctx, doctorID, at, first))
	assert.ErrorIs(t, svc.Reserve(ctx, doctorID, at, second), ErrSlotTaken)

	// same owner may re-reserve
	assert.NoError(t, svc.Reserve(ctx, doctorID, at, first))

	got, err := mr.Get(SlotKey(doctorID, at))
	require.NoError(t, err)
	assert.Equal(t, first.String(), got)
	assert.True(t, mr.TTL(SlotKey(doctorID, at)) > 24*time.Hour)

	// another doctor at the same time is independent
	assert.NoError(t, svc.Reserve(ctx, uuid.New(), at, second))
}

func TestSlotReservation_ReleaseOnlyByOwner(t *testing.T) {
	mr, svc := newTestSlotService(t)
	ctx := context.Background()

	doctorID := uuid.New()
	at := time.Now().Add(72 * time.Hour).Truncate(time.Minute)
	owner := uuid.New()

	require.NoError(t, svc.Reserve(ctx, doctorID, at, owner))

	require.NoError(t, svc.Release(ctx, doctorID, at, uuid.New()))
	assert.True(t, mr.Exists(SlotKey(doctorID, at)))

	require.NoError(t, svc.Release(ctx, doctorID, at, owner))
	assert.False(t, mr.Exists(SlotKey(doctorID, at)))

	assert.NoError(t, svc.Reserve(ctx, doctorID, at, uuid.New()))
}

func TestSlotReservation_Move(t *testing.T) {
	mr, svc := newTestSlotService(t)
	ctx := context.Background()

	doctorID := uuid.New()
	from := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	to := from.Add(time.Hour)
	blocked := to.Add(time.Hour)
	appointmentID := uuid.New()

	require.NoError(t, svc.Reserve(ctx, doctorID, from, appointmentID))
	require.NoError(t, svc.Move(ctx, doctorID, from, to, appointmentID))
	assert.False(t, mr.Exists(SlotKey(doctorID, from)))
	assert.True(t, mr.Exists(SlotKey(doctorID, to)))

	// moving onto a taken slot keeps the current reservation
	require.NoError(t, svc.Reserve(ctx, doctorID, blocked, uuid.New()))
	assert.ErrorIs(t, svc.Move(ctx, doctorID, to, blocked, appointmentID), ErrSlotTaken)
	assert.True(t, mr.Exists(SlotKey(doctorID, to)))
}

func TestSlotReservation_CleanupStaleMutexes(t *testing.T) {
	_, svc := newTestSlotService(t)

	svc.getDoctorMutex(uuid.New())
	svc.getDoctorMutex(uuid.New())

	assert.Equal(t, 0, svc.cleanupStaleMutexes(time.Now().Add(-time.Hour)))
	assert.Equal(t, 2, svc.cleanupStaleMutexes(time.Now().Add(time.Hour)))
}

func TestSlotReservation_StopIsIdempotent(t *testing.T) {
	_, svc := newTestSlotService(t)
	svc.Stop()
	svc.Stop()
}

func TestSlotKey_NormalizesZone(t *testing.T) {
	doctorID := uuid.New()
	at := time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)
	local := at.In(time.FixedZone("UTC+7", 7*3600))
	assert.Equal(t, SlotKey(doctorID, at), SlotKey(doctorID, local))
}
