package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"medical-clinic-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrSlotTaken is returned when another appointment already holds the doctor's time slot
var ErrSlotTaken = errors.New("time slot is already booked")

// reserveSlotScript claims a slot key for an owner.
// Returns 1 when the key was free or is already held by the same owner, 0 otherwise.
var reserveSlotScript = redis.NewScript(`
	local current = redis.call('GET', KEYS[1])
	if not current then
		redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
		return 1
	end
	if current == ARGV[1] then
		redis.call('PEXPIRE', KEYS[1], ARGV[2])
		return 1
	end
	return 0
`)

// releaseSlotScript deletes a slot key only if it is held by the given owner.
var releaseSlotScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	// RedisSlotKeyPrefix prefixes doctor time-slot reservations
	RedisSlotKeyPrefix = "appointment:slot:"

	// Batch size for startup sync
	syncBatchSize = 500

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// SlotReservationService guards the "one appointment per doctor per time" rule
// in Redis. Keys live until one day after the appointment time.
//
// Reserve and Release are single Lua scripts. Move touches two keys and is
// serialized per doctor with an in-process mutex.
type SlotReservationService struct {
	db              *gorm.DB
	redisClient     *redis.Client
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository

	// Per-doctor mutex for multi-key operations
	doctorMu sync.Map // map[uuid.UUID]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewSlotReservationService starts the background mutex cleanup.
// Call Stop() during graceful shutdown.
func NewSlotReservationService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, appointmentRepo repository.AppointmentRepository) *SlotReservationService {
	svc := &SlotReservationService{
		db:              db,
		redisClient:     redisClient,
		log:             log,
		appointmentRepo: appointmentRepo,
		stopChan:        make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop gracefully shuts down the service.
// Safe to call multiple times.
func (s *SlotReservationService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("SlotReservationService stopped")
	}
}

// SlotKey returns the Redis key of a doctor's time slot.
func SlotKey(doctorID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s%s:%d", RedisSlotKeyPrefix, doctorID.String(), at.UTC().Unix())
}

// Reserve claims the slot for the appointment or returns ErrSlotTaken.
func (s *SlotReservationService) Reserve(ctx context.Context, doctorID uuid.UUID, at time.Time, appointmentID uuid.UUID) error {
	key := SlotKey(doctorID, at)
	ttl := s.calculateTTL(at)

	ok, err := reserveSlotScript.Run(ctx, s.redisClient, []string{key}, appointmentID.String(), ttl.Milliseconds()).Int()
	if err != nil {
		s.log.Warnf("Failed Lua script Reserve for slot %s: %+v", key, err)
		return fmt.Errorf("lua reserve slot %s: %w", key, err)
	}
	if ok == 0 {
		return ErrSlotTaken
	}

	s.log.Debugf("Reserved slot %s for appointment %s", key, appointmentID)
	return nil
}

// Release frees the slot if the appointment still holds it.
func (s *SlotReservationService) Release(ctx context.Context, doctorID uuid.UUID, at time.Time, appointmentID uuid.UUID) error {
	key := SlotKey(doctorID, at)

	if err := releaseSlotScript.Run(ctx, s.redisClient, []string{key}, appointmentID.String()).Err(); err != nil {
		s.log.Warnf("Failed to release slot %s: %+v", key, err)
		return fmt.Errorf("release slot %s: %w", key, err)
	}

	s.log.Debugf("Released slot %s (appointment %s)", key, appointmentID)
	return nil
}

// Move reserves the new slot first and only then frees the old one, so a
// failed move leaves the original reservation in place.
func (s *SlotReservationService) Move(ctx context.Context, doctorID uuid.UUID, from, to time.Time, appointmentID uuid.UUID) error {
	mt := s.getDoctorMutex(doctorID)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if from.Equal(to) {
		return s.Reserve(ctx, doctorID, to, appointmentID)
	}

	if err := s.Reserve(ctx, doctorID, to, appointmentID); err != nil {
		return err
	}
	return s.Release(ctx, doctorID, from, appointmentID)
}

// SyncOnStartup re-reserves every future non-rejected appointment from
// PostgreSQL. Processes records in batches, one pipeline per batch.
//
// Should be called BEFORE accepting traffic.
func (s *SlotReservationService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting Redis slot re-sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	now := time.Now().UTC()
	offset := 0
	totalSynced := 0

	for {
		appointments, err := s.appointmentRepo.FindUpcomingHeld(ctx, s.db, now, syncBatchSize, offset)
		if err != nil {
			s.log.Errorf("Failed to query appointments at offset %d: %+v", offset, err)
			return fmt.Errorf("query appointments at offset %d: %w", offset, err)
		}

		if len(appointments) == 0 {
			if offset == 0 {
				s.log.Info("No upcoming appointments found for sync")
			}
			break
		}

		s.log.Infof("Processing batch: offset=%d, count=%d", offset, len(appointments))

		pipe := s.redisClient.TxPipeline()
		for _, appointment := range appointments {
			key := SlotKey(appointment.DoctorID, appointment.ScheduledAt)
			pipe.Set(ctx, key, appointment.ID.String(), s.calculateTTL(appointment.ScheduledAt))
		}

		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(appointments)

		if len(appointments) < syncBatchSize {
			break
		}

		offset += syncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Redis slot re-sync completed: %d appointments synced in %v", totalSynced, time.Since(startTime))
	return nil
}

// getDoctorMutex returns mutex for a specific doctor
func (s *SlotReservationService) getDoctorMutex(doctorID uuid.UUID) *mutexWithTimestamp {
	mt, _ := s.doctorMu.LoadOrStore(doctorID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *SlotReservationService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStaleMutexes removes mutexes unused since cutoff. The lastUsed check
// happens under the lock so a concurrent getDoctorMutex is never lost.
func (s *SlotReservationService) cleanupStaleMutexes(cutoff time.Time) int {
	cutoffTime := cutoff.Unix()
	var cleaned int

	s.doctorMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				s.doctorMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
	return cleaned
}

// calculateTTL returns TTL: 24 hours after the appointment time
func (s *SlotReservationService) calculateTTL(at time.Time) time.Duration {
	ttl := time.Until(at.AddDate(0, 0, 1))
	if ttl <= 0 {
		// Past date - short TTL for cleanup
		return 1 * time.Minute
	}
	return ttl
}
