package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/config"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

// DefaultLockTTL bounds how long a crashed booking can hold a slot.
const DefaultLockTTL = 10 * time.Second

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// Client is the subset of *redis.Client the locker needs.
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type RedisSlotLocker struct {
	client Client
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker
	logger zerolog.Logger
}

var _ ports.SlotLocker = (*RedisSlotLocker)(nil)

func NewRedisSlotLocker(client Client, ttl time.Duration, logger zerolog.Logger) *RedisSlotLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RedisSlotLocker{
		client: client,
		ttl:    ttl,
		cb:     config.NewCircuitBreaker(config.BreakerRedisLock),
		logger: logger.With().Str("component", "slot_locker").Logger(),
	}
}

func slotKey(doctorID int64, at time.Time) string {
	return fmt.Sprintf("slot-lock:%d:%s", doctorID, at.Format("2006-01-02T15:04:05"))
}

// Acquire takes the lock for one doctor and timestamp. ok is false when
// another booking holds it; err is set when Redis could not be asked.
func (l *RedisSlotLocker) Acquire(ctx context.Context, doctorID int64, at time.Time) (func(), bool, error) {
	key := slotKey(doctorID, at)
	token := uuid.NewString()

	res, err := l.cb.Execute(func() (interface{}, error) {
		return l.client.SetNX(ctx, key, token, l.ttl).Result()
	})
	if err != nil {
		return nil, false, fmt.Errorf("acquire %s: %w", key, err)
	}
	if acquired, _ := res.(bool); !acquired {
		return nil, false, nil
	}

	release := func() {
		// detached so a cancelled request still frees the slot
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := l.client.Eval(rctx, releaseScript, []string{key}, token).Err(); err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("failed to release slot lock")
		}
	}
	return release, true, nil
}
