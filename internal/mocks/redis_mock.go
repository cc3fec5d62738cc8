package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

// MockRedisClient covers the Redis commands used by the slot locker and the
// health check.
type MockRedisClient struct {
	mu   sync.RWMutex
	data map[string]mockRedisValue

	SetNXError error
	EvalError  error
	PingError  error
}

type mockRedisValue struct {
	value     string
	expiresAt time.Time
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{data: make(map[string]mockRedisValue)}
}

func (m *MockRedisClient) live(key string) (mockRedisValue, bool) {
	v, ok := m.data[key]
	if !ok {
		return v, false
	}
	if !v.expiresAt.IsZero() && time.Now().After(v.expiresAt) {
		return v, false
	}
	return v, true
}

func (m *MockRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewBoolCmd(ctx)
	if m.SetNXError != nil {
		cmd.SetErr(m.SetNXError)
		return cmd
	}
	if _, ok := m.live(key); ok {
		cmd.SetVal(false)
		return cmd
	}
	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = time.Now().Add(expiration)
	}
	m.data[key] = mockRedisValue{value: fmt.Sprint(value), expiresAt: expiresAt}
	cmd.SetVal(true)
	return cmd
}

// Eval emulates the compare-and-delete release script: it removes keys[0]
// when its value equals args[0].
func (m *MockRedisClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewCmd(ctx)
	if m.EvalError != nil {
		cmd.SetErr(m.EvalError)
		return cmd
	}
	if len(keys) == 0 || len(args) == 0 {
		cmd.SetVal(int64(0))
		return cmd
	}
	v, ok := m.live(keys[0])
	if !ok || v.value != fmt.Sprint(args[0]) {
		cmd.SetVal(int64(0))
		return cmd
	}
	delete(m.data, keys[0])
	cmd.SetVal(int64(1))
	return cmd
}

func (m *MockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.PingError != nil {
		cmd.SetErr(m.PingError)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

// HasKey reports whether key is present and not expired.
func (m *MockRedisClient) HasKey(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.live(key)
	return ok
}

// MockSlotLocker grants or refuses slot locks on demand.
type MockSlotLocker struct {
	mu sync.Mutex

	Held         map[string]bool
	AcquireError error
	AcquireCalls int
	ReleaseCalls int
}

var _ ports.SlotLocker = (*MockSlotLocker)(nil)

func NewMockSlotLocker() *MockSlotLocker {
	return &MockSlotLocker{Held: make(map[string]bool)}
}

func SlotKey(doctorID int64, at time.Time) string {
	return fmt.Sprintf("%d@%s", doctorID, at.Format(time.RFC3339))
}

func (m *MockSlotLocker) Acquire(ctx context.Context, doctorID int64, at time.Time) (func(), bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AcquireCalls++
	if m.AcquireError != nil {
		return nil, false, m.AcquireError
	}
	key := SlotKey(doctorID, at)
	if m.Held[key] {
		return nil, false, nil
	}
	m.Held[key] = true
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.ReleaseCalls++
		delete(m.Held, key)
	}, true, nil
}
