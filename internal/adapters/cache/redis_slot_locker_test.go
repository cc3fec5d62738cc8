package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/mocks"
)

func TestRedisSlotLocker_AcquireRelease(t *testing.T) {
	client := mocks.NewMockRedisClient()
	locker := NewRedisSlotLocker(client, time.Minute, zerolog.Nop())
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	release, ok, err := locker.Acquire(ctx, 7, at)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if !client.HasKey(slotKey(7, at)) {
		t.Fatal("lock key not set")
	}

	if _, ok, err := locker.Acquire(ctx, 7, at); err != nil || ok {
		t.Fatalf("second acquire should be refused: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := locker.Acquire(ctx, 8, at); !ok {
		t.Error("other doctor should not be blocked")
	}

	release()
	if client.HasKey(slotKey(7, at)) {
		t.Fatal("lock key not released")
	}
	if _, ok, _ := locker.Acquire(ctx, 7, at); !ok {
		t.Error("slot should be free after release")
	}
}

func TestRedisSlotLocker_ReleaseKeepsForeignLock(t *testing.T) {
	client := mocks.NewMockRedisClient()
	locker := NewRedisSlotLocker(client, 10*time.Millisecond, zerolog.Nop())
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	staleRelease, ok, _ := locker.Acquire(ctx, 1, at)
	if !ok {
		t.Fatal("acquire failed")
	}
	time.Sleep(20 * time.Millisecond)

	if _, ok, _ := locker.Acquire(ctx, 1, at); !ok {
		t.Fatal("expired lock should be re-acquirable")
	}
	staleRelease()
	if !client.HasKey(slotKey(1, at)) {
		t.Error("stale release removed the new holder's lock")
	}
}

func TestRedisSlotLocker_BackendError(t *testing.T) {
	client := mocks.NewMockRedisClient()
	client.SetNXError = errors.New("connection refused")
	locker := NewRedisSlotLocker(client, time.Minute, zerolog.Nop())

	_, ok, err := locker.Acquire(context.Background(), 1, time.Now())
	if err == nil || ok {
		t.Fatalf("expected error, got ok=%v err=%v", ok, err)
	}
}
