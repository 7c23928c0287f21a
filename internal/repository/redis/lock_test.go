package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"clubsphere/internal/repository"

	"github.com/google/uuid"
)

// Set CLUBSPHERE_TEST_REDIS_ADDR to run against a live server.
func testLocker(t *testing.T) *Locker {
	t.Helper()
	addr := os.Getenv("CLUBSPHERE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CLUBSPHERE_TEST_REDIS_ADDR not set")
	}
	client, err := NewClient(addr, "", 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewLocker(client, time.Second)
}

func TestLockerExclusive(t *testing.T) {
	l := testLocker(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	release, err := l.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := l.Acquire(ctx, key); !errors.Is(err, repository.ErrLocked) {
		t.Fatalf("second acquire: got %v, want ErrLocked", err)
	}
	release()

	again, err := l.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again()
}

func TestLockerExpires(t *testing.T) {
	l := testLocker(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	stale, err := l.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	time.Sleep(1500 * time.Millisecond)

	fresh, err := l.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("acquire after ttl: %v", err)
	}
	// Releasing the expired holder must not free the new one.
	stale()
	if _, err := l.Acquire(ctx, key); !errors.Is(err, repository.ErrLocked) {
		t.Fatalf("stale release freed the key: %v", err)
	}
	fresh()
}
