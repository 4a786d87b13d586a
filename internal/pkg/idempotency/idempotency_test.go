package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine",
		testcontainers.WithWaitStrategy(wait.ForAll(
			wait.ForLog("* Ready to accept connections"),
		).WithDeadline(time.Minute)),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}

	url, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}

	client := redis.NewClient(opt)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestStateTrackerAcquire(t *testing.T) {
	tracker := New(startRedis(t))
	ctx := context.Background()

	t.Run("fresh key proceeds", func(t *testing.T) {
		state, err := tracker.Acquire(ctx, "evt-1", time.Minute)
		if err != nil {
			t.Fatalf("acquire: %v", err)
		}
		if state != StateNone {
			t.Fatalf("state %s, want none for a fresh key", state)
		}
	})

	t.Run("concurrent holder is reported", func(t *testing.T) {
		if _, err := tracker.Acquire(ctx, "evt-2", time.Minute); err != nil {
			t.Fatalf("acquire: %v", err)
		}

		state, err := tracker.Acquire(ctx, "evt-2", time.Minute)
		if err != nil {
			t.Fatalf("second acquire: %v", err)
		}
		if state != StateInProgress {
			t.Fatalf("state %s, want in_progress while the lock is held", state)
		}
	})

	t.Run("completed key short circuits", func(t *testing.T) {
		if _, err := tracker.Acquire(ctx, "evt-3", time.Minute); err != nil {
			t.Fatalf("acquire: %v", err)
		}
		if err := tracker.MarkCompleted(ctx, "evt-3", time.Minute); err != nil {
			t.Fatalf("mark completed: %v", err)
		}

		state, err := tracker.Acquire(ctx, "evt-3", time.Minute)
		if err != nil {
			t.Fatalf("acquire: %v", err)
		}
		if state != StateCompleted {
			t.Fatalf("state %s, want completed", state)
		}
	})

	t.Run("failed key is remembered", func(t *testing.T) {
		if _, err := tracker.Acquire(ctx, "evt-4", time.Minute); err != nil {
			t.Fatalf("acquire: %v", err)
		}
		if err := tracker.MarkFailed(ctx, "evt-4", time.Minute); err != nil {
			t.Fatalf("mark failed: %v", err)
		}

		state, err := tracker.Acquire(ctx, "evt-4", time.Minute)
		if err != nil {
			t.Fatalf("acquire: %v", err)
		}
		if state != StateFailed {
			t.Fatalf("state %s, want failed", state)
		}
	})

	t.Run("expired lock frees the key", func(t *testing.T) {
		if _, err := tracker.Acquire(ctx, "evt-5", 100*time.Millisecond); err != nil {
			t.Fatalf("acquire: %v", err)
		}

		time.Sleep(300 * time.Millisecond)

		state, err := tracker.Acquire(ctx, "evt-5", time.Minute)
		if err != nil {
			t.Fatalf("acquire after expiry: %v", err)
		}
		if state != StateNone {
			t.Fatalf("state %s, want none once the abandoned lock lapsed", state)
		}
	})
}

func TestStateTrackerExec(t *testing.T) {
	tracker := New(startRedis(t))
	ctx := context.Background()

	t.Run("runs the work once", func(t *testing.T) {
		runs := 0
		fn := func(context.Context) error { runs++; return nil }

		if err := tracker.Exec(ctx, "job-1", fn); err != nil {
			t.Fatalf("exec: %v", err)
		}
		if err := tracker.Exec(ctx, "job-1", fn); !errors.Is(err, ErrAlreadyCompleted) {
			t.Fatalf("expected already completed, got %v", err)
		}
		if runs != 1 {
			t.Fatalf("work ran %d times", runs)
		}
	})

	t.Run("failure is surfaced and remembered", func(t *testing.T) {
		boom := errors.New("handler blew up")
		runs := 0
		fn := func(context.Context) error { runs++; return boom }

		if err := tracker.Exec(ctx, "job-2", fn); !errors.Is(err, boom) {
			t.Fatalf("expected the handler error, got %v", err)
		}
		if err := tracker.Exec(ctx, "job-2", fn); !errors.Is(err, ErrAlreadyFailed) {
			t.Fatalf("expected already failed, got %v", err)
		}
		if runs != 1 {
			t.Fatalf("work ran %d times", runs)
		}
	})

	t.Run("held lock blocks", func(t *testing.T) {
		if _, err := tracker.Acquire(ctx, "job-3", time.Minute); err != nil {
			t.Fatalf("acquire: %v", err)
		}

		err := tracker.Exec(ctx, "job-3", func(context.Context) error {
			t.Fatal("work must not run while another holder is in flight")
			return nil
		})
		if !errors.Is(err, ErrAlreadyInProgress) {
			t.Fatalf("expected already in progress, got %v", err)
		}
	})

	t.Run("state ttl opens a rerun window", func(t *testing.T) {
		runs := 0
		fn := func(context.Context) error { runs++; return nil }

		if err := tracker.Exec(ctx, "job-4", fn, WithStateTTL(100*time.Millisecond)); err != nil {
			t.Fatalf("exec: %v", err)
		}

		time.Sleep(300 * time.Millisecond)

		if err := tracker.Exec(ctx, "job-4", fn, WithStateTTL(100*time.Millisecond)); err != nil {
			t.Fatalf("exec after state expiry: %v", err)
		}
		if runs != 2 {
			t.Fatalf("work ran %d times, want a rerun once the completion record lapsed", runs)
		}
	})
}
