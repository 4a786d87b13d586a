package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestManagerCollectsErrors(t *testing.T) {
	m := NewManager(4)
	ctx := context.Background()
	boom := errors.New("send failed")

	m.Go(ctx, func(context.Context) error { return nil })
	m.Go(ctx, func(context.Context) error { return boom })

	if err := m.Wait(); !errors.Is(err, boom) {
		t.Fatalf("expected the task error, got %v", err)
	}
}

func TestManagerDropsAfterWait(t *testing.T) {
	m := NewManager(4)
	ctx := context.Background()

	if err := m.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	var ran atomic.Bool
	m.Go(ctx, func(context.Context) error {
		ran.Store(true)
		return nil
	})

	if err := m.Wait(); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if ran.Load() {
		t.Fatal("task ran after the manager was drained")
	}
}

func TestManagerDropsWhenFull(t *testing.T) {
	m := NewManager(1)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	var runs atomic.Int32

	m.Go(ctx, func(context.Context) error {
		runs.Add(1)
		close(started)
		<-release
		return nil
	})

	<-started
	m.Go(ctx, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	close(release)

	if err := m.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if got := runs.Load(); got != 1 {
		t.Fatalf("%d tasks ran, the second should have been dropped", got)
	}
}

func TestManagerRecoversPanic(t *testing.T) {
	m := NewManager(2)
	ctx := context.Background()

	m.Go(ctx, func(context.Context) error { panic("handler exploded") })
	m.Go(ctx, func(context.Context) error { return nil })

	if err := m.Wait(); err != nil {
		t.Fatalf("a panic must not surface as a task error, got %v", err)
	}
}

func TestManagerSkipsCanceledContext(t *testing.T) {
	m := NewManager(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	m.Go(ctx, func(context.Context) error {
		ran.Store(true)
		return nil
	})

	if err := m.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if ran.Load() {
		t.Fatal("task ran despite the canceled context")
	}
}

func TestManagerNilReceiver(t *testing.T) {
	var m *Manager

	m.Go(context.Background(), func(context.Context) error { return nil })
	if err := m.Wait(); err != nil {
		t.Fatalf("nil manager wait: %v", err)
	}
}
