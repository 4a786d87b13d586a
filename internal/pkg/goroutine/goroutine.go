package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/tenangapp/tenang/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine multiplies the CPU count when NewManager gets a
// non-positive limit.
const DefaultMaxGoroutine int = 100

// Manager runs background tasks under a concurrency cap. Task errors are
// collected and handed back from Wait, a full manager drops new tasks
// instead of blocking the caller.
type Manager struct {
	errMu   sync.Mutex
	errs    []error
	wg      sync.WaitGroup
	sema    chan struct{}
	stateMu sync.RWMutex
	closed  bool
}

// NewManager builds a Manager capped at maxGoroutine concurrent tasks.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f on its own goroutine when a slot is free. Once Wait has
// been called, or when every slot is taken, the task is dropped with a
// warning rather than queued.
func (m *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	if m == nil {
		return
	}

	// The read lock spans the wg registration so Wait cannot slip in
	// between the closed check and the task becoming waitable.
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if m.closed {
		slog.WarnContext(ctx, "task manager is draining, dropping task")
		return
	}

	select {
	case m.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "task concurrency limit reached, dropping task")
		return
	}

	m.wg.Go(func() { m.run(ctx, f) })
}

func (m *Manager) run(ctx context.Context, f func(ctx context.Context) error) {
	defer func() {
		<-m.sema

		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic occurred in task", "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic occurred in task", "stack", string(stack))
			}
		}
	}()

	if ctx.Err() != nil {
		slog.WarnContext(ctx, "task canceled before start", "cause", ctx.Err())
		return
	}

	if err := f(ctx); err != nil {
		m.errMu.Lock()
		m.errs = append(m.errs, err)
		m.errMu.Unlock()
	}
}

// Wait stops accepting tasks, blocks until the running ones finish and
// returns their errors joined.
func (m *Manager) Wait() error {
	if m == nil {
		return nil
	}

	m.stateMu.Lock()
	m.closed = true
	m.stateMu.Unlock()

	m.wg.Wait()

	return errors.Join(m.errs...)
}
