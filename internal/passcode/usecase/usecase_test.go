package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tenangapp/tenang/internal/passcode/entity"
	"github.com/tenangapp/tenang/internal/pkg/config"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/validator"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeUID struct {
	mu   sync.Mutex
	next int64
}

func (u *fakeUID) Generate() int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.next++
	return u.next
}

type stubConfig struct {
	config.Config
	second time.Duration
}

func (c stubConfig) GetSecond(string) time.Duration { return c.second }

// fakeStore keeps entries in memory and mirrors the real store's FindActive
// filtering. skipFilters hands back raw rows so the engine's own guards can
// be exercised.
type fakeStore struct {
	mu          sync.Mutex
	clock       *fakeClock
	rows        map[int64]*entity.Passcode
	skipFilters bool
	incrMisses  int
	failOn      map[string]error
}

func newFakeStore(clk *fakeClock) *fakeStore {
	return &fakeStore{
		clock:  clk,
		rows:   map[int64]*entity.Passcode{},
		failOn: map[string]error{},
	}
}

func (f *fakeStore) DeleteUnused(_ context.Context, userID int64, ch entity.Channel, p entity.Purpose) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["DeleteUnused"]; err != nil {
		return 0, err
	}

	var n int64
	for id, pc := range f.rows {
		if pc.UserID == userID && pc.Channel == ch && pc.Purpose == p && !pc.Used {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) Create(_ context.Context, pc entity.Passcode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["Create"]; err != nil {
		return err
	}

	cp := pc
	f.rows[pc.ID] = &cp
	return nil
}

func (f *fakeStore) FindActive(_ context.Context, userID int64, ch entity.Channel, p entity.Purpose) (*entity.Passcode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["FindActive"]; err != nil {
		return nil, err
	}

	var found *entity.Passcode
	for _, pc := range f.rows {
		if pc.UserID != userID || pc.Channel != ch || pc.Purpose != p {
			continue
		}
		if !f.skipFilters && (pc.Used || pc.IsExpired(f.clock.Now()) || pc.IsExhausted()) {
			continue
		}
		if found == nil || pc.CreatedAt.After(found.CreatedAt) ||
			(pc.CreatedAt.Equal(found.CreatedAt) && pc.ID > found.ID) {
			found = pc
		}
	}

	if found == nil {
		return nil, goerror.ErrNotFound
	}

	cp := *found
	return &cp, nil
}

func (f *fakeStore) IncrementAttempts(_ context.Context, id int64, expected int16) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["IncrementAttempts"]; err != nil {
		return false, err
	}
	if f.incrMisses > 0 {
		f.incrMisses--
		return false, nil
	}

	pc, ok := f.rows[id]
	if !ok || pc.Used || pc.Attempts != expected {
		return false, nil
	}
	pc.Attempts++
	return true, nil
}

func (f *fakeStore) MarkUsed(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["MarkUsed"]; err != nil {
		return false, err
	}

	pc, ok := f.rows[id]
	if !ok || pc.Used {
		return false, nil
	}
	pc.Used = true
	return true, nil
}

func (f *fakeStore) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["DeleteExpired"]; err != nil {
		return 0, err
	}

	var n int64
	for id, pc := range f.rows {
		if pc.IsExpired(f.clock.Now()) {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) unusedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, pc := range f.rows {
		if !pc.Used {
			n++
		}
	}
	return n
}

func (f *fakeStore) onlyRow(t *testing.T) entity.Passcode {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.rows) != 1 {
		t.Fatalf("expected exactly one stored passcode, got %d", len(f.rows))
	}
	for _, pc := range f.rows {
		return *pc
	}
	return entity.Passcode{}
}

func newTestEngine(t *testing.T, store *fakeStore, clk *fakeClock, cfg config.Config) *Engine {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	if cfg == nil {
		cfg = stubConfig{}
	}

	return New(Dependency{
		RepoDB:     store,
		Validator:  v,
		Config:     cfg,
		UID:        &fakeUID{},
		Clock:      clk,
		Instrument: instrument.NewNoop(),
	})
}

func mustIssue(t *testing.T, e *Engine, in IssueInput) *IssueOutput {
	t.Helper()

	out, err := e.Issue(context.Background(), in)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return out
}

func assertServerError(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("expected an error, got nil")
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a goerror, got %T: %v", err, err)
	}
	if gerr.Type() != goerror.TypeServer {
		t.Fatalf("expected server error type, got %s", gerr.Type())
	}
}
