package pgxcasbin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// UpdateType names the kind of policy change carried by a message. The
// values follow the convention shared by Casbin watcher implementations.
type UpdateType string

const (
	Update                        UpdateType = "Update"
	UpdateForAddPolicy            UpdateType = "UpdateForAddPolicy"
	UpdateForRemovePolicy         UpdateType = "UpdateForRemovePolicy"
	UpdateForRemoveFilteredPolicy UpdateType = "UpdateForRemoveFilteredPolicy"
	UpdateForSavePolicy           UpdateType = "UpdateForSavePolicy"
	UpdateForAddPolicies          UpdateType = "UpdateForAddPolicies"
	UpdateForRemovePolicies       UpdateType = "UpdateForRemovePolicies"
	UpdateForUpdatePolicy         UpdateType = "UpdateForUpdatePolicy"
	UpdateForUpdatePolicies       UpdateType = "UpdateForUpdatePolicies"
)

const defaultChannel = "tenang_casbin_watcher"

// MSG is the notification payload exchanged over the listen channel.
type MSG struct {
	Method      UpdateType `json:"method"`
	ID          string     `json:"id"`
	Sec         string     `json:"sec,omitempty"`
	Ptype       string     `json:"ptype,omitempty"`
	OldRules    [][]string `json:"old_rules,omitempty"`
	NewRules    [][]string `json:"new_rules,omitempty"`
	FieldIndex  int        `json:"field_index,omitempty"`
	FieldValues []string   `json:"field_values,omitempty"`
}

// OptionWatcher configures a Watcher instance.
type OptionWatcher struct {
	// Channel sets the Postgres listen channel.
	Channel string
	// Verbose enables payload logging.
	Verbose bool
	// LocalID identifies this watcher instance. Random when empty.
	LocalID string
	// NotifySelf also delivers events this instance published itself.
	NotifySelf bool
}

// Watcher relays policy updates between enforcer instances over Postgres
// listen/notify.
type Watcher struct {
	mu sync.RWMutex

	opt      OptionWatcher
	pool     *pgxpool.Pool
	callback func(string)
	cancel   context.CancelFunc
}

// NewWatcherWithPool starts a watcher on an existing pgx pool. The pool
// stays owned by the caller; Close only stops the listener.
func NewWatcherWithPool(ctx context.Context, pool *pgxpool.Pool, opt OptionWatcher) (*Watcher, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, errors.Join(ErrPingPool, err)
	}

	if opt.Channel == "" {
		opt.Channel = defaultChannel
	}
	if opt.LocalID == "" {
		opt.LocalID = uuid.New().String()
	}

	runCtx, cancel := context.WithCancel(ctx)
	w := &Watcher{opt: opt, pool: pool, cancel: cancel}
	go w.run(runCtx)

	return w, nil
}

// GetChannel returns the configured channel name.
func (w *Watcher) GetChannel() string { return w.opt.Channel }

// GetVerbose reports whether payload logging is enabled.
func (w *Watcher) GetVerbose() bool { return w.opt.Verbose }

// GetLocalID returns the watcher local identifier.
func (w *Watcher) GetLocalID() string { return w.opt.LocalID }

// GetNotifySelf reports whether self-originated events are delivered.
func (w *Watcher) GetNotifySelf() bool { return w.opt.NotifySelf }

// SetUpdateCallback registers the handler invoked on update messages.
func (w *Watcher) SetUpdateCallback(callback func(string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callback = callback
	return nil
}

// Close stops the listener goroutine.
func (w *Watcher) Close() {
	w.cancel()
}

// run keeps the listen connection alive, backing off between failures.
func (w *Watcher) run(ctx context.Context) {
	backoff := retry.WithCappedDuration(5*time.Second, retry.NewFibonacci(200*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := w.listen(ctx)
		if errors.Is(err, context.Canceled) {
			slog.Info("pgxcasbin watcher closed")
			return nil
		}
		if err != nil {
			slog.Error("pgxcasbin failed to listen message", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("pgxcasbin listener stopped with error", "error", err)
	}

	slog.Info("pgxcasbin listener exited")
}

func (w *Watcher) listen(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return errors.Join(ErrAcquireConn, err)
	}
	defer conn.Release()

	if _, err = conn.Exec(ctx, "listen "+w.opt.Channel); err != nil {
		return fmt.Errorf("%w: %s", errors.Join(ErrListenChannel, err), w.opt.Channel)
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			return errors.Join(ErrWaitNotification, err)
		}

		w.dispatch(notification.Payload)
	}
}

func (w *Watcher) dispatch(payload string) {
	if w.opt.Verbose {
		slog.Info("pgxcasbin received message", "channel", w.opt.Channel, "local_id", w.opt.LocalID, "payload", payload)
	}

	var m MSG
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		slog.Error("pgxcasbin failed to unmarshal notification", "payload", payload, "error", err)
		return
	}

	if m.ID == w.opt.LocalID && !w.opt.NotifySelf {
		return
	}

	w.mu.RLock()
	callback := w.callback
	w.mu.RUnlock()

	if callback == nil {
		slog.Warn("pgxcasbin callback is not set, skipping update")
		return
	}
	callback(payload)
}

func (w *Watcher) publish(m *MSG) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("%w: %+v", errors.Join(ErrMarshalMessage, err), m)
	}

	if _, err := w.pool.Exec(context.Background(), "select pg_notify($1, $2)", w.opt.Channel, string(payload)); err != nil {
		return fmt.Errorf("%w: %s", errors.Join(ErrNotifyMessage, err), string(payload))
	}

	if w.opt.Verbose {
		slog.Info("pgxcasbin send message", "channel", w.opt.Channel, "payload", string(payload))
	}

	return nil
}

// Update requests a full policy reload on every peer.
func (w *Watcher) Update() error {
	return w.publish(&MSG{Method: Update, ID: w.opt.LocalID})
}

// UpdateForSavePolicy announces that the whole policy set was rewritten.
func (w *Watcher) UpdateForSavePolicy(model model.Model) error {
	return w.publish(&MSG{Method: UpdateForSavePolicy, ID: w.opt.LocalID})
}

// UpdateForAddPolicy announces a single added rule.
func (w *Watcher) UpdateForAddPolicy(sec, ptype string, params ...string) error {
	return w.publish(&MSG{
		Method:   UpdateForAddPolicy,
		ID:       w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		NewRules: [][]string{params},
	})
}

// UpdateForAddPolicies announces a batch of added rules.
func (w *Watcher) UpdateForAddPolicies(sec string, ptype string, rules ...[]string) error {
	return w.publish(&MSG{
		Method:   UpdateForAddPolicies,
		ID:       w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		NewRules: rules,
	})
}

// UpdateForRemovePolicy announces a single removed rule.
func (w *Watcher) UpdateForRemovePolicy(sec, ptype string, params ...string) error {
	return w.publish(&MSG{
		Method:   UpdateForRemovePolicy,
		ID:       w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		NewRules: [][]string{params},
	})
}

// UpdateForRemovePolicies announces a batch of removed rules.
func (w *Watcher) UpdateForRemovePolicies(sec string, ptype string, rules ...[]string) error {
	return w.publish(&MSG{
		Method:   UpdateForRemovePolicies,
		ID:       w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		NewRules: rules,
	})
}

// UpdateForRemoveFilteredPolicy announces a filtered removal.
func (w *Watcher) UpdateForRemoveFilteredPolicy(sec, ptype string, fieldIndex int, fieldValues ...string) error {
	return w.publish(&MSG{
		Method:      UpdateForRemoveFilteredPolicy,
		ID:          w.opt.LocalID,
		Sec:         sec,
		Ptype:       ptype,
		FieldIndex:  fieldIndex,
		FieldValues: fieldValues,
	})
}

// UpdateForUpdatePolicy announces a single rewritten rule.
func (w *Watcher) UpdateForUpdatePolicy(sec string, ptype string, oldRule, newRule []string) error {
	return w.publish(&MSG{
		Method:   UpdateForUpdatePolicy,
		ID:       w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		OldRules: [][]string{oldRule},
		NewRules: [][]string{newRule},
	})
}

// UpdateForUpdatePolicies announces a batch of rewritten rules.
func (w *Watcher) UpdateForUpdatePolicies(sec string, ptype string, oldRules, newRules [][]string) error {
	return w.publish(&MSG{
		Method:   UpdateForUpdatePolicies,
		ID:       w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		OldRules: oldRules,
		NewRules: newRules,
	})
}

// DefaultCallback returns a watcher callback that replays update messages
// onto the enforcer.
func DefaultCallback(e casbin.IEnforcer) func(string) {
	return func(payload string) {
		var m MSG
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			slog.Error("pgxcasbin unable to unmarshal payload", "payload", payload, "error", err)
			return
		}

		applied, err := applyUpdate(e, m)
		if err != nil {
			slog.Error("pgxcasbin failed to update policy", "error", err)
		}
		if !applied {
			slog.Warn("pgxcasbin callback update policy failed")
		}
	}
}

func applyUpdate(e casbin.IEnforcer, m MSG) (bool, error) {
	switch m.Method {
	case Update, UpdateForSavePolicy:
		return true, e.LoadPolicy()
	case UpdateForAddPolicy:
		if len(m.NewRules) == 0 {
			slog.Warn("pgxcasbin missing new rules for add policy")
			return true, nil
		}
		return e.SelfAddPolicy(m.Sec, m.Ptype, m.NewRules[0])
	case UpdateForAddPolicies:
		return e.SelfAddPolicies(m.Sec, m.Ptype, m.NewRules)
	case UpdateForRemovePolicy:
		if len(m.NewRules) == 0 {
			slog.Warn("pgxcasbin missing new rules for remove policy")
			return true, nil
		}
		return e.SelfRemovePolicy(m.Sec, m.Ptype, m.NewRules[0])
	case UpdateForRemovePolicies:
		return e.SelfRemovePolicies(m.Sec, m.Ptype, m.NewRules)
	case UpdateForRemoveFilteredPolicy:
		return e.SelfRemoveFilteredPolicy(m.Sec, m.Ptype, m.FieldIndex, m.FieldValues...)
	case UpdateForUpdatePolicy:
		if len(m.OldRules) == 0 || len(m.NewRules) == 0 {
			slog.Warn("pgxcasbin missing old or new rules for update policy")
			return true, nil
		}
		return e.SelfUpdatePolicy(m.Sec, m.Ptype, m.OldRules[0], m.NewRules[0])
	case UpdateForUpdatePolicies:
		return e.SelfUpdatePolicies(m.Sec, m.Ptype, m.OldRules, m.NewRules)
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownUpdateType, m.Method)
	}
}
