package pgxcasbin

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
	"github.com/samber/lo"
	"go.uber.org/atomic"
)

// Adapter persists Casbin policies in Postgres through pgx.
type Adapter struct {
	store  *store
	filter *atomic.Bool
}

var (
	_ persist.Adapter                 = (*Adapter)(nil)
	_ persist.ContextAdapter          = (*Adapter)(nil)
	_ persist.FilteredAdapter         = (*Adapter)(nil)
	_ persist.ContextFilteredAdapter  = (*Adapter)(nil)
	_ persist.BatchAdapter            = (*Adapter)(nil)
	_ persist.ContextBatchAdapter     = (*Adapter)(nil)
	_ persist.UpdatableAdapter        = (*Adapter)(nil)
	_ persist.ContextUpdatableAdapter = (*Adapter)(nil)
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithTableName overrides the default rule table name.
func WithTableName(tableName string) Option {
	return func(a *Adapter) {
		a.store.setTableName(tableName)
	}
}

// WithNoRowsAffectedError makes writes that touch zero rows fail with err.
func WithNoRowsAffectedError(err error) Option {
	return func(a *Adapter) {
		a.store.setNoRowsAffectedError(err)
	}
}

// NewAdapter builds an adapter on top of an existing pgx pool or
// connection. The connection is pinged before use.
func NewAdapter(ctx context.Context, db interface {
	driver.Pinger
	Commander
}, opts ...Option) (*Adapter, error) {
	if err := db.Ping(ctx); err != nil {
		return nil, err
	}

	adapter := &Adapter{
		store:  newStore(db),
		filter: atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(adapter)
	}

	return adapter, nil
}

// LoadPolicyCtx loads every stored rule into the model.
func (a *Adapter) LoadPolicyCtx(ctx context.Context, model model.Model) error {
	a.filter.Store(false)
	lines, err := a.store.selectAll(ctx)
	if err != nil {
		return err
	}
	return loadLines(model, lines)
}

// LoadFilteredPolicyCtx loads only the rules matching the filter. The
// filter maps a ptype to OR-ed field value tuples; empty strings skip a
// field.
func (a *Adapter) LoadFilteredPolicyCtx(ctx context.Context, model model.Model, filter interface{}) error {
	if lo.IsNil(filter) {
		return a.LoadPolicyCtx(ctx, model)
	}
	a.filter.Store(true)

	ft, ok := filter.(map[string][][]string)
	if !ok {
		return fmt.Errorf("%w: got %T, want map[ptype][][]fieldValues", ErrInvalidFilterType, filter)
	}

	var lines [][]string
	for ptype, tuples := range ft {
		for _, tuple := range tuples {
			rows, err := a.store.selectWhere(ctx, ptype, 0, tuple...)
			if err != nil {
				return err
			}
			lines = append(lines, rows...)
		}
	}
	lines = lo.UniqBy(lines, func(line []string) string {
		return strings.Join(line, ",")
	})
	if len(lines) == 0 {
		return nil
	}
	return loadLines(model, lines)
}

// IsFilteredCtx reports whether the last load used a filter.
func (a *Adapter) IsFilteredCtx(ctx context.Context) bool {
	return a.filter.Load()
}

// SavePolicyCtx replaces the stored rules with the model contents.
func (a *Adapter) SavePolicyCtx(ctx context.Context, model model.Model) error {
	return a.store.deleteAndInsertAll(ctx, collectRules(model))
}

// AddPolicyCtx stores a single rule.
func (a *Adapter) AddPolicyCtx(ctx context.Context, sec string, ptype string, rule []string) error {
	return a.store.insertRow(ctx, ptype, rule...)
}

// AddPoliciesCtx stores multiple rules in one batch.
func (a *Adapter) AddPoliciesCtx(ctx context.Context, sec string, ptype string, rules [][]string) error {
	return a.store.batchInsert(ctx, ptype, rules)
}

// RemovePolicyCtx deletes a single rule.
func (a *Adapter) RemovePolicyCtx(ctx context.Context, sec string, ptype string, rule []string) error {
	return a.store.deleteRow(ctx, ptype, rule...)
}

// RemovePoliciesCtx deletes multiple rules in one batch.
func (a *Adapter) RemovePoliciesCtx(ctx context.Context, sec string, ptype string, rules [][]string) error {
	return a.store.batchDelete(ctx, ptype, rules)
}

// RemoveFilteredPolicyCtx deletes the rules matching the filter.
func (a *Adapter) RemoveFilteredPolicyCtx(ctx context.Context, sec string, ptype string, fieldIndex int, fieldValues ...string) error {
	return a.store.deleteWhere(ctx, ptype, fieldIndex, fieldValues...)
}

// UpdatePolicyCtx rewrites a single rule in place.
func (a *Adapter) UpdatePolicyCtx(ctx context.Context, sec string, ptype string, oldRule, newRule []string) error {
	return a.store.updateRow(ctx, ptype, oldRule, newRule)
}

// UpdatePoliciesCtx rewrites multiple rules in one batch.
func (a *Adapter) UpdatePoliciesCtx(ctx context.Context, sec string, ptype string, oldRules, newRules [][]string) error {
	return a.store.batchUpdate(ctx, ptype, oldRules, newRules)
}

// UpdateFilteredPoliciesCtx swaps the rules matching the filter for the
// given set and returns the removed rules.
func (a *Adapter) UpdateFilteredPoliciesCtx(ctx context.Context, sec string, ptype string, newRules [][]string, fieldIndex int, fieldValues ...string) ([][]string, error) {
	oldRows, err := a.store.selectWhere(ctx, ptype, fieldIndex, fieldValues...)
	if err != nil {
		return nil, err
	}
	if err := a.store.deleteWhere(ctx, ptype, fieldIndex, fieldValues...); err != nil {
		return nil, err
	}
	if err := a.store.batchInsert(ctx, ptype, newRules); err != nil {
		return nil, err
	}

	oldRules := make([][]string, 0, len(oldRows))
	for _, row := range oldRows {
		if len(row) == 0 {
			continue
		}
		oldRules = append(oldRules, row[1:])
	}
	return oldRules, nil
}

// The context-free persist.Adapter surface delegates to the Ctx variants
// with a background context.

func (a *Adapter) LoadPolicy(model model.Model) error {
	return a.LoadPolicyCtx(context.Background(), model)
}

func (a *Adapter) LoadFilteredPolicy(model model.Model, filter interface{}) error {
	return a.LoadFilteredPolicyCtx(context.Background(), model, filter)
}

func (a *Adapter) IsFiltered() bool {
	return a.IsFilteredCtx(context.Background())
}

func (a *Adapter) SavePolicy(model model.Model) error {
	return a.SavePolicyCtx(context.Background(), model)
}

func (a *Adapter) AddPolicy(sec string, ptype string, rule []string) error {
	return a.AddPolicyCtx(context.Background(), sec, ptype, rule)
}

func (a *Adapter) AddPolicies(sec string, ptype string, rules [][]string) error {
	return a.AddPoliciesCtx(context.Background(), sec, ptype, rules)
}

func (a *Adapter) RemovePolicy(sec string, ptype string, rule []string) error {
	return a.RemovePolicyCtx(context.Background(), sec, ptype, rule)
}

func (a *Adapter) RemovePolicies(sec string, ptype string, rules [][]string) error {
	return a.RemovePoliciesCtx(context.Background(), sec, ptype, rules)
}

func (a *Adapter) RemoveFilteredPolicy(sec string, ptype string, fieldIndex int, fieldValues ...string) error {
	return a.RemoveFilteredPolicyCtx(context.Background(), sec, ptype, fieldIndex, fieldValues...)
}

func (a *Adapter) UpdatePolicy(sec string, ptype string, oldRule, newRule []string) error {
	return a.UpdatePolicyCtx(context.Background(), sec, ptype, oldRule, newRule)
}

func (a *Adapter) UpdatePolicies(sec string, ptype string, oldRules, newRules [][]string) error {
	return a.UpdatePoliciesCtx(context.Background(), sec, ptype, oldRules, newRules)
}

func (a *Adapter) UpdateFilteredPolicies(sec string, ptype string, newRules [][]string, fieldIndex int, fieldValues ...string) ([][]string, error) {
	return a.UpdateFilteredPoliciesCtx(context.Background(), sec, ptype, newRules, fieldIndex, fieldValues...)
}

func collectRules(model model.Model) [][]string {
	var rules [][]string
	for _, section := range []string{"p", "g"} {
		for ptype, ast := range model[section] {
			for _, rule := range ast.Policy {
				rules = append(rules, withPtype(ptype, rule))
			}
		}
	}
	return rules
}

func loadLines(model model.Model, lines [][]string) error {
	for _, line := range lines {
		if err := persist.LoadPolicyArray(line, model); err != nil {
			return err
		}
	}
	return nil
}
