package pgxcasbin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"
)

const (
	defaultTableName = "casbin_rule"
	ruleFields       = 6
)

// Commander defines the pgx operations required by the adapter store.
type Commander interface {
	Begin(context.Context) (pgx.Tx, error)
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// store renders the rule table statements once per table name so the hot
// paths only bind arguments.
type store struct {
	db       Commander
	table    string
	emptyErr error

	insertSQL   string
	updateSQL   string
	deleteSQL   string
	selectSQL   string
	truncateSQL string
}

func newStore(db Commander) *store {
	s := &store{db: db}
	s.setTableName(defaultTableName)
	return s
}

func (s *store) setTableName(name string) {
	s.table = lo.SnakeCase(name)

	cols := lo.Times(ruleFields, func(i int) string { return "v" + strconv.Itoa(i) })
	binds := lo.Times(ruleFields, func(i int) string { return "$" + strconv.Itoa(i+2) })
	assigns := lo.Times(ruleFields, func(i int) string { return cols[i] + " = " + binds[i] })
	shifted := lo.Times(ruleFields, func(i int) string {
		return cols[i] + " = $" + strconv.Itoa(i+ruleFields+2)
	})
	colList := strings.Join(cols, ",")

	s.insertSQL = fmt.Sprintf("insert into %s (ptype, %s) values ($1, %s) on conflict (ptype, %s) do nothing",
		s.table, colList, strings.Join(binds, ","), colList)
	s.updateSQL = fmt.Sprintf("update %s set %s where ptype = $1 and %s",
		s.table, strings.Join(assigns, ", "), strings.Join(shifted, " and "))
	s.deleteSQL = fmt.Sprintf("delete from %s where ptype = $1 and %s",
		s.table, strings.Join(assigns, " and "))
	s.selectSQL = fmt.Sprintf("select ptype, %s from %s", colList, s.table)
	s.truncateSQL = fmt.Sprintf("truncate table %s restart identity", s.table)
}

func (s *store) setNoRowsAffectedError(err error) {
	s.emptyErr = err
}

func (s *store) insertRow(ctx context.Context, ptype string, rule ...string) error {
	padded, err := padRule(rule)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, s.insertSQL, lo.ToAnySlice(withPtype(ptype, padded))...)
	if err != nil {
		return errors.Join(ErrInsertRow, err)
	}
	if tag.RowsAffected() == 0 {
		return s.emptyErr
	}
	return nil
}

func (s *store) updateRow(ctx context.Context, ptype string, old, updated []string) error {
	paddedOld, err := padRule(old)
	if err != nil {
		return err
	}
	paddedNew, err := padRule(updated)
	if err != nil {
		return err
	}

	args := withPtype(ptype, append(paddedNew, paddedOld...))
	tag, err := s.db.Exec(ctx, s.updateSQL, lo.ToAnySlice(args)...)
	if err != nil {
		return errors.Join(ErrUpdateRow, err)
	}
	if tag.RowsAffected() == 0 {
		return s.emptyErr
	}
	return nil
}

func (s *store) deleteRow(ctx context.Context, ptype string, rule ...string) error {
	padded, err := padRule(rule)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, s.deleteSQL, lo.ToAnySlice(withPtype(ptype, padded))...)
	if err != nil {
		return errors.Join(ErrDeleteRow, err)
	}
	if tag.RowsAffected() == 0 {
		return s.emptyErr
	}
	return nil
}

func (s *store) deleteWhere(ctx context.Context, ptype string, startIdx int, values ...string) error {
	if ptype == "" {
		return ErrEmptyPtype
	}
	if len(values) > ruleFields-startIdx {
		return fmt.Errorf("%w: %d > %d", ErrArgsTooLong, len(values), ruleFields-startIdx)
	}

	where, args := buildFilter(ptype, startIdx, values)
	tag, err := s.db.Exec(ctx, "delete from "+s.table+" where "+where, args...)
	if err != nil {
		return errors.Join(ErrDeleteWhere, err)
	}
	if tag.RowsAffected() == 0 {
		return s.emptyErr
	}
	return nil
}

func (s *store) selectAll(ctx context.Context) ([][]string, error) {
	return s.selectWhere(ctx, "", 0)
}

func (s *store) selectWhere(ctx context.Context, ptype string, startIdx int, values ...string) ([][]string, error) {
	if len(values) > ruleFields-startIdx {
		return nil, fmt.Errorf("%w: %d > %d", ErrArgsTooLong, len(values), ruleFields-startIdx)
	}

	query := s.selectSQL
	where, args := buildFilter(ptype, startIdx, values)
	if where != "" {
		query += " where " + where
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrSelectWhere, err)
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		line, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	return result, nil
}

// deleteAndInsertAll truncates the rule table and loads the given full
// rows (ptype first) inside one transaction.
func (s *store) deleteAndInsertAll(ctx context.Context, rules [][]string) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.Join(ErrBeginTx, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, ErrRollbackTx, rbErr)
			}
		}
	}()

	if _, err = tx.Exec(ctx, s.truncateSQL); err != nil {
		return errors.Join(ErrDeleteAll, err)
	}

	batch := &pgx.Batch{}
	for _, rule := range rules {
		row, rowErr := padRow(rule)
		if rowErr != nil {
			return rowErr
		}
		batch.Queue(s.insertSQL, lo.ToAnySlice(row)...)
	}
	if batch.Len() > 0 {
		if err = s.drain(tx.SendBatch(ctx, batch), batch.Len(), true); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.Join(ErrCommitTx, err)
	}
	return nil
}

func (s *store) batchInsert(ctx context.Context, ptype string, rules [][]string) error {
	if len(rules) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rule := range rules {
		padded, err := padRule(rule)
		if err != nil {
			return err
		}
		batch.Queue(s.insertSQL, lo.ToAnySlice(withPtype(ptype, padded))...)
	}
	return s.drain(s.db.SendBatch(ctx, batch), batch.Len(), false)
}

func (s *store) batchDelete(ctx context.Context, ptype string, rules [][]string) error {
	if len(rules) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rule := range rules {
		padded, err := padRule(rule)
		if err != nil {
			return err
		}
		batch.Queue(s.deleteSQL, lo.ToAnySlice(withPtype(ptype, padded))...)
	}
	return s.drain(s.db.SendBatch(ctx, batch), batch.Len(), false)
}

func (s *store) batchUpdate(ctx context.Context, ptype string, oldRules, newRules [][]string) error {
	if len(oldRules) == 0 || len(newRules) == 0 {
		return nil
	}
	if len(oldRules) != len(newRules) {
		return fmt.Errorf("%w: %d vs %d", ErrRulesMismatch, len(oldRules), len(newRules))
	}

	batch := &pgx.Batch{}
	for i := range oldRules {
		paddedOld, err := padRule(oldRules[i])
		if err != nil {
			return err
		}
		paddedNew, err := padRule(newRules[i])
		if err != nil {
			return err
		}
		batch.Queue(s.updateSQL, lo.ToAnySlice(withPtype(ptype, append(paddedNew, paddedOld...)))...)
	}
	return s.drain(s.db.SendBatch(ctx, batch), batch.Len(), false)
}

// drain consumes every queued result. With strict set, a statement that
// touches zero rows fails using the configured error.
func (s *store) drain(br pgx.BatchResults, n int, strict bool) error {
	for i := 0; i < n; i++ {
		tag, err := br.Exec()
		if err != nil {
			return errors.Join(ErrBatchExec, err, closeBatch(br))
		}
		if strict && tag.RowsAffected() == 0 && s.emptyErr != nil {
			return errors.Join(s.emptyErr, closeBatch(br))
		}
	}
	return closeBatch(br)
}

func closeBatch(br pgx.BatchResults) error {
	if err := br.Close(); err != nil {
		return errors.Join(ErrBatchClose, err)
	}
	return nil
}

// buildFilter renders the where clause for the optional ptype plus any
// non-empty field values starting at startIdx.
func buildFilter(ptype string, startIdx int, values []string) (string, []any) {
	conditions := make([]string, 0, 1+len(values))
	args := make([]any, 0, 1+len(values))
	if ptype != "" {
		conditions = append(conditions, "ptype = $1")
		args = append(args, ptype)
	}
	for i, v := range values {
		if v == "" {
			continue
		}
		conditions = append(conditions, "v"+strconv.Itoa(i+startIdx)+" = $"+strconv.Itoa(len(args)+1))
		args = append(args, v)
	}
	return strings.Join(conditions, " and "), args
}

func scanRule(rows pgx.Rows) ([]string, error) {
	cells := make([]sql.NullString, ruleFields+1)
	targets := make([]any, len(cells))
	for i := range cells {
		targets[i] = &cells[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, errors.Join(ErrScanRow, err)
	}

	line := make([]string, len(cells))
	for i, cell := range cells {
		if cell.Valid {
			line[i] = cell.String
		}
	}
	return trimTrailingEmpty(line), nil
}

// padRule right-pads a rule with empty strings to the column count.
func padRule(rule []string) ([]string, error) {
	if len(rule) > ruleFields {
		return nil, fmt.Errorf("%w: %d > %d", ErrRuleTooLong, len(rule), ruleFields)
	}
	padded := make([]string, ruleFields)
	copy(padded, rule)
	return padded, nil
}

// padRow pads a full row whose first element is the ptype.
func padRow(row []string) ([]string, error) {
	if len(row) == 0 {
		return nil, ErrRuleEmpty
	}
	padded, err := padRule(row[1:])
	if err != nil {
		return nil, err
	}
	return withPtype(row[0], padded), nil
}

func withPtype(ptype string, rule []string) []string {
	out := make([]string, 1+len(rule))
	out[0] = ptype
	copy(out[1:], rule)
	return out
}

func trimTrailingEmpty(rule []string) []string {
	last := len(rule) - 1
	for last >= 0 && rule[last] == "" {
		last--
	}
	return rule[:last+1]
}
