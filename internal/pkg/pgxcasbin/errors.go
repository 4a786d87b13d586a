package pgxcasbin

import "errors"

// Store failures.
var (
	ErrInsertRow     = errors.New("failed to insert row")
	ErrUpdateRow     = errors.New("failed to update row")
	ErrDeleteRow     = errors.New("failed to delete row")
	ErrDeleteWhere   = errors.New("failed to delete where")
	ErrSelectWhere   = errors.New("failed to select where")
	ErrScanRow       = errors.New("failed to scan row")
	ErrDeleteAll     = errors.New("failed to delete all rows")
	ErrEmptyPtype    = errors.New("ptype is empty")
	ErrRuleEmpty     = errors.New("rule is empty")
	ErrRuleTooLong   = errors.New("rule length exceeds field count")
	ErrArgsTooLong   = errors.New("args length exceeds field count")
	ErrRulesMismatch = errors.New("oldRules and newRules length mismatch")
)

// Batch and transaction failures.
var (
	ErrBatchExec  = errors.New("failed to execute batch")
	ErrBatchClose = errors.New("failed to close batch")
	ErrBeginTx    = errors.New("failed to begin transaction")
	ErrCommitTx   = errors.New("failed to commit transaction")
	ErrRollbackTx = errors.New("failed to rollback transaction")
)

// Adapter and watcher failures.
var (
	ErrInvalidFilterType = errors.New("invalid filter type")
	ErrPingPool          = errors.New("failed to ping pool")
	ErrUnknownUpdateType = errors.New("unknown update type")
	ErrMarshalMessage    = errors.New("failed to marshal message")
	ErrNotifyMessage     = errors.New("failed to notify")
	ErrAcquireConn       = errors.New("failed to acquire psql connection")
	ErrListenChannel     = errors.New("failed to listen channel")
	ErrWaitNotification  = errors.New("failed to wait for notification")
)
