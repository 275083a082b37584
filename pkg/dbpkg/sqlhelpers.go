// Package dbpkg provides helpers to make db initialization and transactions easier.
package dbpkg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Postgres error codes the repositories react to.
const (
	CodeLockNotAvailable = "55P03"
	CodeDeadlockDetected = "40P01"
	CodeNumericOverflow  = "22003"
)

// Setup sets up connection with database.
func Setup(driver, source string) (*sql.DB, error) {
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// SQLInterface provides neccessary db methods to perform queries.
type SQLInterface interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// SetLockTimeoutQuery bounds row lock waits for the current transaction.
const SetLockTimeoutQuery = `SELECT set_config('lock_timeout', $1, true)`

type txKey struct{}

// TxFromContext returns the transaction WithTx attached to ctx.
func TxFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// FromContext returns the transaction carried by ctx, or db when there is none.
func FromContext(ctx context.Context, db SQLInterface) SQLInterface {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}

	return db
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise. A positive lockTimeout bounds row
// lock waits inside the transaction.
//
// The context passed to fn carries the transaction. When ctx already carries
// one, fn joins it and the outermost WithTx decides the outcome.
func WithTx(
	ctx context.Context,
	conn *sql.DB,
	lockTimeout time.Duration,
	fn func(ctx context.Context, tx *sql.Tx) error,
) error {
	if tx, ok := TxFromContext(ctx); ok {
		return fn(ctx, tx)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // no-op after Commit
	}()

	if lockTimeout > 0 {
		ms := fmt.Sprintf("%dms", lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, SetLockTimeoutQuery, ms); err != nil {
			return err
		}
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx), tx); err != nil {
		return err
	}

	return tx.Commit()
}

// IsLockError reports whether err is a postgres lock timeout or deadlock.
func IsLockError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == CodeLockNotAvailable || pqErr.Code == CodeDeadlockDetected
}

// ConstraintOf returns the violated constraint name of a postgres error.
func ConstraintOf(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}

	return ""
}

// IsNumericOverflow reports whether err is a postgres numeric field overflow.
func IsNumericOverflow(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == CodeNumericOverflow
}
