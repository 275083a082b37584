package accountrepo

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic on postgres.
//
// Update and UpdatePair hold row locks taken with SELECT ... FOR NO KEY UPDATE
// for the duration of the mutation. The mutation receives a context carrying
// the transaction, so tracker and history writes made through it commit or
// roll back together with the balance.
type RepoPGS struct {
	db          dbpkg.SQLInterface
	conn        *sql.DB
	lockTimeout time.Duration
}

// NewRepoPGS returns account RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB, lockTimeout time.Duration) *RepoPGS {
	return &RepoPGS{
		db:          db,
		conn:        db,
		lockTimeout: lockTimeout,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.Number,
		&a.Customer.FirstName,
		&a.Customer.LastName,
		&a.Type,
		&a.Balance,
		&a.CreatedAt,
	)
	if err != nil {
		return a, err
	}

	a.Limits, err = domain.LimitsFor(a.Type)

	return a, err
}

// mapErr translates storage errors; errors produced by mutations pass through.
func mapErr(l *zerolog.Logger, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrAccountNotFound
	case dbpkg.IsLockError(err), errors.Is(err, context.DeadlineExceeded):
		l.Warn().Err(err).Send()
		return domain.ErrLockTimeout
	case dbpkg.ConstraintOf(err) == "accounts_balance_check":
		return domain.ErrInsufficientFunds
	case dbpkg.IsNumericOverflow(err):
		l.Warn().Err(err).Send()
		return domain.ErrInvalidAmount
	}

	l.Error().Err(err).Send()

	return errorspkg.ErrInternal
}

const nextNumberQuery = `SELECT nextval('account_number_seq')`

// Generate returns the next account number from the database sequence.
func (r *RepoPGS) Generate(ctx context.Context) (string, error) {
	l := zerolog.Ctx(ctx)

	var n int64
	if err := dbpkg.FromContext(ctx, r.db).QueryRowContext(ctx, nextNumberQuery).Scan(&n); err != nil {
		l.Error().Err(err).Send()
		return "", errorspkg.ErrInternal
	}

	return strconv.FormatInt(n, 10), nil
}

const saveQuery = `
INSERT INTO
    accounts (number, first_name, last_name, type, balance, created_at)
VALUES
    ($1, $2, $3, $4, $5, $6)
ON CONFLICT (number) DO UPDATE
SET first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    type = EXCLUDED.type,
    balance = EXCLUDED.balance
`

// Save creates or replaces the account.
func (r *RepoPGS) Save(ctx context.Context, a domain.Account) error {
	l := zerolog.Ctx(ctx)

	_, err := dbpkg.FromContext(ctx, r.db).ExecContext(ctx, saveQuery,
		a.Number,
		a.Customer.FirstName,
		a.Customer.LastName,
		a.Type,
		a.Balance,
		a.CreatedAt,
	)
	if err != nil {
		if dbpkg.IsNumericOverflow(err) {
			return domain.ErrInvalidAmount
		}

		l.Error().Err(err).Msgf("Save(ctx, %q)", a.Number)

		return errorspkg.ErrInternal
	}

	return nil
}

const getQuery = `
SELECT
	number, first_name, last_name, type, balance, created_at
FROM accounts
WHERE number = $1
`

// FindByNumber returns the account with the given number.
func (r *RepoPGS) FindByNumber(ctx context.Context, number string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(dbpkg.FromContext(ctx, r.db).QueryRowContext(ctx, getQuery, number))
	if err != nil {
		return domain.Account{}, mapErr(l, err)
	}

	return a, nil
}

const getForUpdateQuery = `
SELECT
	number, first_name, last_name, type, balance, created_at
FROM accounts
WHERE number = $1
FOR NO KEY UPDATE
`

const listForUpdateQuery = `
SELECT
	number, first_name, last_name, type, balance, created_at
FROM accounts
WHERE number = ANY($1)
ORDER BY number
FOR NO KEY UPDATE
`

const updateBalanceQuery = `
UPDATE accounts
SET balance = $1
WHERE number = $2
`

// errMutation marks errors returned by caller mutations so they are not remapped.
type errMutation struct{ err error }

func (e errMutation) Error() string { return e.err.Error() }
func (e errMutation) Unwrap() error { return e.err }

func (r *RepoPGS) finish(l *zerolog.Logger, err error) error {
	var me errMutation
	if errors.As(err, &me) {
		return me.err
	}

	return mapErr(l, err)
}

// Update applies mutate to the locked account row and stores the new balance.
//
// If mutate fails the transaction is rolled back and the error is returned as is.
func (r *RepoPGS) Update(ctx context.Context, number string, mutate func(context.Context, *domain.Account) error) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	err := dbpkg.WithTx(ctx, r.conn, r.lockTimeout, func(ctx context.Context, tx *sql.Tx) error {
		var err error

		a, err = scanAccount(tx.QueryRowContext(ctx, getForUpdateQuery, number))
		if err != nil {
			return err
		}

		if err := mutate(ctx, &a); err != nil {
			return errMutation{err}
		}

		_, err = tx.ExecContext(ctx, updateBalanceQuery, a.Balance, number)

		return err
	})
	if err != nil {
		return domain.Account{}, r.finish(l, err)
	}

	a.Number = number

	return a, nil
}

// UpdatePair applies mutate to two distinct locked account rows.
//
// Rows are locked in account number order so concurrent pairs cannot deadlock.
func (r *RepoPGS) UpdatePair(
	ctx context.Context,
	first, second string,
	mutate func(ctx context.Context, first, second *domain.Account) error,
) (domain.Account, domain.Account, error) {
	if first == second {
		return domain.Account{}, domain.Account{}, domain.ErrSameAccount
	}

	l := zerolog.Ctx(ctx)

	var a, b domain.Account

	err := dbpkg.WithTx(ctx, r.conn, r.lockTimeout, func(ctx context.Context, tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, listForUpdateQuery, pq.Array([]string{first, second}))
		if err != nil {
			return err
		}
		defer rows.Close()

		found := make(map[string]domain.Account, 2)

		for rows.Next() {
			acc, err := scanAccount(rows)
			if err != nil {
				return err
			}

			found[acc.Number] = acc
		}

		if err := rows.Err(); err != nil {
			return err
		}

		if err := rows.Close(); err != nil {
			return err
		}

		var ok bool
		if a, ok = found[first]; !ok {
			return sql.ErrNoRows
		}

		if b, ok = found[second]; !ok {
			return sql.ErrNoRows
		}

		if err := mutate(ctx, &a, &b); err != nil {
			return errMutation{err}
		}

		for _, acc := range []domain.Account{a, b} {
			if _, err := tx.ExecContext(ctx, updateBalanceQuery, acc.Balance, acc.Number); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return domain.Account{}, domain.Account{}, r.finish(l, err)
	}

	a.Number, b.Number = first, second

	return a, b, nil
}

const existsQuery = `SELECT EXISTS (SELECT 1 FROM accounts WHERE number = $1)`

// Exists reports whether the account is stored.
func (r *RepoPGS) Exists(ctx context.Context, number string) (bool, error) {
	l := zerolog.Ctx(ctx)

	var ok bool
	if err := dbpkg.FromContext(ctx, r.db).QueryRowContext(ctx, existsQuery, number).Scan(&ok); err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	return ok, nil
}

const countQuery = `SELECT count(*) FROM accounts`

// Count returns the number of stored accounts.
func (r *RepoPGS) Count(ctx context.Context) (int, error) {
	l := zerolog.Ctx(ctx)

	var n int
	if err := dbpkg.FromContext(ctx, r.db).QueryRowContext(ctx, countQuery).Scan(&n); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return n, nil
}
