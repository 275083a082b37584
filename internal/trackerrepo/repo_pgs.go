package trackerrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates tracker repository layer logic on postgres.
type RepoPGS struct {
	db          dbpkg.SQLInterface
	conn        *sql.DB
	lockTimeout time.Duration
}

// NewRepoPGS returns tracker RepoPGS.
func NewRepoPGS(db *sql.DB, lockTimeout time.Duration) *RepoPGS {
	return &RepoPGS{
		db:          db,
		conn:        db,
		lockTimeout: lockTimeout,
	}
}

const findQuery = `
SELECT
	total_withdrawals, withdrawal_count
FROM daily_trackers
WHERE account_number = $1 AND day = $2
`

// Find returns the tracker for the account and day. Without activity it
// returns a zeroed tracker.
func (r *RepoPGS) Find(ctx context.Context, number, day string) (domain.DailyTracker, error) {
	l := zerolog.Ctx(ctx)

	t := domain.DailyTracker{AccountNumber: number, Day: day}

	err := dbpkg.FromContext(ctx, r.db).QueryRowContext(ctx, findQuery, number, day).Scan(&t.TotalWithdrawals, &t.WithdrawalCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, nil
		}

		l.Error().Err(err).Send()

		return domain.DailyTracker{}, errorspkg.ErrInternal
	}

	return t, nil
}

const ensureQuery = `
INSERT INTO
    daily_trackers (account_number, day, total_withdrawals, withdrawal_count)
VALUES
    ($1, $2, 0, 0)
ON CONFLICT (account_number, day) DO NOTHING
`

const findForUpdateQuery = `
SELECT
	total_withdrawals, withdrawal_count
FROM daily_trackers
WHERE account_number = $1 AND day = $2
FOR NO KEY UPDATE
`

const updateQuery = `
UPDATE daily_trackers
SET total_withdrawals = $1, withdrawal_count = $2
WHERE account_number = $3 AND day = $4
`

// Update applies mutate to the locked tracker row, creating it on first access.
//
// Inside an account transaction carried by ctx the write joins it.
func (r *RepoPGS) Update(
	ctx context.Context,
	number, day string,
	mutate func(*domain.DailyTracker) error,
) (domain.DailyTracker, error) {
	l := zerolog.Ctx(ctx)

	t := domain.DailyTracker{AccountNumber: number, Day: day}

	var mutateErr error

	err := dbpkg.WithTx(ctx, r.conn, r.lockTimeout, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, ensureQuery, number, day); err != nil {
			return err
		}

		if err := tx.QueryRowContext(ctx, findForUpdateQuery, number, day).
			Scan(&t.TotalWithdrawals, &t.WithdrawalCount); err != nil {
			return err
		}

		if err := mutate(&t); err != nil {
			mutateErr = err
			return err
		}

		_, err := tx.ExecContext(ctx, updateQuery, t.TotalWithdrawals, t.WithdrawalCount, number, day)

		return err
	})

	switch {
	case err == nil:
		return t, nil
	case mutateErr != nil:
		return domain.DailyTracker{}, mutateErr
	case dbpkg.IsLockError(err), errors.Is(err, context.DeadlineExceeded):
		l.Warn().Err(err).Send()
		return domain.DailyTracker{}, domain.ErrLockTimeout
	case dbpkg.IsNumericOverflow(err):
		l.Warn().Err(err).Send()
		return domain.DailyTracker{}, domain.ErrInvalidAmount
	}

	l.Error().Err(err).Str("account", number).Str("day", day).Send()

	return domain.DailyTracker{}, errorspkg.ErrInternal
}

const deleteBeforeQuery = `DELETE FROM daily_trackers WHERE day < $1`

// DeleteBefore removes trackers of days before the given one.
func (r *RepoPGS) DeleteBefore(ctx context.Context, day string) (int, error) {
	l := zerolog.Ctx(ctx)

	res, err := dbpkg.FromContext(ctx, r.db).ExecContext(ctx, deleteBeforeQuery, day)
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return int(n), nil
}
