package transactionrepo

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates transaction repository layer logic on postgres.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    transactions (id, account_number, type, amount, balance_after, created_at)
VALUES
    ($1, $2, $3, $4, $5, $6)
`

// Create appends the transaction to the account history.
func (r *RepoPGS) Create(ctx context.Context, t domain.Transaction) error {
	l := zerolog.Ctx(ctx)

	_, err := dbpkg.FromContext(ctx, r.db).ExecContext(ctx, createQuery,
		t.ID,
		t.AccountNumber,
		t.Type,
		t.Amount,
		t.BalanceAfter,
		t.CreatedAt,
	)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", t)
		return errorspkg.ErrInternal
	}

	return nil
}

const listQuery = `
SELECT
	id, account_number, type, amount, balance_after, created_at
FROM transactions
WHERE account_number = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

// ListByAccount returns up to limit transactions of the account, most recent first.
func (r *RepoPGS) ListByAccount(ctx context.Context, number string, limit int) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := dbpkg.FromContext(ctx, r.db).QueryContext(ctx, listQuery, number, limit)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.AccountNumber,
			&t.Type,
			&t.Amount,
			&t.BalanceAfter,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
