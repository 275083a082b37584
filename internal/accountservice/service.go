// Package accountservice manages business logic layer of the ledger.
//
// Every balance change is expressed as a mutation handed to the account
// repository, which applies it atomically per account. Limit checks, the
// debit and the tracker update run inside that same mutation.
package accountservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// DefaultHistoryLimit is the number of transactions returned when no limit is given.
const DefaultHistoryLimit = 10

// AccountRepo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type AccountRepo interface {
	FindByNumber(ctx context.Context, number string) (domain.Account, error)
	Save(ctx context.Context, a domain.Account) error
	Update(ctx context.Context, number string, mutate func(context.Context, *domain.Account) error) (domain.Account, error)
	UpdatePair(ctx context.Context, first, second string, mutate func(ctx context.Context, first, second *domain.Account) error) (domain.Account, domain.Account, error)
	Exists(ctx context.Context, number string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// TransactionRepo stores the transaction history.
type TransactionRepo interface {
	Create(ctx context.Context, t domain.Transaction) error
	ListByAccount(ctx context.Context, number string, limit int) ([]domain.Transaction, error)
}

// Limits validates and records withdrawals against daily limits.
type Limits interface {
	ValidateWithdrawal(ctx context.Context, number string, amount domain.Money, limits *domain.AccountLimits) error
	RecordWithdrawal(ctx context.Context, number string, amount domain.Money) error
}

// NumberGenerator returns account numbers unique for the store lifetime.
type NumberGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// Service facilitates ledger service layer logic.
type Service struct {
	accounts     AccountRepo
	transactions TransactionRepo
	limits       Limits
	numbers      NumberGenerator
	historyLimit int
}

// New returns account service struct to manage ledger bussines logic.
func New(ar AccountRepo, tr TransactionRepo, ls Limits, gen NumberGenerator, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}

	return &Service{
		accounts:     ar,
		transactions: tr,
		limits:       ls,
		numbers:      gen,
		historyLimit: historyLimit,
	}
}

func (s *Service) record(ctx context.Context, a domain.Account, typ domain.TransactionType, amount domain.Money) (domain.Transaction, error) {
	t := domain.Transaction{
		ID:            uuid.NewString(),
		AccountNumber: a.Number,
		Type:          typ,
		Amount:        amount,
		BalanceAfter:  a.Balance,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.transactions.Create(ctx, t); err != nil {
		return domain.Transaction{}, err
	}

	return t, nil
}

// Open creates an account for the customer and applies a positive initial deposit.
func (s *Service) Open(ctx context.Context, arg domain.OpenAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	if !arg.Type.Valid() {
		return domain.Account{}, fmt.Errorf("%w: %q", domain.ErrInvalidAccountType, arg.Type)
	}

	customer, err := domain.NewCustomer(arg.Customer.FirstName, arg.Customer.LastName)
	if err != nil {
		return domain.Account{}, err
	}

	deposit := domain.ZeroMoney
	if arg.InitialDeposit != nil && arg.InitialDeposit.IsPositive() {
		deposit = *arg.InitialDeposit
	}

	if floor := arg.Type.MinimumOpeningDeposit(); deposit.LessThan(floor) {
		return domain.Account{}, fmt.Errorf("%w: %s account requires at least %s",
			domain.ErrOpeningDepositTooLow, arg.Type, floor.Formatted())
	}

	number, err := s.numbers.Generate(ctx)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, err
	}

	account, err := domain.NewAccount(number, customer, arg.Type)
	if err != nil {
		return domain.Account{}, err
	}

	if deposit.IsPositive() {
		if err := account.Deposit(deposit); err != nil {
			return domain.Account{}, err
		}
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return domain.Account{}, err
	}

	if deposit.IsPositive() {
		if _, err := s.record(ctx, account, domain.TransactionDeposit, deposit); err != nil {
			return domain.Account{}, err
		}
	}

	l.Info().Str("account", account.Number).Str("type", string(account.Type)).Msg("account opened")

	return account, nil
}

// Deposit adds amount to the account and returns the new balance.
func (s *Service) Deposit(ctx context.Context, number string, amount domain.Money) (domain.Money, error) {
	number, err := domain.NormalizeAccountNumber(number)
	if err != nil {
		return domain.Money{}, err
	}

	a, err := s.accounts.Update(ctx, number, func(ctx context.Context, a *domain.Account) error {
		if err := a.Deposit(amount); err != nil {
			return err
		}

		_, err := s.record(ctx, *a, domain.TransactionDeposit, amount)

		return err
	})
	if err != nil {
		return domain.Money{}, err
	}

	return a.Balance, nil
}

// debit runs the limit check, the withdrawal and the tracker record on a
// locked account. It must only be called from inside a repository mutation.
func (s *Service) debit(ctx context.Context, a *domain.Account, amount domain.Money) error {
	if err := s.limits.ValidateWithdrawal(ctx, a.Number, amount, &a.Limits); err != nil {
		return err
	}

	return a.Withdraw(amount)
}

// Withdraw takes amount from the account and returns the new balance.
func (s *Service) Withdraw(ctx context.Context, number string, amount domain.Money) (domain.Money, error) {
	number, err := domain.NormalizeAccountNumber(number)
	if err != nil {
		return domain.Money{}, err
	}

	a, err := s.accounts.Update(ctx, number, func(ctx context.Context, a *domain.Account) error {
		if err := s.debit(ctx, a, amount); err != nil {
			return err
		}

		if err := s.limits.RecordWithdrawal(ctx, a.Number, amount); err != nil {
			return err
		}

		_, err := s.record(ctx, *a, domain.TransactionWithdraw, amount)

		return err
	})
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("account", number).Msg("withdrawal rejected")
		return domain.Money{}, err
	}

	return a.Balance, nil
}

// Transfer moves amount between two accounts in a single critical section
// holding both accounts, so either both legs apply or none does.
func (s *Service) Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferResult, error) {
	var result domain.TransferResult

	from, err := domain.NormalizeAccountNumber(arg.FromAccountNumber)
	if err != nil {
		return result, err
	}

	to, err := domain.NormalizeAccountNumber(arg.ToAccountNumber)
	if err != nil {
		return result, err
	}

	if from == to {
		return result, domain.ErrSameAccount
	}

	if !arg.Amount.IsPositive() {
		return result, fmt.Errorf("%w: transfer amount must be positive", domain.ErrInvalidAmount)
	}

	fromAccount, err := s.accounts.FindByNumber(ctx, from)
	if err != nil {
		return result, err
	}

	if _, err := s.accounts.FindByNumber(ctx, to); err != nil {
		return result, err
	}

	// Optimistic check on a snapshot, the locked withdrawal decides.
	if !fromAccount.HasSufficientFunds(arg.Amount) {
		return result, domain.ErrInsufficientFunds
	}

	fromAccount, toAccount, err := s.accounts.UpdatePair(ctx, from, to, func(ctx context.Context, src, dst *domain.Account) error {
		if err := s.debit(ctx, src, arg.Amount); err != nil {
			return err
		}

		if err := dst.Deposit(arg.Amount); err != nil {
			return err
		}

		if err := s.limits.RecordWithdrawal(ctx, src.Number, arg.Amount); err != nil {
			return err
		}

		fromEntry, err := s.record(ctx, *src, domain.TransactionWithdraw, arg.Amount)
		if err != nil {
			return err
		}

		toEntry, err := s.record(ctx, *dst, domain.TransactionDeposit, arg.Amount)
		if err != nil {
			return err
		}

		result.FromEntry, result.ToEntry = fromEntry, toEntry

		return nil
	})
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("from", from).Str("to", to).Msg("transfer rejected")
		return domain.TransferResult{}, err
	}

	result.FromAccount = fromAccount
	result.ToAccount = toAccount
	result.FromBalance = fromAccount.Balance

	return result, nil
}

// Get returns the account with the given number.
func (s *Service) Get(ctx context.Context, number string) (domain.Account, error) {
	number, err := domain.NormalizeAccountNumber(number)
	if err != nil {
		return domain.Account{}, err
	}

	return s.accounts.FindByNumber(ctx, number)
}

// Balance returns the current balance of the account.
func (s *Service) Balance(ctx context.Context, number string) (domain.Money, error) {
	a, err := s.Get(ctx, number)
	if err != nil {
		return domain.Money{}, err
	}

	return a.Balance, nil
}

// Exists reports whether the account exists. Blank numbers never exist.
func (s *Service) Exists(ctx context.Context, number string) bool {
	number, err := domain.NormalizeAccountNumber(number)
	if err != nil {
		return false
	}

	ok, err := s.accounts.Exists(ctx, number)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		return false
	}

	return ok
}

// Count returns the number of accounts.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.accounts.Count(ctx)
}

// History returns up to limit transactions of the account, most recent first.
// A non-positive limit selects the configured default.
func (s *Service) History(ctx context.Context, number string, limit int) ([]domain.Transaction, error) {
	a, err := s.Get(ctx, number)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.historyLimit
	}

	return s.transactions.ListByAccount(ctx, a.Number, limit)
}
