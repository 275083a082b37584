package accountservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/limitservice"
	"github.com/go-petr/pet-ledger/internal/trackerrepo"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/numberpkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

func money(s string) domain.Money { return domain.MustParseMoney(s) }

func moneyPtr(s string) *domain.Money {
	m := money(s)
	return &m
}

type ledger struct {
	*Service
	tracker  *trackerrepo.RepoMem
	enforcer *limitservice.Service
}

func newLedger(t *testing.T) ledger {
	t.Helper()

	tracker := trackerrepo.NewRepoMem(2 * time.Second)
	limits := limitservice.New(tracker, nil)
	s := New(
		accountrepo.NewRepoMem(2*time.Second),
		transactionrepo.NewRepoMem(),
		limits,
		numberpkg.NewSequence(numberpkg.DefaultStart),
		0,
	)

	return ledger{Service: s, tracker: tracker, enforcer: limits}
}

func (l ledger) open(t *testing.T, typ domain.AccountType, deposit string) domain.Account {
	t.Helper()

	a, err := l.Open(context.Background(), domain.OpenAccountParams{
		Customer:       randompkg.Customer(),
		Type:           typ,
		InitialDeposit: moneyPtr(deposit),
	})
	require.NoError(t, err)

	return a
}

func TestOpen(t *testing.T) {
	customer := domain.Customer{FirstName: "Ada", LastName: "Lovelace"}

	testCases := []struct {
		name       string
		arg        domain.OpenAccountParams
		buildStubs func(ar *MockAccountRepo, tr *MockTransactionRepo, gen *MockNumberGenerator)
		check      func(t *testing.T, a domain.Account, err error)
	}{
		{
			name: "OK",
			arg: domain.OpenAccountParams{
				Customer:       domain.Customer{FirstName: " Ada ", LastName: "Lovelace"},
				Type:           domain.Checking,
				InitialDeposit: moneyPtr("100.005"),
			},
			buildStubs: func(ar *MockAccountRepo, tr *MockTransactionRepo, gen *MockNumberGenerator) {
				gen.EXPECT().Generate(gomock.Any()).Times(1).Return("1000001", nil)
				ar.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).
					DoAndReturn(func(_ context.Context, a domain.Account) error {
						require.Equal(t, "1000001", a.Number)
						require.Equal(t, customer, a.Customer)
						require.True(t, a.Balance.Equal(money("100.01")))
						return nil
					})
				tr.EXPECT().Create(gomock.Any(), gomock.Any()).Times(1).
					DoAndReturn(func(_ context.Context, tx domain.Transaction) error {
						require.Equal(t, domain.TransactionDeposit, tx.Type)
						require.Equal(t, "1000001", tx.AccountNumber)
						require.NotEmpty(t, tx.ID)
						return nil
					})
			},
			check: func(t *testing.T, a domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, "$100.01", a.FormattedBalance())
			},
		},
		{
			name: "NoDeposit",
			arg:  domain.OpenAccountParams{Customer: customer, Type: domain.Student},
			buildStubs: func(ar *MockAccountRepo, tr *MockTransactionRepo, gen *MockNumberGenerator) {
				gen.EXPECT().Generate(gomock.Any()).Times(1).Return("1000002", nil)
				ar.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).Return(nil)
				tr.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			check: func(t *testing.T, a domain.Account, err error) {
				require.NoError(t, err)
				require.True(t, a.Balance.IsZero())
				require.Equal(t, domain.Student, a.Type)
			},
		},
		{
			name: "NegativeDepositIgnored",
			arg:  domain.OpenAccountParams{Customer: customer, Type: domain.Checking, InitialDeposit: moneyPtr("-5")},
			buildStubs: func(ar *MockAccountRepo, tr *MockTransactionRepo, gen *MockNumberGenerator) {
				gen.EXPECT().Generate(gomock.Any()).Times(1).Return("1000003", nil)
				ar.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).Return(nil)
				tr.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			check: func(t *testing.T, a domain.Account, err error) {
				require.NoError(t, err)
				require.True(t, a.Balance.IsZero())
			},
		},
		{
			name: "InvalidType",
			arg:  domain.OpenAccountParams{Customer: customer, Type: "premium"},
			buildStubs: func(ar *MockAccountRepo, tr *MockTransactionRepo, gen *MockNumberGenerator) {
				gen.EXPECT().Generate(gomock.Any()).Times(0)
				ar.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)
			},
			check: func(t *testing.T, a domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAccountType)
				require.ErrorIs(t, err, domain.ErrInvalidArgument)
			},
		},
		{
			name: "EmptyCustomer",
			arg:  domain.OpenAccountParams{Customer: domain.Customer{FirstName: "  ", LastName: "X"}, Type: domain.Checking},
			buildStubs: func(ar *MockAccountRepo, tr *MockTransactionRepo, gen *MockNumberGenerator) {
				gen.EXPECT().Generate(gomock.Any()).Times(0)
			},
			check: func(t *testing.T, a domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidCustomer)
			},
		},
		{
			name: "SavingsBelowMinimum",
			arg:  domain.OpenAccountParams{Customer: customer, Type: domain.Savings, InitialDeposit: moneyPtr("499.99")},
			buildStubs: func(ar *MockAccountRepo, tr *MockTransactionRepo, gen *MockNumberGenerator) {
				gen.EXPECT().Generate(gomock.Any()).Times(0)
				ar.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)
			},
			check: func(t *testing.T, a domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrOpeningDepositTooLow)
				require.ErrorIs(t, err, domain.ErrInvalidArgument)
			},
		},
		{
			name: "GeneratorError",
			arg:  domain.OpenAccountParams{Customer: customer, Type: domain.Checking},
			buildStubs: func(ar *MockAccountRepo, tr *MockTransactionRepo, gen *MockNumberGenerator) {
				gen.EXPECT().Generate(gomock.Any()).Times(1).Return("", errorspkg.ErrInternal)
				ar.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)
			},
			check: func(t *testing.T, a domain.Account, err error) {
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
		{
			name: "SaveError",
			arg:  domain.OpenAccountParams{Customer: customer, Type: domain.Checking, InitialDeposit: moneyPtr("1")},
			buildStubs: func(ar *MockAccountRepo, tr *MockTransactionRepo, gen *MockNumberGenerator) {
				gen.EXPECT().Generate(gomock.Any()).Times(1).Return("1000004", nil)
				ar.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).Return(errorspkg.ErrInternal)
				tr.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			check: func(t *testing.T, a domain.Account, err error) {
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ar := NewMockAccountRepo(ctrl)
			tr := NewMockTransactionRepo(ctrl)
			gen := NewMockNumberGenerator(ctrl)
			tc.buildStubs(ar, tr, gen)

			s := New(ar, tr, NewMockLimits(ctrl), gen, 0)
			a, err := s.Open(context.Background(), tc.arg)
			tc.check(t, a, err)
		})
	}
}

func TestTransferValidation(t *testing.T) {
	from := domain.Account{Number: "1000001", Balance: money("50")}
	to := domain.Account{Number: "1000002"}

	testCases := []struct {
		name       string
		arg        domain.TransferParams
		buildStubs func(ar *MockAccountRepo)
		wantErr    error
	}{
		{
			name:    "EmptyFrom",
			arg:     domain.TransferParams{FromAccountNumber: " ", ToAccountNumber: to.Number, Amount: money("1")},
			wantErr: domain.ErrInvalidAccountNumber,
		},
		{
			name:    "EmptyTo",
			arg:     domain.TransferParams{FromAccountNumber: from.Number, Amount: money("1")},
			wantErr: domain.ErrInvalidAccountNumber,
		},
		{
			name:    "SameAccount",
			arg:     domain.TransferParams{FromAccountNumber: from.Number, ToAccountNumber: " " + from.Number, Amount: money("1")},
			wantErr: domain.ErrSameAccount,
		},
		{
			name:    "ZeroAmount",
			arg:     domain.TransferParams{FromAccountNumber: from.Number, ToAccountNumber: to.Number},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "FromNotFound",
			arg:  domain.TransferParams{FromAccountNumber: from.Number, ToAccountNumber: to.Number, Amount: money("1")},
			buildStubs: func(ar *MockAccountRepo) {
				ar.EXPECT().FindByNumber(gomock.Any(), gomock.Eq(from.Number)).Times(1).Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "ToNotFound",
			arg:  domain.TransferParams{FromAccountNumber: from.Number, ToAccountNumber: to.Number, Amount: money("1")},
			buildStubs: func(ar *MockAccountRepo) {
				ar.EXPECT().FindByNumber(gomock.Any(), gomock.Eq(from.Number)).Times(1).Return(from, nil)
				ar.EXPECT().FindByNumber(gomock.Any(), gomock.Eq(to.Number)).Times(1).Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "InsufficientFundsSnapshot",
			arg:  domain.TransferParams{FromAccountNumber: from.Number, ToAccountNumber: to.Number, Amount: money("50.01")},
			buildStubs: func(ar *MockAccountRepo) {
				ar.EXPECT().FindByNumber(gomock.Any(), gomock.Eq(from.Number)).Times(1).Return(from, nil)
				ar.EXPECT().FindByNumber(gomock.Any(), gomock.Eq(to.Number)).Times(1).Return(to, nil)
			},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name: "LockTimeout",
			arg:  domain.TransferParams{FromAccountNumber: from.Number, ToAccountNumber: to.Number, Amount: money("10")},
			buildStubs: func(ar *MockAccountRepo) {
				ar.EXPECT().FindByNumber(gomock.Any(), gomock.Eq(from.Number)).Times(1).Return(from, nil)
				ar.EXPECT().FindByNumber(gomock.Any(), gomock.Eq(to.Number)).Times(1).Return(to, nil)
				ar.EXPECT().UpdatePair(gomock.Any(), gomock.Eq(from.Number), gomock.Eq(to.Number), gomock.Any()).
					Times(1).Return(domain.Account{}, domain.Account{}, domain.ErrLockTimeout)
			},
			wantErr: domain.ErrLockTimeout,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ar := NewMockAccountRepo(ctrl)
			if tc.buildStubs != nil {
				tc.buildStubs(ar)
			}

			s := New(ar, NewMockTransactionRepo(ctrl), NewMockLimits(ctrl), NewMockNumberGenerator(ctrl), 0)
			_, err := s.Transfer(context.Background(), tc.arg)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestOpenSavingsMinimum(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	_, err := l.Open(ctx, domain.OpenAccountParams{
		Customer:       randompkg.Customer(),
		Type:           domain.Savings,
		InitialDeposit: moneyPtr("499.99"),
	})
	require.ErrorIs(t, err, domain.ErrOpeningDepositTooLow)

	n, err := l.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	a := l.open(t, domain.Savings, "500.00")
	require.Equal(t, "$500.00", a.FormattedBalance())
	require.Equal(t, "1000001", a.Number)
}

func TestDepositWithdraw(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	a := l.open(t, domain.Checking, "100")

	balance, err := l.Deposit(ctx, a.Number, money("0.10"))
	require.NoError(t, err)
	require.Equal(t, "100.10", balance.String())

	balance, err = l.Deposit(ctx, " "+a.Number+" ", money("0.20"))
	require.NoError(t, err)
	require.Equal(t, "100.30", balance.String())

	_, err = l.Deposit(ctx, a.Number, money("0"))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = l.Deposit(ctx, "", money("1"))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = l.Deposit(ctx, "999", money("1"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	balance, err = l.Withdraw(ctx, a.Number, money("30.30"))
	require.NoError(t, err)
	require.Equal(t, "70.00", balance.String())

	_, err = l.Withdraw(ctx, a.Number, money("70.01"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = l.Withdraw(ctx, a.Number, money("-1"))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	balance, err = l.Balance(ctx, a.Number)
	require.NoError(t, err)
	require.Equal(t, "70.00", balance.String())

	tracker, err := l.tracker.Find(ctx, a.Number, l.enforcer.Today())
	require.NoError(t, err)
	require.Equal(t, 1, tracker.WithdrawalCount)
	require.True(t, tracker.TotalWithdrawals.Equal(money("30.30")))
}

func TestWithdrawSingleCeiling(t *testing.T) {
	l := newLedger(t)
	a := l.open(t, domain.Checking, "2000")

	_, err := l.Withdraw(context.Background(), a.Number, money("1000.01"))
	require.ErrorIs(t, err, domain.ErrDailyLimitExceeded)
	require.Contains(t, err.Error(), "$1000.00")

	balance, err := l.Withdraw(context.Background(), a.Number, money("1000"))
	require.NoError(t, err)
	require.Equal(t, "1000.00", balance.String())
}

func TestWithdrawSavingsDailyCap(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	a := l.open(t, domain.Savings, "1000")

	balance, err := l.Withdraw(ctx, a.Number, money("300"))
	require.NoError(t, err)
	require.Equal(t, "700.00", balance.String())

	_, err = l.Withdraw(ctx, a.Number, money("300"))
	require.ErrorIs(t, err, domain.ErrDailyLimitExceeded)

	balance, err = l.Balance(ctx, a.Number)
	require.NoError(t, err)
	require.Equal(t, "700.00", balance.String())

	tracker, err := l.tracker.Find(ctx, a.Number, l.enforcer.Today())
	require.NoError(t, err)
	require.Equal(t, 1, tracker.WithdrawalCount)
	require.True(t, tracker.TotalWithdrawals.Equal(money("300")))
}

func TestWithdrawSavingsCount(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	a := l.open(t, domain.Savings, "1000")

	for i := 0; i < 6; i++ {
		_, err := l.Withdraw(ctx, a.Number, money("1"))
		require.NoError(t, err)
	}

	_, err := l.Withdraw(ctx, a.Number, money("1"))
	require.ErrorIs(t, err, domain.ErrDailyLimitExceeded)

	balance, err := l.Balance(ctx, a.Number)
	require.NoError(t, err)
	require.Equal(t, "994.00", balance.String())
}

func TestConcurrentDeposits(t *testing.T) {
	l := newLedger(t)
	a := l.open(t, domain.Business, "0")

	const n = 100

	var wg sync.WaitGroup

	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()

			_, err := l.Deposit(context.Background(), a.Number, money("1.01"))
			require.NoError(t, err)
		}()
	}

	wg.Wait()

	balance, err := l.Balance(context.Background(), a.Number)
	require.NoError(t, err)
	require.Equal(t, "101.00", balance.String())
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	l := newLedger(t)
	a := l.open(t, domain.Checking, "500")

	const n = 20

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()

			_, err := l.Withdraw(context.Background(), a.Number, money("100"))
			if err != nil {
				require.ErrorIs(t, err, domain.ErrInsufficientFunds)
				return
			}

			mu.Lock()
			succeeded++
			mu.Unlock()
		}()
	}

	wg.Wait()

	require.Equal(t, 5, succeeded)

	balance, err := l.Balance(context.Background(), a.Number)
	require.NoError(t, err)
	require.True(t, balance.IsZero())

	tracker, err := l.tracker.Find(context.Background(), a.Number, l.enforcer.Today())
	require.NoError(t, err)
	require.Equal(t, succeeded, tracker.WithdrawalCount)
	require.True(t, tracker.TotalWithdrawals.Equal(money("500")))
}

func TestConcurrentWithdrawalsRespectDailyCap(t *testing.T) {
	l := newLedger(t)
	a := l.open(t, domain.Savings, "5000")

	const n = 40

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		failures  []error
	)

	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()

			_, err := l.Withdraw(context.Background(), a.Number, money("100"))

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failures = append(failures, err)
				return
			}

			succeeded++
		}()
	}

	wg.Wait()

	require.Equal(t, 5, succeeded)
	require.Len(t, failures, n-5)

	for _, err := range failures {
		require.ErrorIs(t, err, domain.ErrDailyLimitExceeded)
	}

	balance, err := l.Balance(context.Background(), a.Number)
	require.NoError(t, err)
	require.True(t, balance.Equal(money("4500")), "got %s", balance)

	tracker, err := l.tracker.Find(context.Background(), a.Number, l.enforcer.Today())
	require.NoError(t, err)
	require.Equal(t, 5, tracker.WithdrawalCount)
	require.True(t, tracker.TotalWithdrawals.Equal(money("500")), "got %s", tracker.TotalWithdrawals)
}

func TestTransfer(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	from := l.open(t, domain.Checking, "200")
	to := l.open(t, domain.Checking, "100")

	res, err := l.Transfer(ctx, domain.TransferParams{
		FromAccountNumber: from.Number,
		ToAccountNumber:   to.Number,
		Amount:            money("75"),
	})
	require.NoError(t, err)
	require.Equal(t, "125.00", res.FromBalance.String())
	require.Equal(t, "125.00", res.FromAccount.Balance.String())
	require.Equal(t, "175.00", res.ToAccount.Balance.String())
	require.Equal(t, domain.TransactionWithdraw, res.FromEntry.Type)
	require.Equal(t, domain.TransactionDeposit, res.ToEntry.Type)

	balance, err := l.Balance(ctx, to.Number)
	require.NoError(t, err)
	require.Equal(t, "175.00", balance.String())

	tracker, err := l.tracker.Find(ctx, from.Number, l.enforcer.Today())
	require.NoError(t, err)
	require.Equal(t, 1, tracker.WithdrawalCount)

	history, err := l.History(ctx, from.Number, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, domain.TransactionWithdraw, history[0].Type)
	require.Equal(t, "125.00", history[0].BalanceAfter.String())
	require.Equal(t, domain.TransactionDeposit, history[1].Type)
}

func TestTransferToMissingAccount(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	from := l.open(t, domain.Checking, "200")

	_, err := l.Transfer(ctx, domain.TransferParams{
		FromAccountNumber: from.Number,
		ToAccountNumber:   "9999999",
		Amount:            money("50"),
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	balance, err := l.Balance(ctx, from.Number)
	require.NoError(t, err)
	require.Equal(t, "200.00", balance.String())

	tracker, err := l.tracker.Find(ctx, from.Number, l.enforcer.Today())
	require.NoError(t, err)
	require.Zero(t, tracker.WithdrawalCount)
}

func TestTransferRejectedByLimitsLeavesBothAccounts(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	from := l.open(t, domain.Student, "800")
	to := l.open(t, domain.Checking, "0")

	_, err := l.Transfer(ctx, domain.TransferParams{
		FromAccountNumber: from.Number,
		ToAccountNumber:   to.Number,
		Amount:            money("600"),
	})
	require.ErrorIs(t, err, domain.ErrDailyLimitExceeded)

	fromBalance, err := l.Balance(ctx, from.Number)
	require.NoError(t, err)
	require.Equal(t, "800.00", fromBalance.String())

	toBalance, err := l.Balance(ctx, to.Number)
	require.NoError(t, err)
	require.True(t, toBalance.IsZero())
}

func TestConcurrentOppositeTransfers(t *testing.T) {
	l := newLedger(t)
	a := l.open(t, domain.Business, "1000")
	b := l.open(t, domain.Business, "1000")

	const n = 40

	var wg sync.WaitGroup

	wg.Add(n)

	for i := 0; i < n; i++ {
		from, to := a.Number, b.Number
		if i%2 == 1 {
			from, to = to, from
		}

		go func() {
			defer wg.Done()

			_, err := l.Transfer(context.Background(), domain.TransferParams{
				FromAccountNumber: from,
				ToAccountNumber:   to,
				Amount:            money("10"),
			})
			require.NoError(t, err)
		}()
	}

	wg.Wait()

	balanceA, err := l.Balance(context.Background(), a.Number)
	require.NoError(t, err)
	balanceB, err := l.Balance(context.Background(), b.Number)
	require.NoError(t, err)

	require.Equal(t, "1000.00", balanceA.String())
	require.Equal(t, "2000.00", balanceA.Add(balanceB).String())
}

func TestQueries(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	n, err := l.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	a := l.open(t, domain.Checking, "10")
	l.open(t, domain.Student, "0")

	n, err = l.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.True(t, l.Exists(ctx, a.Number))
	require.True(t, l.Exists(ctx, " "+a.Number))
	require.False(t, l.Exists(ctx, ""))
	require.False(t, l.Exists(ctx, "42"))

	got, err := l.Get(ctx, a.Number)
	require.NoError(t, err)
	require.Equal(t, a.Customer, got.Customer)
	require.Equal(t, a.Limits, got.Limits)

	_, err = l.Get(ctx, "  ")
	require.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = l.Balance(ctx, "42")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = l.History(ctx, "42", 5)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestHistoryLimit(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	a := l.open(t, domain.Checking, "1")

	for i := 0; i < 12; i++ {
		_, err := l.Deposit(ctx, a.Number, money("1"))
		require.NoError(t, err)
	}

	history, err := l.History(ctx, a.Number, 0)
	require.NoError(t, err)
	require.Len(t, history, DefaultHistoryLimit)
	require.Equal(t, "13.00", history[0].BalanceAfter.String())

	history, err = l.History(ctx, a.Number, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, "11.00", history[2].BalanceAfter.String())
}
