package domain

import (
	"fmt"
	"strings"
)

// ErrInvalidAccountType indicates an unknown account category.
var ErrInvalidAccountType = fmt.Errorf("%w: unknown account type", ErrInvalidArgument)

// AccountType is the category of an account. It selects the account limits.
type AccountType string

// Supported account types.
const (
	Checking AccountType = "checking"
	Savings  AccountType = "savings"
	Business AccountType = "business"
	Student  AccountType = "student"
)

// AccountLimits is the policy assigned to an account for its lifetime.
type AccountLimits struct {
	// DailyWithdrawalLimit is both the single withdrawal ceiling and the
	// cumulative daily cap. Nil means unlimited.
	DailyWithdrawalLimit *Money `json:"daily_withdrawal_limit,omitempty"`
	// DailyDepositLimit is reserved and not enforced.
	DailyDepositLimit     *Money `json:"daily_deposit_limit,omitempty"`
	DailyTransactionCount int    `json:"daily_transaction_count"`
	MinimumBalance        Money  `json:"minimum_balance"`
}

type typePolicy struct {
	limits         AccountLimits
	openingDeposit Money
}

func moneyRef(s string) *Money {
	m := MustParseMoney(s)
	return &m
}

var policies = map[AccountType]typePolicy{
	Checking: {
		limits: AccountLimits{
			DailyWithdrawalLimit:  moneyRef("1000.00"),
			DailyTransactionCount: 50,
		},
	},
	Savings: {
		limits: AccountLimits{
			DailyWithdrawalLimit:  moneyRef("500.00"),
			DailyTransactionCount: 6,
		},
		openingDeposit: MustParseMoney("500.00"),
	},
	Business: {
		limits: AccountLimits{
			DailyWithdrawalLimit:  moneyRef("5000.00"),
			DailyTransactionCount: 50,
		},
	},
	Student: {
		limits: AccountLimits{
			DailyWithdrawalLimit:  moneyRef("500.00"),
			DailyTransactionCount: 50,
		},
	},
}

// ParseAccountType parses a case-insensitive account type name.
// An empty name selects Checking.
func ParseAccountType(s string) (AccountType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Checking, nil
	}

	t := AccountType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
	}

	return t, nil
}

// Valid reports whether t is a supported account type.
func (t AccountType) Valid() bool {
	_, ok := policies[t]
	return ok
}

// LimitsFor returns the limits assigned to accounts of type t.
func LimitsFor(t AccountType) (AccountLimits, error) {
	p, ok := policies[t]
	if !ok {
		return AccountLimits{}, fmt.Errorf("%w: %q", ErrInvalidAccountType, t)
	}

	return p.limits, nil
}

// MinimumOpeningDeposit returns the smallest initial deposit accepted when
// opening an account of type t.
func (t AccountType) MinimumOpeningDeposit() Money {
	return policies[t].openingDeposit
}
