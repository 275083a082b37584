// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInsufficientFunds indicates that the account balance does not cover the withdrawal.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrDailyLimitExceeded indicates that a withdrawal breaks the account daily limits.
	ErrDailyLimitExceeded = errors.New("daily limit exceeded")
	// ErrLockTimeout indicates that the account stayed busy for longer than allowed.
	ErrLockTimeout = errors.New("account is busy, try again later")
	// ErrInvalidAccountNumber indicates an empty account number.
	ErrInvalidAccountNumber = fmt.Errorf("%w: account number cannot be empty", ErrInvalidArgument)
	// ErrInvalidCustomer indicates an empty customer name.
	ErrInvalidCustomer = fmt.Errorf("%w: customer name cannot be empty", ErrInvalidArgument)
	// ErrOpeningDepositTooLow indicates that the initial deposit is below the account type minimum.
	ErrOpeningDepositTooLow = fmt.Errorf("%w: initial deposit is below the required minimum", ErrInvalidArgument)
)

// Customer is the owner of an account.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewCustomer returns a customer with trimmed names.
func NewCustomer(firstName, lastName string) (Customer, error) {
	c := Customer{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}

	if c.FirstName == "" {
		return Customer{}, fmt.Errorf("%w: first name", ErrInvalidCustomer)
	}

	if c.LastName == "" {
		return Customer{}, fmt.Errorf("%w: last name", ErrInvalidCustomer)
	}

	return c, nil
}

// FullName returns first and last name separated by a space.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// NormalizeAccountNumber trims the number and rejects empty ones.
func NormalizeAccountNumber(number string) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", ErrInvalidAccountNumber
	}

	return number, nil
}

// Account holds customer balance data.
//
// Balance is changed only by Deposit and Withdraw. Callers outside a store
// always work on copies.
type Account struct {
	Number    string        `json:"number"`
	Customer  Customer      `json:"customer"`
	Type      AccountType   `json:"type"`
	Limits    AccountLimits `json:"limits"`
	Balance   Money         `json:"balance"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewAccount returns an empty account with the limits of its type.
func NewAccount(number string, customer Customer, t AccountType) (Account, error) {
	number, err := NormalizeAccountNumber(number)
	if err != nil {
		return Account{}, err
	}

	customer, err = NewCustomer(customer.FirstName, customer.LastName)
	if err != nil {
		return Account{}, err
	}

	limits, err := LimitsFor(t)
	if err != nil {
		return Account{}, err
	}

	return Account{
		Number:    number,
		Customer:  customer,
		Type:      t,
		Limits:    limits,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SameAs reports whether both values describe the same account.
func (a Account) SameAs(o Account) bool {
	return a.Number == o.Number
}

// Deposit adds a positive amount to the balance.
func (a *Account) Deposit(amount Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive", ErrInvalidAmount)
	}

	a.Balance = a.Balance.Add(amount)

	return nil
}

// Withdraw subtracts a positive amount from the balance.
//
// The single withdrawal may not exceed the daily withdrawal limit. The
// cumulative daily cap is enforced separately by the limits service.
func (a *Account) Withdraw(amount Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal amount must be positive", ErrInvalidAmount)
	}

	if amount.GreaterThan(a.Balance) || a.Balance.Sub(amount).LessThan(a.Limits.MinimumBalance) {
		return ErrInsufficientFunds
	}

	if ceiling := a.Limits.DailyWithdrawalLimit; ceiling != nil && amount.GreaterThan(*ceiling) {
		return fmt.Errorf("%w: withdrawal amount exceeds daily limit of %s", ErrDailyLimitExceeded, ceiling.Formatted())
	}

	a.Balance = a.Balance.Sub(amount)

	return nil
}

// HasSufficientFunds reports whether the balance covers amount.
func (a Account) HasSufficientFunds(amount Money) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// FormattedBalance returns the balance like "$123.45".
func (a Account) FormattedBalance() string {
	return a.Balance.Formatted()
}

// OpenAccountParams is the input data to open an account.
type OpenAccountParams struct {
	Customer       Customer
	Type           AccountType
	InitialDeposit *Money
}
