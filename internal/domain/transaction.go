package domain

import "time"

// TransactionType is the kind of balance change.
type TransactionType string

// Transaction types.
const (
	TransactionDeposit  TransactionType = "deposit"
	TransactionWithdraw TransactionType = "withdraw"
)

// Transaction holds balance change data for an account.
type Transaction struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"account_number"`
	Type          TransactionType `json:"type"`
	Amount        Money           `json:"amount"`
	BalanceAfter  Money           `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}
