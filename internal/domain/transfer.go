package domain

import "fmt"

// ErrSameAccount indicates a transfer from an account to itself.
var ErrSameAccount = fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidArgument)

// TransferParams is the input data for the transfer transaction.
type TransferParams struct {
	FromAccountNumber string `json:"from_account_number"`
	ToAccountNumber   string `json:"to_account_number"`
	Amount            Money  `json:"amount"`
}

// TransferResult is the result of the transfer transaction.
type TransferResult struct {
	FromAccount Account     `json:"from_account"`
	ToAccount   Account     `json:"to_account"`
	FromEntry   Transaction `json:"from_entry"`
	ToEntry     Transaction `json:"to_entry"`
	// FromBalance is the source balance right after the transfer.
	FromBalance Money `json:"from_balance"`
}
