// Package transactionrepo manages repository layer of the transaction history.
package transactionrepo

import (
	"context"
	"sync"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// RepoMem keeps the append-only history in memory.
type RepoMem struct {
	mu           sync.RWMutex
	transactions map[string][]domain.Transaction
}

// NewRepoMem returns an empty RepoMem.
func NewRepoMem() *RepoMem {
	return &RepoMem{transactions: make(map[string][]domain.Transaction)}
}

// Create appends the transaction to the account history.
func (r *RepoMem) Create(ctx context.Context, t domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactions[t.AccountNumber] = append(r.transactions[t.AccountNumber], t)

	return nil
}

// ListByAccount returns up to limit transactions of the account, most recent first.
func (r *RepoMem) ListByAccount(ctx context.Context, number string, limit int) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.transactions[number]

	if limit <= 0 || limit > len(history) {
		limit = len(history)
	}

	items := make([]domain.Transaction, 0, limit)
	for i := len(history) - 1; i >= 0 && len(items) < limit; i-- {
		items = append(items, history[i])
	}

	return items, nil
}
