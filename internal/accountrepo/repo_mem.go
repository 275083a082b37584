// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/lockpkg"
)

// RepoMem keeps accounts in memory.
//
// Every mutation goes through Update or UpdatePair which run the mutation on a
// private copy while holding the account key, so failed mutations leave the
// stored account untouched.
type RepoMem struct {
	mu          sync.RWMutex
	accounts    map[string]domain.Account
	locks       *lockpkg.KeyedMutex
	lockTimeout time.Duration
}

// NewRepoMem returns an empty RepoMem. A positive lockTimeout bounds how long
// a caller waits for a busy account.
func NewRepoMem(lockTimeout time.Duration) *RepoMem {
	return &RepoMem{
		accounts:    make(map[string]domain.Account),
		locks:       lockpkg.New(),
		lockTimeout: lockTimeout,
	}
}

func (r *RepoMem) lock(ctx context.Context, numbers ...string) (func(), error) {
	if r.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.lockTimeout)
		defer cancel()
	}

	unlock, err := r.locks.LockAll(ctx, numbers...)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Strs("accounts", numbers).Msg("account lock wait aborted")

		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrLockTimeout
		}

		return nil, err
	}

	return unlock, nil
}

func (r *RepoMem) get(number string) (domain.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[number]

	return a, ok
}

func (r *RepoMem) put(accounts ...domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range accounts {
		r.accounts[a.Number] = a
	}
}

// FindByNumber returns a snapshot of the account with the given number.
func (r *RepoMem) FindByNumber(ctx context.Context, number string) (domain.Account, error) {
	a, ok := r.get(number)
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

// Save creates or replaces the account.
func (r *RepoMem) Save(ctx context.Context, a domain.Account) error {
	unlock, err := r.lock(ctx, a.Number)
	if err != nil {
		return err
	}
	defer unlock()

	r.put(a)

	return nil
}

// Update applies mutate to the account while holding its key and stores the result.
//
// If mutate fails the stored account is unchanged and the error is returned as is.
func (r *RepoMem) Update(ctx context.Context, number string, mutate func(context.Context, *domain.Account) error) (domain.Account, error) {
	unlock, err := r.lock(ctx, number)
	if err != nil {
		return domain.Account{}, err
	}
	defer unlock()

	a, ok := r.get(number)
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	if err := mutate(ctx, &a); err != nil {
		return domain.Account{}, err
	}

	a.Number = number
	r.put(a)

	return a, nil
}

// UpdatePair applies mutate to two distinct accounts while holding both keys.
// Both results are stored or neither is.
func (r *RepoMem) UpdatePair(
	ctx context.Context,
	first, second string,
	mutate func(ctx context.Context, first, second *domain.Account) error,
) (domain.Account, domain.Account, error) {
	if first == second {
		return domain.Account{}, domain.Account{}, domain.ErrSameAccount
	}

	unlock, err := r.lock(ctx, first, second)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}
	defer unlock()

	a, ok := r.get(first)
	if !ok {
		return domain.Account{}, domain.Account{}, domain.ErrAccountNotFound
	}

	b, ok := r.get(second)
	if !ok {
		return domain.Account{}, domain.Account{}, domain.ErrAccountNotFound
	}

	if err := mutate(ctx, &a, &b); err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	a.Number, b.Number = first, second
	r.put(a, b)

	return a, b, nil
}

// Exists reports whether the account is stored.
func (r *RepoMem) Exists(ctx context.Context, number string) (bool, error) {
	_, ok := r.get(number)
	return ok, nil
}

// Count returns the number of stored accounts.
func (r *RepoMem) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.accounts), nil
}
