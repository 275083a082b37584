// Package trackerrepo manages repository layer of daily withdrawal trackers.
package trackerrepo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/lockpkg"
)

type key struct {
	number string
	day    string
}

func (k key) String() string {
	return k.number + ":" + k.day
}

// RepoMem keeps daily trackers in memory.
type RepoMem struct {
	mu          sync.RWMutex
	trackers    map[key]domain.DailyTracker
	locks       *lockpkg.KeyedMutex
	lockTimeout time.Duration
}

// NewRepoMem returns an empty RepoMem.
func NewRepoMem(lockTimeout time.Duration) *RepoMem {
	return &RepoMem{
		trackers:    make(map[key]domain.DailyTracker),
		locks:       lockpkg.New(),
		lockTimeout: lockTimeout,
	}
}

// Find returns the tracker for the account and day. Without activity it
// returns a zeroed tracker.
func (r *RepoMem) Find(ctx context.Context, number, day string) (domain.DailyTracker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.trackers[key{number, day}]; ok {
		return t, nil
	}

	return domain.DailyTracker{AccountNumber: number, Day: day}, nil
}

// Update applies mutate to the tracker while holding its key, creating a
// zeroed tracker on first access.
func (r *RepoMem) Update(
	ctx context.Context,
	number, day string,
	mutate func(*domain.DailyTracker) error,
) (domain.DailyTracker, error) {
	k := key{number, day}

	if r.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.lockTimeout)
		defer cancel()
	}

	unlock, err := r.locks.Lock(ctx, k.String())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.DailyTracker{}, domain.ErrLockTimeout
		}
		return domain.DailyTracker{}, err
	}
	defer unlock()

	t, err := r.Find(ctx, number, day)
	if err != nil {
		return domain.DailyTracker{}, err
	}

	if err := mutate(&t); err != nil {
		return domain.DailyTracker{}, err
	}

	t.AccountNumber, t.Day = number, day

	r.mu.Lock()
	r.trackers[k] = t
	r.mu.Unlock()

	return t, nil
}

// DeleteBefore removes trackers of days before the given one and returns how
// many were removed.
func (r *RepoMem) DeleteBefore(ctx context.Context, day string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0

	for k := range r.trackers {
		// day keys are ISO dates so lexical order is chronological
		if k.day < day {
			delete(r.trackers, k)
			n++
		}
	}

	return n, nil
}
