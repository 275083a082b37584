// Package limitservice enforces the daily withdrawal limits of accounts.
package limitservice

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Repo provides data access layer interface needed by limit service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package limitservice
type Repo interface {
	Find(ctx context.Context, number, day string) (domain.DailyTracker, error)
	Update(ctx context.Context, number, day string, mutate func(*domain.DailyTracker) error) (domain.DailyTracker, error)
	DeleteBefore(ctx context.Context, day string) (int, error)
}

// Service validates and records withdrawals against the per-day trackers.
//
// ValidateWithdrawal reads the tracker and decides, so callers must run it and
// RecordWithdrawal inside the same account update. Otherwise two withdrawals
// can pass validation against the same stale total.
type Service struct {
	repo Repo
	now  func() time.Time
}

// New returns limit service. A nil clock means time.Now.
func New(r Repo, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{repo: r, now: now}
}

// Today returns the tracker day for the current time.
func (s *Service) Today() string {
	return domain.Day(s.now())
}

func validInput(number string, amount domain.Money) (string, error) {
	number, err := domain.NormalizeAccountNumber(number)
	if err != nil {
		return "", err
	}

	if !amount.IsPositive() {
		return "", fmt.Errorf("%w: withdrawal amount must be positive", domain.ErrInvalidAmount)
	}

	return number, nil
}

// ValidateWithdrawal checks that amount fits in today's remaining limits.
// Nil limits mean the account is unlimited.
func (s *Service) ValidateWithdrawal(ctx context.Context, number string, amount domain.Money, limits *domain.AccountLimits) error {
	number, err := validInput(number, amount)
	if err != nil {
		return err
	}

	if limits == nil {
		return nil
	}

	tracker, err := s.repo.Find(ctx, number, s.Today())
	if err != nil {
		return err
	}

	potential := tracker.TotalWithdrawals.Add(amount)
	if ceiling := limits.DailyWithdrawalLimit; ceiling != nil && potential.GreaterThan(*ceiling) {
		zerolog.Ctx(ctx).Info().
			Str("account", number).
			Str("current", tracker.TotalWithdrawals.String()).
			Str("amount", amount.String()).
			Msg("daily withdrawal limit reached")

		return fmt.Errorf("%w: current %s, attempting %s, limit %s",
			domain.ErrDailyLimitExceeded,
			tracker.TotalWithdrawals.Formatted(),
			amount.Formatted(),
			ceiling.Formatted(),
		)
	}

	if tracker.WithdrawalCount >= limits.DailyTransactionCount {
		return fmt.Errorf("%w: withdrawal count %d, limit %d",
			domain.ErrDailyLimitExceeded,
			tracker.WithdrawalCount,
			limits.DailyTransactionCount,
		)
	}

	return nil
}

// RecordWithdrawal adds amount to today's tracker of the account.
func (s *Service) RecordWithdrawal(ctx context.Context, number string, amount domain.Money) error {
	number, err := validInput(number, amount)
	if err != nil {
		return err
	}

	_, err = s.repo.Update(ctx, number, s.Today(), func(t *domain.DailyTracker) error {
		t.RecordWithdrawal(amount)
		return nil
	})

	return err
}

// PurgeStale removes the trackers of past days.
func (s *Service) PurgeStale(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteBefore(ctx, s.Today())
	if err != nil {
		return 0, err
	}

	zerolog.Ctx(ctx).Debug().Int("removed", n).Msg("stale daily trackers purged")

	return n, nil
}
