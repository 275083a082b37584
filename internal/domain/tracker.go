package domain

import "time"

// DayLayout is the layout of tracker day keys.
const DayLayout = time.DateOnly

// Day returns the tracker day key for t. Days start at midnight UTC.
func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// DailyTracker accumulates the withdrawals of one account on one day.
//
// The zero value is a tracker without activity.
type DailyTracker struct {
	AccountNumber    string `json:"account_number"`
	Day              string `json:"day"`
	TotalWithdrawals Money  `json:"total_withdrawals"`
	WithdrawalCount  int    `json:"withdrawal_count"`
}

// RecordWithdrawal adds amount to the day totals.
func (t *DailyTracker) RecordWithdrawal(amount Money) {
	t.TotalWithdrawals = t.TotalWithdrawals.Add(amount)
	t.WithdrawalCount++
}
