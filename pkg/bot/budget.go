package bot

import (
	"sync"
	"time"
)

// Budget caps how many chips the house floats to bots per day
// The day starts at resetHour UTC.
type Budget struct {
	mu        sync.Mutex
	limit     int
	resetHour int
	spent     int
	period    time.Time
}

// NewBudget returns a budget of limit chips per day
func NewBudget(limit, resetHourUTC int) *Budget {
	if resetHourUTC < 0 || resetHourUTC > 23 {
		resetHourUTC = 0
	}

	return &Budget{
		limit:     limit,
		resetHour: resetHourUTC,
	}
}

// Spend takes amount from today's budget
// Returns false, spending nothing, if the budget cannot cover it.
func (b *Budget) Spend(now time.Time, amount int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.roll(now)
	if amount <= 0 || b.spent+amount > b.limit {
		return false
	}

	b.spent += amount
	return true
}

// Refund gives back amount that was spent but never floated
func (b *Budget) Refund(now time.Time, amount int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.roll(now)
	b.spent -= amount
	if b.spent < 0 {
		b.spent = 0
	}
}

// Remaining returns what is left of today's budget
func (b *Budget) Remaining(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.roll(now)
	return b.limit - b.spent
}

// ResetsAt returns when the budget is next refilled
func (b *Budget) ResetsAt(now time.Time) time.Time {
	return b.periodStart(now).AddDate(0, 0, 1)
}

func (b *Budget) roll(now time.Time) {
	if start := b.periodStart(now); !start.Equal(b.period) {
		b.period = start
		b.spent = 0
	}
}

func (b *Budget) periodStart(now time.Time) time.Time {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), b.resetHour, 0, 0, 0, time.UTC)
	if now.Before(start) {
		start = start.AddDate(0, 0, -1)
	}

	return start
}
