package timer

import "time"

// Bank is a seat's reserve of extra thinking time
type Bank struct {
	Remaining time.Duration `json:"remaining"`
	cap       time.Duration
	regen     time.Duration
}

// NewBank returns a bank holding initial, refilled by regen per hand up to limit
func NewBank(initial, limit, regen time.Duration) *Bank {
	if initial > limit {
		initial = limit
	}

	return &Bank{
		Remaining: initial,
		cap:       limit,
		regen:     regen,
	}
}

// Deadline is when a turn that started at start expires
func (b *Bank) Deadline(start time.Time, base time.Duration) time.Time {
	return start.Add(base + b.Remaining)
}

// Consume charges the bank for time used past the base action time
func (b *Bank) Consume(start, acted time.Time, base time.Duration) {
	over := acted.Sub(start) - base
	if over <= 0 {
		return
	}

	b.Remaining -= over
	if b.Remaining < 0 {
		b.Remaining = 0
	}
}

// Expire empties the bank after a timeout
func (b *Bank) Expire() {
	b.Remaining = 0
}

// Regenerate refills the bank between hands
func (b *Bank) Regenerate() {
	b.Remaining += b.regen
	if b.Remaining > b.cap {
		b.Remaining = b.cap
	}
}
