package ledger

import (
	"context"
	"sync"
)

// Entry is a single balance change
type Entry struct {
	Occupant string
	Amount   int
	Reason   string
}

// Memory is an in-process ledger
type Memory struct {
	mu       sync.Mutex
	balances map[string]int
	entries  []Entry
}

var _ Ledger = (*Memory)(nil)

// NewMemory returns an empty in-process ledger
func NewMemory() *Memory {
	return &Memory{
		balances: make(map[string]int),
		entries:  make([]Entry, 0),
	}
}

// Debit removes amount from the occupant's balance
func (m *Memory) Debit(_ context.Context, occupant string, amount int, reason string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.balances[occupant] < amount {
		return ErrInsufficientFunds
	}

	m.balances[occupant] -= amount
	m.entries = append(m.entries, Entry{Occupant: occupant, Amount: -amount, Reason: reason})
	return nil
}

// Credit adds amount to the occupant's balance
func (m *Memory) Credit(_ context.Context, occupant string, amount int, reason string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[occupant] += amount
	m.entries = append(m.entries, Entry{Occupant: occupant, Amount: amount, Reason: reason})
	return nil
}

// Balance returns the occupant's balance
func (m *Memory) Balance(_ context.Context, occupant string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.balances[occupant], nil
}

// Entries returns a copy of every entry recorded
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]Entry, len(m.entries))
	copy(entries, m.entries)
	return entries
}
