package table

import (
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/timer"
)

// Seat is an occupied seat
type Seat struct {
	Index    int    `json:"seat"`
	Occupant string `json:"occupant"`
	// Stack is the seat's chips between hands. The engine holds them while the seat is Active.
	Stack      int  `json:"stack"`
	SittingOut bool `json:"sittingOut"`
	// Active is set while the seat is dealt into the running hand
	Active bool `json:"active"`
	// Timeouts counts consecutive hands the seat was acted for by the clock
	Timeouts int        `json:"timeouts"`
	KickAt   *time.Time `json:"kickAt,omitempty"`
	Joined   time.Time  `json:"joined"`

	bank *timer.Bank
	// leaving is set on a seat that is kicked while it still holds cards
	leaving bool
}

func newSeat(index int, occupant string, stack int, timing config.Timing, now time.Time) *Seat {
	return &Seat{
		Index:    index,
		Occupant: occupant,
		Stack:    stack,
		Joined:   now,
		bank: timer.NewBank(
			config.Duration(timing.TimeBankSeconds),
			config.Duration(timing.TimeBankCapSeconds),
			config.Duration(timing.TimeBankRegenSeconds),
		),
	}
}

// canPlay returns true if the seat is dealt into the next hand
// Tournament seats are dealt in while sitting out and the clock folds them.
func (s *Seat) canPlay(tournament bool) bool {
	return (tournament || !s.SittingOut) && !s.leaving && s.Stack > 0
}

func (s *Seat) clone() *Seat {
	c := *s
	if s.KickAt != nil {
		at := *s.KickAt
		c.KickAt = &at
	}

	c.bank = nil
	return &c
}
