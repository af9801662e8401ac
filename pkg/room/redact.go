package room

import (
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/texasholdem"
)

// Redact returns the snapshot as viewer is allowed to see it
// Hole cards of every other seat are removed unless they were revealed.
// Pass an empty viewer for a spectator. s is not modified.
func Redact(s *table.Snapshot, viewer string) *table.Snapshot {
	if s == nil {
		return nil
	}

	view := *s
	if s.Hand == nil {
		return &view
	}

	hand := *s.Hand
	hand.Seats = make([]*texasholdem.SeatState, len(s.Hand.Seats))
	for i, seat := range s.Hand.Seats {
		cp := *seat
		if seat.Occupant != viewer || viewer == "" {
			if !seat.Revealed {
				cp.Cards = nil
			}

			cp.Legal = nil
			cp.MaxBet = 0
			cp.ToCall = 0
		}

		hand.Seats[i] = &cp
	}

	view.Hand = &hand
	return &view
}
