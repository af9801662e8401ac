package table

import (
	"context"
	"sort"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/sirupsen/logrus"
)

// eliminate records that occupant is out of the match
// NOTE: the lock must be held
func (t *Table) eliminate(occupant string) {
	t.eliminated = append(t.eliminated, occupant)
	t.logger.WithFields(logrus.Fields{
		"occupant": occupant,
		"place":    t.opts.Seats - len(t.eliminated) + 1,
	}).Info("eliminated")

	t.checkWinner()
}

// eliminateBusted releases every tournament seat without chips
func (t *Table) eliminateBusted() {
	for i, s := range t.seats {
		if s == nil || s.Stack > 0 {
			continue
		}

		t.release(i)
		t.eliminate(s.Occupant)
	}

	t.eliminateAbsent()
	t.checkWinner()
}

// eliminateAbsent ends a match that fewer than two seats are still playing
// Seats sitting out are eliminated, smallest stack first, until a single seat is left.
func (t *Table) eliminateAbsent() {
	if t.closed {
		return
	}

	var absent []*Seat
	present, remaining := 0, 0
	for _, s := range t.seats {
		if s == nil {
			continue
		}

		remaining++
		if s.SittingOut {
			absent = append(absent, s)
		} else {
			present++
		}
	}

	if present >= 2 {
		return
	}

	sort.SliceStable(absent, func(i, j int) bool {
		return absent[i].Stack < absent[j].Stack
	})

	for _, s := range absent {
		if remaining <= 1 {
			return
		}

		t.release(s.Index)
		t.eliminate(s.Occupant)
		remaining--
	}
}

// checkWinner pays the prize and closes the table once a single seat is left
func (t *Table) checkWinner() {
	if t.closed || t.engine.InProgress() {
		return
	}

	var last *Seat
	for _, s := range t.seats {
		if s == nil {
			continue
		}

		if last != nil {
			return
		}
		last = s
	}

	if last == nil {
		return
	}

	ctx, cancel := t.ledgerContext()
	defer cancel()

	tournament := t.opts.Tournament
	t.winner = last.Occupant
	if err := t.credit(ctx, last.Occupant, tournament.Prize(), ledger.ReasonPrize); err != nil {
		t.logger.WithError(err).WithField("winner", last.Occupant).Error("prize must be paid by hand")
	}

	t.logger.WithFields(logrus.Fields{
		"match":  tournament.MatchID,
		"winner": last.Occupant,
		"prize":  tournament.Prize(),
	}).Info("match concluded")

	t.release(last.Index)
	t.close()
}

// voidTournament refunds every buy-in of a match that ended without a winner
func (t *Table) voidTournament(ctx context.Context) []error {
	tournament := t.opts.Tournament
	if t.winner != "" {
		return nil
	}

	var errs []error
	for _, occupant := range tournament.Occupants {
		if err := t.credit(ctx, occupant, tournament.BuyIn, ledger.ReasonRefund); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}
