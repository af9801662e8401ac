package table

import (
	"context"
	"errors"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/history"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/texasholdem"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/timer"
	"github.com/sirupsen/logrus"
)

// Act applies a betting action for occupant
// A rejected action changes nothing and is returned as a betting.RejectedAction.
func (t *Table) Act(occupant string, a action.Action, amount int) error {
	t.mu.Lock()
	defer t.unlock()

	index, err := t.playing(occupant)
	if err != nil {
		return err
	}

	now := t.clock()
	if err := t.engine.Apply(index, a, amount, now); err != nil {
		return err
	}

	t.seats[index].Timeouts = 0
	t.changed(now)
	return nil
}

// Vote records occupant's run it twice choice
func (t *Table) Vote(occupant string, boards int) error {
	t.mu.Lock()
	defer t.unlock()

	index, err := t.playing(occupant)
	if err != nil {
		return err
	}

	now := t.clock()
	if err := t.engine.Vote(index, boards, now); err != nil {
		return err
	}

	t.changed(now)
	return nil
}

// Show reveals occupant's cards after a hand that ended without a showdown
func (t *Table) Show(occupant string) error {
	t.mu.Lock()
	defer t.unlock()

	index, err := t.playing(occupant)
	if err != nil {
		return err
	}

	if err := t.engine.Show(index); err != nil {
		return err
	}

	t.changed(t.clock())
	return nil
}

func (t *Table) playing(occupant string) (int, error) {
	if t.closed {
		return -1, ErrTableClosed
	}

	index, ok := t.seatOf(occupant)
	if !ok {
		return -1, ErrNotSeated
	}

	return index, nil
}

// Tick handles every deadline at or before now
func (t *Table) Tick(now time.Time) {
	t.mu.Lock()
	defer t.unlock()

	if t.closed {
		return
	}

	due := t.scheduler.Due(now)
	if len(due) == 0 {
		return
	}

	engineDue := false
	nextHand := false
	for _, d := range due {
		switch d.Kind {
		case timer.KindAction, timer.KindVote, timer.KindShowdown:
			engineDue = true
		case timer.KindKick:
			t.expireKick(d.Seat)
		case timer.KindNextHand:
			nextHand = true
		}
	}

	if engineDue {
		_, timedOut := t.engine.Tick(now)
		for _, seat := range timedOut {
			t.timedOut(seat)
		}
	}

	if nextHand {
		t.startHand(now)
	}

	t.changed(now)
}

// Run drives the table's clock until ctx is done or the table closes
// It sleeps until the next deadline and wakes up early whenever the table changes.
func (t *Table) Run(ctx context.Context) {
	t.logger.Debug("starting table run loop")
	defer t.logger.Debug("terminating table run loop")

	for {
		t.mu.Lock()
		next, ok := t.scheduler.Next()
		closed := t.closed
		t.unlock()

		if closed {
			return
		}

		var fire <-chan time.Time
		var tm *time.Timer
		if ok {
			tm = time.NewTimer(next.Sub(t.clock()))
			fire = tm.C
		}

		select {
		case <-ctx.Done():
		case <-t.done:
		case <-t.wake:
		case <-fire:
			t.Tick(t.clock())
		}

		if tm != nil {
			tm.Stop()
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// startHand deals the next hand if enough seats can play
// NOTE: the lock must be held
func (t *Table) startHand(now time.Time) {
	if t.engine.Phase() != texasholdem.PhaseWaiting {
		return
	}

	players := make([]texasholdem.Player, 0, len(t.seats))
	for _, s := range t.seats {
		if s == nil || !s.canPlay(t.opts.Tournament != nil) {
			continue
		}

		players = append(players, texasholdem.Player{
			Seat:     s.Index,
			Occupant: s.Occupant,
			Stack:    s.Stack,
			Bank:     s.bank,
		})
	}

	if err := t.engine.StartHand(players, now); err != nil {
		if !errors.Is(err, texasholdem.ErrNotEnoughPlayers) {
			t.logger.WithError(err).Error("could not start hand")
		}
		return
	}

	for _, p := range players {
		t.seats[p.Seat].Active = true
	}
}

// applyResult moves a resolved hand's stacks back onto the seats
// NOTE: the lock must be held
func (t *Table) applyResult(r *texasholdem.Result, now time.Time) {
	t.rake += r.Rake

	ctx, cancel := t.ledgerContext()
	defer cancel()

	for _, sr := range r.Seats {
		if sr.Detached {
			if t.opts.Tournament == nil {
				_ = t.credit(ctx, sr.Occupant, sr.Owed, ledger.ReasonRefund)
			}
			continue
		}

		s := t.seats[sr.Seat]
		if s == nil || s.Occupant != sr.Occupant {
			t.logger.WithField("seat", sr.Seat).Error("resolved hand for a seat that is gone")
			continue
		}

		s.Stack = sr.Stack
		s.Active = false
		s.bank.Regenerate()
	}

	if t.history != nil {
		record := history.NewRecord(t.id, t.opts.SmallBlind, t.opts.BigBlind, r)
		if err := t.history.Dispatch(record); err != nil {
			t.logger.WithError(err).WithField("hand", r.HandNumber).Warn("could not dispatch hand history")
		}
	}

	t.logger.WithFields(logrus.Fields{
		"hand": r.HandNumber,
		"pot":  r.Pot,
		"rake": r.Rake,
	}).Debug("applied hand result")

	if t.opts.Tournament != nil {
		t.eliminateBusted()
		return
	}

	grace := config.Duration(t.settings.Timing.KickGraceSeconds)
	for i, s := range t.seats {
		if s == nil || s.Stack > 0 || s.KickAt != nil {
			continue
		}

		at := now.Add(grace)
		s.KickAt = &at
		t.scheduler.Schedule(timer.Deadline{
			At:   at,
			Kind: timer.KindKick,
			Seat: i,
			Hand: r.HandNumber,
		})
	}
}

// close stops the table
// NOTE: the lock must be held
func (t *Table) close() {
	if t.closed {
		return
	}

	t.closed = true
	t.scheduler = timer.NewScheduler()
	close(t.done)

	t.version++
	t.notify()

	if tournament := t.opts.Tournament; tournament != nil && tournament.OnConcluded != nil {
		matchID, winner := tournament.MatchID, t.winner
		t.after = append(t.after, func() {
			tournament.OnConcluded(matchID, winner)
		})
	}
}
