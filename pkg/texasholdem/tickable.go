package texasholdem

import (
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/timer"
	"github.com/sirupsen/logrus"
)

// Tick advances the hand past any deadline that passed
// It returns true if the state changed, and the seats that timed out.
// A seat is timed out at most once per deadline: the forced action moves the clock on.
func (e *Engine) Tick(now time.Time) (bool, []int) {
	h := e.hand
	if h == nil {
		return false, nil
	}

	if !h.resolved && h.vote != nil && h.vote.boards == 0 {
		if now.Before(h.vote.deadline) {
			return false, nil
		}

		e.resolveVote(1, now)
		return true, nil
	}

	if h.resolved {
		if now.Before(h.showdownEnds) {
			return false, nil
		}

		e.hand = nil
		return true, nil
	}

	if h.round == nil || h.round.IsOver() || now.Before(h.actionDeadline) {
		return false, nil
	}

	seat := h.round.Turn()
	forced := action.Fold
	if h.round.CanCheck(seat) {
		forced = action.Check
	}

	if err := h.round.Apply(seat, forced, 0); err != nil {
		// a check or fold on the seat's own turn is always legal
		panic(err)
	}

	h.participants[seat].Bank.Expire()
	h.addLog(seat, forced, h.pm.RoundContribution(seat), true, now)

	e.logger.WithFields(logrus.Fields{
		"hand":   h.number,
		"seat":   seat,
		"action": forced,
	}).Info("seat timed out")

	e.afterAction(now)
	return true, []int{seat}
}

// Deadlines returns the engine's pending deadlines
func (e *Engine) Deadlines() []timer.Deadline {
	h := e.hand
	if h == nil {
		return nil
	}

	switch {
	case !h.resolved && h.vote != nil && h.vote.boards == 0:
		return []timer.Deadline{{At: h.vote.deadline, Kind: timer.KindVote, Seat: -1, Hand: h.number}}
	case h.resolved:
		return []timer.Deadline{{At: h.showdownEnds, Kind: timer.KindShowdown, Seat: -1, Hand: h.number}}
	case h.round != nil && !h.round.IsOver():
		return []timer.Deadline{{At: h.actionDeadline, Kind: timer.KindAction, Seat: h.round.Turn(), Hand: h.number}}
	}

	return nil
}
