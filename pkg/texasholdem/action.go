package texasholdem

import (
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
	"github.com/sirupsen/logrus"
)

// Apply applies a betting action for seat
// For bet and raise, amount is the seat's total for the round.
// A betting.RejectedAction is returned for anything illegal and nothing changes.
func (e *Engine) Apply(seat int, a action.Action, amount int, now time.Time) error {
	h := e.hand
	if h == nil || h.resolved || h.round == nil || h.vote != nil {
		return ErrNoHand
	}

	p, ok := h.participants[seat]
	if !ok || p.detached {
		return ErrNotInHand
	}

	if err := h.round.Apply(seat, a, amount); err != nil {
		return err
	}

	p.Bank.Consume(h.turnStarted, now, e.opts.ActionTime)
	h.addLog(seat, a, h.pm.RoundContribution(seat), false, now)

	e.logger.WithFields(logrus.Fields{
		"hand":   h.number,
		"seat":   seat,
		"action": a,
		"amount": h.pm.RoundContribution(seat),
	}).Debug("action")

	e.afterAction(now)
	return nil
}

// Forfeit folds a seat out of turn
// It is used when a seat is kicked while it still holds cards.
func (e *Engine) Forfeit(seat int, now time.Time) {
	h := e.hand
	if h == nil || h.resolved {
		return
	}

	if _, ok := h.participants[seat]; !ok || h.pm.IsFolded(seat) {
		return
	}

	h.addLog(seat, action.Fold, h.pm.RoundContribution(seat), false, now)

	if h.round == nil || h.vote != nil {
		h.pm.Fold(seat)
		if len(h.pm.InHand()) == 1 {
			// an open vote has no one left to settle it
			h.vote = nil
			e.resolveUncontested(now)
		}
		return
	}

	turn := h.round.Turn()
	h.round.Forfeit(seat)

	if len(h.pm.InHand()) == 1 || h.round.IsOver() || h.round.Turn() != turn {
		e.afterAction(now)
	}
}

// IsLive returns true if the seat still holds cards in an unresolved hand
func (e *Engine) IsLive(seat int) bool {
	h := e.hand
	if h == nil || h.resolved {
		return false
	}

	p, ok := h.participants[seat]
	return ok && !p.detached && !h.pm.IsFolded(seat)
}

// Detach lets a folded seat leave before the hand is over
// It returns the chips the seat has behind. Its contributions stay in the pot.
func (e *Engine) Detach(seat int) (int, bool) {
	h := e.hand
	if h == nil || h.resolved {
		return 0, false
	}

	p, ok := h.participants[seat]
	if !ok || p.detached || !h.pm.IsFolded(seat) {
		return 0, false
	}

	p.detached = true
	p.detachedWith = h.pm.Remaining(seat)
	return p.detachedWith, true
}

// Refund is what a seat gets back when a hand is aborted
type Refund struct {
	Seat     int
	Occupant string
	Amount   int
	// Detached seats already left with their remaining chips, Amount is what they put in the pot
	Detached bool
}

// Abort ends the hand without a winner and refunds every seat's contributions
// It returns nil if no hand is unresolved.
func (e *Engine) Abort() []Refund {
	h := e.hand
	if h == nil {
		return nil
	}

	e.hand = nil
	if h.resolved {
		return nil
	}

	refunds := make([]Refund, 0, len(h.order))
	for _, seat := range h.order {
		p := h.participants[seat]
		r := Refund{
			Seat:     seat,
			Occupant: p.Occupant,
			Amount:   h.pm.Starting(seat),
			Detached: p.detached,
		}

		if p.detached {
			r.Amount -= p.detachedWith
		}

		refunds = append(refunds, r)
	}

	e.logger.WithField("hand", h.number).Warn("hand aborted")
	return refunds
}
