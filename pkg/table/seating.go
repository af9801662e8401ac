package table

import (
	"context"
	"errors"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/timer"
	"github.com/sirupsen/logrus"
)

// Sit seats occupant at seat after debiting buyIn from the ledger
// The seat is only taken once the debit succeeded.
func (t *Table) Sit(ctx context.Context, occupant string, seat, buyIn int) error {
	t.mu.Lock()
	defer t.unlock()

	if t.closed {
		return ErrTableClosed
	}

	if t.opts.Tournament != nil {
		return ErrTournamentSeat
	}

	if seat < 0 || seat >= len(t.seats) {
		return ErrInvalidSeat
	}

	if t.seats[seat] != nil {
		return ErrSeatTaken
	}

	if _, seated := t.seatOf(occupant); seated {
		return ErrAlreadySeated
	}

	if buyIn < t.opts.MinBuyIn || buyIn > t.opts.MaxBuyIn {
		return buyInRangeError(t.opts.MinBuyIn, t.opts.MaxBuyIn)
	}

	if err := t.debit(ctx, occupant, buyIn, ledger.ReasonBuyIn); err != nil {
		return err
	}

	now := t.clock()
	t.seats[seat] = newSeat(seat, occupant, buyIn, t.settings.Timing, now)

	t.logger.WithFields(logrus.Fields{
		"occupant": occupant,
		"seat":     seat,
		"buyIn":    buyIn,
	}).Info("sat down")

	t.changed(now)
	return nil
}

// Rebuy adds amount to occupant's stack after debiting it from the ledger
// A pending kick is cancelled.
func (t *Table) Rebuy(ctx context.Context, occupant string, amount int) error {
	t.mu.Lock()
	defer t.unlock()

	if t.closed {
		return ErrTableClosed
	}

	if t.opts.Tournament != nil {
		return ErrTournamentSeat
	}

	index, ok := t.seatOf(occupant)
	if !ok {
		return ErrNotSeated
	}

	if amount <= 0 {
		return UserError("the rebuy must be greater than zero")
	}

	s := t.seats[index]
	if s.Active && t.engine.InProgress() {
		return ErrRebuyInHand
	}

	if s.Stack+amount > t.opts.MaxBuyIn {
		return rebuyLimitError(t.opts.MaxBuyIn)
	}

	if err := t.debit(ctx, occupant, amount, ledger.ReasonRebuy); err != nil {
		return err
	}

	s.Stack += amount
	s.KickAt = nil
	t.scheduler.Cancel(timer.KindKick, index)

	t.logger.WithFields(logrus.Fields{
		"occupant": occupant,
		"seat":     index,
		"amount":   amount,
	}).Info("rebought")

	t.changed(t.clock())
	return nil
}

// StandUp releases occupant's seat and credits the stack back to the ledger
// It is refused while the seat still holds cards in the running hand. A folded seat may leave at once.
func (t *Table) StandUp(ctx context.Context, occupant string) error {
	t.mu.Lock()
	defer t.unlock()

	if t.closed {
		return ErrTableClosed
	}

	index, ok := t.seatOf(occupant)
	if !ok {
		return ErrNotSeated
	}

	if err := t.leave(ctx, index, ledger.ReasonCashOut); err != nil {
		return err
	}

	t.changed(t.clock())
	return nil
}

// SetSittingOut toggles whether occupant is dealt into the next hand
// Sitting back in clears the timeout streak.
func (t *Table) SetSittingOut(occupant string, sittingOut bool) error {
	t.mu.Lock()
	defer t.unlock()

	if t.closed {
		return ErrTableClosed
	}

	index, ok := t.seatOf(occupant)
	if !ok {
		return ErrNotSeated
	}

	s := t.seats[index]
	s.SittingOut = sittingOut
	if !sittingOut {
		s.Timeouts = 0
	}

	t.changed(t.clock())
	return nil
}

// Kick removes whoever sits at seat
// A seat holding cards is folded first. Its chips are credited once it is released.
func (t *Table) Kick(ctx context.Context, seat int) error {
	t.mu.Lock()
	defer t.unlock()

	if t.closed {
		return ErrTableClosed
	}

	if seat < 0 || seat >= len(t.seats) || t.seats[seat] == nil {
		return ErrInvalidSeat
	}

	now := t.clock()
	s := t.seats[seat]
	s.leaving = true
	t.logger.WithFields(logrus.Fields{
		"occupant": s.Occupant,
		"seat":     seat,
	}).Warn("kicking seat")

	if t.engine.IsLive(seat) {
		t.engine.Forfeit(seat, now)
		if r := t.engine.TakeResult(); r != nil {
			t.applyResult(r, now)
		}
	}

	// the hand may have released the seat already, i.e., a busted tournament seat
	if t.seats[seat] == s {
		if err := t.leave(ctx, seat, ledger.ReasonCashOut); err != nil {
			s.SittingOut = true
			t.changed(now)
			return err
		}
	}

	t.changed(now)
	return nil
}

// ForceClose ends the running hand, refunds everything that was put in and releases every seat
// Credits that fail are logged and returned. The table closes regardless.
func (t *Table) ForceClose(ctx context.Context) error {
	t.mu.Lock()
	defer t.unlock()

	if t.closed {
		return ErrTableClosed
	}

	var errs []error
	refunds := t.engine.Abort()
	if t.opts.Tournament != nil {
		errs = t.voidTournament(ctx)
		refunds = nil
	}

	for _, refund := range refunds {
		if refund.Detached {
			if err := t.credit(ctx, refund.Occupant, refund.Amount, ledger.ReasonRefund); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		if s := t.seats[refund.Seat]; s != nil {
			s.Stack = refund.Amount
			s.Active = false
		}
	}

	for i, s := range t.seats {
		if s == nil {
			continue
		}

		if t.opts.Tournament == nil {
			if err := t.credit(ctx, s.Occupant, s.Stack, ledger.ReasonCashOut); err != nil {
				errs = append(errs, err)
			}
		}

		t.seats[i] = nil
	}

	t.logger.WithField("errors", len(errs)).Warn("table force closed")
	t.close()
	return errors.Join(errs...)
}

// Refresh sends the current snapshot to every listener
func (t *Table) Refresh() {
	t.mu.Lock()
	defer t.unlock()

	t.version++
	t.notify()
}

// leave releases the seat at index, crediting its stack for cash tables
// If the credit fails nothing changes and a LedgerFailure is returned.
// NOTE: the lock must be held
func (t *Table) leave(ctx context.Context, index int, reason string) error {
	s := t.seats[index]
	if t.engine.IsLive(index) {
		return ErrStillInHand
	}

	stack := s.Stack
	detach := s.Active && t.engine.InProgress()
	if detach {
		stack = t.engine.Stacks()[index]
	}

	if t.opts.Tournament == nil {
		if err := t.credit(ctx, s.Occupant, stack, reason); err != nil {
			return err
		}
	}

	if detach {
		t.engine.Detach(index)
	}

	t.logger.WithFields(logrus.Fields{
		"occupant": s.Occupant,
		"seat":     index,
		"stack":    stack,
	}).Info("stood up")

	t.release(index)
	if t.opts.Tournament != nil {
		t.eliminate(s.Occupant)
	}

	return nil
}

// release empties the seat
// NOTE: the lock must be held
func (t *Table) release(index int) {
	t.seats[index] = nil
	t.scheduler.Cancel(timer.KindKick, index)
}

// timedOut records a forced action on seat and sits it out after too many in a row
func (t *Table) timedOut(seat int) {
	s := t.seats[seat]
	if s == nil {
		return
	}

	s.Timeouts++
	if max := t.settings.Timing.MaxTimeouts; max > 0 && s.Timeouts >= max && !s.SittingOut {
		s.SittingOut = true
		t.logger.WithFields(logrus.Fields{
			"occupant": s.Occupant,
			"seat":     seat,
			"timeouts": s.Timeouts,
		}).Info("sitting out after timeouts")
	}
}

// expireKick stands up a seat whose grace window ran out without a rebuy
func (t *Table) expireKick(seat int) {
	s := t.seats[seat]
	if s == nil || s.Stack > 0 || s.Active {
		return
	}

	t.logger.WithFields(logrus.Fields{
		"occupant": s.Occupant,
		"seat":     seat,
	}).Info("busted seat stood up")

	t.release(seat)
}

func (t *Table) debit(ctx context.Context, occupant string, amount int, kind string) error {
	err := t.ledger.Debit(ctx, occupant, amount, ledger.Reason(kind, t.id))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return ErrInsufficientFunds
	}

	t.logger.WithError(err).WithField("occupant", occupant).Error("debit failed")
	return &LedgerFailure{Op: "debit " + kind, Err: err}
}

func (t *Table) credit(ctx context.Context, occupant string, amount int, kind string) error {
	if amount <= 0 {
		return nil
	}

	if err := t.ledger.Credit(ctx, occupant, amount, ledger.Reason(kind, t.id)); err != nil {
		t.logger.WithError(err).WithFields(logrus.Fields{
			"occupant": occupant,
			"amount":   amount,
		}).Error("credit failed")
		return &LedgerFailure{Op: "credit " + kind, Err: err}
	}

	return nil
}
