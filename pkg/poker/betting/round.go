package betting

import (
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/potmanager"
)

// Round is one no-limit betting round
type Round struct {
	pm *potmanager.PotManager
	// order is every seat dealt into the hand, clockwise
	order    []int
	bigBlind int

	currentBet int
	minRaise   int
	acted      map[int]bool
	turn       int

	lastAction *LastAction
}

// LastAction is the most recent action applied in the round
type LastAction struct {
	Seat   int           `json:"seat"`
	Action action.Action `json:"action"`
	// Amount is the seat's round total after the action
	Amount int `json:"amount"`
}

// NewRound starts a betting round
// order is every seat in the hand, clockwise
func NewRound(pm *potmanager.PotManager, order []int, bigBlind int) *Round {
	return &Round{
		pm:       pm,
		order:    order,
		bigBlind: bigBlind,
		minRaise: bigBlind,
		acted:    make(map[int]bool, len(order)),
		turn:     -1,
	}
}

// Post puts a forced bet (blind) in for the seat
// The seat still gets to act. The round's bet becomes the full amount even if the seat is short.
func (r *Round) Post(seat, amount int) int {
	posted := r.pm.ContributeTo(seat, amount)
	if amount > r.currentBet {
		r.currentBet = amount
	}

	return posted
}

// Start puts the first seat that needs to act on the clock
func (r *Round) Start(first int) {
	r.turn = r.nextFrom(r.indexOf(first), true)
}

// Turn returns the seat on the clock, or -1 if nobody is
func (r *Round) Turn() int {
	return r.turn
}

// CurrentBet is the amount every seat must match this round
func (r *Round) CurrentBet() int {
	return r.currentBet
}

// MinRaise is the minimum raise increment
func (r *Round) MinRaise() int {
	return r.minRaise
}

// MinRaiseTo is the smallest legal total for a bet or raise
func (r *Round) MinRaiseTo() int {
	if r.currentBet == 0 {
		return r.minRaise
	}

	return r.currentBet + r.minRaise
}

// MaxRaiseTo is the most the seat can put in this round
func (r *Round) MaxRaiseTo(seat int) int {
	return r.pm.RoundContribution(seat) + r.pm.Remaining(seat)
}

// ToCall is what the seat still owes to match the current bet, clamped to its stack
func (r *Round) ToCall(seat int) int {
	owed := r.currentBet - r.pm.RoundContribution(seat)
	if owed < 0 {
		return 0
	}

	return min(owed, r.pm.Remaining(seat))
}

// HasActed returns true if the seat acted since betting was last opened
func (r *Round) HasActed(seat int) bool {
	return r.acted[seat]
}

// LastAction returns the most recent action, if any
func (r *Round) LastAction() *LastAction {
	return r.lastAction
}

// IsOver returns true when nobody needs to act
func (r *Round) IsOver() bool {
	return r.turn < 0
}

// CanCheck returns true if the seat may check
func (r *Round) CanCheck(seat int) bool {
	return r.pm.RoundContribution(seat) >= r.currentBet
}

// Legal returns the actions the seat can take right now
func (r *Round) Legal(seat int) []action.Action {
	if seat != r.turn {
		return nil
	}

	remaining := r.pm.Remaining(seat)
	toCall := r.ToCall(seat)
	canRaise := !r.acted[seat] && remaining > toCall

	actions := []action.Action{action.Fold}
	if r.CanCheck(seat) {
		actions = append(actions, action.Check)
	} else {
		actions = append(actions, action.Call)
	}

	if canRaise {
		if r.currentBet == 0 {
			actions = append(actions, action.Bet)
		} else {
			actions = append(actions, action.Raise)
		}
	}

	if remaining > 0 && (canRaise || remaining <= toCall) {
		actions = append(actions, action.AllIn)
	}

	return actions
}

// Apply validates and applies one action
// For bet and raise, amount is the seat's total for the round ("raise to").
// A RejectedAction leaves the round untouched.
func (r *Round) Apply(seat int, a action.Action, amount int) error {
	if r.IsOver() {
		return ErrRoundOver
	}

	if seat != r.turn {
		return ErrNotYourTurn
	}

	maxTo := r.MaxRaiseTo(seat)

	switch a {
	case action.Fold:
		r.pm.Fold(seat)
	case action.Check:
		if !r.CanCheck(seat) {
			return newRejectedAction("you cannot check facing a bet of ${%d}", r.currentBet)
		}
	case action.Call:
		if r.CanCheck(seat) {
			return RejectedAction("there is nothing to call")
		}

		r.pm.ContributeTo(seat, r.currentBet)
	case action.Bet:
		if r.currentBet > 0 {
			return RejectedAction("you cannot bet when there is already a bet, raise instead")
		}

		if err := r.validateRaiseTo(seat, amount, maxTo); err != nil {
			return err
		}

		r.raiseTo(seat, amount)
	case action.Raise:
		if r.currentBet == 0 {
			return RejectedAction("there is no bet to raise")
		}

		if err := r.validateRaiseTo(seat, amount, maxTo); err != nil {
			return err
		}

		r.raiseTo(seat, amount)
	case action.AllIn:
		if r.pm.Remaining(seat) == 0 {
			return RejectedAction("you have no chips behind")
		}

		if maxTo > r.currentBet {
			if r.acted[seat] {
				return ErrNotReopened
			}

			r.raiseTo(seat, maxTo)
		} else {
			r.pm.ContributeTo(seat, maxTo)
		}
	default:
		return newRejectedAction("%s is not a betting action", a)
	}

	r.acted[seat] = true
	r.lastAction = &LastAction{Seat: seat, Action: a, Amount: r.pm.RoundContribution(seat)}

	r.advance()
	return nil
}

func (r *Round) validateRaiseTo(seat, amount, maxTo int) error {
	if r.acted[seat] {
		return ErrNotReopened
	}

	if amount <= r.currentBet {
		return newRejectedAction("your raise to ${%d} must be greater than the current bet of ${%d}", amount, r.currentBet)
	}

	if amount > maxTo {
		return newRejectedAction("you only have ${%d} available", maxTo)
	}

	// short all-in is always allowed
	if amount < r.MinRaiseTo() && amount != maxTo {
		return newRejectedAction("the minimum is ${%d}", r.MinRaiseTo())
	}

	return nil
}

// raiseTo moves the seat's round total to amount
// A raise of at least the minimum reopens betting. A short all-in does not.
func (r *Round) raiseTo(seat, amount int) {
	increment := amount - r.currentBet
	r.pm.ContributeTo(seat, amount)

	if increment >= r.minRaise {
		r.minRaise = increment
		for s := range r.acted {
			if s != seat {
				r.acted[s] = false
			}
		}
	}

	r.currentBet = amount
}

// Forfeit folds a seat out of turn, i.e., an admin kick
func (r *Round) Forfeit(seat int) {
	if r.pm.IsFolded(seat) {
		return
	}

	r.pm.Fold(seat)
	r.acted[seat] = true
	if r.turn < 0 {
		return
	}

	// the seat on the clock keeps it unless it was the one removed
	from := r.turn
	r.turn = r.nextFrom(r.indexOf(from), from != seat)
}

func (r *Round) advance() {
	r.turn = r.nextFrom(r.indexOf(r.lastAction.Seat), false)
}

// nextFrom finds the next seat that needs to act, clockwise from index i
// If inclusive is true, the seat at i is considered first
func (r *Round) nextFrom(i int, inclusive bool) int {
	if len(r.pm.InHand()) <= 1 {
		return -1
	}

	n := len(r.order)
	start := 1
	if inclusive {
		start = 0
	}

	for k := start; k < n+start; k++ {
		seat := r.order[(i+k)%n]
		if r.needsAction(seat) {
			return seat
		}
	}

	return -1
}

func (r *Round) needsAction(seat int) bool {
	if !r.pm.CanAct(seat) {
		return false
	}

	if r.pm.RoundContribution(seat) < r.currentBet {
		return true
	}

	return !r.acted[seat] && r.canActCount() >= 2
}

func (r *Round) canActCount() int {
	count := 0
	for _, seat := range r.order {
		if r.pm.CanAct(seat) {
			count++
		}
	}

	return count
}

func (r *Round) indexOf(seat int) int {
	for i, s := range r.order {
		if s == seat {
			return i
		}
	}

	return 0
}
