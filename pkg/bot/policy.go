package bot

import (
	"fmt"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/rng"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/deck"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/texasholdem"
)

// Decision is what a policy wants to do on its turn
// Amount is the total to bet or raise to this round.
type Decision struct {
	Action action.Action
	Amount int
}

// Policy is the action source of a bot seat
// It only ever sees the hand the way its own seat sees it.
type Policy interface {
	// Observe is called with every new state of the hand
	Observe(state *texasholdem.State)

	// Decide is called when seat is on the clock
	Decide(state *texasholdem.State, seat int) Decision
}

// Style is a play style
type Style string

// play styles
const (
	Passive    Style = "passive"
	Tight      Style = "tight"
	Aggressive Style = "aggressive"
)

type thresholds struct {
	call  float64
	raise float64
	bluff int
}

var styles = map[Style]thresholds{
	Passive:    {call: 0.15, raise: 0.9},
	Tight:      {call: 0.45, raise: 0.7, bluff: 2},
	Aggressive: {call: 0.3, raise: 0.5, bluff: 12},
}

// NewPolicy returns the policy of a play style
func NewPolicy(style Style, g rng.Generator) (Policy, error) {
	t, ok := styles[style]
	if !ok {
		return nil, fmt.Errorf("unknown bot style: %s", style)
	}

	if g == nil {
		g = rng.Crypto{}
	}

	return &stylePolicy{
		thresholds: t,
		rng:        g,
		lastHand:   -1,
	}, nil
}

type stylePolicy struct {
	thresholds
	rng rng.Generator

	lastHand int64
	// raises is how many times the opponents raised this hand
	raises     int
	currentBet int
}

func (p *stylePolicy) Observe(state *texasholdem.State) {
	if state == nil {
		return
	}

	if state.HandNumber != p.lastHand {
		p.lastHand = state.HandNumber
		p.raises = 0
		p.currentBet = 0
	}

	if state.CurrentBet > p.currentBet && p.currentBet > 0 {
		p.raises++
	}

	p.currentBet = state.CurrentBet
}

func (p *stylePolicy) Decide(state *texasholdem.State, seat int) Decision {
	me := state.Seat(seat)
	if me == nil || len(me.Legal) == 0 {
		return Decision{Action: action.Fold}
	}

	strength := Strength(me.Cards, state.Board)

	// every raise faced makes the bot more careful
	call := p.call + float64(p.raises)*0.05

	bluffing := p.bluff > 0 && p.rng.Intn(100) < p.bluff
	switch {
	case strength >= p.raise || bluffing:
		if d, ok := p.raiseDecision(state, me); ok {
			return d
		}

		fallthrough
	case strength >= call || me.ToCall == 0:
		if has(me.Legal, action.Check) {
			return Decision{Action: action.Check}
		}

		if has(me.Legal, action.Call) {
			return Decision{Action: action.Call}
		}

		if has(me.Legal, action.AllIn) && strength >= p.raise {
			return Decision{Action: action.AllIn}
		}
	}

	if has(me.Legal, action.Check) {
		return Decision{Action: action.Check}
	}

	return Decision{Action: action.Fold}
}

// raiseDecision bets or raises half the pot, or shoves when that is all that is left
func (p *stylePolicy) raiseDecision(state *texasholdem.State, me *texasholdem.SeatState) (Decision, bool) {
	a := action.Raise
	if has(me.Legal, action.Bet) {
		a = action.Bet
	}

	if !has(me.Legal, a) {
		if has(me.Legal, action.AllIn) {
			return Decision{Action: action.AllIn}, true
		}

		return Decision{}, false
	}

	to := state.CurrentBet + state.Pot/2
	if to < state.MinRaiseTo {
		to = state.MinRaiseTo
	}

	if me.MaxBet > 0 && to >= me.MaxBet {
		if has(me.Legal, action.AllIn) {
			return Decision{Action: action.AllIn}, true
		}

		to = me.MaxBet
	}

	return Decision{Action: a, Amount: to}, true
}

// Strength estimates how good hole cards are on board, from 0 to 1
func Strength(hole, board []*deck.Card) float64 {
	if len(hole) != 2 {
		return 0
	}

	if len(hole)+len(board) < 5 {
		return preflopStrength(hole[0], hole[1])
	}

	cards := make([]*deck.Card, 0, len(hole)+len(board))
	cards = append(cards, hole...)
	cards = append(cards, board...)
	r := poker.Evaluate(cards)

	strength := float64(r.Hand)/float64(poker.RoyalFlush)*0.9 + float64(r.Ranks[0])/float64(deck.Ace)*0.1
	if strength > 1 {
		strength = 1
	}

	return strength
}

func preflopStrength(a, b *deck.Card) float64 {
	high, low := a.Rank, b.Rank
	if low > high {
		high, low = low, high
	}

	if high == low {
		return 0.5 + float64(high)/float64(deck.Ace)*0.5
	}

	strength := float64(high+low) / float64(2*deck.Ace) * 0.6
	if a.Suit == b.Suit {
		strength += 0.05
	}

	if high-low == 1 {
		strength += 0.05
	}

	return strength
}

func has(legal []action.Action, a action.Action) bool {
	for _, l := range legal {
		if l == a {
			return true
		}
	}

	return false
}
