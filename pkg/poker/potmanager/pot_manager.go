package potmanager

import (
	"errors"
	"fmt"
	"sort"
)

// ErrParticipantNotFound is an error when a participant with a provided seat cannot be found
var ErrParticipantNotFound = errors.New("participant not found")

// PotManager keeps track of every seat's contributions across the betting rounds of one hand
type PotManager struct {
	participants map[int]*participantInPot
	// tableOrder is seat order, lowest seat index first
	tableOrder []*participantInPot
}

// New instantiates a new PotManager
// stacks maps a seat index to the chips that seat has behind at the start of the hand
func New(stacks map[int]int) *PotManager {
	p := &PotManager{
		participants: make(map[int]*participantInPot, len(stacks)),
		tableOrder:   make([]*participantInPot, 0, len(stacks)),
	}

	for seat, stack := range stacks {
		pip := &participantInPot{seat: seat, starting: stack}
		p.participants[seat] = pip
		p.tableOrder = append(p.tableOrder, pip)
	}

	sort.Slice(p.tableOrder, func(i, j int) bool {
		return p.tableOrder[i].seat < p.tableOrder[j].seat
	})

	return p
}

func (p *PotManager) get(seat int) *participantInPot {
	pip, ok := p.participants[seat]
	if !ok {
		panic(fmt.Sprintf("seat %d is not in the hand", seat))
	}

	return pip
}

// Has returns true if the seat was dealt into the hand
func (p *PotManager) Has(seat int) bool {
	_, ok := p.participants[seat]
	return ok
}

// Contribute moves up to amount chips from the seat's stack into the pot
// The amount is clamped to what the seat has left. Going to zero marks the seat all-in.
// Returns the chips actually moved.
func (p *PotManager) Contribute(seat, amount int) int {
	pip := p.get(seat)
	if amount <= 0 {
		return 0
	}

	if amount >= pip.remaining() {
		amount = pip.remaining()
		pip.isAllIn = true
	}

	pip.round += amount
	pip.total += amount

	return amount
}

// ContributeTo tops the seat's round contribution up to target
func (p *PotManager) ContributeTo(seat, target int) int {
	return p.Contribute(seat, target-p.get(seat).round)
}

// Fold marks the seat as folded. Its chips stay in the pot.
func (p *PotManager) Fold(seat int) {
	p.get(seat).isFolded = true
}

// RoundContribution is what the seat put in this betting round
func (p *PotManager) RoundContribution(seat int) int {
	return p.get(seat).round
}

// TotalContribution is what the seat put in this hand
func (p *PotManager) TotalContribution(seat int) int {
	return p.get(seat).total
}

// Remaining is the seat's stack behind
func (p *PotManager) Remaining(seat int) int {
	return p.get(seat).remaining()
}

// Starting is the seat's stack at the start of the hand
func (p *PotManager) Starting(seat int) int {
	return p.get(seat).starting
}

// IsAllIn returns true if the seat has no chips behind
func (p *PotManager) IsAllIn(seat int) bool {
	return p.get(seat).isAllIn
}

// IsFolded returns true if the seat folded
func (p *PotManager) IsFolded(seat int) bool {
	return p.get(seat).isFolded
}

// CanAct returns true if the seat has neither folded nor gone all-in
func (p *PotManager) CanAct(seat int) bool {
	return p.get(seat).canAct()
}

// Seats returns the seats in the hand, in table order
func (p *PotManager) Seats() []int {
	seats := make([]int, len(p.tableOrder))
	for i, pip := range p.tableOrder {
		seats[i] = pip.seat
	}

	return seats
}

// InHand returns the seats that have not folded, in table order
func (p *PotManager) InHand() []int {
	seats := make([]int, 0, len(p.tableOrder))
	for _, pip := range p.tableOrder {
		if !pip.isFolded {
			seats = append(seats, pip.seat)
		}
	}

	return seats
}

// EndRound is called when the betting round is complete
func (p *PotManager) EndRound() {
	for _, pip := range p.tableOrder {
		pip.round = 0
	}
}

// Total is every chip put in this hand
func (p *PotManager) Total() int {
	total := 0
	for _, pip := range p.tableOrder {
		total += pip.total
	}

	return total
}

// ReturnUncalled refunds the part of the largest contribution no other seat matched
// Returns the refunded seat and amount, or -1 and 0 if nothing was refunded
func (p *PotManager) ReturnUncalled() (int, int) {
	var top *participantInPot
	second := 0
	for _, pip := range p.tableOrder {
		switch {
		case top == nil || pip.total > top.total:
			if top != nil && top.total > second {
				second = top.total
			}
			top = pip
		case pip.total > second:
			second = pip.total
		}
	}

	if top == nil || top.total <= second {
		return -1, 0
	}

	excess := top.total - second
	top.total -= excess
	top.round -= excess
	if top.round < 0 {
		top.round = 0
	}
	top.isAllIn = top.remaining() == 0

	return top.seat, excess
}

// Pots splits the money into a main pot and one side pot per all-in tier
// A pot's eligible seats are the non-folded seats that contributed at least its tier
func (p *PotManager) Pots() Pots {
	levels := make([]int, 0)
	seen := make(map[int]bool)
	maxTotal := 0
	for _, pip := range p.tableOrder {
		if pip.total > maxTotal {
			maxTotal = pip.total
		}

		if pip.isAllIn && !pip.isFolded && pip.total > 0 && !seen[pip.total] {
			seen[pip.total] = true
			levels = append(levels, pip.total)
		}
	}

	if maxTotal == 0 {
		return Pots{}
	}

	if !seen[maxTotal] {
		levels = append(levels, maxTotal)
	}
	sort.Ints(levels)

	pots := make(Pots, 0, len(levels))
	prev := 0
	for _, level := range levels {
		pot := &Pot{Eligible: make([]int, 0, len(p.tableOrder))}
		for _, pip := range p.tableOrder {
			pot.Amount += min(pip.total, level) - min(pip.total, prev)
			if !pip.isFolded && pip.total >= level {
				pot.Eligible = append(pot.Eligible, pip.seat)
			}
		}
		prev = level

		if pot.Amount == 0 {
			continue
		}

		// dead money above every live seat, or a tier with the same contenders, joins the previous pot
		if n := len(pots); n > 0 && (len(pot.Eligible) == 0 || sameSeats(pots[n-1].Eligible, pot.Eligible)) {
			pots[n-1].Amount += pot.Amount
			continue
		}

		pots = append(pots, pot)
	}

	return pots
}

func sameSeats(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
