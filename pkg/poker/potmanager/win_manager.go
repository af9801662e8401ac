package potmanager

import (
	"sort"
)

type tier struct {
	strength int
	seats    []int
}

// WinManager groups seats by hand strength
type WinManager map[int]*tier

// NewWinManager returns an empty WinManager
func NewWinManager() WinManager {
	return make(WinManager)
}

// AddParticipant records a seat's hand strength
func (w WinManager) AddParticipant(seat int, handStrength int) {
	t, ok := w[handStrength]
	if !ok {
		t = &tier{
			strength: handStrength,
			seats:    make([]int, 0),
		}
	}

	t.seats = append(t.seats, seat)
	w[handStrength] = t
}

// GetSortedTiers returns the seats grouped by strength, strongest group first
func (w WinManager) GetSortedTiers() [][]int {
	tiers := make([]*tier, 0, len(w))
	for _, tier := range w {
		tiers = append(tiers, tier)
	}

	sort.Sort(sort.Reverse(sortByStrength(tiers)))

	tieredSeats := make([][]int, len(tiers))
	for i, t := range tiers {
		tieredSeats[i] = t.seats
	}

	return tieredSeats
}

// Award pays every pot to the strongest eligible tier
// order is the seats clockwise starting left of the dealer
func (w WinManager) Award(pots Pots, order []int) map[int]int {
	tiers := w.GetSortedTiers()
	payouts := make(map[int]int)
	for _, pot := range pots {
		for _, t := range tiers {
			winners := make([]int, 0, len(t))
			for _, seat := range t {
				if pot.IsEligible(seat) {
					winners = append(winners, seat)
				}
			}

			if len(winners) == 0 {
				continue
			}

			for seat, amount := range Split(pot.Amount, winners, order) {
				payouts[seat] += amount
			}
			break
		}
	}

	return payouts
}

type sortByStrength []*tier

func (s sortByStrength) Len() int {
	return len(s)
}

func (s sortByStrength) Less(i, j int) bool {
	return s[i].strength < s[j].strength
}

func (s sortByStrength) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
