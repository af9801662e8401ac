package poker

import (
	"fmt"
	"math"
	"sort"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/deck"
)

// Ranking is the value of the best five cards a player can make
type Ranking struct {
	Hand Hand `json:"hand"`
	// Ranks are the tie-break ranks, most significant first
	// Unused positions are zero
	Ranks [5]int      `json:"ranks"`
	Cards []*deck.Card `json:"cards"`
}

// Strength is a total order over rankings
// Higher is better, equal strength is a tie
func (r Ranking) Strength() int {
	strength := int(math.Pow(15, 5)) * int(r.Hand)
	for i, rank := range r.Ranks {
		strength += int(math.Pow(15, float64(4-i))) * rank
	}

	return strength
}

// String describes the ranking
func (r Ranking) String() string {
	return fmt.Sprintf("%s (%s)", r.Hand, deck.CardsToString(r.Cards))
}

// Compare returns 1 if a beats b, -1 if b beats a, and 0 on a tie
func Compare(a, b Ranking) int {
	sa, sb := a.Strength(), b.Strength()
	switch {
	case sa > sb:
		return 1
	case sa < sb:
		return -1
	}

	return 0
}

// Evaluate returns the best five-card ranking that can be made from 5-7 cards
// Fewer than five cards is a programming error
func Evaluate(cards []*deck.Card) Ranking {
	n := len(cards)
	if n < 5 {
		panic(fmt.Sprintf("need at least five cards, got %d", n))
	}

	var best Ranking
	bestStrength := -1
	var five [5]*deck.Card

	// every 5-card subset, in lexicographic index order
	idx := [5]int{0, 1, 2, 3, 4}
	for {
		for i, j := range idx {
			five[i] = cards[j]
		}

		r := rankFive(five)
		if s := r.Strength(); s > bestStrength {
			best = r
			bestStrength = s
		}

		i := 4
		for i >= 0 && idx[i] == n-5+i {
			i--
		}

		if i < 0 {
			break
		}

		idx[i]++
		for j := i + 1; j < 5; j++ {
			idx[j] = idx[j-1] + 1
		}
	}

	return best
}

// rankFive ranks exactly five cards
func rankFive(five [5]*deck.Card) Ranking {
	cards := make([]*deck.Card, 5)
	copy(cards, five[:])
	sort.Sort(sort.Reverse(sortByRank(cards)))

	isFlush := true
	for _, card := range cards[1:] {
		if card.Suit != cards[0].Suit {
			isFlush = false
			break
		}
	}

	straightHigh := checkStraight(cards)

	// groups of equal rank, largest group first, then highest rank
	type group struct{ rank, count int }
	groups := make([]group, 0, 5)
	for _, card := range cards {
		if len(groups) > 0 && groups[len(groups)-1].rank == card.Rank {
			groups[len(groups)-1].count++
			continue
		}

		groups = append(groups, group{rank: card.Rank, count: 1})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}

		return groups[i].rank > groups[j].rank
	})

	r := Ranking{Cards: cards}
	for i, g := range groups {
		r.Ranks[i] = g.rank
	}

	switch {
	case isFlush && straightHigh == deck.Ace:
		r.Hand = RoyalFlush
		r.Ranks = [5]int{straightHigh}
	case isFlush && straightHigh > 0:
		r.Hand = StraightFlush
		r.Ranks = [5]int{straightHigh}
	case groups[0].count == 4:
		r.Hand = FourOfAKind
	case groups[0].count == 3 && groups[1].count == 2:
		r.Hand = FullHouse
	case isFlush:
		r.Hand = Flush
	case straightHigh > 0:
		r.Hand = Straight
		r.Ranks = [5]int{straightHigh}
	case groups[0].count == 3:
		r.Hand = ThreeOfAKind
	case groups[0].count == 2 && groups[1].count == 2:
		r.Hand = TwoPair
	case groups[0].count == 2:
		r.Hand = OnePair
	default:
		r.Hand = HighCard
	}

	return r
}

// checkStraight returns the high card of the straight, or 0
// cards must be sorted high to low
// A-2-3-4-5 is a straight to the five
func checkStraight(cards []*deck.Card) int {
	for i := 1; i < len(cards); i++ {
		if cards[i-1].Rank != cards[i].Rank+1 {
			if i == 1 && cards[0].Rank == deck.Ace && cards[1].Rank == 5 {
				continue
			}

			return 0
		}
	}

	if cards[0].Rank == deck.Ace && cards[1].Rank == 5 {
		return 5
	}

	return cards[0].Rank
}
