package poker

import "github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/deck"

type sortByRank []*deck.Card

func (s sortByRank) Len() int {
	return len(s)
}

func (s sortByRank) Less(i, j int) bool {
	if s[i].Rank == s[j].Rank {
		return s[i].Suit < s[j].Suit
	}

	return s[i].Rank < s[j].Rank
}

func (s sortByRank) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
