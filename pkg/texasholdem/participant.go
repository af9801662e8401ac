package texasholdem

import (
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/deck"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/timer"
)

// Player is a seat dealt into a hand
type Player struct {
	Seat     int
	Occupant string
	Stack    int
	// Bank is the seat's time bank. It outlives the hand, the table owns it.
	Bank *timer.Bank
}

type result string

const (
	resultPending result = ""
	resultFolded  result = "folded"
	resultLost    result = "lost"
	resultWon     result = "won"
)

type participant struct {
	Player

	cards    deck.Hand
	revealed bool
	// detached is set when the seat stood up after folding
	detached     bool
	detachedWith int

	result   result
	winnings int
	rankings []poker.Ranking
}

func newParticipant(p Player) *participant {
	bank := p.Bank
	if bank == nil {
		bank = timer.NewBank(0, 0, 0)
	}
	p.Bank = bank

	return &participant{
		Player: p,
		cards:  make(deck.Hand, 0, 2),
		result: resultPending,
	}
}
