package texasholdem

import (
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/deck"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/potmanager"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of a resolved hand
type Result struct {
	HandNumber int64     `json:"handNumber"`
	Dealer     int       `json:"dealer"`
	SmallBlind int       `json:"smallBlind"`
	BigBlind   int       `json:"bigBlind"`
	StartedAt  time.Time `json:"startedAt"`
	EndedAt    time.Time `json:"endedAt"`

	// Pot is every chip contributed after the uncalled bet was returned, rake included
	Pot  int `json:"pot"`
	Rake int `json:"rake"`
	// Returned is the uncalled amount given back to ReturnedTo
	Returned   int            `json:"returned"`
	ReturnedTo int            `json:"returnedTo"`
	Pots       potmanager.Pots `json:"pots"`

	Boards   [][]*deck.Card `json:"boards"`
	Showdown bool           `json:"showdown"`
	Seats    []*SeatResult  `json:"seats"`
	Log      []LogEntry     `json:"log"`
	DeckHash string         `json:"deckHash"`
}

// SeatResult is how a single seat fared
type SeatResult struct {
	Seat          int    `json:"seat"`
	Occupant      string `json:"occupant"`
	StartingStack int    `json:"startingStack"`
	Stack         int    `json:"stack"`
	Contributed   int    `json:"contributed"`
	Won           int    `json:"won"`
	Result        string `json:"result"`
	// Detached seats left the table after folding
	Detached bool `json:"detached"`
	// Owed is what a detached seat gets back on top of what it left with
	Owed int `json:"owed,omitempty"`
	// Cards are only set when the seat's cards were revealed
	Cards []*deck.Card `json:"cards,omitempty"`
	Hands []string     `json:"hands,omitempty"`
}

// TakeResult returns the result of the last resolved hand once
func (e *Engine) TakeResult() *Result {
	r := e.result
	e.result = nil
	return r
}

// settle refunds the uncalled bet, builds the pots and withholds the rake
// Rake is only taken if the flop was dealt.
func (e *Engine) settle() (int, int) {
	h := e.hand
	h.round = nil
	returnedTo, returned := h.pm.ReturnUncalled()
	h.pm.EndRound()

	h.pots = h.pm.Pots()
	if h.flopDealt {
		h.rake = potmanager.Rake(h.pots.Total(), e.opts.RakeBasisPoints, e.opts.RakeCap())
		h.pots.TakeRake(h.rake)
	}

	return returnedTo, returned
}

func (e *Engine) resolveUncontested(now time.Time) {
	h := e.hand
	returnedTo, returned := e.settle()
	winner := h.pm.InHand()[0]

	payouts := map[int]int{winner: h.pots.Total()}
	e.finish(now, payouts, false, returnedTo, returned)
}

func (e *Engine) showdown(now time.Time) {
	h := e.hand
	h.phase = PhaseShowdown
	returnedTo, returned := e.settle()

	boards := [][]*deck.Card{h.board}
	if h.board2 != nil {
		boards = append(boards, h.board2)
	}

	managers := make([]potmanager.WinManager, len(boards))
	for i := range boards {
		managers[i] = potmanager.NewWinManager()
	}

	for _, seat := range h.pm.InHand() {
		p := h.participants[seat]
		p.revealed = true
		p.rankings = make([]poker.Ranking, len(boards))
		for i, board := range boards {
			cards := make([]*deck.Card, 0, 7)
			cards = append(cards, p.cards...)
			cards = append(cards, board...)
			p.rankings[i] = poker.Evaluate(cards)
			managers[i].AddParticipant(seat, p.rankings[i].Strength())
		}
	}

	var payouts map[int]int
	if len(boards) == 1 {
		payouts = managers[0].Award(h.pots, h.order)
	} else {
		first, second := h.pots.Halve()
		payouts = managers[0].Award(first, h.order)
		for seat, amount := range managers[1].Award(second, h.order) {
			payouts[seat] += amount
		}
	}

	e.finish(now, payouts, true, returnedTo, returned)
}

func (e *Engine) finish(now time.Time, payouts map[int]int, showdown bool, returnedTo, returned int) {
	h := e.hand
	h.phase = PhaseShowdown
	h.resolved = true
	h.actionDeadline = time.Time{}
	h.showdownEnds = now.Add(e.opts.ShowdownTime)

	r := &Result{
		HandNumber: h.number,
		Dealer:     h.dealer,
		SmallBlind: h.smallBlind,
		BigBlind:   h.bigBlind,
		StartedAt:  h.startedAt,
		EndedAt:    now,
		Pot:        h.pm.Total(),
		Rake:       h.rake,
		Returned:   returned,
		ReturnedTo: returnedTo,
		Pots:       h.pots.Clone(),
		Showdown:   showdown,
		Seats:      make([]*SeatResult, 0, len(h.order)),
		Log:        append([]LogEntry(nil), h.log...),
		DeckHash:   h.deckHash,
	}

	r.Boards = [][]*deck.Card{append([]*deck.Card(nil), h.board...)}
	if h.board2 != nil {
		r.Boards = append(r.Boards, append([]*deck.Card(nil), h.board2...))
	}

	for _, seat := range h.order {
		p := h.participants[seat]
		p.winnings = payouts[seat]
		p.Stack = h.pm.Remaining(seat) + p.winnings

		switch {
		case h.pm.IsFolded(seat):
			p.result = resultFolded
		case p.winnings > 0:
			p.result = resultWon
		default:
			p.result = resultLost
		}

		sr := &SeatResult{
			Seat:          seat,
			Occupant:      p.Occupant,
			StartingStack: h.pm.Starting(seat),
			Stack:         p.Stack,
			Contributed:   h.pm.TotalContribution(seat),
			Won:           p.winnings,
			Result:        string(p.result),
			Detached:      p.detached,
		}

		if p.detached {
			sr.Owed = p.Stack - p.detachedWith
		}

		if p.revealed {
			sr.Cards = p.cards.Clone()
			for _, ranking := range p.rankings {
				sr.Hands = append(sr.Hands, ranking.String())
			}
		}

		r.Seats = append(r.Seats, sr)
	}

	e.result = r

	e.logger.WithFields(logrus.Fields{
		"hand":     h.number,
		"pot":      r.Pot,
		"rake":     r.Rake,
		"showdown": showdown,
		"payouts":  payouts,
	}).Info("hand resolved")
}

// Show reveals a seat's cards after the hand resolved without a showdown
func (e *Engine) Show(seat int) error {
	h := e.hand
	if h == nil || !h.resolved {
		return ErrNotResolved
	}

	p, ok := h.participants[seat]
	if !ok || p.detached {
		return ErrNotInHand
	}

	if p.revealed {
		return ErrAlreadyShown
	}

	p.revealed = true
	return nil
}

// Stacks returns the chips each seat has behind, including winnings once the hand resolved
func (e *Engine) Stacks() map[int]int {
	h := e.hand
	if h == nil {
		return nil
	}

	stacks := make(map[int]int, len(h.participants))
	for seat, p := range h.participants {
		if h.resolved {
			stacks[seat] = p.Stack
		} else {
			stacks[seat] = h.pm.Remaining(seat)
		}
	}

	return stacks
}
