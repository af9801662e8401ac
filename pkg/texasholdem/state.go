package texasholdem

import (
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/deck"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/potmanager"
)

// State is an immutable snapshot of the hand
// It holds every seat's cards. Callers must redact it before showing it to a player.
type State struct {
	HandNumber int64 `json:"handNumber"`
	Phase      Phase `json:"phase"`
	SmallBlind int   `json:"smallBlind"`
	BigBlind   int   `json:"bigBlind"`

	Dealer         int `json:"dealer"`
	SmallBlindSeat int `json:"smallBlindSeat"`
	BigBlindSeat   int `json:"bigBlindSeat"`

	Board  []*deck.Card `json:"board"`
	Board2 []*deck.Card `json:"board2,omitempty"`

	Pot  int             `json:"pot"`
	Pots potmanager.Pots `json:"pots"`
	Rake int             `json:"rake"`

	CurrentBet int `json:"currentBet"`
	MinRaiseTo int `json:"minRaiseTo"`
	// Turn is -1 when nobody is on the clock
	Turn           int        `json:"turn"`
	ActionDeadline *time.Time `json:"actionDeadline,omitempty"`

	Vote         *VoteState `json:"vote,omitempty"`
	Resolved     bool       `json:"resolved"`
	ShowdownEnds *time.Time `json:"showdownEnds,omitempty"`

	Seats []*SeatState `json:"seats"`
}

// SeatState is one seat's part of the hand
type SeatState struct {
	Seat     int    `json:"seat"`
	Occupant string `json:"occupant"`
	Stack    int    `json:"stack"`
	RoundBet int    `json:"roundBet"`
	TotalBet int    `json:"totalBet"`
	Folded   bool   `json:"folded"`
	AllIn    bool   `json:"allIn"`

	Cards    []*deck.Card `json:"cards,omitempty"`
	Revealed bool         `json:"revealed"`

	Legal    []action.Action `json:"legal,omitempty"`
	MaxBet   int             `json:"maxBet,omitempty"`
	ToCall   int             `json:"toCall,omitempty"`
	TimeBank time.Duration   `json:"timeBank"`

	Result   string   `json:"result,omitempty"`
	Winnings int      `json:"winnings,omitempty"`
	Hands    []string `json:"hands,omitempty"`
}

// State returns a snapshot of the current hand, or nil when waiting
func (e *Engine) State() *State {
	h := e.hand
	if h == nil {
		return nil
	}

	s := &State{
		HandNumber:     h.number,
		Phase:          h.phase,
		SmallBlind:     e.opts.SmallBlind,
		BigBlind:       e.opts.BigBlind,
		Dealer:         h.dealer,
		SmallBlindSeat: h.smallBlind,
		BigBlindSeat:   h.bigBlind,
		Board:          append([]*deck.Card{}, h.board...),
		Pot:            h.pm.Total(),
		Rake:           h.rake,
		Turn:           -1,
		Resolved:       h.resolved,
		Seats:          make([]*SeatState, 0, len(h.order)),
	}

	if h.board2 != nil {
		s.Board2 = append([]*deck.Card{}, h.board2...)
	}

	if h.resolved {
		s.Pots = h.pots.Clone()
		ends := h.showdownEnds
		s.ShowdownEnds = &ends
	} else {
		s.Pots = h.pm.Pots()
	}

	if h.vote != nil {
		s.Vote = h.vote.state()
	}

	if h.round != nil && !h.resolved {
		s.CurrentBet = h.round.CurrentBet()
		s.MinRaiseTo = h.round.MinRaiseTo()
		s.Turn = h.round.Turn()
		if s.Turn >= 0 {
			deadline := h.actionDeadline
			s.ActionDeadline = &deadline
		}
	}

	for _, seat := range h.order {
		p := h.participants[seat]
		if p.detached {
			continue
		}

		ss := &SeatState{
			Seat:     seat,
			Occupant: p.Occupant,
			Stack:    h.pm.Remaining(seat),
			RoundBet: h.pm.RoundContribution(seat),
			TotalBet: h.pm.TotalContribution(seat),
			Folded:   h.pm.IsFolded(seat),
			AllIn:    h.pm.IsAllIn(seat),
			Cards:    p.cards.Clone(),
			Revealed: p.revealed,
			TimeBank: p.Bank.Remaining,
		}

		if h.resolved {
			ss.Stack = p.Stack
			ss.Result = string(p.result)
			ss.Winnings = p.winnings
			for _, ranking := range p.rankings {
				ss.Hands = append(ss.Hands, ranking.String())
			}
		}

		if seat == s.Turn {
			ss.Legal = h.round.Legal(seat)
			ss.MaxBet = h.round.MaxRaiseTo(seat)
			ss.ToCall = h.round.ToCall(seat)
		}

		s.Seats = append(s.Seats, ss)
	}

	return s
}

// Seat returns the seat's part of the state
func (s *State) Seat(seat int) *SeatState {
	for _, ss := range s.Seats {
		if ss.Seat == seat {
			return ss
		}
	}

	return nil
}
