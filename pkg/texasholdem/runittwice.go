package texasholdem

import (
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/deck"
	"github.com/sirupsen/logrus"
)

type vote struct {
	seats    []int
	choices  map[int]int
	deadline time.Time
	// boards is the outcome, 0 until resolved
	boards int
}

// VoteState is the public view of a run it twice vote
type VoteState struct {
	Seats    []int       `json:"seats"`
	Choices  map[int]int `json:"choices"`
	Deadline time.Time   `json:"deadline"`
	Boards   int         `json:"boards"`
}

// qualifiesForRunItTwice is true when exactly two seats are left, both all-in, with cards still to come
func (e *Engine) qualifiesForRunItTwice() bool {
	h := e.hand
	if !e.opts.RunItTwice || len(h.board) >= 5 {
		return false
	}

	inHand := h.pm.InHand()
	if len(inHand) != 2 {
		return false
	}

	return h.pm.IsAllIn(inHand[0]) && h.pm.IsAllIn(inHand[1])
}

func (e *Engine) openVote(now time.Time) {
	h := e.hand
	h.round = nil
	h.vote = &vote{
		seats:    h.pm.InHand(),
		choices:  make(map[int]int, 2),
		deadline: now.Add(e.opts.VoteTime),
	}

	e.logger.WithFields(logrus.Fields{
		"hand":  h.number,
		"seats": h.vote.seats,
	}).Debug("run it twice vote opened")
}

// Vote records a seat's choice of one or two boards
// Two boards are only dealt when both seats ask for them. A vote for one board settles it immediately.
func (e *Engine) Vote(seat, boards int, now time.Time) error {
	h := e.hand
	if h == nil || h.resolved || h.vote == nil || h.vote.boards != 0 {
		return ErrNoVote
	}

	if !h.vote.hasSeat(seat) {
		return ErrNotInHand
	}

	if boards != 1 && boards != 2 {
		return ErrInvalidVote
	}

	if _, ok := h.vote.choices[seat]; ok {
		return ErrAlreadyVoted
	}

	h.vote.choices[seat] = boards

	if boards == 1 {
		e.resolveVote(1, now)
		return nil
	}

	if len(h.vote.choices) == len(h.vote.seats) {
		e.resolveVote(2, now)
	}

	return nil
}

func (v *vote) hasSeat(seat int) bool {
	for _, s := range v.seats {
		if s == seat {
			return true
		}
	}

	return false
}

// resolveVote deals the remaining board once or twice and goes to showdown
// The second board shares the cards already out and continues from where the first board stopped.
func (e *Engine) resolveVote(boards int, now time.Time) {
	h := e.hand
	if h.resolved || h.vote == nil {
		return
	}

	h.vote.boards = boards

	common := len(h.board)
	e.runOut(&h.board)

	if boards == 2 {
		h.board2 = make([]*deck.Card, common, 5)
		copy(h.board2, h.board[:common])
		e.dealTo(&h.board2, 5)
	}

	e.logger.WithFields(logrus.Fields{
		"hand":   h.number,
		"boards": boards,
	}).Debug("run it twice vote resolved")

	e.showdown(now)
}

func (v *vote) state() *VoteState {
	choices := make(map[int]int, len(v.choices))
	for seat, choice := range v.choices {
		choices[seat] = choice
	}

	seats := make([]int, len(v.seats))
	copy(seats, v.seats)

	return &VoteState{
		Seats:    seats,
		Choices:  choices,
		Deadline: v.deadline,
		Boards:   v.boards,
	}
}
