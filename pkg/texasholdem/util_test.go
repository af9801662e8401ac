package texasholdem

import (
	"fmt"
	"testing"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/rng"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/deck"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var start = time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC)

func testOptions() Options {
	opts := DefaultOptions()
	opts.SmallBlind = 1
	opts.BigBlind = 2
	opts.RakeBasisPoints = 500
	opts.RakeCapBigBlinds = 3
	return opts
}

func setupEngine(opts Options) *Engine {
	e, err := NewEngine(logrus.StandardLogger(), opts, rng.Seeded(1))
	if err != nil {
		panic(err)
	}

	return e
}

// setupPlayers seats each stack at seats 0..n-1
func setupPlayers(stacks ...int) []Player {
	players := make([]Player, len(stacks))
	for i, stack := range stacks {
		players[i] = Player{
			Seat:     i,
			Occupant: fmt.Sprintf("player:%d", i),
			Stack:    stack,
		}
	}

	return players
}

func setupHand(opts Options, stacks ...int) *Engine {
	e := setupEngine(opts)
	if err := e.StartHand(setupPlayers(stacks...), start); err != nil {
		panic(err)
	}

	return e
}

// rig replaces the hole cards of the given seats and puts board on top of the deck
func rig(e *Engine, holes map[int]string, board string) {
	for seat, cards := range holes {
		e.hand.participants[seat].cards = deck.CardsFromString(cards)
	}

	e.hand.deck.Cards = deck.CardsFromString(board)
}

func assertAction(t *testing.T, e *Engine, seat int, a action.Action, msgAndArgs ...interface{}) {
	t.Helper()
	assertActionAndAmount(t, e, seat, a, 0, msgAndArgs...)
}

func assertActionAndAmount(t *testing.T, e *Engine, seat int, a action.Action, amount int, msgAndArgs ...interface{}) {
	t.Helper()
	assert.NoError(t, e.Apply(seat, a, amount, start), msgAndArgs...)
}

// foldAround folds every seat on the clock until the hand resolves, then waits out the showdown
func foldAround(t *testing.T, e *Engine) {
	t.Helper()
	for e.InProgress() {
		assertAction(t, e, e.State().Turn, action.Fold)
	}

	changed, _ := e.Tick(start.Add(e.opts.ShowdownTime))
	assert.True(t, changed)
	assert.Equal(t, PhaseWaiting, e.Phase())
}

func seatOf(r *Result, seat int) *SeatResult {
	for _, sr := range r.Seats {
		if sr.Seat == seat {
			return sr
		}
	}

	return nil
}

func stackOf(r *Result, seat int) int {
	if sr := seatOf(r, seat); sr != nil {
		return sr.Stack
	}

	return -1
}

func cardsString(cards []*deck.Card) string {
	return deck.CardsToString(cards)
}
