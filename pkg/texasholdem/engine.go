package texasholdem

import (
	"sort"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/rng"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/deck"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/betting"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/potmanager"
	"github.com/sirupsen/logrus"
)

// Engine runs the hands of a single table
// It is not safe for concurrent use. The table serializes every call.
type Engine struct {
	logger logrus.FieldLogger
	opts   Options
	rng    rng.Generator

	// dealer is the button seat of the last hand, -1 before the first hand
	dealer     int
	handNumber int64

	hand   *hand
	result *Result
}

type hand struct {
	number    int64
	phase     Phase
	startedAt time.Time

	dealer     int
	smallBlind int
	bigBlind   int
	// order is every seat dealt in, clockwise starting left of the dealer
	order        []int
	participants map[int]*participant

	deck     *deck.Deck
	deckHash string
	board    []*deck.Card
	// board2 is only set when the hand is run twice
	board2    []*deck.Card
	flopDealt bool

	pm    *potmanager.PotManager
	round *betting.Round

	turnStarted    time.Time
	actionDeadline time.Time

	vote *vote

	resolved     bool
	rake         int
	pots         potmanager.Pots
	showdownEnds time.Time

	log []LogEntry
}

// NewEngine returns an engine for a table
// g is used to shuffle. Pass nil for a cryptographically secure shuffle.
func NewEngine(logger logrus.FieldLogger, opts Options, g rng.Generator) (*Engine, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if g == nil {
		g = rng.Crypto{}
	}

	return &Engine{
		logger: logger,
		opts:   opts,
		rng:    g,
		dealer: -1,
	}, nil
}

// Options returns the engine's options
func (e *Engine) Options() Options {
	return e.opts
}

// Phase returns the current phase
func (e *Engine) Phase() Phase {
	if e.hand == nil {
		return PhaseWaiting
	}

	return e.hand.phase
}

// HandNumber returns the number of the current or last hand
func (e *Engine) HandNumber() int64 {
	return e.handNumber
}

// InProgress returns true while a hand is dealt and not yet resolved
func (e *Engine) InProgress() bool {
	return e.hand != nil && !e.hand.resolved
}

// StartHand deals a new hand to players
// Players without chips are left out. The button moves one player clockwise.
func (e *Engine) StartHand(players []Player, now time.Time) error {
	if e.hand != nil {
		return ErrHandInProgress
	}

	eligible := make([]Player, 0, len(players))
	for _, p := range players {
		if p.Stack > 0 {
			eligible = append(eligible, p)
		}
	}

	if len(eligible) < 2 {
		return ErrNotEnoughPlayers
	}

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].Seat < eligible[j].Seat
	})

	dealerIndex := 0
	for i, p := range eligible {
		if p.Seat > e.dealer {
			dealerIndex = i
			break
		}
	}

	n := len(eligible)
	order := make([]int, n)
	participants := make(map[int]*participant, n)
	stacks := make(map[int]int, n)
	for i := 0; i < n; i++ {
		p := eligible[(dealerIndex+1+i)%n]
		order[i] = p.Seat
		participants[p.Seat] = newParticipant(p)
		stacks[p.Seat] = p.Stack
	}

	e.handNumber++
	e.dealer = eligible[dealerIndex].Seat

	h := &hand{
		number:       e.handNumber,
		phase:        PhasePreFlop,
		startedAt:    now,
		dealer:       e.dealer,
		order:        order,
		participants: participants,
		deck:         deck.New(),
		board:        make([]*deck.Card, 0, 5),
		pm:           potmanager.New(stacks),
		log:          make([]LogEntry, 0),
	}

	// heads up, the button posts the small blind and acts first pre-flop
	var first int
	if n == 2 {
		h.smallBlind = h.dealer
		h.bigBlind = order[0]
		first = h.dealer
	} else {
		h.smallBlind = order[0]
		h.bigBlind = order[1]
		first = order[2%n]
	}

	h.deck.Shuffle(e.rng)
	h.deckHash = h.deck.HashCode()

	for i := 0; i < 2; i++ {
		for _, seat := range order {
			card, err := h.deck.Draw()
			if err != nil {
				panic(err)
			}

			participants[seat].cards.AddCard(card)
		}
	}

	h.round = betting.NewRound(h.pm, order, e.opts.BigBlind)
	h.round.Post(h.smallBlind, e.opts.SmallBlind)
	h.round.Post(h.bigBlind, e.opts.BigBlind)
	h.round.Start(first)

	e.hand = h
	e.result = nil

	e.logger.WithFields(logrus.Fields{
		"hand":   h.number,
		"dealer": h.dealer,
		"seats":  order,
	}).Debug("dealt hand")

	e.afterAction(now)
	return nil
}

// afterAction moves the hand forward after the betting round changed
func (e *Engine) afterAction(now time.Time) {
	h := e.hand
	if len(h.pm.InHand()) == 1 {
		e.resolveUncontested(now)
		return
	}

	if h.round.IsOver() {
		e.endStreet(now)
		return
	}

	e.startTurn(now)
}

func (e *Engine) startTurn(now time.Time) {
	h := e.hand
	p := h.participants[h.round.Turn()]
	h.turnStarted = now
	h.actionDeadline = p.Bank.Deadline(now, e.opts.ActionTime)
}

// endStreet closes the betting round and deals what comes next
func (e *Engine) endStreet(now time.Time) {
	h := e.hand
	h.pm.EndRound()
	h.actionDeadline = time.Time{}

	if h.phase == PhaseRiver {
		e.showdown(now)
		return
	}

	if e.qualifiesForRunItTwice() {
		e.openVote(now)
		return
	}

	if e.canActCount() <= 1 {
		e.runOut(&h.board)
		e.showdown(now)
		return
	}

	h.phase++
	e.dealTo(&h.board, h.phase.boardSize())

	h.round = betting.NewRound(h.pm, h.order, e.opts.BigBlind)
	h.round.Start(h.order[0])
	e.startTurn(now)
}

func (e *Engine) canActCount() int {
	count := 0
	for _, seat := range e.hand.order {
		if e.hand.pm.CanAct(seat) {
			count++
		}
	}

	return count
}

// dealTo draws community cards onto board until it has size cards
func (e *Engine) dealTo(board *[]*deck.Card, size int) {
	for len(*board) < size {
		card, err := e.hand.deck.Draw()
		if err != nil {
			panic(err)
		}

		*board = append(*board, card)
	}

	if size >= 3 {
		e.hand.flopDealt = true
	}
}

// runOut deals the rest of the board with no more betting
func (e *Engine) runOut(board *[]*deck.Card) {
	e.dealTo(board, 5)
	e.hand.phase = PhaseRiver
	e.hand.round = nil
}
