package table

import (
	"context"
	"sync"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/texasholdem"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/timer"
	"github.com/sirupsen/logrus"
)

// ledgerTimeout bounds ledger calls the table makes on its own, i.e., paying out a kicked seat
const ledgerTimeout = time.Second * 10

// Listener receives a snapshot after every change
// Listeners are called with the table locked. They must return quickly and never call back into the table.
type Listener func(s *Snapshot)

// Table is a live poker table
// It is the only thing that mutates its seats and its hand. Every method is safe for concurrent use.
type Table struct {
	id       string
	opts     Options
	settings config.Settings
	logger   logrus.FieldLogger
	ledger   ledger.Ledger
	history  Recorder
	clock    func() time.Time

	mu        sync.Mutex
	engine    *texasholdem.Engine
	scheduler *timer.Scheduler
	seats     []*Seat
	rake      int
	version   int64
	closed    bool
	// eliminated lists tournament occupants in the order they busted
	eliminated []string
	winner     string

	listeners    map[int]Listener
	nextListener int
	// after holds calls to make once the lock is released
	after []func()

	wake chan struct{}
	done chan struct{}
}

// New returns a table ready to be run
func New(opts Options, deps Dependencies) (*Table, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	if opts.ID == "" {
		opts.ID = newTableID()
	}

	deps = deps.withDefaults()
	logger := deps.Logger.WithFields(logrus.Fields{
		"table": opts.ID,
		"name":  opts.Name,
	})

	engine, err := texasholdem.NewEngine(logger, opts.engineOptions(deps.Settings), deps.RNG)
	if err != nil {
		return nil, err
	}

	t := &Table{
		id:        opts.ID,
		opts:      opts,
		settings:  deps.Settings,
		logger:    logger,
		ledger:    deps.Ledger,
		history:   deps.History,
		clock:     deps.Clock,
		engine:    engine,
		scheduler: timer.NewScheduler(),
		seats:     make([]*Seat, opts.Seats),
		listeners: make(map[int]Listener),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	if opts.Tournament != nil {
		now := t.clock()
		for i, occupant := range opts.Tournament.Occupants {
			t.seats[i] = newSeat(i, occupant, opts.Tournament.StartingStack, t.settings.Timing, now)
		}

		t.scheduleNextHand(now)
	}

	return t, nil
}

// ID returns the table's identifier
func (t *Table) ID() string {
	return t.id
}

// Name returns the table's name
func (t *Table) Name() string {
	return t.opts.Name
}

// Options returns the table's options
func (t *Table) Options() Options {
	return t.opts
}

// IsTournament returns true for ephemeral Spin & Go tables
func (t *Table) IsTournament() bool {
	return t.opts.Tournament != nil
}

// Done is closed when the table closes
func (t *Table) Done() <-chan struct{} {
	return t.done
}

// Subscribe registers a listener and sends it the current snapshot
// The returned func removes the listener.
func (t *Table) Subscribe(l Listener) func() {
	t.mu.Lock()
	defer t.unlock()

	id := t.nextListener
	t.nextListener++
	t.listeners[id] = l
	l(t.snapshot())

	return func() {
		t.mu.Lock()
		defer t.unlock()
		delete(t.listeners, id)
	}
}

// SeatOf returns the seat index of occupant
func (t *Table) SeatOf(occupant string) (int, bool) {
	t.mu.Lock()
	defer t.unlock()

	return t.seatOf(occupant)
}

func (t *Table) seatOf(occupant string) (int, bool) {
	for i, s := range t.seats {
		if s != nil && s.Occupant == occupant {
			return i, true
		}
	}

	return -1, false
}

// unlock releases the lock and then makes the deferred calls
func (t *Table) unlock() {
	after := t.after
	t.after = nil
	t.mu.Unlock()

	for _, fn := range after {
		fn()
	}
}

// changed brings the hand and the clock up to date and tells every listener
// NOTE: the lock must be held
func (t *Table) changed(now time.Time) {
	if r := t.engine.TakeResult(); r != nil {
		t.applyResult(r, now)
	}

	t.syncDeadlines(now)
	t.version++
	t.notify()

	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *Table) notify() {
	if len(t.listeners) == 0 {
		return
	}

	s := t.snapshot()
	for _, l := range t.listeners {
		l(s)
	}
}

// syncDeadlines mirrors the engine's deadlines into the scheduler
func (t *Table) syncDeadlines(now time.Time) {
	t.scheduler.CancelKind(timer.KindAction)
	t.scheduler.Cancel(timer.KindVote, -1)
	t.scheduler.Cancel(timer.KindShowdown, -1)

	for _, d := range t.engine.Deadlines() {
		t.scheduler.Schedule(d)
	}

	if t.closed || t.engine.Phase() != texasholdem.PhaseWaiting {
		return
	}

	if _, pending := t.scheduler.Pending(timer.KindNextHand, -1); !pending {
		t.scheduleNextHand(now)
	}
}

func (t *Table) scheduleNextHand(now time.Time) {
	if t.playableSeats() < 2 {
		return
	}

	t.scheduler.Schedule(timer.Deadline{
		At:   now.Add(config.Duration(t.settings.Timing.NextHandSeconds)),
		Kind: timer.KindNextHand,
		Seat: -1,
		Hand: t.engine.HandNumber() + 1,
	})
}

func (t *Table) playableSeats() int {
	n := 0
	for _, s := range t.seats {
		if s != nil && s.canPlay(t.opts.Tournament != nil) {
			n++
		}
	}

	return n
}

func (t *Table) ledgerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), ledgerTimeout)
}
