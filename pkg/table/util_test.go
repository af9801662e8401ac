package table

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/rng"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/history"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

type recorder struct {
	mu      sync.Mutex
	records []*history.Record
}

func (r *recorder) Dispatch(record *history.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *recorder) Records() []*history.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*history.Record(nil), r.records...)
}

// brokenLedger fails every call
type brokenLedger struct{}

var errLedgerDown = errors.New("ledger is down")

func (brokenLedger) Debit(context.Context, string, int, string) error  { return errLedgerDown }
func (brokenLedger) Credit(context.Context, string, int, string) error { return errLedgerDown }
func (brokenLedger) Balance(context.Context, string) (int, error)     { return 0, errLedgerDown }

func testSettings() config.Settings {
	return config.Settings{
		Version: 3,
		Timing: config.Timing{
			ActionSeconds:        15,
			TimeBankSeconds:      30,
			TimeBankCapSeconds:   60,
			TimeBankRegenSeconds: 5,
			MaxTimeouts:          2,
			VoteSeconds:          10,
			ShowdownSeconds:      5,
			KickGraceSeconds:     60,
			NextHandSeconds:      2,
		},
	}
}

func testOptions() Options {
	return Options{
		Name:             "Test Table",
		Seats:            6,
		SmallBlind:       1,
		BigBlind:         2,
		MinBuyIn:         40,
		MaxBuyIn:         200,
		RakeBasisPoints:  500,
		RakeCapBigBlinds: 3,
		RunItTwice:       true,
	}
}

type fixture struct {
	table   *Table
	ledger  *ledger.Memory
	clock   *clock
	history *recorder
}

func testDependencies(l ledger.Ledger, c *clock, h *recorder, seed int64) Dependencies {
	return Dependencies{
		Logger:   logrus.StandardLogger(),
		Ledger:   l,
		History:  h,
		Settings: testSettings(),
		RNG:      rng.Seeded(seed),
		Clock:    c.Now,
	}
}

func setupTable(t *testing.T, opts Options, seed int64) *fixture {
	t.Helper()

	f := &fixture{
		ledger:  ledger.NewMemory(),
		clock:   &clock{now: start},
		history: &recorder{},
	}

	tbl, err := New(opts, testDependencies(f.ledger, f.clock, f.history, seed))
	require.NoError(t, err)
	f.table = tbl
	return f
}

// fund credits every occupant with amount
func (f *fixture) fund(t *testing.T, amount int, occupants ...string) {
	t.Helper()
	for _, occupant := range occupants {
		require.NoError(t, f.ledger.Credit(context.Background(), occupant, amount, "deposit"))
	}
}

// seat funds each occupant with 1000 and seats them in order with buyIn
func (f *fixture) seat(t *testing.T, buyIn int, occupants ...string) {
	t.Helper()
	f.fund(t, 1000, occupants...)
	for i, occupant := range occupants {
		require.NoError(t, f.table.Sit(context.Background(), occupant, i, buyIn))
	}
}

func (f *fixture) balance(occupant string) int {
	balance, _ := f.ledger.Balance(context.Background(), occupant)
	return balance
}

// advance moves the clock to the next deadline and handles it
func (f *fixture) advance(t *testing.T) {
	t.Helper()

	f.table.mu.Lock()
	next, ok := f.table.scheduler.Next()
	f.table.mu.Unlock()
	require.True(t, ok, "there is no pending deadline")

	f.clock.Set(next)
	f.table.Tick(next)
}

// deal advances until a hand is dealt
func (f *fixture) deal(t *testing.T) {
	t.Helper()
	for i := 0; i < 10; i++ {
		if s := f.table.Snapshot(); s.Hand != nil && !s.Hand.Resolved {
			return
		}

		f.advance(t)
	}

	require.Fail(t, "no hand was dealt")
}

func (f *fixture) turn(t *testing.T) (int, string) {
	t.Helper()
	s := f.table.Snapshot()
	require.NotNil(t, s.Hand)
	require.GreaterOrEqual(t, s.Hand.Turn, 0)
	return s.Hand.Turn, s.Hand.Seat(s.Hand.Turn).Occupant
}

func (f *fixture) act(t *testing.T, a action.Action, amount int) {
	t.Helper()
	_, occupant := f.turn(t)
	require.NoError(t, f.table.Act(occupant, a, amount))
}

func seatOf(s *Snapshot, occupant string) *Seat {
	return s.Player(occupant)
}

// totalChips is every chip owned by occupants, on the table or in the ledger
func (f *fixture) totalChips(occupants ...string) int {
	total := 0
	for _, occupant := range occupants {
		total += f.balance(occupant)
	}

	s := f.table.Snapshot()
	for _, p := range s.Players {
		total += p.Stack
	}

	if s.Hand != nil && !s.Hand.Resolved {
		total += s.Hand.Pot
	}

	return total
}

func assertUserError(t *testing.T, err error) {
	t.Helper()
	var userError UserError
	assert.True(t, errors.As(err, &userError), "expected a UserError, got %v", err)
}
