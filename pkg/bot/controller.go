package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/rng"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/util"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/room"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
	"github.com/sirupsen/logrus"
)

// ErrBudgetExhausted is returned when today's bot budget cannot cover a buy-in
var ErrBudgetExhausted = errors.New("the bot budget is exhausted for today")

// Table is the part of a table bots play through
// It is the same surface a connected player uses.
type Table interface {
	ID() string
	Options() table.Options
	Snapshot() *table.Snapshot
	Subscribe(l table.Listener) func()
	Sit(ctx context.Context, occupant string, seat, buyIn int) error
	Rebuy(ctx context.Context, occupant string, amount int) error
	StandUp(ctx context.Context, occupant string) error
	Act(occupant string, a action.Action, amount int) error
	Vote(occupant string, boards int) error
}

// Dependencies are the collaborators of a Controller
type Dependencies struct {
	Logger   logrus.FieldLogger
	Ledger   ledger.Ledger
	Budget   *Budget
	Settings config.Settings
	RNG      rng.Generator
	Clock    func() time.Time
}

type seatedBot struct {
	occupant string
	policy   Policy
}

// Controller plays the bot seats of one table
type Controller struct {
	table  Table
	deps   Dependencies
	logger logrus.FieldLogger
	think  time.Duration

	mu          sync.Mutex
	bots        map[string]*seatedBot
	pending     map[string]*time.Timer
	unsubscribe func()
	closed      bool
}

// NewController returns a controller for tbl
func NewController(tbl Table, deps Dependencies) *Controller {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}

	if deps.RNG == nil {
		deps.RNG = rng.Crypto{}
	}

	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	if deps.Budget == nil {
		deps.Budget = NewBudget(deps.Settings.Bots.DailyBudget, deps.Settings.Bots.ResetHourUTC)
	}

	return &Controller{
		table:   tbl,
		deps:    deps,
		logger:  deps.Logger.WithField("table", tbl.ID()),
		think:   time.Duration(deps.Settings.Bots.ThinkMillis) * time.Millisecond,
		bots:    make(map[string]*seatedBot),
		pending: make(map[string]*time.Timer),
	}
}

// Start begins watching the table
func (c *Controller) Start() {
	unsubscribe := c.table.Subscribe(c.observe)

	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
}

// Occupants returns the occupants of every bot seat
func (c *Controller) Occupants() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	occupants := make([]string, 0, len(c.bots))
	for occupant := range c.bots {
		occupants = append(occupants, occupant)
	}

	return occupants
}

// buyIn is what a bot brings to the table
func (c *Controller) buyIn() int {
	opts := c.table.Options()
	amount := opts.MinBuyIn * 2
	if amount > opts.MaxBuyIn {
		amount = opts.MaxBuyIn
	}

	return amount
}

// Fill seats up to n bots of style in the empty seats
// It returns how many bots were seated.
func (c *Controller) Fill(ctx context.Context, n int, style Style) (int, error) {
	s := c.table.Snapshot()
	taken := make(map[int]bool, len(s.Players))
	for _, p := range s.Players {
		taken[p.Index] = true
	}

	seated := 0
	for seat := 0; seat < s.Seats && seated < n; seat++ {
		if taken[seat] {
			continue
		}

		policy, err := NewPolicy(style, c.deps.RNG)
		if err != nil {
			return seated, err
		}

		occupant := fmt.Sprintf("%s%s:%d", util.BotPrefix, c.table.ID(), seat)
		buyIn := c.buyIn()
		if err := c.float(ctx, occupant, buyIn); err != nil {
			return seated, err
		}

		c.mu.Lock()
		c.bots[occupant] = &seatedBot{occupant: occupant, policy: policy}
		c.mu.Unlock()

		if err := c.table.Sit(ctx, occupant, seat, buyIn); err != nil {
			c.mu.Lock()
			delete(c.bots, occupant)
			c.mu.Unlock()
			c.unfloat(ctx, occupant, buyIn)
			return seated, err
		}

		seated++
	}

	c.logger.WithField("bots", seated).WithField("style", style).Info("seated bots")
	return seated, nil
}

// float credits a bot with amount from today's budget
func (c *Controller) float(ctx context.Context, occupant string, amount int) error {
	if !c.deps.Budget.Spend(c.deps.Clock(), amount) {
		return ErrBudgetExhausted
	}

	if err := c.deps.Ledger.Credit(ctx, occupant, amount, ledger.Reason(ledger.ReasonBotFloat, c.table.ID())); err != nil {
		c.deps.Budget.Refund(c.deps.Clock(), amount)
		return err
	}

	return nil
}

// unfloat takes back a float the table did not accept
func (c *Controller) unfloat(ctx context.Context, occupant string, amount int) {
	if err := c.deps.Ledger.Debit(ctx, occupant, amount, ledger.Reason(ledger.ReasonRefund, c.table.ID())); err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"bot":    occupant,
			"amount": amount,
		}).Error("could not take back bot float")
		return
	}

	c.deps.Budget.Refund(c.deps.Clock(), amount)
}

// observe is a table listener. It runs with the table locked, so it only schedules work.
func (c *Controller) observe(s *table.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if s.Closed {
		c.stopTimers()
		return
	}

	for occupant, b := range c.bots {
		seat := s.Player(occupant)
		if seat == nil {
			delete(c.bots, occupant)
			continue
		}

		view := room.Redact(s, occupant)
		if view.Hand != nil {
			b.policy.Observe(view.Hand)
		}

		if _, busy := c.pending[occupant]; busy {
			continue
		}

		h := view.Hand
		switch {
		case h != nil && !h.Resolved && h.Turn == seat.Index:
			c.schedule(occupant, c.act)
		case h != nil && h.Vote != nil && h.Vote.Boards == 0 && needsVote(h.Vote.Seats, h.Vote.Choices, seat.Index):
			c.schedule(occupant, c.vote)
		case seat.Stack == 0 && seat.KickAt != nil:
			c.schedule(occupant, c.rebuy)
		}
	}
}

func needsVote(seats []int, choices map[int]int, seat int) bool {
	if _, voted := choices[seat]; voted {
		return false
	}

	for _, s := range seats {
		if s == seat {
			return true
		}
	}

	return false
}

// NOTE: c.mu must be held
func (c *Controller) schedule(occupant string, fn func(occupant string)) {
	c.pending[occupant] = time.AfterFunc(c.think, func() {
		c.mu.Lock()
		delete(c.pending, occupant)
		closed := c.closed
		c.mu.Unlock()

		if !closed {
			fn(occupant)
		}
	})
}

// NOTE: c.mu must be held
func (c *Controller) stopTimers() {
	for occupant, t := range c.pending {
		t.Stop()
		delete(c.pending, occupant)
	}
}

func (c *Controller) act(occupant string) {
	s := c.table.Snapshot()
	seat := s.Player(occupant)
	if seat == nil || s.Hand == nil || s.Hand.Resolved || s.Hand.Turn != seat.Index {
		return
	}

	view := room.Redact(s, occupant)

	c.mu.Lock()
	b, ok := c.bots[occupant]
	var d Decision
	if ok {
		d = b.policy.Decide(view.Hand, seat.Index)
	}
	c.mu.Unlock()

	if !ok {
		return
	}

	log := c.logger.WithField("bot", occupant)
	err := c.table.Act(occupant, d.Action, d.Amount)
	if err == nil {
		return
	}

	log.WithError(err).WithField("action", d.Action).Debug("bot action was rejected")
	if err := c.table.Act(occupant, action.Check, 0); err == nil {
		return
	}

	if err := c.table.Act(occupant, action.Fold, 0); err != nil {
		log.WithError(err).Warn("bot could not fold")
	}
}

func (c *Controller) vote(occupant string) {
	boards := 1 + c.deps.RNG.Intn(2)
	if err := c.table.Vote(occupant, boards); err != nil {
		c.logger.WithError(err).WithField("bot", occupant).Debug("bot vote was rejected")
	}
}

// rebuy tops up a busted bot, or stands it up when the budget is spent
func (c *Controller) rebuy(occupant string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	log := c.logger.WithField("bot", occupant)
	amount := c.buyIn()
	if err := c.float(ctx, occupant, amount); err != nil {
		log.WithError(err).Info("bot is leaving the table")
		if err := c.table.StandUp(ctx, occupant); err != nil {
			log.WithError(err).Warn("bot could not stand up")
		}

		return
	}

	if err := c.table.Rebuy(ctx, occupant, amount); err != nil {
		log.WithError(err).Warn("bot could not rebuy")
		c.unfloat(ctx, occupant, amount)
	}
}

// Close stops the bots and stands up every one that is not in a hand
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.stopTimers()
	unsubscribe := c.unsubscribe
	occupants := make([]string, 0, len(c.bots))
	for occupant := range c.bots {
		occupants = append(occupants, occupant)
	}
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	var errs []error
	for _, occupant := range occupants {
		err := c.table.StandUp(ctx, occupant)
		if err != nil && !errors.Is(err, table.ErrNotSeated) && !errors.Is(err, table.ErrTableClosed) {
			errs = append(errs, fmt.Errorf("%s: %w", occupant, err))
		}
	}

	return errors.Join(errs...)
}
