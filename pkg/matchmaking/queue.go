package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/rng"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UserError is an error that can be reported to the player as is
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// errors returned by the queue
const (
	ErrUnknownTier   = UserError("that tier does not exist")
	ErrAlreadyQueued = UserError("you are already registered for a Spin & Go")
	ErrInMatch       = UserError("you are already playing in a Spin & Go")
	ErrNotQueued     = UserError("you are not registered for a Spin & Go")
	ErrInsufficient  = UserError("you do not have enough chips for that buy-in")
)

// Entry is an occupant waiting in a tier
type Entry struct {
	Tier     string    `json:"tier"`
	Occupant string    `json:"occupant"`
	Joined   time.Time `json:"joined"`
}

// Match is a formed Spin & Go
type Match struct {
	ID         string    `json:"id"`
	Tier       string    `json:"tier"`
	BuyIn      int       `json:"buyIn"`
	Multiplier int       `json:"multiplier"`
	Prize      int       `json:"prize"`
	TableID    string    `json:"tableId"`
	Occupants  []string  `json:"occupants"`
	Formed     time.Time `json:"formed"`
}

// TierStatus is the public state of a tier
type TierStatus struct {
	Tier          string `json:"tier"`
	BuyIn         int    `json:"buyIn"`
	Players       int    `json:"players"`
	StartingStack int    `json:"startingStack"`
	Waiting       int    `json:"waiting"`
}

// TableCreator opens the ephemeral table of a match
type TableCreator interface {
	Create(opts table.Options) (*table.Table, error)
}

// Notifier is told about every formed match exactly once
type Notifier interface {
	Announce(match *Match)
}

// NotifierFunc adapts a function to a Notifier
type NotifierFunc func(match *Match)

// Announce calls f(match)
func (f NotifierFunc) Announce(match *Match) {
	f(match)
}

// Dependencies are the collaborators of a Queue
type Dependencies struct {
	Logger   logrus.FieldLogger
	Ledger   ledger.Ledger
	Tables   TableCreator
	Notifier Notifier
	// Store mirrors the waiting entries, may be nil
	Store Store
	RNG   rng.Generator
	Clock func() time.Time
}

// Queue holds one FIFO per tier and forms matches
type Queue struct {
	deps  Dependencies
	tiers map[string]config.Tier
	order []string

	mu      sync.Mutex
	waiting map[string][]Entry
	matches map[string]*Match
	playing map[string]string
}

// NewQueue returns an empty queue for tiers
func NewQueue(tiers []config.Tier, deps Dependencies) (*Queue, error) {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}

	if deps.RNG == nil {
		deps.RNG = rng.Crypto{}
	}

	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	if deps.Ledger == nil || deps.Tables == nil {
		return nil, errors.New("a ledger and a table creator are required")
	}

	q := &Queue{
		deps:    deps,
		tiers:   make(map[string]config.Tier),
		waiting: make(map[string][]Entry),
		matches: make(map[string]*Match),
		playing: make(map[string]string),
	}

	for _, tier := range tiers {
		if err := validateTier(tier); err != nil {
			return nil, fmt.Errorf("tier %s: %w", tier.ID, err)
		}

		if _, exists := q.tiers[tier.ID]; exists {
			return nil, fmt.Errorf("tier %s is configured twice", tier.ID)
		}

		q.tiers[tier.ID] = tier
		q.order = append(q.order, tier.ID)
	}

	return q, nil
}

func validateTier(tier config.Tier) error {
	if tier.ID == "" {
		return errors.New("the tier needs an ID")
	}

	if tier.BuyIn <= 0 || tier.StartingStack <= 0 {
		return errors.New("the buy-in and starting stack must be > 0")
	}

	if tier.Players < 2 || tier.Players > 9 {
		return errors.New("a tier must have between 2 and 9 players")
	}

	for _, m := range tier.Multipliers {
		if m.Value > 0 && m.Weight > 0 {
			return nil
		}
	}

	return errors.New("the tier has no usable multiplier")
}

// Restore loads the waiting entries from the store
// Their buy-ins were debited when they first registered.
func (q *Queue) Restore(ctx context.Context) error {
	if q.deps.Store == nil {
		return nil
	}

	saved, err := q.deps.Store.Load(ctx)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for tierID, entries := range saved {
		if _, ok := q.tiers[tierID]; !ok {
			q.deps.Logger.WithField("tier", tierID).Warn("dropping entries of a tier that no longer exists")
			continue
		}

		q.waiting[tierID] = entries
	}

	return nil
}

// Register debits the tier's buy-in and queues the occupant
// If the occupant completes the tier, the match is returned.
func (q *Queue) Register(ctx context.Context, tierID, occupant string) (*Match, error) {
	match, err := q.register(ctx, tierID, occupant)
	if err != nil {
		return nil, err
	}

	if match != nil && q.deps.Notifier != nil {
		q.deps.Notifier.Announce(match)
	}

	return match, nil
}

func (q *Queue) register(ctx context.Context, tierID, occupant string) (*Match, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	tier, ok := q.tiers[tierID]
	if !ok {
		return nil, ErrUnknownTier
	}

	if _, ok := q.playing[occupant]; ok {
		return nil, ErrInMatch
	}

	if _, ok := q.find(occupant); ok {
		return nil, ErrAlreadyQueued
	}

	if err := q.deps.Ledger.Debit(ctx, occupant, tier.BuyIn, reason(ledger.ReasonBuyIn, tierID)); err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return nil, ErrInsufficient
		}

		return nil, fmt.Errorf("could not debit the buy-in: %w", err)
	}

	q.waiting[tierID] = append(q.waiting[tierID], Entry{
		Tier:     tierID,
		Occupant: occupant,
		Joined:   q.deps.Clock(),
	})

	if len(q.waiting[tierID]) < tier.Players {
		q.save(ctx, tierID)
		return nil, nil
	}

	entries := q.waiting[tierID][:tier.Players]
	q.waiting[tierID] = append([]Entry(nil), q.waiting[tierID][tier.Players:]...)

	match, err := q.form(tier, entries)
	if err != nil {
		q.deps.Logger.WithError(err).WithField("tier", tierID).Error("could not open the match table")
		for _, e := range entries {
			if err := q.deps.Ledger.Credit(ctx, e.Occupant, tier.BuyIn, reason(ledger.ReasonRefund, tierID)); err != nil {
				q.deps.Logger.WithError(err).WithField("occupant", e.Occupant).Error("could not refund the buy-in")
			}
		}

		q.save(ctx, tierID)
		return nil, err
	}

	q.save(ctx, tierID)
	return match, nil
}

// form opens the table of a match
func (q *Queue) form(tier config.Tier, entries []Entry) (*Match, error) {
	weights := make([]int, len(tier.Multipliers))
	for i, m := range tier.Multipliers {
		if m.Value > 0 {
			weights[i] = m.Weight
		}
	}

	multiplier := tier.Multipliers[rng.Weighted(q.deps.RNG, weights)].Value

	occupants := make([]string, len(entries))
	for i, e := range entries {
		occupants[i] = e.Occupant
	}

	match := &Match{
		ID:         uuid.New().String(),
		Tier:       tier.ID,
		BuyIn:      tier.BuyIn,
		Multiplier: multiplier,
		Prize:      tier.BuyIn * multiplier,
		Occupants:  occupants,
		Formed:     q.deps.Clock(),
	}

	t, err := q.deps.Tables.Create(table.Options{
		Name:       fmt.Sprintf("Spin & Go x%d", multiplier),
		Seats:      len(occupants),
		SmallBlind: tier.SmallBlind,
		BigBlind:   tier.BigBlind,
		Tournament: &table.Tournament{
			MatchID:       match.ID,
			Tier:          tier.ID,
			BuyIn:         tier.BuyIn,
			Multiplier:    multiplier,
			StartingStack: tier.StartingStack,
			Occupants:     occupants,
			OnConcluded: func(matchID, _ string) {
				q.Concluded(matchID)
			},
		},
	})
	if err != nil {
		return nil, err
	}

	match.TableID = t.ID()
	q.matches[match.ID] = match
	for _, occupant := range occupants {
		q.playing[occupant] = match.ID
	}

	q.deps.Logger.WithFields(logrus.Fields{
		"match":      match.ID,
		"tier":       tier.ID,
		"multiplier": multiplier,
		"table":      match.TableID,
	}).Info("formed match")

	return match, nil
}

// Unregister removes a waiting occupant and refunds the buy-in
func (q *Queue) Unregister(ctx context.Context, occupant string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry, ok := q.find(occupant)
	if !ok {
		if _, playing := q.playing[occupant]; playing {
			return ErrInMatch
		}

		return ErrNotQueued
	}

	tier := q.tiers[entry.Tier]
	if err := q.deps.Ledger.Credit(ctx, occupant, tier.BuyIn, reason(ledger.ReasonRefund, tier.ID)); err != nil {
		return fmt.Errorf("could not refund the buy-in: %w", err)
	}

	entries := q.waiting[entry.Tier]
	for i, e := range entries {
		if e.Occupant == occupant {
			q.waiting[entry.Tier] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}

	q.save(ctx, entry.Tier)
	return nil
}

// Concluded forgets a finished match so its players can register again
func (q *Queue) Concluded(matchID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	match, ok := q.matches[matchID]
	if !ok {
		return
	}

	delete(q.matches, matchID)
	for _, occupant := range match.Occupants {
		if q.playing[occupant] == matchID {
			delete(q.playing, occupant)
		}
	}

	q.deps.Logger.WithField("match", matchID).Info("match concluded")
}

// Status returns every tier in configuration order
func (q *Queue) Status() []TierStatus {
	q.mu.Lock()
	defer q.mu.Unlock()

	status := make([]TierStatus, 0, len(q.order))
	for _, id := range q.order {
		tier := q.tiers[id]
		status = append(status, TierStatus{
			Tier:          id,
			BuyIn:         tier.BuyIn,
			Players:       tier.Players,
			StartingStack: tier.StartingStack,
			Waiting:       len(q.waiting[id]),
		})
	}

	return status
}

// Waiting returns the occupant's queue entry
func (q *Queue) Waiting(occupant string) (Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.find(occupant)
}

// MatchOf returns the match the occupant is playing in
func (q *Queue) MatchOf(occupant string) (*Match, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	id, ok := q.playing[occupant]
	if !ok {
		return nil, false
	}

	return q.matches[id], true
}

func (q *Queue) find(occupant string) (Entry, bool) {
	for _, entries := range q.waiting {
		for _, e := range entries {
			if e.Occupant == occupant {
				return e, true
			}
		}
	}

	return Entry{}, false
}

// save mirrors a tier, failures are only logged
func (q *Queue) save(ctx context.Context, tierID string) {
	if q.deps.Store == nil {
		return
	}

	if err := q.deps.Store.Save(ctx, tierID, q.waiting[tierID]); err != nil {
		q.deps.Logger.WithError(err).WithField("tier", tierID).Warn("could not mirror the queue")
	}
}

func reason(kind, tierID string) string {
	return fmt.Sprintf("%s spin:%s", kind, tierID)
}
