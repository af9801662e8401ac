package table

import (
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/texasholdem"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/timer"
)

// Snapshot is an immutable copy of the table
// Hand holds every seat's hole cards. It must be redacted before it is shown to a player.
type Snapshot struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Version         int64  `json:"version"`
	SettingsVersion int64  `json:"settingsVersion"`

	Seats      int  `json:"seats"`
	SmallBlind int  `json:"smallBlind"`
	BigBlind   int  `json:"bigBlind"`
	MinBuyIn   int  `json:"minBuyIn"`
	MaxBuyIn   int  `json:"maxBuyIn"`
	RunItTwice bool `json:"runItTwice"`

	RakeBasisPoints  int `json:"rakeBasisPoints"`
	RakeCapBigBlinds int `json:"rakeCapBigBlinds"`
	RakeAccrued      int `json:"rakeAccrued"`

	Tournament *TournamentState `json:"tournament,omitempty"`
	Closed     bool             `json:"closed"`

	Players    []*Seat            `json:"players"`
	Hand       *texasholdem.State `json:"hand"`
	NextHandAt *time.Time         `json:"nextHandAt,omitempty"`
}

// TournamentState is the match part of a snapshot
type TournamentState struct {
	MatchID    string   `json:"matchId"`
	Tier       string   `json:"tier"`
	BuyIn      int      `json:"buyIn"`
	Multiplier int      `json:"multiplier"`
	Prize      int      `json:"prize"`
	Eliminated []string `json:"eliminated"`
	Winner     string   `json:"winner,omitempty"`
}

// Player returns the seat of occupant
func (s *Snapshot) Player(occupant string) *Seat {
	for _, p := range s.Players {
		if p.Occupant == occupant {
			return p
		}
	}

	return nil
}

// Snapshot returns a copy of the table
func (t *Table) Snapshot() *Snapshot {
	t.mu.Lock()
	defer t.unlock()

	return t.snapshot()
}

// NOTE: the lock must be held
func (t *Table) snapshot() *Snapshot {
	s := &Snapshot{
		ID:               t.id,
		Name:             t.opts.Name,
		Version:          t.version,
		SettingsVersion:  t.settings.Version,
		Seats:            t.opts.Seats,
		SmallBlind:       t.opts.SmallBlind,
		BigBlind:         t.opts.BigBlind,
		MinBuyIn:         t.opts.MinBuyIn,
		MaxBuyIn:         t.opts.MaxBuyIn,
		RunItTwice:       t.opts.RunItTwice,
		RakeBasisPoints:  t.opts.RakeBasisPoints,
		RakeCapBigBlinds: t.opts.RakeCapBigBlinds,
		RakeAccrued:      t.rake,
		Closed:           t.closed,
		Players:          make([]*Seat, 0, len(t.seats)),
		Hand:             t.engine.State(),
	}

	if tournament := t.opts.Tournament; tournament != nil {
		s.Tournament = &TournamentState{
			MatchID:    tournament.MatchID,
			Tier:       tournament.Tier,
			BuyIn:      tournament.BuyIn,
			Multiplier: tournament.Multiplier,
			Prize:      tournament.Prize(),
			Eliminated: append([]string{}, t.eliminated...),
			Winner:     t.winner,
		}
	}

	stacks := t.engine.Stacks()
	for _, seat := range t.seats {
		if seat == nil {
			continue
		}

		c := seat.clone()
		if stack, ok := stacks[seat.Index]; ok && seat.Active {
			c.Stack = stack
		}

		s.Players = append(s.Players, c)
	}

	if d, ok := t.scheduler.Pending(timer.KindNextHand, -1); ok {
		at := d.At
		s.NextHandAt = &at
	}

	return s
}
