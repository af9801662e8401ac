package table

import (
	"errors"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/rng"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/history"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/texasholdem"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options configures a single table
type Options struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Seats is 6 or 9 for cash tables, the match size for tournaments
	Seats int `json:"seats"`

	SmallBlind int `json:"smallBlind"`
	BigBlind   int `json:"bigBlind"`
	MinBuyIn   int `json:"minBuyIn"`
	MaxBuyIn   int `json:"maxBuyIn"`

	RakeBasisPoints  int  `json:"rakeBasisPoints"`
	RakeCapBigBlinds int  `json:"rakeCapBigBlinds"`
	RunItTwice       bool `json:"runItTwice"`

	// Tournament is set for ephemeral Spin & Go tables
	Tournament *Tournament `json:"tournament,omitempty"`
}

// Tournament describes the match an ephemeral table was created for
type Tournament struct {
	MatchID       string   `json:"matchId"`
	Tier          string   `json:"tier"`
	BuyIn         int      `json:"buyIn"`
	Multiplier    int      `json:"multiplier"`
	StartingStack int      `json:"startingStack"`
	Occupants     []string `json:"occupants"`

	// OnConcluded is called once the match has a winner, after the table lock is released
	OnConcluded func(matchID, winner string) `json:"-"`
}

// Prize is what the winner of the match is paid
func (t *Tournament) Prize() int {
	return t.BuyIn * t.Multiplier
}

// OptionsFromConfig returns the options of a cash table created at boot
func OptionsFromConfig(t config.Table) Options {
	return Options{
		Name:             t.Name,
		Seats:            t.Seats,
		SmallBlind:       t.SmallBlind,
		BigBlind:         t.BigBlind,
		MinBuyIn:         t.MinBuyIn,
		MaxBuyIn:         t.MaxBuyIn,
		RakeBasisPoints:  t.RakeBasisPoints,
		RakeCapBigBlinds: t.RakeCapBigBlinds,
		RunItTwice:       t.RunItTwice,
	}
}

func (o Options) validate() error {
	if o.Tournament != nil {
		if o.Seats < 2 || o.Seats > 9 {
			return errors.New("a tournament table must have between 2 and 9 seats")
		}

		if len(o.Tournament.Occupants) != o.Seats {
			return errors.New("every tournament seat must have an occupant")
		}

		if o.Tournament.StartingStack <= 0 {
			return errors.New("the starting stack must be > 0")
		}

		return nil
	}

	if o.Seats != 6 && o.Seats != 9 {
		return errors.New("a table must have 6 or 9 seats")
	}

	if o.MinBuyIn <= 0 {
		return errors.New("the minimum buy-in must be > 0")
	}

	if o.MaxBuyIn < o.MinBuyIn {
		return errors.New("the maximum buy-in must be >= the minimum buy-in")
	}

	return nil
}

func (o Options) engineOptions(s config.Settings) texasholdem.Options {
	opts := texasholdem.Options{
		SmallBlind:       o.SmallBlind,
		BigBlind:         o.BigBlind,
		RakeBasisPoints:  o.RakeBasisPoints,
		RakeCapBigBlinds: o.RakeCapBigBlinds,
		ActionTime:       config.Duration(s.Timing.ActionSeconds),
		VoteTime:         config.Duration(s.Timing.VoteSeconds),
		ShowdownTime:     config.Duration(s.Timing.ShowdownSeconds),
		RunItTwice:       o.RunItTwice,
	}

	// tournaments are not raked
	if o.Tournament != nil {
		opts.RakeBasisPoints = 0
		opts.RakeCapBigBlinds = 0
	}

	return opts
}

// Recorder receives the history of every resolved hand
type Recorder interface {
	Dispatch(r *history.Record) error
}

// Dependencies are the collaborators a table is built with
type Dependencies struct {
	Logger   logrus.FieldLogger
	Ledger   ledger.Ledger
	History  Recorder
	Settings config.Settings
	// RNG shuffles the deck, nil is cryptographically secure
	RNG   rng.Generator
	Clock func() time.Time
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}

	if d.Clock == nil {
		d.Clock = time.Now
	}

	return d
}

func newTableID() string {
	return uuid.New().String()
}
