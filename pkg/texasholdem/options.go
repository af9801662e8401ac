package texasholdem

import (
	"errors"
	"time"
)

// Options configures how a table's hands are played
type Options struct {
	SmallBlind int
	BigBlind   int

	// RakeBasisPoints is the rake percentage times 100
	RakeBasisPoints int
	// RakeCapBigBlinds caps the rake at this many big blinds
	RakeCapBigBlinds int

	ActionTime   time.Duration
	VoteTime     time.Duration
	ShowdownTime time.Duration

	RunItTwice bool
}

// DefaultOptions returns the default options for Texas Hold'em
func DefaultOptions() Options {
	return Options{
		SmallBlind:       1,
		BigBlind:         2,
		RakeBasisPoints:  500,
		RakeCapBigBlinds: 3,
		ActionTime:       time.Second * 15,
		VoteTime:         time.Second * 10,
		ShowdownTime:     time.Second * 5,
		RunItTwice:       true,
	}
}

// RakeCap returns the rake cap in chips
func (o Options) RakeCap() int {
	return o.RakeCapBigBlinds * o.BigBlind
}

func validateOptions(opts Options) error {
	if opts.SmallBlind <= 0 {
		return errors.New("small blind must be > 0")
	}

	if opts.BigBlind < opts.SmallBlind {
		return errors.New("big blind must be >= the small blind")
	}

	if opts.RakeBasisPoints < 0 || opts.RakeBasisPoints > 10000 {
		return errors.New("rake must be between 0% and 100%")
	}

	if opts.RakeCapBigBlinds < 0 {
		return errors.New("rake cap must be >= 0")
	}

	if opts.ActionTime <= 0 {
		return errors.New("action time must be > 0")
	}

	return nil
}
