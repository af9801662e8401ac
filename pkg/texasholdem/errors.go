package texasholdem

import (
	"errors"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/betting"
)

// ErrNotEnoughPlayers is returned when a hand cannot be dealt
var ErrNotEnoughPlayers = errors.New("at least two players with chips are required")

// ErrHandInProgress is returned when a hand is started before the previous one finished
var ErrHandInProgress = errors.New("a hand is already in progress")

// errors reported to the acting player
const (
	ErrNoHand       = betting.RejectedAction("there is no hand in progress")
	ErrNotInHand    = betting.RejectedAction("you are not in this hand")
	ErrNoVote       = betting.RejectedAction("there is no run it twice vote open")
	ErrAlreadyVoted = betting.RejectedAction("you already voted")
	ErrInvalidVote  = betting.RejectedAction("you can only run it once or twice")
	ErrNotResolved  = betting.RejectedAction("you can only show your cards after the hand is over")
	ErrAlreadyShown = betting.RejectedAction("your cards are already shown")
)
