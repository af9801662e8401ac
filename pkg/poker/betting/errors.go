package betting

import "fmt"

// RejectedAction is an illegal action, amount, or out-of-turn request
// Nothing is mutated when it is returned. The message is safe to show to the acting player.
type RejectedAction string

func (r RejectedAction) Error() string {
	return string(r)
}

func newRejectedAction(format string, a ...interface{}) RejectedAction {
	return RejectedAction(fmt.Sprintf(format, a...))
}

// ErrNotYourTurn is returned when a seat acts out of turn
const ErrNotYourTurn = RejectedAction("it is not your turn")

// ErrRoundOver is returned when an action arrives after the round completed
const ErrRoundOver = RejectedAction("the betting round is over")

// ErrNotReopened is returned when a seat tries to raise after a short all-in
const ErrNotReopened = RejectedAction("betting has not been reopened")
