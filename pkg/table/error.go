package table

import (
	"fmt"
)

// UserError is an error that is safe to return in a response
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// SeatConflict is returned when a seat or an occupant is already taken
// Nothing is changed when it is returned.
type SeatConflict string

func (s SeatConflict) Error() string {
	return string(s)
}

// LedgerFailure wraps an error from the ledger
// The seat is left the way it was before the operation.
type LedgerFailure struct {
	Op  string
	Err error
}

func (l *LedgerFailure) Error() string {
	return fmt.Sprintf("could not %s: %v", l.Op, l.Err)
}

// Unwrap returns the ledger's error
func (l *LedgerFailure) Unwrap() error {
	return l.Err
}

// seat conflicts
const (
	ErrSeatTaken     = SeatConflict("the seat is already taken")
	ErrAlreadySeated = SeatConflict("you are already seated at this table")
)

// errors reported to the requesting player
const (
	ErrInsufficientFunds = UserError("you do not have enough funds")
	ErrInvalidSeat       = UserError("there is no such seat")
	ErrNotSeated         = UserError("you are not seated at this table")
	ErrStillInHand       = UserError("you cannot leave while you are still in the hand")
	ErrRebuyInHand       = UserError("you cannot rebuy while you are in a hand")
	ErrTableClosed       = UserError("the table is closed")
	ErrTournamentSeat    = UserError("seats at this table are assigned by matchmaking")
)

func buyInRangeError(min, max int) UserError {
	return UserError(fmt.Sprintf("the buy-in must be between ${%d} and ${%d}", min, max))
}

func rebuyLimitError(max int) UserError {
	return UserError(fmt.Sprintf("your stack cannot exceed ${%d}", max))
}
