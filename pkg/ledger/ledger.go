package ledger

import (
	"context"
	"errors"
	"fmt"
)

// ErrInsufficientFunds is returned when a debit exceeds the occupant's balance
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidAmount is returned for a debit or credit that is not positive
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// Ledger holds the occupants' balances outside of the tables
// Debit and Credit are atomic. A failed call changes nothing.
type Ledger interface {
	Debit(ctx context.Context, occupant string, amount int, reason string) error
	Credit(ctx context.Context, occupant string, amount int, reason string) error
	Balance(ctx context.Context, occupant string) (int, error)
}

// Reason builds a ledger entry reason, i.e., "buy-in table:9f1c"
func Reason(kind, tableID string) string {
	return fmt.Sprintf("%s table:%s", kind, tableID)
}

// reasons recorded on ledger entries
const (
	ReasonBuyIn    = "buy-in"
	ReasonRebuy    = "rebuy"
	ReasonCashOut  = "cash-out"
	ReasonRefund   = "refund"
	ReasonPrize    = "prize"
	ReasonBotFloat = "bot-float"
)
