package history

import (
	"context"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/deck"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/texasholdem"
	"github.com/google/uuid"
)

// Record is the immutable audit record of a completed hand
type Record struct {
	ID         string              `json:"id"`
	TableID    string              `json:"tableId"`
	HandNumber int64               `json:"handNumber"`
	SmallBlind int                 `json:"smallBlind"`
	BigBlind   int                 `json:"bigBlind"`
	Pot        int                 `json:"pot"`
	Rake       int                 `json:"rake"`
	Boards     []string            `json:"boards"`
	Result     *texasholdem.Result `json:"result"`
	Created    time.Time           `json:"created"`
}

// Sink persists records
type Sink interface {
	Record(ctx context.Context, r *Record) error
}

// NewRecord builds the record of a resolved hand
func NewRecord(tableID string, smallBlind, bigBlind int, r *texasholdem.Result) *Record {
	boards := make([]string, len(r.Boards))
	for i, board := range r.Boards {
		boards[i] = deck.CardsToString(board)
	}

	return &Record{
		ID:         uuid.New().String(),
		TableID:    tableID,
		HandNumber: r.HandNumber,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		Pot:        r.Pot,
		Rake:       r.Rake,
		Boards:     boards,
		Result:     r,
		Created:    r.EndedAt,
	}
}

// TimedOut returns the seats that were acted for by the clock
func (r *Record) TimedOut() []int {
	seats := make([]int, 0)
	for _, entry := range r.Result.Log {
		if entry.TimedOut {
			seats = append(seats, entry.Seat)
		}
	}

	return seats
}
