package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/db"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/deck"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/snapshot"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/texasholdem"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult(hand int64) *texasholdem.Result {
	return &texasholdem.Result{
		HandNumber: hand,
		Pot:        60,
		Rake:       3,
		Boards: [][]*deck.Card{
			deck.CardsFromString("2c,7h,9s,11d,3c"),
			deck.CardsFromString("2c,7h,9s,13d,4h"),
		},
		Log: []texasholdem.LogEntry{
			{Seat: 0, Action: action.AllIn, Amount: 30},
			{Seat: 1, Action: action.Fold, TimedOut: true},
		},
		EndedAt: time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC),
	}
}

func TestNewRecord(t *testing.T) {
	r := NewRecord("table-1", 1, 2, testResult(4))
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "table-1", r.TableID)
	assert.Equal(t, int64(4), r.HandNumber)
	assert.Equal(t, 60, r.Pot)
	assert.Equal(t, 3, r.Rake)
	assert.Equal(t, []string{"2c,7h,9s,11d,3c", "2c,7h,9s,13d,4h"}, r.Boards)
	assert.Equal(t, []int{1}, r.TimedOut())

	r.ID = "record-1"
	snapshot.Validate(t, r)
}

func TestDispatcher(t *testing.T) {
	sink := &MemorySink{}
	d := NewDispatcher(logrus.StandardLogger(), sink, 10)
	go d.Run()

	for i := int64(1); i <= 3; i++ {
		assert.NoError(t, d.Dispatch(NewRecord("table-1", 1, 2, testResult(i))))
	}

	assert.NoError(t, d.Close(context.Background()))
	assert.Equal(t, ErrClosed, d.Dispatch(NewRecord("table-1", 1, 2, testResult(4))))

	records := sink.Records()
	if assert.Len(t, records, 3) {
		assert.Equal(t, int64(3), records[2].HandNumber)
	}
}

func TestDispatcher_FullBuffer(t *testing.T) {
	sink := &MemorySink{}
	d := NewDispatcher(logrus.StandardLogger(), sink, 1)

	assert.NoError(t, d.Dispatch(NewRecord("table-1", 1, 2, testResult(1))))
	assert.NoError(t, d.Dispatch(NewRecord("table-1", 1, 2, testResult(2))), "dropped, not an error")

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*10)
	defer cancel()
	assert.True(t, errors.Is(d.Close(ctx), context.DeadlineExceeded))

	d.Run()
	assert.NoError(t, d.Close(context.Background()))
	if assert.Len(t, sink.Records(), 1) {
		assert.Equal(t, int64(1), sink.Records()[0].HandNumber)
	}
}

type failingSink struct{}

func (failingSink) Record(context.Context, *Record) error {
	return errors.New("database is down")
}

func TestDispatcher_SinkErrorsAreLogged(t *testing.T) {
	d := NewDispatcher(logrus.StandardLogger(), failingSink{}, 1)
	go d.Run()
	assert.NoError(t, d.Dispatch(NewRecord("table-1", 1, 2, testResult(1))))
	assert.NoError(t, d.Close(context.Background()))
}

func TestSQLSink(t *testing.T) {
	dbh, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer dbh.Close()
	require.NoError(t, db.Migrate(dbh, db.DriverSQLite, ""))

	sink := NewSQLSink(dbh, db.DriverSQLite)
	r := NewRecord("table-1", 1, 2, testResult(9))
	require.NoError(t, sink.Record(context.Background(), r))
	assert.Error(t, sink.Record(context.Background(), NewRecord("table-1", 1, 2, testResult(9))), "hand numbers are unique per table")

	var boards string
	var rake int
	require.NoError(t, dbh.QueryRow(`SELECT boards, rake FROM hands WHERE id = ?`, r.ID).Scan(&boards, &rake))
	assert.Equal(t, "2c,7h,9s,11d,3c|2c,7h,9s,13d,4h", boards)
	assert.Equal(t, 3, rake)
}
