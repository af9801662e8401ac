package room

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/rng"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/deck"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/matchmaking"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/playable"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/betting"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/texasholdem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTable(t *testing.T) (*table.Table, *ledger.Memory) {
	t.Helper()

	l := ledger.NewMemory()
	tbl, err := table.New(table.Options{
		Name:       "Room Test",
		Seats:      6,
		SmallBlind: 1,
		BigBlind:   2,
		MinBuyIn:   40,
		MaxBuyIn:   200,
	}, table.Dependencies{
		Ledger:   l,
		Settings: config.DefaultConfig().Settings(),
		RNG:      rng.Seeded(1),
	})
	require.NoError(t, err)

	return tbl, l
}

// receive reads messages until one has key
func receive(t *testing.T, c *Client, key string) *playable.Response {
	t.Helper()

	timeout := time.After(time.Second)
	for {
		select {
		case msg := <-c.SendChan():
			res, ok := msg.(*playable.Response)
			require.True(t, ok, "expected *playable.Response, got %T", msg)
			if res.Key == key {
				return res
			}
		case <-timeout:
			require.FailNow(t, fmt.Sprintf("did not receive %s", key))
			return nil
		}
	}
}

func TestRedact(t *testing.T) {
	hidden := deck.CardsFromString("2c,3c")
	mine := deck.CardsFromString("14s,14h")
	shown := deck.CardsFromString("13d,13h")

	s := &table.Snapshot{
		ID: "t1",
		Hand: &texasholdem.State{
			Turn: 1,
			Seats: []*texasholdem.SeatState{
				{Seat: 0, Occupant: "player:a", Cards: hidden, Legal: nil},
				{Seat: 1, Occupant: "player:b", Cards: mine, ToCall: 2, MaxBet: 100},
				{Seat: 2, Occupant: "player:c", Cards: shown, Revealed: true},
			},
		},
	}

	view := Redact(s, "player:b")
	assert.Nil(t, view.Hand.Seats[0].Cards)
	assert.Equal(t, mine, view.Hand.Seats[1].Cards)
	assert.Equal(t, 2, view.Hand.Seats[1].ToCall)
	assert.Equal(t, shown, view.Hand.Seats[2].Cards)

	// the original is untouched
	assert.Equal(t, hidden, s.Hand.Seats[0].Cards)

	spectator := Redact(s, "")
	assert.Nil(t, spectator.Hand.Seats[0].Cards)
	assert.Nil(t, spectator.Hand.Seats[1].Cards)
	assert.Equal(t, 0, spectator.Hand.Seats[1].ToCall)
	assert.Equal(t, shown, spectator.Hand.Seats[2].Cards)

	assert.Nil(t, Redact(nil, "player:a"))
	assert.Nil(t, Redact(&table.Snapshot{ID: "t2"}, "player:a").Hand)
}

func TestUserMessage(t *testing.T) {
	msg, ok := UserMessage(betting.RejectedAction("it is not your turn"))
	assert.True(t, ok)
	assert.Equal(t, "it is not your turn", msg)

	msg, ok = UserMessage(fmt.Errorf("wrapped: %w", table.ErrSeatTaken))
	assert.True(t, ok)
	assert.Equal(t, "the seat is already taken", msg)

	msg, ok = UserMessage(table.ErrInsufficientFunds)
	assert.True(t, ok)
	assert.Equal(t, table.ErrInsufficientFunds.Error(), msg)

	msg, ok = UserMessage(matchmaking.ErrAlreadyQueued)
	assert.True(t, ok)
	assert.Equal(t, matchmaking.ErrAlreadyQueued.Error(), msg)

	msg, ok = UserMessage(&table.LedgerFailure{Op: "debit the buy-in", Err: errors.New("connection refused")})
	assert.False(t, ok)
	assert.Equal(t, genericError, msg)
}

func TestDealer_AddClient(t *testing.T) {
	tbl, _ := setupTable(t)
	d := NewDealer(&PitBoss{}, tbl)
	c := NewClient(nil, "player:a", tbl)
	c2 := NewClient(nil, "player:b", tbl)

	d.AddClient(c)
	d.AddClient(c2)

	assert.False(t, d.RemoveClient(c))
	assert.True(t, d.RemoveClient(c2))
}

func TestDealer_ReceivedMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tbl, l := setupTable(t)
	require.NoError(t, l.Credit(ctx, "player:a", 100, "deposit"))

	p := NewPitBoss()
	p.StartShift(ctx)

	a := NewClient(nil, "player:a", tbl)
	b := NewClient(nil, "player:b", tbl)
	p.ClientConnected(a)
	p.ClientConnected(b)

	res := receive(t, a, "tableState")
	assert.Equal(t, tbl.ID(), res.Data.(*table.Snapshot).ID)
	receive(t, b, "tableState")

	a.ReceivedMessage(&playable.PayloadIn{
		Action:         "sit",
		AdditionalData: playable.AdditionalData{"seat": float64(3), "buyIn": float64(60)},
		Context:        "c1",
	})
	assert.Equal(t, playable.OK("c1"), receive(t, a, "status"))

	s := receive(t, b, "tableState").Data.(*table.Snapshot)
	for s.Player("player:a") == nil {
		s = receive(t, b, "tableState").Data.(*table.Snapshot)
	}
	assert.Equal(t, 3, s.Player("player:a").Index)

	balance, _ := l.Balance(ctx, "player:a")
	assert.Equal(t, 40, balance)

	b.ReceivedMessage(&playable.PayloadIn{
		Action:         "sit",
		AdditionalData: playable.AdditionalData{"seat": float64(3), "buyIn": float64(60)},
		Context:        "c2",
	})
	assert.Equal(t, playable.Error("c2", "the seat is already taken"), receive(t, b, "error"))

	b.ReceivedMessage(&playable.PayloadIn{Action: "dance", Context: "c3"})
	assert.Equal(t, "c3", receive(t, b, "error").Context)

	b.ReceivedMessage(&playable.PayloadIn{Action: "rebuy", Context: "c4"})
	assert.Equal(t, playable.Error("c4", "amount is required"), receive(t, b, "error"))

	a.ReceivedMessage(&playable.PayloadIn{Action: "leave", Context: "c5"})
	assert.Equal(t, playable.OK("c5"), receive(t, a, "status"))

	balance, _ = l.Balance(ctx, "player:a")
	assert.Equal(t, 100, balance)
}

func TestPitBoss_Announce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPitBoss()
	p.StartShift(ctx)

	a := NewLobbyClient(nil, "player:a")
	z := NewLobbyClient(nil, "player:z")
	p.ClientConnected(a)
	p.ClientConnected(z)

	match := &matchmaking.Match{ID: "m1", Occupants: []string{"player:a", "player:b", "player:c"}}

	p.lobbyLock.RLock()
	assert.Len(t, p.lobby, 2)
	p.lobbyLock.RUnlock()

	p.Announce(match)
	res := receive(t, a, "matchFound")
	assert.Same(t, match, res.Data)

	select {
	case msg := <-z.SendChan():
		assert.Fail(t, "unexpected message", "%v", msg)
	default:
	}

	z.ReceivedMessage(&playable.PayloadIn{Action: "sit", Context: "c1"})
	assert.Equal(t, "c1", receive(t, z, "error").Context)

	p.ClientDisconnected(z)
	p.lobbyLock.RLock()
	assert.Len(t, p.lobby, 1)
	p.lobbyLock.RUnlock()
}
