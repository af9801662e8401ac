package table

import (
	"context"
	"testing"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tournamentOptions(concluded func(matchID, winner string)) Options {
	return Options{
		Name:       "Spin & Go",
		Seats:      3,
		SmallBlind: 10,
		BigBlind:   20,
		Tournament: &Tournament{
			MatchID:       "match-1",
			Tier:          "spin-10",
			BuyIn:         10,
			Multiplier:    3,
			StartingStack: 500,
			Occupants:     []string{"player:a", "player:b", "player:c"},
			OnConcluded:   concluded,
		},
	}
}

// shove picks all-in whenever it can, otherwise calls or checks
func shove(legal []action.Action) action.Action {
	choice := action.Check
	for _, a := range legal {
		switch a {
		case action.AllIn:
			return a
		case action.Call:
			choice = a
		}
	}

	return choice
}

func TestTable_Tournament(t *testing.T) {
	ctx := context.Background()

	calls := 0
	var matchID, winner string
	f := setupTable(t, tournamentOptions(func(m, w string) {
		calls++
		matchID, winner = m, w
	}), 7)

	assert.True(t, f.table.IsTournament())
	assert.Equal(t, ErrTournamentSeat, f.table.Sit(ctx, "player:z", 0, 100))
	assert.Equal(t, ErrTournamentSeat, f.table.Rebuy(ctx, "player:a", 100))

	s := f.table.Snapshot()
	assert.Len(t, s.Players, 3)
	for _, p := range s.Players {
		assert.Equal(t, 500, p.Stack)
	}
	assert.NotNil(t, s.NextHandAt)
	assert.Equal(t, 30, s.Tournament.Prize)

	for i := 0; i < 500 && !f.table.Snapshot().Closed; i++ {
		s := f.table.Snapshot()
		if s.Hand != nil && !s.Hand.Resolved && s.Hand.Turn >= 0 {
			f.act(t, shove(s.Hand.Seat(s.Hand.Turn).Legal), 0)
			continue
		}

		f.advance(t)
	}

	s = f.table.Snapshot()
	require.True(t, s.Closed)
	assert.Empty(t, s.Players)
	assert.Equal(t, 0, s.RakeAccrued)
	assert.Len(t, s.Tournament.Eliminated, 2)
	assert.NotContains(t, s.Tournament.Eliminated, s.Tournament.Winner)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "match-1", matchID)
	assert.Equal(t, s.Tournament.Winner, winner)
	assert.Equal(t, 30, f.balance(winner))

	for _, occupant := range s.Tournament.Eliminated {
		assert.Equal(t, 0, f.balance(occupant))
	}
}

func TestTable_TournamentStandUp(t *testing.T) {
	ctx := context.Background()
	var winner string
	f := setupTable(t, tournamentOptions(func(_, w string) {
		winner = w
	}), 7)

	assert.NoError(t, f.table.StandUp(ctx, "player:a"))
	s := f.table.Snapshot()
	assert.Equal(t, []string{"player:a"}, s.Tournament.Eliminated)
	assert.False(t, s.Closed)

	assert.NoError(t, f.table.StandUp(ctx, "player:c"))
	s = f.table.Snapshot()
	assert.True(t, s.Closed)
	assert.Equal(t, "player:b", winner)
	assert.Equal(t, 30, f.balance("player:b"))
	assert.Equal(t, 0, f.balance("player:a"))
}

func TestTable_TournamentForceClose(t *testing.T) {
	ctx := context.Background()
	calls := 0
	winner := "unset"
	f := setupTable(t, tournamentOptions(func(_, w string) {
		calls++
		winner = w
	}), 7)

	f.deal(t)
	assert.NoError(t, f.table.ForceClose(ctx))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "", winner)
	for _, occupant := range []string{"player:a", "player:b", "player:c"} {
		assert.Equal(t, 10, f.balance(occupant), "the buy-in is refunded")
	}
}

func TestTable_TournamentIdleSeatsConclude(t *testing.T) {
	calls := 0
	var winner string
	f := setupTable(t, tournamentOptions(func(_, w string) {
		calls++
		winner = w
	}), 7)

	// nobody acts, the clock plays every seat
	for i := 0; i < 200 && !f.table.Snapshot().Closed; i++ {
		f.advance(t)
	}

	s := f.table.Snapshot()
	require.True(t, s.Closed)
	assert.Empty(t, s.Players)
	assert.Len(t, s.Tournament.Eliminated, 2)
	assert.NotContains(t, s.Tournament.Eliminated, winner)

	assert.Equal(t, 1, calls)
	assert.Equal(t, s.Tournament.Winner, winner)
	assert.Equal(t, 30, f.balance(winner))
}

func TestTable_TournamentSittingOutIsDealtIn(t *testing.T) {
	f := setupTable(t, tournamentOptions(nil), 7)
	assert.NoError(t, f.table.SetSittingOut("player:a", true))

	f.deal(t)
	s := f.table.Snapshot()
	assert.True(t, seatOf(s, "player:a").SittingOut)
	assert.True(t, seatOf(s, "player:a").Active)
	assert.NotNil(t, s.Hand.Seat(seatOf(s, "player:a").Index))
	assert.False(t, s.Closed, "two seats are still playing")
}
