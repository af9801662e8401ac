package table

import (
	"context"
	"testing"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewMemory()
	require.NoError(t, l.Credit(ctx, "player:a", 1000, "deposit"))

	r := NewRegistry(ctx, Dependencies{Ledger: l, Settings: testSettings()})

	micro, err := r.Create(testOptions())
	require.NoError(t, err)

	opts := testOptions()
	opts.Name = "Full Ring"
	opts.Seats = 9
	full, err := r.Create(opts)
	require.NoError(t, err)

	spin, err := r.Create(tournamentOptions(nil))
	require.NoError(t, err)

	opts.ID = micro.ID()
	_, err = r.Create(opts)
	assert.EqualError(t, err, "a table with that ID already exists")

	opts = testOptions()
	opts.Seats = 4
	_, err = r.Create(opts)
	assert.Error(t, err)

	got, ok := r.Get(micro.ID())
	assert.True(t, ok)
	assert.Same(t, micro, got)

	tables := r.List()
	if assert.Len(t, tables, 3) {
		assert.Same(t, full, tables[0])
		assert.Same(t, micro, tables[1])
		assert.Same(t, spin, tables[2], "tournaments are listed last")
	}

	require.NoError(t, micro.Sit(ctx, "player:a", 2, 150))
	balance, _ := l.Balance(ctx, "player:a")
	assert.Equal(t, 850, balance)

	assert.True(t, r.Remove(full.ID()))
	assert.False(t, r.Remove(full.ID()))
	_, ok = r.Get(full.ID())
	assert.False(t, ok)

	require.NoError(t, r.Close(ctx))
	balance, _ = l.Balance(ctx, "player:a")
	assert.Equal(t, 1000, balance)
	assert.True(t, micro.Snapshot().Closed)
	assert.Empty(t, r.List())

	_, err = r.Create(testOptions())
	assert.Equal(t, ErrRegistryClosed, err)
}

func TestRegistry_ClosedTablesRemoveThemselves(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(ctx, Dependencies{Ledger: ledger.NewMemory(), Settings: testSettings()})
	defer func() {
		_ = r.Close(ctx)
	}()

	tbl, err := r.Create(testOptions())
	require.NoError(t, err)
	require.NoError(t, tbl.ForceClose(ctx))

	assert.Eventually(t, func() bool {
		_, ok := r.Get(tbl.ID())
		return !ok
	}, time.Second, time.Millisecond*10)
}
