package mux

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTable(t *testing.T) {
	f := setup(t)
	micro := f.cashTable(t, "Micro Stakes")
	f.cashTable(t, "High Rollers")

	occupant, token := player(t)
	f.credit(t, occupant, 100)
	require.NoError(t, micro.Sit(context.Background(), occupant, 2, 60))

	var tables []tableSummary
	assertGet(t, f.ts, "/table", &tables, 200, token)
	if assert.Len(t, tables, 2) {
		assert.Equal(t, "High Rollers", tables[0].Name)
		assert.Equal(t, "Micro Stakes", tables[1].Name)
		assert.Equal(t, 1, tables[1].Players)
		assert.Equal(t, 6, tables[1].Seats)
		assert.False(t, tables[1].Tournament)
	}

	assertGet(t, f.ts, "/table", nil, 401)
}

func TestGetTableID(t *testing.T) {
	f := setup(t)
	tbl := f.cashTable(t, "Micro Stakes")

	occupant, token := player(t)
	f.credit(t, occupant, 100)
	require.NoError(t, tbl.Sit(context.Background(), occupant, 4, 60))

	var view tableView
	assertGet(t, f.ts, "/table/"+tbl.ID(), &view, 200, token)
	assert.Equal(t, tbl.ID(), view.ID)
	assert.Equal(t, "Micro Stakes", view.Name)
	if assert.Len(t, view.Players, 1) {
		assert.Equal(t, 4, view.Players[0].Seat)
		assert.Equal(t, occupant, view.Players[0].Occupant)
		assert.Equal(t, 60, view.Players[0].Stack)
	}

	var errObj errorResponse
	assertGet(t, f.ts, "/table/00000000-0000-0000-0000-000000000000", &errObj, 404, token)
	assert.Equal(t, "Not Found", errObj.Message)
}

func TestGetBalance(t *testing.T) {
	f := setup(t)

	occupant, token := player(t)
	f.credit(t, occupant, 250)

	var res balanceResponse
	assertGet(t, f.ts, "/balance", &res, 200, token)
	assert.Equal(t, balanceResponse{Occupant: occupant, Balance: 250}, res)
}
