package mux

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/matchmaking"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/playable"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsMessage struct {
	Key     string          `json:"key"`
	Value   string          `json:"value"`
	Data    json.RawMessage `json:"data"`
	Context string          `json:"context"`
}

func dial(t *testing.T, f *fixture, path, token string) *websocket.Conn {
	t.Helper()

	u := "ws" + strings.TrimPrefix(f.ts.URL, "http") + path + "?access_token=" + url.QueryEscape(token)
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

// read returns the next message with key, skipping the rest
func read(t *testing.T, conn *websocket.Conn, key string) wsMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second*2)))
	for {
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Key == key {
			return msg
		}
	}
}

func TestTableWS(t *testing.T) {
	f := setup(t)
	tbl := f.cashTable(t, "Micro Stakes")

	occupant, token := player(t)
	f.credit(t, occupant, 100)

	conn := dial(t, f, "/table/"+tbl.ID()+"/ws", token)

	var view tableView
	require.NoError(t, json.Unmarshal(read(t, conn, "tableState").Data, &view))
	assert.Equal(t, tbl.ID(), view.ID)
	assert.Empty(t, view.Players)

	require.NoError(t, conn.WriteJSON(playable.PayloadIn{
		Action:         "sit",
		AdditionalData: playable.AdditionalData{"seat": 0, "buyIn": 60},
		Context:        "c1",
	}))

	msg := read(t, conn, "status")
	assert.Equal(t, "OK", msg.Value)
	assert.Equal(t, "c1", msg.Context)
	assert.Equal(t, 40, f.balance(occupant))

	require.NoError(t, conn.WriteJSON(playable.PayloadIn{Action: "sit", AdditionalData: playable.AdditionalData{"seat": 1, "buyIn": 60}, Context: "c2"}))
	msg = read(t, conn, "error")
	assert.Equal(t, "c2", msg.Context)
	assert.Equal(t, "you are already seated at this table", msg.Value)
}

func TestLobbyWS(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a, token := player(t)
	conn := dial(t, f, "/lobby/ws", token)

	// the reply shows the lobby client is registered
	require.NoError(t, conn.WriteJSON(playable.PayloadIn{Action: "sit", Context: "c1"}))
	assert.Equal(t, "c1", read(t, conn, "error").Context)

	occupants := []string{a, "player:b", "player:c"}
	for _, occupant := range occupants {
		f.credit(t, occupant, 10)
	}

	var formed *matchmaking.Match
	for _, occupant := range occupants {
		match, err := f.queue.Register(ctx, "spin-10", occupant)
		require.NoError(t, err)
		formed = match
	}
	require.NotNil(t, formed)

	var announced matchmaking.Match
	require.NoError(t, json.Unmarshal(read(t, conn, "matchFound").Data, &announced))
	assert.Equal(t, formed.ID, announced.ID)
	assert.Equal(t, formed.TableID, announced.TableID)
	assert.Equal(t, occupants, announced.Occupants)
}
