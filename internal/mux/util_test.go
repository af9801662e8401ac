package mux

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/jwt"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/util"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/matchmaking"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/room"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminOccupant = "player:admin"

var keyOnce sync.Once

func setupJWT(t *testing.T) {
	t.Helper()

	keyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}

		jwt.UseKey(key)
	})
}

// player returns a new occupant and its signed token
func player(t *testing.T) (string, string) {
	t.Helper()

	occupant := util.RandomOccupant()
	token, err := jwt.Sign(occupant)
	require.NoError(t, err)

	return occupant, token
}

func adminToken(t *testing.T) string {
	t.Helper()

	token, err := jwt.Sign(adminOccupant)
	require.NoError(t, err)

	return token
}

type fixture struct {
	ts       *httptest.Server
	mux      *Mux
	ledger   *ledger.Memory
	registry *table.Registry
	queue    *matchmaking.Queue
}

func setup(t *testing.T) *fixture {
	t.Helper()
	setupJWT(t)

	ctx, cancel := context.WithCancel(context.Background())

	l := ledger.NewMemory()
	cfg := config.DefaultConfig()
	registry := table.NewRegistry(ctx, table.Dependencies{
		Ledger:   l,
		Settings: cfg.Settings(),
	})

	pitBoss := room.NewPitBoss()
	pitBoss.StartShift(ctx)

	queue, err := matchmaking.NewQueue(cfg.Tiers, matchmaking.Dependencies{
		Ledger:   l,
		Tables:   registry,
		Notifier: pitBoss,
	})
	require.NoError(t, err)

	m := NewMux("v1.2.3", Dependencies{
		Registry: registry,
		Queue:    queue,
		PitBoss:  pitBoss,
		Ledger:   l,
		IsAdmin: func(occupant string) bool {
			return occupant == adminOccupant
		},
	})

	ts := httptest.NewServer(m)
	t.Cleanup(func() {
		ts.Close()
		_ = registry.Close(context.Background())
		cancel()
	})

	return &fixture{
		ts:       ts,
		mux:      m,
		ledger:   l,
		registry: registry,
		queue:    queue,
	}
}

func (f *fixture) credit(t *testing.T, occupant string, amount int) {
	t.Helper()
	require.NoError(t, f.ledger.Credit(context.Background(), occupant, amount, "deposit"))
}

func (f *fixture) balance(occupant string) int {
	balance, _ := f.ledger.Balance(context.Background(), occupant)
	return balance
}

func (f *fixture) cashTable(t *testing.T, name string) *table.Table {
	t.Helper()

	tbl, err := f.registry.Create(table.Options{
		Name:       name,
		Seats:      6,
		SmallBlind: 1,
		BigBlind:   2,
		MinBuyIn:   40,
		MaxBuyIn:   200,
	})
	require.NoError(t, err)

	return tbl
}

// tableView is the part of a table snapshot the tests read
type tableView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Closed  bool   `json:"closed"`
	Players []struct {
		Seat     int    `json:"seat"`
		Occupant string `json:"occupant"`
		Stack    int    `json:"stack"`
	} `json:"players"`
}

func assertDo(t *testing.T, req *http.Request, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	if len(signedJWT) > 0 {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", signedJWT[0]))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return nil
	}
	defer resp.Body.Close()

	if statusCode != resp.StatusCode {
		b, _ := io.ReadAll(resp.Body)
		t.Log(string(b))
		assert.Equal(t, statusCode, resp.StatusCode)
		return nil
	}

	if respObj != nil {
		if err := json.NewDecoder(resp.Body).Decode(respObj); err != nil {
			t.Error(err)
			return nil
		}
	}

	return resp
}

func assertRequest(t *testing.T, ts *httptest.Server, method, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	var body io.Reader
	switch val := payload.(type) {
	case nil:
	case string:
		body = strings.NewReader(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			t.Error(err)
			return nil
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Error(err)
		return nil
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return assertDo(t, req, respObj, statusCode, signedJWT...)
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()
	return assertRequest(t, ts, http.MethodGet, path, nil, respObj, statusCode, signedJWT...)
}

func assertPost(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()
	return assertRequest(t, ts, http.MethodPost, path, payload, respObj, statusCode, signedJWT...)
}

func assertDelete(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()
	return assertRequest(t, ts, http.MethodDelete, path, nil, respObj, statusCode, signedJWT...)
}
