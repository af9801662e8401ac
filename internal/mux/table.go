package mux

import (
	"net/http"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/room"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
)

// tableSummary is a table as it is listed in the lobby
type tableSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Seats      int    `json:"seats"`
	Players    int    `json:"players"`
	SmallBlind int    `json:"smallBlind"`
	BigBlind   int    `json:"bigBlind"`
	MinBuyIn   int    `json:"minBuyIn"`
	MaxBuyIn   int    `json:"maxBuyIn"`
	RunItTwice bool   `json:"runItTwice"`
	Tournament bool   `json:"tournament"`
}

func newTableSummary(t *table.Table) tableSummary {
	s := t.Snapshot()
	return tableSummary{
		ID:         s.ID,
		Name:       s.Name,
		Seats:      s.Seats,
		Players:    len(s.Players),
		SmallBlind: s.SmallBlind,
		BigBlind:   s.BigBlind,
		MinBuyIn:   s.MinBuyIn,
		MaxBuyIn:   s.MaxBuyIn,
		RunItTwice: s.RunItTwice,
		Tournament: s.Tournament != nil,
	}
}

// getTable lists the cash tables
// Spin & Go tables are only reachable through the match that created them.
func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables := make([]tableSummary, 0)
		for _, t := range m.deps.Registry.List() {
			if t.IsTournament() {
				continue
			}

			tables = append(tables, newTableSummary(t))
		}

		writeJSON(w, http.StatusOK, tables)
	}
}

func (m *Mux) getTableID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tbl := tableFrom(r)
		writeJSON(w, http.StatusOK, room.Redact(tbl.Snapshot(), occupantFrom(r)))
	}
}

type balanceResponse struct {
	Occupant string `json:"occupant"`
	Balance  int    `json:"balance"`
}

func (m *Mux) getBalance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		occupant := occupantFrom(r)
		balance, err := m.deps.Ledger.Balance(r.Context(), occupant)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, balanceResponse{
			Occupant: occupant,
			Balance:  balance,
		})
	}
}
