package mux

import (
	"net/http"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/matchmaking"
	gmux "github.com/gorilla/mux"
)

type matchmakingResponse struct {
	Tiers   []matchmaking.TierStatus `json:"tiers"`
	Waiting *matchmaking.Entry       `json:"waiting"`
	Match   *matchmaking.Match       `json:"match"`
}

// status returns the tiers and where occupant stands in matchmaking
func (m *Mux) status(occupant string) matchmakingResponse {
	res := matchmakingResponse{
		Tiers: m.deps.Queue.Status(),
	}

	if entry, ok := m.deps.Queue.Waiting(occupant); ok {
		res.Waiting = &entry
	}

	if match, ok := m.deps.Queue.MatchOf(occupant); ok {
		res.Match = match
	}

	return res
}

func (m *Mux) getMatchmaking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.status(occupantFrom(r)))
	}
}

func (m *Mux) postMatchmakingTier() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		occupant := occupantFrom(r)
		if _, err := m.deps.Queue.Register(r.Context(), gmux.Vars(r)["tier"], occupant); err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, m.status(occupant))
	}
}

func (m *Mux) deleteMatchmaking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		occupant := occupantFrom(r)
		if err := m.deps.Queue.Unregister(r.Context(), occupant); err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, m.status(occupant))
	}
}
