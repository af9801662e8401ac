package mux

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/matchmaking"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/room"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
	"github.com/sirupsen/logrus"
)

func decodeRequest(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if ct := r.Header.Get("Content-Type"); ct != "application/json" && ct != "text/json" {
		writeJSONError(w, http.StatusUnsupportedMediaType, nil)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("could not write JSON response")
	}
}

type errorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func writeJSONError(w http.ResponseWriter, statusCode int, err error) {
	var msg string

	if statusCode < 500 && err != nil {
		msg = err.Error()
	} else {
		msg = http.StatusText(statusCode)
	}

	if statusCode >= 500 {
		logrus.WithField("statusCode", statusCode).Error(err)
	}

	writeJSON(w, statusCode, errorResponse{
		Message:    msg,
		StatusCode: statusCode,
	})
}

// writeDomainError reports err verbatim if it is safe for the player to see, otherwise as a 500
func writeDomainError(w http.ResponseWriter, err error) {
	msg, ok := room.UserMessage(err)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}

	statusCode := http.StatusBadRequest
	var conflict table.SeatConflict
	switch {
	case errors.As(err, &conflict):
		statusCode = http.StatusConflict
	case errors.Is(err, matchmaking.ErrUnknownTier):
		statusCode = http.StatusNotFound
	}

	writeJSONError(w, statusCode, errors.New(msg))
}
