package texasholdem

import (
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
)

// LogEntry is one action in a hand
type LogEntry struct {
	Seat   int           `json:"seat"`
	Phase  Phase         `json:"phase"`
	Action action.Action `json:"action"`
	// Amount is the seat's round total after the action
	Amount   int       `json:"amount"`
	TimedOut bool      `json:"timedOut"`
	Time     time.Time `json:"time"`
}

func (h *hand) addLog(seat int, a action.Action, amount int, timedOut bool, now time.Time) {
	h.log = append(h.log, LogEntry{
		Seat:     seat,
		Phase:    h.phase,
		Action:   a,
		Amount:   amount,
		TimedOut: timedOut,
		Time:     now,
	})
}
