package texasholdem

import (
	"encoding/json"
)

// Phase represents where the hand is
type Phase int

// constants for Phase
const (
	PhaseWaiting Phase = iota
	PhasePreFlop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePreFlop:
		return "pre-flop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	}

	return ""
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(p),
		Name: p.String(),
	})
}

// IsBetting returns true if a betting round can be open in this phase
func (p Phase) IsBetting() bool {
	return p >= PhasePreFlop && p <= PhaseRiver
}

// boardSize is how many community cards are out once the phase is dealt
func (p Phase) boardSize() int {
	switch p {
	case PhaseFlop:
		return 3
	case PhaseTurn:
		return 4
	case PhaseRiver, PhaseShowdown:
		return 5
	}

	return 0
}
