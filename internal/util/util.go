package util

import (
	"strings"

	"github.com/google/uuid"
)

// BotPrefix marks an occupant identity as a simulated seat
const BotPrefix = "bot:"

// IsBot returns true if occupant is a simulated seat
func IsBot(occupant string) bool {
	return strings.HasPrefix(occupant, BotPrefix)
}

// RandomOccupant generates a random occupant identity suitable for testing
func RandomOccupant() string {
	return "player:" + uuid.New().String()
}
