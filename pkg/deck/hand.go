package deck

// Hand represents a collection of cards
type Hand []*Card

// AddCard adds a card to the hand
func (h *Hand) AddCard(card *Card) {
	*h = append(*h, card)
}

// HasCard returns true if the hand contains the specified card
func (h Hand) HasCard(card *Card) bool {
	for _, c := range h {
		if c.Equal(card) {
			return true
		}
	}

	return false
}

// Clone returns a copy of the hand that shares no backing array with h
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}

	c := make(Hand, len(h))
	for i, card := range h {
		cp := *card
		c[i] = &cp
	}

	return c
}
