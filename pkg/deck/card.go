package deck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Suit represents a card suit
type Suit string

// suit constants
const (
	Hearts   Suit = "hearts"
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"
	Spades   Suit = "spades"
)

// Suits is every suit in deck order
var Suits = []Suit{Clubs, Diamonds, Hearts, Spades}

// Card is an individual playing card
type Card struct {
	Rank int  `json:"rank"`
	Suit Suit `json:"suit"`
}

// face cards
const (
	Jack    = 11
	Queen   = 12
	King    = 13
	Ace     = 14
	HighAce = Ace
	LowAce  = 1
)

var faceNames = map[int]string{
	Jack:  "J",
	Queen: "Q",
	King:  "K",
	Ace:   "A",
}

var suitSymbols = map[Suit]string{
	Clubs:    "♣",
	Diamonds: "♢",
	Hearts:   "♡",
	Spades:   "♠",
}

var suitLetters = map[string]Suit{
	"c": Clubs,
	"d": Diamonds,
	"h": Hearts,
	"s": Spades,
}

// String returns the card as it is printed in logs, i.e., A♠
func (c *Card) String() string {
	rank, ok := faceNames[c.Rank]
	if !ok {
		rank = strconv.Itoa(c.Rank)
	}

	symbol, ok := suitSymbols[c.Suit]
	if !ok {
		panic("unknown suit")
	}

	return rank + symbol
}

// Equal returns true if the cards are equal (matches suit and rank)
func (c *Card) Equal(card *Card) bool {
	return c.Suit == card.Suit && c.Rank == card.Rank
}

var cardRx = regexp.MustCompile(`(?i)^([2-9]|1[0-4])([cdhs])\z`)

// CardFromString parses <rank><suit>, rank 2 to 14 and suit one of cdhs
// It panics on anything else. Cards are only parsed from trusted input.
func CardFromString(s string) *Card {
	if s == "" {
		return nil
	}

	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	rank, err := strconv.Atoi(match[1])
	if err != nil {
		panic(fmt.Sprintf("could not parse card `%s`: %v", s, err))
	}

	return &Card{
		Rank: rank,
		Suit: suitLetters[strings.ToLower(match[2])],
	}
}

// CardsFromString parses a comma separated list of cards
func CardsFromString(s string) []*Card {
	if s == "" {
		return []*Card{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make([]*Card, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(card)
	}

	return cards
}

// CardToString converts a card (Ace of Clubs) to a string (14c)
func CardToString(card *Card) string {
	if card == nil {
		return ""
	}

	return fmt.Sprintf("%d%c", card.Rank, card.Suit[0])
}

// CardsToString will convert a slice of cards to a string in the format of 2c,3h,4s,...
func CardsToString(cards []*Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = CardToString(card)
	}

	return strings.Join(c, ",")
}
