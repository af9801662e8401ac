package rng

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
)

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Crypto draws from the operating system's CSPRNG
// Decks and prize multipliers use it outside of tests.
type Crypto struct{}

// Intn returns a uniform number in [0, n)
func (Crypto) Intn(n int) int {
	if n <= 0 {
		panic("rng: n must be > 0")
	}

	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// the reader only fails when the OS has no entropy source
		panic(err)
	}

	return int(v.Int64())
}

// Seeded returns a deterministic generator
// This should only be used by tests
func Seeded(seed int64) Generator {
	return rand.New(rand.NewSource(seed)) // nolint:gosec
}

// Weighted picks an index from weights with probability proportional to its weight
// Returns -1 if no weight is positive
func Weighted(g Generator, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}

	if total == 0 {
		return -1
	}

	pick := g.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}

		if pick < w {
			return i
		}

		pick -= w
	}

	// unreachable
	return len(weights) - 1
}

// Shuffle performs a Fisher-Yates shuffle using swap
func Shuffle(g Generator, n int, swap func(i, j int)) {
	for j := n - 1; j > 0; j-- {
		i := g.Intn(j + 1)
		swap(i, j)
	}
}
