package potmanager

// Pot is a main pot or a side pot
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// IsEligible returns true if the seat can win the pot
func (p *Pot) IsEligible(seat int) bool {
	for _, s := range p.Eligible {
		if s == seat {
			return true
		}
	}

	return false
}

// Pots is a collection of pots, main pot first
type Pots []*Pot

// Total returns the combined total of all pots
func (p Pots) Total() int {
	total := 0
	for _, pot := range p {
		total += pot.Amount
	}

	return total
}

// Clone returns a deep copy
func (p Pots) Clone() Pots {
	c := make(Pots, len(p))
	for i, pot := range p {
		eligible := make([]int, len(pot.Eligible))
		copy(eligible, pot.Eligible)
		c[i] = &Pot{Amount: pot.Amount, Eligible: eligible}
	}

	return c
}

// Halve splits every pot into two, the first half receiving any odd chip
func (p Pots) Halve() (Pots, Pots) {
	first, second := p.Clone(), p.Clone()
	for i, pot := range p {
		second[i].Amount = pot.Amount / 2
		first[i].Amount = pot.Amount - second[i].Amount
	}

	return first, second
}

// TakeRake withholds rake from the pots, main pot first
func (p Pots) TakeRake(rake int) {
	for _, pot := range p {
		if rake <= 0 {
			return
		}

		take := min(rake, pot.Amount)
		pot.Amount -= take
		rake -= take
	}
}
