package potmanager

// participantInPot tracks one seat's money in the hand
type participantInPot struct {
	seat int
	// starting is the stack the seat started the hand with
	starting int
	// round is how much the seat has put in during the current betting round
	round int
	// total is how much the seat has put in during the whole hand
	total    int
	isAllIn  bool
	isFolded bool
}

func (p *participantInPot) remaining() int {
	return p.starting - p.total
}

// canAct returns true if the participant can check, call, bet, raise, fold
func (p *participantInPot) canAct() bool {
	return !p.isFolded && !p.isAllIn
}
