package potmanager

// Rake is the platform's cut of a contested pot
// basisPoints is the percentage times 100 (500 is 5%), capChips the maximum taken
func Rake(pot, basisPoints, capChips int) int {
	if pot <= 0 || basisPoints <= 0 {
		return 0
	}

	rake := pot * basisPoints / 10000
	if capChips >= 0 && rake > capChips {
		rake = capChips
	}

	return rake
}

// Split divides amount between the winners
// order is the seats clockwise starting left of the dealer. Odd chips go to the first winner in that order.
func Split(amount int, winners []int, order []int) map[int]int {
	payouts := make(map[int]int, len(winners))
	if len(winners) == 0 || amount <= 0 {
		return payouts
	}

	share := amount / len(winners)
	for _, seat := range winners {
		payouts[seat] += share
	}

	remainder := amount - share*len(winners)
	if remainder == 0 {
		return payouts
	}

	isWinner := make(map[int]bool, len(winners))
	for _, seat := range winners {
		isWinner[seat] = true
	}

	for _, seat := range order {
		if isWinner[seat] {
			payouts[seat] += remainder
			return payouts
		}
	}

	// winner missing from order
	payouts[winners[0]] += remainder
	return payouts
}
