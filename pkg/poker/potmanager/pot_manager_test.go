package potmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPotManager_Contribute(t *testing.T) {
	a := assert.New(t)

	pm := New(map[int]int{0: 100, 3: 30})
	a.Equal([]int{0, 3}, pm.Seats())

	a.Equal(20, pm.Contribute(0, 20))
	a.Equal(20, pm.RoundContribution(0))
	a.Equal(80, pm.Remaining(0))
	a.False(pm.IsAllIn(0))

	// clamped to the stack
	a.Equal(30, pm.Contribute(3, 50))
	a.True(pm.IsAllIn(3))
	a.False(pm.CanAct(3))
	a.Equal(0, pm.Remaining(3))

	a.Equal(10, pm.ContributeTo(0, 30))
	a.Equal(30, pm.RoundContribution(0))
	a.Equal(0, pm.Contribute(0, 0))

	pm.EndRound()
	a.Equal(0, pm.RoundContribution(0))
	a.Equal(30, pm.TotalContribution(0))
	a.Equal(60, pm.Total())

	a.Panics(func() { pm.Contribute(5, 10) })
	a.False(pm.Has(5))
}

func TestPotManager_Fold(t *testing.T) {
	a := assert.New(t)
	pm := New(map[int]int{0: 100, 1: 100, 2: 100})
	pm.Contribute(0, 10)
	pm.Contribute(1, 10)
	pm.Fold(1)

	a.True(pm.IsFolded(1))
	a.Equal([]int{0, 2}, pm.InHand())
	a.Equal(20, pm.Total())
}

func TestPotManager_ReturnUncalled(t *testing.T) {
	a := assert.New(t)

	pm := New(map[int]int{0: 50, 1: 30})
	pm.Contribute(0, 50)
	pm.Contribute(1, 30)

	seat, amount := pm.ReturnUncalled()
	a.Equal(0, seat)
	a.Equal(20, amount)
	a.Equal(30, pm.TotalContribution(0))
	a.Equal(20, pm.Remaining(0))
	a.False(pm.IsAllIn(0))

	// nothing more to return
	seat, amount = pm.ReturnUncalled()
	a.Equal(-1, seat)
	a.Equal(0, amount)
}

func TestPotManager_PotsNoAllIn(t *testing.T) {
	a := assert.New(t)
	pm := New(map[int]int{0: 100, 1: 100, 2: 100})
	pm.Contribute(0, 20)
	pm.Contribute(1, 20)
	pm.Contribute(2, 5)
	pm.Fold(2)

	pots := pm.Pots()
	a.Len(pots, 1)
	a.Equal(45, pots[0].Amount)
	a.Equal([]int{0, 1}, pots[0].Eligible)
}

func TestPotManager_SidePots(t *testing.T) {
	a := assert.New(t)

	pm := New(map[int]int{0: 10, 1: 50, 2: 100})
	for _, seat := range []int{0, 1, 2} {
		pm.Contribute(seat, pm.Remaining(seat))
	}

	contributed := pm.Total()
	a.Equal(160, contributed)

	seat, refund := pm.ReturnUncalled()
	a.Equal(2, seat)
	a.Equal(50, refund)

	pots := pm.Pots()
	if a.Len(pots, 2) {
		a.Equal(30, pots[0].Amount)
		a.Equal([]int{0, 1, 2}, pots[0].Eligible)
		a.Equal(80, pots[1].Amount)
		a.Equal([]int{1, 2}, pots[1].Eligible)
	}

	a.Equal(contributed, pots.Total()+refund)
}

func TestPotManager_SidePotsWithFoldedMoney(t *testing.T) {
	a := assert.New(t)

	pm := New(map[int]int{0: 10, 1: 100, 2: 100, 3: 100})
	pm.Contribute(0, 10)
	pm.Contribute(1, 40)
	pm.Contribute(2, 40)
	pm.Contribute(3, 25)
	pm.Fold(3)

	pots := pm.Pots()
	if a.Len(pots, 2) {
		a.Equal(40, pots[0].Amount)
		a.Equal([]int{0, 1, 2}, pots[0].Eligible)
		a.Equal(75, pots[1].Amount)
		a.Equal([]int{1, 2}, pots[1].Eligible)
	}
	a.Equal(pm.Total(), pots.Total())
}

func TestPotManager_EqualAllIns(t *testing.T) {
	a := assert.New(t)

	pm := New(map[int]int{0: 50, 1: 30})
	pm.Contribute(0, 30)
	pm.Contribute(1, 30)

	pots := pm.Pots()
	a.Len(pots, 1)
	a.Equal(60, pots[0].Amount)
	a.Equal([]int{0, 1}, pots[0].Eligible)
}

func TestPotManager_EmptyPots(t *testing.T) {
	assert.Empty(t, New(map[int]int{0: 50, 1: 30}).Pots())
}
