package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler(t *testing.T) {
	a := assert.New(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s := NewScheduler()
	_, ok := s.Next()
	a.False(ok)

	s.Schedule(Deadline{At: now.Add(30 * time.Second), Kind: KindAction, Seat: 3, Hand: 1})
	s.Schedule(Deadline{At: now.Add(10 * time.Second), Kind: KindKick, Seat: 5})
	s.Schedule(Deadline{At: now.Add(20 * time.Second), Kind: KindShowdown, Seat: -1, Hand: 1})
	a.Equal(3, s.Len())

	next, ok := s.Next()
	a.True(ok)
	a.Equal(now.Add(10*time.Second), next)

	// rescheduling replaces
	s.Schedule(Deadline{At: now.Add(5 * time.Second), Kind: KindAction, Seat: 3, Hand: 2})
	a.Equal(3, s.Len())
	d, ok := s.Pending(KindAction, 3)
	a.True(ok)
	a.Equal(int64(2), d.Hand)

	a.Empty(s.Due(now))

	due := s.Due(now.Add(15 * time.Second))
	if a.Len(due, 2) {
		a.Equal(KindAction, due[0].Kind)
		a.Equal(KindKick, due[1].Kind)
	}

	a.True(s.Cancel(KindShowdown, -1))
	a.False(s.Cancel(KindShowdown, -1))
	a.Equal(0, s.Len())
}

func TestScheduler_CancelKind(t *testing.T) {
	now := time.Now()
	s := NewScheduler()
	s.Schedule(Deadline{At: now, Kind: KindKick, Seat: 1})
	s.Schedule(Deadline{At: now, Kind: KindKick, Seat: 2})
	s.Schedule(Deadline{At: now, Kind: KindAction, Seat: 2})
	s.CancelKind(KindKick)

	due := s.Due(now)
	if assert.Len(t, due, 1) {
		assert.Equal(t, KindAction, due[0].Kind)
	}
}

func TestScheduler_OrderManyDeadlines(t *testing.T) {
	now := time.Now()
	s := NewScheduler()
	for i := 9; i >= 0; i-- {
		s.Schedule(Deadline{At: now.Add(time.Duration(i) * time.Second), Kind: KindKick, Seat: i})
	}

	due := s.Due(now.Add(time.Minute))
	a := assert.New(t)
	a.Len(due, 10)
	for i, d := range due {
		a.Equal(i, d.Seat)
	}
}

func TestBank(t *testing.T) {
	a := assert.New(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	b := NewBank(30*time.Second, 60*time.Second, 5*time.Second)
	a.Equal(start.Add(45*time.Second), b.Deadline(start, 15*time.Second))

	// acting inside the base time costs nothing
	b.Consume(start, start.Add(10*time.Second), 15*time.Second)
	a.Equal(30*time.Second, b.Remaining)

	b.Consume(start, start.Add(25*time.Second), 15*time.Second)
	a.Equal(20*time.Second, b.Remaining)

	b.Consume(start, start.Add(time.Minute), 15*time.Second)
	a.Equal(time.Duration(0), b.Remaining)

	b.Regenerate()
	a.Equal(5*time.Second, b.Remaining)

	b.Expire()
	a.Equal(time.Duration(0), b.Remaining)

	b = NewBank(time.Minute*5, time.Minute, time.Minute)
	a.Equal(time.Minute, b.Remaining)
	b.Regenerate()
	a.Equal(time.Minute, b.Remaining)
}
