package timer

import (
	"container/heap"
	"encoding/json"
	"time"
)

// Kind is what a deadline is for
type Kind int

// Kind constants
const (
	KindAction Kind = iota
	KindVote
	KindShowdown
	KindNextHand
	KindKick
)

func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindVote:
		return "vote"
	case KindShowdown:
		return "showdown"
	case KindNextHand:
		return "next-hand"
	case KindKick:
		return "kick"
	}

	return ""
}

// MarshalJSON encodes the kind as its name
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Deadline is a point in time the table must react to
type Deadline struct {
	At   time.Time
	Kind Kind
	// Seat is -1 for table-wide deadlines
	Seat int
	// Hand is the hand number the deadline was set for
	Hand int64

	index int
}

type key struct {
	kind Kind
	seat int
}

// Scheduler holds one table's pending deadlines in a min-heap
// There is at most one deadline per kind and seat. It is not safe for concurrent use; the table lock guards it.
type Scheduler struct {
	h     deadlineHeap
	byKey map[key]*Deadline
}

// NewScheduler returns an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		h:     make(deadlineHeap, 0),
		byKey: make(map[key]*Deadline),
	}
}

// Schedule adds a deadline, replacing any pending one of the same kind and seat
func (s *Scheduler) Schedule(d Deadline) {
	k := key{kind: d.Kind, seat: d.Seat}
	if existing, ok := s.byKey[k]; ok {
		existing.At = d.At
		existing.Hand = d.Hand
		heap.Fix(&s.h, existing.index)
		return
	}

	entry := d
	heap.Push(&s.h, &entry)
	s.byKey[k] = &entry
}

// Cancel removes the pending deadline of the kind and seat
func (s *Scheduler) Cancel(kind Kind, seat int) bool {
	k := key{kind: kind, seat: seat}
	d, ok := s.byKey[k]
	if !ok {
		return false
	}

	heap.Remove(&s.h, d.index)
	delete(s.byKey, k)
	return true
}

// CancelKind removes every pending deadline of the kind
func (s *Scheduler) CancelKind(kind Kind) {
	for k := range s.byKey {
		if k.kind == kind {
			s.Cancel(k.kind, k.seat)
		}
	}
}

// Pending returns the deadline of the kind and seat, if any
func (s *Scheduler) Pending(kind Kind, seat int) (Deadline, bool) {
	d, ok := s.byKey[key{kind: kind, seat: seat}]
	if !ok {
		return Deadline{}, false
	}

	return *d, true
}

// Next returns the earliest pending deadline time
func (s *Scheduler) Next() (time.Time, bool) {
	if len(s.h) == 0 {
		return time.Time{}, false
	}

	return s.h[0].At, true
}

// Due pops every deadline at or before now, earliest first
func (s *Scheduler) Due(now time.Time) []Deadline {
	var due []Deadline
	for len(s.h) > 0 && !s.h[0].At.After(now) {
		d := heap.Pop(&s.h).(*Deadline)
		delete(s.byKey, key{kind: d.Kind, seat: d.Seat})
		due = append(due, *d)
	}

	return due
}

// Len returns the number of pending deadlines
func (s *Scheduler) Len() int {
	return len(s.h)
}

type deadlineHeap []*Deadline

func (h deadlineHeap) Len() int {
	return len(h)
}

func (h deadlineHeap) Less(i, j int) bool {
	if h[i].At.Equal(h[j].At) {
		return h[i].Kind < h[j].Kind
	}

	return h[i].At.Before(h[j].At)
}

func (h deadlineHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *deadlineHeap) Push(x interface{}) {
	d := x.(*Deadline)
	d.index = len(*h)
	*h = append(*h, d)
}

func (h *deadlineHeap) Pop() interface{} {
	old := *h
	n := len(old)
	d := old[n-1]
	old[n-1] = nil
	d.index = -1
	*h = old[:n-1]
	return d
}
