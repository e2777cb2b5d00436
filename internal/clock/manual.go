package clock

import (
	"container/heap"
	"sync"
	"time"
)

// Manual is a controllable clock for tests and headless runs.
// Callbacks only fire from Advance, on the caller's goroutine, in deadline
// order. Ties fire in registration order; a periodic timer keeps the slot it
// was registered with.
type Manual struct {
	mu    sync.RWMutex
	now   time.Time
	queue timerQueue
	seq   uint64
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current mocked time
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	return m.schedule(d, 0, f)
}

func (m *Manual) Every(d time.Duration, f func()) Timer {
	if d <= 0 {
		panic("clock: non-positive period")
	}
	return m.schedule(d, d, f)
}

func (m *Manual) schedule(d, period time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{
		clock:  m,
		at:     m.now.Add(d),
		period: period,
		seq:    m.seq,
		fn:     f,
		index:  -1,
	}
	heap.Push(&m.queue, t)
	return t
}

// Advance moves the clock forward by d, firing every callback that falls due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.RLock()
	target := m.now.Add(d)
	m.mu.RUnlock()
	m.advanceTo(target)
}

// Set moves the clock to t. Moving backwards fires nothing.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	if !t.After(m.now) {
		m.now = t
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	m.advanceTo(t)
}

// Pending returns the number of armed timers.
func (m *Manual) Pending() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.queue)
}

func (m *Manual) advanceTo(target time.Time) {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 || m.queue[0].at.After(target) {
			m.now = target
			m.mu.Unlock()
			return
		}

		t := heap.Pop(&m.queue).(*manualTimer)
		m.now = t.at
		if t.period > 0 {
			t.at = t.at.Add(t.period)
			heap.Push(&m.queue, t)
		}
		fn := t.fn
		m.mu.Unlock()

		// Runs unlocked so the callback can schedule or stop timers.
		fn()
	}
}

type manualTimer struct {
	clock  *Manual
	at     time.Time
	period time.Duration
	seq    uint64
	fn     func()
	index  int
}

func (t *manualTimer) Stop() bool {
	m := t.clock
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.index < 0 {
		return false
	}
	heap.Remove(&m.queue, t.index)
	return true
}

// timerQueue implements heap.Interface ordered by (at, seq).
type timerQueue []*manualTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*manualTimer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
