package clock

import (
	"sync"
	"time"
)

// Clock schedules callbacks against a time source.
type Clock interface {
	Now() time.Time
	// AfterFunc runs f once, d after now.
	AfterFunc(d time.Duration, f func()) Timer
	// Every runs f each period d until stopped.
	Every(d time.Duration, f func()) Timer
}

// Timer is a pending callback. Stop reports whether it prevented a future run.
type Timer interface {
	Stop() bool
}

// Real is the wall clock. Callbacks fire on their own goroutines.
type Real struct{}

func NewReal() *Real { return &Real{} }

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (Real) Every(d time.Duration, f func()) Timer {
	t := &realTicker{
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
	}
	go t.loop(f)
	return t
}

type realTicker struct {
	ticker   *time.Ticker
	stop     chan struct{}
	stopOnce sync.Once
}

func (t *realTicker) loop(f func()) {
	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.C:
			select {
			case <-t.stop:
				return
			default:
			}
			f()
		}
	}
}

func (t *realTicker) Stop() bool {
	stopped := false
	t.stopOnce.Do(func() {
		t.ticker.Stop()
		close(t.stop)
		stopped = true
	})
	return stopped
}
