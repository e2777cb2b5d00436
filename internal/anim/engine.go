package anim

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/symcycle/internal/clock"
)

// Engine cycles the catalog through FadeIn, Stable and FadeOut and runs the
// free-running elapsed-time counter. All mutation happens under mu; snapshots
// are delivered to observers after mu is released.
type Engine struct {
	mu      sync.Mutex
	clock   clock.Clock
	rng     *rand.Rand
	log     *slog.Logger
	catalog []Symbol

	next       int // catalog position of the next symbol to show
	current    int
	phase      Phase
	phaseStart time.Time
	color      colorful.Color
	ticks      int
	cycles     int
	seq        uint64
	epoch      uint64 // bumped on every phase entry; stale callbacks compare against it
	pending    []clock.Timer
	ticker     clock.Timer
	started    bool
	stopped    bool
	stoppedAt  time.Time

	notifyMu   sync.Mutex
	lastSent   uint64
	observers  []Observer
	subs       map[uint64]chan State
	nextSub    uint64
	subsClosed bool
}

type Option func(*Engine)

func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRand sets the source of the Stable-phase colors.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// New creates an idle engine. Nothing is scheduled until Start.
func New(opts ...Option) *Engine {
	e := &Engine{
		catalog: Catalog(),
		subs:    make(map[uint64]chan State),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = clock.NewReal()
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	return e
}

// Start begins the cycle with the first catalog symbol and starts the
// elapsed-time ticker. It is meant to be called once per session; later
// calls, and calls after Stop, are ignored.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.started || e.stopped {
		started, stopped := e.started, e.stopped
		e.mu.Unlock()
		e.log.Warn("engine start ignored", "started", started, "stopped", stopped)
		return
	}
	e.started = true
	e.enterPhase(FadeIn)
	e.ticker = e.clock.Every(TickPeriod, e.tick)
	s := e.publishLocked(EventStart)
	e.mu.Unlock()

	e.log.Info("engine started", "symbol", s.SymbolName())
	e.broadcast(s)
}

// Stop cancels every pending callback, the ticker included. Safe to call more
// than once.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.cancelPending()
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
	e.epoch++
	e.stopped = true
	e.stoppedAt = e.clock.Now()
	s := e.publishLocked(EventStop)
	e.mu.Unlock()

	e.log.Info("engine stopped", "cycles", s.Cycle)
	e.broadcast(s)
	e.closeSubs()
}

// Snapshot returns the current state, with opacity and scale interpolated
// for the clock's current time.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(EventPoll)
}

// AddObserver registers o for every snapshot published from now on.
func (e *Engine) AddObserver(o Observer) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.observers = append(e.observers, o)
}

// Subscribe returns a channel holding at most the latest published snapshot.
// The channel is closed by Stop, or by the returned func, whichever comes
// first. After Stop it is returned already closed.
func (e *Engine) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	if e.subsClosed {
		close(ch)
		return ch, func() {}
	}
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch

	return ch, func() {
		e.notifyMu.Lock()
		defer e.notifyMu.Unlock()
		if c, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(c)
		}
	}
}

// closeSubs closes every subscription once the stop snapshot is delivered.
func (e *Engine) closeSubs() {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.subsClosed = true
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
}

func (e *Engine) enterPhase(p Phase) {
	e.cancelPending()
	e.epoch++
	e.phase = p
	e.phaseStart = e.clock.Now()

	switch p {
	case FadeIn:
		if e.next >= len(e.catalog) {
			e.next = 0
		}
		e.current = e.next
		e.next++
		e.cycles++
		e.color = colorful.Color{}
		e.ticks = 0
	case Stable:
		interval := StableTime / ColorChanges
		for i := 0; i < ColorChanges; i++ {
			e.schedule(time.Duration(i)*interval, e.changeColor)
		}
	}
	e.schedule(p.Duration(), e.advance)

	e.log.Debug("phase entered", "phase", p.String(), "symbol", e.catalog[e.current].Name, "cycle", e.cycles)
}

func (e *Engine) advance() EventKind {
	e.enterPhase(e.phase.Next())
	return EventPhase
}

func (e *Engine) changeColor() EventKind {
	e.color = colorful.Color{R: e.rng.Float64(), G: e.rng.Float64(), B: e.rng.Float64()}
	return EventColor
}

// schedule arms a callback bound to the current phase. It is dropped if the
// phase has changed or the engine stopped by the time it fires.
func (e *Engine) schedule(d time.Duration, fn func() EventKind) {
	epoch := e.epoch
	t := e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		if e.stopped || epoch != e.epoch {
			e.mu.Unlock()
			return
		}
		kind := fn()
		s := e.publishLocked(kind)
		e.mu.Unlock()
		e.broadcast(s)
	})
	e.pending = append(e.pending, t)
}

func (e *Engine) cancelPending() {
	for _, t := range e.pending {
		t.Stop()
	}
	e.pending = e.pending[:0]
}

func (e *Engine) tick() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.ticks++
	if e.ticks >= ticksPerDisplay {
		e.ticks = 0
	}
	s := e.publishLocked(EventTick)
	e.mu.Unlock()
	e.broadcast(s)
}

func (e *Engine) publishLocked(kind EventKind) State {
	e.seq++
	return e.snapshotLocked(kind)
}

func (e *Engine) snapshotLocked(kind EventKind) State {
	now := e.clock.Now()
	s := State{
		Index:   -1,
		Phase:   e.phase,
		Color:   e.color,
		Elapsed: float64(e.ticks) * TickPeriod.Seconds(),
		Cycle:   e.cycles,
		Seq:     e.seq,
		Event:   kind,
		Running: e.started && !e.stopped,
		At:      now,
		Scale:   MinScale,
	}
	if !e.started {
		return s
	}

	sym := e.catalog[e.current]
	s.Symbol = &sym
	s.Index = e.current

	if e.stopped {
		now = e.stoppedAt
	}
	s.Progress = progress(now.Sub(e.phaseStart), e.phase.Duration())
	s.Opacity, s.Scale = Interpolate(e.phase, s.Progress)
	return s
}

// broadcast delivers s to observers and subscribers. Snapshots that lost a
// race with a newer one are dropped.
func (e *Engine) broadcast(s State) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	if s.Seq <= e.lastSent {
		return
	}
	e.lastSent = s.Seq

	for _, o := range e.observers {
		o.OnState(s)
	}
	for _, ch := range e.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

func progress(elapsed, total time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= total {
		return 1
	}
	return float64(elapsed) / float64(total)
}
