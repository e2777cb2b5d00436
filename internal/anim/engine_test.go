package anim_test

import (
	"math/rand"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/symcycle/internal/anim"
	"github.com/san-kum/symcycle/internal/clock"
)

var epoch = time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)

// recorder keeps every published snapshot.
type recorder struct {
	mu     sync.Mutex
	states []anim.State
}

func (r *recorder) OnState(s anim.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) of(kinds ...anim.EventKind) []anim.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []anim.State
	for _, s := range r.states {
		for _, k := range kinds {
			if s.Event == k {
				out = append(out, s)
			}
		}
	}
	return out
}

// leakyClock ignores Stop, so every callback fires even after cancellation.
type leakyClock struct{ *clock.Manual }

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (c leakyClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.Manual.AfterFunc(d, f)
	return leakyTimer{}
}

func (c leakyClock) Every(d time.Duration, f func()) clock.Timer {
	c.Manual.Every(d, f)
	return leakyTimer{}
}

func sec(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

var _ = Describe("Engine", func() {
	var (
		clk *clock.Manual
		rec *recorder
		eng *anim.Engine
	)

	BeforeEach(func() {
		clk = clock.NewManual(epoch)
		rec = &recorder{}
		eng = anim.New(
			anim.WithClock(clk),
			anim.WithRand(rand.New(rand.NewSource(42))),
			anim.WithObserver(rec),
		)
	})

	// at moves the manual clock to t seconds after the epoch.
	at := func(t float64) anim.State {
		clk.Set(epoch.Add(sec(t)))
		return eng.Snapshot()
	}

	Context("before start", func() {
		It("publishes an empty state", func() {
			s := eng.Snapshot()
			Expect(s.Symbol).To(BeNil())
			Expect(s.Index).To(Equal(-1))
			Expect(s.Phase).To(Equal(anim.FadeIn))
			Expect(s.Opacity).To(BeZero())
			Expect(s.Scale).To(Equal(anim.MinScale))
			Expect(s.Color).To(Equal(colorful.Color{}))
			Expect(s.Running).To(BeFalse())
			Expect(clk.Pending()).To(BeZero())
		})
	})

	Context("after start", func() {
		BeforeEach(func() {
			eng.Start()
		})

		It("shows the first symbol fading in from black", func() {
			s := eng.Snapshot()
			Expect(s.Symbol).NotTo(BeNil())
			Expect(s.Symbol.Name).To(Equal("person.fill"))
			Expect(s.Index).To(Equal(0))
			Expect(s.Phase).To(Equal(anim.FadeIn))
			Expect(s.Opacity).To(BeZero())
			Expect(s.Scale).To(Equal(anim.MinScale))
			Expect(s.Color).To(Equal(colorful.Color{}))
			Expect(s.Elapsed).To(BeZero())
			Expect(s.Cycle).To(Equal(1))
			Expect(s.Running).To(BeTrue())
		})

		It("follows the documented timeline", func() {
			s := at(2.0)
			Expect(s.Phase).To(Equal(anim.Stable))
			Expect(s.Opacity).To(BeNumerically("~", 1.0, 1e-9))

			s = at(8.0)
			Expect(s.Phase).To(Equal(anim.FadeOut))
			Expect(s.Opacity).To(BeNumerically("~", 1.0, 1e-9))
			Expect(s.Scale).To(BeNumerically("~", 1.0, 1e-9))

			s = at(10.0)
			Expect(s.Phase).To(Equal(anim.FadeIn))
			Expect(s.Index).To(Equal(1))
			Expect(s.Symbol.Description).To(Equal("Airplane"))
			Expect(s.Elapsed).To(BeZero())
			Expect(s.Opacity).To(BeZero())
			Expect(s.Scale).To(Equal(anim.MinScale))
			Expect(s.Color).To(Equal(colorful.Color{}))
		})

		It("cycles phases in order with fixed durations", func() {
			at(40.0)
			entries := rec.of(anim.EventStart, anim.EventPhase)
			Expect(len(entries)).To(BeNumerically(">=", 12))

			for i := 1; i < len(entries); i++ {
				prev, cur := entries[i-1], entries[i]
				Expect(cur.Phase).To(Equal(prev.Phase.Next()))
				Expect(cur.At.Sub(prev.At)).To(Equal(prev.Phase.Duration()))
			}

			var cycle time.Duration
			for _, p := range anim.Phases {
				cycle += p.Duration()
			}
			Expect(cycle).To(Equal(anim.TotalDisplayTime))
		})

		It("reaches the end values of each fade", func() {
			s := at(1.999)
			Expect(s.Opacity).To(BeNumerically(">", 0.99))
			Expect(s.Scale).To(BeNumerically(">", 0.99))

			s = at(9.999)
			Expect(s.Phase).To(Equal(anim.FadeOut))
			Expect(s.Opacity).To(BeNumerically("<", 0.01))
			Expect(s.Scale).To(BeNumerically("~", anim.MinScale, 0.01))
		})

		It("interpolates monotonically during the fades", func() {
			last := eng.Snapshot()
			for t := 0.05; t < 2.0; t += 0.05 {
				s := at(t)
				Expect(s.Phase).To(Equal(anim.FadeIn))
				Expect(s.Opacity).To(BeNumerically(">=", last.Opacity))
				Expect(s.Scale).To(BeNumerically(">=", last.Scale))
				last = s
			}

			for t := 3.0; t < 8.0; t += 0.5 {
				s := at(t)
				Expect(s.Opacity).To(Equal(1.0))
				Expect(s.Scale).To(Equal(1.0))
			}

			last = at(8.0)
			for t := 8.05; t < 10.0; t += 0.05 {
				s := at(t)
				Expect(s.Phase).To(Equal(anim.FadeOut))
				Expect(s.Opacity).To(BeNumerically("<=", last.Opacity))
				Expect(s.Scale).To(BeNumerically("<=", last.Scale))
				last = s
			}
		})

		It("changes color three times during Stable, two seconds apart", func() {
			fadeOut := at(9.0)
			Expect(fadeOut.Phase).To(Equal(anim.FadeOut))
			at(10.0)
			colors := rec.of(anim.EventColor)
			Expect(colors).To(HaveLen(anim.ColorChanges))

			stableEntry := epoch.Add(anim.FadeInTime)
			for i, s := range colors {
				Expect(s.Phase).To(Equal(anim.Stable))
				Expect(s.At.Sub(stableEntry)).To(Equal(time.Duration(i) * 2 * time.Second))
				for _, ch := range []float64{s.Color.R, s.Color.G, s.Color.B} {
					Expect(ch).To(BeNumerically(">=", 0))
					Expect(ch).To(BeNumerically("<", 1))
				}
			}
			Expect(colors[0].Color).NotTo(Equal(colors[1].Color))
			Expect(fadeOut.Color).To(Equal(colors[2].Color))
		})

		It("keeps color black outside Stable until the first pick", func() {
			Expect(at(1.5).Color).To(Equal(colorful.Color{}))
			Expect(at(2.0).Color).NotTo(Equal(colorful.Color{}))
		})

		It("advances the symbol on each FadeIn and wraps after the catalog", func() {
			s := at(60.0)
			Expect(s.Index).To(Equal(0))
			Expect(s.Cycle).To(Equal(anim.CatalogSize + 1))

			var indices []int
			for _, e := range rec.of(anim.EventStart, anim.EventPhase) {
				if e.Phase == anim.FadeIn {
					indices = append(indices, e.Index)
				}
			}
			Expect(indices).To(Equal([]int{0, 1, 2, 3, 4, 5, 0}))
		})

		It("counts elapsed time in 0.1s steps and wraps at 10s", func() {
			Expect(at(0.5).Elapsed).To(BeNumerically("~", 0.5, 1e-9))
			Expect(at(9.9).Elapsed).To(BeNumerically("~", 9.9, 1e-9))
			Expect(at(10.0).Elapsed).To(BeZero())
			Expect(at(13.7).Elapsed).To(BeNumerically("~", 3.7, 1e-9))

			ticks := rec.of(anim.EventTick)
			Expect(len(ticks)).To(Equal(137))
			for _, s := range ticks {
				Expect(s.Elapsed).To(BeNumerically(">=", 0))
				Expect(s.Elapsed).To(BeNumerically("<", anim.TotalDisplayTime.Seconds()))
			}
		})

		It("ignores a second start", func() {
			at(3.0)
			pending := clk.Pending()
			before := eng.Snapshot()

			eng.Start()

			after := eng.Snapshot()
			Expect(clk.Pending()).To(Equal(pending))
			Expect(after.Cycle).To(Equal(before.Cycle))
			Expect(after.Phase).To(Equal(before.Phase))
			Expect(after.Seq).To(Equal(before.Seq))
		})

		It("cancels every timer on stop", func() {
			at(4.5)
			eng.Stop()
			Expect(clk.Pending()).To(BeZero())

			frozen := eng.Snapshot()
			Expect(frozen.Running).To(BeFalse())

			s := at(30.0)
			Expect(s.Phase).To(Equal(frozen.Phase))
			Expect(s.Index).To(Equal(frozen.Index))
			Expect(s.Elapsed).To(Equal(frozen.Elapsed))
			Expect(s.Seq).To(Equal(frozen.Seq))

			eng.Stop()
			eng.Start()
			Expect(eng.Snapshot().Running).To(BeFalse())
		})

		It("delivers the latest snapshot to subscribers", func() {
			ch, cancel := eng.Subscribe()
			at(2.5)

			var got anim.State
			Eventually(ch).Should(Receive(&got))
			Expect(got.Seq).To(Equal(eng.Snapshot().Seq))
			Consistently(ch).ShouldNot(Receive())

			cancel()
			Expect(ch).To(BeClosed())
			cancel()
		})

		It("closes subscriptions on stop after the final snapshot", func() {
			ch, cancel := eng.Subscribe()
			at(3.0)
			eng.Stop()

			var got anim.State
			Expect(ch).To(Receive(&got))
			Expect(got.Event).To(Equal(anim.EventStop))
			Expect(got.Running).To(BeFalse())
			Expect(ch).To(BeClosed())
			cancel()

			late, lateCancel := eng.Subscribe()
			Expect(late).To(BeClosed())
			lateCancel()
		})
	})

	Context("when cancelled timers still fire", func() {
		var leaky leakyClock

		BeforeEach(func() {
			leaky = leakyClock{Manual: clock.NewManual(epoch)}
			rec = &recorder{}
			eng = anim.New(
				anim.WithClock(leaky),
				anim.WithRand(rand.New(rand.NewSource(7))),
				anim.WithObserver(rec),
			)
			eng.Start()
		})

		It("drops callbacks from earlier phases and stopped engines", func() {
			leaky.Set(epoch.Add(sec(21.0)))

			entries := rec.of(anim.EventStart, anim.EventPhase)
			Expect(entries).To(HaveLen(7))
			for i := 1; i < len(entries); i++ {
				Expect(entries[i].Phase).To(Equal(entries[i-1].Phase.Next()))
			}
			Expect(rec.of(anim.EventColor)).To(HaveLen(2 * anim.ColorChanges))

			eng.Stop()
			seq := eng.Snapshot().Seq
			leaky.Set(epoch.Add(sec(60.0)))
			Expect(eng.Snapshot().Seq).To(Equal(seq))
		})
	})
})
