package anim_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/symcycle/internal/anim"
)

var _ = Describe("Phase", func() {
	DescribeTable("Next",
		func(p, want anim.Phase) {
			Expect(p.Next()).To(Equal(want))
		},
		Entry("fade in", anim.FadeIn, anim.Stable),
		Entry("stable", anim.Stable, anim.FadeOut),
		Entry("fade out", anim.FadeOut, anim.FadeIn),
	)

	It("has the fixed durations", func() {
		Expect(anim.FadeIn.Duration().Seconds()).To(Equal(2.0))
		Expect(anim.Stable.Duration().Seconds()).To(Equal(6.0))
		Expect(anim.FadeOut.Duration().Seconds()).To(Equal(2.0))
		Expect(anim.TickPeriod.Seconds()).To(Equal(0.1))
		Expect(anim.CatalogSize).To(Equal(6))
	})

	It("round-trips its display name", func() {
		for _, p := range anim.Phases {
			got, ok := anim.ParsePhase(p.String())
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(p))
		}
		_, ok := anim.ParsePhase("Paused")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Interpolate", func() {
	It("pins the end values of each phase", func() {
		o, s := anim.Interpolate(anim.FadeIn, 0)
		Expect(o).To(Equal(0.0))
		Expect(s).To(Equal(anim.MinScale))

		o, s = anim.Interpolate(anim.FadeIn, 1)
		Expect(o).To(Equal(1.0))
		Expect(s).To(Equal(1.0))

		o, s = anim.Interpolate(anim.FadeOut, 0)
		Expect(o).To(Equal(1.0))
		Expect(s).To(Equal(1.0))

		o, s = anim.Interpolate(anim.FadeOut, 1)
		Expect(o).To(Equal(0.0))
		Expect(s).To(Equal(anim.MinScale))

		o, s = anim.Interpolate(anim.Stable, 0.5)
		Expect(o).To(Equal(1.0))
		Expect(s).To(Equal(1.0))
	})

	It("eases in slowly and out quickly", func() {
		Expect(anim.EaseIn(0.5)).To(BeNumerically("<", 0.5))
		Expect(anim.EaseOut(0.5)).To(BeNumerically(">", 0.5))
		Expect(anim.EaseIn(-1)).To(Equal(0.0))
		Expect(anim.EaseOut(2)).To(Equal(1.0))
	})

	It("is monotonic", func() {
		prevIn, prevOut := 0.0, 0.0
		for i := 1; i <= 100; i++ {
			p := float64(i) / 100
			in, out := anim.EaseIn(p), anim.EaseOut(p)
			Expect(in).To(BeNumerically(">=", prevIn-1e-9))
			Expect(out).To(BeNumerically(">=", prevOut-1e-9))
			prevIn, prevOut = in, out
		}
	})
})

var _ = Describe("Catalog", func() {
	It("lists six symbols in display order", func() {
		c := anim.Catalog()
		Expect(c).To(HaveLen(anim.CatalogSize))
		Expect(c[0].Name).To(Equal("person.fill"))
		Expect(c[5].Description).To(Equal("Pencil"))
		for i, s := range c {
			Expect(s.ID).To(Equal(i))
		}
	})

	It("returns a copy", func() {
		c := anim.Catalog()
		c[0].Name = "changed"
		Expect(anim.Catalog()[0].Name).To(Equal("person.fill"))
	})
})

var _ = Describe("Text encoding", func() {
	It("round trips phases and event kinds through JSON", func() {
		type row struct {
			Phase anim.Phase     `json:"phase"`
			Kind  anim.EventKind `json:"kind"`
		}
		b, err := json.Marshal(row{Phase: anim.FadeOut, Kind: anim.EventColor})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal(`{"phase":"Fade Out","kind":"color"}`))

		var got row
		Expect(json.Unmarshal(b, &got)).To(Succeed())
		Expect(got.Phase).To(Equal(anim.FadeOut))
		Expect(got.Kind).To(Equal(anim.EventColor))
	})

	It("rejects unknown names", func() {
		var p anim.Phase
		Expect(p.UnmarshalText([]byte("Paused"))).To(HaveOccurred())
		_, ok := anim.ParseEventKind("rewind")
		Expect(ok).To(BeFalse())
	})
})
