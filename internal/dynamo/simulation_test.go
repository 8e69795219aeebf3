package dynamo_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

type countingMetric struct {
	calls  []int
	resets int
}

func (c *countingMetric) Name() string   { return "count" }
func (c *countingMetric) Value() float64 { return float64(len(c.calls)) }

func (c *countingMetric) Reset() {
	c.calls = c.calls[:0]
	c.resets++
}

func (c *countingMetric) OnStep(step int, _ float64, _ []dynamo.Snapshot) {
	c.calls = append(c.calls, step)
}

func momentum(snaps []dynamo.Snapshot) (px, py float64) {
	for _, s := range snaps {
		px += s.Mass * s.VX
		py += s.Mass * s.VY
	}
	return
}

func threeBodies() []dynamo.Body {
	return []dynamo.Body{
		dynamo.NewBody(0, 0, 0.1, 0, 5, "a"),
		dynamo.NewBody(3, 1, 0, 0.4, 1, "b"),
		dynamo.NewBody(-2, 4, -0.3, -0.1, 2, "c"),
	}
}

var _ = Describe("Simulation", func() {
	unit := dynamo.Params{G: 1, Duration: 10, Dt: 0.01}

	Describe("New", func() {
		It("starts in the loaded phase", func() {
			s, err := dynamo.New(threeBodies(), 10, unit)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Phase()).To(Equal(dynamo.Loaded))
			Expect(s.Len()).To(Equal(3))
			Expect(s.Radius()).To(Equal(10.0))
			Expect(s.Steps()).To(BeZero())
		})

		It("rejects non-positive mass", func() {
			bodies := threeBodies()
			bodies[1].Mass = 0
			_, err := dynamo.New(bodies, 10, unit)
			Expect(err).To(MatchError(dynamo.ErrInvalidMass))
		})

		DescribeTable("rejects invalid params",
			func(p dynamo.Params) {
				_, err := dynamo.New(threeBodies(), 1, p)
				Expect(err).To(MatchError(dynamo.ErrInvalidParams))
			},
			Entry("zero dt", dynamo.Params{G: 1, Duration: 1, Dt: 0}),
			Entry("negative dt", dynamo.Params{G: 1, Duration: 1, Dt: -1}),
			Entry("negative duration", dynamo.Params{G: 1, Duration: -1, Dt: 1}),
			Entry("NaN G", dynamo.Params{G: math.NaN(), Duration: 1, Dt: 1}),
			Entry("step count beyond range", dynamo.Params{G: 1, Duration: 1e300, Dt: 1}),
			Entry("step count at the bound", dynamo.Params{G: 1, Duration: dynamo.MaxSteps, Dt: 1}),
		)

		It("starts finished when there is nothing to run", func() {
			s, err := dynamo.New(threeBodies(), 5, dynamo.Params{G: 1, Duration: 0, Dt: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Phase()).To(Equal(dynamo.Finished))

			before := s.Report()
			Expect(s.StepOnce()).To(MatchError(dynamo.ErrFinished))
			Expect(s.Steps()).To(BeZero())
			Expect(s.Report()).To(Equal(before))
		})
	})

	Describe("StepCount", func() {
		DescribeTable("counts k with k*dt < T",
			func(duration, dt float64, want int) {
				p := dynamo.Params{G: 1, Duration: duration, Dt: dt}
				Expect(p.StepCount()).To(Equal(want))
			},
			Entry("T=100 dt=30", 100.0, 30.0, 4),
			Entry("exact multiple", 100.0, 25.0, 4),
			Entry("zero duration", 0.0, 1.0, 0),
			Entry("dt larger than T", 1.0, 5.0, 1),
			Entry("default five-year run", dynamo.DefaultDuration, dynamo.DefaultDt, 6312),
			Entry("tenths", 1.0, 0.1, 10),
			Entry("saturates past the bound", 1e300, 1.0, dynamo.MaxSteps),
		)
	})

	Describe("Run", func() {
		It("executes exactly ceil(T/dt) steps", func() {
			s, err := dynamo.New(threeBodies(), 1, dynamo.Params{G: 1, Duration: 100, Dt: 30})
			Expect(err).NotTo(HaveOccurred())

			var steps []int
			var times []float64
			s.AddObserver(dynamo.ObserverFunc(func(step int, t float64, _ []dynamo.Snapshot) {
				steps = append(steps, step)
				times = append(times, t)
			}))

			Expect(s.Run()).To(Succeed())
			Expect(s.Steps()).To(Equal(4))
			Expect(steps).To(Equal([]int{1, 2, 3, 4}))
			Expect(times).To(Equal([]float64{30, 60, 90, 120}))
			Expect(s.Phase()).To(Equal(dynamo.Finished))
			Expect(s.Result().Steps).To(Equal(4))
		})

		It("completes an empty universe with an empty report", func() {
			s, err := dynamo.New(nil, 5, unit)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Run()).To(Succeed())
			Expect(s.Phase()).To(Equal(dynamo.Finished))
			Expect(s.Report()).To(BeEmpty())
		})

		It("finishes immediately for a zero duration", func() {
			s, err := dynamo.New(threeBodies(), 5, dynamo.Params{G: 1, Duration: 0, Dt: 1})
			Expect(err).NotTo(HaveOccurred())
			before := s.Report()
			Expect(s.Run()).To(Succeed())
			Expect(s.Steps()).To(BeZero())
			Expect(s.Report()).To(Equal(before))
		})

		It("keeps the centre of mass of a symmetric pair at rest", func() {
			bodies := []dynamo.Body{
				dynamo.NewBody(-1, 0, 0, -0.5, 1, "a"),
				dynamo.NewBody(1, 0, 0, 0.5, 1, "b"),
			}
			s, err := dynamo.New(bodies, 2, unit)
			Expect(err).NotTo(HaveOccurred())

			s.AddObserver(dynamo.ObserverFunc(func(_ int, _ float64, snaps []dynamo.Snapshot) {
				Expect((snaps[0].X + snaps[1].X) / 2).To(BeNumerically("~", 0, 1e-12))
				Expect((snaps[0].Y + snaps[1].Y) / 2).To(BeNumerically("~", 0, 1e-12))
			}))
			Expect(s.Run()).To(Succeed())
			Expect(s.Steps()).To(Equal(1000))
		})

		It("conserves total momentum every step", func() {
			s, err := dynamo.New(threeBodies(), 5, dynamo.Params{G: 1, Duration: 1, Dt: 0.001})
			Expect(err).NotTo(HaveOccurred())
			px0, py0 := momentum(s.Report())

			s.AddObserver(dynamo.ObserverFunc(func(_ int, _ float64, snaps []dynamo.Snapshot) {
				px, py := momentum(snaps)
				Expect(px).To(BeNumerically("~", px0, 1e-9))
				Expect(py).To(BeNumerically("~", py0, 1e-9))
			}))
			Expect(s.Run()).To(Succeed())
		})

		It("produces the same final state with or without observers", func() {
			plain, err := dynamo.New(threeBodies(), 5, unit)
			Expect(err).NotTo(HaveOccurred())
			Expect(plain.Run()).To(Succeed())

			observed, err := dynamo.New(threeBodies(), 5, unit)
			Expect(err).NotTo(HaveOccurred())
			observed.AddObserver(dynamo.ObserverFunc(func(_ int, _ float64, snaps []dynamo.Snapshot) {
				snaps[0].X = 1e9
			}))
			Expect(observed.Run()).To(Succeed())

			Expect(observed.Report()).To(Equal(plain.Report()))
		})

		It("shows metrics the initial state and every step", func() {
			s, err := dynamo.New(threeBodies(), 5, dynamo.Params{G: 1, Duration: 3, Dt: 1})
			Expect(err).NotTo(HaveOccurred())
			m := &countingMetric{}
			s.AddMetric(m)

			Expect(s.Run()).To(Succeed())
			Expect(m.resets).To(Equal(1))
			Expect(m.calls).To(Equal([]int{0, 1, 2, 3}))
			Expect(s.Result().Metrics).To(HaveKeyWithValue("count", 4.0))
		})

		It("still shows metrics the initial state of a zero duration run", func() {
			s, err := dynamo.New(threeBodies(), 5, dynamo.Params{G: 1, Duration: 0, Dt: 1})
			Expect(err).NotTo(HaveOccurred())
			m := &countingMetric{}
			s.AddMetric(m)

			Expect(s.Run()).To(Succeed())
			Expect(s.Run()).To(Succeed())
			Expect(m.resets).To(Equal(1))
			Expect(m.calls).To(Equal([]int{0}))
		})

		It("fails on a zero-value simulation", func() {
			var s dynamo.Simulation
			Expect(s.Run()).To(MatchError(dynamo.ErrUnloaded))
			Expect(s.StepOnce()).To(MatchError(dynamo.ErrUnloaded))
		})
	})

	Describe("StepOnce", func() {
		It("advances state on every call", func() {
			s, err := dynamo.New(threeBodies(), 5, unit)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.StepOnce()).To(Succeed())
			first := s.Report()
			Expect(s.Phase()).To(Equal(dynamo.Running))

			Expect(s.StepOnce()).To(Succeed())
			Expect(s.Report()).NotTo(Equal(first))
			Expect(s.Steps()).To(Equal(2))
		})

		It("refuses to step a finished simulation", func() {
			s, err := dynamo.New(threeBodies(), 5, dynamo.Params{G: 1, Duration: 2, Dt: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Run()).To(Succeed())

			final := s.Report()
			Expect(s.StepOnce()).To(MatchError(dynamo.ErrFinished))
			Expect(s.Report()).To(Equal(final))
			Expect(s.Report()).To(Equal(final))
		})

		It("gives a light body dt*G*M/d^2 toward a heavy one", func() {
			const (
				g  = 2.0
				m  = 1000.0
				d  = 4.0
				dt = 0.1
			)
			bodies := []dynamo.Body{
				dynamo.NewBody(0, 0, 0, 0, m, "heavy"),
				dynamo.NewBody(d, 0, 0, 0, 1e-6, "light"),
			}
			s, err := dynamo.New(bodies, d, dynamo.Params{G: g, Duration: 1, Dt: dt})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.StepOnce()).To(Succeed())

			light := s.Report()[1]
			Expect(light.VX).To(BeNumerically("~", -dt*g*m/(d*d), 1e-9))
			Expect(light.VY).To(BeZero())
		})

		It("matches the two-body reference scenario", func() {
			bodies := []dynamo.Body{
				dynamo.NewBody(0, 0, 0, 0, 1e20, "A"),
				dynamo.NewBody(10, 0, 0, 0, 1, "B"),
			}
			s, err := dynamo.New(bodies, 10, dynamo.Params{G: 6.67e-11, Duration: 1, Dt: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.StepOnce()).To(Succeed())

			snaps := s.Report()
			a, b := snaps[0], snaps[1]
			Expect(b.VX).To(BeNumerically("<", 0))
			Expect(b.VX).To(BeNumerically("~", -6.67e-11*1e20/100, 1e-3))
			Expect(a.VX).To(BeNumerically(">", 0))
			Expect(a.VX).To(BeNumerically("~", 6.67e-11/100, 1e-20))
			Expect(a.VY).To(BeZero())
			Expect(b.VY).To(BeZero())

			// position moved by the velocity of this same step
			Expect(b.X).To(BeNumerically("~", 10+b.VX, 1e-6))
			Expect(a.X).To(BeNumerically("~", a.VX, 1e-24))
			Expect(s.Phase()).To(Equal(dynamo.Finished))
		})

		Context("with coincident bodies", func() {
			coincident := func() []dynamo.Body {
				return []dynamo.Body{
					dynamo.NewBody(1, 1, 0, 0, 1, "a"),
					dynamo.NewBody(1, 1, 0, 0, 1, "b"),
					dynamo.NewBody(5, 5, 0, 0, 1, "c"),
				}
			}

			It("propagates NaN when unchecked", func() {
				s, err := dynamo.New(coincident(), 10, unit)
				Expect(err).NotTo(HaveOccurred())
				Expect(s.StepOnce()).To(Succeed())

				a := s.Report()[0]
				Expect(math.IsNaN(a.X) || math.IsInf(a.X, 0)).To(BeTrue())
			})

			It("surfaces a degenerate configuration when checked", func() {
				p := unit
				p.CheckDegenerate = true
				s, err := dynamo.New(coincident(), 10, p)
				Expect(err).NotTo(HaveOccurred())
				before := s.Report()

				err = s.Run()
				Expect(err).To(MatchError(dynamo.ErrDegenerateConfiguration))

				var simErr *dynamo.SimulationError
				Expect(errors.As(err, &simErr)).To(BeTrue())
				Expect(simErr.Step).To(BeZero())
				Expect(s.Report()).To(Equal(before))
			})
		})
	})
})
