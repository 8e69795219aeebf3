package dynamo_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

var _ = Describe("Body", func() {
	Describe("ResetForce", func() {
		It("is idempotent", func() {
			b := dynamo.NewBody(0, 0, 0, 0, 1, "a")
			b.ResetForce()
			b.ResetForce()
			fx, fy := b.Force()
			Expect(fx).To(BeZero())
			Expect(fy).To(BeZero())
		})

		It("clears force accumulated in a previous step", func() {
			a := dynamo.NewBody(0, 0, 0, 0, 1, "a")
			b := dynamo.NewBody(1, 0, 0, 0, 1, "b")
			a.AccumulateForceFrom(&b, 1)
			fx, _ := a.Force()
			Expect(fx).NotTo(BeZero())

			a.ResetForce()
			fx, fy := a.Force()
			Expect(fx).To(BeZero())
			Expect(fy).To(BeZero())
		})
	})

	Describe("AccumulateForceFrom", func() {
		It("pulls toward the other body with G*m1*m2/d^2", func() {
			a := dynamo.NewBody(0, 0, 0, 0, 2, "a")
			b := dynamo.NewBody(3, 4, 0, 0, 5, "b")
			a.ResetForce()
			a.AccumulateForceFrom(&b, 1.5)

			mag := 1.5 * 2 * 5 / 25.0
			fx, fy := a.Force()
			Expect(fx).To(BeNumerically("~", mag*3/5, 1e-12))
			Expect(fy).To(BeNumerically("~", mag*4/5, 1e-12))
		})

		It("is additive across contributors", func() {
			a := dynamo.NewBody(0, 0, 0, 0, 1, "a")
			left := dynamo.NewBody(-1, 0, 0, 0, 1, "l")
			right := dynamo.NewBody(1, 0, 0, 0, 1, "r")
			a.ResetForce()
			a.AccumulateForceFrom(&left, 1)
			a.AccumulateForceFrom(&right, 1)

			fx, fy := a.Force()
			Expect(fx).To(BeNumerically("~", 0, 1e-15))
			Expect(fy).To(BeZero())
		})

		It("applies equal and opposite forces to a pair", func() {
			a := dynamo.NewBody(0.3, -1.2, 0, 0, 7, "a")
			b := dynamo.NewBody(2.5, 0.4, 0, 0, 11, "b")
			a.ResetForce()
			b.ResetForce()
			a.AccumulateForceFrom(&b, 1)
			b.AccumulateForceFrom(&a, 1)

			afx, afy := a.Force()
			bfx, bfy := b.Force()
			Expect(afx + bfx).To(BeNumerically("~", 0, 1e-12))
			Expect(afy + bfy).To(BeNumerically("~", 0, 1e-12))
		})

		It("produces non-finite force for coincident bodies", func() {
			a := dynamo.NewBody(1, 1, 0, 0, 1, "a")
			b := dynamo.NewBody(1, 1, 0, 0, 1, "b")
			a.ResetForce()
			a.AccumulateForceFrom(&b, 1)

			fx, _ := a.Force()
			Expect(math.IsNaN(fx) || math.IsInf(fx, 0)).To(BeTrue())
		})
	})

	Describe("Integrate", func() {
		It("updates velocity before position", func() {
			a := dynamo.NewBody(0, 0, 1, 0, 2, "a")
			b := dynamo.NewBody(1, 0, 0, 0, 2, "b")
			a.ResetForce()
			a.AccumulateForceFrom(&b, 1)
			fx, _ := a.Force()

			dt := 0.5
			a.Integrate(dt)

			vx := 1 + dt*fx/2
			Expect(a.VX).To(BeNumerically("~", vx, 1e-15))
			Expect(a.X).To(BeNumerically("~", dt*vx, 1e-15))
			Expect(a.Y).To(BeZero())
		})

		It("moves a force-free body in a straight line", func() {
			b := dynamo.NewBody(1, 2, 3, -4, 1, "free")
			b.ResetForce()
			b.Integrate(2)
			Expect(b.X).To(Equal(7.0))
			Expect(b.Y).To(Equal(-6.0))
			Expect(b.VX).To(Equal(3.0))
			Expect(b.VY).To(Equal(-4.0))
		})
	})

	Describe("Report", func() {
		It("copies state and label", func() {
			b := dynamo.NewBody(1, 2, 3, 4, 5, "sun.gif")
			snap := b.Report()
			Expect(snap).To(Equal(dynamo.Snapshot{X: 1, Y: 2, VX: 3, VY: 4, Mass: 5, Label: "sun.gif"}))

			snap.X = 99
			Expect(b.X).To(Equal(1.0))
		})
	})

	Describe("Validate", func() {
		DescribeTable("rejects invalid bodies",
			func(b dynamo.Body, want error) {
				Expect(b.Validate()).To(MatchError(want))
			},
			Entry("zero mass", dynamo.NewBody(0, 0, 0, 0, 0, "z"), dynamo.ErrInvalidMass),
			Entry("negative mass", dynamo.NewBody(0, 0, 0, 0, -1, "n"), dynamo.ErrInvalidMass),
			Entry("NaN mass", dynamo.NewBody(0, 0, 0, 0, math.NaN(), "nan"), dynamo.ErrInvalidMass),
			Entry("infinite position", dynamo.NewBody(math.Inf(1), 0, 0, 0, 1, "inf"), dynamo.ErrMalformedInput),
			Entry("NaN velocity", dynamo.NewBody(0, 0, math.NaN(), 0, 1, "v"), dynamo.ErrMalformedInput),
		)

		It("accepts a well-formed body", func() {
			b := dynamo.NewBody(1, 2, 3, 4, 5, "ok")
			Expect(b.Validate()).To(Succeed())
		})
	})
})
