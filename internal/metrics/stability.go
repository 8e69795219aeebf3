package metrics

import (
	"math"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

// Containment is the fraction of observed states in which every body lies
// inside the domain radius.
type Containment struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		name:   "containment",
		radius: radius,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) OnStep(_ int, _ float64, bodies []dynamo.Snapshot) {
	c.samples++
	for _, b := range bodies {
		if !(math.Hypot(b.X, b.Y) <= c.radius) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
