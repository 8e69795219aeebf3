package metrics

import (
	"math"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

// MinSeparation records the closest approach between any two bodies.
// Close approaches are where the fixed-step scheme loses accuracy.
type MinSeparation struct {
	name string
	min  float64
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{name: "min_separation", min: math.Inf(1)}
}

func (m *MinSeparation) Name() string { return m.name }

func (m *MinSeparation) OnStep(_ int, _ float64, bodies []dynamo.Snapshot) {
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			d := math.Hypot(bodies[j].X-bodies[i].X, bodies[j].Y-bodies[i].Y)
			if d < m.min {
				m.min = d
			}
		}
	}
}

// Value is +Inf when fewer than two bodies were observed.
func (m *MinSeparation) Value() float64 { return m.min }

func (m *MinSeparation) Reset() { m.min = math.Inf(1) }

// Defaults returns the metrics a CLI run records.
func Defaults(g, radius float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(g),
		NewMomentumDrift(),
		NewCenterOfMassDrift(),
		NewContainment(radius),
		NewMinSeparation(),
	}
}
