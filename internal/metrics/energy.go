package metrics

import (
	"math"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

// Energy returns kinetic plus pairwise gravitational potential energy.
func Energy(bodies []dynamo.Snapshot, g float64) float64 {
	ke := 0.0
	pe := 0.0

	for i, b := range bodies {
		ke += 0.5 * b.Mass * (b.VX*b.VX + b.VY*b.VY)

		for j := i + 1; j < len(bodies); j++ {
			r := math.Hypot(bodies[j].X-b.X, bodies[j].Y-b.Y)
			pe -= g * b.Mass * bodies[j].Mass / r
		}
	}

	return ke + pe
}

// EnergyDrift tracks the largest relative deviation of total energy from
// its initial value. With zero initial energy the deviation is absolute.
type EnergyDrift struct {
	name          string
	g             float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		g:    g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnStep(_ int, _ float64, bodies []dynamo.Snapshot) {
	energy := Energy(bodies, e.g)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	drift := math.Abs(energy - e.initialEnergy)
	if e.initialEnergy != 0 {
		drift /= math.Abs(e.initialEnergy)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
