package dynamo

import (
	"fmt"
	"math"
)

// Body is a point mass with its kinematic state and the force accumulated
// for the current step.
type Body struct {
	X, Y   float64
	VX, VY float64
	Mass   float64
	Label  string

	fx, fy float64
}

// Snapshot is a read-only copy of a body's state, used for observers and
// reporting.
type Snapshot struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Mass  float64 `json:"mass"`
	Label string  `json:"label"`
}

// NewBody returns a body with no accumulated force.
func NewBody(x, y, vx, vy, mass float64, label string) Body {
	return Body{X: x, Y: y, VX: vx, VY: vy, Mass: mass, Label: label}
}

// ResetForce clears the force accumulated during the previous step.
func (b *Body) ResetForce() {
	b.fx = 0
	b.fy = 0
}

// AccumulateForceFrom adds the gravitational pull of other on b.
// other must not be b; coincident distinct bodies produce NaN/Inf.
func (b *Body) AccumulateForceFrom(other *Body, g float64) {
	dx := other.X - b.X
	dy := other.Y - b.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	f := g * b.Mass * other.Mass / (dist * dist)

	b.fx += f * dx / dist
	b.fy += f * dy / dist
}

// Integrate advances b by one semi-implicit Euler step: velocity first,
// then position with the updated velocity.
func (b *Body) Integrate(dt float64) {
	b.VX += dt * b.fx / b.Mass
	b.VY += dt * b.fy / b.Mass

	b.X += dt * b.VX
	b.Y += dt * b.VY
}

// Force returns the force accumulated since the last ResetForce.
func (b *Body) Force() (fx, fy float64) { return b.fx, b.fy }

// Report copies b's state without the force accumulator.
func (b *Body) Report() Snapshot {
	return Snapshot{X: b.X, Y: b.Y, VX: b.VX, VY: b.VY, Mass: b.Mass, Label: b.Label}
}

// Validate checks the invariants a body must satisfy before it joins a
// simulation.
func (b *Body) Validate() error {
	if math.IsNaN(b.Mass) || b.Mass <= 0 || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("%w: body %q has mass %g", ErrInvalidMass, b.Label, b.Mass)
	}
	for _, v := range [...]float64{b.X, b.Y, b.VX, b.VY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: body %q has non-finite kinematics", ErrMalformedInput, b.Label)
		}
	}
	return nil
}
