package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

type columns struct {
	mass, x, y, vx, vy []float64
}

func split(bodies []dynamo.Snapshot) columns {
	n := len(bodies)
	c := columns{
		mass: make([]float64, n),
		x:    make([]float64, n),
		y:    make([]float64, n),
		vx:   make([]float64, n),
		vy:   make([]float64, n),
	}
	for i, b := range bodies {
		c.mass[i] = b.Mass
		c.x[i] = b.X
		c.y[i] = b.Y
		c.vx[i] = b.VX
		c.vy[i] = b.VY
	}
	return c
}

// Momentum returns the total linear momentum.
func Momentum(bodies []dynamo.Snapshot) (px, py float64) {
	c := split(bodies)
	return floats.Dot(c.mass, c.vx), floats.Dot(c.mass, c.vy)
}

// CenterOfMass returns the mass-weighted mean position and the total mass.
// An empty set has its centre at the origin.
func CenterOfMass(bodies []dynamo.Snapshot) (x, y, mass float64) {
	c := split(bodies)
	mass = floats.Sum(c.mass)
	if mass == 0 {
		return 0, 0, 0
	}
	return floats.Dot(c.mass, c.x) / mass, floats.Dot(c.mass, c.y) / mass, mass
}

// MomentumDrift tracks the largest change of total momentum magnitude
// relative to the initial state.
type MomentumDrift struct {
	name     string
	px0, py0 float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) OnStep(_ int, _ float64, bodies []dynamo.Snapshot) {
	px, py := Momentum(bodies)
	if m.samples == 0 {
		m.px0, m.py0 = px, py
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, math.Hypot(px-m.px0, py-m.py0))
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.px0, m.py0 = 0, 0
	m.maxDrift = 0
	m.samples = 0
}

// CenterOfMassDrift tracks how far the centre of mass strays from the
// straight line x0 + P0/M*t that momentum conservation predicts.
type CenterOfMassDrift struct {
	name     string
	x0, y0   float64
	ux, uy   float64
	maxDrift float64
	samples  int
}

func NewCenterOfMassDrift() *CenterOfMassDrift {
	return &CenterOfMassDrift{name: "com_drift"}
}

func (c *CenterOfMassDrift) Name() string { return c.name }

func (c *CenterOfMassDrift) OnStep(_ int, t float64, bodies []dynamo.Snapshot) {
	x, y, mass := CenterOfMass(bodies)
	if c.samples == 0 {
		c.x0, c.y0 = x, y
		if mass > 0 {
			px, py := Momentum(bodies)
			c.ux, c.uy = px/mass, py/mass
		}
	}
	c.samples++

	d := math.Hypot(x-(c.x0+c.ux*t), y-(c.y0+c.uy*t))
	c.maxDrift = math.Max(c.maxDrift, d)
}

func (c *CenterOfMassDrift) Value() float64 { return c.maxDrift }

func (c *CenterOfMassDrift) Reset() {
	*c = CenterOfMassDrift{name: c.name}
}
