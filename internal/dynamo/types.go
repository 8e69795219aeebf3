package dynamo

import (
	"fmt"
	"math"
)

const (
	// DefaultG is the gravitational constant in N m^2 / kg^2.
	DefaultG        = 6.67e-11
	DefaultDuration = 157788000.0
	DefaultDt       = 25000.0

	// MaxSteps bounds duration/dt so step indices stay exact in float64.
	MaxSteps = 1 << 53
)

// Phase is the lifecycle state of a Simulation.
type Phase int

const (
	Unloaded Phase = iota
	Loaded
	Running
	Finished
)

func (p Phase) String() string {
	switch p {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Running:
		return "running"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Params are the physical constants of a run. They are fixed once a
// Simulation is built.
type Params struct {
	G        float64
	Duration float64
	Dt       float64
	// CheckDegenerate turns coincident bodies into ErrDegenerateConfiguration
	// instead of letting NaN/Inf propagate.
	CheckDegenerate bool
}

func DefaultParams() Params {
	return Params{
		G:        DefaultG,
		Duration: DefaultDuration,
		Dt:       DefaultDt,
	}
}

func (p Params) Validate() error {
	if !(p.Dt > 0) || math.IsInf(p.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidParams, p.Dt)
	}
	if !(p.Duration >= 0) || math.IsInf(p.Duration, 0) {
		return fmt.Errorf("%w: duration must be non-negative, got %g", ErrInvalidParams, p.Duration)
	}
	if !(p.Duration/p.Dt < MaxSteps) {
		return fmt.Errorf("%w: duration/dt must be below %g steps, got %g", ErrInvalidParams, float64(MaxSteps), p.Duration/p.Dt)
	}
	if math.IsNaN(p.G) || math.IsInf(p.G, 0) {
		return fmt.Errorf("%w: gravitational constant must be finite, got %g", ErrInvalidParams, p.G)
	}
	return nil
}

// StepCount is the number of k >= 0 with k*dt < Duration, i.e. ceil(T/dt)
// computed without accumulating time.
// Ratios at or above MaxSteps saturate to MaxSteps; Validate rejects them.
func (p Params) StepCount() int {
	if p.Duration <= 0 {
		return 0
	}
	if !(p.Duration/p.Dt < MaxSteps) {
		return MaxSteps
	}
	n := int(math.Ceil(p.Duration / p.Dt))
	for n > 0 && float64(n-1)*p.Dt >= p.Duration {
		n--
	}
	for float64(n)*p.Dt < p.Duration {
		n++
	}
	return n
}

// Observer is called after every step with copies of the bodies.
type Observer interface {
	OnStep(step int, t float64, bodies []Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(step int, t float64, bodies []Snapshot)

func (f ObserverFunc) OnStep(step int, t float64, bodies []Snapshot) { f(step, t, bodies) }

// Metric reduces a run to one value. Run resets every metric, shows it
// the initial state as step 0 and then the state after every step.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

type Result struct {
	Steps   int
	Time    float64
	Metrics map[string]float64
}
