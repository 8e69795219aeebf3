package dynamo

import "fmt"

// Simulation owns an ordered, fixed-length set of bodies and advances them
// with a fixed step. The zero value is Unloaded; use New.
type Simulation struct {
	bodies    []Body
	radius    float64
	params    Params
	stepCount int
	steps     int
	phase     Phase
	observers []Observer
	metrics   []Metric
	primed    bool
	result    Result
}

// New takes ownership of bodies. Every body must have positive mass.
// A simulation with no steps to run starts Finished.
func New(bodies []Body, radius float64, p Params) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for i := range bodies {
		if err := bodies[i].Validate(); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
	}
	if bodies == nil {
		bodies = []Body{}
	}
	s := &Simulation{
		bodies:    bodies,
		radius:    radius,
		params:    p,
		stepCount: p.StepCount(),
		phase:     Loaded,
		observers: make([]Observer, 0),
		metrics:   make([]Metric, 0),
	}
	if s.stepCount == 0 {
		s.phase = Finished
	}
	return s, nil
}

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }

func (s *Simulation) Len() int        { return len(s.bodies) }
func (s *Simulation) Radius() float64 { return s.radius }
func (s *Simulation) Params() Params  { return s.params }
func (s *Simulation) Phase() Phase    { return s.phase }
func (s *Simulation) Steps() int      { return s.steps }
func (s *Simulation) StepCount() int  { return s.stepCount }
func (s *Simulation) Time() float64   { return float64(s.steps) * s.params.Dt }
func (s *Simulation) Result() Result  { return s.result }
func (s *Simulation) Finished() bool  { return s.phase == Finished }
func (s *Simulation) Remaining() int  { return max(s.stepCount-s.steps, 0) }

// StepOnce advances every body by one step.
func (s *Simulation) StepOnce() error {
	switch s.phase {
	case Unloaded:
		return ErrUnloaded
	case Finished:
		return ErrFinished
	}
	if s.params.CheckDegenerate {
		if err := s.checkCoincident(); err != nil {
			return err
		}
	}
	s.phase = Running

	for i := range s.bodies {
		s.bodies[i].ResetForce()
	}
	for i := range s.bodies {
		for j := range s.bodies {
			if i == j {
				continue
			}
			s.bodies[i].AccumulateForceFrom(&s.bodies[j], s.params.G)
		}
	}
	for i := range s.bodies {
		s.bodies[i].Integrate(s.params.Dt)
	}

	s.steps++
	if s.steps >= s.stepCount {
		s.phase = Finished
	}

	if len(s.observers) > 0 || len(s.metrics) > 0 {
		snaps := s.Report()
		t := s.Time()
		for _, o := range s.observers {
			o.OnStep(s.steps, t, snaps)
		}
		for _, m := range s.metrics {
			m.OnStep(s.steps, t, snaps)
		}
	}
	return nil
}

// Run executes the remaining steps until step*dt reaches the duration.
func (s *Simulation) Run() error {
	if s.phase == Unloaded {
		return ErrUnloaded
	}
	if !s.primed && s.steps == 0 {
		initial := s.Report()
		for _, m := range s.metrics {
			m.Reset()
			m.OnStep(0, 0, initial)
		}
		s.primed = true
	}

	for s.phase != Finished {
		if err := s.StepOnce(); err != nil {
			return err
		}
	}

	s.result = Result{
		Steps:   s.steps,
		Time:    s.Time(),
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		s.result.Metrics[m.Name()] = m.Value()
	}
	return nil
}

// Report returns a snapshot of every body in input order.
func (s *Simulation) Report() []Snapshot {
	snaps := make([]Snapshot, len(s.bodies))
	for i := range s.bodies {
		snaps[i] = s.bodies[i].Report()
	}
	return snaps
}

func (s *Simulation) checkCoincident() error {
	for i := range s.bodies {
		for j := i + 1; j < len(s.bodies); j++ {
			a, b := &s.bodies[i], &s.bodies[j]
			if a.X == b.X && a.Y == b.Y {
				return &SimulationError{
					Step:    s.steps,
					Time:    s.Time(),
					Wrapped: fmt.Errorf("%w: bodies %d (%s) and %d (%s)", ErrDegenerateConfiguration, i, a.Label, j, b.Label),
				}
			}
		}
	}
	return nil
}
