package storage

import "github.com/san-kum/nbodysim/internal/dynamo"

// Sample holds the positions of every body at one step, flattened as
// x0, y0, x1, y1, ...
type Sample struct {
	Step      int
	Time      float64
	Positions []float64
}

func (s Sample) Body(i int) (x, y float64) {
	return s.Positions[2*i], s.Positions[2*i+1]
}

// Recorder is a dynamo.Observer that keeps every n-th step.
type Recorder struct {
	every   int
	samples []Sample
}

// NewRecorder records the initial state and then every n-th step.
// n <= 0 keeps only the initial and final states.
func NewRecorder(every int, initial []dynamo.Snapshot) *Recorder {
	r := &Recorder{every: every, samples: make([]Sample, 0, 64)}
	r.add(0, 0, initial)
	return r
}

func (r *Recorder) OnStep(step int, t float64, bodies []dynamo.Snapshot) {
	if r.every > 0 && step%r.every == 0 {
		r.add(step, t, bodies)
	}
}

// Finish appends the final state unless the last sample already is it.
func (r *Recorder) Finish(step int, t float64, bodies []dynamo.Snapshot) {
	if n := len(r.samples); n > 0 && r.samples[n-1].Step == step {
		return
	}
	r.add(step, t, bodies)
}

func (r *Recorder) Samples() []Sample { return r.samples }

func (r *Recorder) add(step int, t float64, bodies []dynamo.Snapshot) {
	pos := make([]float64, 0, 2*len(bodies))
	for _, b := range bodies {
		pos = append(pos, b.X, b.Y)
	}
	r.samples = append(r.samples, Sample{Step: step, Time: t, Positions: pos})
}
