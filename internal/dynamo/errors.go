package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrMalformedInput indicates the parameter source could not produce N
	// well-formed body records.
	ErrMalformedInput = errors.New("dynamo: malformed input")

	// ErrInvalidMass indicates a body with a non-positive or non-finite mass.
	ErrInvalidMass = errors.New("dynamo: body mass must be positive")

	// ErrDegenerateConfiguration indicates two distinct bodies share a position.
	ErrDegenerateConfiguration = errors.New("dynamo: degenerate configuration (coincident bodies)")

	// ErrInvalidParams indicates a time step, duration or constant outside its valid range.
	ErrInvalidParams = errors.New("dynamo: invalid simulation parameters")

	// ErrFinished indicates a step was requested after the run completed.
	ErrFinished = errors.New("dynamo: simulation already finished")

	// ErrUnloaded indicates an operation on a simulation that was never built with New.
	ErrUnloaded = errors.New("dynamo: simulation not loaded")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
