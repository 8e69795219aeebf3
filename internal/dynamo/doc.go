// Package dynamo provides the gravitational N-body core.
//
// The package defines the physical entities and the fixed-step driver:
//
//   - [Body]: one point mass with position, velocity, mass and accumulated force
//   - [Simulation]: owns the ordered bodies and constants, drives the step loop
//   - [Observer]: read-only per-step hook receiving [Snapshot] copies
//   - [Metric]: an observer that reduces the run to a single value
//
// Each step runs three barriers in order: every force is reset, every
// ordered pair (i, j) with i != j accumulates, then every body integrates
// with semi-implicit Euler. Positions read during accumulation are always
// those of the previous step.
//
// # Example
//
//	u, _ := ingest.Load("planets.txt")
//	s, _ := u.Simulation(dynamo.DefaultParams())
//	if err := s.Run(); err != nil {
//	    return err
//	}
//	report.Write(os.Stdout, s.Radius(), s.Report())
//
// # Thread Safety
//
// Simulation instances are NOT thread-safe. Independent instances share no
// state and may be used from different goroutines.
package dynamo
