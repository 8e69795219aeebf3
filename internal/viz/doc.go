// Package viz provides terminal visualization for gravitational runs.
//
// The package implements a live view using the Bubble Tea framework:
//
//   - [LiveModel]: steps a simulation a few steps per frame and draws it
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [Projector]: maps the [-R, R] domain onto the canvas
//
// Glyph sizes are derived from mass at draw time; bodies carry no
// cosmetic state.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	+/-   - Double/halve steps per frame
//	T     - Cycle color themes
//	Q     - Quit
package viz
