// Package ingest reads universe parameter files: the body count N, the
// domain radius R, then N whitespace separated records of
// x y vx vy mass label.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

var fieldNames = [...]string{"x", "y", "vx", "vy", "mass"}

// Universe is the parsed content of a parameter file.
type Universe struct {
	N      int
	Radius float64
	Bodies []dynamo.Body
}

// Simulation builds a simulation that owns the universe's bodies.
func (u *Universe) Simulation(p dynamo.Params) (*dynamo.Simulation, error) {
	return dynamo.New(u.Bodies, u.Radius, p)
}

func Load(path string) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrMalformedInput, err)
	}
	defer f.Close()

	u, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return u, nil
}

// Parse reads a universe from r. Tokens after the last record are ignored.
func Parse(r io.Reader) (*Universe, error) {
	tok := newTokens(r)

	raw, err := tok.next("body count")
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: body count %q is not a non-negative integer", dynamo.ErrMalformedInput, raw)
	}

	radius, err := tok.float("radius")
	if err != nil {
		return nil, err
	}

	// n is untrusted until the records are read.
	bodies := make([]dynamo.Body, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		var vals [len(fieldNames)]float64
		for k, name := range fieldNames {
			v, err := tok.float(name)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			vals[k] = v
		}
		label, err := tok.next("label")
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		b := dynamo.NewBody(vals[0], vals[1], vals[2], vals[3], vals[4], label)
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		bodies = append(bodies, b)
	}

	if err := tok.err(); err != nil {
		return nil, err
	}
	return &Universe{N: n, Radius: radius, Bodies: bodies}, nil
}

// Write emits u in the format Parse reads.
func Write(w io.Writer, u *Universe) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%g\n", len(u.Bodies), u.Radius)
	for _, b := range u.Bodies {
		fmt.Fprintf(bw, "%g %g %g %g %g %s\n", b.X, b.Y, b.VX, b.VY, b.Mass, b.Label)
	}
	return bw.Flush()
}

type tokens struct {
	sc *bufio.Scanner
}

func newTokens(r io.Reader) *tokens {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokens{sc: sc}
}

func (t *tokens) next(field string) (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", fmt.Errorf("%w: reading %s: %v", dynamo.ErrMalformedInput, field, err)
		}
		return "", fmt.Errorf("%w: unexpected end of input, missing %s", dynamo.ErrMalformedInput, field)
	}
	return t.sc.Text(), nil
}

func (t *tokens) float(field string) (float64, error) {
	raw, err := t.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", dynamo.ErrMalformedInput, field, raw)
	}
	return v, nil
}

func (t *tokens) err() error {
	if err := t.sc.Err(); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrMalformedInput, err)
	}
	return nil
}
