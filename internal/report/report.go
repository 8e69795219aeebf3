// Package report formats the final state of a run.
package report

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

// Write prints N, R and one line per body. The output is a valid
// parameter file, so a finished run can seed the next one.
func Write(w io.Writer, radius float64, snaps []dynamo.Snapshot) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(snaps))
	fmt.Fprintf(bw, "%.2e\n", radius)
	for _, s := range snaps {
		fmt.Fprintf(bw, "%11.4e %11.4e %11.4e %11.4e %11.4e %12s\n", s.X, s.Y, s.VX, s.VY, s.Mass, s.Label)
	}
	return bw.Flush()
}

// Table prints snapshots as an aligned table for terminals.
func Table(w io.Writer, snaps []dynamo.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tlabel\tx\ty\tvx\tvy\tmass\t")
	for i, s := range snaps {
		fmt.Fprintf(tw, "%d\t%s\t%.4e\t%.4e\t%.4e\t%.4e\t%.4e\t\n", i, s.Label, s.X, s.Y, s.VX, s.VY, s.Mass)
	}
	return tw.Flush()
}
