package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/nbodysim/internal/storage"
)

var palette = []string{"#00ffff", "#ffd700", "#ff6b6b", "#7cfc00", "#da70d6", "#ffa500", "#87cefa"}

// Trajectories writes an SVG of every body's sampled path over the fixed
// [-R, R] domain, y pointing up. Non-finite or out of domain samples
// break the path instead of being drawn.
func Trajectories(w io.Writer, radius float64, labels []string, history []storage.Sample, size int) error {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return fmt.Errorf("invalid radius %g", radius)
	}
	if size <= 0 {
		return fmt.Errorf("invalid size %d", size)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	project := func(x, y float64) (float64, float64, bool) {
		u := (x + radius) / (2 * radius)
		v := (radius - y) / (2 * radius)
		if !(u >= 0 && u <= 1 && v >= 0 && v <= 1) {
			return 0, 0, false
		}
		return u * float64(size), v * float64(size), true
	}

	for i, label := range labels {
		color := palette[i%len(palette)]

		var d strings.Builder
		pen := false
		var lastX, lastY float64
		drawn := false
		for _, s := range history {
			if 2*i+1 >= len(s.Positions) {
				pen = false
				continue
			}
			px, py, ok := project(s.Body(i))
			if !ok {
				pen = false
				continue
			}
			if pen {
				fmt.Fprintf(&d, " L%.1f,%.1f", px, py)
			} else {
				fmt.Fprintf(&d, " M%.1f,%.1f", px, py)
			}
			pen = true
			drawn = true
			lastX, lastY = px, py
		}
		if !drawn {
			continue
		}

		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, color, strings.TrimSpace(d.String()))
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, lastX, lastY, color)
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11">%s</text>
`, lastX+5, lastY-5, color, escape(label))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}
