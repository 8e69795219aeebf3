package viz

import "math"

// Projector maps world coordinates in [-R, R] onto canvas sub-pixels with
// y pointing up.
type Projector struct {
	radius float64
	w, h   int
}

func NewProjector(radius float64, c *Canvas) Projector {
	w, h := c.Pixels()
	if !(radius > 0) || math.IsInf(radius, 0) {
		radius = 1
	}
	return Projector{radius: radius, w: w, h: h}
}

// Project returns the sub-pixel for (x, y); ok is false for points
// outside the domain or non-finite coordinates.
func (p Projector) Project(x, y float64) (px, py int, ok bool) {
	u := (x + p.radius) / (2 * p.radius)
	v := (p.radius - y) / (2 * p.radius)
	if !(u >= 0 && u <= 1 && v >= 0 && v <= 1) {
		return 0, 0, false
	}
	px = min(int(u*float64(p.w)), p.w-1)
	py = min(int(v*float64(p.h)), p.h-1)
	return px, py, true
}

// GlyphRadius derives a cosmetic disc radius from a body's mass relative
// to the lightest body: one extra sub-pixel per 4 orders of magnitude.
func GlyphRadius(mass, lightest float64) int {
	if !(mass > 0 && lightest > 0) {
		return 0
	}
	r := int(math.Log10(mass/lightest) / 4)
	return min(max(r, 0), 3)
}
