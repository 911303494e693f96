package domain

import "math"

// Immutable planar coordinates of a shop or the tour origin.
type Coordinates struct {
	X float64
	Y float64
}

// DistanceTo returns the straight-line distance to another point,
// rounded to 4 decimal places so distance tables stay stable across runs.
func (c Coordinates) DistanceTo(o Coordinates) float64 {
	d := math.Hypot(c.X-o.X, c.Y-o.Y)
	return math.Round(d*1e4) / 1e4
}
