// Package world provides positions, terrain and place names for the
// simulated geography.
package world

import "math"

// Position is a point on the flat world plane.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p offset by dx, dy.
func (p Position) Add(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the euclidean distance between two positions.
func Distance(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
