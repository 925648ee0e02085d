// Package boundary computes the regions of the saturation/lightness (or
// saturation/value) plane where a foreground of a fixed hue reaches a contrast
// threshold against a background, and fits smooth curves along the edges of
// those regions.
//
// Pixel y grows downwards: row 0 is full lightness/value, row Height is zero.
package boundary

import "seehuhn.de/go/geom/vec"

// Point is a position in canvas pixel space.
type Point = vec.Vec2

// Segment is one cubic Bézier piece of a boundary curve.
type Segment struct {
	Start Point `json:"start"`
	CP1   Point `json:"cp1"`
	CP2   Point `json:"cp2"`
	End   Point `json:"end"`
}

// Info describes one fitted boundary. It is immutable once returned.
type Info struct {
	// Points are the raw per-column boundary samples, ordered by x.
	Points []Point `json:"points"`
	// SimplifiedPoints are the key points the curve passes through. They
	// always start at x=0 and end at x=width.
	SimplifiedPoints []Point `json:"simplifiedPoints"`
	// Segments is the fitted piecewise cubic curve.
	Segments []Segment `json:"bezierSegments"`
}

// Result is the outcome of one boundary calculation. Either boundary may be
// nil when no transition occurs inside the frame.
//
// The safe region lies above Lower (smaller y) and below Upper (larger y).
type Result struct {
	Lower     *Info   `json:"lowerBoundary"`
	Upper     *Info   `json:"upperBoundary"`
	Threshold float64 `json:"threshold"`
}

// RecommendedPoint is the suggested replacement for an unsafe colour position.
type RecommendedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	// SLX and SLY are the normalised saturation and lightness (or value)
	// of the recommended point, both in [0, 1].
	SLX float64 `json:"slX"`
	SLY float64 `json:"slY"`
}
