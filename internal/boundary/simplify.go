package boundary

import "math"

// simplifyFactor scales the bounding-box diagonal into the simplification
// tolerance.
const simplifyFactor = 0.02

// Tolerance returns the simplification tolerance for a point sequence:
// simplifyFactor times the diagonal of its bounding box.
func Tolerance(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return simplifyFactor * math.Hypot(maxX-minX, maxY-minY)
}

// Simplify reduces a polyline with the Ramer–Douglas–Peucker algorithm. The
// subdivision runs on an explicit stack, so long near-collinear runs cannot
// exhaust the call stack. The first and last points are always kept.
func Simplify(points []Point, epsilon float64) []Point {
	if len(points) < 3 {
		return append([]Point(nil), points...)
	}

	last := len(points) - 1
	keep := make([]bool, len(points))
	keep[0], keep[last] = true, true

	type span struct{ from, to int }
	stack := []span{{0, last}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		maxDist, idx := 0.0, -1
		for i := s.from + 1; i < s.to; i++ {
			d := perpendicularDistance(points[i], points[s.from], points[s.to])
			if d > maxDist {
				maxDist, idx = d, i
			}
		}
		if idx < 0 || maxDist <= epsilon {
			continue
		}

		keep[idx] = true
		stack = append(stack, span{s.from, idx}, span{idx, s.to})
	}

	out := make([]Point, 0, len(points))
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}

// perpendicularDistance is the distance from p to the line through a and b,
// or to a itself when a and b coincide.
func perpendicularDistance(p, a, b Point) float64 {
	d := b.Sub(a)
	length := d.Length()
	if length == 0 {
		return p.Sub(a).Length()
	}
	cross := d.X*(p.Y-a.Y) - d.Y*(p.X-a.X)
	return math.Abs(cross) / length
}
