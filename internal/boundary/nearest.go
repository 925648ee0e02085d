package boundary

import "math"

const (
	// DefaultSafetyMargin is the pixel distance a recommendation is moved
	// into the safe side of a boundary.
	DefaultSafetyMargin = 3.0

	bezierSteps = 20
	linearSteps = 10
)

// Candidate is a sampled boundary location shifted by the safety offset.
type Candidate struct {
	X float64
	Y float64
	// BoundaryY is the unshifted curve y at X.
	BoundaryY float64
	Distance  float64
}

// Evaluate returns the point at parameter t on the segment.
func (s Segment) Evaluate(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return Point{
		X: a*s.Start.X + b*s.CP1.X + c*s.CP2.X + d*s.End.X,
		Y: a*s.Start.Y + b*s.CP1.Y + c*s.CP2.Y + d*s.End.Y,
	}
}

// samples walks the boundary as a polyline: bezierSteps per cubic segment,
// or linearSteps per key point pair when no curve was fitted.
func (info *Info) samples(yield func(Point) bool) {
	if len(info.Segments) > 0 {
		for _, seg := range info.Segments {
			for i := 0; i <= bezierSteps; i++ {
				if !yield(seg.Evaluate(float64(i) / bezierSteps)) {
					return
				}
			}
		}
		return
	}

	pts := info.SimplifiedPoints
	if len(pts) == 0 {
		pts = info.Points
	}
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		for j := 0; j <= linearSteps; j++ {
			t := float64(j) / linearSteps
			if !yield(a.Add(b.Sub(a).Mul(t))) {
				return
			}
		}
	}
	if len(pts) == 1 {
		yield(pts[0])
	}
}

// FindNearest samples the boundary, shifts each sample vertically by offset
// (negative moves up) and returns the shifted sample closest to (cx, cy).
// Shifted samples outside [0, height] are ignored. Ties keep the earliest
// sample. ok is false when no sample survives.
func FindNearest(info *Info, cx, cy, offset, height float64) (Candidate, bool) {
	if info == nil {
		return Candidate{}, false
	}

	best := Candidate{Distance: math.Inf(1)}
	found := false
	info.samples(func(p Point) bool {
		y := p.Y + offset
		if y < 0 || y > height {
			return true
		}
		d := math.Hypot(p.X-cx, y-cy)
		if d < best.Distance {
			best = Candidate{X: p.X, Y: y, BoundaryY: p.Y, Distance: d}
			found = true
		}
		return true
	})
	return best, found
}

// FindYAtX returns the boundary's y at x. Outside the sampled x range the
// nearest end's y is used; inside, y is interpolated linearly between the
// samples that bracket x.
func FindYAtX(info *Info, x float64) (float64, bool) {
	if info == nil {
		return 0, false
	}

	var prev Point
	first := true
	var y float64
	found := false
	info.samples(func(p Point) bool {
		if first {
			first = false
			prev = p
			if x <= p.X {
				y, found = p.Y, true
				return false
			}
			return true
		}
		if (prev.X <= x && x <= p.X) || (p.X <= x && x <= prev.X) {
			if dx := p.X - prev.X; dx != 0 {
				y = prev.Y + (p.Y-prev.Y)*(x-prev.X)/dx
			} else {
				y = p.Y
			}
			found = true
			return false
		}
		prev = p
		return true
	})
	if !found && !first {
		// x lies beyond the last sample.
		return prev.Y, true
	}
	return y, found
}

// IsSafe reports whether pixel (x, y) lies on the safe side of the result's
// boundaries. The safe region is above the lower boundary and below the upper
// one; when the lower boundary sits above the upper one the safe region is
// split in two.
func IsSafe(res *Result, x, y float64) bool {
	if res == nil {
		return false
	}
	lowerY, hasLower := FindYAtX(res.Lower, x)
	upperY, hasUpper := FindYAtX(res.Upper, x)

	switch {
	case hasLower && hasUpper:
		if lowerY < upperY {
			return y <= lowerY || y >= upperY
		}
		return upperY <= y && y <= lowerY
	case hasLower:
		return y <= lowerY
	case hasUpper:
		return y >= upperY
	default:
		return false
	}
}

// Recommend projects an unsafe position (cx, cy) onto the nearest boundary,
// margin pixels inside the safe side. It returns nil when the position is
// already safe or nothing can be projected onto. When both boundaries are
// equally near the lower one wins.
//
// A nil result does not mean the colour passes. When no colour in the plane
// meets the threshold the resolved lower boundary is the bottom edge, every
// position counts as safe, and Recommend returns nil.
func Recommend(res *Result, cx, cy float64, width, height int, margin float64) *RecommendedPoint {
	if res == nil || (res.Lower == nil && res.Upper == nil) {
		return nil
	}
	if IsSafe(res, cx, cy) {
		return nil
	}

	h := float64(height)
	best, ok := FindNearest(res.Lower, cx, cy, -margin, h)
	if up, upOK := FindNearest(res.Upper, cx, cy, margin, h); upOK && (!ok || up.Distance < best.Distance) {
		best, ok = up, true
	}
	if !ok {
		return nil
	}

	w := float64(width)
	return &RecommendedPoint{
		X:   best.X,
		Y:   best.Y,
		SLX: math.Min(1, math.Max(0, best.X/w)),
		SLY: math.Min(1, math.Max(0, 1-best.Y/h)),
	}
}
