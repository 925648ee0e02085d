package boundary

// MinVisibleAlpha is the foreground alpha below which a missing boundary is
// treated as "nothing is visible" rather than "everything is safe".
const MinVisibleAlpha = 0.01

// Resolve substitutes a forced bottom-edge lower boundary when the scan shows
// there is no usable safe region: either nothing but black passed (any
// boundary found then just traces the black bottom row), or no boundary was
// found and the foreground is practically invisible. Any other result is
// returned unchanged.
func Resolve(res Result, scan ScanResult, p Params) Result {
	none := res.Lower == nil && res.Upper == nil
	if scan.NonOriginSafe && !(none && p.Alpha < MinVisibleAlpha) {
		return res
	}
	return Result{
		Lower:     BottomLine(p.Width, p.Height),
		Threshold: res.Threshold,
	}
}

// BottomLine is a straight boundary along y=height.
func BottomLine(width, height int) *Info {
	w, h := float64(width), float64(height)
	start, end := Point{X: 0, Y: h}, Point{X: w, Y: h}
	return &Info{
		Points:           []Point{start, end},
		SimplifiedPoints: []Point{start, end},
		Segments: []Segment{{
			Start: start,
			CP1:   Point{X: w / 3, Y: h},
			CP2:   Point{X: 2 * w / 3, Y: h},
			End:   end,
		}},
	}
}
