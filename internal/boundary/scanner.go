package boundary

import "github.com/jmylchreest/safezone/internal/colour"

// ColumnStep is the horizontal sampling stride in pixels.
const ColumnStep = 2

// Interval is a maximal run of safe rows within one column, inclusive at both
// ends.
type Interval struct {
	StartY int `json:"startY"`
	EndY   int `json:"endY"`
}

// Column holds the safe intervals found at one sampled x.
type Column struct {
	X         int
	Intervals []Interval
}

// ScanResult is the classified sample grid.
type ScanResult struct {
	Columns []Column
	// NonOriginSafe is set when any safe sample has a non-zero lightness or
	// value. The bottom row is black whatever the saturation, so a plane
	// that is only safe there has no usable safe region.
	NonOriginSafe bool
}

// Scan classifies every sampled column of the plane into zero, one or two
// safe intervals.
func Scan(p Params) ScanResult {
	xs := columnXs(p.Width)
	res := ScanResult{Columns: make([]Column, 0, len(xs))}

	for _, x := range xs {
		s := float64(x) / float64(p.Width)

		var runs []Interval
		start := -1
		for y := 0; y <= p.Height; y++ {
			l := 1 - float64(y)/float64(p.Height)
			fg := p.Foreground(s, l)
			if colour.ContrastRatioAlpha(p.Background, fg, p.Alpha) >= p.Threshold {
				if start < 0 {
					start = y
				}
				if y < p.Height {
					res.NonOriginSafe = true
				}
				continue
			}
			if start >= 0 {
				runs = append(runs, Interval{StartY: start, EndY: y - 1})
				start = -1
			}
		}
		if start >= 0 {
			runs = append(runs, Interval{StartY: start, EndY: p.Height})
		}

		res.Columns = append(res.Columns, Column{X: x, Intervals: outermost(runs)})
	}

	return res
}

// columnXs lists the sampled columns: every ColumnStep pixels from 0, plus
// the right edge when the stride skips it.
func columnXs(width int) []int {
	xs := make([]int, 0, width/ColumnStep+2)
	for x := 0; x <= width; x += ColumnStep {
		xs = append(xs, x)
	}
	if xs[len(xs)-1] != width {
		xs = append(xs, width)
	}
	return xs
}

// outermost keeps at most the first and last interval.
func outermost(runs []Interval) []Interval {
	if len(runs) <= 2 {
		return runs
	}
	return []Interval{runs[0], runs[len(runs)-1]}
}
