package boundary

// Extract turns per-column safe intervals into raw lower and upper boundary
// points. Each column contributes at most one point to each sequence, so both
// sequences are strictly increasing in x.
//
// A single interval yields an upper point at its start unless it touches the
// top edge, and a lower point at its end unless it touches the bottom edge.
// With two intervals the unsafe gap between them is what matters: the first
// interval's end is the lower point and the last interval's start the upper.
func Extract(cols []Column, height int) (lower, upper []Point) {
	for _, col := range cols {
		x := float64(col.X)

		switch len(col.Intervals) {
		case 0:
			continue
		case 1:
			iv := col.Intervals[0]
			if iv.StartY > 0 {
				upper = append(upper, Point{X: x, Y: float64(iv.StartY)})
			}
			if iv.EndY < height {
				lower = append(lower, Point{X: x, Y: float64(iv.EndY)})
			}
		default:
			first, last := col.Intervals[0], col.Intervals[len(col.Intervals)-1]
			lower = append(lower, Point{X: x, Y: float64(first.EndY)})
			upper = append(upper, Point{X: x, Y: float64(last.StartY)})
		}
	}
	return lower, upper
}
