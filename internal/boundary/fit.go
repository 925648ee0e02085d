package boundary

import "math"

const (
	// controlArm is the control point distance as a fraction of the chord.
	controlArm = 0.375
	// cornerAngle is the turning angle above which a key point is a corner.
	cornerAngle = math.Pi / 2
	// Key points this close to the frame edges are treated as corners.
	edgeToleranceX = 1.0
	edgeToleranceY = 5.0

	// EdgeOffset is how far curve ends that touch the top or bottom edge are
	// pushed beyond it, so clipped rendering shows no flat line.
	EdgeOffset = 2.0
	// edgeSnap is the distance from an edge within which an end is pushed.
	edgeSnap = 1.0
)

// Fit extends raw boundary points to both vertical edges, simplifies them and
// fits a piecewise cubic curve through the key points. When fewer than two
// distinct points remain the returned Info has no segments.
func Fit(raw []Point, width, height int) Info {
	info := Info{Points: append([]Point(nil), raw...)}

	pts := dedupe(extendToEdges(raw, float64(width)))
	if len(pts) < 2 {
		info.SimplifiedPoints = pts
		return info
	}

	keys := Simplify(pts, Tolerance(pts))
	info.SimplifiedPoints = keys

	corners := detectCorners(keys, float64(width), float64(height))
	tangents := estimateTangents(keys)

	segs := make([]Segment, 0, len(keys)-1)
	for i := 0; i+1 < len(keys); i++ {
		a, b := keys[i], keys[i+1]
		arm := b.Sub(a).Length() * controlArm

		seg := Segment{Start: a, CP1: a, CP2: b, End: b}
		if !corners[i] {
			seg.CP1 = a.Add(tangents[i].Mul(arm))
		}
		if !corners[i+1] {
			seg.CP2 = b.Sub(tangents[i+1].Mul(arm))
		}
		seg.CP1.Y = clampY(seg.CP1.Y, float64(height))
		seg.CP2.Y = clampY(seg.CP2.Y, float64(height))
		segs = append(segs, seg)
	}

	softenEdges(segs, float64(height))
	info.Segments = segs
	return info
}

// extendToEdges makes sure the sequence spans x=0 to x=width by repeating the
// nearest endpoint's y.
func extendToEdges(raw []Point, width float64) []Point {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Point, 0, len(raw)+2)
	if raw[0].X > 0 {
		out = append(out, Point{X: 0, Y: raw[0].Y})
	}
	out = append(out, raw...)
	if last := raw[len(raw)-1]; last.X < width {
		out = append(out, Point{X: width, Y: last.Y})
	}
	return out
}

// dedupe drops consecutive duplicates.
func dedupe(pts []Point) []Point {
	if len(pts) == 0 {
		return nil
	}
	out := []Point{pts[0]}
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// detectCorners flags key points that must not be smoothed: sharp turns and
// points on or near the frame edges.
func detectCorners(keys []Point, width, height float64) []bool {
	corners := make([]bool, len(keys))
	for i, p := range keys {
		if p.X <= edgeToleranceX || p.X >= width-edgeToleranceX ||
			p.Y <= edgeToleranceY || p.Y >= height-edgeToleranceY {
			corners[i] = true
			continue
		}
		if i == 0 || i == len(keys)-1 {
			continue
		}
		corners[i] = turningAngle(keys[i-1], p, keys[i+1]) > cornerAngle
	}
	return corners
}

// turningAngle is the angle between the incoming and outgoing chords at b.
func turningAngle(a, b, c Point) float64 {
	in, out := b.Sub(a), c.Sub(b)
	li, lo := in.Length(), out.Length()
	if li == 0 || lo == 0 {
		return 0
	}
	cos := in.Dot(out) / (li * lo)
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

// estimateTangents returns unit tangents: central differences inside the
// sequence and the direction to the neighbour at either end.
func estimateTangents(keys []Point) []Point {
	tangents := make([]Point, len(keys))
	last := len(keys) - 1
	for i := range keys {
		var d Point
		switch {
		case i == 0:
			d = keys[1].Sub(keys[0])
		case i == last:
			d = keys[last].Sub(keys[last-1])
		default:
			d = keys[i+1].Sub(keys[i-1])
		}
		if l := d.Length(); l > 0 {
			d = d.Mul(1 / l)
		}
		tangents[i] = d
	}
	return tangents
}

// softenEdges pushes the curve's first and last points past the top or
// bottom edge when they sit within edgeSnap of it. Control points collapsed
// onto the end move with it.
func softenEdges(segs []Segment, height float64) {
	if len(segs) == 0 {
		return
	}
	push := func(y float64) (float64, bool) {
		switch {
		case y <= edgeSnap:
			return -EdgeOffset, true
		case y >= height-edgeSnap:
			return height + EdgeOffset, true
		}
		return y, false
	}

	first := &segs[0]
	if y, ok := push(first.Start.Y); ok {
		if first.CP1 == first.Start {
			first.CP1.Y = y
		}
		first.Start.Y = y
	}

	last := &segs[len(segs)-1]
	if y, ok := push(last.End.Y); ok {
		if last.CP2 == last.End {
			last.CP2.Y = y
		}
		last.End.Y = y
	}
}

func clampY(y, height float64) float64 {
	return math.Max(-EdgeOffset, math.Min(height+EdgeOffset, y))
}
