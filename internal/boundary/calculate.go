package boundary

// Calculate quantizes raw parameters and runs the full pipeline.
func Calculate(raw RawParams) (*Result, error) {
	p, err := raw.Quantize()
	if err != nil {
		return nil, err
	}
	return CalculateParams(p), nil
}

// CalculateParams scans the plane, extracts and fits both boundaries and
// resolves the degenerate cases. The result is deterministic for equal params.
func CalculateParams(p Params) *Result {
	scan := Scan(p)
	lowerPts, upperPts := Extract(scan.Columns, p.Height)

	res := Result{
		Lower:     fitBoundary(lowerPts, p),
		Upper:     fitBoundary(upperPts, p),
		Threshold: p.Threshold,
	}
	res = Resolve(res, scan, p)
	return &res
}

// fitBoundary returns nil when there is nothing to fit.
func fitBoundary(pts []Point, p Params) *Info {
	if len(pts) == 0 {
		return nil
	}
	info := Fit(pts, p.Width, p.Height)
	if len(info.Segments) == 0 {
		return nil
	}
	return &info
}
