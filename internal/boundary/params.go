package boundary

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jmylchreest/safezone/internal/colour"
)

// ErrInvalidParams is returned for parameters that cannot be sampled.
var ErrInvalidParams = errors.New("invalid sample parameters")

// ColorSpace selects the cylindrical model the plane is sampled in.
type ColorSpace string

const (
	// HSL samples saturation against lightness.
	HSL ColorSpace = "hsl"
	// HSB samples saturation against brightness (value).
	HSB ColorSpace = "hsb"
)

// ParseColorSpace parses "hsl", "hsb" or "hsv".
func ParseColorSpace(s string) (ColorSpace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hsl", "":
		return HSL, nil
	case "hsb", "hsv":
		return HSB, nil
	default:
		return "", fmt.Errorf("%w: unknown colour space %q (valid: hsl, hsb)", ErrInvalidParams, s)
	}
}

// RawParams are the sample parameters as they arrive from a picker, before
// quantization. Fractional hues and sizes are allowed here.
type RawParams struct {
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Hue        float64    `json:"hue"`
	Background colour.RGB `json:"backgroundColor"`
	Alpha      float64    `json:"foregroundAlpha"`
	Threshold  float64    `json:"threshold"`
	ColorSpace ColorSpace `json:"colorSpace"`
}

// Params are quantized sample parameters. Two RawParams that quantize to the
// same Params produce bit-identical results.
type Params struct {
	Width      int
	Height     int
	Hue        int
	Background colour.RGB
	Alpha      float64
	Threshold  float64
	ColorSpace ColorSpace
}

// Quantize rounds and clamps the raw parameters: hue to the nearest whole
// degree in [0, 360), alpha to two decimals in [0, 1], and the canvas size to
// positive integers. Non-finite values and non-positive thresholds are
// rejected rather than clamped.
func (r RawParams) Quantize() (Params, error) {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"width", r.Width},
		{"height", r.Height},
		{"hue", r.Hue},
		{"alpha", r.Alpha},
		{"threshold", r.Threshold},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return Params{}, fmt.Errorf("%w: %s is not finite", ErrInvalidParams, f.name)
		}
	}
	if r.Threshold <= 0 {
		return Params{}, fmt.Errorf("%w: threshold must be positive, got %v", ErrInvalidParams, r.Threshold)
	}

	space, err := ParseColorSpace(string(r.ColorSpace))
	if err != nil {
		return Params{}, err
	}

	hue := int(roundHalfUp(r.Hue)) % 360
	if hue < 0 {
		hue += 360
	}

	alpha := math.Min(1, math.Max(0, r.Alpha))
	alpha = roundHalfUp(alpha*100) / 100

	return Params{
		Width:      dimension(r.Width),
		Height:     dimension(r.Height),
		Hue:        hue,
		Background: r.Background,
		Alpha:      alpha,
		Threshold:  r.Threshold,
		ColorSpace: space,
	}, nil
}

// roundHalfUp rounds halves towards positive infinity, so -0.5 becomes 0.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func dimension(v float64) int {
	n := roundHalfUp(v)
	if n < 1 {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// Raw converts quantized parameters back into RawParams.
func (p Params) Raw() RawParams {
	return RawParams{
		Width:      float64(p.Width),
		Height:     float64(p.Height),
		Hue:        float64(p.Hue),
		Background: p.Background,
		Alpha:      p.Alpha,
		Threshold:  p.Threshold,
		ColorSpace: p.ColorSpace,
	}
}

// Key is a canonical string form of the parameters, usable as a cache key or
// a params hash.
func (p Params) Key() string {
	return fmt.Sprintf("%dx%d/%s/h%d/bg%s/a%.2f/t%g",
		p.Width, p.Height, p.ColorSpace, p.Hue, p.Background.Hex(), p.Alpha, p.Threshold)
}

// Foreground returns the colour at normalised saturation s and
// lightness/value l for the parameters' hue and colour space.
func (p Params) Foreground(s, l float64) colour.RGB {
	if p.ColorSpace == HSB {
		return colour.HSVToRGB(float64(p.Hue), s, l)
	}
	return colour.HSLToRGB(float64(p.Hue), s, l)
}

// At returns the colour under pixel (x, y).
func (p Params) At(x, y float64) colour.RGB {
	s, l := p.Normalize(x, y)
	return p.Foreground(s, l)
}

// Normalize maps pixel coordinates to (saturation, lightness|value), both
// clamped to [0, 1].
func (p Params) Normalize(x, y float64) (s, l float64) {
	s = math.Min(1, math.Max(0, x/float64(p.Width)))
	l = math.Min(1, math.Max(0, 1-y/float64(p.Height)))
	return s, l
}

// Safe reports whether the colour at pixel (x, y) meets the threshold.
func (p Params) Safe(x, y float64) bool {
	return colour.ContrastRatioAlpha(p.Background, p.At(x, y), p.Alpha) >= p.Threshold
}
