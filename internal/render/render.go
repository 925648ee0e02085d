// Package render draws the sampled colour plane with its safe-region
// boundaries as an image.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/jmylchreest/safezone/internal/boundary"
)

// Options controls what is drawn on top of the plane.
type Options struct {
	// Scale enlarges the output by an integer factor. Values below 1 mean 1.
	Scale int
	// ShadeUnsafe dims pixels that fail the contrast threshold.
	ShadeUnsafe bool
	// Current marks the picker position, if set.
	Current *boundary.Point
	// Recommendation marks a suggested safe point, if set.
	Recommendation *boundary.RecommendedPoint
	// StrokeWidth is the curve width in output pixels. Zero means 2.
	StrokeWidth float64
}

var (
	lowerColour   = color.RGBA{R: 0, G: 200, B: 255, A: 255}
	upperColour   = color.RGBA{R: 255, G: 0, B: 200, A: 255}
	currentColour = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	markerColour  = color.RGBA{R: 40, G: 220, B: 40, A: 255}
	unsafeShade   = color.RGBA{R: 0, G: 0, B: 0, A: 140}
)

// flattenSteps is the number of line pieces per cubic when stroking.
const flattenSteps = 24

// Render draws the plane for p with the boundaries in res.
func Render(p boundary.Params, res *boundary.Result, opts Options) *image.RGBA {
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}
	stroke := opts.StrokeWidth
	if stroke <= 0 {
		stroke = 2
	}

	plane := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			// Sample pixel centres.
			fx, fy := float64(x)+0.5, float64(y)+0.5
			c := p.At(fx, fy)
			px := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
			if opts.ShadeUnsafe && !p.Safe(fx, fy) {
				px = blend(px, unsafeShade)
			}
			plane.SetRGBA(x, y, px)
		}
	}

	out := plane
	if scale > 1 {
		out = image.NewRGBA(image.Rect(0, 0, p.Width*scale, p.Height*scale))
		draw.NearestNeighbor.Scale(out, out.Bounds(), plane, plane.Bounds(), draw.Src, nil)
	}

	s := float64(scale)
	if res != nil {
		if res.Lower != nil {
			strokeInfo(out, res.Lower, s, stroke, lowerColour)
		}
		if res.Upper != nil {
			strokeInfo(out, res.Upper, s, stroke, upperColour)
		}
	}
	if opts.Current != nil {
		mark(out, opts.Current.X*s, opts.Current.Y*s, 3*stroke, currentColour)
	}
	if opts.Recommendation != nil {
		mark(out, opts.Recommendation.X*s, opts.Recommendation.Y*s, 3*stroke, markerColour)
	}
	return out
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func blend(base, over color.RGBA) color.RGBA {
	a := float64(over.A) / 255
	mix := func(b, o uint8) uint8 {
		return uint8(math.Round(float64(b)*(1-a) + float64(o)*a))
	}
	return color.RGBA{R: mix(base.R, over.R), G: mix(base.G, over.G), B: mix(base.B, over.B), A: 255}
}

// strokeInfo draws the boundary's bezier segments, or its polyline when it
// has none, as a chain of thin quads.
func strokeInfo(dst *image.RGBA, info *boundary.Info, scale, width float64, c color.RGBA) {
	var line []boundary.Point
	if len(info.Segments) > 0 {
		for i, seg := range info.Segments {
			start := 1
			if i == 0 {
				start = 0
			}
			for k := start; k <= flattenSteps; k++ {
				line = append(line, seg.Evaluate(float64(k)/flattenSteps))
			}
		}
	} else if len(info.SimplifiedPoints) > 0 {
		line = info.SimplifiedPoints
	} else {
		line = info.Points
	}
	if len(line) < 2 {
		return
	}

	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	half := width / 2
	for i := 1; i < len(line); i++ {
		a, e := line[i-1].Mul(scale), line[i].Mul(scale)
		d := e.Sub(a)
		n := d.Length()
		if n == 0 {
			continue
		}
		// Unit normal scaled to half the stroke width.
		nx, ny := -d.Y/n*half, d.X/n*half
		z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
		z.LineTo(float32(e.X+nx), float32(e.Y+ny))
		z.LineTo(float32(e.X-nx), float32(e.Y-ny))
		z.LineTo(float32(a.X-nx), float32(a.Y-ny))
		z.ClosePath()
	}
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// mark draws a diamond centred on (x, y).
func mark(dst *image.RGBA, x, y, r float64, c color.RGBA) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(x), float32(y-r))
	z.LineTo(float32(x+r), float32(y))
	z.LineTo(float32(x), float32(y+r))
	z.LineTo(float32(x-r), float32(y))
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}
