package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/jmylchreest/safezone/internal/boundary"
	"github.com/jmylchreest/safezone/internal/colour"
)

func params(t *testing.T) boundary.Params {
	t.Helper()
	p, err := boundary.RawParams{
		Width: 60, Height: 40, Hue: 0,
		Background: colour.White, Alpha: 1, Threshold: 4.5, ColorSpace: boundary.HSL,
	}.Quantize()
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRenderPlane(t *testing.T) {
	p := params(t)
	img := Render(p, nil, Options{})

	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 40 {
		t.Fatalf("bounds = %v, want 60x40", b)
	}
	want := p.At(10.5, 5.5)
	got := img.RGBAAt(10, 5)
	if got != (color.RGBA{R: want.R, G: want.G, B: want.B, A: 255}) {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestRenderScale(t *testing.T) {
	p := params(t)
	img := Render(p, nil, Options{Scale: 3})
	if b := img.Bounds(); b.Dx() != 180 || b.Dy() != 120 {
		t.Fatalf("bounds = %v, want 180x120", b)
	}
	if img.RGBAAt(30, 15) != img.RGBAAt(31, 16) {
		t.Error("pixels within one scaled cell differ")
	}
}

func TestRenderShadeUnsafe(t *testing.T) {
	p := params(t)
	plain := Render(p, nil, Options{})
	shaded := Render(p, nil, Options{ShadeUnsafe: true})

	// Near white fails against a white background; near black passes.
	if !p.Safe(0.5, 39.5) {
		t.Fatal("expected the bottom row to be safe")
	}
	if p.Safe(0.5, 0.5) {
		t.Fatal("expected the top row to be unsafe")
	}
	if shaded.RGBAAt(0, 0) == plain.RGBAAt(0, 0) {
		t.Error("unsafe pixel was not shaded")
	}
	if shaded.RGBAAt(0, 39) != plain.RGBAAt(0, 39) {
		t.Error("safe pixel was shaded")
	}
}

func TestRenderBoundaryAndMarkers(t *testing.T) {
	p := params(t)
	res := &boundary.Result{Lower: boundary.BottomLine(60, 20)}
	plain := Render(p, nil, Options{})
	img := Render(p, res, Options{
		Current:        &boundary.Point{X: 10, Y: 10},
		Recommendation: &boundary.RecommendedPoint{X: 40, Y: 30},
	})

	if img.RGBAAt(30, 20) == plain.RGBAAt(30, 20) {
		t.Error("boundary line not drawn")
	}
	if img.RGBAAt(10, 10) != currentColour {
		t.Errorf("current marker = %v, want %v", img.RGBAAt(10, 10), currentColour)
	}
	if img.RGBAAt(40, 30) != markerColour {
		t.Errorf("recommendation marker = %v, want %v", img.RGBAAt(40, 30), markerColour)
	}
}

func TestWritePNG(t *testing.T) {
	img := Render(params(t), nil, Options{})
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
}
