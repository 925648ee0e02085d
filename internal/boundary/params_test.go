package boundary

import (
	"errors"
	"math"
	"testing"

	"github.com/jmylchreest/safezone/internal/colour"
)

func TestQuantize(t *testing.T) {
	base := RawParams{Width: 240, Height: 240, Background: colour.White, Alpha: 1, Threshold: 4.5}

	tests := []struct {
		name   string
		modify func(*RawParams)
		check  func(t *testing.T, p Params)
	}{
		{
			name:   "hue rounds up and wraps",
			modify: func(r *RawParams) { r.Hue = 359.6 },
			check: func(t *testing.T, p Params) {
				if p.Hue != 0 {
					t.Errorf("Hue = %d, want 0", p.Hue)
				}
			},
		},
		{
			name:   "negative hue wraps",
			modify: func(r *RawParams) { r.Hue = -30.2 },
			check: func(t *testing.T, p Params) {
				if p.Hue != 330 {
					t.Errorf("Hue = %d, want 330", p.Hue)
				}
			},
		},
		{
			name:   "negative half hue rounds up",
			modify: func(r *RawParams) { r.Hue = -0.5 },
			check: func(t *testing.T, p Params) {
				if p.Hue != 0 {
					t.Errorf("Hue = %d, want 0", p.Hue)
				}
			},
		},
		{
			name:   "negative hue half rounds towards zero",
			modify: func(r *RawParams) { r.Hue = -1.5 },
			check: func(t *testing.T, p Params) {
				if p.Hue != 359 {
					t.Errorf("Hue = %d, want 359", p.Hue)
				}
			},
		},
		{
			name:   "hue beyond a full turn",
			modify: func(r *RawParams) { r.Hue = 720.4 },
			check: func(t *testing.T, p Params) {
				if p.Hue != 0 {
					t.Errorf("Hue = %d, want 0", p.Hue)
				}
			},
		},
		{
			name:   "alpha rounds to two decimals",
			modify: func(r *RawParams) { r.Alpha = 0.456 },
			check: func(t *testing.T, p Params) {
				if p.Alpha != 0.46 {
					t.Errorf("Alpha = %v, want 0.46", p.Alpha)
				}
			},
		},
		{
			name:   "alpha clamps",
			modify: func(r *RawParams) { r.Alpha = 1.7 },
			check: func(t *testing.T, p Params) {
				if p.Alpha != 1 {
					t.Errorf("Alpha = %v, want 1", p.Alpha)
				}
			},
		},
		{
			name:   "size rounds and stays positive",
			modify: func(r *RawParams) { r.Width, r.Height = 239.6, -4 },
			check: func(t *testing.T, p Params) {
				if p.Width != 240 || p.Height != 1 {
					t.Errorf("size = %dx%d, want 240x1", p.Width, p.Height)
				}
			},
		},
		{
			name:   "empty colour space defaults to hsl",
			modify: func(r *RawParams) {},
			check: func(t *testing.T, p Params) {
				if p.ColorSpace != HSL {
					t.Errorf("ColorSpace = %q, want hsl", p.ColorSpace)
				}
			},
		},
		{
			name:   "hsv alias",
			modify: func(r *RawParams) { r.ColorSpace = "HSV" },
			check: func(t *testing.T, p Params) {
				if p.ColorSpace != HSB {
					t.Errorf("ColorSpace = %q, want hsb", p.ColorSpace)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base
			tt.modify(&raw)
			p, err := raw.Quantize()
			if err != nil {
				t.Fatalf("Quantize() error = %v", err)
			}
			tt.check(t, p)
		})
	}
}

func TestQuantizeRejects(t *testing.T) {
	base := RawParams{Width: 240, Height: 240, Background: colour.White, Alpha: 1, Threshold: 4.5}

	tests := []struct {
		name   string
		modify func(*RawParams)
	}{
		{name: "zero threshold", modify: func(r *RawParams) { r.Threshold = 0 }},
		{name: "NaN hue", modify: func(r *RawParams) { r.Hue = math.NaN() }},
		{name: "infinite width", modify: func(r *RawParams) { r.Width = math.Inf(1) }},
		{name: "NaN alpha", modify: func(r *RawParams) { r.Alpha = math.NaN() }},
		{name: "unknown space", modify: func(r *RawParams) { r.ColorSpace = "lab" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base
			tt.modify(&raw)
			if _, err := raw.Quantize(); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Quantize() error = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestParamsKey(t *testing.T) {
	a, _ := RawParams{Width: 240, Height: 240, Hue: 10.2, Alpha: 0.501, Threshold: 4.5}.Quantize()
	b, _ := RawParams{Width: 240.4, Height: 239.6, Hue: 9.8, Alpha: 0.499, Threshold: 4.5}.Quantize()
	if a.Key() != b.Key() {
		t.Errorf("equivalent params have different keys: %q vs %q", a.Key(), b.Key())
	}

	c, _ := RawParams{Width: 240, Height: 240, Hue: 11, Alpha: 0.5, Threshold: 4.5}.Quantize()
	if a.Key() == c.Key() {
		t.Errorf("different hues share key %q", a.Key())
	}
}

func TestNormalize(t *testing.T) {
	p := Params{Width: 200, Height: 100}
	s, l := p.Normalize(50, 25)
	if s != 0.25 || l != 0.75 {
		t.Errorf("Normalize(50, 25) = (%v, %v), want (0.25, 0.75)", s, l)
	}
	s, l = p.Normalize(-10, 300)
	if s != 0 || l != 0 {
		t.Errorf("Normalize should clamp, got (%v, %v)", s, l)
	}
}
