package colour

import (
	"image/color"
	"math"
	"testing"
)

func TestToRGB(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  RGB
	}{
		{
			name:  "red",
			color: color.RGBA{R: 255, G: 0, B: 0, A: 255},
			want:  RGB{R: 255, G: 0, B: 0},
		},
		{
			name:  "white",
			color: color.RGBA{R: 255, G: 255, B: 255, A: 255},
			want:  White,
		},
		{
			name:  "round trip through RGBA",
			color: RGB{R: 18, G: 52, B: 86},
			want:  RGB{R: 18, G: 52, B: 86},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB(tt.color); got != tt.want {
				t.Errorf("ToRGB() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    RGB
		wantErr bool
	}{
		{name: "long form", in: "#1a2b3c", want: RGB{R: 0x1a, G: 0x2b, B: 0x3c}},
		{name: "no hash", in: "ff0000", want: RGB{R: 255}},
		{name: "short form", in: "#fff", want: White},
		{name: "whitespace", in: "  #000000 ", want: Black},
		{name: "bad length", in: "#abcd", wantErr: true},
		{name: "bad digits", in: "#zzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHSLToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		want    RGB
	}{
		{name: "red", h: 0, s: 1, l: 0.5, want: RGB{R: 255}},
		{name: "green", h: 120, s: 1, l: 0.5, want: RGB{G: 255}},
		{name: "blue", h: 240, s: 1, l: 0.5, want: RGB{B: 255}},
		{name: "hue wraps", h: 360, s: 1, l: 0.5, want: RGB{R: 255}},
		{name: "negative hue wraps", h: -120, s: 1, l: 0.5, want: RGB{B: 255}},
		{name: "black", h: 200, s: 1, l: 0, want: Black},
		{name: "white", h: 200, s: 1, l: 1, want: White},
		{name: "grey rounds", h: 0, s: 0, l: 0.5, want: RGB{R: 128, G: 128, B: 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HSLToRGB(tt.h, tt.s, tt.l); got != tt.want {
				t.Errorf("HSLToRGB(%v, %v, %v) = %+v, want %+v", tt.h, tt.s, tt.l, got, tt.want)
			}
		})
	}
}

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, v float64
		want    RGB
	}{
		{name: "red", h: 0, s: 1, v: 1, want: RGB{R: 255}},
		{name: "yellow", h: 60, s: 1, v: 1, want: RGB{R: 255, G: 255}},
		{name: "green", h: 120, s: 1, v: 1, want: RGB{G: 255}},
		{name: "blue", h: 240, s: 1, v: 1, want: RGB{B: 255}},
		{name: "magenta", h: 300, s: 1, v: 1, want: RGB{R: 255, B: 255}},
		{name: "zero value is black", h: 90, s: 1, v: 0, want: Black},
		{name: "zero saturation is grey", h: 90, s: 0, v: 1, want: White},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HSVToRGB(tt.h, tt.s, tt.v); got != tt.want {
				t.Errorf("HSVToRGB(%v, %v, %v) = %+v, want %+v", tt.h, tt.s, tt.v, got, tt.want)
			}
		})
	}
}

func TestContrastRatio(t *testing.T) {
	if got := ContrastRatio(White, Black); math.Abs(got-21) > 1e-9 {
		t.Errorf("ContrastRatio(white, black) = %v, want 21", got)
	}
	if got := ContrastRatio(Black, White); math.Abs(got-21) > 1e-9 {
		t.Errorf("ContrastRatio is not symmetric: got %v", got)
	}
	if got := ContrastRatio(White, White); got != 1 {
		t.Errorf("ContrastRatio(white, white) = %v, want 1", got)
	}
}

func TestComposite(t *testing.T) {
	tests := []struct {
		name  string
		alpha float64
		want  RGB
	}{
		{name: "opaque", alpha: 1, want: Black},
		{name: "transparent", alpha: 0, want: White},
		{name: "half", alpha: 0.5, want: RGB{R: 128, G: 128, B: 128}},
		{name: "clamped above", alpha: 3, want: Black},
		{name: "clamped below", alpha: -1, want: White},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Composite(White, Black, tt.alpha); got != tt.want {
				t.Errorf("Composite(white, black, %v) = %+v, want %+v", tt.alpha, got, tt.want)
			}
		})
	}
}

func TestContrastRatioAlpha(t *testing.T) {
	if got := ContrastRatioAlpha(White, Black, 0); got != 1 {
		t.Errorf("fully transparent foreground should have ratio 1, got %v", got)
	}
	opaque := ContrastRatioAlpha(White, Black, 1)
	half := ContrastRatioAlpha(White, Black, 0.5)
	if half >= opaque {
		t.Errorf("translucent ratio %v should be below opaque ratio %v", half, opaque)
	}
}

func TestContrastThreshold(t *testing.T) {
	tests := []struct {
		level    Level
		category Category
		element  Element
		want     float64
		wantErr  bool
	}{
		{LevelAA, CategoryText, ElementNormal, 4.5, false},
		{LevelAA, CategoryText, ElementLarge, 3.0, false},
		{LevelAAA, CategoryText, ElementNormal, 7.0, false},
		{LevelAAA, CategoryText, ElementLarge, 4.5, false},
		{LevelAA, CategoryGraphics, ElementNormal, 3.0, false},
		{LevelAAA, CategoryGraphics, ElementLarge, 3.0, false},
		{Level("A"), CategoryText, ElementNormal, 0, true},
		{LevelAA, Category("audio"), ElementNormal, 0, true},
		{LevelAA, CategoryText, Element("huge"), 0, true},
	}

	for _, tt := range tests {
		name := string(tt.level) + "/" + string(tt.category) + "/" + string(tt.element)
		t.Run(name, func(t *testing.T) {
			got, err := ContrastThreshold(tt.level, tt.category, tt.element)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ContrastThreshold() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ContrastThreshold() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("aaa"); err != nil || l != LevelAAA {
		t.Errorf("ParseLevel(aaa) = %v, %v", l, err)
	}
	if _, err := ParseLevel("gold"); err == nil {
		t.Error("ParseLevel(gold) expected error")
	}
	if c, err := ParseCategory("ui"); err != nil || c != CategoryGraphics {
		t.Errorf("ParseCategory(ui) = %v, %v", c, err)
	}
	if e, err := ParseElement(""); err != nil || e != ElementNormal {
		t.Errorf("ParseElement(\"\") = %v, %v", e, err)
	}
}
