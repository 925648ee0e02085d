package colour

import "math"

// HSLToRGB converts HSL to RGB colour space.
// h is hue in degrees (wrapped into [0, 360)), s is saturation (0-1) and l is
// lightness (0-1). Channels are rounded, so integer hues give identical
// results on every call.
func HSLToRGB(h, s, l float64) RGB {
	s = clamp01(s)
	l = clamp01(l)

	if s == 0 {
		// Achromatic (grey).
		v := toByte(l)
		return RGB{R: v, G: v, B: v}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	h = wrapHue(h)
	return RGB{
		R: toByte(hueToRGB(p, q, h+120)),
		G: toByte(hueToRGB(p, q, h)),
		B: toByte(hueToRGB(p, q, h-120)),
	}
}

// HSVToRGB converts HSV (also called HSB) to RGB colour space.
// h is hue in degrees, s is saturation (0-1) and v is value/brightness (0-1).
func HSVToRGB(h, s, v float64) RGB {
	s = clamp01(s)
	v = clamp01(v)

	if s == 0 {
		g := toByte(v)
		return RGB{R: g, G: g, B: g}
	}

	h = wrapHue(h) / 60
	sector := math.Floor(h)
	f := h - sector
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch int(sector) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return RGB{R: toByte(r), G: toByte(g), B: toByte(b)}
}

// hueToRGB is a helper for HSL to RGB conversion.
func hueToRGB(p, q, t float64) float64 {
	t = wrapHue(t)

	if t < 60 {
		return p + (q-p)*t/60
	}
	if t < 180 {
		return q
	}
	if t < 240 {
		return p + (q-p)*(240-t)/60
	}
	return p
}

// wrapHue normalises a hue into [0, 360).
func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
