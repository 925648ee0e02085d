package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/safezone/internal/boundary"
	"github.com/jmylchreest/safezone/internal/colour"
)

// paramFlags are the sample parameter flags shared by the calculation
// commands. Canvas size and WCAG selection come from the config, which these
// flags are bound into.
type paramFlags struct {
	hue        float64
	background string
	alpha      float64
	space      string
	threshold  float64
}

func addParamFlags(cmd *cobra.Command, pf *paramFlags) {
	f := cmd.Flags()
	f.Float64Var(&pf.hue, "hue", 0, "hue in degrees")
	f.StringVarP(&pf.background, "background", "b", "#ffffff", "background colour (#rgb or #rrggbb)")
	f.Float64VarP(&pf.alpha, "alpha", "a", 1, "foreground alpha (0-1)")
	f.StringVar(&pf.space, "space", "hsl", "colour space of the plane (hsl, hsb)")
	f.Float64Var(&pf.threshold, "threshold", 0, "contrast ratio threshold (default: from --level/--category/--element)")
	f.Int("width", 240, "canvas width in pixels")
	f.Int("height", 240, "canvas height in pixels")
	f.String("level", "AA", "WCAG level (AA, AAA)")
	f.String("category", "text", "content category (text, graphics)")
	f.String("element", "normal", "text element size (normal, large)")
}

// raw builds the sample parameters from the flags and the loaded config.
func (pf *paramFlags) raw(a *app) (boundary.RawParams, error) {
	bg, err := colour.ParseHex(pf.background)
	if err != nil {
		return boundary.RawParams{}, fmt.Errorf("invalid background: %w", err)
	}
	space, err := boundary.ParseColorSpace(pf.space)
	if err != nil {
		return boundary.RawParams{}, err
	}

	threshold := pf.threshold
	if threshold == 0 {
		if threshold, err = a.cfg.Threshold(); err != nil {
			return boundary.RawParams{}, err
		}
	}

	return boundary.RawParams{
		Width:      float64(a.cfg.Canvas.Width),
		Height:     float64(a.cfg.Canvas.Height),
		Hue:        pf.hue,
		Background: bg,
		Alpha:      pf.alpha,
		Threshold:  threshold,
		ColorSpace: space,
	}, nil
}

const (
	formatTable = "table"
	formatJSON  = "json"
)

var errUnknownFormat = errors.New("unknown output format")

// resolveFormat picks table output for terminals and JSON otherwise, unless
// the user asked for one.
func resolveFormat(format string, w io.Writer) (string, error) {
	switch format {
	case formatTable, formatJSON:
		return format, nil
	case "", "auto":
		if isTerminal(w) {
			return formatTable, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s (valid: auto, table, json)", errUnknownFormat, format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
