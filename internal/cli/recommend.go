package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/safezone/internal/boundary"
)

// recommendation is the output of the recommend command.
type recommendation struct {
	Current        boundary.Point             `json:"current"`
	CurrentColour  string                     `json:"currentColour"`
	Safe           bool                       `json:"safe"`
	Recommendation *boundary.RecommendedPoint `json:"recommendation,omitempty"`
	Colour         string                     `json:"colour,omitempty"`
}

func newRecommendCmd(a *app) *cobra.Command {
	var (
		pf     paramFlags
		format string
		s, l   float64
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest the nearest safe colour for a picker position",
		Long: `Check whether the colour at a picker position meets the contrast threshold and,
if it does not, suggest the nearest point just inside the safe region.

The position is given as saturation (--s) and lightness or brightness (--l),
both in the range 0-1.

Examples:
  # Is a light pastel red readable on white?
  safezone recommend --hue 0 --s 0.6 --l 0.8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if math.IsNaN(s) || math.IsNaN(l) || s < 0 || s > 1 || l < 0 || l > 1 {
				return fmt.Errorf("--s and --l must be between 0 and 1")
			}
			raw, err := pf.raw(a)
			if err != nil {
				return err
			}
			p, err := raw.Quantize()
			if err != nil {
				return err
			}
			res := boundary.CalculateParams(p)

			cx, cy := s*float64(p.Width), (1-l)*float64(p.Height)
			out := recommendation{
				Current:       boundary.Point{X: cx, Y: cy},
				CurrentColour: p.Foreground(s, l).Hex(),
				Safe:          boundary.IsSafe(res, cx, cy),
			}
			if res.Lower == nil && res.Upper == nil {
				// No transition in frame: the whole plane is one or the other.
				out.Safe = p.Safe(cx, cy)
			}
			if !out.Safe {
				rp := boundary.Recommend(res, cx, cy, p.Width, p.Height, a.cfg.Recommend.SafetyMargin)
				if rp != nil {
					out.Recommendation = rp
					out.Colour = p.Foreground(rp.SLX, rp.SLY).Hex()
				}
			}
			a.logger.Debug("recommendation", "safe", out.Safe, "found", out.Recommendation != nil)

			w := cmd.OutOrStdout()
			f, err := resolveFormat(format, w)
			if err != nil {
				return err
			}
			if f == formatJSON {
				return writeJSON(w, out)
			}

			t := NewTable("", "X", "Y", "S", "L", "COLOUR").AlignRight(1, 2, 3, 4)
			t.AddRow("current", fmtPx(cx), fmtPx(cy), fmtUnit(s), fmtUnit(l), out.CurrentColour)
			switch {
			case out.Safe:
				t.AddRow("status", "", "", "", "", "safe")
			case out.Recommendation == nil:
				t.AddRow("status", "", "", "", "", "no safe colour nearby")
			default:
				rp := out.Recommendation
				t.AddRow("suggested", fmtPx(rp.X), fmtPx(rp.Y), fmtUnit(rp.SLX), fmtUnit(rp.SLY), out.Colour)
			}
			return t.Write(w)
		},
	}

	addParamFlags(cmd, &pf)
	cmd.Flags().Float64Var(&s, "s", 0.5, "saturation of the picker position (0-1)")
	cmd.Flags().Float64Var(&l, "l", 0.5, "lightness or brightness of the picker position (0-1)")
	cmd.Flags().Float64("margin", 3, "distance in pixels to keep from the boundary")
	cmd.Flags().StringVarP(&format, "format", "f", "auto", "output format (auto, table, json)")
	return cmd
}

func fmtPx(v float64) string   { return fmt.Sprintf("%.1f", v) }
func fmtUnit(v float64) string { return fmt.Sprintf("%.3f", v) }
