package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/safezone/internal/boundary"
)

func newBoundaryCmd(a *app) *cobra.Command {
	var (
		pf     paramFlags
		format string
		points bool
	)

	cmd := &cobra.Command{
		Use:   "boundary",
		Short: "Calculate the safe-region boundaries for a hue",
		Long: `Calculate the lower and upper boundaries of the contrast-safe region for one
hue against a background colour.

Examples:
  # Boundaries for pure red text on white at WCAG AA
  safezone boundary --hue 0 --background "#fff"

  # Large text at AAA on a dark background, HSB plane, as JSON
  safezone boundary --hue 210 -b "#1e1e2e" --level AAA --element large --space hsb -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := pf.raw(a)
			if err != nil {
				return err
			}
			res, err := boundary.Calculate(raw)
			if err != nil {
				return err
			}
			a.logger.Debug("calculated boundaries", "lower", res.Lower != nil, "upper", res.Upper != nil)

			out := cmd.OutOrStdout()
			f, err := resolveFormat(format, out)
			if err != nil {
				return err
			}
			if f == formatJSON {
				return writeJSON(out, res)
			}
			return writeResultTable(out, res, points)
		},
	}

	addParamFlags(cmd, &pf)
	cmd.Flags().StringVarP(&format, "format", "f", "auto", "output format (auto, table, json)")
	cmd.Flags().BoolVar(&points, "points", false, "list the simplified key points of each boundary")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeResultTable(w io.Writer, res *boundary.Result, points bool) error {
	summary := NewTable("BOUNDARY", "POINTS", "KEY POINTS", "SEGMENTS", "Y RANGE").AlignRight(1, 2, 3)
	named := []struct {
		name string
		info *boundary.Info
	}{
		{"lower", res.Lower},
		{"upper", res.Upper},
	}
	for _, n := range named {
		if n.info == nil {
			summary.AddRow(n.name, "-", "-", "-", "none")
			continue
		}
		lo, hi := yRange(n.info.SimplifiedPoints)
		summary.AddRow(n.name,
			strconv.Itoa(len(n.info.Points)),
			strconv.Itoa(len(n.info.SimplifiedPoints)),
			strconv.Itoa(len(n.info.Segments)),
			fmt.Sprintf("%s..%s", formatFloat(lo), formatFloat(hi)),
		)
	}
	if _, err := fmt.Fprintf(w, "threshold %s:1\n\n", formatFloat(res.Threshold)); err != nil {
		return err
	}
	if err := summary.Write(w); err != nil {
		return err
	}

	if !points {
		return nil
	}
	for _, n := range named {
		if n.info == nil {
			continue
		}
		t := NewTable("#", "X", "Y").AlignRight(0, 1, 2)
		for i, p := range n.info.SimplifiedPoints {
			t.AddRow(strconv.Itoa(i), formatFloat(p.X), formatFloat(p.Y))
		}
		if _, err := fmt.Fprintf(w, "\n%s key points\n", n.name); err != nil {
			return err
		}
		if err := t.Write(w); err != nil {
			return err
		}
	}
	return nil
}

func yRange(pts []boundary.Point) (lo, hi float64) {
	for i, p := range pts {
		if i == 0 || p.Y < lo {
			lo = p.Y
		}
		if i == 0 || p.Y > hi {
			hi = p.Y
		}
	}
	return lo, hi
}
