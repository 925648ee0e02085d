package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/safezone/internal/boundary"
	"github.com/jmylchreest/safezone/internal/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		pf     paramFlags
		output string
		scale  int
		shade  bool
		s, l   float64
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the colour plane and its boundaries to PNG",
		Long: `Render the sampled colour plane with the lower boundary in cyan and the upper
boundary in magenta. With --shade, colours that fail the threshold are dimmed.
Passing a picker position with --s and --l marks it in white and the suggested
safe point, if any, in green.

Examples:
  safezone render --hue 120 -b "#202020" --shade -o plane.png
  safezone render --hue 0 --s 0.6 --l 0.8 --scale 2 -o red.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := pf.raw(a)
			if err != nil {
				return err
			}
			p, err := raw.Quantize()
			if err != nil {
				return err
			}
			res := boundary.CalculateParams(p)

			opts := render.Options{Scale: scale, ShadeUnsafe: shade}
			if cmd.Flags().Changed("s") || cmd.Flags().Changed("l") {
				cx, cy := s*float64(p.Width), (1-l)*float64(p.Height)
				opts.Current = &boundary.Point{X: cx, Y: cy}
				opts.Recommendation = boundary.Recommend(res, cx, cy, p.Width, p.Height, a.cfg.Recommend.SafetyMargin)
			}

			img := render.Render(p, res, opts)

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			if err := render.WritePNG(f, img); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}

			a.logger.Info("rendered plane", "path", output, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
			return nil
		},
	}

	addParamFlags(cmd, &pf)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG file")
	cmd.Flags().IntVar(&scale, "scale", 1, "integer upscaling factor")
	cmd.Flags().BoolVar(&shade, "shade", false, "dim colours that fail the threshold")
	cmd.Flags().Float64Var(&s, "s", 0, "saturation of a picker position to mark (0-1)")
	cmd.Flags().Float64Var(&l, "l", 0, "lightness or brightness of a picker position to mark (0-1)")
	cmd.Flags().Float64("margin", 3, "distance in pixels to keep from the boundary")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
