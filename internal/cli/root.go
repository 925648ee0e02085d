// Package cli provides the command-line interface for safezone.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/safezone/internal/config"
	"github.com/jmylchreest/safezone/internal/version"
)

// app carries what PersistentPreRunE prepares for the subcommands.
type app struct {
	configPath string
	verbose    bool
	quiet      bool

	cfg    *config.Config
	logger hclog.Logger
}

// flagKeys maps config keys to the flag names that may override them. Only
// flags defined on the running command are bound.
var flagKeys = map[string]string{
	"canvas.width":            "width",
	"canvas.height":           "height",
	"coordinator.throttle":    "throttle",
	"coordinator.timeout":     "timeout",
	"recommend.safety_margin": "margin",
	"wcag.level":              "level",
	"wcag.category":           "category",
	"wcag.element":            "element",
	"worker.isolated":         "isolated",
	"worker.cache_size":       "cache-size",
	"log.level":               "log-level",
	"log.json":                "log-json",
	"metrics.address":         "metrics-addr",
}

// NewRootCmd builds the safezone command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "safezone",
		Short: "Contrast-safe region boundaries for colour pickers",
		Long: `safezone samples the saturation/lightness (or saturation/brightness) plane
of a hue against a background colour and traces the boundaries of the region
whose colours meet a WCAG contrast threshold.

The boundaries are returned as simplified key points and cubic Bézier
segments, ready to be drawn over a colour picker. safezone can also suggest
the nearest safe colour for a picker position, render the plane to PNG, and
drive a throttled recalculation loop from a stream of parameter changes.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ./safezone.yaml or $XDG_CONFIG_HOME/safezone/safezone.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "log in JSON format")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newBoundaryCmd(a))
	rootCmd.AddCommand(newRecommendCmd(a))
	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newWorkerCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	flags := make(map[string]*pflag.Flag)
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			flags[key] = f
		}
	}

	cfg, err := config.Load(config.Options{Path: a.configPath, Flags: flags})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cfg.Log, a.verbose, a.quiet, cmd.ErrOrStderr())
	a.logger.Debug("configuration loaded",
		"canvas", fmt.Sprintf("%dx%d", cfg.Canvas.Width, cfg.Canvas.Height),
		"throttle", cfg.Coordinator.Throttle,
		"timeout", cfg.Coordinator.Timeout,
	)
	return nil
}

// newLogger builds the process logger. --verbose and --quiet take precedence
// over the configured level.
func newLogger(cfg config.LogConfig, verbose, quiet bool, w io.Writer) hclog.Logger {
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	switch {
	case verbose:
		level = hclog.Debug
	case quiet:
		level = hclog.Error
	}
	if w == nil {
		w = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "safezone",
		Level:      level,
		Output:     w,
		JSONFormat: cfg.JSON,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
