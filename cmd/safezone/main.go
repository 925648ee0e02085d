// safezone - contrast-safe region boundaries for colour pickers
//
// safezone samples a hue's saturation/lightness plane against a background
// colour and traces the curves that separate WCAG-compliant colours from the
// rest.
package main

import (
	"os"

	"github.com/jmylchreest/safezone/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
