package cli

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/safezone/internal/worker"
)

// workerCmdName is the hidden subcommand the isolated worker is started with.
const workerCmdName = "worker"

func newWorkerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:    workerCmdName,
		Short:  "Serve boundary calculations to a parent safezone process",
		Hidden: true,
		Args:   cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			// The host parses JSON log lines from our stderr and re-emits them.
			logger := hclog.New(&hclog.LoggerOptions{
				Name:       "worker",
				Level:      a.logger.GetLevel(),
				Output:     os.Stderr,
				JSONFormat: true,
			})
			worker.Serve(logger, a.cfg.Worker.CacheSize)
		},
	}
	cmd.Flags().Int("cache-size", worker.DefaultCacheSize, "number of results to cache")
	return cmd
}
