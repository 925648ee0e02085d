package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/safezone/internal/boundary"
	"github.com/jmylchreest/safezone/internal/coordinator"
	"github.com/jmylchreest/safezone/internal/worker"
)

// watchLine is one applied update, written as a JSON line.
type watchLine struct {
	ID        uint64           `json:"id"`
	Key       string           `json:"key"`
	ElapsedMS float64          `json:"elapsedMs"`
	Lower     bool             `json:"lower"`
	Upper     bool             `json:"upper"`
	Result    *boundary.Result `json:"result,omitempty"`
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		pf      paramFlags
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recalculate boundaries for a stream of parameter changes",
		Long: `Read newline-delimited JSON parameter changes from stdin and recalculate the
boundaries as a colour picker would: changes are throttled, at most one
calculation runs at a time, and results for superseded parameters are
discarded. Each applied result is written to stdout as one JSON line.

Each input line is merged over the previous parameters, starting from those
given by flags, so a line only needs the fields that changed:

  {"hue": 120}
  {"backgroundColor": {"r": 30, "g": 30, "b": 46}, "foregroundAlpha": 0.8}

With --isolated the calculations run in a separate worker process.

Examples:
  printf '{"hue":0}\n{"hue":30}\n{"hue":60}\n' | safezone watch --summary
  picker-events | safezone watch --isolated --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := pf.raw(a)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			logger := a.logger.Named("coordinator")
			transport, err := a.newTransport()
			if err != nil {
				return err
			}
			defer transport.Close()

			var metrics *coordinator.Metrics
			if addr := a.cfg.Metrics.Address; addr != "" {
				reg := prometheus.NewRegistry()
				metrics = coordinator.NewMetrics(reg)
				srv := serveMetrics(addr, reg, a.logger)
				defer srv.Close()
			}

			c := coordinator.New(transport, coordinator.Options{
				Throttle: a.cfg.Coordinator.Throttle,
				Timeout:  a.cfg.Coordinator.Timeout,
				Logger:   logger,
				Metrics:  metrics,
			})

			return runWatch(ctx, c, base, cmd.InOrStdin(), cmd.OutOrStdout(), !summary, a.cfg.Coordinator.Timeout, a.logger)
		},
	}

	addParamFlags(cmd, &pf)
	cmd.Flags().BoolVar(&summary, "summary", false, "omit the boundary geometry from the output")
	cmd.Flags().Bool("isolated", false, "run calculations in a separate worker process")
	cmd.Flags().Int("cache-size", worker.DefaultCacheSize, "number of results the worker caches")
	cmd.Flags().Duration("throttle", coordinator.DefaultThrottle, "minimum time between dispatched calculations")
	cmd.Flags().Duration("timeout", coordinator.DefaultTimeout, "time after which a calculation is abandoned")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}

func (a *app) newTransport() (coordinator.Transport, error) {
	logger := a.logger.Named("worker")
	if !a.cfg.Worker.Isolated {
		return worker.NewLocal(logger, a.cfg.Worker.CacheSize), nil
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	args := []string{workerCmdName, "--cache-size", fmt.Sprint(a.cfg.Worker.CacheSize)}
	if a.verbose {
		args = append(args, "--verbose")
	}
	return worker.NewProcess(worker.ProcessConfig{
		Path:   exe,
		Args:   args,
		Logger: logger,
	}), nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger hclog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
	logger.Info("serving metrics", "address", addr)
	return srv
}

// runWatch feeds parameter lines from in to c and writes applied results to
// out. After in is exhausted it waits for the result of the last line, up to
// one calculation timeout plus slack, then returns.
func runWatch(ctx context.Context, c *coordinator.Coordinator, base boundary.RawParams, in io.Reader, out io.Writer, full bool, timeout time.Duration, logger hclog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(ctx) }()

	lastKey := make(chan string, 1)
	go func() {
		key, err := feed(c, base, in, logger)
		if err != nil {
			logger.Error("reading parameters", "error", err)
		}
		lastKey <- key
	}()

	enc := json.NewEncoder(out)
	var written uint64
	write := func(u coordinator.Update) error {
		line := watchLine{
			ID:        u.RequestID,
			Key:       u.Key,
			ElapsedMS: float64(u.Elapsed.Microseconds()) / 1000,
		}
		if u.Result != nil {
			line.Lower = u.Result.Lower != nil
			line.Upper = u.Result.Upper != nil
			if full {
				line.Result = u.Result
			}
		}
		written = u.RequestID
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		return nil
	}

	var (
		want     string
		eof      bool
		deadline <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-runErr:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err

		case want = <-lastKey:
			eof = true
			if want == "" {
				return nil
			}
			// The final result may already have been applied.
			if u, err := c.Latest(); err == nil && u.Key == want {
				if u.RequestID == written {
					return nil
				}
				return write(u)
			}
			deadline = time.After(timeout + time.Second)

		case <-deadline:
			logger.Warn("gave up waiting for the final result", "key", want)
			return nil

		case u := <-c.Results():
			if u.RequestID == written {
				continue
			}
			if err := write(u); err != nil {
				return err
			}
			if eof && u.Key == want {
				return nil
			}
		}
	}
}

// feed decodes each line over base and hands it to the coordinator. It
// returns the key of the last valid parameters.
func feed(c *coordinator.Coordinator, base boundary.RawParams, in io.Reader, logger hclog.Logger) (string, error) {
	var last string
	sc := bufio.NewScanner(in)
	n := 0
	for sc.Scan() {
		n++
		text := sc.Bytes()
		if len(text) == 0 {
			continue
		}
		p := base
		if err := json.Unmarshal(text, &p); err != nil {
			logger.Warn("skipping invalid line", "line", n, "error", err)
			continue
		}
		q, err := p.Quantize()
		if err != nil {
			logger.Warn("skipping invalid parameters", "line", n, "error", err)
			continue
		}
		base = p
		last = q.Key()
		c.SetParams(p)
	}
	return last, sc.Err()
}
