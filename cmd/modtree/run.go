package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-modtree/host"
)

// spectralCounter counts evaluator failures absorbed by spectral modulators.
// Trees tick on separate goroutines, so it is updated atomically.
type spectralCounter struct {
	failures atomic.Uint64
}

func (c *spectralCounter) record(error) {
	c.failures.Add(1)
}

type runOptions struct {
	blocks      int
	final       bool
	interval    time.Duration
	checkBounds bool
	metricsAddr string
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <layout.yaml>",
		Short: "Tick every tree of a layout and print the values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runLayout(ctx, cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.blocks, "blocks", "n", 16, "Number of blocks to tick (0 runs until interrupted)")
	cmd.Flags().BoolVar(&opts.final, "final", false, "Print only the values after the last block")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Wall-clock time between blocks")
	cmd.Flags().BoolVar(&opts.checkBounds, "check-bounds", true, "Warn about nodes outside their bounds after each block")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	return cmd
}

func runLayout(ctx context.Context, cmd *cobra.Command, path string, opts runOptions) error {
	logger, err := loggerFor(cmd)
	if err != nil {
		return err
	}

	if opts.blocks <= 0 && !opts.final && opts.interval <= 0 {
		return errors.New("--blocks 0 needs --interval or --final")
	}

	lf, err := loadLayoutFile(path)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()

	metrics, err := host.NewMetrics(reg)
	if err != nil {
		return err
	}

	bankOpts := []host.Option{host.WithLogger(logger), host.WithMetrics(metrics)}
	if opts.checkBounds {
		bankOpts = append(bankOpts, host.WithBoundsCheck())
	}

	bank, counter, err := buildBank(lf, bankOpts...)
	if err != nil {
		return err
	}

	defer func() {
		if err := bank.Release(); err != nil {
			logger.Error("release failed", "error", err)
		}
	}()

	if opts.metricsAddr != "" {
		srv := &http.Server{Addr: opts.metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			logger.Info("serving metrics", "addr", opts.metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer srv.Close()
	}

	out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(out, "BLOCK\tTREE\tPATH\tCURRENT\tMIN\tMAX")

	onBlock := func(block int) {
		if !opts.final {
			printBank(out, bank, block)
			if err := out.Flush(); err != nil {
				logger.Error("write failed", "error", err)
			}
		}

		if opts.interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(opts.interval):
			}
		}
	}

	err = bank.Run(ctx, opts.blocks, onBlock)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if opts.final && bank.Blocks() > 0 {
		printBank(out, bank, int(bank.Blocks())-1)
	}

	if err := out.Flush(); err != nil {
		return err
	}

	logger.Info("run finished", "blocks", bank.Blocks(), "evaluator_failures", counter.failures.Load())

	return nil
}

func printBank(w io.Writer, bank *host.Bank[float64], block int) {
	for _, name := range bank.Names() {
		root, _ := bank.Get(name)
		for _, e := range host.Flatten(root) {
			env := e.Node.Value()
			fmt.Fprintf(w, "%d\t%s\t%s\t%.6g\t%g\t%g\n", block, name, e.Path, env.Current, env.Min, env.Max)
		}
	}
}
