package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/pkoval/sdelab/internal/brownian"
	"github.com/pkoval/sdelab/internal/compute"
	"github.com/pkoval/sdelab/internal/config"
	"github.com/pkoval/sdelab/internal/inspect"
	"github.com/pkoval/sdelab/internal/problems"
	"github.com/pkoval/sdelab/internal/sde"
	"github.com/pkoval/sdelab/internal/solvers"
	"github.com/pkoval/sdelab/internal/viz"
)

var (
	noGPU      bool
	configFile string
	outDir     string
	seed       uint64
	verbose    bool
	// Live view parameters
	liveMethod string
	liveDt     float64
)

// main registers the diagnostic commands; the root command runs the
// full diagnostic (sample paths, then strong order).
func main() {
	rootCmd := &cobra.Command{
		Use:   "sdelab",
		Short: "empirical diagnostics for SDE solvers",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := r.Sample(cmd.Context()); err != nil {
				return err
			}
			_, err = r.StrongOrder(cmd.Context())
			return err
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noGPU, "no-gpu", false, "force computation onto the CPU")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "experiment config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", config.DefaultOutDir, "plot output directory")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "plot sample paths of every scheme against the analytical solution",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(cmd)
			if err != nil {
				return err
			}
			return r.Sample(cmd.Context())
		},
	}

	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "estimate empirical strong convergence order per scheme",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(cmd)
			if err != nil {
				return err
			}
			_, err = r.StrongOrder(cmd.Context())
			return err
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch one sample path evolve against the analytical solution",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&liveMethod, "method", "midpoint", "integration scheme")
	liveCmd.Flags().Float64Var(&liveDt, "dt", 0.02, "timestep")

	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "list compute backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BACKEND\tAVAILABLE")
			for _, b := range compute.All() {
				fmt.Fprintf(w, "%s\t%v\n", b.Name(), b.Available())
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(sampleCmd, orderCmd, liveCmd, backendsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup resolves config, logging, and the compute device for a run.
// The backend and logger are chosen here, once, and threaded through
// explicitly.
func setup(cmd *cobra.Command) (*inspect.Runner, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger()
	backend := compute.Select(noGPU)
	logger.Debug("compute device selected", "backend", backend.Name())
	return inspect.New(cfg, backend, logger), nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	// CLI flags override the file.
	if cmd.Flags().Changed("out") {
		cfg.OutDir = outDir
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, cfg.Validate()
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	stepper, err := solvers.Get(liveMethod)
	if err != nil {
		return err
	}
	backend := compute.Select(noGPU)

	src := rand.NewSource(cfg.Seed)
	itoSys := problems.NewSineCosine(1, sde.Ito, backend, src)
	sys := itoSys
	if stepper.Calculus() == sde.Stratonovich {
		sys = problems.NewSineCosine(1, sde.Stratonovich, backend, src)
		_ = sys.SetParam("p", itoSys.GetParams()["p"])
	}

	bm, err := brownian.NewInterval(cfg.Sample.T0, cfg.Sample.T1, 1, 1, cfg.Seed)
	if err != nil {
		return err
	}
	return viz.Run(viz.New(sys, stepper, bm, liveDt))
}
