package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/logging"
)

var (
	dataDir     string
	logLevel    string
	logJSON     bool
	metricsAddr string

	configFile string
	preset     string
	duration   float64
	dt         float64
	period     float64
	field      int
	snapTime   float64
	scale      int
	fps        int
	sweepParam string
	sweepVals  []float64
	sweepLimit int
	metricName string
	trials     int
	noise      float64
	seed       int64

	log = logging.Default()
)

// main wires the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "rdsim",
		Short:         "reaction-diffusion simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log = logging.New(logging.Config{Level: lvl, JSON: logJSON})
			slog.SetDefault(log)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := tea.NewProgram(newApp(), tea.WithAltScreen()).Run()
			return err
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultOutputDir, "data directory (overrides output.dir for run and wave)")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.BoolVar(&logJSON, "log-json", false, "always log JSON")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "stimulate once and integrate for the configured duration",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	setupFlags(runCmd)

	waveCmd := &cobra.Command{
		Use:   "wave [planar|target|spiral] [model]",
		Short: "drive travelling waves until interrupted or the stop file appears",
		Args:  cobra.ExactArgs(2),
		RunE:  runWave,
	}
	setupFlags(waveCmd)
	waveCmd.Flags().Float64Var(&period, "period", 0, "stimulation period (default from config)")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	setupFlags(liveCmd)
	liveCmd.Flags().IntVar(&fps, "steps", 10, "steps per frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "grid search one parameter, minimising a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	setupFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter name")
	sweepCmd.Flags().Float64SliceVar(&sweepVals, "values", nil, "comma separated parameter values")
	sweepCmd.Flags().IntVar(&sweepLimit, "parallel", 4, "concurrent runs")
	sweepCmd.Flags().StringVar(&metricName, "metric", "peak", "metric to minimise")
	_ = sweepCmd.MarkFlagRequired("param")
	_ = sweepCmd.MarkFlagRequired("values")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the probe trace and the last snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&field, "field", 0, "probe field to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the probe trace",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&field, "field", 0, "probe field to analyse")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [out.svg]",
		Short: "render a stored snapshot to SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Float64Var(&snapTime, "time", -1, "snapshot time (default last)")
	exportSVGCmd.Flags().IntVar(&scale, "scale", 4, "pixels per grid point")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list reaction models",
		Args:  cobra.NoArgs,
		RunE:  listModels,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file for a model or preset",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "model/preset to start from, e.g. fhn/cable")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "perturb the steady state with random noise and count unstable runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	setupFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&noise, "noise", 0.05, "perturbation amplitude")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	rootCmd.AddCommand(runCmd, waveCmd, liveCmd, sweepCmd, listCmd, plotCmd, analyzeCmd,
		exportJSONCmd, exportSVGCmd, presetsCmd, modelsCmd, initCmd, scenarioCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration (default from config)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "time step (default from config)")
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// serveMetrics exposes reg over HTTP when --metrics-addr is set. The
// returned function shuts the server down.
func serveMetrics(reg *prometheus.Registry) func() {
	if metricsAddr == "" {
		return func() {}
	}
	reg.MustRegister(collectors.NewGoCollector())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "addr", metricsAddr, "error", err)
		}
	}()
	log.Info("serving metrics", "addr", metricsAddr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
