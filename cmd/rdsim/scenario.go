package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/automation"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, sc, registry, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODEL\tSTEPS\tT\tMASS\tPEAK\tACTIVE")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\t%.4f\t%.4f\t%.3f\n",
			i+1, r.Config.Model, r.Steps, r.Elapsed,
			r.Metrics["mass"], r.Metrics["peak"], r.Metrics["activation"])
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Config:       cfg,
		Perturbation: noise,
		NumTrials:    trials,
		Seed:         seed,
	}, registry, log)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("model: %s  trials: %d  noise: %g\n", cfg.Model, len(results), noise)
	fmt.Printf("stable: %d  unstable: %d\n", stable, unstable)
	return nil
}
