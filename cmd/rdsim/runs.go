package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/export"
	"github.com/san-kum/rdsim/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tGRID\tBC\tDT\tSTEPS\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%s\t%.4f\t%d\t%.2f\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.NX, run.NY,
			run.Boundary,
			run.Dt,
			run.Steps,
			run.Elapsed,
		)
	}
	return w.Flush()
}

// probeTrace loads one field of a run's probe.csv.
func probeTrace(st *storage.Store, runID string, f int) ([]float64, error) {
	_, rows, err := st.LoadProbe(runID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("run %s has no probe data", runID)
	}
	if f < 0 || f >= len(rows[0]) {
		return nil, fmt.Errorf("run %s has %d fields, no field %d", runID, len(rows[0]), f)
	}
	trace := make([]float64, len(rows))
	for i, r := range rows {
		trace[i] = r[f]
	}
	return trace, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	trace, err := probeTrace(st, runID, field)
	if err != nil {
		return err
	}
	fmt.Println(asciigraph.Plot(trace,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s: field %d at (%d,%d)", meta.Model, field, meta.Probe[0], meta.Probe[1])),
	))

	times, err := st.Snapshots(runID)
	if err != nil || len(times) == 0 {
		return nil
	}
	last := times[len(times)-1]
	rows, err := st.LoadSnapshot(runID, last)
	if err != nil {
		return err
	}
	fmt.Printf("\nsnapshot t=%.3f\n", last)
	if len(rows) == 1 {
		fmt.Println(asciigraph.Plot(rows[0], asciigraph.Height(10), asciigraph.Width(80)))
		return nil
	}
	fmt.Print(shadeRows(rows, 80, 24))
	return nil
}

// shadeRows draws a loaded snapshot with the same shades as the live view.
func shadeRows(rows [][]float64, w, h int) string {
	const shades = " ░▒▓█"
	lo, hi := rows[0][0], rows[0][0]
	for _, r := range rows {
		for _, v := range r {
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	if hi <= lo {
		hi = lo + 1
	}
	ramp := []rune(shades)
	h, w = min(h, len(rows)), min(w, len(rows[0]))

	var b strings.Builder
	for row := 0; row < h; row++ {
		r := rows[row*len(rows)/h]
		for col := 0; col < w; col++ {
			v := (r[col*len(r)/w] - lo) / (hi - lo)
			b.WriteRune(ramp[int(v*float64(len(ramp)-1))])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := probeTrace(st, runID, field)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	ps := analysis.PowerSpectrum(trace)
	if len(ps) < 4 {
		return fmt.Errorf("trace too short: %d samples", len(trace))
	}
	fmt.Println(asciigraph.Plot(ps[:len(ps)/2],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (field %d)", field)),
	))
	fmt.Println()

	freq := analysis.DominantFrequency(trace, meta.Dt)
	fmt.Printf("dominant frequency: %.5f\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f\n", 1.0/freq)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).WriteJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID, out := args[0], args[1]
	st := storage.New(dataDir)

	t := snapTime
	if t < 0 {
		times, err := st.Snapshots(runID)
		if err != nil {
			return err
		}
		if len(times) == 0 {
			return fmt.Errorf("run %s has no snapshots", runID)
		}
		t = times[len(times)-1]
	}
	rows, err := st.LoadSnapshot(runID, t)
	if err != nil {
		return err
	}

	var svg string
	if len(rows) == 1 {
		xs := make([]float64, len(rows[0]))
		for i := range xs {
			xs[i] = float64(i)
		}
		svg = export.LineToSVG(xs, rows[0], 800, 300, "#00ff88")
	} else {
		svg = export.RowsToSVG(rows, scale)
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (t=%.3f)\n", out, t)
	return nil
}

func listModels(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tFIELDS\tDIFFUSION\tPRESETS")
	for _, name := range registry.ListModels() {
		d, err := registry.DefaultDiffusion(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%s\n", name, len(d), d, strings.Join(config.ListPresets(name), ","))
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		model, name, ok := strings.Cut(preset, "/")
		if !ok {
			return fmt.Errorf("preset must look like model/name, got %q", preset)
		}
		if cfg = config.GetPreset(model, name); cfg == nil {
			return fmt.Errorf("unknown preset: %s", preset)
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
