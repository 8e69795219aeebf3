package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/export"
	"github.com/san-kum/nbodysim/internal/ingest"
	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/report"
	"github.com/san-kum/nbodysim/internal/storage"
	"github.com/san-kum/nbodysim/internal/viz"
)

var (
	dataDir         string
	configFile      string
	preset          string
	gravity         float64
	duration        float64
	dt              float64
	checkDegenerate bool
	recordEvery     int
	noSave          bool
	// live view
	frameRate     int
	stepsPerFrame int
	trail         int
	theme         string
	// plot
	maxPlots int
	svgSize  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "nbodysim",
		Short:        "planar n-body gravity simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run [input]",
		Short: "run simulation and print the final universe",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&recordEvery, "record-every", config.DefaultRecordEvery, "history sampling interval in steps")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [input]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", config.DefaultStepsPerFrame, "simulation steps per frame")
	liveCmd.Flags().IntVar(&trail, "trail", config.DefaultTrail, "trail length in frames")
	liveCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show the final state of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body trajectories",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&maxPlots, "bodies", 6, "maximum number of bodies to plot")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run trajectories to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&gravity, "g", dynamo.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&duration, "time", dynamo.DefaultDuration, "duration in seconds")
	cmd.Flags().Float64Var(&dt, "dt", dynamo.DefaultDt, "timestep in seconds")
	cmd.Flags().BoolVar(&checkDegenerate, "check-degenerate", false, "fail on coincident bodies instead of propagating NaN")
}

// resolveConfig layers defaults, preset, config file and explicit flags,
// in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Apply(p)
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("check-degenerate") {
		cfg.CheckDegenerate = checkDegenerate
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}
	if flags.Changed("fps") {
		cfg.Live.FPS = frameRate
	}
	if flags.Changed("steps-per-frame") {
		cfg.Live.StepsPerFrame = stepsPerFrame
	}
	if flags.Changed("trail") {
		cfg.Live.Trail = trail
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(cfg *config.Config) (*dynamo.Simulation, error) {
	u, err := ingest.Load(cfg.Input)
	if err != nil {
		return nil, err
	}
	return u.Simulation(cfg.Params())
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	sim, err := load(cfg)
	if err != nil {
		return err
	}

	for _, m := range metrics.Defaults(cfg.G, sim.Radius()) {
		sim.AddMetric(m)
	}
	rec := storage.NewRecorder(cfg.RecordEvery, sim.Report())
	sim.AddObserver(rec)

	errOut := cmd.ErrOrStderr()
	fmt.Fprintln(errOut, viz.Heading(fmt.Sprintf("simulating %d bodies from %s", sim.Len(), cfg.Input)))
	fmt.Fprintf(errOut, "steps: %d (dt=%g s, T=%g s)\n", sim.StepCount(), cfg.Dt, cfg.Duration)

	start := time.Now()
	if err := sim.Run(); err != nil {
		return err
	}
	elapsed := time.Since(start)
	rec.Finish(sim.Steps(), sim.Time(), sim.Report())

	if err := report.Write(cmd.OutOrStdout(), sim.Radius(), sim.Report()); err != nil {
		return err
	}

	fmt.Fprintf(errOut, "completed in %v\n", elapsed)
	printMetrics(errOut, sim.Result().Metrics)

	if noSave {
		return nil
	}
	runID, err := storage.New(cfg.DataDir).Save(storage.Run{
		Input:   cfg.Input,
		Sim:     sim,
		History: rec.Samples(),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(errOut, "run id: %s\n", runID)
	return nil
}

func printMetrics(w io.Writer, values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6g\n", name, values[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	sim, err := load(cfg)
	if err != nil {
		return err
	}

	err = viz.RunLive(sim, viz.LiveOptions{
		Name:          strings.TrimSuffix(filepath.Base(cfg.Input), filepath.Ext(cfg.Input)),
		FPS:           cfg.Live.FPS,
		StepsPerFrame: cfg.Live.StepsPerFrame,
		Trail:         cfg.Live.Trail,
		Theme:         theme,
	})
	if err != nil {
		return err
	}
	if sim.Finished() {
		return report.Write(cmd.OutOrStdout(), sim.Radius(), sim.Report())
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINPUT\tTIME\tBODIES\tSTEPS\tDURATION\tDT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4es\t%gs\n",
			run.ID,
			run.Input,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Steps,
			run.Duration,
			run.Dt,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	u, err := st.LoadFinal(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Heading("run: "+meta.ID))
	fmt.Fprintf(out, "input: %s\n", meta.Input)
	fmt.Fprintf(out, "steps: %d (t=%.4e s)\n\n", meta.Steps, float64(meta.Steps)*meta.Dt)

	snaps := make([]dynamo.Snapshot, len(u.Bodies))
	for i := range u.Bodies {
		snaps[i] = u.Bodies[i].Report()
	}
	if err := report.Table(out, snaps); err != nil {
		return err
	}
	printMetrics(out, meta.Metrics)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	if len(history) < 2 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "samples: %d\n\n", len(history))

	n := min(len(meta.Labels), maxPlots)
	for i := 0; i < n; i++ {
		xs := make([]float64, len(history))
		ys := make([]float64, len(history))
		for k, s := range history {
			xs[k], ys[k] = s.Body(i)
		}

		for _, series := range []struct {
			axis string
			data []float64
		}{{"x", xs}, {"y", ys}} {
			graph := asciigraph.Plot(series.data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s %s vs sample", meta.Labels[i], series.axis)),
			)
			fmt.Fprintln(out, graph)
			fmt.Fprintln(out)
		}
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	return export.Trajectories(cmd.OutOrStdout(), meta.Radius, meta.Labels, history, svgSize)
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDURATION\tDT\tSTEPS\tCHECK")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.4es\t%gs\t%d\t%v\n", name, p.Duration, p.Dt, p.Params().StepCount(), p.CheckDegenerate)
	}
	return w.Flush()
}
