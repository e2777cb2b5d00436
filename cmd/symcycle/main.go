package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/symcycle/internal/anim"
	"github.com/san-kum/symcycle/internal/config"
	"github.com/san-kum/symcycle/internal/export"
	"github.com/san-kum/symcycle/internal/gui"
	"github.com/san-kum/symcycle/internal/server"
	"github.com/san-kum/symcycle/internal/storage"
	"github.com/san-kum/symcycle/internal/trace"
	"github.com/san-kum/symcycle/internal/viz"
)

const version = "0.1.0"

var (
	dataDir    string
	configFile string
	logLevel   string
	logFormat  string
	logFile    string
	seed       int64
	// live / gui
	frameRate int
	theme     string
	winWidth  int
	winHeight int
	// serve
	addr string
	// run
	preset   string
	dt       float64
	duration float64
	numRuns  int
	// export
	exportEvents bool
	outFile      string
	svgAt        float64
	svgSize      int
	svgCurve     bool
)

// main registers the commands and runs the live terminal view when no
// subcommand is given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:               "symcycle",
		Short:             "cycling symbol animation",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { teardown() },
		RunE:              runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (interactive views discard logs without it)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "color seed (0 picks one from the clock)")
	rootCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	rootCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "animate in a desktop window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	guiCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	guiCmd.Flags().IntVar(&winWidth, "width", config.DefaultWidth, "window width")
	guiCmd.Flags().IntVar(&winHeight, "height", config.DefaultHeight, "window height")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the animation state over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "record a headless trace of the animation",
		Args:  cobra.NoArgs,
		RunE:  runTrace,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultSampleDt, "seconds between samples")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "seconds of animation")
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of runs, seeded consecutively from --seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&exportEvents, "events", false, "export events instead of samples")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a recorded frame (or the opacity curve) to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Float64Var(&svgAt, "at", 5.0, "run time of the frame in seconds")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 256, "frame size in pixels")
	exportSVGCmd.Flags().BoolVar(&svgCurve, "curve", false, "plot opacity over the whole run instead")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	symbolsCmd := &cobra.Command{
		Use:   "symbols",
		Short: "list the symbol catalog",
		Args:  cobra.NoArgs,
		RunE:  listSymbols,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list trace presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(liveCmd, guiCmd, serveCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, symbolsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newEngine() *anim.Engine {
	return anim.New(
		anim.WithRand(rand.New(rand.NewSource(cfg.Seed))),
		anim.WithLogger(logger),
	)
}

func runLive(cmd *cobra.Command, args []string) error {
	eng := newEngine()
	defer eng.Stop()

	m := viz.NewModel(eng, cfg.View.FPS, cfg.View.Theme)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	eng := newEngine()
	gui.NewApp(eng, cfg.View.Width, cfg.View.Height, cfg.View.FPS).Run()
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := newEngine()
	eng.Start()
	defer eng.Stop()

	srv := server.NewServer(eng, logger, version)
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.AllowOrigins)
}

func runTrace(cmd *cobra.Command, args []string) error {
	traceCfg := trace.Config{
		SampleDt: cfg.Trace.SampleDt,
		Duration: cfg.Trace.Duration,
		Seed:     cfg.Seed,
	}

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		traceCfg.SampleDt, traceCfg.Duration = p.SampleDt, p.Duration
	}
	// CLI flags override presets and the config file
	if cmd.Flags().Changed("dt") {
		traceCfg.SampleDt = dt
	}
	if cmd.Flags().Changed("time") {
		traceCfg.Duration = duration
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if numRuns < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", numRuns)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("tracing %.1fs of animation (%d run(s))...\n", traceCfg.Duration, numRuns)
	start := time.Now()

	results, err := trace.NewEnsemble(logger, trace.DefaultMetrics, numRuns, traceCfg.Seed).Run(ctx, traceCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("completed in %v\n", elapsed)

	for i, result := range results {
		runCfg := traceCfg
		runCfg.Seed = traceCfg.Seed + int64(i)

		runID, err := st.Save(preset, runCfg, result)
		if err != nil {
			return err
		}

		fmt.Printf("\nrun id: %s\n", runID)
		fmt.Printf("seed: %d\n", runCfg.Seed)
		fmt.Printf("samples: %d\n", len(result.Samples))
		fmt.Printf("events: %d\n", len(result.Events))
		fmt.Println("metrics:")
		for _, name := range sortedKeys(result.Metrics) {
			fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
		}
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tSAMPLES\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.SampleDt,
			run.Samples,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(trace.Sample) float64
	}{
		{"opacity", func(s trace.Sample) float64 { return s.Opacity }},
		{"scale", func(s trace.Sample) float64 { return s.Scale }},
		{"elapsed (s)", func(s trace.Sample) float64 { return s.Elapsed }},
		{"symbol index", func(s trace.Sample) float64 { return float64(s.Index) }},
	}

	for _, ser := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = ser.value(s)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(ser.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(cfg.DataDir)

	w := csv.NewWriter(os.Stdout)
	if exportEvents {
		events, err := st.LoadEvents(runID)
		if err != nil {
			return err
		}
		return storage.WriteEventsCSV(w, events)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteSamplesCSV(w, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSON(os.Stdout, meta, result)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := storage.ExportJSON(f, meta, result); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", meta.ID, outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	var svg string
	if svgCurve {
		opacity := make([]float64, len(samples))
		for i, s := range samples {
			opacity[i] = s.Opacity
		}
		svg = export.CurveToSVG(opacity, 800, 200, "#00ffff")
	} else {
		s, ok := export.SampleAt(samples, svgAt)
		if !ok {
			return fmt.Errorf("no data to export")
		}
		svg = export.FrameToSVG(s, svgSize)
	}
	if svg == "" {
		return fmt.Errorf("not enough data to export")
	}

	if outFile == "" {
		_, err = fmt.Println(svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg+"\n"), 0644); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", args[0], outFile)
	return nil
}

func listSymbols(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	for _, s := range anim.Catalog() {
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Name, s.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		fmt.Printf("  %-8s dt=%.2fs duration=%.0fs\n", name, p.SampleDt, p.Duration)
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
