package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/fluidlab/flip2d/internal/analysis"
	"github.com/fluidlab/flip2d/internal/config"
	"github.com/fluidlab/flip2d/internal/export"
	"github.com/fluidlab/flip2d/internal/fluid"
	"github.com/fluidlab/flip2d/internal/metrics"
	"github.com/fluidlab/flip2d/internal/sim"
	"github.com/fluidlab/flip2d/internal/storage"
	"github.com/fluidlab/flip2d/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	scene      string
	frames     int
	resolution int
	gravity    float64
	tension    float64
	viscosity  float64
	seed       int64
	svgOut     string
	pngOut     string
	metricName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flip2d",
		Short: "two-dimensional liquid simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".flip2d", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation in batch mode",
		RunE:  runBatch,
	}
	runCmd.Flags().StringVar(&scene, "scene", "", "scene name (pool, dam-break, droplet, bubble)")
	runCmd.Flags().IntVar(&frames, "frames", 0, "number of frames")
	runCmd.Flags().IntVar(&resolution, "resolution", 0, "grid cells per side")
	runCmd.Flags().Float64Var(&gravity, "gravity", -1, "gravity magnitude")
	runCmd.Flags().Float64Var(&tension, "tension", -1, "surface tension coefficient")
	runCmd.Flags().Float64Var(&viscosity, "viscosity", -1, "kinematic viscosity")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "particle seeding RNG seed")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write final frame contours to SVG")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&scene, "scene", "", "scene name")
	liveCmd.Flags().IntVar(&resolution, "resolution", 0, "grid cells per side")
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "particle seeding RNG seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored metric series to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngOut, "out", "metrics.png", "output PNG path")
	plotCmd.Flags().StringVar(&metricName, "metric", "volume", "metric to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&metricName, "metric", "perimeter", "metric to analyze")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSCENE\tFRAMES\tTENSION\tVISCOSITY")
			for _, name := range presetNames() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%.1f\n",
					name, p.Scene, p.Frames, p.SurfaceTension, p.Viscosity)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func presetNames() []string {
	names := make([]string, 0, len(config.Presets))
	for name := range config.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadConfig resolves the effective config: defaults, then preset, then
// config file, then explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, presetNames())
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	if cmd.Flags().Changed("scene") {
		cfg.Scene = scene
	}
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}
	if cmd.Flags().Changed("resolution") {
		cfg.Resolution = resolution
	}
	if cmd.Flags().Changed("gravity") {
		cfg.Gravity = gravity
	}
	if cmd.Flags().Changed("tension") {
		cfg.SurfaceTension = tension
	}
	if cmd.Flags().Changed("viscosity") {
		cfg.Viscosity = viscosity
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stepFrame advances one display frame in CFL-bounded substeps. The first
// substep assumes unit velocity so a fluid at rest still takes a full
// step.
func stepFrame(s *sim.Simulation, cfg *config.Config, first bool) error {
	frameTime := 0.0
	firstStep := first
	for frameTime < cfg.FrameDt {
		velmag := s.MaxVelMag()
		if firstStep {
			velmag = 1
			firstStep = false
		}

		var dt float64
		if velmag > 1e-10 {
			dt = cfg.CFL * cfg.Dx / velmag
			if dt > cfg.FrameDt-frameTime {
				dt = cfg.FrameDt - frameTime
			}
		} else {
			dt = cfg.FrameDt - frameTime
		}
		frameTime += dt
		if dt <= 0 {
			break
		}

		if cfg.Gravity != 0 {
			s.AddConstantForce(fluid.Vec2{Y: -cfg.Gravity}, dt)
		}
		if err := s.Step(dt, nil); err != nil {
			return err
		}
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := buildScene(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	observers := []metrics.Metric{
		metrics.NewVolume(),
		metrics.NewMaxVelocity(),
		metrics.NewMaxDivergence(),
		metrics.NewKineticEnergy(),
		metrics.NewPerimeter(),
	}
	times := make([]float64, 0, cfg.Frames)

	fmt.Printf("running %s scene (%dx%d, %d frames)...\n",
		cfg.Scene, cfg.Resolution, cfg.Resolution, cfg.Frames)
	start := time.Now()

	simTime := 0.0
	for frame := 0; frame < cfg.Frames; frame++ {
		if err := stepFrame(s, cfg, frame == 0); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		simTime += cfg.FrameDt
		times = append(times, simTime)
		for _, m := range observers {
			m.Observe(s, simTime)
		}
	}
	elapsed := time.Since(start)

	series := make(map[string][]float64, len(observers))
	finals := make(map[string]float64, len(observers))
	for _, m := range observers {
		series[m.Name()] = m.Series()
		finals[m.Name()] = m.Value()
	}
	runID, err := st.Save(cfg, times, series, finals)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tFINAL")
	for _, m := range observers {
		fmt.Fprintf(w, "%s\t%.6f\n", m.Name(), m.Value())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if vol := series["volume"]; len(vol) >= 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(vol,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("liquid volume vs frame"),
		))
	}

	if svgOut != "" {
		layers := []export.ContourLayer{
			{Segments: s.Collision().Contour(), Color: "#666666"},
			{Segments: s.Surface().Contour(), Color: "#00ccff"},
		}
		if err := os.WriteFile(svgOut, []byte(export.ContourToSVG(layers, 800, 800)), 0644); err != nil {
			return err
		}
		fmt.Printf("final frame written to %s\n", svgOut)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := buildScene(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(s, cfg), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tFRAMES\tRES\tTENSION\tVISC")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.1f\t%.1f\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Resolution,
			run.SurfaceTension,
			run.Viscosity,
		)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	_, series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	data, ok := series[metricName]
	if !ok {
		return fmt.Errorf("run %s has no metric %q", args[0], metricName)
	}
	if len(data) < 4 {
		return fmt.Errorf("not enough samples to analyze (%d)", len(data))
	}

	freq, spectrum := analysis.DominantFrequency(data, meta.FrameDt)
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("metric: %s (%d samples, dt=%.5fs)\n", metricName, len(data), meta.FrameDt)
	fmt.Printf("dominant frequency: %.3f Hz\n\n", freq)

	if len(spectrum) >= 2 {
		fmt.Println(asciigraph.Plot(spectrum,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		))
	}
	return nil
}
