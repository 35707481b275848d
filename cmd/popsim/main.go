package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"popsim/internal/analysis"
	"popsim/internal/config"
	"popsim/internal/experiment"
	"popsim/internal/export"
	"popsim/internal/popdyn"
	"popsim/internal/sim"
	"popsim/internal/storage"
	"popsim/internal/tui"
)

var (
	dataDir string
	alpha   float64
	pDown   float64
	gamma   float64
	skew    float64
	species int
	sites   int
	window  int
	steps   int
	force   float64
	initial float64
	seed    int64
	workers int
	// lattice parameters
	latSize   int
	latSteps  int
	diffusion float64
	// config surface
	configFile string
	preset     string
	latPreset  string
	// export
	outFile  string
	logScale bool
	// ensemble
	replicas int
	// analysis
	bins        int
	sweepParam  string
	sweepFrom   float64
	sweepTo     float64
	sweepPoints int
	sweepMetric string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "popsim",
		Short: "stochastic population growth simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".popsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a non-spatial simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	latticeCmd := &cobra.Command{
		Use:   "lattice [model]",
		Short: "run the spatial diffusion variant",
		Args:  cobra.ExactArgs(1),
		RunE:  runLattice,
	}
	addModelFlags(latticeCmd)
	latticeCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	latticeCmd.Flags().StringVar(&latPreset, "preset", "", "lattice preset (see 'presets lattice')")
	latticeCmd.Flags().IntVar(&latSize, "size", 16, "lattice side length")
	latticeCmd.Flags().IntVar(&latSteps, "lattice-steps", 3, "lattice macro steps")
	latticeCmd.Flags().Float64Var(&diffusion, "diffusion", 0.1, "diffusion coefficient (4d < 1)")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run with a live abundance view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addModelFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored abundance series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&logScale, "log", true, "plot log10 abundance")

	ratesCmd := &cobra.Command{
		Use:   "rates [run_id]",
		Short: "per-species growth-rate summary",
		Args:  cobra.ExactArgs(1),
		RunE:  showRates,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write stored series CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write run metadata and series as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render stored series to an SVG file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outFile, "out", "series.svg", "output file")
	exportSVGCmd.Flags().BoolVar(&logScale, "log", true, "plot log10 abundance")

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

	distCmd := &cobra.Command{
		Use:   "dist [run_id]",
		Short: "log-binned abundance distribution",
		Args:  cobra.ExactArgs(1),
		RunE:  showDistribution,
	}
	distCmd.Flags().IntVar(&bins, "bins", 30, "number of log-spaced bins")

	scanCmd := &cobra.Command{
		Use:   "scan [model]",
		Short: "sweep a parameter and report a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runScan,
	}
	addModelFlags(scanCmd)
	scanCmd.Flags().StringVar(&sweepParam, "param", "alpha", "parameter to sweep")
	scanCmd.Flags().Float64Var(&sweepFrom, "from", 0.3, "sweep start")
	scanCmd.Flags().Float64Var(&sweepTo, "to", 1.5, "sweep end")
	scanCmd.Flags().IntVar(&sweepPoints, "points", 7, "sweep grid size")
	scanCmd.Flags().StringVar(&sweepMetric, "metric", "taylor_exponent", "metric to record")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [model]",
		Short: "run replicates over consecutive seeds and average the metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsemble,
	}
	addModelFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&replicas, "replicas", 8, "number of replicate runs")

	rootCmd.AddCommand(runCmd, latticeCmd, liveCmd, ensembleCmd, listCmd, plotCmd,
		ratesCmd, distCmd, scanCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "tail exponent")
	cmd.Flags().Float64Var(&pDown, "p-down", config.DefaultPDown, "down probability (three_point)")
	cmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "factor ratio (binary)")
	cmd.Flags().Float64Var(&skew, "skew", config.DefaultSkew, "log-space skew offset (log_uniform)")
	cmd.Flags().IntVar(&species, "species", config.DefaultSpecies, "number of species")
	cmd.Flags().IntVar(&sites, "sites", config.DefaultSites, "sites per species")
	cmd.Flags().IntVar(&window, "window", config.DefaultWindow, "substeps per macro step")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "macro steps")
	cmd.Flags().Float64Var(&force, "force", config.DefaultForce, "external forcing constant")
	cmd.Flags().Float64Var(&initial, "initial", config.DefaultInitial, "initial abundance per cell")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&workers, "workers", 1, "goroutines per sweep")
}

func buildConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Model = model

	// CLI flags override preset and config file
	if cmd.Flags().Changed("alpha") || cfg.Alpha == 0 {
		cfg.Alpha = alpha
	}
	if cmd.Flags().Changed("p-down") || cfg.PDown == 0 {
		cfg.PDown = pDown
	}
	if cmd.Flags().Changed("gamma") || cfg.Gamma == 0 {
		cfg.Gamma = gamma
	}
	if cmd.Flags().Changed("skew") || cfg.Skew == 0 {
		cfg.Skew = skew
	}
	if cmd.Flags().Changed("species") || cfg.Species == 0 {
		cfg.Species = species
	}
	if cmd.Flags().Changed("sites") || cfg.Sites == 0 {
		cfg.Sites = sites
	}
	if cmd.Flags().Changed("window") || cfg.Window == 0 {
		cfg.Window = window
	}
	if cmd.Flags().Changed("steps") || cfg.Steps == 0 {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("force") {
		cfg.Force = force
	}
	if cmd.Flags().Changed("initial") || cfg.Initial == 0 {
		cfg.Initial = initial
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	fmt.Printf("running %s: %d species x %d sites, window %d, %d steps\n",
		cfg.Model, cfg.Species, cfg.Sites, cfg.Window, cfg.Steps)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	runID, err := st.Save(storage.RunMetadata{
		Model:   cfg.Model,
		Seed:    cfg.Seed,
		Species: cfg.Species,
		Sites:   cfg.Sites,
		Window:  cfg.Window,
		Steps:   result.StepsTaken,
		Force:   cfg.Force,
		Metrics: result.Metrics,
	}, result.Abundance)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func runLattice(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if latPreset != "" {
		p := config.GetPreset("lattice", latPreset)
		if p == nil {
			return fmt.Errorf("unknown lattice preset: %s (available: %v)", latPreset, config.ListPresets("lattice"))
		}
		cfg.Lattice = p.Lattice
	}
	if cmd.Flags().Changed("size") || cfg.Lattice.Size == 0 {
		cfg.Lattice.Size = latSize
	}
	if cmd.Flags().Changed("lattice-steps") || cfg.Lattice.Steps == 0 {
		cfg.Lattice.Steps = latSteps
	}
	if cmd.Flags().Changed("diffusion") {
		cfg.Lattice.Diffusion = diffusion
	}

	lattice, err := experiment.SetupLattice(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running lattice %dx%d, d=%.3f, %d steps\n",
		cfg.Lattice.Size, cfg.Lattice.Size, cfg.Lattice.Diffusion, cfg.Lattice.Steps)

	result, err := lattice.Run(context.Background())
	if err != nil {
		return err
	}

	for t := 0; t < result.Total.Steps(); t++ {
		fmt.Printf("  step %d: total %.6g\n", t, result.Total.At(0, t))
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Model:   "lattice_" + cfg.Model,
		Seed:    cfg.Seed,
		Species: 1,
		Sites:   cfg.Lattice.Size * cfg.Lattice.Size,
		Window:  1,
		Steps:   result.StepsTaken,
		Force:   cfg.Force,
	}, result.Total)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}
	return tui.Run(cfg.Model, exp.Simulator(), cfg.Steps)
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if replicas < 1 {
		return fmt.Errorf("replicas %d must be positive", replicas)
	}

	registry := experiment.NewRegistry()
	ensemble := sim.NewEnsemble(sim.Config{
		Species: cfg.Species,
		Sites:   cfg.Sites,
		Window:  cfg.Window,
		Steps:   cfg.Steps,
		Force:   cfg.Force,
		Initial: cfg.Initial,
		Workers: cfg.Workers,
	}, func(seed int64) (popdyn.Sampler, error) {
		return registry.GetSampler(cfg.Model, cfg, seed)
	}, replicas, cfg.Seed)
	ensemble.SetMetrics(registry.DefaultMetrics)

	fmt.Printf("running %d replicates of %s, seeds %d..%d\n",
		replicas, cfg.Model, cfg.Seed, cfg.Seed+int64(replicas)-1)
	start := time.Now()

	results, err := ensemble.Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	sums := make(map[string]float64)
	for _, r := range results {
		for name, val := range r.Metrics {
			sums[name] += val
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN OVER REPLICATES")
	for name, sum := range sums {
		fmt.Fprintf(w, "%s\t%.6f\n", name, sum/float64(len(results)))
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSPECIES\tSITES\tWINDOW\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Species,
			run.Sites,
			run.Window,
			run.Steps,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	ab, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("steps: %d\n\n", ab.Steps())

	numSeries := ab.Species()
	if numSeries > 6 {
		numSeries = 6
	}
	for s := 0; s < numSeries; s++ {
		data := ab.Series(s)
		caption := fmt.Sprintf("species %d abundance", s)
		if logScale {
			caption = fmt.Sprintf("species %d log10 abundance", s)
			for i, v := range data {
				if v > 0 {
					data[i] = math.Log10(v)
				}
			}
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		))
		fmt.Println()
	}
	return nil
}

func showRates(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	ab, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	rates, err := ab.GrowthRates()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tMEAN LOG RATE\tSTD LOG RATE\tMIN\tMAX")
	for s, rs := range rates {
		var sum, sumSq float64
		min, max := math.Inf(1), math.Inf(-1)
		for _, r := range rs {
			lr := math.Log(r)
			sum += lr
			sumSq += lr * lr
			min = math.Min(min, r)
			max = math.Max(max, r)
		}
		n := float64(len(rs))
		mean := sum / n
		std := math.Sqrt(math.Max(0, sumSq/n-mean*mean))
		fmt.Fprintf(w, "%d\t%.6f\t%.6f\t%.6g\t%.6g\n", s, mean, std, min, max)
	}
	return w.Flush()
}

func showDistribution(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	ab, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	hist := analysis.AbundanceDistribution(ab, bins)
	if hist == nil {
		return fmt.Errorf("no positive abundance values to bin")
	}

	densities := make([]float64, len(hist))
	for i, b := range hist {
		densities[i] = b.Density
	}
	fmt.Println(asciigraph.Plot(densities,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("abundance density, log bins %.3g .. %.3g",
			hist[0].Center, hist[len(hist)-1].Center)),
	))
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s from %g to %g (%d points), recording %s\n",
		sweepParam, sweepFrom, sweepTo, sweepPoints, sweepMetric)

	points, err := analysis.ParameterSweep(context.Background(), cfg, experiment.NewRegistry(),
		sweepParam, sweepFrom, sweepTo, sweepPoints, sweepMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", sweepParam, sweepMetric)
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.6f\n", p.Param, p.Value)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	file, err := os.Open(st.SeriesPath(args[0]))
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(os.Stdout, file)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	ab, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	series := make([][]float64, ab.Species())
	for s := range series {
		series[s] = ab.Series(s)
	}

	out := struct {
		Meta   *storage.RunMetadata `json:"meta"`
		Series [][]float64          `json:"series"`
	}{meta, series}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	ab, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	svg := export.SeriesToSVG(ab, 960, 480, logScale)
	if svg == "" {
		return fmt.Errorf("not enough data to plot")
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}
