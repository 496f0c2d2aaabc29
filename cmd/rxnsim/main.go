package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/rxnsim/internal/config"
	"github.com/san-kum/rxnsim/internal/experiment"
	"github.com/san-kum/rxnsim/internal/logging"
	"github.com/san-kum/rxnsim/internal/models"
	"github.com/san-kum/rxnsim/internal/network"
	"github.com/san-kum/rxnsim/internal/sim"
	"github.com/san-kum/rxnsim/internal/storage"
	"github.com/san-kum/rxnsim/internal/telemetry"
	"github.com/san-kum/rxnsim/internal/timeseries"
	"github.com/san-kum/rxnsim/internal/verify"
)

const ledgerFile = "verify.db"

var (
	dataDir     string
	logLevel    string
	configFile  string
	metricsFile string

	start      float64
	end        float64
	points     int
	integrator string
	tolerance  float64
	maxStep    float64
	profile    string
	sets       []string
	showPlot   bool

	plotWidth  int
	plotHeight int
	species    []string

	phaseX      string
	phaseY      string
	phaseWidth  int
	phaseHeight int

	historyLimit int
	noRecord     bool

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rxnsim",
		Short:         "reaction-network kinetics simulator and verification runner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this file")

	simulateCmd := &cobra.Command{
		Use:   "simulate [model-file|preset]",
		Short: "simulate a model and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimulationFlags(simulateCmd)
	simulateCmd.Flags().StringVar(&profile, "profile", "", "named run profile for a preset (see presets)")
	simulateCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the result in the terminal")

	verifyCmd := &cobra.Command{
		Use:   "verify [suite.yaml]",
		Short: "run a verification suite (the built-in cascade suite without an argument)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runVerify,
	}
	verifyCmd.Flags().BoolVar(&noRecord, "no-record", false, "do not record the outcome in the ledger")

	speciesCmd := &cobra.Command{
		Use:   "species [model-file|preset]",
		Short: "show species, parameters, reactions and stoichiometry",
		Args:  cobra.ExactArgs(1),
		RunE:  showModel,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")
	plotCmd.Flags().StringSliceVar(&species, "species", nil, "species to plot (default all)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase plot of one species against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&phaseX, "x", "", "species on the x-axis (default first)")
	phaseCmd.Flags().StringVar(&phaseY, "y", "", "species on the y-axis (default second)")
	phaseCmd.Flags().IntVar(&phaseWidth, "width", 60, "plot width")
	phaseCmd.Flags().IntVar(&phaseHeight, "height", 20, "plot height")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run as an SVG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringSliceVar(&species, "species", nil, "species to draw (default all)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [preset]",
		Short: "list model presets, or the run profiles of one preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "show recorded verification runs",
		RunE:  showHistory,
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of runs to show (0 for all)")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addSimulationFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "rerun a model across values of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSimulationFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter or species to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	_ = sweepCmd.MarkFlagRequired("param")

	rootCmd.AddCommand(simulateCmd, verifyCmd, speciesCmd, listCmd, plotCmd, phaseCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, historyCmd, compareCmd, sweepCmd)
	return rootCmd
}

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&start, "start", sim.DefaultStart, "start time")
	cmd.Flags().Float64Var(&end, "end", sim.DefaultEnd, "end time")
	cmd.Flags().IntVar(&points, "points", sim.DefaultPoints, "number of output samples")
	cmd.Flags().StringVar(&integrator, "integrator", sim.DefaultIntegrator, "integrator (euler, rk4, rk45)")
	cmd.Flags().Float64Var(&tolerance, "tol", sim.DefaultTolerance, "adaptive error tolerance")
	cmd.Flags().Float64Var(&maxStep, "max-step", sim.DefaultMaxStep, "largest integration step")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a parameter or initial value (name=value)")
}

// loadConfig reads --config when given. Flags set on the command line win
// over the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// applySimulationFlags overlays explicitly set simulation flags.
func applySimulationFlags(cmd *cobra.Command, opts *sim.Options) error {
	flags := cmd.Flags()
	if flags.Changed("start") {
		opts.Start = start
	}
	if flags.Changed("end") {
		opts.End = end
	}
	if flags.Changed("points") {
		opts.Points = points
	}
	if flags.Changed("integrator") {
		opts.Integrator = integrator
	}
	if flags.Changed("tol") {
		opts.Tolerance = tolerance
	}
	if flags.Changed("max-step") {
		opts.MaxStep = maxStep
	}
	return opts.Validate()
}

func parseSets(values []string) (map[string]float64, error) {
	out := make(map[string]float64, len(values))
	for _, s := range values {
		name, raw, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", s)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", s, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

// experimentConfig builds the run settings for a command that takes an
// optional model argument.
func experimentConfig(cmd *cobra.Command, args []string) (experiment.Config, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return experiment.Config{}, nil, err
	}

	exp := cfg.Experiment()
	if len(args) > 0 {
		exp.Source = ""
		exp.Model = args[0]
	}

	if profile != "" {
		p := config.GetPreset(exp.Model, profile)
		if p == nil {
			return exp, cfg, fmt.Errorf("unknown profile: %s (available: %v)", profile, config.ListPresets(exp.Model))
		}
		exp.Options = p.Options()
	}

	if err := applySimulationFlags(cmd, &exp.Options); err != nil {
		return exp, cfg, err
	}

	overrides, err := parseSets(sets)
	if err != nil {
		return exp, cfg, err
	}
	if len(overrides) > 0 {
		merged := make(map[string]float64, len(exp.Overrides)+len(overrides))
		for k, v := range exp.Overrides {
			merged[k] = v
		}
		for k, v := range overrides {
			merged[k] = v
		}
		exp.Overrides = merged
	}

	return exp, cfg, nil
}

// modelSource returns the notation behind a model argument.
func modelSource(exp experiment.Config) (string, error) {
	if exp.Source != "" {
		return exp.Source, nil
	}
	if p, ok := models.Get(exp.Model); ok {
		return p.Source, nil
	}
	data, err := os.ReadFile(exp.Model)
	if err != nil {
		return "", fmt.Errorf("unknown model: %s", exp.Model)
	}
	return string(data), nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.LogLevel, os.Stderr)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	expCfg, cfg, err := experimentConfig(cmd, args)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	src, err := modelSource(expCfg)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(expCfg)
	exp.SetLogger(logger)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}
	m := exp.Model()

	fmt.Printf("running %s simulation...\n", m.Name)
	began := time.Now()

	table, result, err := exp.Run(context.Background())
	if err != nil {
		logger.Error("simulation failed", "model", m.Name, "err", err)
		return err
	}

	elapsed := time.Since(began)

	runID, err := st.Save(m, src, expCfg.Options, table, result)
	if err != nil {
		return err
	}

	if metricsFile != "" {
		rec := telemetry.NewRecorder()
		rec.ObserveRun(m.Name, result, elapsed)
		if err := rec.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d  steps: %d  rejected: %d\n", table.Len(), result.StepsTaken, result.Rejected)

	final, err := table.Final()
	if err != nil {
		return err
	}
	fmt.Println("\nfinal concentrations:")
	for _, name := range table.Species() {
		fmt.Printf("  %-10s %.6g\n", name, final[name])
	}

	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	if showPlot {
		graph, err := table.Plot(timeseries.DefaultPlotOptions())
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(graph)
	}

	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, metrics[name])
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	var suite *verify.Suite
	if len(args) == 0 {
		suite = verify.CascadeSuite()
	} else {
		sf, err := verify.LoadSuiteFile(args[0])
		if err != nil {
			return err
		}
		suite, err = sf.Build(experiment.NewRegistry(), logger)
		if err != nil {
			return err
		}
	}

	ctx := context.Background()
	report := suite.Run(ctx, logger)
	if err := report.Render(os.Stdout); err != nil {
		return err
	}

	if metricsFile != "" {
		rec := telemetry.NewRecorder()
		rec.ObserveReport(report)
		if err := rec.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if !noRecord {
		ledger, err := storage.OpenLedger(ctx, filepath.Join(cfg.DataDir, ledgerFile))
		if err != nil {
			return err
		}
		defer ledger.Close()

		if _, err := ledger.Record(ctx, report); err != nil {
			return fmt.Errorf("record verification run: %w", err)
		}
	}

	if !report.Passed() {
		logger.Error("verification failed", "suite", report.Suite, "failures", len(report.Failures()))
		return fmt.Errorf("suite %s failed", report.Suite)
	}
	return nil
}

func showModel(cmd *cobra.Command, args []string) error {
	m, err := experiment.NewRegistry().GetModel(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("model: %s\n\n", m.Name)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tKIND\tINITIAL")
	for _, name := range m.Species() {
		kind := "floating"
		for _, b := range m.BoundarySpecies() {
			if b == name {
				kind = "boundary"
			}
		}
		v, _ := m.Get(name)
		fmt.Fprintf(w, "%s\t%s\t%g\n", name, kind, v)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if params := m.Parameters(); len(params) > 0 {
		fmt.Println()
		fmt.Fprintln(w, "PARAMETER\tVALUE")
		for _, name := range params {
			v, _ := m.Get(name)
			fmt.Fprintf(w, "%s\t%g\n", name, v)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	fmt.Println("\nreactions:")
	for _, r := range m.Reactions() {
		fmt.Printf("  %s\n", r)
	}

	fmt.Println("\nstoichiometry:")
	return printStoichiometry(m)
}

func printStoichiometry(m *network.Model) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{""}
	for _, r := range m.Reactions() {
		header = append(header, r.ID)
	}
	fmt.Fprintln(w, strings.Join(header, "\t")+"\t")

	for i, row := range m.Stoichiometry() {
		cells := []string{m.FloatingSpecies()[i]}
		for _, v := range row {
			cells = append(cells, strconv.FormatFloat(v, 'g', -1, 64))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSPAN\tPOINTS\tINTEG\tSPECIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g..%g\t%d\t%s\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Options.Start,
			run.Options.End,
			run.Options.Points,
			run.Options.Integrator,
			len(run.Species),
		)
	}

	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, *timeseries.Table, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	table, err := st.LoadTable(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, table, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, table, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	if table.Empty() {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", table.Len())

	graph, err := table.Plot(timeseries.PlotOptions{Width: plotWidth, Height: plotHeight}, species...)
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	meta, err := storage.New(cfg.DataDir).Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("id: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("timestamp: %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Printf("span: %g..%g (%d points)\n", meta.Options.Start, meta.Options.End, meta.Options.Points)
	fmt.Printf("integrator: %s (tol %g, max step %g)\n", meta.Options.Integrator, meta.Options.Tolerance, meta.Options.MaxStep)
	fmt.Printf("steps: %d  rejected: %d\n", meta.Steps, meta.Rejected)
	fmt.Printf("species: %s\n", strings.Join(meta.Species, ", "))
	fmt.Println("\nmetrics:")
	printMetrics(meta.Metrics)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, table, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return table.WriteCSV(os.Stdout)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, table, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return storage.WriteJSON(os.Stdout, meta, table)
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, table, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	names := table.Species()
	x, y := phaseX, phaseY
	if x == "" && len(names) > 0 {
		x = names[0]
	}
	if y == "" && len(names) > 1 {
		y = names[1]
	}
	if x == "" || y == "" {
		return fmt.Errorf("phase plot needs two species, run %s has %d", meta.ID, len(names))
	}

	out, err := table.PhaseASCII(x, y, phaseWidth, phaseHeight)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("%s (y) vs %s (x)\n\n", y, x)
	fmt.Print(out)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, table, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return table.WriteSVG(os.Stdout, timeseries.DefaultSVGOptions(), species...)
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		profiles := config.ListPresets(args[0])
		if len(profiles) == 0 {
			fmt.Printf("no run profiles for preset: %s\n", args[0])
			return nil
		}
		fmt.Printf("run profiles for %s:\n", args[0])
		for _, name := range profiles {
			p := config.GetPreset(args[0], name)
			fmt.Printf("  %-12s %g..%g, %d points\n", name, p.Simulation.Start, p.Simulation.End, p.Simulation.Points)
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDESCRIPTION")
	for _, name := range models.Names() {
		p, _ := models.Get(name)
		fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Description)
	}
	return w.Flush()
}

func showHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.DataDir, ledgerFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("no verification runs recorded")
		return nil
	}

	ctx := context.Background()
	ledger, err := storage.OpenLedger(ctx, path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	runs, err := ledger.History(ctx, historyLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSUITE\tTIME\tRESULT\tCASES\tFAILURES\tDURATION")
	for _, r := range runs {
		result := "pass"
		if !r.Passed {
			result = "FAIL"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%v\n",
			r.ID, r.Suite, r.StartedAt.Local().Format("2006-01-02 15:04:05"), result, r.Cases, r.Failures,
			r.Duration.Round(time.Millisecond))
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, cfg, err := experimentConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	registry := experiment.NewRegistry()

	fmt.Printf("comparing integrators for %s (%g..%g, %d points)\n\n", base.Model, base.Options.Start, base.Options.End, base.Options.Points)
	fmt.Printf("%-10s  %-12s  %-10s  %-10s  %-12s  %-10s\n", "integrator", "mass_drift", "steps", "rejected", "rate_norm", "time_ms")
	fmt.Println(strings.Repeat("-", 72))

	for _, name := range args[1:] {
		expCfg := base
		expCfg.Options.Integrator = name

		exp := experiment.New(expCfg)
		exp.SetLogger(logger)
		if err := exp.Setup(registry); err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		began := time.Now()
		_, result, err := exp.Run(context.Background())
		elapsed := time.Since(began)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		fmt.Printf("%-10s  %12.2e  %10d  %10d  %12.2e  %10.2f\n",
			name, result.Metrics["mass_drift"], result.StepsTaken, result.Rejected,
			result.Metrics["final_rate_norm"], float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, cfg, err := experimentConfig(cmd, args)
	if err != nil {
		return err
	}

	sweep := &experiment.ParameterSweep{
		Base:      base,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}

	results, err := experiment.RunSweep(context.Background(), sweep, experiment.NewRegistry())
	if err != nil {
		newLogger(cfg).Error("sweep failed", "param", sweepParam, "err", err)
		return err
	}
	if len(results) == 0 {
		return nil
	}

	names := make([]string, 0, len(results[0].Final))
	for name := range results[0].Final {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, sweepParam+"\t"+strings.Join(names, "\t")+"\t")
	for _, r := range results {
		cells := []string{strconv.FormatFloat(r.ParamValue, 'g', 6, 64)}
		for _, name := range names {
			cells = append(cells, strconv.FormatFloat(r.Final[name], 'g', 6, 64))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
	}
	return w.Flush()
}
