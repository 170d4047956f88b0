package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/glucosim/internal/config"
	"github.com/san-kum/glucosim/internal/controllers"
	"github.com/san-kum/glucosim/internal/metrics"
	"github.com/san-kum/glucosim/internal/params"
	"github.com/san-kum/glucosim/internal/patient"
	"github.com/san-kum/glucosim/internal/sim"
	"github.com/san-kum/glucosim/internal/storage"
	"github.com/san-kum/glucosim/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	paramTable string
	duration   float64
	controller string
	carbRatio  float64
	kp         float64
	ki         float64
	kd         float64
	target     float64
	seed       int64
	meals      []string
	configFile string
	scenario   string
	outFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "glucosim",
		Short: "type 1 diabetes patient simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".glucosim", "data directory")
	rootCmd.PersistentFlags().StringVar(&paramTable, "params", "", "patient parameter table (csv)")

	runCmd := &cobra.Command{
		Use:   "run [patient]",
		Short: "run a closed-loop simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [patient]",
		Short: "run a simulation with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	patientsCmd := &cobra.Command{
		Use:   "patients",
		Short: "list available patients",
		RunE:  listPatients,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, patientsCmd, scenariosCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in minutes")
	cmd.Flags().StringVar(&controller, "controller", "basal", "controller (basal, basal-bolus, pid)")
	cmd.Flags().Float64Var(&carbRatio, "carb-ratio", config.DefaultCarbRatio, "grams of carbs per unit of bolus insulin")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
	cmd.Flags().Float64Var(&target, "target", config.DefaultTarget, "pid glucose target (mg/dL)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringSliceVar(&meals, "meal", nil, "meal as minute:grams, repeatable")
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&scenario, "scenario", "", "built-in scenario name")
}

// buildScenario merges the scenario preset, the config file and the CLI
// flags, in increasing priority.
func buildScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if scenario != "" {
		preset := config.GetPreset(scenario)
		if preset == nil {
			return nil, fmt.Errorf("unknown scenario: %s (available: %v)", scenario, config.ListPresets())
		}
		*cfg = *preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Patient = args[0]
	}
	if paramTable != "" {
		cfg.ParamTable = paramTable
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("controller") {
		cfg.Controller = controller
	}
	if cmd.Flags().Changed("carb-ratio") {
		cfg.ControllerParams.CarbRatio = carbRatio
	}
	if cmd.Flags().Changed("kp") {
		cfg.ControllerParams.Kp = kp
	}
	if cmd.Flags().Changed("ki") {
		cfg.ControllerParams.Ki = ki
	}
	if cmd.Flags().Changed("kd") {
		cfg.ControllerParams.Kd = kd
	}
	if cmd.Flags().Changed("target") {
		cfg.ControllerParams.Target = target
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if len(meals) > 0 {
		cfg.Meals = nil
		for _, m := range meals {
			parsed, err := parseMeal(m)
			if err != nil {
				return nil, err
			}
			cfg.Meals = append(cfg.Meals, parsed)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseMeal(s string) (config.MealConfig, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return config.MealConfig{}, fmt.Errorf("meal %q must be minute:grams", s)
	}
	at, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return config.MealConfig{}, fmt.Errorf("meal %q: %w", s, err)
	}
	carbs, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return config.MealConfig{}, fmt.Errorf("meal %q: %w", s, err)
	}
	return config.MealConfig{At: at, Carbs: carbs}, nil
}

func patientLookup(cfg *config.Config) (params.Lookup, error) {
	if cfg.ParamTable != "" {
		return params.LoadTable(cfg.ParamTable)
	}
	return params.PresetLookup{}, nil
}

func buildPatient(cfg *config.Config) (*patient.Patient, error) {
	lookup, err := patientLookup(cfg)
	if err != nil {
		return nil, err
	}
	return patient.FromName(lookup, cfg.Patient)
}

func buildController(cfg *config.Config, basal float64) (sim.Controller, error) {
	p := cfg.ControllerParams
	switch cfg.Controller {
	case "basal":
		return controllers.NewBasal(basal), nil
	case "basal-bolus":
		return controllers.NewBasalBolus(basal, p.CarbRatio), nil
	case "pid":
		return controllers.NewPID(p.Kp, p.Ki, p.Kd, p.Target, basal), nil
	default:
		return nil, fmt.Errorf("unknown controller: %s", cfg.Controller)
	}
}

func buildSchedule(cfg *config.Config) sim.Schedule {
	var schedule sim.Schedule
	for _, m := range cfg.Meals {
		schedule = append(schedule, sim.MealEvent{At: m.At, Carbs: m.Carbs})
	}
	return schedule.Sorted()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildScenario(cmd, args)
	if err != nil {
		return err
	}

	p, err := buildPatient(cfg)
	if err != nil {
		return err
	}
	ctrl, err := buildController(cfg, p.Params().Basal())
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner := sim.New(p, ctrl, buildSchedule(cfg))
	runner.AddMetric(metrics.NewTimeInRange(70, 180))
	runner.AddMetric(metrics.NewLBGI())
	runner.AddMetric(metrics.NewHBGI())
	runner.AddMetric(metrics.NewRI())
	runner.AddMetric(metrics.NewMeanGlucose())
	runner.AddMetric(metrics.NewCV())

	fmt.Printf("simulating %s for %.0f minutes...\n", cfg.Patient, cfg.Duration)
	start := time.Now()

	result, err := runner.Run(context.Background(), sim.Config{Duration: cfg.Duration})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Patient, cfg.Controller, cfg.Duration, cfg.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.Times))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.4f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildScenario(cmd, args)
	if err != nil {
		return err
	}

	p, err := buildPatient(cfg)
	if err != nil {
		return err
	}
	ctrl, err := buildController(cfg, p.Params().Basal())
	if err != nil {
		return err
	}

	return tui.Run(p, ctrl, buildSchedule(cfg), cfg.Duration)
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
	fmt.Fprintln(w, "ID\tPATIENT\tCREATED\tDURATION\tCTRL\tTIR")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fm\t%s\t%.1f%%\n",
			run.RunID,
			run.Patient,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Controller,
			run.Metrics["time_in_range"]*100,
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
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.RunID)
	fmt.Printf("patient: %s\n", meta.Patient)
	fmt.Printf("samples: %d\n\n", len(trace.Times))

	series := []struct {
		data    []float64
		caption string
	}{
		{trace.Glucose, "subcutaneous glucose (mg/dL)"},
		{trace.Insulin, "insulin rate (U/min)"},
		{trace.CHO, "carb announcements (g)"},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if outFile != "" {
		return storage.ExportJSONFile(outFile, meta.Patient, meta.Controller, meta.Duration, trace)
	}
	return storage.ExportJSON(os.Stdout, meta.Patient, meta.Controller, meta.Duration, trace)
}

func listPatients(cmd *cobra.Command, args []string) error {
	var names []string
	var lookup params.Lookup

	if paramTable != "" {
		table, err := params.LoadTable(paramTable)
		if err != nil {
			return err
		}
		names = table.Names()
		lookup = table
	} else {
		names = params.PresetNames()
		lookup = params.PresetLookup{}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBW (kg)\tBASAL GLUCOSE\tBASAL INSULIN (U/min)")
	for _, name := range names {
		set, err := lookup.ByName(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.4f\n", set.Name, set.BW, set.Gb, set.Basal())
	}
	return w.Flush()
}
