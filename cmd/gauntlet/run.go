// The run command: compile, checkers, unit tests, and optional
// integration and coverage stages.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/gauntlet/internal/config"
	"github.com/mesh-intelligence/gauntlet/internal/history"
	"github.com/mesh-intelligence/gauntlet/internal/logger"
	"github.com/mesh-intelligence/gauntlet/internal/paths"
	"github.com/mesh-intelligence/gauntlet/internal/pipeline"
	"github.com/mesh-intelligence/gauntlet/internal/toolchain"
)

// Run flag values.
var (
	runQuick    bool
	runNet      bool
	runCoverage bool
	runDryRun   bool
	runFailFast bool
	runNoBuild  bool
	runJobs     int

	runFmt    bool
	runVet    bool
	runLint   bool
	runStatic bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the compile, checker, and test pipeline",
	Long: `Run compiles the project, runs the configured checkers (fmt, vet,
lint, static), and invokes the unit tests. Selecting individual checkers
with --fmt/--vet/--lint/--static restricts the run to the build and
those checkers. Network/integration tests run only with --net.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runQuick, "quick", false, "skip long-running tests (-short, exports "+config.EnvQuick+")")
	runCmd.Flags().BoolVar(&runNet, "net", false, "also run network/integration tests")
	runCmd.Flags().BoolVar(&runCoverage, "coverage", false, "collect a coverage profile and print a summary")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "print commands instead of executing them")
	runCmd.Flags().BoolVar(&runFailFast, "fail-fast", false, "stop at the first failing stage")
	runCmd.Flags().BoolVar(&runNoBuild, "no-build", false, "skip the compile stage")
	runCmd.Flags().IntVarP(&runJobs, "jobs", "j", 0, "toolchain parallelism (0 = toolchain default)")

	runCmd.Flags().BoolVar(&runFmt, "fmt", false, "run only selected checkers: include gofmt")
	runCmd.Flags().BoolVar(&runVet, "vet", false, "run only selected checkers: include go vet")
	runCmd.Flags().BoolVar(&runLint, "lint", false, "run only selected checkers: include golangci-lint")
	runCmd.Flags().BoolVar(&runStatic, "static", false, "run only selected checkers: include staticcheck")
}

// buildRunOptions assembles the effective options from flags, the
// loaded config.yaml, and the environment.
func buildRunOptions() config.Options {
	opts := config.Options{
		Packages:       fileCfg.GetString(config.KeyPackages),
		IntegrationDir: fileCfg.GetString(config.KeyIntegrationDir),
		CoverageFile:   fileCfg.GetString(config.KeyCoverageFile),
		Jobs:           fileCfg.GetInt(config.KeyJobs),
		Quick:          runQuick || os.Getenv(config.EnvQuick) == "true",
		Net:            runNet,
		Coverage:       runCoverage,
		DryRun:         runDryRun,
		FailFast:       runFailFast,
		NoBuild:        runNoBuild,
	}

	if runJobs > 0 {
		opts.Jobs = runJobs
	}
	if opts.CoverageFile == "" {
		cwd, err := os.Getwd()
		if err == nil {
			opts.CoverageFile = paths.CoveragePath(cwd)
		} else {
			opts.CoverageFile = paths.CoverageFileName
		}
	}

	if runFmt {
		opts.Checkers = append(opts.Checkers, config.CheckFmt)
	}
	if runVet {
		opts.Checkers = append(opts.Checkers, config.CheckVet)
	}
	if runLint {
		opts.Checkers = append(opts.Checkers, config.CheckLint)
	}
	if runStatic {
		opts.Checkers = append(opts.Checkers, config.CheckStatic)
	}

	return opts
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := buildRunOptions()
	if err := opts.Validate(); err != nil {
		return err
	}

	if !opts.DryRun {
		if err := toolchain.CheckHostVersion(); err != nil {
			return exitError(exitSysError, err.Error())
		}
	}

	cacheDir, err := resolveCacheDir()
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("resolve cache dir: %s", err))
	}

	in, err := planInputs(opts, cacheDir)
	if err != nil {
		return err
	}

	stages := pipeline.BuildPlan(opts, in)
	logger.Debug(ctx, "stage plan built", zap.Int("stages", len(stages)))

	started := time.Now()
	runner := &pipeline.Runner{
		Out:      cmd.OutOrStdout(),
		DryRun:   opts.DryRun,
		FailFast: opts.FailFast,
	}
	report := runner.Run(ctx, stages)

	printSummary(cmd, report)

	if !opts.DryRun {
		recordRun(opts, report, started)
	}

	if !report.Passed() {
		return fmt.Errorf("%d stage(s) failed: %v", len(report.Failed()), report.Failed())
	}
	return nil
}

// planInputs resolves the environment-dependent plan values: the lint
// binary and the unit package list.
func planInputs(opts config.Options, cacheDir string) (pipeline.PlanInputs, error) {
	in := pipeline.PlanInputs{LintBin: toolchain.BinLint}

	if opts.WantChecker(config.CheckLint) {
		bin, ok := toolchain.LookupLint(paths.ToolBinDir(cacheDir))
		if !ok && !opts.DryRun {
			return in, fmt.Errorf("golangci-lint not found; install it or run `gauntlet fetch-tools`")
		}
		if ok {
			in.LintBin = bin
		}
	}

	// Checker-only runs never reach the unit stage.
	if len(opts.Checkers) > 0 {
		return in, nil
	}

	// Dry runs print the plan without touching the toolchain, so the
	// configured pattern stands in for the resolved package list.
	if opts.DryRun {
		in.UnitPackages = []string{opts.Packages}
		return in, nil
	}

	pkgs, err := toolchain.UnitPackages(opts.Packages, opts.IntegrationDir)
	if err != nil {
		return in, fmt.Errorf("listing packages: %w", err)
	}
	in.UnitPackages = pkgs
	return in, nil
}

// printSummary prints the closing banner in the per-stage format.
func printSummary(cmd *cobra.Command, report pipeline.Report) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "========================================")
	if report.Passed() {
		fmt.Fprintln(out, "gauntlet run PASSED")
	} else {
		fmt.Fprintln(out, "gauntlet run FAILED")
	}
	fmt.Fprintln(out, "========================================")
	fmt.Fprintln(out)
	for _, res := range report.Results {
		fmt.Fprintf(out, "  %-12s %-8s %s\n", res.Name, res.Status, res.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(out, "  Total time: %s\n", report.Duration.Round(time.Second))
	fmt.Fprintln(out)
}

// recordRun persists the run outcome. Recording failures are reported
// as warnings; they never fail the run itself.
func recordRun(opts config.Options, report pipeline.Report, started time.Time) {
	store, err := attachStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run not recorded: %s\n", err)
		return
	}
	defer store.Detach()

	run := history.Run{
		StartedAt: started,
		Duration:  report.Duration,
		Quick:     opts.Quick,
		Net:       opts.Net,
		Coverage:  opts.Coverage,
		Passed:    report.Passed(),
	}
	for _, res := range report.Results {
		run.Stages = append(run.Stages, history.StageResult{
			Name:     res.Name,
			Status:   res.Status,
			Duration: res.Duration,
			Detail:   res.Detail,
		})
	}

	if _, err := store.SaveRun(run); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run not recorded: %s\n", err)
	}
}
