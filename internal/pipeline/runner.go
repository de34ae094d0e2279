// Sequential stage execution with dry-run, timing, and per-stage
// pass/fail reporting.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/gauntlet/internal/logger"
)

// detailLimit caps the captured failure detail stored per stage.
const detailLimit = 2000

// Runner executes a stage plan sequentially.
type Runner struct {
	// Out receives stage banners and child process output. Defaults to
	// os.Stdout when nil.
	Out io.Writer
	// Dir is the working directory for child processes ("" = inherit).
	Dir string
	// Env holds extra KEY=VALUE pairs for every stage.
	Env []string
	// DryRun prints each command instead of executing it.
	DryRun bool
	// FailFast stops at the first failed stage; the remaining stages
	// are reported as skipped.
	FailFast bool
}

// Run executes the stages in order and returns the report. Stage
// failures are reported, not returned: the only error conditions are
// the caller's (context cancellation surfaces as a failed stage).
func (r *Runner) Run(ctx context.Context, stages []Stage) Report {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	start := time.Now()
	report := Report{}
	stopped := false

	for _, stage := range stages {
		if stopped {
			report.Results = append(report.Results, Result{
				Name:   stage.Name,
				Status: StatusSkipped,
			})
			continue
		}

		res := r.runStage(ctx, out, stage)
		report.Results = append(report.Results, res)

		if res.Status == StatusFailed && r.FailFast {
			stopped = true
		}
	}

	report.Duration = time.Since(start)
	return report
}

// runStage executes a single stage and prints its banner and outcome.
func (r *Runner) runStage(ctx context.Context, out io.Writer, stage Stage) Result {
	stageStart := time.Now()
	fmt.Fprintf(out, "\n[%s] --- %s ---\n", stageStart.Format(time.RFC3339), stage.Name)
	fmt.Fprintf(out, "$ %s\n", strings.Join(stage.Argv, " "))

	if r.DryRun {
		fmt.Fprintf(out, "%s skipped (dry run)\n", stage.Name)
		return Result{Name: stage.Name, Status: StatusSkipped}
	}

	logger.Debug(ctx, "running stage",
		zap.String("stage", stage.Name),
		zap.Strings("argv", stage.Argv))

	detail, err := r.execute(ctx, out, stage)

	res := Result{
		Name:     stage.Name,
		Duration: time.Since(stageStart).Round(time.Millisecond),
	}
	if err != nil {
		res.Status = StatusFailed
		res.Detail = detail
		fmt.Fprintf(out, "%s FAILED in %s: %v\n", stage.Name, res.Duration, err)
	} else {
		res.Status = StatusPassed
		fmt.Fprintf(out, "%s passed in %s\n", stage.Name, res.Duration)
	}
	return res
}

// execute runs the stage's command. For FailOnOutput stages, non-empty
// stdout is a failure even on exit status zero.
func (r *Runner) execute(ctx context.Context, out io.Writer, stage Stage) (string, error) {
	cmd := exec.CommandContext(ctx, stage.Argv[0], stage.Argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), append(r.Env, stage.Env...)...)

	if stage.FailOnOutput {
		var buf bytes.Buffer
		cmd.Stdout = io.MultiWriter(out, &buf)
		cmd.Stderr = out

		if err := cmd.Run(); err != nil {
			return trimDetail(err.Error()), fmt.Errorf("running %s: %w", stage.Argv[0], err)
		}
		if listed := strings.TrimSpace(buf.String()); listed != "" {
			return trimDetail(listed), fmt.Errorf("%s reported %d file(s)", stage.Argv[0], countLines(listed))
		}
		return "", nil
	}

	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return trimDetail(err.Error()), fmt.Errorf("running %s: %w", stage.Argv[0], err)
	}
	return "", nil
}

func countLines(s string) int {
	return len(strings.Split(strings.TrimSpace(s), "\n"))
}

func trimDetail(s string) string {
	if len(s) > detailLimit {
		return s[:detailLimit]
	}
	return s
}
