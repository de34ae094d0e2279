// The history command: inspect recorded pipeline runs.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gauntlet/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded pipeline runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the stage results of one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list (0 = all)")
	historyCmd.AddCommand(historyShowCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return exitError(exitSysError, err.Error())
	}
	defer store.Detach()

	runs, err := store.ListRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if flagJSON {
		return printJSON(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-38s %-22s %-10s %-8s %s\n", "RUN", "STARTED", "DURATION", "RESULT", "MODE")
	for _, run := range runs {
		fmt.Fprintf(out, "%-38s %-22s %-10s %-8s %s\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Duration.Round(time.Millisecond),
			resultWord(run.Passed),
			modeWord(run),
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return exitError(exitSysError, err.Error())
	}
	defer store.Detach()

	run, err := store.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("show run: %w", err)
	}

	if flagJSON {
		return printJSON(run)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Duration: %s\n", run.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Result:   %s\n", resultWord(run.Passed))
	fmt.Fprintf(out, "Mode:     %s\n", modeWord(run))
	fmt.Fprintln(out)
	for _, stage := range run.Stages {
		fmt.Fprintf(out, "  %-12s %-8s %s\n", stage.Name, stage.Status, stage.Duration.Round(time.Millisecond))
		if stage.Detail != "" {
			fmt.Fprintf(out, "    %s\n", stage.Detail)
		}
	}
	return nil
}

func resultWord(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}

// modeWord summarizes the run's mode flags for the listing.
func modeWord(run history.Run) string {
	mode := ""
	if run.Quick {
		mode += "quick "
	}
	if run.Net {
		mode += "net "
	}
	if run.Coverage {
		mode += "coverage "
	}
	if mode == "" {
		return "-"
	}
	return mode[:len(mode)-1]
}
