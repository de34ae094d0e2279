// The clean command: remove generated artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gauntlet/internal/paths"
)

var cleanDryRun bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the coverage profile, bin directory, and tool cache",
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "print what would be removed")
}

func runClean(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("getwd: %s", err))
	}
	cacheDir, err := resolveCacheDir()
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("resolve cache dir: %s", err))
	}

	targets := []string{
		paths.CoveragePath(cwd),
		paths.DefaultBinDirName,
		paths.ToolBinDir(cacheDir),
		paths.HistoryDBPath(cacheDir),
	}

	for _, target := range targets {
		if _, err := os.Stat(target); err != nil {
			continue
		}
		if cleanDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "would remove %s\n", target)
			continue
		}
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("remove %s: %w", target, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", target)
	}
	return nil
}
