// The fetch-tools command: install pinned external tool binaries.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gauntlet/internal/config"
	"github.com/mesh-intelligence/gauntlet/internal/paths"
	"github.com/mesh-intelligence/gauntlet/internal/toolchain"
)

var fetchToolsCmd = &cobra.Command{
	Use:   "fetch-tools",
	Short: "Download and verify the pinned golangci-lint binary",
	Long: `Fetch-tools downloads the golangci-lint release pinned in config.yaml
for the host platform, verifies it against the configured sha256, and
installs it into the tool cache. A previously verified binary of the
same version is reused without touching the network.`,
	RunE: runFetchTools,
}

func runFetchTools(cmd *cobra.Command, args []string) error {
	cacheDir, err := resolveCacheDir()
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("resolve cache dir: %s", err))
	}

	version := fileCfg.GetString(config.KeyLintVersion)
	pin := config.LintSHA256(fileCfg, toolchain.PlatformKey())

	fmt.Fprintf(cmd.OutOrStdout(), "Fetching golangci-lint v%s for %s...\n", version, toolchain.PlatformKey())

	result, err := toolchain.FetchLint(cmd.Context(), toolchain.FetchOptions{
		Version: version,
		SHA256:  pin,
		DestDir: paths.ToolBinDir(cacheDir),
	})
	if err != nil {
		return fmt.Errorf("fetch golangci-lint: %w", err)
	}

	if result.Cached {
		fmt.Fprintf(cmd.OutOrStdout(), "Using previously installed binary at %s\n", result.Path)
		return nil
	}
	if result.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: no sha256 pin configured for %s; archive not verified\n", toolchain.PlatformKey())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s\n", result.Path)
	return nil
}
