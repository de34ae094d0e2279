// Root command for the gauntlet CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/gauntlet/internal/config"
	"github.com/mesh-intelligence/gauntlet/internal/logger"
	"github.com/mesh-intelligence/gauntlet/internal/paths"
	"github.com/mesh-intelligence/gauntlet/pkg/gauntlet"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagCacheDir  string
	flagJSON      bool
	flagVerbose   bool
)

// fileCfg holds the loaded config.yaml. Set by PersistentPreRunE so all
// subcommands can read it.
var fileCfg *viper.Viper

var rootCmd = &cobra.Command{
	Use:     "gauntlet",
	Short:   "Gauntlet runs a project's compile, checker, and test pipeline",
	Version: gauntlet.Version,
	// Do not print usage on errors returned by subcommands.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Setup(flagVerbose)

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := config.Load(configDir)
		if err != nil {
			return err
		}

		fileCfg = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.gauntlet)")
	rootCmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "cache directory for tools and run history (default: platform cache dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON where supported")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable diagnostic logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(fetchToolsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > GAUNTLET_CONFIG_DIR env >
// $(CWD)/.gauntlet.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveCacheDir returns the cache directory following the precedence
// chain: --cache-dir flag > GAUNTLET_CACHE_DIR env > platform default.
func resolveCacheDir() (string, error) {
	return paths.ResolveCacheDir(flagCacheDir)
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}
