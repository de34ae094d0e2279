// Package paths resolves configuration, cache, and artifact locations
// for gauntlet.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Project-local file and directory names.
const (
	DefaultConfigDirName = ".gauntlet"
	DefaultBinDirName    = "bin"
	CoverageFileName     = "coverage.out"
	HistoryDBName        = "history.db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "GAUNTLET_CONFIG_DIR"
	EnvCacheDir  = "GAUNTLET_CACHE_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir      func() (string, error)
	userCacheDir func() (string, error)
}{
	homeDir:      os.UserHomeDir,
	userCacheDir: os.UserCacheDir,
}

// DefaultCacheDir returns the platform-specific default cache directory.
//
// Linux:   $XDG_CACHE_HOME/gauntlet (fallback ~/.cache/gauntlet)
// macOS:   ~/Library/Caches/gauntlet
// Windows: %LocalAppData%/gauntlet
func DefaultCacheDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "gauntlet"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".cache", "gauntlet"), nil
	default:
		// macOS and Windows use os.UserCacheDir which returns
		// ~/Library/Caches on macOS and %LocalAppData% on Windows.
		dir, err := platformDir.userCacheDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "gauntlet"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > GAUNTLET_CONFIG_DIR env > $(CWD)/.gauntlet.
//
// The CWD-relative default keeps per-project configuration next to the
// code being checked, like the coverage profile and bin directory.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultConfigDirName), nil
}

// ResolveCacheDir returns the cache directory following the precedence
// chain: flag > GAUNTLET_CACHE_DIR env > DefaultCacheDir(). Fetched tool
// binaries and the run-history database live here.
func ResolveCacheDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvCacheDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultCacheDir()
}

// CoveragePath returns the coverage profile location for a project root.
func CoveragePath(root string) string {
	return filepath.Join(root, CoverageFileName)
}

// HistoryDBPath returns the run-history database location under cacheDir.
func HistoryDBPath(cacheDir string) string {
	return filepath.Join(cacheDir, HistoryDBName)
}

// ToolBinDir returns the directory under cacheDir where fetched tool
// binaries are installed.
func ToolBinDir(cacheDir string) string {
	return filepath.Join(cacheDir, "tools")
}
