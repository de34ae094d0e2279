// Shared helpers for gauntlet CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mesh-intelligence/gauntlet/internal/history"
	"github.com/mesh-intelligence/gauntlet/internal/paths"
)

// exitError prints the message to stderr and exits with the given code.
// Used for system errors where cobra's error-as-usage handling is wrong.
func exitError(code int, msg string) error {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
	return nil // unreachable
}

// attachStore resolves the cache directory and attaches the run-history
// store. The caller must defer store.Detach().
func attachStore() (*history.Store, error) {
	cacheDir, err := resolveCacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}

	store := history.NewStore()
	if err := store.Attach(paths.HistoryDBPath(cacheDir)); err != nil {
		return nil, fmt.Errorf("attach history store: %w", err)
	}
	return store, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
