// Package config defines gauntlet's run options and the config.yaml
// loading behind them.
package config

import "errors"

// Checker stage names selectable on the command line.
const (
	CheckFmt    = "fmt"
	CheckVet    = "vet"
	CheckLint   = "lint"
	CheckStatic = "static"
)

// EnvQuick is exported to child processes when quick mode is active so
// that test helpers can skip expensive fixtures.
const EnvQuick = "GAUNTLET_QUICK"

// Options holds the effective settings for one pipeline run, assembled
// from flags, config.yaml, and the environment.
type Options struct {
	// Packages is the go package pattern the stages operate on.
	Packages string
	// IntegrationDir is the directory holding network/integration tests,
	// relative to the project root.
	IntegrationDir string
	// CoverageFile is the coverage profile path written under --coverage.
	CoverageFile string
	// Jobs caps toolchain parallelism; 0 keeps the toolchain default.
	Jobs int

	Quick    bool
	Net      bool
	Coverage bool
	DryRun   bool
	FailFast bool
	NoBuild  bool

	// Checkers lists the selected checker stages. Empty means all.
	Checkers []string
}

// Option validation errors.
var (
	ErrPackagesEmpty  = errors.New("packages pattern must not be empty")
	ErrJobsNegative   = errors.New("jobs must not be negative")
	ErrUnknownChecker = errors.New("unknown checker")
)

// knownCheckers lists the checker names Validate accepts.
var knownCheckers = map[string]bool{
	CheckFmt:    true,
	CheckVet:    true,
	CheckLint:   true,
	CheckStatic: true,
}

// Validate checks that the Options are well-formed. It returns a
// sentinel error from this package on failure.
func (o Options) Validate() error {
	if o.Packages == "" {
		return ErrPackagesEmpty
	}
	if o.Jobs < 0 {
		return ErrJobsNegative
	}
	for _, c := range o.Checkers {
		if !knownCheckers[c] {
			return ErrUnknownChecker
		}
	}
	return nil
}

// WantChecker reports whether the named checker stage should run: either
// no explicit selection was made, or the name is among the selected ones.
func (o Options) WantChecker(name string) bool {
	if len(o.Checkers) == 0 {
		return true
	}
	for _, c := range o.Checkers {
		if c == name {
			return true
		}
	}
	return false
}
