// Stage plan construction: which stages a flag combination produces,
// and in which order.
package pipeline

import (
	"github.com/mesh-intelligence/gauntlet/internal/config"
	"github.com/mesh-intelligence/gauntlet/internal/toolchain"
)

// PlanInputs carries the environment-dependent values the plan needs
// beyond the run options.
type PlanInputs struct {
	// UnitPackages is the resolved package list for the unit stage,
	// already excluding the integration tree.
	UnitPackages []string
	// LintBin is the golangci-lint binary to invoke.
	LintBin string
}

// BuildPlan returns the ordered stage list for the given options. The
// fixed order is: build, fmt, vet, lint, static, unit, integration,
// cover; flags remove stages but never reorder them. An explicit
// checker selection (--fmt, --vet, --lint, --static) restricts the run
// to the build and the selected checkers, matching the checker-only
// invocation mode.
func BuildPlan(opts config.Options, in PlanInputs) []Stage {
	var stages []Stage

	if !opts.NoBuild {
		stages = append(stages, Stage{
			Name: StageBuild,
			Argv: toolchain.BuildArgs(opts.Packages, opts.Jobs),
		})
	}

	if opts.WantChecker(config.CheckFmt) {
		stages = append(stages, Stage{
			Name:         StageFmt,
			Argv:         toolchain.FmtCheckArgs(),
			FailOnOutput: true,
		})
	}
	if opts.WantChecker(config.CheckVet) {
		stages = append(stages, Stage{
			Name: StageVet,
			Argv: toolchain.VetArgs(opts.Packages),
		})
	}
	if opts.WantChecker(config.CheckLint) {
		stages = append(stages, Stage{
			Name: StageLint,
			Argv: toolchain.LintArgs(in.LintBin, opts.Packages),
		})
	}
	if opts.WantChecker(config.CheckStatic) {
		stages = append(stages, Stage{
			Name: StageStatic,
			Argv: toolchain.StaticArgs(opts.Packages),
		})
	}

	if len(opts.Checkers) > 0 {
		// Checker-only mode: no test stages.
		return stages
	}

	coverFile := ""
	if opts.Coverage {
		coverFile = opts.CoverageFile
	}

	unit := Stage{
		Name: StageUnit,
		Argv: toolchain.UnitTestArgs(in.UnitPackages, opts.Quick, coverFile, opts.Jobs),
	}
	if opts.Quick {
		unit.Env = []string{config.EnvQuick + "=true"}
	}
	stages = append(stages, unit)

	if opts.Net {
		stages = append(stages, Stage{
			Name: StageIntegration,
			Argv: toolchain.IntegrationTestArgs(opts.IntegrationDir),
		})
	}

	if opts.Coverage {
		stages = append(stages, Stage{
			Name: StageCover,
			Argv: toolchain.CoverArgs(opts.CoverageFile),
		})
	}

	return stages
}
