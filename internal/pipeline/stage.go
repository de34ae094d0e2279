// Package pipeline models the ordered sequence of external tool
// invocations behind `gauntlet run` and executes them.
package pipeline

import "time"

// Stage names in pipeline order.
const (
	StageBuild       = "build"
	StageFmt         = "fmt"
	StageVet         = "vet"
	StageLint        = "lint"
	StageStatic      = "static"
	StageUnit        = "unit"
	StageIntegration = "integration"
	StageCover       = "cover"
)

// Stage statuses.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Stage is one external tool invocation in the pipeline.
type Stage struct {
	// Name identifies the stage in output and in the run history.
	Name string
	// Argv is the full command line, program first.
	Argv []string
	// Env holds extra KEY=VALUE pairs appended to the child environment.
	Env []string
	// FailOnOutput marks stages whose tool exits zero but signals
	// problems by printing file names (gofmt -l).
	FailOnOutput bool
}

// Result records the outcome of one executed stage.
type Result struct {
	Name     string
	Status   string
	Duration time.Duration
	// Detail carries the failure reason: the wrapped exec error, or for
	// FailOnOutput stages the offending output.
	Detail string
}

// Report summarizes a full pipeline run.
type Report struct {
	Results  []Result
	Duration time.Duration
}

// Passed reports whether every executed stage passed.
func (r Report) Passed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return false
		}
	}
	return true
}

// Failed returns the names of failed stages in order.
func (r Report) Failed() []string {
	var names []string
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			names = append(names, res.Name)
		}
	}
	return names
}
