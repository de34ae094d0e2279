package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests drive /bin/sh")
	}
}

func shellStage(name, script string) Stage {
	return Stage{Name: name, Argv: []string{"sh", "-c", script}}
}

func TestRunner_AllStagesPass(t *testing.T) {
	requireShell(t)

	var out bytes.Buffer
	r := &Runner{Out: &out}

	report := r.Run(context.Background(), []Stage{
		shellStage("one", "exit 0"),
		shellStage("two", "exit 0"),
	})

	assert.True(t, report.Passed())
	assert.Empty(t, report.Failed())
	require.Len(t, report.Results, 2)
	assert.Equal(t, StatusPassed, report.Results[0].Status)
	assert.Equal(t, StatusPassed, report.Results[1].Status)
	assert.Contains(t, out.String(), "--- one ---")
	assert.Contains(t, out.String(), "one passed")
}

func TestRunner_FailureDoesNotStopRun(t *testing.T) {
	requireShell(t)

	var out bytes.Buffer
	r := &Runner{Out: &out}

	report := r.Run(context.Background(), []Stage{
		shellStage("bad", "exit 3"),
		shellStage("good", "exit 0"),
	})

	assert.False(t, report.Passed())
	assert.Equal(t, []string{"bad"}, report.Failed())
	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.Equal(t, StatusPassed, report.Results[1].Status)
	assert.Contains(t, out.String(), "bad FAILED")
}

func TestRunner_FailFastSkipsRemainder(t *testing.T) {
	requireShell(t)

	marker := filepath.Join(t.TempDir(), "ran")
	var out bytes.Buffer
	r := &Runner{Out: &out, FailFast: true}

	report := r.Run(context.Background(), []Stage{
		shellStage("bad", "exit 1"),
		shellStage("never", "touch "+marker),
	})

	assert.False(t, report.Passed())
	require.Len(t, report.Results, 2)
	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.Equal(t, StatusSkipped, report.Results[1].Status)

	_, err := os.Stat(marker)
	assert.True(t, os.IsNotExist(err), "skipped stage must not execute")
}

func TestRunner_DryRunExecutesNothing(t *testing.T) {
	requireShell(t)

	marker := filepath.Join(t.TempDir(), "ran")
	var out bytes.Buffer
	r := &Runner{Out: &out, DryRun: true}

	report := r.Run(context.Background(), []Stage{
		shellStage("write", "touch "+marker),
	})

	assert.True(t, report.Passed())
	assert.Equal(t, StatusSkipped, report.Results[0].Status)

	_, err := os.Stat(marker)
	assert.True(t, os.IsNotExist(err), "dry run must not execute commands")

	// The command line is still printed for inspection.
	assert.Contains(t, out.String(), "touch "+marker)
}

func TestRunner_FailOnOutput(t *testing.T) {
	requireShell(t)

	t.Run("non-empty output fails despite exit zero", func(t *testing.T) {
		var out bytes.Buffer
		r := &Runner{Out: &out}

		stage := shellStage("fmt", "echo unformatted.go")
		stage.FailOnOutput = true

		report := r.Run(context.Background(), []Stage{stage})
		assert.False(t, report.Passed())
		assert.Contains(t, report.Results[0].Detail, "unformatted.go")
	})

	t.Run("empty output passes", func(t *testing.T) {
		var out bytes.Buffer
		r := &Runner{Out: &out}

		stage := shellStage("fmt", "exit 0")
		stage.FailOnOutput = true

		report := r.Run(context.Background(), []Stage{stage})
		assert.True(t, report.Passed())
	})
}

func TestRunner_StageEnvVisibleToChild(t *testing.T) {
	requireShell(t)

	var out bytes.Buffer
	r := &Runner{Out: &out}

	stage := shellStage("env", `test "$GAUNTLET_QUICK" = true`)
	stage.Env = []string{"GAUNTLET_QUICK=true"}

	report := r.Run(context.Background(), []Stage{stage})
	assert.True(t, report.Passed())
}

func TestRunner_WorkingDirectory(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	var out bytes.Buffer
	r := &Runner{Out: &out, Dir: dir}

	report := r.Run(context.Background(), []Stage{
		shellStage("mark", "touch here"),
	})
	require.True(t, report.Passed())

	_, err := os.Stat(filepath.Join(dir, "here"))
	assert.NoError(t, err)
}

func TestRunner_ChildOutputStreams(t *testing.T) {
	requireShell(t)

	var out bytes.Buffer
	r := &Runner{Out: &out}

	r.Run(context.Background(), []Stage{
		shellStage("talk", "echo hello from child"),
	})
	assert.Contains(t, out.String(), "hello from child")
}
