// Package integration provides CLI integration tests for gauntlet.
package integration

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// gauntletBin is the path to the built gauntlet binary.
	gauntletBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// TestEnv provides an isolated test environment: a fixture project to
// run gauntlet against, plus private config and cache directories.
type TestEnv struct {
	t          *testing.T
	ProjectDir string
	ConfigDir  string
	CacheDir   string
}

// RunResult holds the outcome of one gauntlet invocation.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// fixtureMain is a minimal, gofmt-clean program for the fixture module.
const fixtureMain = `package main

import "fmt"

func main() {
	fmt.Println("fixture")
}
`

const fixtureGoMod = `module example.com/fixture

go 1.24
`

// NewTestEnv creates an isolated environment with a buildable fixture
// module.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build gauntlet: %v", buildErr)
	}
	if gauntletBin == "" {
		t.Fatal("gauntlet binary not built (gauntletBin is empty)")
	}

	tmp := t.TempDir()
	env := &TestEnv{
		t:          t,
		ProjectDir: filepath.Join(tmp, "project"),
		ConfigDir:  filepath.Join(tmp, "config"),
		CacheDir:   filepath.Join(tmp, "cache"),
	}

	if err := os.MkdirAll(env.ProjectDir, 0o755); err != nil {
		t.Fatalf("create project dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(env.ProjectDir, "go.mod"), []byte(fixtureGoMod), 0o644); err != nil {
		t.Fatalf("write fixture go.mod: %v", err)
	}
	if err := os.WriteFile(filepath.Join(env.ProjectDir, "main.go"), []byte(fixtureMain), 0o644); err != nil {
		t.Fatalf("write fixture main.go: %v", err)
	}

	return env
}

// RunGauntlet runs the gauntlet binary with the given args inside the
// fixture project.
func (e *TestEnv) RunGauntlet(args ...string) RunResult {
	e.t.Helper()

	cmd := exec.Command(gauntletBin, args...)
	cmd.Dir = e.ProjectDir
	cmd.Env = append(os.Environ(),
		"GAUNTLET_CONFIG_DIR="+e.ConfigDir,
		"GAUNTLET_CACHE_DIR="+e.CacheDir,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := RunResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("running gauntlet %v: %v", args, err)
		}
	}
	return result
}

// MustRunGauntlet runs gauntlet and fails the test on non-zero exit.
func (e *TestEnv) MustRunGauntlet(args ...string) RunResult {
	e.t.Helper()

	result := e.RunGauntlet(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("gauntlet %v exited %d\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}
