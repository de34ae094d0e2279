//go:build mage

// Package main provides build targets for the gauntlet project using Mage.
//
// Usage:
//
//	mage build            Compile gauntlet binary to bin/
//	mage test             Run all tests (unit + integration)
//	mage testUnit         Run only unit tests (exclude integration)
//	mage testIntegration  Run only integration tests (builds first)
//	mage lint             Run golangci-lint
//	mage clean            Remove build artifacts
//	mage install          Install gauntlet to GOPATH/bin
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/mesh-intelligence/gauntlet/internal/toolchain"
)

const (
	binaryName     = "gauntlet"
	binaryDir      = "bin"
	cmdDir         = "./cmd/gauntlet"
	integrationDir = "tests"
)

// Build compiles the gauntlet binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(toolchain.BinGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests (unit and integration).
func Test() error {
	return sh.RunV(toolchain.BinGo, "test", "./...")
}

// TestUnit runs only unit tests, excluding the integration tree. Uses
// the same package filtering as `gauntlet run`.
func TestUnit() error {
	pkgs, err := toolchain.UnitPackages("./...", integrationDir)
	if err != nil {
		return err
	}
	if len(pkgs) == 0 {
		fmt.Println("No unit test packages found.")
		return nil
	}
	args := append([]string{"test"}, pkgs...)
	return sh.RunV(toolchain.BinGo, args...)
}

// TestIntegration builds first, then runs only integration tests.
func TestIntegration() error {
	mg.Deps(Build)
	return sh.RunV(toolchain.BinGo, "test", "./"+integrationDir+"/...")
}

// Lint runs golangci-lint.
func Lint() error {
	if !toolchain.Installed(toolchain.BinLint) {
		return fmt.Errorf("%s not on PATH; install it or run `gauntlet fetch-tools`", toolchain.BinLint)
	}
	return sh.RunV(toolchain.BinLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(toolchain.BinGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(toolchain.BinGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
