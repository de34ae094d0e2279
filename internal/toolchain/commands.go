// Package toolchain builds the external tool invocations that the
// pipeline executes and probes the host toolchain for availability and
// version.
package toolchain

import (
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Binary names.
const (
	BinGo     = "go"
	BinGofmt  = "gofmt"
	BinLint   = "golangci-lint"
	BinStatic = "staticcheck"
)

// BuildArgs returns the compile invocation for the package pattern.
func BuildArgs(packages string, jobs int) []string {
	args := []string{BinGo, "build"}
	if jobs > 0 {
		args = append(args, "-p", strconv.Itoa(jobs))
	}
	return append(args, packages)
}

// VetArgs returns the go vet invocation for the package pattern.
func VetArgs(packages string) []string {
	return []string{BinGo, "vet", packages}
}

// FmtCheckArgs returns the gofmt invocation that lists files needing
// formatting. gofmt exits zero even when files are listed, so the stage
// fails on non-empty output rather than on exit status.
func FmtCheckArgs() []string {
	return []string{BinGofmt, "-l", "."}
}

// FmtFixArgs returns the gofmt invocation that rewrites files in place.
func FmtFixArgs() []string {
	return []string{BinGofmt, "-w", "."}
}

// LintArgs returns the golangci-lint invocation. bin allows the caller
// to point at a fetched binary instead of whatever is on PATH.
func LintArgs(bin, packages string) []string {
	return []string{bin, "run", packages}
}

// StaticArgs returns the staticcheck invocation.
func StaticArgs(packages string) []string {
	return []string{BinStatic, packages}
}

// UnitTestArgs returns the unit test invocation over the given package
// list. Quick mode adds -short; a non-empty coverFile adds a coverage
// profile; jobs caps package-level parallelism.
func UnitTestArgs(packages []string, quick bool, coverFile string, jobs int) []string {
	args := []string{BinGo, "test"}
	if quick {
		args = append(args, "-short")
	}
	if coverFile != "" {
		args = append(args, "-coverprofile", coverFile)
	}
	if jobs > 0 {
		args = append(args, "-p", strconv.Itoa(jobs))
	}
	return append(args, packages...)
}

// IntegrationTestArgs returns the invocation for the integration tree.
func IntegrationTestArgs(integrationDir string) []string {
	return []string{BinGo, "test", "./" + filepath.ToSlash(integrationDir) + "/..."}
}

// CoverArgs returns the per-function coverage summary invocation.
func CoverArgs(coverFile string) []string {
	return []string{BinGo, "tool", "cover", "-func", coverFile}
}

// GoEnvVersion returns the `go env GOVERSION` invocation.
func GoEnvVersion() []string {
	return []string{BinGo, "env", "GOVERSION"}
}

// UnitPackages lists the packages matched by pattern, excluding the
// integration directory so `run` without --net stays offline.
func UnitPackages(pattern, integrationDir string) ([]string, error) {
	out, err := exec.Command(BinGo, "list", pattern).Output()
	if err != nil {
		return nil, err
	}
	return filterUnitPackages(string(out), integrationDir), nil
}

// filterUnitPackages drops packages under the integration directory from
// a newline-separated `go list` output.
func filterUnitPackages(out, integrationDir string) []string {
	var pkgs []string
	for _, pkg := range strings.Split(out, "\n") {
		pkg = strings.TrimSpace(pkg)
		if pkg == "" {
			continue
		}
		if strings.Contains(pkg, "/"+integrationDir+"/") || strings.HasSuffix(pkg, "/"+integrationDir) {
			continue
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs
}

// LookupLint returns the golangci-lint binary to use: a fetched binary
// under toolBinDir when present, otherwise the PATH lookup. The second
// return is false when neither exists.
func LookupLint(toolBinDir string) (string, bool) {
	cached := filepath.Join(toolBinDir, lintBinaryName())
	if _, err := exec.LookPath(cached); err == nil {
		return cached, true
	}
	if path, err := exec.LookPath(BinLint); err == nil {
		return path, true
	}
	return "", false
}

// Installed reports whether the named binary is on PATH.
func Installed(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}
