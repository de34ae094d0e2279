// Minimum toolchain version gate. This check runs before any stage so a
// stale host toolchain fails with one clear message instead of an
// obscure build error.
package toolchain

import (
	"fmt"
	"os/exec"
	"strings"
)

// Minimum Go release gauntlet supports.
const (
	MinGoMajor = 1
	MinGoMinor = 24
)

// ParseGoVersion extracts major and minor from a GOVERSION string such
// as "go1.25.7" or "go1.24rc1". ok is false when the string does not
// start with a parsable go version.
func ParseGoVersion(s string) (major, minor int, ok bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "go")
	if s == "" {
		return 0, 0, false
	}

	// Stop at the first character that is neither a digit nor a dot, so
	// suffixes like "rc1" or "beta2" do not break parsing.
	end := len(s)
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			end = i
			break
		}
	}

	parts := strings.Split(s[:end], ".")
	if len(parts) < 2 {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &major); err != nil {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &minor); err != nil {
		return 0, 0, false
	}
	return major, minor, true
}

// VersionOK reports whether the given version satisfies the minimum.
func VersionOK(major, minor int) bool {
	if major != MinGoMajor {
		return major > MinGoMajor
	}
	return minor >= MinGoMinor
}

// CheckHostVersion queries the host go tool and returns an error when it
// is older than the supported minimum.
func CheckHostVersion() error {
	argv := GoEnvVersion()
	out, err := exec.Command(argv[0], argv[1:]...).Output()
	if err != nil {
		return fmt.Errorf("querying go version: %w", err)
	}

	version := strings.TrimSpace(string(out))
	major, minor, ok := ParseGoVersion(version)
	if !ok {
		return fmt.Errorf("unrecognized go version %q", version)
	}
	if !VersionOK(major, minor) {
		return fmt.Errorf("gauntlet requires go %d.%d or newer, host has %s",
			MinGoMajor, MinGoMinor, version)
	}
	return nil
}
