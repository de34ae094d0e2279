// Pinned-binary fetcher for golangci-lint. Downloads the release archive
// for the host platform, verifies its sha256 against the configured pin,
// and installs the binary into the tool cache.
package toolchain

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Fetch errors.
var (
	ErrHashMismatch       = errors.New("downloaded archive hash mismatch")
	ErrBinaryNotInArchive = errors.New("binary not found in archive")
	ErrUnsupportedArchive = errors.New("unsupported archive format")
)

// DefaultLintBaseURL is the release download root for golangci-lint.
const DefaultLintBaseURL = "https://github.com/golangci/golangci-lint/releases/download"

// FetchOptions configures a FetchLint call.
type FetchOptions struct {
	// Version is the pinned golangci-lint release, without the "v" prefix.
	Version string
	// SHA256 is the expected archive hash. Empty skips verification;
	// Skipped in the result reports that this happened.
	SHA256 string
	// DestDir is where the binary is installed.
	DestDir string
	// BaseURL overrides the release download root. Empty uses
	// DefaultLintBaseURL.
	BaseURL string
}

// FetchResult describes what FetchLint did.
type FetchResult struct {
	// Path is the installed binary location.
	Path string
	// Cached is true when a previously installed binary was reused.
	Cached bool
	// Skipped is true when hash verification was skipped for lack of a pin.
	Skipped bool
}

// PlatformKey returns the <os>_<arch> key used for sha256 pins in
// config.yaml.
func PlatformKey() string {
	return runtime.GOOS + "_" + runtime.GOARCH
}

// lintBinaryName returns the installed binary file name for the host OS.
func lintBinaryName() string {
	if runtime.GOOS == "windows" {
		return BinLint + ".exe"
	}
	return BinLint
}

// lintArchiveName returns the release archive file name for the host
// platform. Windows releases ship as zip, everything else as tar.gz.
func lintArchiveName(version string) string {
	ext := "tar.gz"
	if runtime.GOOS == "windows" {
		ext = "zip"
	}
	return fmt.Sprintf("golangci-lint-%s-%s-%s.%s", version, runtime.GOOS, runtime.GOARCH, ext)
}

// lintArchiveURL returns the full download URL for the pinned release.
func lintArchiveURL(baseURL, version string) string {
	if baseURL == "" {
		baseURL = DefaultLintBaseURL
	}
	return fmt.Sprintf("%s/v%s/%s", baseURL, version, lintArchiveName(version))
}

// FetchLint ensures the pinned golangci-lint binary is installed under
// opts.DestDir. An already installed binary is reused only when its
// version stamp matches and, if a pin is configured, the install was
// verified against that same pin; a pin added after an unverified
// install forces a fresh download. On hash mismatch the downloaded
// artifact, the installed binary, and its stamp are deleted and
// ErrHashMismatch returned.
func FetchLint(ctx context.Context, opts FetchOptions) (FetchResult, error) {
	destBin := filepath.Join(opts.DestDir, lintBinaryName())
	stampPath := destBin + ".version"

	version, sum := installedStamp(stampPath, destBin)
	if version == opts.Version && (opts.SHA256 == "" || strings.EqualFold(sum, opts.SHA256)) {
		return FetchResult{Path: destBin, Cached: true}, nil
	}

	if err := os.MkdirAll(opts.DestDir, 0o755); err != nil {
		return FetchResult{}, fmt.Errorf("create tool dir: %w", err)
	}

	archivePath := filepath.Join(opts.DestDir, lintArchiveName(opts.Version))
	if err := download(ctx, lintArchiveURL(opts.BaseURL, opts.Version), archivePath); err != nil {
		return FetchResult{}, fmt.Errorf("download golangci-lint: %w", err)
	}
	defer os.Remove(archivePath)

	result := FetchResult{Path: destBin}
	if opts.SHA256 == "" {
		result.Skipped = true
	} else {
		actual, err := fileSHA256(archivePath)
		if err != nil {
			return FetchResult{}, fmt.Errorf("hash archive: %w", err)
		}
		if !strings.EqualFold(actual, opts.SHA256) {
			// Do not leave unverified artifacts behind, including a
			// binary from an earlier unpinned install.
			_ = os.Remove(archivePath)
			_ = os.Remove(destBin)
			_ = os.Remove(stampPath)
			return FetchResult{}, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, opts.SHA256, actual)
		}
	}

	if err := extractLintBinary(archivePath, destBin); err != nil {
		return FetchResult{}, fmt.Errorf("extract golangci-lint: %w", err)
	}

	stamp := opts.Version
	if opts.SHA256 != "" {
		stamp += " " + strings.ToLower(opts.SHA256)
	}
	if err := os.WriteFile(stampPath, []byte(stamp), 0o644); err != nil {
		return FetchResult{}, fmt.Errorf("write version stamp: %w", err)
	}

	return result, nil
}

// installedStamp returns the stamped version and archive hash of an
// installed binary. The hash is empty when the install was never
// verified; version is empty when the binary or stamp is missing.
func installedStamp(stampPath, binPath string) (version, sum string) {
	if _, err := os.Stat(binPath); err != nil {
		return "", ""
	}
	data, err := os.ReadFile(stampPath)
	if err != nil {
		return "", ""
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "", ""
	}
	version = fields[0]
	if len(fields) > 1 {
		sum = fields[1]
	}
	return version, sum
}

// download writes the body of url to path.
func download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// fileSHA256 returns the hex sha256 of the file at path.
func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// extractLintBinary pulls the golangci-lint binary out of the release
// archive and writes it to destBin with the executable bit set. Release
// archives nest the binary inside a versioned directory, so members are
// matched by base name.
func extractLintBinary(archivePath, destBin string) error {
	switch {
	case strings.HasSuffix(archivePath, ".tar.gz"):
		return extractFromTarGz(archivePath, destBin)
	case strings.HasSuffix(archivePath, ".zip"):
		return extractFromZip(archivePath, destBin)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedArchive, filepath.Base(archivePath))
	}
}

func extractFromTarGz(archivePath, destBin string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return ErrBinaryNotInArchive
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg || filepath.Base(hdr.Name) != lintBinaryName() {
			continue
		}
		return writeBinary(destBin, tr)
	}
}

func extractFromZip(archivePath, destBin string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, member := range zr.File {
		if member.FileInfo().IsDir() || filepath.Base(member.Name) != lintBinaryName() {
			continue
		}
		rc, err := member.Open()
		if err != nil {
			return err
		}
		writeErr := writeBinary(destBin, rc)
		rc.Close()
		return writeErr
	}
	return ErrBinaryNotInArchive
}

// writeBinary writes r to path with the executable bit set.
func writeBinary(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
