package toolchain

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLintArchive builds a release-shaped tar.gz holding the lint binary
// inside a versioned directory, the way upstream archives are laid out.
func fakeLintArchive(t *testing.T, version string, binary []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	dir := fmt.Sprintf("golangci-lint-%s-%s-%s", version, runtime.GOOS, runtime.GOARCH)
	files := []struct {
		name string
		body []byte
		mode int64
	}{
		{name: dir + "/LICENSE", body: []byte("license text"), mode: 0o644},
		{name: dir + "/" + lintBinaryName(), body: binary, mode: 0o755},
	}
	for _, f := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     f.name,
			Mode:     f.mode,
			Size:     int64(len(f.body)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write(f.body)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func serveArchive(t *testing.T, version string, archive []byte) *httptest.Server {
	t.Helper()

	wantPath := fmt.Sprintf("/v%s/%s", version, lintArchiveName(version))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(archive)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchLint(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test fixture builds tar.gz archives")
	}

	const version = "2.1.6"
	binary := []byte("#!/bin/sh\necho fake golangci-lint\n")
	archive := fakeLintArchive(t, version, binary)

	t.Run("downloads, verifies, and installs", func(t *testing.T) {
		srv := serveArchive(t, version, archive)
		destDir := t.TempDir()

		result, err := FetchLint(context.Background(), FetchOptions{
			Version: version,
			SHA256:  sha256Hex(archive),
			DestDir: destDir,
			BaseURL: srv.URL,
		})
		require.NoError(t, err)
		assert.False(t, result.Cached)
		assert.False(t, result.Skipped)

		installed, err := os.ReadFile(result.Path)
		require.NoError(t, err)
		assert.Equal(t, binary, installed)

		info, err := os.Stat(result.Path)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&0o100, "binary must be executable")

		// Archive artifact is cleaned up after extraction.
		_, err = os.Stat(filepath.Join(destDir, lintArchiveName(version)))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("reuses installed binary without network", func(t *testing.T) {
		srv := serveArchive(t, version, archive)
		destDir := t.TempDir()

		opts := FetchOptions{
			Version: version,
			SHA256:  sha256Hex(archive),
			DestDir: destDir,
			BaseURL: srv.URL,
		}
		_, err := FetchLint(context.Background(), opts)
		require.NoError(t, err)

		// Second call must not hit the server.
		srv.Close()
		result, err := FetchLint(context.Background(), opts)
		require.NoError(t, err)
		assert.True(t, result.Cached)
	})

	t.Run("hash mismatch deletes artifact", func(t *testing.T) {
		srv := serveArchive(t, version, archive)
		destDir := t.TempDir()

		_, err := FetchLint(context.Background(), FetchOptions{
			Version: version,
			SHA256:  sha256Hex([]byte("something else")),
			DestDir: destDir,
			BaseURL: srv.URL,
		})
		require.ErrorIs(t, err, ErrHashMismatch)

		_, err = os.Stat(filepath.Join(destDir, lintArchiveName(version)))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(destDir, lintBinaryName()))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("pin added after unverified install forces verification", func(t *testing.T) {
		srv := serveArchive(t, version, archive)
		destDir := t.TempDir()

		first, err := FetchLint(context.Background(), FetchOptions{
			Version: version,
			DestDir: destDir,
			BaseURL: srv.URL,
		})
		require.NoError(t, err)
		assert.True(t, first.Skipped)

		// The unverified binary must not satisfy the new pin from cache.
		second, err := FetchLint(context.Background(), FetchOptions{
			Version: version,
			SHA256:  sha256Hex(archive),
			DestDir: destDir,
			BaseURL: srv.URL,
		})
		require.NoError(t, err)
		assert.False(t, second.Cached)
		assert.False(t, second.Skipped)

		// Once verified, the same pin is served from cache.
		srv.Close()
		third, err := FetchLint(context.Background(), FetchOptions{
			Version: version,
			SHA256:  sha256Hex(archive),
			DestDir: destDir,
			BaseURL: srv.URL,
		})
		require.NoError(t, err)
		assert.True(t, third.Cached)
	})

	t.Run("pin mismatch after unverified install deletes binary", func(t *testing.T) {
		srv := serveArchive(t, version, archive)
		destDir := t.TempDir()

		_, err := FetchLint(context.Background(), FetchOptions{
			Version: version,
			DestDir: destDir,
			BaseURL: srv.URL,
		})
		require.NoError(t, err)

		_, err = FetchLint(context.Background(), FetchOptions{
			Version: version,
			SHA256:  sha256Hex([]byte("something else")),
			DestDir: destDir,
			BaseURL: srv.URL,
		})
		require.ErrorIs(t, err, ErrHashMismatch)

		_, err = os.Stat(filepath.Join(destDir, lintBinaryName()))
		assert.True(t, os.IsNotExist(err), "unverified binary must not survive a failed pin")
		_, err = os.Stat(filepath.Join(destDir, lintBinaryName()+".version"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("empty pin skips verification", func(t *testing.T) {
		srv := serveArchive(t, version, archive)

		result, err := FetchLint(context.Background(), FetchOptions{
			Version: version,
			DestDir: t.TempDir(),
			BaseURL: srv.URL,
		})
		require.NoError(t, err)
		assert.True(t, result.Skipped)
	})

	t.Run("missing release reports status", func(t *testing.T) {
		srv := serveArchive(t, version, archive)

		_, err := FetchLint(context.Background(), FetchOptions{
			Version: "0.0.1",
			DestDir: t.TempDir(),
			BaseURL: srv.URL,
		})
		assert.Error(t, err)
	})
}

func TestExtractFromZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("golangci-lint-2.1.6-windows-amd64/" + lintBinaryName())
	require.NoError(t, err)
	_, err = w.Write([]byte("zip binary"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "lint.zip")
	require.NoError(t, os.WriteFile(archivePath, buf.Bytes(), 0o644))

	destBin := filepath.Join(dir, lintBinaryName())
	require.NoError(t, extractFromZip(archivePath, destBin))

	data, err := os.ReadFile(destBin)
	require.NoError(t, err)
	assert.Equal(t, "zip binary", string(data))
}

func TestExtractLintBinary_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "lint.rar")
	require.NoError(t, os.WriteFile(archivePath, []byte("not an archive"), 0o644))

	err := extractLintBinary(archivePath, filepath.Join(dir, "out"))
	assert.ErrorIs(t, err, ErrUnsupportedArchive)
}

func TestFileSHA256(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	got, err := fileSHA256(path)
	require.NoError(t, err)
	assert.Equal(t, sha256Hex([]byte("hello")), got)
}
