package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCacheDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CACHE_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
		got, err := DefaultCacheDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-cache/gauntlet", got)
	})

	t.Run("falls back to ~/.cache when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultCacheDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".cache", "gauntlet"), got)
	})
}

func TestDefaultCacheDir_Darwin(t *testing.T) {
	if runtime.GOOS != "darwin" {
		t.Skip("darwin-only test")
	}

	got, err := DefaultCacheDir()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Library", "Caches", "gauntlet"), got)
}

func TestResolveConfigDir(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name   string
		flag   string
		envVal string
		want   string
	}{
		{
			name:   "flag wins over env",
			flag:   "/explicit/config",
			envVal: "/env/config",
			want:   "/explicit/config",
		},
		{
			name:   "env wins when flag empty",
			flag:   "",
			envVal: "/env/config",
			want:   "/env/config",
		},
		{
			name:   "CWD default when both empty",
			flag:   "",
			envVal: "",
			want:   filepath.Join(cwd, DefaultConfigDirName),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCacheDir(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		envVal  string
		wantSub string // substring the result must contain
	}{
		{
			name:    "flag wins over env",
			flag:    "/explicit/cache",
			envVal:  "/env/cache",
			wantSub: "/explicit/cache",
		},
		{
			name:    "env wins when flag empty",
			flag:    "",
			envVal:  "/env/cache",
			wantSub: "/env/cache",
		},
		{
			name:    "platform default when both empty",
			flag:    "",
			envVal:  "",
			wantSub: "gauntlet",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvCacheDir, tt.envVal)
			got, err := ResolveCacheDir(tt.flag)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantSub)
		})
	}
}

func TestResolveDirs_AbsolutePath(t *testing.T) {
	t.Run("relative config flag becomes absolute", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		got, err := ResolveConfigDir("relative/path")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("relative cache env becomes absolute", func(t *testing.T) {
		t.Setenv(EnvCacheDir, "relative/env")
		got, err := ResolveCacheDir("")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})
}

func TestArtifactPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("/proj", "coverage.out"), CoveragePath("/proj"))
	assert.Equal(t, filepath.Join("/cache", "history.db"), HistoryDBPath("/cache"))
	assert.Equal(t, filepath.Join("/cache", "tools"), ToolBinDir("/cache"))
}
