package paths

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigDirPrecedence(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/from-env")
		dir, err := ResolveConfigDir("flag-dir")
		require.NoError(t, err)
		abs, _ := filepath.Abs("flag-dir")
		assert.Equal(t, abs, dir)
	})

	t.Run("env wins over default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/from-env")
		dir, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, "/from-env", dir)
	})
}

func TestResolveDataDirPrecedence(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvDataDir, "/from-env")
		dir, err := ResolveDataDir("flag-dir", "/from-config")
		require.NoError(t, err)
		abs, _ := filepath.Abs("flag-dir")
		assert.Equal(t, abs, dir)
	})

	t.Run("config wins over env", func(t *testing.T) {
		t.Setenv(EnvDataDir, "/from-env")
		dir, err := ResolveDataDir("", "/from-config")
		require.NoError(t, err)
		assert.Equal(t, "/from-config", dir)
	})

	t.Run("env wins over default", func(t *testing.T) {
		t.Setenv(EnvDataDir, "/from-env")
		dir, err := ResolveDataDir("", "")
		require.NoError(t, err)
		assert.Equal(t, "/from-env", dir)
	})

	t.Run("defaults to cwd-relative dir", func(t *testing.T) {
		t.Setenv(EnvDataDir, "")
		dir, err := ResolveDataDir("", "")
		require.NoError(t, err)
		assert.Equal(t, DefaultDataDirName, filepath.Base(dir))
	})
}

func TestDefaultConfigDirLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-specific layout")
	}

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/xdg/taskboard", dir)
}
