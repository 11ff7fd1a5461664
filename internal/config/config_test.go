package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingFallsBackToDefault(t *testing.T) {
	target, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultTarget, target)
}

func TestLoadFileParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pointer_size: 4\nint_size: 2\n"), 0o644))

	target, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), target.PointerSize)
	assert.Equal(t, uint64(2), target.IntSize)
}

func TestLoadEnvOverridesPointerSize(t *testing.T) {
	t.Setenv("LILYC_POINTER_SIZE", "4")
	target := LoadEnv(defaultTarget)
	assert.Equal(t, uint64(4), target.PointerSize)
}

func TestTargetPlatformConversion(t *testing.T) {
	p := defaultTarget.Platform()
	assert.Equal(t, uint64(8), p.PointerSize)
	assert.Equal(t, uint64(4), p.IntSize)
}

func TestBuildFromFlagsAppliesOverride(t *testing.T) {
	cfg, err := BuildFromFlags([]string{"--pointer-size=4", "--verbose"}, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), cfg.Target.PointerSize)
	assert.True(t, cfg.Verbose)
}
