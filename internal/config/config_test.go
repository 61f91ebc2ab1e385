package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReturnsDefaultsWithNoFileOrEnv(t *testing.T) {
	cfg, err := Load(t.TempDir(), nil)
	require.NoError(t, err)
	assert.True(t, cfg.RememberDevice)
	assert.Equal(t, float64(3000), cfg.PollIntervalMs)
	assert.Equal(t, []string{"Walking", "KS"}, cfg.NamePrefixes)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("poll-interval-ms: 500\nremember-device: false\n"), 0o644))

	cfg, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(500), cfg.PollIntervalMs)
	assert.False(t, cfg.RememberDevice)
}

func TestLoadReadsEnvironmentOverride(t *testing.T) {
	t.Setenv("PADCTL_POLL_INTERVAL_MS", "750")
	cfg, err := Load(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, float64(750), cfg.PollIntervalMs)
}

func TestLoadFlagsOverrideFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("poll-interval-ms: 500\n"), 0o644))
	t.Setenv("PADCTL_POLL_INTERVAL_MS", "750")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--poll-interval-ms=250"}))

	cfg, err := Load(dir, fs)
	require.NoError(t, err)
	assert.Equal(t, float64(250), cfg.PollIntervalMs)
}
