package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formstate/internal/config"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	assert.Equal(t, &config.Config{
		Output:    "json",
		LogLevel:  "warn",
		LogFormat: "console",
	}, cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formstate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("definition: signup.yaml\noutput: pretty\nmax_attempts: 3\n"), 0o644))
	t.Setenv("FORMSTATE_LOG_LEVEL", "debug")

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "signup.yaml", cfg.Definition)
	assert.Equal(t, "pretty", cfg.Output)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_DiscoversFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "formstate.yaml"), []byte("output: form\n"), 0o644))
	chdir(t, dir)

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "form", cfg.Output)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
