package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.ProbeEncoders)
	assert.NotEmpty(t, cfg.BinCacheDir)
	assert.Empty(t, cfg.FFmpegPath)
	assert.Empty(t, cfg.DownloadBaseURL)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"ffmpeg_path: /usr/local/bin/ffmpeg\nlog_level: debug\nprobe_encoders: false\n",
	), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.ProbeEncoders)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MEDIAKIT_LOG_LEVEL", "warn")
	t.Setenv("MEDIAKIT_STAGING_DIR", "/var/tmp/mediakit")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/var/tmp/mediakit", cfg.StagingDir)
}
