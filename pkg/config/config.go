package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the settings for the media toolkit.
type Config struct {
	// FFmpegPath pins the engine binary explicitly. When empty the binary
	// is looked up on PATH and, failing that, fetched from DownloadBaseURL.
	FFmpegPath string `mapstructure:"ffmpeg_path"`

	// DownloadBaseURL is the fixed base location the engine's resource
	// blobs (the ffmpeg and ffprobe binaries) are fetched from when no
	// local binary can be found. Empty disables downloading.
	DownloadBaseURL string `mapstructure:"download_base_url"`

	// BinCacheDir is where downloaded engine resources are kept.
	BinCacheDir string `mapstructure:"bin_cache_dir"`

	// StagingDir is the parent directory for the engine's private staging
	// filesystem. Defaults to the OS temp dir.
	StagingDir string `mapstructure:"staging_dir"`

	LogLevel string `mapstructure:"log_level"`

	// ProbeEncoders controls whether encoder availability is discovered at
	// load time. When false all codecs are assumed present.
	ProbeEncoders bool `mapstructure:"probe_encoders"`
}

// Load initializes Viper and merges all config sources. A missing config
// file is fine; environment variables (MEDIAKIT_*) still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Every key needs a default registered, or Unmarshal won't see its
	// environment override.
	v.SetDefault("ffmpeg_path", "")
	v.SetDefault("download_base_url", "")
	v.SetDefault("staging_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("probe_encoders", true)
	v.SetDefault("bin_cache_dir", filepath.Join(os.TempDir(), "mediakit-bin"))

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			// It's okay if the config file is missing; we might use Env vars.
		}
	}

	v.SetEnvPrefix("MEDIAKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	err := v.Unmarshal(&cfg)
	return &cfg, err
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	cfg, _ := Load("")
	return cfg
}
