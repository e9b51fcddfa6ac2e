package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"video2audio/domain/audio"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when --config is not given
const DefaultPath = "video2audio.yaml"

// Environment variables that override file values
const (
	EnvFFmpegPath  = "VIDEO2AUDIO_FFMPEG"
	EnvFFprobePath = "VIDEO2AUDIO_FFPROBE"
	EnvLogFile     = "VIDEO2AUDIO_LOG_FILE"
)

// Config represents the complete application configuration
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Paths    PathsConfig    `yaml:"paths"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DefaultsConfig contains the encoding parameters used when no flag overrides them
type DefaultsConfig struct {
	Format     string `yaml:"format"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
	Bitrate    string `yaml:"bitrate,omitempty"`
	Overwrite  bool   `yaml:"overwrite"`
}

// PathsConfig contains output locations
type PathsConfig struct {
	OutputDirectory string `yaml:"output_directory,omitempty"`
	LogFile         string `yaml:"log_file"`
}

// FFmpegConfig contains media backend settings
type FFmpegConfig struct {
	FFmpegPath   string        `yaml:"ffmpeg_path"`
	FFprobePath  string        `yaml:"ffprobe_path"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

// LoggingConfig contains log file rotation settings
type LoggingConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	Compress   bool `yaml:"compress"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Format:     string(audio.DefaultFormat),
			SampleRate: audio.DefaultSampleRate,
			Channels:   int(audio.DefaultChannels),
		},
		Paths: PathsConfig{
			LogFile: "conversion.log",
		},
		FFmpeg: FFmpegConfig{
			FFmpegPath:   "ffmpeg",
			FFprobePath:  "ffprobe",
			ProbeTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads the configuration from the specified YAML file. Values missing from the
// file keep their defaults; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads variables from .env files into the process environment.
// Variables already set are not overwritten. Missing files are ignored.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ApplyEnv overrides file values with the VIDEO2AUDIO_* environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvFFmpegPath); v != "" {
		c.FFmpeg.FFmpegPath = v
	}
	if v := os.Getenv(EnvFFprobePath); v != "" {
		c.FFmpeg.FFprobePath = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Paths.LogFile = v
	}
}

// Validate checks the default encoding parameters
func (c *Config) Validate() error {
	_, err := c.EncodingParams()
	return err
}

// EncodingParams converts the defaults section into domain parameters
func (c *Config) EncodingParams() (audio.EncodingParams, error) {
	format, err := audio.ParseFormat(c.Defaults.Format)
	if err != nil {
		return audio.EncodingParams{}, err
	}
	params := audio.EncodingParams{
		Format:     format,
		SampleRate: c.Defaults.SampleRate,
		Channels:   audio.Channels(c.Defaults.Channels),
		Bitrate:    c.Defaults.Bitrate,
		Overwrite:  c.Defaults.Overwrite,
	}
	if err := params.Validate(); err != nil {
		return audio.EncodingParams{}, err
	}
	return params, nil
}
