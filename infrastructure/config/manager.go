package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnknownKey is returned for a setting name that does not exist
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a value cannot be parsed for its key
	ErrInvalidValue = errors.New("invalid config value")
)

// setting binds a dotted key to a field of Config
type setting struct {
	get func(c *Config) string
	set func(c *Config, value string) error
}

func intSetter(field func(c *Config) *int) func(c *Config, value string) error {
	return func(c *Config, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%q is not a number", value)
		}
		*field(c) = n
		return nil
	}
}

func boolSetter(field func(c *Config) *bool) func(c *Config, value string) error {
	return func(c *Config, value string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%q is not true or false", value)
		}
		*field(c) = b
		return nil
	}
}

func stringSetter(field func(c *Config) *string) func(c *Config, value string) error {
	return func(c *Config, value string) error {
		*field(c) = strings.TrimSpace(value)
		return nil
	}
}

var settings = map[string]setting{
	"defaults.format": {
		get: func(c *Config) string { return c.Defaults.Format },
		set: stringSetter(func(c *Config) *string { return &c.Defaults.Format }),
	},
	"defaults.sample_rate": {
		get: func(c *Config) string { return strconv.Itoa(c.Defaults.SampleRate) },
		set: intSetter(func(c *Config) *int { return &c.Defaults.SampleRate }),
	},
	"defaults.channels": {
		get: func(c *Config) string { return strconv.Itoa(c.Defaults.Channels) },
		set: intSetter(func(c *Config) *int { return &c.Defaults.Channels }),
	},
	"defaults.bitrate": {
		get: func(c *Config) string { return c.Defaults.Bitrate },
		set: stringSetter(func(c *Config) *string { return &c.Defaults.Bitrate }),
	},
	"defaults.overwrite": {
		get: func(c *Config) string { return strconv.FormatBool(c.Defaults.Overwrite) },
		set: boolSetter(func(c *Config) *bool { return &c.Defaults.Overwrite }),
	},
	"paths.output_directory": {
		get: func(c *Config) string { return c.Paths.OutputDirectory },
		set: stringSetter(func(c *Config) *string { return &c.Paths.OutputDirectory }),
	},
	"paths.log_file": {
		get: func(c *Config) string { return c.Paths.LogFile },
		set: stringSetter(func(c *Config) *string { return &c.Paths.LogFile }),
	},
	"ffmpeg.ffmpeg_path": {
		get: func(c *Config) string { return c.FFmpeg.FFmpegPath },
		set: stringSetter(func(c *Config) *string { return &c.FFmpeg.FFmpegPath }),
	},
	"ffmpeg.ffprobe_path": {
		get: func(c *Config) string { return c.FFmpeg.FFprobePath },
		set: stringSetter(func(c *Config) *string { return &c.FFmpeg.FFprobePath }),
	},
	"ffmpeg.probe_timeout": {
		get: func(c *Config) string { return c.FFmpeg.ProbeTimeout.String() },
		set: func(c *Config, value string) error {
			d, err := time.ParseDuration(strings.TrimSpace(value))
			if err != nil || d <= 0 {
				return fmt.Errorf("%q is not a positive duration", value)
			}
			c.FFmpeg.ProbeTimeout = d
			return nil
		},
	},
	"logging.max_size_mb": {
		get: func(c *Config) string { return strconv.Itoa(c.Logging.MaxSizeMB) },
		set: intSetter(func(c *Config) *int { return &c.Logging.MaxSizeMB }),
	},
	"logging.max_backups": {
		get: func(c *Config) string { return strconv.Itoa(c.Logging.MaxBackups) },
		set: intSetter(func(c *Config) *int { return &c.Logging.MaxBackups }),
	},
	"logging.compress": {
		get: func(c *Config) string { return strconv.FormatBool(c.Logging.Compress) },
		set: boolSetter(func(c *Config) *bool { return &c.Logging.Compress }),
	},
}

// Entry is one setting and its current value
type Entry struct {
	Key   string
	Value string
}

// ConfigManager reads and updates individual settings of a config file
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Keys returns every settable key, sorted
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns all settings sorted by key
func (m *ConfigManager) List() []Entry {
	entries := make([]Entry, 0, len(settings))
	for _, k := range Keys() {
		entries = append(entries, Entry{Key: k, Value: settings[k].get(m.config)})
	}
	return entries
}

// Get returns the value of one setting
func (m *ConfigManager) Get(key string) (string, error) {
	s, ok := settings[strings.ToLower(key)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return s.get(m.config), nil
}

// Set updates one setting, validates the result and saves the file.
// The in-memory config is left unchanged when validation fails.
func (m *ConfigManager) Set(key, value string) error {
	s, ok := settings[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	updated := *m.config
	if err := s.set(&updated, value); err != nil {
		return fmt.Errorf("%w for %s: %v", ErrInvalidValue, key, err)
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	if updated.Logging.MaxSizeMB <= 0 || updated.Logging.MaxBackups < 0 {
		return fmt.Errorf("%w for %s: log rotation settings must be positive", ErrInvalidValue, key)
	}

	*m.config = updated
	return Save(m.config, m.configPath)
}
