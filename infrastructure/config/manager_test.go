package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"video2audio/domain/audio"
)

func TestConfigManager_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		check   func(c *Config) bool
		wantErr error
	}{
		{"format", "defaults.format", "flac", func(c *Config) bool { return c.Defaults.Format == "flac" }, nil},
		{"key is case-insensitive", "Defaults.Channels", "1", func(c *Config) bool { return c.Defaults.Channels == 1 }, nil},
		{"overwrite", "defaults.overwrite", "true", func(c *Config) bool { return c.Defaults.Overwrite }, nil},
		{"timeout", "ffmpeg.probe_timeout", "45s", func(c *Config) bool { return c.FFmpeg.ProbeTimeout == 45*time.Second }, nil},
		{"output dir", "paths.output_directory", " /srv/audio ", func(c *Config) bool { return c.Paths.OutputDirectory == "/srv/audio" }, nil},
		{"unknown key", "email.from", "x", nil, ErrUnknownKey},
		{"bad format", "defaults.format", "ogg", nil, audio.ErrUnsupportedFormat},
		{"bad channels", "defaults.channels", "5", nil, audio.ErrInvalidArgument},
		{"not a number", "defaults.sample_rate", "fast", nil, ErrInvalidValue},
		{"bad rotation", "logging.max_size_mb", "0", nil, ErrInvalidValue},
		{"bad duration", "ffmpeg.probe_timeout", "-1s", nil, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "video2audio.yaml")
			cfg := Default()
			mgr := NewConfigManager(cfg, path)

			err := mgr.Set(tt.key, tt.value)

			if tt.check == nil {
				if err == nil {
					t.Fatal("Set() expected error")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("Set() error = %v, want %v", err, tt.wantErr)
				}
				if *cfg != *Default() {
					t.Errorf("config changed after failed Set(): %+v", cfg)
				}
				return
			}

			if err != nil {
				t.Fatalf("Set() unexpected error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("in-memory config not updated: %+v", cfg)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if !tt.check(loaded) {
				t.Errorf("saved config not updated: %+v", loaded)
			}
		})
	}
}

func TestConfigManager_ListAndGet(t *testing.T) {
	mgr := NewConfigManager(Default(), "")

	entries := mgr.List()
	if len(entries) != len(Keys()) {
		t.Fatalf("List() returned %d entries, want %d", len(entries), len(Keys()))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key >= entries[i].Key {
			t.Errorf("List() not sorted at %d: %s >= %s", i, entries[i-1].Key, entries[i].Key)
		}
	}

	v, err := mgr.Get("defaults.sample_rate")
	if err != nil || v != "44100" {
		t.Errorf("Get(defaults.sample_rate) = %q, %v; want 44100", v, err)
	}
	if _, err := mgr.Get("nope"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get(nope) error = %v, want ErrUnknownKey", err)
	}
}
