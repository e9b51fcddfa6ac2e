package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"video2audio/infrastructure/config"
)

func TestRunConfigList(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.OutputDirectory = "/srv/audio"
	var out bytes.Buffer

	if err := RunConfigListWithDependencies(cfg, "video2audio.yaml", &out); err != nil {
		t.Fatalf("RunConfigListWithDependencies() unexpected error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Config file: video2audio.yaml",
		"KEY",
		"defaults.format",
		"wav",
		"paths.output_directory",
		"/srv/audio",
		"ffmpeg.probe_timeout",
		"30s",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunConfigGet(t *testing.T) {
	var out bytes.Buffer
	if err := RunConfigGetWithDependencies(config.Default(), "", "defaults.channels", &out); err != nil {
		t.Fatalf("RunConfigGetWithDependencies() unexpected error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "2" {
		t.Errorf("output = %q, want 2", out.String())
	}

	err := RunConfigGetWithDependencies(config.Default(), "", "email.from", &out)
	if ExitCode(err) != 2 {
		t.Errorf("ExitCode(unknown key) = %d, want 2 (err %v)", ExitCode(err), err)
	}
}

func TestRunConfigSet(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		wantCode int
	}{
		{"valid format", "defaults.format", "mp3", 0},
		{"unsupported format", "defaults.format", "ogg", 2},
		{"unknown key", "smtp.host", "x", 2},
		{"not a number", "defaults.sample_rate", "high", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "video2audio.yaml")
			var out bytes.Buffer

			err := RunConfigSetWithDependencies(config.Default(), path, tt.key, tt.value, &out)

			if code := ExitCode(err); code != tt.wantCode {
				t.Fatalf("ExitCode() = %d, want %d (err %v)", code, tt.wantCode, err)
			}
			if tt.wantCode != 0 {
				return
			}
			if !strings.Contains(out.String(), "Set defaults.format = mp3") {
				t.Errorf("output = %q", out.String())
			}
			loaded, err := config.Load(path)
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if loaded.Defaults.Format != "mp3" {
				t.Errorf("saved format = %q, want mp3", loaded.Defaults.Format)
			}
		})
	}
}
