package audio

import (
	"path/filepath"
	"testing"
)

func TestResolveDestination_ExtensionMatchesFormat(t *testing.T) {
	sources := []string{"/videos/talk.mp4", "clip.MKV", "/a/b/c.d/movie.final.mov", "noext"}

	for _, f := range Formats() {
		for _, src := range sources {
			got := ResolveDestination(src, "", f)
			if ext := filepath.Ext(got); ext != "."+string(f) {
				t.Errorf("ResolveDestination(%q, %q) extension = %q, want %q", src, f, ext, "."+string(f))
			}
		}
	}
}

func TestResolveDestination(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		destDir string
		format  Format
		want    string
	}{
		{"same directory", "/videos/talk.mp4", "", FormatWAV, "/videos/talk.wav"},
		{"output directory", "/videos/talk.mp4", "/audio", FormatMP3, "/audio/talk.mp3"},
		{"keeps inner dots", "/videos/talk.v2.mov", "", FormatFLAC, "/videos/talk.v2.flac"},
		{"relative source", "talk.mp4", "", FormatAAC, "talk.aac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDestination(tt.source, tt.destDir, tt.format)
			if got != tt.want {
				t.Errorf("ResolveDestination() = %q, want %q", got, tt.want)
			}
			if again := ResolveDestination(tt.source, tt.destDir, tt.format); again != got {
				t.Errorf("ResolveDestination() not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestIsSupportedVideo(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.mp4", true},
		{"a.MP4", true},
		{"a.avi", true},
		{"a.mov", true},
		{"a.mkv", true},
		{"a.flv", true},
		{"a.wmv", true},
		{"a.m4v", true},
		{"a.3gp", true},
		{"a.wav", false},
		{"a.txt", false},
		{"mp4", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsSupportedVideo(tt.path); got != tt.want {
				t.Errorf("IsSupportedVideo(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestMirroredDir(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		destRoot string
		src      string
		want     string
	}{
		{"no destination", "/videos", "", "/videos/a/b.mp4", ""},
		{"top level", "/videos", "/audio", "/videos/b.mp4", "/audio"},
		{"nested", "/videos", "/audio", "/videos/2026/jan/b.mp4", "/audio/2026/jan"},
		{"outside root", "/videos", "/audio", "/elsewhere/b.mp4", "/audio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MirroredDir(filepath.FromSlash(tt.root), filepath.FromSlash(tt.destRoot), filepath.FromSlash(tt.src))
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("MirroredDir() = %q, want %q", got, tt.want)
			}
		})
	}
}
