package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestFileSink_AppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "conversion.log")

	sink, err := NewFileSink(FileSinkOptions{Path: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("NewFileSink() unexpected error: %v", err)
	}
	sink.Append("started: /v/talk.mp4 -> /v/talk.wav")
	sink.Append("succeeded: /v/talk.mp4 -> /v/talk.wav (120 ms)")
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	// A second sink must append, not truncate
	sink, err = NewFileSink(FileSinkOptions{Path: path})
	if err != nil {
		t.Fatalf("NewFileSink() reopen: %v", err)
	}
	sink.Append("skipped: /v/talk.mp4 (output exists)")
	sink.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("log has %d lines, want 3:\n%s", len(lines), data)
	}
	for i, want := range []string{"started:", "succeeded:", "skipped:"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
		if !strings.Contains(lines[i], "INFO") {
			t.Errorf("line %d = %q, want a level", i, lines[i])
		}
	}
}

func TestFileSink_Echo(t *testing.T) {
	var echo bytes.Buffer
	sink, err := NewFileSink(FileSinkOptions{Path: filepath.Join(t.TempDir(), "c.log"), Echo: &echo})
	if err != nil {
		t.Fatalf("NewFileSink() unexpected error: %v", err)
	}
	sink.Append("failed: /v/silent.mp4: no audio track")
	sink.Close()

	if !strings.Contains(echo.String(), "failed: /v/silent.mp4: no audio track") {
		t.Errorf("echo = %q, want the appended line", echo.String())
	}
}

func TestFileSink_RequiresPath(t *testing.T) {
	if _, err := NewFileSink(FileSinkOptions{}); err == nil {
		t.Error("NewFileSink() without a path should fail")
	}
}

func TestMultiSink(t *testing.T) {
	var a, b bytes.Buffer
	m := MultiSink{NewWriterSink(&a), NewWriterSink(&b)}

	m.Append("batch 01H started: /videos (2 files)")

	for name, buf := range map[string]*bytes.Buffer{"a": &a, "b": &b} {
		if buf.String() != "batch 01H started: /videos (2 files)\n" {
			t.Errorf("sink %s = %q", name, buf.String())
		}
	}
}

func TestNew(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		log, err := New(verbose)
		if err != nil {
			t.Fatalf("New(%v) unexpected error: %v", verbose, err)
		}
		if got := log.Core().Enabled(zap.DebugLevel); got != verbose {
			t.Errorf("New(%v) debug enabled = %v", verbose, got)
		}
	}
}
