package audio

import (
	"context"
	"time"
)

// MediaHandle describes an opened source video
type MediaHandle struct {
	Path       string
	Container  string
	Duration   time.Duration
	Size       int64
	HasAudio   bool
	AudioCodec string
	SampleRate int
	Channels   int
}

// MediaBackend is the external decode/encode capability.
// This is a port that can be implemented by different infrastructure adapters.
type MediaBackend interface {
	// Open decodes the container at path and reports its audio track, if any
	Open(ctx context.Context, path string) (*MediaHandle, error)

	// WriteAudio encodes the handle's audio track to outputPath using params
	WriteAudio(ctx context.Context, handle *MediaHandle, outputPath string, params EncodingParams) error
}

// FileSystem defines the file operations the conversion engine needs
type FileSystem interface {
	// Exists returns true if the file exists
	Exists(path string) bool

	// Size returns the file size in bytes
	Size(path string) (int64, error)

	// EnsureDir creates dir and its parents if missing
	EnsureDir(dir string) error

	// Remove deletes a file; a missing file is not an error
	Remove(path string) error
}

// LogSink receives one line per conversion event
type LogSink interface {
	Append(line string)
}

// NopSink discards all lines
type NopSink struct{}

func (NopSink) Append(string) {}
