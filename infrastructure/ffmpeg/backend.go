package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"video2audio/domain/audio"

	"go.uber.org/zap"
)

// DefaultProbeTimeout bounds a single ffprobe call
const DefaultProbeTimeout = 30 * time.Second

// Backend implements audio.MediaBackend using ffprobe and ffmpeg
type Backend struct {
	ffmpegPath   string
	ffprobePath  string
	probeTimeout time.Duration
	runner       CommandRunner
	log          *zap.Logger
}

// BackendOption is a functional option for configuring Backend
type BackendOption func(*Backend)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) BackendOption {
	return func(b *Backend) {
		if path != "" {
			b.ffmpegPath = path
		}
	}
}

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) BackendOption {
	return func(b *Backend) {
		if path != "" {
			b.ffprobePath = path
		}
	}
}

// WithProbeTimeout sets the ffprobe timeout
func WithProbeTimeout(d time.Duration) BackendOption {
	return func(b *Backend) {
		if d > 0 {
			b.probeTimeout = d
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) BackendOption {
	return func(b *Backend) {
		b.runner = runner
	}
}

// WithLogger sets the logger used for command tracing
func WithLogger(log *zap.Logger) BackendOption {
	return func(b *Backend) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBackend creates a new FFmpeg-based media backend
func NewBackend(opts ...BackendOption) *Backend {
	b := &Backend{
		ffmpegPath:   "ffmpeg",
		ffprobePath:  "ffprobe",
		probeTimeout: DefaultProbeTimeout,
		runner:       &ExecCommandRunner{},
		log:          zap.NewNop(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Open implements audio.MediaBackend
func (b *Backend) Open(ctx context.Context, path string) (*audio.MediaHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, b.probeTimeout)
	defer cancel()

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	b.log.Debug("executing ffprobe", zap.Strings("args", args))

	out, err := b.runner.Output(ctx, b.ffprobePath, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ffprobe %s: %w", audio.ErrBackendDecode, path, err)
	}

	handle, err := parseProbe(path, out)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", audio.ErrBackendDecode, path, err)
	}
	return handle, nil
}

// WriteAudio implements audio.MediaBackend
func (b *Backend) WriteAudio(ctx context.Context, handle *audio.MediaHandle, outputPath string, params audio.EncodingParams) error {
	if !handle.HasAudio {
		return fmt.Errorf("%w: %s", audio.ErrNoAudioTrack, handle.Path)
	}

	args := BuildArgs(handle.Path, outputPath, params)
	b.log.Debug("executing ffmpeg", zap.Strings("args", args))

	if err := b.runner.Run(ctx, b.ffmpegPath, args...); err != nil {
		return fmt.Errorf("%w: ffmpeg audio extraction failed: %w", audio.ErrBackendEncode, err)
	}

	return nil
}

// BuildArgs returns the ffmpeg argument vector extracting the audio of sourcePath
func BuildArgs(sourcePath, outputPath string, params audio.EncodingParams) []string {
	enc := params.Format.Encoder()
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", sourcePath,
		"-vn",                // No video
		"-acodec", enc.Codec, // Encoder for the output format
		"-ar", strconv.Itoa(params.SampleRate),
		"-ac", strconv.Itoa(int(params.Channels)),
	}
	if bitrate := params.EffectiveBitrate(); bitrate != "" {
		args = append(args, "-b:a", bitrate)
	}
	// Overwrite policy is decided before the backend is called
	args = append(args, "-y", outputPath)
	return args
}

// VerifyInstalled checks that ffmpeg and ffprobe are available
func (b *Backend) VerifyInstalled(ctx context.Context) error {
	if _, err := b.runner.Output(ctx, b.ffmpegPath, "-version"); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	if _, err := b.runner.Output(ctx, b.ffprobePath, "-version"); err != nil {
		return fmt.Errorf("ffprobe not found or not executable: %w", err)
	}
	return nil
}

// Ensure Backend implements audio.MediaBackend
var _ audio.MediaBackend = (*Backend)(nil)
