package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"video2audio/application/conversion"
	"video2audio/domain/audio"
	"video2audio/infrastructure/config"
	"video2audio/infrastructure/ffmpeg"
	"video2audio/infrastructure/filesystem"
	"video2audio/infrastructure/logging"
	"video2audio/infrastructure/progress"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Dependencies are the collaborators the conversion commands run with
type Dependencies struct {
	Backend  audio.MediaBackend
	FS       audio.FileSystem
	Lister   conversion.CandidateLister
	Sink     audio.LogSink
	Observer conversion.Observer
	Log      *zap.Logger
}

func (d Dependencies) service(opts ...conversion.Option) *conversion.Service {
	if d.Observer != nil {
		opts = append([]conversion.Option{conversion.WithObserver(d.Observer)}, opts...)
	}
	return conversion.NewService(d.Backend, d.FS, d.Lister, d.Sink, opts...)
}

// verifyBackend checks the backend's external tools if it supports that
func verifyBackend(ctx context.Context, backend audio.MediaBackend) error {
	verifiable, ok := backend.(interface{ VerifyInstalled(context.Context) error })
	if !ok {
		return nil
	}
	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
		return fmt.Errorf("ffmpeg verification failed: %w", err)
	}
	return nil
}

// productionOptions selects the log file and console behavior
type productionOptions struct {
	LogFile string
	Verbose bool
}

// newProductionDependencies wires the ffmpeg backend, the filesystem and the log file.
// The returned func closes the log file.
func newProductionDependencies(cfg *config.Config, opts productionOptions) (Dependencies, func(), error) {
	log, err := logging.New(opts.Verbose)
	if err != nil {
		return Dependencies{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	sinkOpts := logging.FileSinkOptions{
		Path:       opts.LogFile,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	}
	if opts.Verbose {
		sinkOpts.Echo = os.Stdout
	}
	sink, err := logging.NewFileSink(sinkOpts)
	if err != nil {
		return Dependencies{}, nil, err
	}

	backend := ffmpeg.NewBackend(
		ffmpeg.WithFFmpegPath(cfg.FFmpeg.FFmpegPath),
		ffmpeg.WithFFprobePath(cfg.FFmpeg.FFprobePath),
		ffmpeg.WithProbeTimeout(cfg.FFmpeg.ProbeTimeout),
		ffmpeg.WithLogger(log),
	)

	plain := opts.Verbose || !term.IsTerminal(int(os.Stderr.Fd()))

	deps := Dependencies{
		Backend:  backend,
		FS:       filesystem.NewChecker(),
		Lister:   filesystem.NewScanner(),
		Sink:     sink,
		Observer: progress.New(os.Stderr, plain),
		Log:      log,
	}
	cleanup := func() {
		_ = sink.Close()
		_ = log.Sync()
	}
	return deps, cleanup, nil
}

// encodingFlags are the output parameters shared by cli and watch
type encodingFlags struct {
	format     string
	sampleRate int
	channels   int
	bitrate    string
	overwrite  bool
}

func addEncodingFlags(c *cobra.Command, f *encodingFlags) {
	c.Flags().StringVar(&f.format, "format", string(audio.DefaultFormat), "output format: wav, mp3, flac or aac")
	c.Flags().IntVar(&f.sampleRate, "sample-rate", audio.DefaultSampleRate, "output sample rate in Hz")
	c.Flags().IntVar(&f.channels, "channels", int(audio.DefaultChannels), "output channels: 1 or 2")
	c.Flags().StringVar(&f.bitrate, "bitrate", "", "encoder bitrate for mp3/aac, e.g. 192k")
	c.Flags().BoolVar(&f.overwrite, "overwrite", false, "replace existing output files")
}

// resolve merges the flags the user set over the config file defaults
func (f *encodingFlags) resolve(c *cobra.Command, cfg *config.Config) (audio.EncodingParams, error) {
	d := cfg.Defaults
	if c.Flags().Changed("format") {
		d.Format = f.format
	}
	if c.Flags().Changed("sample-rate") {
		d.SampleRate = f.sampleRate
	}
	if c.Flags().Changed("channels") {
		d.Channels = f.channels
	}
	if c.Flags().Changed("bitrate") {
		d.Bitrate = f.bitrate
	}
	if c.Flags().Changed("overwrite") {
		d.Overwrite = f.overwrite
	}

	format, err := audio.ParseFormat(d.Format)
	if err != nil {
		return audio.EncodingParams{}, err
	}
	channels, err := audio.ParseChannels(d.Channels)
	if err != nil {
		return audio.EncodingParams{}, err
	}
	params := audio.EncodingParams{
		Format:     format,
		SampleRate: d.SampleRate,
		Channels:   channels,
		Bitrate:    d.Bitrate,
		Overwrite:  d.Overwrite,
	}
	return params, params.Validate()
}

// stringFlag returns the flag value if set, otherwise fallback
func stringFlag(c *cobra.Command, name, value, fallback string) string {
	if c.Flags().Changed(name) {
		return value
	}
	return fallback
}

func formatSummary(report *audio.BatchReport, elapsed time.Duration) string {
	return fmt.Sprintf("Done: %d succeeded, %d failed, %d skipped (total %d) in %s",
		report.Succeeded, report.Failed, report.Skipped, report.Total, elapsed.Round(time.Millisecond))
}

func failedError(report *audio.BatchReport) error {
	if !report.HasFailures() {
		return nil
	}
	return fmt.Errorf("%w: %d of %d", ErrConversionFailed, report.Failed, report.Total)
}
