package cmd

import (
	"context"
	"fmt"
	"time"

	"video2audio/domain/audio"
	"video2audio/infrastructure/config"
	"video2audio/infrastructure/watcher"

	"github.com/spf13/cobra"
)

// watchFlags holds the parsed flags of one watch command instance
type watchFlags struct {
	directory string
	outputDir string
	debounce  time.Duration
	verbose   bool
	logFile   string
	encoding  encodingFlags
}

func newWatchCommand(run func(cmd *cobra.Command, f *watchFlags) error) *cobra.Command {
	f := &watchFlags{}
	c := &cobra.Command{
		Use:   "watch",
		Short: "Convert videos as they appear in a directory",
		Long: `Watch a directory tree and convert every supported video that is created
or written there, once it has stopped changing for the debounce period.
Existing outputs are skipped unless --overwrite is set. Stop with Ctrl+C.

Exit codes: 0 no file failed, 1 at least one failure, 2 invalid arguments.

Example:
  video2audio watch -d ./recordings -od ./audio --format mp3`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	c.Flags().StringVarP(&f.directory, "directory", "d", "", "directory to watch (required)")
	c.Flags().StringVar(&f.outputDir, "output-dir", "", "output directory (also -od)")
	c.Flags().DurationVar(&f.debounce, "debounce", watcher.DefaultDebounce, "quiet period before a new file is converted")
	c.Flags().BoolVar(&f.verbose, "verbose", false, "echo log lines and ffmpeg commands to the console")
	c.Flags().StringVar(&f.logFile, "log-file", "conversion.log", "append-only conversion log")
	addEncodingFlags(c, &f.encoding)
	return c
}

func init() {
	rootCmd.AddCommand(newWatchCommand(runWatch))
}

// WatchOptions is a validated watch invocation
type WatchOptions struct {
	Directory string
	OutputDir string
	Debounce  time.Duration
	Params    audio.EncodingParams
}

// options merges the flags over cfg and validates the result
func (f *watchFlags) options(cmd *cobra.Command, cfg *config.Config) (WatchOptions, error) {
	params, err := f.encoding.resolve(cmd, cfg)
	if err != nil {
		return WatchOptions{}, err
	}
	opts := WatchOptions{
		Directory: f.directory,
		OutputDir: stringFlag(cmd, "output-dir", f.outputDir, cfg.Paths.OutputDirectory),
		Debounce:  f.debounce,
		Params:    params,
	}
	return opts, opts.Validate()
}

// Validate rejects invalid flag values before watching starts
func (o WatchOptions) Validate() error {
	switch {
	case o.Directory == "":
		return fmt.Errorf("%w: -d/--directory is required", audio.ErrInvalidArgument)
	case o.Debounce <= 0:
		return fmt.Errorf("%w: --debounce must be positive, got %s", audio.ErrInvalidArgument, o.Debounce)
	}
	return o.Params.Validate()
}

func runWatch(cmd *cobra.Command, f *watchFlags) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	opts, err := f.options(cmd, cfg)
	if err != nil {
		return err
	}

	deps, cleanup, err := newProductionDependencies(cfg, productionOptions{
		LogFile: stringFlag(cmd, "log-file", f.logFile, cfg.Paths.LogFile),
		Verbose: f.verbose,
	})
	if err != nil {
		return err
	}
	defer cleanup()
	deps.Observer = nil

	w, err := watcher.New(opts.Directory, watcher.WithDebounce(opts.Debounce), watcher.WithLogger(deps.Log))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	return RunWatchWithDependencies(ctx, deps, w.Watch(ctx), opts, DefaultOutput)
}

// RunWatchWithDependencies converts each path received on sources until the channel is closed.
// It returns ErrConversionFailed after the summary when any file failed.
func RunWatchWithDependencies(ctx context.Context, deps Dependencies, sources <-chan string, opts WatchOptions, output OutputWriter) error {
	if err := opts.Params.Validate(); err != nil {
		return err
	}
	if opts.Directory == "" {
		return fmt.Errorf("%w: -d/--directory is required", audio.ErrInvalidArgument)
	}
	if !deps.FS.Exists(opts.Directory) {
		return fmt.Errorf("%w: %s", audio.ErrSourceNotFound, opts.Directory)
	}
	if err := verifyBackend(ctx, deps.Backend); err != nil {
		return err
	}

	service := deps.service()
	report := &audio.BatchReport{}
	start := time.Now()

	fmt.Fprintf(output, "Watching %s (Ctrl+C to stop)\n", opts.Directory)
	for src := range sources {
		result := service.ConvertOne(ctx, &audio.ConversionRequest{
			SourcePath:     src,
			DestinationDir: audio.MirroredDir(opts.Directory, opts.OutputDir, src),
			EncodingParams: opts.Params,
		})
		report.Add(result)
		printResult(output, result)
	}

	fmt.Fprintln(output, formatSummary(report, time.Since(start)))
	return failedError(report)
}
