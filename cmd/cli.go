package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"video2audio/domain/audio"
	"video2audio/infrastructure/config"

	"github.com/spf13/cobra"
)

// cliFlags holds the parsed flags of one cli command instance
type cliFlags struct {
	input     string
	directory string
	output    string
	outputDir string
	verbose   bool
	logFile   string
	encoding  encodingFlags
}

func newCLICommand(run func(cmd *cobra.Command, f *cliFlags) error) *cobra.Command {
	f := &cliFlags{}
	c := &cobra.Command{
		Use:   "cli",
		Short: "Convert a file or a directory without prompts",
		Long: `Convert one video file (-i) or every supported video under a directory (-d).

Outputs keep the source's base name with the format's extension. They are
written next to the source unless -o (single file) or -od is given. Existing
outputs are skipped unless --overwrite is set. Directory conversion keeps
the sub-directory structure under -od.

Supported inputs: .mp4 .avi .mov .mkv .flv .wmv .m4v .3gp

Exit codes: 0 all files converted or skipped, 1 at least one failure,
2 invalid arguments.

Example:
  video2audio cli -i talk.mp4
  video2audio cli -i talk.mp4 -o /tmp/talk.flac --format flac --sample-rate 48000
  video2audio cli -d ./recordings -od ./audio --format mp3 --bitrate 192k --channels 1`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	c.Flags().StringVarP(&f.input, "input", "i", "", "video file to convert")
	c.Flags().StringVarP(&f.directory, "directory", "d", "", "directory of videos to convert")
	c.Flags().StringVarP(&f.output, "output", "o", "", "output file (single file only)")
	c.Flags().StringVar(&f.outputDir, "output-dir", "", "output directory (also -od)")
	c.Flags().BoolVar(&f.verbose, "verbose", false, "echo log lines and ffmpeg commands to the console")
	c.Flags().StringVar(&f.logFile, "log-file", "conversion.log", "append-only conversion log")
	addEncodingFlags(c, &f.encoding)
	return c
}

func init() {
	rootCmd.AddCommand(newCLICommand(runCLI))
}

// options merges the flags over cfg and validates the result
func (f *cliFlags) options(cmd *cobra.Command, cfg *config.Config) (CLIOptions, error) {
	params, err := f.encoding.resolve(cmd, cfg)
	if err != nil {
		return CLIOptions{}, err
	}
	outputDir := stringFlag(cmd, "output-dir", f.outputDir, cfg.Paths.OutputDirectory)
	// An explicit -o wins over the configured output directory
	if f.output != "" && !cmd.Flags().Changed("output-dir") {
		outputDir = ""
	}
	opts := CLIOptions{
		Input:     f.input,
		Directory: f.directory,
		Output:    f.output,
		OutputDir: outputDir,
		Params:    params,
	}
	return opts, opts.Validate()
}

// CLIOptions is a validated cli invocation
type CLIOptions struct {
	Input     string
	Directory string
	Output    string
	OutputDir string
	Params    audio.EncodingParams
}

// Validate rejects invalid flag combinations before any file is touched
func (o CLIOptions) Validate() error {
	switch {
	case o.Input != "" && o.Directory != "":
		return fmt.Errorf("%w: -i/--input and -d/--directory cannot be used together", audio.ErrInvalidArgument)
	case o.Input == "" && o.Directory == "":
		return fmt.Errorf("%w: one of -i/--input or -d/--directory is required", audio.ErrInvalidArgument)
	case o.Output != "" && o.Directory != "":
		return fmt.Errorf("%w: -o/--output is only valid with -i/--input", audio.ErrInvalidArgument)
	case o.Output != "" && o.OutputDir != "":
		return fmt.Errorf("%w: -o/--output and -od/--output-dir cannot be used together", audio.ErrInvalidArgument)
	}
	return o.Params.Validate()
}

func runCLI(cmd *cobra.Command, f *cliFlags) error {
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

	return RunCLIWithDependencies(cmd.Context(), deps, opts, DefaultOutput)
}

// RunCLIArgs parses cli arguments (without the "cli" word) and runs them with
// injected dependencies (for testing)
func RunCLIArgs(ctx context.Context, args []string, cfg *config.Config, deps Dependencies, output OutputWriter) error {
	c := newCLICommand(func(cmd *cobra.Command, f *cliFlags) error {
		opts, err := f.options(cmd, cfg)
		if err != nil {
			return err
		}
		return RunCLIWithDependencies(cmd.Context(), deps, opts, output)
	})
	c.SilenceUsage = true
	c.SilenceErrors = true
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	c.SetFlagErrorFunc(invalidFlagError)
	c.SetArgs(NormalizeArgs(args))
	return c.ExecuteContext(ctx)
}

// RunCLIWithDependencies runs the cli command with injected dependencies (for testing)
func RunCLIWithDependencies(ctx context.Context, deps Dependencies, opts CLIOptions, output OutputWriter) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := verifyBackend(ctx, deps.Backend); err != nil {
		return err
	}

	service := deps.service()
	start := time.Now()

	var report *audio.BatchReport
	if opts.Input != "" {
		req, err := audio.NewConversionRequest(opts.Input, opts.Output, opts.Params)
		if err != nil {
			return err
		}
		req.DestinationDir = opts.OutputDir

		fmt.Fprintf(output, "Converting %s -> %s\n", req.SourcePath, req.OutputPath())
		result := service.ConvertOne(ctx, req)
		printResult(output, result)

		report = &audio.BatchReport{}
		report.Add(result)
	} else {
		req, err := audio.NewBatchRequest(opts.Directory, opts.OutputDir, opts.Params)
		if err != nil {
			return err
		}

		fmt.Fprintf(output, "Converting videos in %s\n", req.SourceDirectory)
		report, err = service.ConvertBatch(ctx, req)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(output, formatSummary(report, time.Since(start)))
	return failedError(report)
}

func printResult(output OutputWriter, result audio.ConversionResult) {
	switch result.Outcome.Kind {
	case audio.OutcomeSucceeded:
		fmt.Fprintf(output, "Successfully created: %s (%d ms)\n", result.DestinationPath, result.DurationMs())
	case audio.OutcomeSkipped:
		fmt.Fprintf(output, "Skipped %s: %s\n", result.SourcePath, result.Outcome.Reason)
	case audio.OutcomeFailed:
		fmt.Fprintf(output, "Failed %s: %s\n", result.SourcePath, result.Outcome.Reason)
	}
}
