package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"video2audio/domain/audio"
	"video2audio/infrastructure/logging"

	"github.com/spf13/cobra"
)

const (
	modeSingle = "A single video file"
	modeBatch  = "Every video in a directory"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Convert interactively (default)",
	Long: `Prompts for the source, the output format and its parameters, then converts
while showing progress and the conversion log. Press Ctrl+C during a directory
conversion to stop after the current file.`,
	Args: cobra.NoArgs,
	RunE: runGUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	defaults, err := cfg.EncodingParams()
	if err != nil {
		return err
	}

	deps, cleanup, err := newProductionDependencies(cfg, productionOptions{LogFile: cfg.Paths.LogFile})
	if err != nil {
		return err
	}
	defer cleanup()
	// The render loop owns the console; per-file progress is shown there
	deps.Observer = nil

	return RunGUIWithDependencies(cmd.Context(), deps, DefaultPrompter, GUIDefaults{
		Params:    defaults,
		OutputDir: cfg.Paths.OutputDirectory,
	}, DefaultOutput)
}

// GUIDefaults pre-fill the interactive prompts
type GUIDefaults struct {
	Params    audio.EncodingParams
	OutputDir string
}

// RunGUIWithDependencies runs the interactive mode with injected dependencies (for testing)
func RunGUIWithDependencies(ctx context.Context, deps Dependencies, prompter Prompter, defaults GUIDefaults, output OutputWriter) error {
	if err := verifyBackend(ctx, deps.Backend); err != nil {
		return err
	}

	job, err := askJob(ctx, deps, prompter, defaults, output)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := renderProgress(output, startWorker(ctx, deps, job))
	if err != nil {
		return err
	}

	fmt.Fprintln(output)
	fmt.Fprintln(output, formatSummary(report, time.Since(start)))
	return failedError(report)
}

// guiJob is what the user asked for
type guiJob struct {
	single *audio.ConversionRequest
	batch  *audio.BatchRequest
}

func askJob(ctx context.Context, deps Dependencies, prompter Prompter, defaults GUIDefaults, output OutputWriter) (*guiJob, error) {
	mode, err := prompter.Select("What do you want to convert?", []string{modeSingle, modeBatch}, modeSingle)
	if err != nil {
		return nil, err
	}

	var source string
	if mode == modeSingle {
		source, err = prompter.Input("Video file:", "")
	} else {
		source, err = prompter.Input("Directory:", "")
	}
	if err != nil {
		return nil, err
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: a source is required", audio.ErrInvalidArgument)
	}
	if !deps.FS.Exists(source) {
		return nil, fmt.Errorf("%w: %s", audio.ErrSourceNotFound, source)
	}

	if mode == modeSingle {
		if !audio.IsSupportedVideo(source) {
			return nil, fmt.Errorf("%w: %s", audio.ErrUnsupportedInput, source)
		}
		if handle, err := deps.Backend.Open(ctx, source); err == nil {
			printMediaInfo(output, handle)
		}
	}

	params, err := askParams(prompter, defaults.Params)
	if err != nil {
		return nil, err
	}

	outputDir, err := prompter.Input("Output directory (empty for next to the source):", defaults.OutputDir)
	if err != nil {
		return nil, err
	}
	outputDir = strings.TrimSpace(outputDir)

	if mode == modeBatch {
		params.Overwrite, err = prompter.Confirm("Overwrite existing audio files?", params.Overwrite)
		if err != nil {
			return nil, err
		}
		req, err := audio.NewBatchRequest(source, outputDir, params)
		if err != nil {
			return nil, err
		}
		return &guiJob{batch: req}, nil
	}

	req, err := audio.NewConversionRequest(source, "", params)
	if err != nil {
		return nil, err
	}
	req.DestinationDir = outputDir
	if !req.Overwrite && deps.FS.Exists(req.OutputPath()) {
		req.Overwrite, err = prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", req.OutputPath()), false)
		if err != nil {
			return nil, err
		}
	}
	return &guiJob{single: req}, nil
}

func askParams(prompter Prompter, defaults audio.EncodingParams) (audio.EncodingParams, error) {
	params := defaults

	formats := make([]string, 0, len(audio.Formats()))
	for _, f := range audio.Formats() {
		formats = append(formats, f.String())
	}
	answer, err := prompter.Select("Output format:", formats, defaults.Format.String())
	if err != nil {
		return params, err
	}
	if params.Format, err = audio.ParseFormat(answer); err != nil {
		return params, err
	}

	answer, err = prompter.Input("Sample rate (Hz):", strconv.Itoa(defaults.SampleRate))
	if err != nil {
		return params, err
	}
	rate, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return params, fmt.Errorf("%w: sample rate %q is not a number", audio.ErrInvalidArgument, answer)
	}
	params.SampleRate = rate

	answer, err = prompter.Select("Channels:", []string{"2", "1"}, strconv.Itoa(int(defaults.Channels)))
	if err != nil {
		return params, err
	}
	n, _ := strconv.Atoi(answer)
	if params.Channels, err = audio.ParseChannels(n); err != nil {
		return params, err
	}

	if params.Format.Encoder().Lossy {
		answer, err = prompter.Input("Bitrate (empty for the encoder default):", defaults.Bitrate)
		if err != nil {
			return params, err
		}
		params.Bitrate = strings.TrimSpace(answer)
	}

	return params, params.Validate()
}

type eventKind int

const (
	eventLog eventKind = iota
	eventStart
	eventDone
	eventFinished
)

// progressEvent is sent from the conversion worker to the render loop
type progressEvent struct {
	kind   eventKind
	line   string
	index  int
	total  int
	source string
	result audio.ConversionResult
	report *audio.BatchReport
	err    error
}

// channelObserver forwards engine callbacks to the render loop
type channelObserver struct {
	events chan<- progressEvent
}

func (o channelObserver) OnFileStart(index, total int, sourcePath string) {
	o.events <- progressEvent{kind: eventStart, index: index, total: total, source: sourcePath}
}

func (o channelObserver) OnFileDone(index, total int, result audio.ConversionResult) {
	o.events <- progressEvent{kind: eventDone, index: index, total: total, result: result}
}

// OnBatchDone is a no-op; the worker sends eventFinished itself
func (o channelObserver) OnBatchDone(*audio.BatchReport) {}

// channelSink forwards log lines to the render loop's console pane
type channelSink struct {
	events chan<- progressEvent
}

func (s channelSink) Append(line string) {
	s.events <- progressEvent{kind: eventLog, line: line}
}

// startWorker runs the conversion off the render loop. The channel is closed after eventFinished.
func startWorker(ctx context.Context, deps Dependencies, job *guiJob) <-chan progressEvent {
	events := make(chan progressEvent)

	go func() {
		defer close(events)

		worker := deps
		worker.Observer = channelObserver{events: events}
		if deps.Sink != nil {
			worker.Sink = logging.MultiSink{deps.Sink, channelSink{events: events}}
		} else {
			worker.Sink = channelSink{events: events}
		}
		service := worker.service()

		if job.single != nil {
			worker.Observer.OnFileStart(1, 1, job.single.SourcePath)
			result := service.ConvertOne(ctx, job.single)
			worker.Observer.OnFileDone(1, 1, result)

			report := &audio.BatchReport{}
			report.Add(result)
			events <- progressEvent{kind: eventFinished, report: report}
			return
		}

		report, err := service.ConvertBatch(ctx, job.batch)
		events <- progressEvent{kind: eventFinished, report: report, err: err}
	}()

	return events
}

// renderProgress drains the worker's events, writing the console pane, and returns the final report
func renderProgress(output OutputWriter, events <-chan progressEvent) (*audio.BatchReport, error) {
	var (
		report *audio.BatchReport
		err    error
	)
	for ev := range events {
		switch ev.kind {
		case eventLog:
			fmt.Fprintf(output, "  | %s\n", ev.line)
		case eventStart:
			fmt.Fprintf(output, "[%d/%d] %s\n", ev.index, ev.total, ev.source)
		case eventDone:
			fmt.Fprintf(output, "[%d/%d] %s\n", ev.index, ev.total, ev.result.Outcome)
		case eventFinished:
			report, err = ev.report, ev.err
		}
	}
	return report, err
}
