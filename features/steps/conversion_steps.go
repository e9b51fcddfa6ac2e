//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"video2audio/cmd"
	"video2audio/domain/audio"
	"video2audio/infrastructure/config"
	"video2audio/infrastructure/ffmpeg"
	"video2audio/infrastructure/filesystem"
	"video2audio/infrastructure/logging"

	"github.com/cucumber/godog"
)

// silentMarker is the content of fixture videos without an audio track
const silentMarker = "no-audio"

// fixtureBackend reads fixture files on disk: their content decides whether they have
// an audio track. Encoding writes a small placeholder file and records the ffmpeg arguments.
type fixtureBackend struct {
	calls      [][]string
	shouldFail bool
	failError  error
}

func (b *fixtureBackend) Open(ctx context.Context, path string) (*audio.MediaHandle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", audio.ErrBackendDecode, err)
	}
	return &audio.MediaHandle{
		Path:       path,
		Size:       int64(len(data)),
		HasAudio:   string(data) != silentMarker,
		AudioCodec: "aac",
		SampleRate: 48000,
		Channels:   2,
	}, nil
}

func (b *fixtureBackend) WriteAudio(ctx context.Context, handle *audio.MediaHandle, outputPath string, params audio.EncodingParams) error {
	if b.shouldFail {
		return b.failError
	}
	b.calls = append(b.calls, ffmpeg.BuildArgs(handle.Path, outputPath, params))
	return os.WriteFile(outputPath, []byte("RIFF"), 0644)
}

// conversionContext holds test state for conversion scenarios
type conversionContext struct {
	dir      string
	prevDir  string
	backend  *fixtureBackend
	output   *bytes.Buffer
	ctx      context.Context
	exitCode int
	err      error
}

// SharedConversionContext is reset before each scenario via Before hook
var SharedConversionContext *conversionContext

func getConversionContext() *conversionContext {
	return SharedConversionContext
}

func InitializeConversionScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedConversionContext = &conversionContext{
			backend: &fixtureBackend{},
			output:  &bytes.Buffer{},
			ctx:     context.Background(),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		e := getConversionContext()
		if e != nil && e.prevDir != "" {
			_ = os.Chdir(e.prevDir)
			_ = os.RemoveAll(e.dir)
		}
		SharedConversionContext = nil
		return c, nil
	})

	ctx.Step(`^a working directory$`, aWorkingDirectory)
	ctx.Step(`^a video "([^"]*)" with an audio track$`, aVideoWithAnAudioTrack)
	ctx.Step(`^a video "([^"]*)" without an audio track$`, aVideoWithoutAnAudioTrack)
	ctx.Step(`^a file "([^"]*)"$`, aFile)
	ctx.Step(`^an existing audio file "([^"]*)"$`, anExistingAudioFile)
	ctx.Step(`^the run is cancelled before it starts$`, theRunIsCancelledBeforeItStarts)
	ctx.Step(`^I run cli with "([^"]*)"$`, iRunCLIWith)
	ctx.Step(`^the exit code should be (\d+)$`, theExitCodeShouldBe)
	ctx.Step(`^the audio file "([^"]*)" should exist$`, theAudioFileShouldExist)
	ctx.Step(`^the audio file "([^"]*)" should not exist$`, theAudioFileShouldNotExist)
	ctx.Step(`^the backend should have encoded with arguments:$`, theBackendShouldHaveEncodedWithArguments)
	ctx.Step(`^the backend should have encoded (\d+) files$`, theBackendShouldHaveEncodedFiles)
	ctx.Step(`^the backend should not have been called$`, theBackendShouldNotHaveBeenCalled)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^the log should contain "([^"]*)"$`, theLogShouldContain)
	ctx.Step(`^the log should be empty$`, theLogShouldBeEmpty)
}

func aWorkingDirectory() error {
	e := getConversionContext()
	dir, err := os.MkdirTemp("", "video2audio-features-")
	if err != nil {
		return err
	}
	prev, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := os.Chdir(dir); err != nil {
		return err
	}
	e.dir, e.prevDir = dir, prev
	return nil
}

func writeFixture(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func aVideoWithAnAudioTrack(path string) error {
	return writeFixture(path, "video+audio")
}

func aVideoWithoutAnAudioTrack(path string) error {
	return writeFixture(path, silentMarker)
}

func aFile(path string) error {
	return writeFixture(path, "not a video")
}

func anExistingAudioFile(path string) error {
	return writeFixture(path, "old audio")
}

func theRunIsCancelledBeforeItStarts() error {
	e := getConversionContext()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.ctx = ctx
	return nil
}

func iRunCLIWith(args string) error {
	e := getConversionContext()

	sink, err := logging.NewFileSink(logging.FileSinkOptions{Path: "conversion.log"})
	if err != nil {
		return err
	}
	defer sink.Close()

	deps := cmd.Dependencies{
		Backend: e.backend,
		FS:      filesystem.NewChecker(),
		Lister:  filesystem.NewScanner(),
		Sink:    sink,
	}

	e.err = cmd.RunCLIArgs(e.ctx, strings.Fields(args), config.Default(), deps, e.output)
	e.exitCode = cmd.ExitCode(e.err)
	return nil
}

func theExitCodeShouldBe(code int) error {
	e := getConversionContext()
	if e.exitCode != code {
		return fmt.Errorf("expected exit code %d, got %d (err: %v)\noutput:\n%s", code, e.exitCode, e.err, e.output.String())
	}
	return nil
}

func theAudioFileShouldExist(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("expected %s to exist: %v", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("expected %s to be non-empty", path)
	}
	return nil
}

func theAudioFileShouldNotExist(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("expected %s not to exist", path)
	}
	return nil
}

func theBackendShouldHaveEncodedWithArguments(table *godog.Table) error {
	e := getConversionContext()
	if len(e.backend.calls) == 0 {
		return fmt.Errorf("backend was not called")
	}
	args := e.backend.calls[len(e.backend.calls)-1]

	for _, row := range table.Rows {
		flag, value := row.Cells[0].Value, row.Cells[1].Value
		found := false
		for i := 0; i < len(args)-1; i++ {
			if args[i] == flag && args[i+1] == value {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("expected %s %s in arguments %v", flag, value, args)
		}
	}
	return nil
}

func theBackendShouldHaveEncodedFiles(n int) error {
	e := getConversionContext()
	if len(e.backend.calls) != n {
		return fmt.Errorf("expected %d encodes, got %d", n, len(e.backend.calls))
	}
	return nil
}

func theBackendShouldNotHaveBeenCalled() error {
	e := getConversionContext()
	if len(e.backend.calls) != 0 {
		return fmt.Errorf("expected no backend calls, got %v", e.backend.calls)
	}
	return nil
}

func theOutputShouldContain(text string) error {
	e := getConversionContext()
	if !strings.Contains(e.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, e.output.String())
	}
	return nil
}

func theLogShouldContain(text string) error {
	data, err := os.ReadFile("conversion.log")
	if err != nil {
		return fmt.Errorf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), text) {
		return fmt.Errorf("expected log to contain %q, got:\n%s", text, data)
	}
	return nil
}

func theLogShouldBeEmpty() error {
	data, err := os.ReadFile("conversion.log")
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if len(data) > 0 {
		return fmt.Errorf("expected empty log, got:\n%s", data)
	}
	return nil
}
