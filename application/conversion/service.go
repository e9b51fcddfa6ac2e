package conversion

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"video2audio/domain/audio"

	"github.com/oklog/ulid/v2"
)

// CandidateLister enumerates the candidate videos under a directory in lexicographic order
type CandidateLister interface {
	ListCandidates(dir string) ([]string, error)
}

// Service converts video files to audio one at a time through a MediaBackend
type Service struct {
	backend  audio.MediaBackend
	fs       audio.FileSystem
	lister   CandidateLister
	sink     audio.LogSink
	observer Observer
	now      func() time.Time
	runID    func() string
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithObserver sets the batch progress observer
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithClock sets the time source used to measure backend calls (for testing)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRunIDGenerator sets the batch run id generator (for testing)
func WithRunIDGenerator(gen func() string) Option {
	return func(s *Service) {
		s.runID = gen
	}
}

// NewService creates a new conversion Service
func NewService(backend audio.MediaBackend, fs audio.FileSystem, lister CandidateLister, sink audio.LogSink, opts ...Option) *Service {
	if sink == nil {
		sink = audio.NopSink{}
	}
	s := &Service{
		backend:  backend,
		fs:       fs,
		lister:   lister,
		sink:     sink,
		observer: NopObserver{},
		now:      time.Now,
		runID:    func() string { return ulid.Make().String() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ConvertOne converts a single file. Every failure is reported through the returned
// result; the Pending -> Succeeded|Skipped|Failed transition happens exactly once.
func (s *Service) ConvertOne(ctx context.Context, req *audio.ConversionRequest) audio.ConversionResult {
	dest := req.OutputPath()
	result := audio.ConversionResult{
		SourcePath:      req.SourcePath,
		DestinationPath: dest,
	}

	if err := req.EncodingParams.Validate(); err != nil {
		return s.finish(result, audio.Fail(err))
	}
	if !audio.IsSupportedVideo(req.SourcePath) {
		return s.finish(result, audio.Fail(fmt.Errorf("%w: %s", audio.ErrUnsupportedInput, req.SourcePath)))
	}
	if !s.fs.Exists(req.SourcePath) {
		return s.finish(result, audio.Fail(fmt.Errorf("%w: %s", audio.ErrSourceNotFound, req.SourcePath)))
	}
	if !req.Overwrite && s.fs.Exists(dest) {
		return s.finish(result, audio.Skip(audio.ErrOutputExists))
	}

	dir := filepath.Dir(dest)
	if err := s.fs.EnsureDir(dir); err != nil {
		return s.finish(result, audio.Fail(fmt.Errorf("%w: cannot create %s: %v", audio.ErrIO, dir, err)))
	}

	s.sink.Append(fmt.Sprintf("started: %s -> %s", req.SourcePath, dest))
	preexisting := s.fs.Exists(dest)

	// The in-flight file always runs to completion; cancellation is honoured between files.
	backendCtx := context.WithoutCancel(ctx)

	start := s.now()
	err := s.runBackend(backendCtx, req, dest)
	result.Duration = s.now().Sub(start)
	if err != nil {
		if !preexisting {
			s.discard(dest)
		}
		return s.finish(result, audio.Fail(err))
	}

	size, err := s.fs.Size(dest)
	if err != nil || size == 0 {
		s.discard(dest)
		return s.finish(result, audio.Fail(fmt.Errorf("%w: output missing or empty: %s", audio.ErrBackendEncode, dest)))
	}

	return s.finish(result, audio.Success())
}

func (s *Service) runBackend(ctx context.Context, req *audio.ConversionRequest, dest string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: backend panic: %v", audio.ErrBackendDecode, r)
		}
	}()

	handle, err := s.backend.Open(ctx, req.SourcePath)
	if err != nil {
		return classify(err, audio.ErrBackendDecode)
	}
	if !handle.HasAudio {
		return fmt.Errorf("%w: %s", audio.ErrNoAudioTrack, req.SourcePath)
	}

	if err := s.backend.WriteAudio(ctx, handle, dest, req.EncodingParams); err != nil {
		return classify(err, audio.ErrBackendEncode)
	}
	return nil
}

// discard removes a partial output so a later run does not skip it as existing
func (s *Service) discard(dest string) {
	if !s.fs.Exists(dest) {
		return
	}
	if err := s.fs.Remove(dest); err != nil {
		s.sink.Append(fmt.Sprintf("cleanup failed: %s: %v", dest, err))
	}
}

// classify keeps errors already in the taxonomy and tags anything else with fallback
func classify(err, fallback error) error {
	for _, known := range []error{
		audio.ErrNoAudioTrack,
		audio.ErrBackendDecode,
		audio.ErrBackendEncode,
		audio.ErrSourceNotFound,
		audio.ErrIO,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", fallback, err)
}

func (s *Service) finish(result audio.ConversionResult, outcome audio.Outcome) audio.ConversionResult {
	result.Outcome = outcome

	switch outcome.Kind {
	case audio.OutcomeSucceeded:
		s.sink.Append(fmt.Sprintf("succeeded: %s -> %s (%d ms)", result.SourcePath, result.DestinationPath, result.DurationMs()))
	case audio.OutcomeSkipped:
		s.sink.Append(fmt.Sprintf("skipped: %s (%s)", result.SourcePath, outcome.Reason))
	case audio.OutcomeFailed:
		s.sink.Append(fmt.Sprintf("failed: %s: %s", result.SourcePath, outcome.Reason))
	}

	return result
}

// ConvertBatch converts every candidate under req.SourceDirectory in lexicographic order.
// A failed file never aborts the batch. When ctx is cancelled the candidates not yet
// started are reported as Skipped("cancelled"). The error is non-nil only when the
// candidates cannot be listed.
func (s *Service) ConvertBatch(ctx context.Context, req *audio.BatchRequest) (*audio.BatchReport, error) {
	if err := req.EncodingParams.Validate(); err != nil {
		return nil, err
	}
	if !s.fs.Exists(req.SourceDirectory) {
		return nil, fmt.Errorf("%w: %s", audio.ErrSourceNotFound, req.SourceDirectory)
	}

	candidates, err := s.lister.ListCandidates(req.SourceDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos in %s: %w", req.SourceDirectory, err)
	}

	report := &audio.BatchReport{RunID: s.runID()}
	total := len(candidates)
	s.sink.Append(fmt.Sprintf("batch %s started: %s (%d files)", report.RunID, req.SourceDirectory, total))

	for i, src := range candidates {
		index := i + 1
		destDir := audio.MirroredDir(req.SourceDirectory, req.DestinationDirectory, src)

		if ctx.Err() != nil {
			cancelled := s.finish(audio.ConversionResult{
				SourcePath:      src,
				DestinationPath: audio.ResolveDestination(src, destDir, req.Format),
			}, audio.Skip(audio.ErrCancelled))
			report.Add(cancelled)
			s.observer.OnFileDone(index, total, cancelled)
			continue
		}

		s.observer.OnFileStart(index, total, src)
		result := s.ConvertOne(ctx, &audio.ConversionRequest{
			SourcePath:     src,
			DestinationDir: destDir,
			EncodingParams: req.EncodingParams,
		})
		report.Add(result)
		s.observer.OnFileDone(index, total, result)
	}

	s.sink.Append(fmt.Sprintf("batch %s finished: %d succeeded, %d failed, %d skipped",
		report.RunID, report.Succeeded, report.Failed, report.Skipped))
	s.observer.OnBatchDone(report)

	return report, nil
}
