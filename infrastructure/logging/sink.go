package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"video2audio/domain/audio"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileSinkOptions configures the conversion log file
type FileSinkOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
	Echo       io.Writer // Optional: every line is also written here (--verbose)
}

// FileSink implements audio.LogSink by appending timestamped lines to a rotating file
type FileSink struct {
	log    *zap.Logger
	closer io.Closer
}

// NewFileSink opens (or creates) the log file in append mode
func NewFileSink(opts FileSinkOptions) (*FileSink, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("log file path is required")
	}
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	file := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   opts.Compress,
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(file), zap.InfoLevel),
	}
	if opts.Echo != nil {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(opts.Echo), zap.InfoLevel))
	}

	return &FileSink{
		log:    zap.New(zapcore.NewTee(cores...)),
		closer: file,
	}, nil
}

// Append writes one line to the log file
func (s *FileSink) Append(line string) {
	s.log.Info(line)
}

// Close flushes and closes the log file
func (s *FileSink) Close() error {
	_ = s.log.Sync()
	return s.closer.Close()
}

// WriterSink implements audio.LogSink by writing plain lines to an io.Writer
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Append writes line followed by a newline
func (s *WriterSink) Append(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, line)
}

// MultiSink fans each line out to several sinks in order
type MultiSink []audio.LogSink

// Append forwards line to every sink
func (m MultiSink) Append(line string) {
	for _, s := range m {
		s.Append(line)
	}
}

var (
	_ audio.LogSink = (*FileSink)(nil)
	_ audio.LogSink = (*WriterSink)(nil)
	_ audio.LogSink = MultiSink(nil)
)
