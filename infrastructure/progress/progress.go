package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"video2audio/application/conversion"
	"video2audio/domain/audio"

	"github.com/schollz/progressbar/v3"
)

// Bar renders batch progress on a terminal. In plain mode (verbose or not a TTY)
// it prints one line per event instead of redrawing a bar.
type Bar struct {
	mu       sync.Mutex
	w        io.Writer
	plain    bool
	bar      *progressbar.ProgressBar
	failures []audio.ConversionResult
}

// New creates a progress observer writing to w
func New(w io.Writer, plain bool) *Bar {
	return &Bar{w: w, plain: plain}
}

// OnFileStart implements conversion.Observer
func (b *Bar) OnFileStart(index, total int, sourcePath string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.plain {
		fmt.Fprintf(b.w, "[%d/%d] converting %s\n", index, total, sourcePath)
		return
	}
	if b.bar == nil {
		b.bar = b.newBar(total)
	}
	b.bar.Describe(filepath.Base(sourcePath))
}

// OnFileDone implements conversion.Observer
func (b *Bar) OnFileDone(index, total int, result audio.ConversionResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.plain {
		fmt.Fprintf(b.w, "[%d/%d] %s: %s\n", index, total, result.SourcePath, result.Outcome)
		return
	}
	if result.Outcome.Kind == audio.OutcomeFailed {
		b.failures = append(b.failures, result)
	}
	if b.bar == nil {
		b.bar = b.newBar(total)
	}
	_ = b.bar.Add(1)
}

// OnBatchDone implements conversion.Observer
func (b *Bar) OnBatchDone(report *audio.BatchReport) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		_ = b.bar.Finish()
		b.bar = nil
	}
	for _, f := range b.failures {
		fmt.Fprintf(b.w, "  failed: %s: %s\n", f.SourcePath, f.Outcome.Reason)
	}
	b.failures = nil
}

func (b *Bar) newBar(total int) *progressbar.ProgressBar {
	w := b.w
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("file"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

var _ conversion.Observer = (*Bar)(nil)
