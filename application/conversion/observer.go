package conversion

import "video2audio/domain/audio"

// Observer receives batch progress events. Calls happen on the goroutine running the batch;
// implementations that drive a UI are responsible for marshalling them to their own loop.
type Observer interface {
	// OnFileStart is called before a candidate is converted (index is 1-based)
	OnFileStart(index, total int, sourcePath string)

	// OnFileDone is called once per candidate with its final result
	OnFileDone(index, total int, result audio.ConversionResult)

	// OnBatchDone is called after the last candidate
	OnBatchDone(report *audio.BatchReport)
}

// NopObserver ignores all events
type NopObserver struct{}

func (NopObserver) OnFileStart(int, int, string) {}

func (NopObserver) OnFileDone(int, int, audio.ConversionResult) {}

func (NopObserver) OnBatchDone(*audio.BatchReport) {}

// MultiObserver fans events out to several observers in order
type MultiObserver []Observer

func (m MultiObserver) OnFileStart(index, total int, sourcePath string) {
	for _, o := range m {
		o.OnFileStart(index, total, sourcePath)
	}
}

func (m MultiObserver) OnFileDone(index, total int, result audio.ConversionResult) {
	for _, o := range m {
		o.OnFileDone(index, total, result)
	}
}

func (m MultiObserver) OnBatchDone(report *audio.BatchReport) {
	for _, o := range m {
		o.OnBatchDone(report)
	}
}
