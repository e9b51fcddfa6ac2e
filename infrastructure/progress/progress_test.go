package progress

import (
	"bytes"
	"strings"
	"testing"

	"video2audio/domain/audio"
)

func TestBar_Plain(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, true)

	b.OnFileStart(1, 2, "/v/a.mp4")
	b.OnFileDone(1, 2, audio.ConversionResult{SourcePath: "/v/a.mp4", Outcome: audio.Success()})
	b.OnFileStart(2, 2, "/v/b.mp4")
	b.OnFileDone(2, 2, audio.ConversionResult{SourcePath: "/v/b.mp4", Outcome: audio.Fail(audio.ErrNoAudioTrack)})
	b.OnBatchDone(&audio.BatchReport{Total: 2, Succeeded: 1, Failed: 1})

	out := buf.String()
	for _, want := range []string{
		"[1/2] converting /v/a.mp4",
		"[1/2] /v/a.mp4: succeeded",
		"[2/2] /v/b.mp4: failed: source has no audio track",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBar_ListsFailuresAfterBar(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, false)

	b.OnFileStart(1, 2, "/v/a.mp4")
	b.OnFileDone(1, 2, audio.ConversionResult{SourcePath: "/v/a.mp4", Outcome: audio.Fail(audio.ErrBackendDecode)})
	b.OnFileDone(2, 2, audio.ConversionResult{SourcePath: "/v/b.mp4", Outcome: audio.Skip(audio.ErrCancelled)})
	b.OnBatchDone(&audio.BatchReport{Total: 2, Failed: 1, Skipped: 1})

	out := buf.String()
	if !strings.Contains(out, "failed: /v/a.mp4: "+audio.ErrBackendDecode.Error()) {
		t.Errorf("output missing failure summary:\n%s", out)
	}
	if strings.Contains(out, "failed: /v/b.mp4") {
		t.Errorf("skipped file listed as failure:\n%s", out)
	}
}
