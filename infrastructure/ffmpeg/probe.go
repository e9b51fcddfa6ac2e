package ffmpeg

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"video2audio/domain/audio"
)

// probeOutput maps the fields we use from `ffprobe -print_format json -show_format -show_streams`
type probeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// parseProbe converts ffprobe JSON into a MediaHandle. The first audio stream is used.
func parseProbe(path string, data []byte) (*audio.MediaHandle, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	handle := &audio.MediaHandle{
		Path:      path,
		Container: out.Format.FormatName,
	}

	if secs, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		handle.Duration = time.Duration(secs * float64(time.Second))
	}
	if size, err := strconv.ParseInt(out.Format.Size, 10, 64); err == nil {
		handle.Size = size
	}

	for _, s := range out.Streams {
		if s.CodecType != "audio" {
			continue
		}
		handle.HasAudio = true
		handle.AudioCodec = s.CodecName
		handle.Channels = s.Channels
		if rate, err := strconv.Atoi(s.SampleRate); err == nil {
			handle.SampleRate = rate
		}
		break
	}

	return handle, nil
}
