package audio

import (
	"fmt"
	"strings"
)

// Format is an output audio container/codec pairing
type Format string

const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
	FormatAAC  Format = "aac"
)

// DefaultFormat is used when no format is requested
const DefaultFormat = FormatWAV

// Encoder describes how a Format is produced by the media backend
type Encoder struct {
	Codec     string // ffmpeg encoder name
	Extension string // file extension including the dot
	Lossy     bool   // whether a bitrate applies
}

var encoders = map[Format]Encoder{
	FormatWAV:  {Codec: "pcm_s16le", Extension: ".wav"},
	FormatMP3:  {Codec: "libmp3lame", Extension: ".mp3", Lossy: true},
	FormatFLAC: {Codec: "flac", Extension: ".flac"},
	FormatAAC:  {Codec: "aac", Extension: ".aac", Lossy: true},
}

// Formats returns all supported output formats in display order
func Formats() []Format {
	return []Format{FormatWAV, FormatMP3, FormatFLAC, FormatAAC}
}

// ParseFormat parses a format name (case-insensitive, optional leading dot)
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	if _, ok := encoders[f]; !ok {
		return "", fmt.Errorf("%w: %q (supported: wav, mp3, flac, aac)", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Valid reports whether f is one of the supported formats
func (f Format) Valid() bool {
	_, ok := encoders[f]
	return ok
}

// Encoder returns the encoder configuration for f
func (f Format) Encoder() Encoder {
	return encoders[f]
}

// Extension returns the output file extension including the dot
func (f Format) Extension() string {
	return encoders[f].Extension
}

func (f Format) String() string {
	return string(f)
}

// Channels is the output channel layout
type Channels int

const (
	Mono   Channels = 1
	Stereo Channels = 2
)

// DefaultChannels is used when no channel count is requested
const DefaultChannels = Stereo

// ParseChannels accepts 1 or 2
func ParseChannels(n int) (Channels, error) {
	c := Channels(n)
	if !c.Valid() {
		return 0, fmt.Errorf("%w: channels must be 1 or 2, got %d", ErrInvalidArgument, n)
	}
	return c, nil
}

// Valid reports whether c is mono or stereo
func (c Channels) Valid() bool {
	return c == Mono || c == Stereo
}

func (c Channels) String() string {
	switch c {
	case Mono:
		return "mono"
	case Stereo:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", int(c))
	}
}
