package audio

import (
	"errors"
	"strings"
	"testing"
)

func TestNewConversionRequest(t *testing.T) {
	tests := []struct {
		name        string
		sourcePath  string
		params      EncodingParams
		wantErr     error
		errContains string
	}{
		{
			name:       "valid request with defaults",
			sourcePath: "/videos/talk.mp4",
			params:     DefaultEncodingParams(),
		},
		{
			name:       "valid mp3 request with bitrate",
			sourcePath: "/videos/talk.mp4",
			params:     EncodingParams{Format: FormatMP3, SampleRate: 48000, Channels: Mono, Bitrate: "320k"},
		},
		{
			name:        "empty source path",
			sourcePath:  "",
			params:      DefaultEncodingParams(),
			wantErr:     ErrInvalidArgument,
			errContains: "source video path is required",
		},
		{
			name:       "unknown format",
			sourcePath: "/videos/talk.mp4",
			params:     EncodingParams{Format: "ogg", SampleRate: 44100, Channels: Stereo},
			wantErr:    ErrUnsupportedFormat,
		},
		{
			name:        "zero sample rate",
			sourcePath:  "/videos/talk.mp4",
			params:      EncodingParams{Format: FormatWAV, SampleRate: 0, Channels: Stereo},
			wantErr:     ErrInvalidArgument,
			errContains: "sample rate must be positive",
		},
		{
			name:        "three channels",
			sourcePath:  "/videos/talk.mp4",
			params:      EncodingParams{Format: FormatWAV, SampleRate: 44100, Channels: 3},
			wantErr:     ErrInvalidArgument,
			errContains: "channels must be 1 or 2",
		},
		{
			name:        "malformed bitrate",
			sourcePath:  "/videos/talk.mp4",
			params:      EncodingParams{Format: FormatMP3, SampleRate: 44100, Channels: Stereo, Bitrate: "fast"},
			wantErr:     ErrInvalidArgument,
			errContains: "invalid bitrate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewConversionRequest(tt.sourcePath, "", tt.params)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("NewConversionRequest() expected error, got nil")
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewConversionRequest() error = %v, want %v", err, tt.wantErr)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewConversionRequest() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewConversionRequest() unexpected error: %v", err)
			}
			if got.SourcePath != tt.sourcePath {
				t.Errorf("SourcePath = %q, want %q", got.SourcePath, tt.sourcePath)
			}
		})
	}
}

func TestConversionRequest_OutputPath(t *testing.T) {
	tests := []struct {
		name string
		req  ConversionRequest
		want string
	}{
		{
			name: "derived next to source",
			req:  ConversionRequest{SourcePath: "/videos/talk.mp4", EncodingParams: EncodingParams{Format: FormatWAV}},
			want: "/videos/talk.wav",
		},
		{
			name: "derived in destination dir",
			req:  ConversionRequest{SourcePath: "/videos/talk.mp4", DestinationDir: "/audio", EncodingParams: EncodingParams{Format: FormatFLAC}},
			want: "/audio/talk.flac",
		},
		{
			name: "explicit destination wins",
			req:  ConversionRequest{SourcePath: "/videos/talk.mp4", DestinationPath: "/tmp/out.wav", DestinationDir: "/audio", EncodingParams: EncodingParams{Format: FormatMP3}},
			want: "/tmp/out.wav",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.OutputPath(); got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodingParams_EffectiveBitrate(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatWAV, ""},
		{FormatFLAC, ""},
		{FormatMP3, "256k"},
		{FormatAAC, "256k"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			p := EncodingParams{Format: tt.format, SampleRate: 44100, Channels: Stereo, Bitrate: "256k"}
			if got := p.EffectiveBitrate(); got != tt.want {
				t.Errorf("EffectiveBitrate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewBatchRequest(t *testing.T) {
	if _, err := NewBatchRequest("", "", DefaultEncodingParams()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewBatchRequest(\"\") error = %v, want ErrInvalidArgument", err)
	}

	req, err := NewBatchRequest("/videos", "/audio", DefaultEncodingParams())
	if err != nil {
		t.Fatalf("NewBatchRequest() unexpected error: %v", err)
	}
	if req.DestinationDirectory != "/audio" {
		t.Errorf("DestinationDirectory = %q, want %q", req.DestinationDirectory, "/audio")
	}
}
