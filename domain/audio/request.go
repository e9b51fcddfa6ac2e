package audio

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultSampleRate is the output sample rate in Hz when none is requested
const DefaultSampleRate = 44100

var bitrateRegex = regexp.MustCompile(`^\d+(\.\d+)?[kKmM]?$`)

// EncodingParams are the output parameters shared by single-file and batch requests
type EncodingParams struct {
	Format     Format
	SampleRate int
	Channels   Channels
	Bitrate    string // Optional, encoder specific (e.g. "320k"), ignored for lossless formats
	Overwrite  bool
}

// DefaultEncodingParams returns wav, 44100 Hz, stereo, encoder default bitrate
func DefaultEncodingParams() EncodingParams {
	return EncodingParams{
		Format:     DefaultFormat,
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
	}
}

// Validate checks the parameters against the supported ranges
func (p EncodingParams) Validate() error {
	if !p.Format.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, p.Format)
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidArgument, p.SampleRate)
	}
	if !p.Channels.Valid() {
		return fmt.Errorf("%w: channels must be 1 or 2, got %d", ErrInvalidArgument, int(p.Channels))
	}
	if p.Bitrate != "" && !bitrateRegex.MatchString(p.Bitrate) {
		return fmt.Errorf("%w: invalid bitrate %q (expected e.g. 192k)", ErrInvalidArgument, p.Bitrate)
	}
	return nil
}

// EffectiveBitrate returns the bitrate to pass to the encoder, empty for lossless formats
func (p EncodingParams) EffectiveBitrate() string {
	if !p.Format.Encoder().Lossy {
		return ""
	}
	return p.Bitrate
}

// ConversionRequest represents a request to convert one video file to audio
type ConversionRequest struct {
	SourcePath      string
	DestinationPath string // Optional: derived from SourcePath when empty
	DestinationDir  string // Optional: used for the derived path
	EncodingParams
}

// NewConversionRequest creates a new ConversionRequest with validation
func NewConversionRequest(sourcePath, destinationPath string, params EncodingParams) (*ConversionRequest, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return nil, fmt.Errorf("%w: source video path is required", ErrInvalidArgument)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &ConversionRequest{
		SourcePath:      sourcePath,
		DestinationPath: destinationPath,
		EncodingParams:  params,
	}, nil
}

// OutputPath returns the explicit destination or the one derived from the source and format
func (r *ConversionRequest) OutputPath() string {
	if r.DestinationPath != "" {
		return r.DestinationPath
	}
	return ResolveDestination(r.SourcePath, r.DestinationDir, r.Format)
}

// BatchRequest represents a request to convert every candidate video under a directory
type BatchRequest struct {
	SourceDirectory      string
	DestinationDirectory string // Optional: outputs go next to their sources when empty
	EncodingParams
}

// NewBatchRequest creates a new BatchRequest with validation
func NewBatchRequest(sourceDir, destinationDir string, params EncodingParams) (*BatchRequest, error) {
	if strings.TrimSpace(sourceDir) == "" {
		return nil, fmt.Errorf("%w: source directory is required", ErrInvalidArgument)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &BatchRequest{
		SourceDirectory:      sourceDir,
		DestinationDirectory: destinationDir,
		EncodingParams:       params,
	}, nil
}
