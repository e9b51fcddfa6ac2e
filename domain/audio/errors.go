package audio

import "errors"

var (
	// ErrInvalidArgument is returned for bad parameter values or combinations
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedFormat is returned for an unknown output format
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrUnsupportedInput is returned when a source file is not a supported video
	ErrUnsupportedInput = errors.New("unsupported video format")

	// ErrSourceNotFound is returned when the source video does not exist
	ErrSourceNotFound = errors.New("source video does not exist")

	// ErrNoAudioTrack is returned when the source video has no audio stream
	ErrNoAudioTrack = errors.New("source has no audio track")

	// ErrBackendDecode is returned when the media backend cannot read the source
	ErrBackendDecode = errors.New("backend decode error")

	// ErrBackendEncode is returned when the media backend cannot write the output
	ErrBackendEncode = errors.New("backend encode error")

	// ErrOutputExists is returned when the destination exists and overwrite is off
	ErrOutputExists = errors.New("output exists")

	// ErrIO is returned when the destination cannot be prepared
	ErrIO = errors.New("io error")

	// ErrCancelled is returned for candidates not attempted after cancellation
	ErrCancelled = errors.New("cancelled")
)
