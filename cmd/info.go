package cmd

import (
	"context"
	"fmt"

	"video2audio/domain/audio"
	"video2audio/infrastructure/ffmpeg"
	"video2audio/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Show the duration and audio track of a video",
	Long: `Probe a video with ffprobe and print its size, container, duration and
audio track, or "no audio track" when it has none.

Example:
  video2audio info talk.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	backend := ffmpeg.NewBackend(
		ffmpeg.WithFFmpegPath(cfg.FFmpeg.FFmpegPath),
		ffmpeg.WithFFprobePath(cfg.FFmpeg.FFprobePath),
		ffmpeg.WithProbeTimeout(cfg.FFmpeg.ProbeTimeout),
	)

	return RunInfoWithDependencies(cmd.Context(), backend, filesystem.NewChecker(), args[0], DefaultOutput)
}

// RunInfoWithDependencies runs the info command with injected dependencies (for testing)
func RunInfoWithDependencies(ctx context.Context, backend audio.MediaBackend, fs audio.FileSystem, path string, output OutputWriter) error {
	if !audio.IsSupportedVideo(path) {
		return fmt.Errorf("%w: %s", audio.ErrUnsupportedInput, path)
	}
	if !fs.Exists(path) {
		return fmt.Errorf("%w: %s", audio.ErrSourceNotFound, path)
	}

	handle, err := backend.Open(ctx, path)
	if err != nil {
		return err
	}
	if handle.Size == 0 {
		if size, err := fs.Size(path); err == nil {
			handle.Size = size
		}
	}

	printMediaInfo(output, handle)
	return nil
}

func printMediaInfo(output OutputWriter, handle *audio.MediaHandle) {
	fmt.Fprintf(output, "File:      %s\n", handle.Path)
	fmt.Fprintf(output, "Size:      %s\n", audio.FormatFileSize(handle.Size))
	if handle.Container != "" {
		fmt.Fprintf(output, "Container: %s\n", handle.Container)
	}
	fmt.Fprintf(output, "Duration:  %s\n", audio.TimestampFromDuration(handle.Duration))
	if !handle.HasAudio {
		fmt.Fprintln(output, "Audio:     no audio track")
		return
	}
	fmt.Fprintf(output, "Audio:     %s, %d Hz, %d channel(s)\n", handle.AudioCodec, handle.SampleRate, handle.Channels)
}
