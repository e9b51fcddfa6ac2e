package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"video2audio/domain/audio"
	"video2audio/infrastructure/config"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for default encoding parameters, output locations and the
ffmpeg/ffprobe executables, then writes video2audio.yaml (or the file given
with --config).

Flags always take precedence over the file, and VIDEO2AUDIO_FFMPEG,
VIDEO2AUDIO_FFPROBE and VIDEO2AUDIO_LOG_FILE (environment or .env) take
precedence over the file's values.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, ConfigPath(), DefaultOutput)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, output OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", configPath), false)
		if err != nil {
			return errPromptCancelled
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(output, "Welcome to video2audio setup!")
	fmt.Fprintln(output)

	cfg := config.Default()

	if err := promptDefaults(prompter, cfg); err != nil {
		return err
	}

	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}

	if err := promptFFmpeg(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Configuration saved to %s\n", configPath)
	return nil
}

func promptDefaults(prompter Prompter, cfg *config.Config) error {
	params, err := askParams(prompter, audio.DefaultEncodingParams())
	if err != nil {
		return err
	}

	overwrite, err := prompter.Confirm("Overwrite existing audio files by default?", false)
	if err != nil {
		return errPromptCancelled
	}

	cfg.Defaults = config.DefaultsConfig{
		Format:     params.Format.String(),
		SampleRate: params.SampleRate,
		Channels:   int(params.Channels),
		Bitrate:    params.Bitrate,
		Overwrite:  overwrite,
	}
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	outputDir, err := prompter.Input("Default output directory (empty for next to the source)?", "")
	if err != nil {
		return errPromptCancelled
	}
	cfg.Paths.OutputDirectory = strings.TrimSpace(outputDir)

	logFile, err := prompter.Input("Conversion log file?", cfg.Paths.LogFile)
	if err != nil {
		return errPromptCancelled
	}
	if logFile = strings.TrimSpace(logFile); logFile == "" {
		return fmt.Errorf("log file is required")
	}
	cfg.Paths.LogFile = logFile

	maxSize, err := prompter.Input("Rotate the log file at how many MB?", strconv.Itoa(cfg.Logging.MaxSizeMB))
	if err != nil {
		return errPromptCancelled
	}
	n, err := strconv.Atoi(strings.TrimSpace(maxSize))
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: log size must be a positive number, got %q", audio.ErrInvalidArgument, maxSize)
	}
	cfg.Logging.MaxSizeMB = n

	return nil
}

func promptFFmpeg(prompter Prompter, cfg *config.Config) error {
	ffmpegPath, err := prompter.Input("Path to ffmpeg?", cfg.FFmpeg.FFmpegPath)
	if err != nil {
		return errPromptCancelled
	}
	if ffmpegPath = strings.TrimSpace(ffmpegPath); ffmpegPath != "" {
		cfg.FFmpeg.FFmpegPath = ffmpegPath
	}

	ffprobePath, err := prompter.Input("Path to ffprobe?", cfg.FFmpeg.FFprobePath)
	if err != nil {
		return errPromptCancelled
	}
	if ffprobePath = strings.TrimSpace(ffprobePath); ffprobePath != "" {
		cfg.FFmpeg.FFprobePath = ffprobePath
	}

	return nil
}
