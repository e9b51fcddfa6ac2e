package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"video2audio/domain/audio"
	"video2audio/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

// ErrConversionFailed is returned after the summary when at least one file failed
var ErrConversionFailed = errors.New("one or more files failed to convert")

var rootCmd = &cobra.Command{
	Use:   "video2audio",
	Short: "Convert video files to audio files",
	Long: `video2audio extracts the audio track of video files and writes it as
wav, mp3, flac or aac, one file at a time, using ffmpeg.

Run without a command to start the interactive mode. Use "cli" for scripting:

  video2audio cli -i talk.mp4
  video2audio cli -d ./recordings -od ./audio --format mp3 --bitrate 192k`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGUI,
}

// Execute runs the root command and exits with the code matching the outcome
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd.SetArgs(NormalizeArgs(os.Args[1:]))
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(ExitCode(err))
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultPath+")")
	rootCmd.SetFlagErrorFunc(invalidFlagError)
}

func invalidFlagError(c *cobra.Command, err error) error {
	return fmt.Errorf("%w: %v", audio.ErrInvalidArgument, err)
}

func initConfig() {
	config.LoadDotEnv(".env")

	path := cfgFile
	if path == "" {
		path = config.DefaultPath
	}

	cfg, cfgErr = config.Load(path)
	if cfgErr != nil {
		// Reported by the commands that need it so that help still works
		cfg = nil
		return
	}
	cfg.ApplyEnv()
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

// ConfigPath returns the config file path in use
func ConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath
}

// ExitCode maps a command error to the process exit code:
// 0 success, 2 invalid arguments, 1 anything else
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, audio.ErrInvalidArgument), errors.Is(err, audio.ErrUnsupportedFormat):
		return 2
	default:
		return 1
	}
}

// NormalizeArgs rewrites the two-letter -od shorthand to --output-dir
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		switch {
		case arg == "-od":
			out = append(out, "--output-dir")
		case strings.HasPrefix(arg, "-od="):
			out = append(out, "--output-dir="+strings.TrimPrefix(arg, "-od="))
		default:
			out = append(out, arg)
		}
	}
	return out
}

// noArgs rejects positional arguments as invalid arguments
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected argument %q for %q", audio.ErrInvalidArgument, args[0], cmd.CommandPath())
	}
	return nil
}
