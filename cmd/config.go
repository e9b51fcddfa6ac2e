package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"video2audio/domain/audio"
	"video2audio/infrastructure/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration settings",
	Long: `Show or change individual settings in the configuration file.

Examples:
  video2audio config list
  video2audio config get defaults.format
  video2audio config set defaults.format mp3
  video2audio config set ffmpeg.probe_timeout 1m`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective settings",
	Args:  noArgs,
	RunE:  runConfigList,
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	return RunConfigListWithDependencies(cfg, ConfigPath(), DefaultOutput)
}

// RunConfigListWithDependencies prints every setting with its current value
func RunConfigListWithDependencies(cfg *config.Config, configPath string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(out, "Config file: %s\n\n", configPath)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, e := range mgr.List() {
		value := e.Value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", e.Key, value)
	}

	return w.Flush()
}

// --- GET command ---

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the value of one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	return RunConfigGetWithDependencies(cfg, ConfigPath(), args[0], DefaultOutput)
}

// RunConfigGetWithDependencies prints the value of one setting
func RunConfigGetWithDependencies(cfg *config.Config, configPath, key string, out OutputWriter) error {
	value, err := config.NewConfigManager(cfg, configPath).Get(key)
	if err != nil {
		return configKeyError(err)
	}
	fmt.Fprintln(out, value)
	return nil
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one setting and save the config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	// Reload from disk so environment overrides are not written back
	path := ConfigPath()
	fileCfg, err := config.Load(path)
	if err != nil {
		return err
	}
	return RunConfigSetWithDependencies(fileCfg, path, args[0], args[1], DefaultOutput)
}

// RunConfigSetWithDependencies updates one setting and saves the file
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.Set(key, value); err != nil {
		return configKeyError(err)
	}

	saved, _ := mgr.Get(key)
	fmt.Fprintf(out, "Set %s = %s in %s\n", key, saved, configPath)
	return nil
}

// configKeyError makes a bad key or value an invalid-argument error
func configKeyError(err error) error {
	if errors.Is(err, audio.ErrInvalidArgument) || errors.Is(err, audio.ErrUnsupportedFormat) {
		return err
	}
	if errors.Is(err, config.ErrUnknownKey) || errors.Is(err, config.ErrInvalidValue) {
		return fmt.Errorf("%w: %v", audio.ErrInvalidArgument, err)
	}
	return err
}
