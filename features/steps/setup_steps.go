//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"video2audio/cmd"
	"video2audio/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	originalContent string
	output          *bytes.Buffer
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing. Each prompt is answered with the
// first response whose key appears in the prompt message, or with the prompt's default.
type MockPrompter struct {
	responses map[string]string
	asked     []string
}

func NewMockPrompter(responses map[string]string) *MockPrompter {
	return &MockPrompter{responses: responses}
}

func (m *MockPrompter) lookup(message string) (string, bool) {
	m.asked = append(m.asked, message)
	for key, value := range m.responses {
		if strings.Contains(strings.ToLower(message), strings.ToLower(key)) {
			return value, true
		}
	}
	return "", false
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if v, ok := m.lookup(message); ok {
		return v, nil
	}
	return defaultValue, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if v, ok := m.lookup(message); ok {
		return strings.ToLower(v) == "y", nil
	}
	return defaultValue, nil
}

func (m *MockPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	v, ok := m.lookup(message)
	if !ok {
		return defaultValue, nil
	}
	for _, o := range options {
		if o == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("%q is not an option for %q (options: %v)", v, message, options)
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		// Create temp directory for each scenario
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "conf", "video2audio.yaml")
		testCtx.originalContent = ""
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		// Cleanup temp directory
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, testCtx.noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, testCtx.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with answers:$`, testCtx.iRunTheSetupCommandWithAnswers)
	ctx.Step(`^a config file should exist$`, testCtx.aConfigFileShouldExist)
	ctx.Step(`^the config default format should be "([^"]*)"$`, testCtx.theConfigDefaultFormatShouldBe)
	ctx.Step(`^the config default channels should be (\d+)$`, testCtx.theConfigDefaultChannelsShouldBe)
	ctx.Step(`^the config default bitrate should be "([^"]*)"$`, testCtx.theConfigDefaultBitrateShouldBe)
	ctx.Step(`^the config output directory should be "([^"]*)"$`, testCtx.theConfigOutputDirectoryShouldBe)
	ctx.Step(`^the config ffmpeg path should be "([^"]*)"$`, testCtx.theConfigFFmpegPathShouldBe)
	ctx.Step(`^the setup should be cancelled$`, testCtx.theSetupShouldBeCancelled)
	ctx.Step(`^the setup should fail$`, testCtx.theSetupShouldFail)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
}

func (s *setupContext) noConfigFileExistsForSetup() error {
	_, err := os.Stat(s.configPath)
	if err == nil {
		return fmt.Errorf("config unexpectedly exists at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}

	content := `defaults:
  format: mp3
  sample_rate: 44100
  channels: 2
  bitrate: 192k
paths:
  log_file: original.log
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

func (s *setupContext) iRunTheSetupCommandWithAnswers(table *godog.Table) error {
	responses := make(map[string]string)
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		responses[row.Cells[0].Value] = row.Cells[1].Value
	}

	s.err = cmd.RunSetupWithPrompter(NewMockPrompter(responses), s.configPath, s.output)
	return nil
}

func (s *setupContext) loadConfig() (*config.Config, error) {
	if s.err != nil {
		return nil, fmt.Errorf("setup command failed: %w", s.err)
	}
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (s *setupContext) aConfigFileShouldExist() error {
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) theConfigDefaultFormatShouldBe(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Defaults.Format != expected {
		return fmt.Errorf("expected format %q, got %q", expected, cfg.Defaults.Format)
	}
	return nil
}

func (s *setupContext) theConfigDefaultChannelsShouldBe(expected int) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Defaults.Channels != expected {
		return fmt.Errorf("expected channels %d, got %d", expected, cfg.Defaults.Channels)
	}
	return nil
}

func (s *setupContext) theConfigDefaultBitrateShouldBe(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Defaults.Bitrate != expected {
		return fmt.Errorf("expected bitrate %q, got %q", expected, cfg.Defaults.Bitrate)
	}
	return nil
}

func (s *setupContext) theConfigOutputDirectoryShouldBe(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Paths.OutputDirectory != expected {
		return fmt.Errorf("expected output_directory %q, got %q", expected, cfg.Paths.OutputDirectory)
	}
	return nil
}

func (s *setupContext) theConfigFFmpegPathShouldBe(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.FFmpeg.FFmpegPath != expected {
		return fmt.Errorf("expected ffmpeg_path %q, got %q", expected, cfg.FFmpeg.FFmpegPath)
	}
	return nil
}

func (s *setupContext) theSetupShouldBeCancelled() error {
	if s.err != nil {
		return fmt.Errorf("expected a clean cancel, got error: %w", s.err)
	}
	if !strings.Contains(s.output.String(), "Setup cancelled.") {
		return fmt.Errorf("expected setup to be cancelled, output:\n%s", s.output.String())
	}
	return nil
}

func (s *setupContext) theSetupShouldFail() error {
	if s.err == nil {
		return fmt.Errorf("expected setup to fail")
	}
	if _, err := os.Stat(s.configPath); err == nil && s.originalContent == "" {
		return fmt.Errorf("config written despite failure: %s", s.configPath)
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config content was changed")
	}
	return nil
}
