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

type configContext struct {
	tempDir    string
	configPath string
	output     *bytes.Buffer
	err        error
}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := &configContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "video2audio.yaml")
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^a config file with format "([^"]*)"$`, testCtx.aConfigFileWithFormat)
	ctx.Step(`^I run config list$`, testCtx.iRunConfigList)
	ctx.Step(`^I run config set "([^"]*)" to "([^"]*)"$`, testCtx.iRunConfigSet)
	ctx.Step(`^the config output should contain "([^"]*)"$`, testCtx.theConfigOutputShouldContain)
	ctx.Step(`^the saved config should have "([^"]*)" set to "([^"]*)"$`, testCtx.theSavedConfigShouldHave)
	ctx.Step(`^the config command should fail with exit code (\d+)$`, testCtx.theConfigCommandShouldFailWithExitCode)
}

func (c *configContext) aConfigFileWithFormat(format string) error {
	cfg := config.Default()
	cfg.Defaults.Format = format
	return config.Save(cfg, c.configPath)
}

func (c *configContext) load() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (c *configContext) iRunConfigList() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigListWithDependencies(cfg, c.configPath, c.output)
	return nil
}

func (c *configContext) iRunConfigSet(key, value string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigSetWithDependencies(cfg, c.configPath, key, value, c.output)
	return nil
}

func (c *configContext) theConfigOutputShouldContain(expected string) error {
	if c.err != nil {
		return fmt.Errorf("command failed: %v", c.err)
	}
	if !strings.Contains(c.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, c.output.String())
	}
	return nil
}

func (c *configContext) theSavedConfigShouldHave(key, expected string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	got, err := config.NewConfigManager(cfg, c.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s to be %q, got %q", key, expected, got)
	}
	return nil
}

func (c *configContext) theConfigCommandShouldFailWithExitCode(code int) error {
	if c.err == nil {
		return fmt.Errorf("expected command to fail")
	}
	if got := cmd.ExitCode(c.err); got != code {
		return fmt.Errorf("expected exit code %d, got %d (%v)", code, got, c.err)
	}
	return nil
}
