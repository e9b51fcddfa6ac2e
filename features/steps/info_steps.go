//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"video2audio/cmd"
	"video2audio/domain/audio"
	"video2audio/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

// infoContext holds test state for info scenarios
type infoContext struct {
	output *bytes.Buffer
	err    error
}

var SharedInfoContext *infoContext

func InitializeInfoScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedInfoContext = &infoContext{output: &bytes.Buffer{}}
		return c, nil
	})

	ctx.Step(`^I run info on "([^"]*)"$`, iRunInfoOn)
	ctx.Step(`^the info output should contain "([^"]*)"$`, theInfoOutputShouldContain)
	ctx.Step(`^info should fail with an unsupported input error$`, infoShouldFailWithAnUnsupportedInputError)
}

func iRunInfoOn(path string) error {
	e := SharedInfoContext
	e.err = cmd.RunInfoWithDependencies(context.Background(), &fixtureBackend{}, filesystem.NewChecker(), path, e.output)
	return nil
}

func theInfoOutputShouldContain(text string) error {
	e := SharedInfoContext
	if e.err != nil {
		return fmt.Errorf("info failed: %w", e.err)
	}
	if !strings.Contains(e.output.String(), text) {
		return fmt.Errorf("expected info output to contain %q, got:\n%s", text, e.output.String())
	}
	return nil
}

func infoShouldFailWithAnUnsupportedInputError() error {
	e := SharedInfoContext
	if !errors.Is(e.err, audio.ErrUnsupportedInput) {
		return fmt.Errorf("expected unsupported input error, got %v", e.err)
	}
	return nil
}
