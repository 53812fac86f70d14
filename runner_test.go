package svcctl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedExec struct {
	argv []string
	env  []string
	code int
	runs int
}

func (r *recordedExec) exec(_ context.Context, argv []string, env []string) (int, error) {
	r.argv = argv
	r.env = env
	r.runs++
	return r.code, nil
}

func newTestRunner(t *testing.T) (*Runner, *recordedExec) {
	t.Helper()
	cfg := testConfig(t)
	rec := &recordedExec{}
	runner := NewRunner(cfg)
	runner.Exec = rec.exec
	return runner, rec
}

func TestRunMissingCommand(t *testing.T) {
	runner, rec := newTestRunner(t)
	writeDescriptor(t, runner.Config, "svc", "configs:\n  prod: {}\n")

	err := runner.Run(context.Background(), "svc", "prod")
	assert.ErrorIs(t, err, ErrMissingRunCommand)
	assert.Zero(t, rec.runs)
}

func TestRunScriptUsesInterpreter(t *testing.T) {
	runner, rec := newTestRunner(t)
	writeDescriptor(t, runner.Config, "svc", `common:
  run: "serve.py --port 8080"
configs:
  prod: {}
`)

	require.NoError(t, runner.Run(context.Background(), "svc", "prod"))
	assert.Equal(t, []string{runner.Config.InterpreterPath, "serve.py", "--port", "8080"}, rec.argv)
}

func TestRunAdjacentExecutableSubstitution(t *testing.T) {
	runner, rec := newTestRunner(t)
	binDir := filepath.Dir(runner.Config.InterpreterPath)
	toolPath := filepath.Join(binDir, "managectl")
	require.NoError(t, os.WriteFile(toolPath, []byte("#!/bin/sh\n"), 0o755))

	writeDescriptor(t, runner.Config, "svc", `common:
  run: "managectl check"
configs:
  prod: {}
`)

	require.NoError(t, runner.Run(context.Background(), "svc", "prod"))
	assert.Equal(t, []string{toolPath, "check"}, rec.argv)
}

func TestRunUnknownToolPassesThrough(t *testing.T) {
	runner, rec := newTestRunner(t)
	writeDescriptor(t, runner.Config, "svc", `common:
  run: "some-tool --flag"
configs:
  prod: {}
`)

	require.NoError(t, runner.Run(context.Background(), "svc", "prod"))
	assert.Equal(t, []string{"some-tool", "--flag"}, rec.argv)
}

func TestRunQuotedArguments(t *testing.T) {
	runner, rec := newTestRunner(t)
	writeDescriptor(t, runner.Config, "svc", `common:
  run: 'some-tool --name "hello world"'
configs:
  prod: {}
`)

	require.NoError(t, runner.Run(context.Background(), "svc", "prod"))
	assert.Equal(t, []string{"some-tool", "--name", "hello world"}, rec.argv)
}

func TestRunEnvOverlay(t *testing.T) {
	runner, rec := newTestRunner(t)
	writeDescriptor(t, runner.Config, "svc", `common:
  run: "some-tool"
  env:
    ROLE: "{service}-{config}"
    WORKERS: 4
configs:
  prod: {}
env_prefix: APP
`)

	require.NoError(t, runner.Run(context.Background(), "svc", "prod"))

	assert.Contains(t, rec.env, "APP_ROLE=svc-prod")
	assert.Contains(t, rec.env, "APP_WORKERS=4")
	// the parent environment is inherited, not replaced
	assert.GreaterOrEqual(t, len(rec.env), len(os.Environ()))
}

func TestRunExitCodePropagated(t *testing.T) {
	runner, rec := newTestRunner(t)
	rec.code = 42
	writeDescriptor(t, runner.Config, "svc", `common:
  run: "some-tool"
configs:
  prod: {}
`)

	err := runner.Run(context.Background(), "svc", "prod")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 42, exitErr.Code)
}

func TestDoAction(t *testing.T) {
	runner, rec := newTestRunner(t)
	writeDescriptor(t, runner.Config, "svc", `common:
  actions:
    migrate: "manage.py migrate"
configs:
  prod: {}
`)

	extra := []string{"--fake", "two words"}
	require.NoError(t, runner.Do(context.Background(), "svc", "prod", "migrate", extra))

	// extra arguments are appended verbatim, with no re-tokenization
	assert.Equal(t, []string{runner.Config.InterpreterPath, "manage.py", "migrate", "--fake", "two words"}, rec.argv)
}

func TestDoUnknownAction(t *testing.T) {
	runner, rec := newTestRunner(t)
	writeDescriptor(t, runner.Config, "svc", `common:
  actions:
    migrate: "manage.py migrate"
configs:
  prod: {}
`)

	err := runner.Do(context.Background(), "svc", "prod", "nosuch", nil)
	assert.ErrorIs(t, err, ErrMissingActionCommand)
	assert.Zero(t, rec.runs)
}

func TestDoWithoutActions(t *testing.T) {
	runner, rec := newTestRunner(t)
	writeDescriptor(t, runner.Config, "svc", "configs:\n  prod: {}\n")

	err := runner.Do(context.Background(), "svc", "prod", "migrate", nil)
	assert.ErrorIs(t, err, ErrMissingActionCommand)
	assert.Zero(t, rec.runs)
}

func TestDoResolutionErrorPropagates(t *testing.T) {
	runner, rec := newTestRunner(t)

	err := runner.Do(context.Background(), "nosuch", "prod", "migrate", nil)
	assert.ErrorIs(t, err, ErrDescriptorNotFound)
	assert.Zero(t, rec.runs)
}
