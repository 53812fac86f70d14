package svcctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"go.uber.org/zap"
)

// ExecFunc executes a fully resolved command line with the given
// environment, blocking until it exits, and returns the exit code.
type ExecFunc func(ctx context.Context, argv []string, env []string) (int, error)

// Runner resolves and executes the run and action command lines declared
// in a service's settings. The child inherits the parent's standard
// streams and environment, overlaid with the settings' env mapping; its
// exit code is the principal success signal and is propagated verbatim.
type Runner struct {
	// Config supplies the interpreter path and script suffix
	Config *Config

	// Resolver materializes settings for (service, config) pairs
	Resolver *Resolver

	// Exec executes the resolved command; defaults to a real process run
	Exec ExecFunc

	// Logger receives debug-level progress; defaults to a nop logger
	Logger *zap.SugaredLogger
}

// NewRunner wires a Runner with the default collaborators
func NewRunner(cfg *Config) *Runner {
	return &Runner{
		Config:   cfg,
		Resolver: &Resolver{Store: &Store{Dir: cfg.ServicesDir}, Config: cfg},
		Exec:     execForeground,
		Logger:   zap.NewNop().Sugar(),
	}
}

// Run executes the service's run command in the foreground. A nonzero
// child exit is returned as *ExitError carrying the code.
func (r *Runner) Run(ctx context.Context, service, config string) error {
	settings, err := r.Resolver.Resolve(service, config)
	if err != nil {
		return err
	}

	raw, ok := commandString(settings, keyRun)
	if !ok {
		return fmt.Errorf("%w: service [%s]", ErrMissingRunCommand, service)
	}

	return r.execute(ctx, settings, raw, nil)
}

// Do executes the named action command with extra arguments appended
// verbatim.
func (r *Runner) Do(ctx context.Context, service, config, action string, args []string) error {
	settings, err := r.Resolver.Resolve(service, config)
	if err != nil {
		return err
	}

	actions, ok := settings.Get(keyActions)
	if !ok {
		return fmt.Errorf("%w: no actions defined for service [%s]", ErrMissingActionCommand, service)
	}
	actionsMap, ok := actions.AsMapping()
	if !ok {
		return fmt.Errorf("%w: actions is not a mapping", ErrMissingActionCommand)
	}

	raw, ok := commandStringFrom(actionsMap, action)
	if !ok {
		return fmt.Errorf("%w: action [%s]", ErrMissingActionCommand, action)
	}

	return r.execute(ctx, settings, raw, args)
}

func (r *Runner) execute(ctx context.Context, settings *Settings, raw string, extra []string) error {
	argv, err := r.resolveCommand(raw, extra)
	if err != nil {
		return err
	}

	env := os.Environ()
	for _, p := range settings.Env() {
		env = append(env, p.Key+"="+p.Value.Text())
	}

	r.Logger.Debugw("executing command", "argv", argv)
	code, err := r.Exec(ctx, argv, env)
	if err != nil {
		return fmt.Errorf("executing %s: %w", argv[0], err)
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// resolveCommand tokenizes a descriptor command line and qualifies its
// first token: a script path runs under the interpreter, and a bare name
// matching an executable beside the interpreter is replaced with that
// absolute path, so descriptors can reference logical tool names portably.
func (r *Runner) resolveCommand(raw string, extra []string) ([]string, error) {
	tokens, err := shlex.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing command %q: %w", raw, err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty command %q", raw)
	}

	tokens = append(tokens, extra...)

	first := tokens[0]
	if strings.HasSuffix(first, r.Config.ScriptSuffix) {
		return append([]string{r.Config.InterpreterPath}, tokens...), nil
	}

	candidate := filepath.Join(filepath.Dir(r.Config.InterpreterPath), first)
	if _, err := os.Stat(candidate); err == nil {
		tokens[0] = candidate
	}

	return tokens, nil
}

// commandString extracts a non-empty string entry from the settings
func commandString(settings *Settings, key string) (string, bool) {
	return commandStringFrom(&settings.Mapping, key)
}

func commandStringFrom(m *Mapping, key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.AsString()
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// execForeground runs the command synchronously with inherited standard
// streams. A nonzero exit is a result, not an error.
func execForeground(ctx context.Context, argv []string, env []string) (int, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = env

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}
