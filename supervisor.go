package svcctl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Supervisor is the narrow capability interface over the external process
// supervisor. Every call is blocking and returns only a success/failure
// signal; no structured output is parsed beyond that.
type Supervisor interface {
	// ReloadUnits asks the supervisor to re-read its unit index
	ReloadUnits(ctx context.Context) error

	// Enable marks the unit for future activation
	Enable(ctx context.Context, unitName string) error

	// Disable removes the unit from the activation set
	Disable(ctx context.Context, unitName string) error

	// Restart starts or restarts the unit
	Restart(ctx context.Context, unitName string) error

	// Stop stops the unit
	Stop(ctx context.Context, unitName string) error

	// IsActive reports whether the unit is currently active. An inactive
	// unit is (false, nil); only a failure to query is an error.
	IsActive(ctx context.Context, unitName string) (bool, error)
}

// Systemctl drives systemd through the systemctl command line.
type Systemctl struct {
	// SystemctlPath is the path to the systemctl binary
	SystemctlPath string

	// UseSudo indicates whether to use sudo for systemctl commands
	UseSudo bool

	// SudoCommand is the sudo command to use
	SudoCommand string

	// Timeout bounds each systemctl invocation; zero means no timeout
	Timeout time.Duration
}

// NewSystemctl creates a Systemctl with sudo auto-detected from the
// effective uid.
func NewSystemctl() *Systemctl {
	return &Systemctl{
		SystemctlPath: DefaultSystemctlPath,
		UseSudo:       os.Geteuid() != 0,
		SudoCommand:   DefaultSudoCommand,
		Timeout:       10 * time.Second,
	}
}

// WithSudo configures sudo usage
func (s *Systemctl) WithSudo(use bool, command string) *Systemctl {
	s.UseSudo = use
	if command != "" {
		s.SudoCommand = command
	}
	return s
}

// WithTimeout sets the per-invocation timeout
func (s *Systemctl) WithTimeout(d time.Duration) *Systemctl {
	s.Timeout = d
	return s
}

// execSystemctl runs systemctl with the given arguments, optionally under
// sudo, and returns its stdout. Stderr is folded into the returned error.
func (s *Systemctl) execSystemctl(ctx context.Context, args ...string) (string, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	var cmd *exec.Cmd
	if s.UseSudo {
		sudoArgs := append([]string{s.SystemctlPath}, args...)
		cmd = exec.CommandContext(ctx, s.SudoCommand, sudoArgs...)
	} else {
		cmd = exec.CommandContext(ctx, s.SystemctlPath, args...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("systemctl %s: %w (stderr: %s)",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// ReloadUnits runs systemctl daemon-reload
func (s *Systemctl) ReloadUnits(ctx context.Context) error {
	_, err := s.execSystemctl(ctx, "daemon-reload")
	return err
}

// Enable enables the unit for future activation
func (s *Systemctl) Enable(ctx context.Context, unitName string) error {
	_, err := s.execSystemctl(ctx, "enable", unitName)
	return err
}

// Disable disables the unit
func (s *Systemctl) Disable(ctx context.Context, unitName string) error {
	_, err := s.execSystemctl(ctx, "disable", unitName)
	return err
}

// Restart starts or restarts the unit
func (s *Systemctl) Restart(ctx context.Context, unitName string) error {
	_, err := s.execSystemctl(ctx, "restart", unitName)
	return err
}

// Stop stops the unit
func (s *Systemctl) Stop(ctx context.Context, unitName string) error {
	_, err := s.execSystemctl(ctx, "stop", unitName)
	return err
}

// inactiveExitCode is the is-active exit status for a unit that is not
// running. Any other nonzero exit is a query failure, not a status.
const inactiveExitCode = 3

// IsActive reports whether the unit is active. is-active exits 3 for an
// inactive unit; that is a status, not an error. Every other failure (bus
// unreachable, unit load error, timeout kill) is surfaced to the caller.
func (s *Systemctl) IsActive(ctx context.Context, unitName string) (bool, error) {
	output, err := s.execSystemctl(ctx, "is-active", unitName)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == inactiveExitCode {
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(output) == "active", nil
}
