package svcctl

import (
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Config carries the per-invocation constants threaded through every
// component: install layout, supervisor binaries, interpreter, and the
// service-kind registry. It is constructed once per CLI invocation and
// never mutated afterwards.
type Config struct {
	// InstallRoot is the root of the installed tree; injected into
	// settings as HOME
	InstallRoot string

	// ServicesDir holds the per-service descriptor documents
	ServicesDir string

	// TemplateDir optionally overrides the built-in unit templates
	TemplateDir string

	// StaticAssetsDir is the source tree staged for process-pool services
	StaticAssetsDir string

	// UnitDir is the supervisor's unit file directory
	UnitDir string

	// LoggingDir is the logging directory constant injected into settings
	LoggingDir string

	// InterpreterPath is the executable interpreter for managed services
	InterpreterPath string

	// ScriptSuffix marks command tokens executed under the interpreter
	ScriptSuffix string

	// SettleDelay is the fixed wait between restart and the health probe
	SettleDelay time.Duration

	// ServiceKinds maps service names to their kind
	ServiceKinds map[string]ServiceKind

	// PoolWorker is the process-pool worker binary name, resolved next to
	// the interpreter
	PoolWorker string

	// PoolConfigFile is the process-pool worker config file name under
	// ServicesDir
	PoolConfigFile string

	// QueueWorker is the task-queue worker binary name, resolved next to
	// the interpreter
	QueueWorker string

	// SystemctlPath is the path to the systemctl binary
	SystemctlPath string

	// RsyncPath is the path to the rsync binary
	RsyncPath string

	// UseSudo indicates whether privileged operations go through sudo
	UseSudo bool

	// SudoCommand is the sudo command to use
	SudoCommand string
}

// DefaultConfig builds a Config rooted at the running executable's
// directory, with the interpreter resolved from PATH when possible.
func DefaultConfig() *Config {
	root := "."
	if exe, err := os.Executable(); err == nil {
		root = filepath.Dir(exe)
	}

	interpreter := DefaultInterpreter
	if path, err := exec.LookPath(DefaultInterpreter); err == nil {
		interpreter = path
	}

	return &Config{
		InstallRoot:     root,
		ServicesDir:     filepath.Join(root, "services"),
		StaticAssetsDir: filepath.Join(root, "project_static"),
		UnitDir:         DefaultUnitDir,
		LoggingDir:      DefaultLoggingDir,
		InterpreterPath: interpreter,
		ScriptSuffix:    DefaultScriptSuffix,
		SettleDelay:     DefaultSettleDelay,
		ServiceKinds:    DefaultServiceKinds(),
		PoolWorker:      "gunicorn",
		PoolConfigFile:  "pool_config.py",
		QueueWorker:     "celery",
		SystemctlPath:   DefaultSystemctlPath,
		RsyncPath:       DefaultRsyncPath,
		UseSudo:         os.Geteuid() != 0,
		SudoCommand:     DefaultSudoCommand,
	}
}

// DefaultServiceKinds returns the default service name to kind registry
func DefaultServiceKinds() map[string]ServiceKind {
	return map[string]ServiceKind{
		"webapp":      KindProcessPool,
		"taskplanner": KindTaskQueue,
		"taskworker":  KindTaskQueue,
	}
}

// KindFor returns the registered kind for a service name
func (c *Config) KindFor(service string) (ServiceKind, bool) {
	kind, ok := c.ServiceKinds[service]
	return kind, ok
}

// UnitPath returns the unit file path for a unit name
func (c *Config) UnitPath(unitName string) string {
	return filepath.Join(c.UnitDir, unitName)
}
