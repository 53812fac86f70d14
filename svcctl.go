package svcctl

import (
	"fmt"
	"io/fs"
	"time"
)

// Well-known locations and defaults
const (
	// DefaultUnitDir is the supervisor's unit file directory
	DefaultUnitDir = "/etc/systemd/system"

	// DefaultLoggingDir is the logging directory injected into settings
	DefaultLoggingDir = "/var/log/svcctl"

	// DefaultSettleDelay is the fixed wait after a restart command before
	// the health probe
	DefaultSettleDelay = 2 * time.Second

	// DefaultInterpreter is the interpreter looked up on PATH when no
	// explicit path is configured
	DefaultInterpreter = "python3"

	// DefaultScriptSuffix marks command tokens that must run under the
	// interpreter
	DefaultScriptSuffix = ".py"

	// DefaultSystemctlPath is the default path to the systemctl binary
	DefaultSystemctlPath = "systemctl"

	// DefaultRsyncPath is the default path to the rsync binary
	DefaultRsyncPath = "rsync"

	// DefaultSudoCommand is the sudo command used for privileged operations
	DefaultSudoCommand = "sudo"

	// UnitPrefix namespaces every unit this tool owns
	UnitPrefix = "svcctl"
)

// File modes
const (
	// DirMode is the default mode for created directories
	DirMode fs.FileMode = 0o755

	// FileMode is the default mode for created files
	FileMode fs.FileMode = 0o644
)

// Keys injected into every resolved settings mapping. They are applied
// after the descriptor merge and always win over descriptor content.
const (
	// KeyService is the originating service name
	KeyService = "SERVICE"

	// KeyConfig is the originating config name
	KeyConfig = "CONFIG"

	// KeyHome is the install root path
	KeyHome = "HOME"

	// KeyInterpreter is the path to the executable interpreter
	KeyInterpreter = "INTERPRETER_CMD"

	// KeyLoggingDir is the logging directory constant
	KeyLoggingDir = "LOGGING_DIR"
)

// Keys derived per service kind during install
const (
	// KeyPoolCmd is the interpreter-adjacent process-pool worker path
	KeyPoolCmd = "POOL_CMD"

	// KeyPoolConfigPath is the process-pool worker configuration file path
	KeyPoolConfigPath = "POOL_CONFIG_PATH"

	// KeyQueueCmd is the interpreter-adjacent task-queue worker path
	KeyQueueCmd = "QUEUE_CMD"
)

// Descriptor-provided keys consumed by the controller and runner
const (
	keyEnv        = "env"
	keyRun        = "run"
	keyActions    = "actions"
	keyTargetRoot = "targetroot"
)

// UnitName derives the supervisor-visible unit name for a (service, config)
// pair. The derivation is deterministic: the same pair always yields the
// same name.
func UnitName(service, config string) string {
	return fmt.Sprintf("%s.%s.%s.service", UnitPrefix, service, config)
}

// Operation represents a lifecycle operation type
type Operation int

const (
	// OpUnknown represents an unknown operation
	OpUnknown Operation = iota
	// OpInstall installs a unit into the supervisor
	OpInstall
	// OpUninstall removes a unit from the supervisor
	OpUninstall
	// OpStart starts (or restarts) a unit
	OpStart
	// OpStop stops a unit
	OpStop
	// OpStatus queries a unit's status
	OpStatus
	// OpWatch watches a unit file for changes
	OpWatch
)

// String returns the string representation of an Operation
func (op Operation) String() string {
	switch op {
	case OpInstall:
		return "install"
	case OpUninstall:
		return "uninstall"
	case OpStart:
		return "start"
	case OpStop:
		return "stop"
	case OpStatus:
		return "status"
	case OpWatch:
		return "watch"
	default:
		return "unknown"
	}
}

// ServiceKind selects the unit template and the kind-specific derived
// settings during install.
type ServiceKind int

const (
	// KindUnknown represents an unregistered service
	KindUnknown ServiceKind = iota
	// KindProcessPool is a pool of request-serving worker processes with
	// staged static assets
	KindProcessPool
	// KindTaskQueue is a background task-queue worker or scheduler
	KindTaskQueue
)

// String returns the string representation of a ServiceKind
func (k ServiceKind) String() string {
	switch k {
	case KindProcessPool:
		return "process-pool"
	case KindTaskQueue:
		return "task-queue"
	default:
		return "unknown"
	}
}
