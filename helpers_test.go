package svcctl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeSupervisor records every supervisor call and simulates the enabled
// set and activity state, so lifecycle sequencing can be asserted without
// a real process manager.
type fakeSupervisor struct {
	calls        []string
	enabled      map[string]bool
	fail         map[string]error
	activeResult bool
	activeErr    error
}

func newFakeSupervisor() *fakeSupervisor {
	return &fakeSupervisor{
		enabled: make(map[string]bool),
		fail:    make(map[string]error),
	}
}

func (f *fakeSupervisor) call(op, unit string) error {
	entry := op
	if unit != "" {
		entry = op + " " + unit
	}
	f.calls = append(f.calls, entry)
	return f.fail[op]
}

func (f *fakeSupervisor) ReloadUnits(_ context.Context) error {
	return f.call("daemon-reload", "")
}

func (f *fakeSupervisor) Enable(_ context.Context, unit string) error {
	if err := f.call("enable", unit); err != nil {
		return err
	}
	f.enabled[unit] = true
	return nil
}

func (f *fakeSupervisor) Disable(_ context.Context, unit string) error {
	if err := f.call("disable", unit); err != nil {
		return err
	}
	delete(f.enabled, unit)
	return nil
}

func (f *fakeSupervisor) Restart(_ context.Context, unit string) error {
	return f.call("restart", unit)
}

func (f *fakeSupervisor) Stop(_ context.Context, unit string) error {
	return f.call("stop", unit)
}

func (f *fakeSupervisor) IsActive(_ context.Context, unit string) (bool, error) {
	if err := f.call("is-active", unit); err != nil {
		return false, err
	}
	return f.activeResult, f.activeErr
}

func (f *fakeSupervisor) countCalls(op string) int {
	n := 0
	for _, c := range f.calls {
		if c == op || strings.HasPrefix(c, op+" ") {
			n++
		}
	}
	return n
}

// fakeSyncer records asset staging requests
type fakeSyncer struct {
	srcs []string
	dsts []string
	err  error
}

func (f *fakeSyncer) Sync(_ context.Context, srcdir, dstdir string) error {
	f.srcs = append(f.srcs, srcdir)
	f.dsts = append(f.dsts, dstdir)
	return f.err
}

// testConfig builds a Config rooted in a temp dir with a zero settle delay
func testConfig(t *testing.T) *Config {
	t.Helper()

	root := t.TempDir()
	binDir := filepath.Join(root, "venv", "bin")
	servicesDir := filepath.Join(root, "services")
	unitDir := filepath.Join(root, "units")
	for _, dir := range []string{binDir, servicesDir, unitDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	return &Config{
		InstallRoot:     root,
		ServicesDir:     servicesDir,
		StaticAssetsDir: filepath.Join(root, "project_static"),
		UnitDir:         unitDir,
		LoggingDir:      "/var/log/svcctl",
		InterpreterPath: filepath.Join(binDir, "python3"),
		ScriptSuffix:    DefaultScriptSuffix,
		SettleDelay:     0,
		ServiceKinds:    DefaultServiceKinds(),
		PoolWorker:      "gunicorn",
		PoolConfigFile:  "pool_config.py",
		QueueWorker:     "celery",
		SystemctlPath:   DefaultSystemctlPath,
		RsyncPath:       DefaultRsyncPath,
		SudoCommand:     DefaultSudoCommand,
	}
}

func writeDescriptor(t *testing.T, cfg *Config, service, content string) {
	t.Helper()
	path := filepath.Join(cfg.ServicesDir, service+".yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestController(t *testing.T) (*Controller, *fakeSupervisor, *fakeSyncer) {
	t.Helper()

	cfg := testConfig(t)
	sup := newFakeSupervisor()
	syncer := &fakeSyncer{}

	ctrl := NewController(cfg)
	ctrl.Supervisor = sup
	ctrl.Assets = syncer

	return ctrl, sup, syncer
}

const taskWorkerDescriptor = `common:
  queue_app: app.tasks
  queue_role: worker
  env:
    ROLE: "{service}-{config}"
configs:
  prod: {}
  staging: {}
`

const webappDescriptor = `common:
  app_module: app.wsgi
  targetroot: /srv/webapp-static
  env:
    STATIC_ROOT: /srv/webapp-static
configs:
  prod: {}
`
