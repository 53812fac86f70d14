package svcctl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"
)

// Controller sequences install, uninstall, start, and stop operations for
// a single unit against the external supervisor. Each invocation is an
// independent, stateless run; callers must serialize concurrent operations
// on the same unit name.
type Controller struct {
	// Config supplies paths, the kind registry, and the settle delay
	Config *Config

	// Supervisor is the external process supervisor
	Supervisor Supervisor

	// Assets stages static files for process-pool services
	Assets AssetSyncer

	// Resolver materializes settings for (service, config) pairs
	Resolver *Resolver

	// Renderer produces unit file text
	Renderer *Renderer

	// Logger receives debug-level progress; defaults to a nop logger
	Logger *zap.SugaredLogger
}

// NewController wires a Controller with the default collaborators: the
// systemctl supervisor, the rsync asset syncer, and the descriptor store
// under the configured services directory.
func NewController(cfg *Config) *Controller {
	return &Controller{
		Config:     cfg,
		Supervisor: NewSystemctl().WithSudo(cfg.UseSudo, cfg.SudoCommand),
		Assets:     &RsyncSyncer{RsyncPath: cfg.RsyncPath},
		Resolver:   &Resolver{Store: &Store{Dir: cfg.ServicesDir}, Config: cfg},
		Renderer:   &Renderer{Dir: cfg.TemplateDir},
		Logger:     zap.NewNop().Sugar(),
	}
}

// prepare resolves settings for the pair, dispatches on the service kind,
// and augments the settings with the kind-specific derived paths. It
// returns the settings and the unit template id. No external state is
// touched.
func (c *Controller) prepare(service, config string) (*Settings, string, error) {
	settings, err := c.Resolver.Resolve(service, config)
	if err != nil {
		return nil, "", err
	}

	kind, ok := c.Config.KindFor(service)
	if !ok {
		return nil, "", fmt.Errorf("%w: [%s]", ErrUnsupportedService, service)
	}

	interpreterDir := filepath.Dir(c.Config.InterpreterPath)

	switch kind {
	case KindProcessPool:
		settings.Set(KeyPoolCmd, StringValue(filepath.Join(interpreterDir, c.Config.PoolWorker)))
		settings.Set(KeyPoolConfigPath, StringValue(filepath.Join(c.Config.ServicesDir, c.Config.PoolConfigFile)))
		return settings, TemplateProcessPool, nil
	case KindTaskQueue:
		settings.Set(KeyQueueCmd, StringValue(filepath.Join(interpreterDir, c.Config.QueueWorker)))
		return settings, TemplateTaskQueue, nil
	default:
		return nil, "", fmt.Errorf("%w: [%s]", ErrUnsupportedService, service)
	}
}

// RenderUnit resolves and renders the unit definition for a pair without
// mutating any external state.
func (c *Controller) RenderUnit(service, config string) (string, error) {
	settings, templateID, err := c.prepare(service, config)
	if err != nil {
		return "", err
	}
	return c.Renderer.Render(templateID, settings)
}

// Install resolves settings, stages assets for kinds that need them,
// renders the unit definition, writes it to the supervisor's unit
// directory, and asks the supervisor to reload and enable it.
//
// Resolution, staging, and rendering failures abort before any supervisor
// mutation. A failure after the unit file write performs no rollback: the
// file may remain on disk without the unit being enabled, and Uninstall is
// the recovery path.
func (c *Controller) Install(ctx context.Context, service, config string) error {
	unitName := UnitName(service, config)
	fail := func(err error) error {
		return &OpError{Op: OpInstall, Unit: unitName, Err: err}
	}

	settings, templateID, err := c.prepare(service, config)
	if err != nil {
		return fail(err)
	}

	if templateID == TemplateProcessPool {
		target, ok := settings.Get(keyTargetRoot)
		if !ok {
			return fail(fmt.Errorf("%w: settings do not specify targetroot", ErrAssetSync))
		}
		targetRoot, ok := target.AsString()
		if !ok || targetRoot == "" {
			return fail(fmt.Errorf("%w: targetroot is not a string", ErrAssetSync))
		}

		c.Logger.Debugw("staging static assets", "src", c.Config.StaticAssetsDir, "dst", targetRoot)
		if err := c.Assets.Sync(ctx, c.Config.StaticAssetsDir, targetRoot); err != nil {
			return fail(err)
		}
	}

	unitText, err := c.Renderer.Render(templateID, settings)
	if err != nil {
		return fail(err)
	}

	unitPath := c.Config.UnitPath(unitName)
	c.Logger.Debugw("writing unit file", "path", unitPath)
	if err := renameio.WriteFile(unitPath, []byte(unitText), FileMode); err != nil {
		return fail(fmt.Errorf("writing unit file: %w", err))
	}

	if err := c.Supervisor.ReloadUnits(ctx); err != nil {
		return fail(err)
	}
	if err := c.Supervisor.Enable(ctx, unitName); err != nil {
		return fail(err)
	}

	return nil
}

// Uninstall stops and disables the unit and removes its unit file. A unit
// whose file is already absent is treated as uninstalled: the call
// succeeds without touching the supervisor, making uninstall idempotent.
func (c *Controller) Uninstall(ctx context.Context, service, config string) error {
	unitName := UnitName(service, config)
	fail := func(err error) error {
		return &OpError{Op: OpUninstall, Unit: unitName, Err: err}
	}

	unitPath := c.Config.UnitPath(unitName)
	if _, err := os.Stat(unitPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Logger.Debugw("unit file absent, nothing to uninstall", "path", unitPath)
			return nil
		}
		return fail(err)
	}

	if err := c.Supervisor.Stop(ctx, unitName); err != nil {
		return fail(err)
	}
	if err := c.Supervisor.Disable(ctx, unitName); err != nil {
		return fail(err)
	}

	if err := os.Remove(unitPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fail(fmt.Errorf("removing unit file: %w", err))
	}

	return nil
}

// Start restarts the unit, waits the settle delay, and probes its status.
// A failed restart aborts immediately with no settle and no probe. A
// non-healthy probe issues a stop as cleanup and reports failure; the unit
// remains enabled in that case, since enablement is install state rather
// than start state.
func (c *Controller) Start(ctx context.Context, service, config string) error {
	unitName := UnitName(service, config)
	fail := func(err error) error {
		return &OpError{Op: OpStart, Unit: unitName, Err: err}
	}

	if err := c.Supervisor.Restart(ctx, unitName); err != nil {
		return fail(err)
	}

	c.Logger.Debugw("waiting for startup", "delay", c.Config.SettleDelay)
	select {
	case <-time.After(c.Config.SettleDelay):
	case <-ctx.Done():
		return fail(ctx.Err())
	}

	active, err := c.Supervisor.IsActive(ctx, unitName)
	if err == nil && active {
		return nil
	}

	// Cleanup only stops the process; the unit stays enabled.
	_ = c.Supervisor.Stop(ctx, unitName)

	if err == nil {
		err = ErrUnhealthy
	}
	return fail(err)
}

// Stop stops the unit
func (c *Controller) Stop(ctx context.Context, service, config string) error {
	unitName := UnitName(service, config)
	if err := c.Supervisor.Stop(ctx, unitName); err != nil {
		return &OpError{Op: OpStop, Unit: unitName, Err: err}
	}
	return nil
}

// Status reports whether the unit is currently active
func (c *Controller) Status(ctx context.Context, service, config string) (bool, error) {
	unitName := UnitName(service, config)
	active, err := c.Supervisor.IsActive(ctx, unitName)
	if err != nil {
		return false, &OpError{Op: OpStatus, Unit: unitName, Err: err}
	}
	return active, nil
}
