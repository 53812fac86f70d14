// Package svcctl manages the lifecycle of long-running host services by
// rendering systemd unit definitions from declarative YAML descriptors
// and driving systemctl.
//
// A service descriptor declares a common settings mapping, per-config
// override mappings, and an optional env key prefix:
//
//	common:
//	  workdir: /srv/{service}
//	  env:
//	    DATABASE: "{service}-{config}"
//	configs:
//	  staging: {}
//	  prod:
//	    workdir: /srv/prod
//	env_prefix: APP
//
// Resolution merges common and the chosen config, substitutes the
// {service} and {config} placeholders in string leaves, and injects the
// derived keys (SERVICE, CONFIG, HOME, INTERPRETER_CMD, LOGGING_DIR),
// which always win over descriptor content.
//
// The Controller sequences the lifecycle operations:
//
//	cfg := svcctl.DefaultConfig()
//	ctrl := svcctl.NewController(cfg)
//
//	err := ctrl.Install(ctx, "webapp", "prod")
//	err = ctrl.Start(ctx, "webapp", "prod")
//
// Install resolves settings, stages static assets where the service kind
// requires it, renders the unit through a strict template (undefined
// placeholders fail rather than substituting blank), writes the unit file
// atomically, and enables the unit. Start restarts the unit, waits a
// fixed settle delay, and probes the supervisor for health.
//
// The Runner executes a service's declared run and action command lines
// in the foreground with the settings' env mapping overlaid on the parent
// environment, propagating the child's exit code verbatim.
//
// Every external collaborator sits behind a narrow interface (Supervisor,
// AssetSyncer, ExecFunc), so the sequencing logic is testable without a
// real process manager. Operations are not coordinated across concurrent
// invocations; callers must serialize per unit name.
package svcctl
