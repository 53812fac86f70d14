package svcctl

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// AssetSyncer stages a static-file tree into a service's serving root
// prior to installation.
type AssetSyncer interface {
	// Sync replaces dstdir with the contents of srcdir
	Sync(ctx context.Context, srcdir, dstdir string) error
}

// RsyncSyncer stages assets with the rsync command line. The destination
// is recreated from scratch on every sync.
type RsyncSyncer struct {
	// RsyncPath is the path to the rsync binary
	RsyncPath string
}

// Sync removes dstdir, recreates it, and copies srcdir into it. All
// failures wrap ErrAssetSync.
func (r *RsyncSyncer) Sync(ctx context.Context, srcdir, dstdir string) error {
	if err := os.RemoveAll(dstdir); err != nil {
		return fmt.Errorf("%w: clearing %s: %v", ErrAssetSync, dstdir, err)
	}
	if err := os.MkdirAll(dstdir, DirMode); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrAssetSync, dstdir, err)
	}

	if _, err := os.Stat(srcdir); err != nil {
		return fmt.Errorf("%w: source directory does not exist: %s", ErrAssetSync, srcdir)
	}

	rsync := r.RsyncPath
	if rsync == "" {
		rsync = DefaultRsyncPath
	}

	cmd := exec.CommandContext(ctx, rsync, "-r", srcdir+"/", dstdir)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: rsync failed: %v (output: %s)",
			ErrAssetSync, err, strings.TrimSpace(out.String()))
	}

	return nil
}
