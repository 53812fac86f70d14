package svcctl

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// UnitEventType classifies a change to an installed unit file
type UnitEventType int

const (
	// UnitWritten indicates the unit file was created or rewritten
	UnitWritten UnitEventType = iota
	// UnitRemoved indicates the unit file was removed or renamed away
	UnitRemoved
)

// String returns the string representation of a UnitEventType
func (t UnitEventType) String() string {
	switch t {
	case UnitRemoved:
		return "removed"
	default:
		return "written"
	}
}

// UnitEvent is a single observed change to a unit file
type UnitEvent struct {
	// Type classifies the change
	Type UnitEventType
	// Path is the unit file path
	Path string
	// Err carries watcher errors; Type and Path are unset when non-nil
	Err error
}

// DefaultUnitWatchDebounce coalesces rapid successive writes to the unit
// file into a single event.
const DefaultUnitWatchDebounce = 25 * time.Millisecond

// WatchUnit watches a unit file for writes and removal. It returns a
// channel of events and a cleanup function that stops the watcher and
// closes the channel. Useful for spotting drift between the rendered unit
// and what is installed on disk.
func WatchUnit(ctx context.Context, unitPath string, debounce time.Duration) (<-chan UnitEvent, func() error, error) {
	if debounce <= 0 {
		debounce = DefaultUnitWatchDebounce
	}

	dir := filepath.Dir(unitPath)
	base := filepath.Base(unitPath)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, &OpError{Op: OpWatch, Unit: base, Err: err}
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, nil, &OpError{Op: OpWatch, Unit: base, Err: err}
	}

	ch := make(chan UnitEvent, 10)

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
		close(ch)
	})

	cleanup := func() error {
		sctx.Stop(100 * time.Millisecond)
		return sctx.Wait()
	}

	var mu sync.Mutex
	var debouncer *time.Timer

	emit := func(event UnitEvent) {
		if sctx.IsStopping() {
			return
		}
		select {
		case ch <- event:
		case <-sctx.Stopping():
		}
	}

	sctx.Go(func(sctx *stopper.Context) error {
		sctx.Defer(func() {
			mu.Lock()
			if debouncer != nil {
				debouncer.Stop()
			}
			mu.Unlock()
		})

		for !sctx.IsStopping() {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(event.Name) != base {
					continue
				}

				switch {
				case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
					emit(UnitEvent{Type: UnitRemoved, Path: unitPath})
				case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
					mu.Lock()
					if debouncer != nil {
						debouncer.Stop()
					}
					debouncer = time.AfterFunc(debounce, func() {
						emit(UnitEvent{Type: UnitWritten, Path: unitPath})
					})
					mu.Unlock()
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					emit(UnitEvent{Err: err})
				}
			}
		}
		return nil
	})

	return ch, cleanup, nil
}
