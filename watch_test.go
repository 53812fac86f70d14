package svcctl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForEvent(t *testing.T, events <-chan UnitEvent) UnitEvent {
	t.Helper()
	select {
	case event, ok := <-events:
		if !ok {
			t.Fatal("event channel closed")
		}
		if event.Err != nil {
			t.Fatalf("watch error: %v", event.Err)
		}
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return UnitEvent{}
	}
}

func TestWatchUnitWrite(t *testing.T) {
	dir := t.TempDir()
	unitPath := filepath.Join(dir, "svcctl.webapp.prod.service")

	events, cleanup, err := WatchUnit(context.Background(), unitPath, 5*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cleanup() }()

	if err := os.WriteFile(unitPath, []byte("[Unit]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	event := waitForEvent(t, events)
	if event.Type != UnitWritten {
		t.Errorf("Type = %v, want UnitWritten", event.Type)
	}
	if event.Path != unitPath {
		t.Errorf("Path = %q, want %q", event.Path, unitPath)
	}
}

func TestWatchUnitRemove(t *testing.T) {
	dir := t.TempDir()
	unitPath := filepath.Join(dir, "svcctl.webapp.prod.service")
	if err := os.WriteFile(unitPath, []byte("[Unit]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	events, cleanup, err := WatchUnit(context.Background(), unitPath, 5*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cleanup() }()

	if err := os.Remove(unitPath); err != nil {
		t.Fatal(err)
	}

	event := waitForEvent(t, events)
	if event.Type != UnitRemoved {
		t.Errorf("Type = %v, want UnitRemoved", event.Type)
	}
}

func TestWatchUnitIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	unitPath := filepath.Join(dir, "svcctl.webapp.prod.service")

	events, cleanup, err := WatchUnit(context.Background(), unitPath, 5*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cleanup() }()

	if err := os.WriteFile(filepath.Join(dir, "other.service"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-events:
		t.Fatalf("unexpected event for sibling: %+v", event)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchUnitCleanupClosesChannel(t *testing.T) {
	dir := t.TempDir()
	unitPath := filepath.Join(dir, "svcctl.webapp.prod.service")

	events, cleanup, err := WatchUnit(context.Background(), unitPath, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := cleanup(); err != nil {
		t.Fatal(err)
	}

	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected closed channel after cleanup")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cleanup")
	}
}

func TestWatchUnitMissingDir(t *testing.T) {
	unitPath := filepath.Join(t.TempDir(), "nosuch", "unit.service")

	_, _, err := WatchUnit(context.Background(), unitPath, 0)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Op != OpWatch {
		t.Errorf("err = %v, want OpWatch OpError", err)
	}
}
