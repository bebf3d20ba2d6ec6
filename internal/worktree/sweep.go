package worktree

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// SweepInterval is the default period of the background orphan sweep, on
// top of the fsnotify watch on Root (spec.md §9's "worth adding" note).
const SweepInterval = 10 * time.Minute

// OwnerLookup reports whether taskID still belongs to a live task, so the
// sweep can distinguish a legitimate worktree from an orphan.
type OwnerLookup func(taskID string) bool

// Sweep runs until ctx is cancelled, logging (never deleting — reaping
// remains an explicit caller action via Remove) any worktree directory
// under Root whose owning task no longer exists. It re-checks on a fixed
// timer and whenever fsnotify reports a change under Root, so a change to
// Root's directories is noticed promptly instead of only every
// SweepInterval. A directory that no longer exists is not flagged.
func (m *Manager) Sweep(ctx context.Context, owned OwnerLookup) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("worktree: fsnotify watcher unavailable, falling back to timer-only sweep", "err", err)
		watcher = nil
	} else {
		defer watcher.Close()
		if err := os.MkdirAll(m.Root, 0o750); err != nil {
			slog.Warn("worktree: create root before watching", "root", m.Root, "err", err)
		}
		if err := watcher.Add(m.Root); err != nil {
			slog.Warn("worktree: watch root failed", "root", m.Root, "err", err)
		}
	}

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	var events chan fsnotify.Event
	var watchErrs chan error
	if watcher != nil {
		events = watcher.Events
		watchErrs = watcher.Errors
	}

	m.sweepOnce(ctx, owned)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweepOnce(ctx, owned)
		case _, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			m.sweepOnce(ctx, owned)
		case _, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
			}
		}
	}
}

// sweepOnce lists Root's worktree directories and checks ownership
// concurrently via errgroup — each directory's existence/ownership check is
// independent I/O, so a root with many task worktrees doesn't serialize on
// one slow stat.
func (m *Manager) sweepOnce(ctx context.Context, owned OwnerLookup) {
	entries, err := m.List()
	if err != nil {
		slog.Warn("worktree: sweep list failed", "root", m.Root, "err", err)
		return
	}

	var mu sync.Mutex
	var orphans []string
	g, _ := errgroup.WithContext(ctx)
	for _, e := range entries {
		e := e
		g.Go(func() error {
			if owned(e.TaskID) {
				return nil
			}
			if _, statErr := os.Stat(e.Path); statErr != nil {
				return nil // already gone; nothing to flag.
			}
			mu.Lock()
			orphans = append(orphans, e.Path)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, path := range orphans {
		slog.Warn("worktree: orphaned worktree directory (no owning task)", "path", path)
	}
}
