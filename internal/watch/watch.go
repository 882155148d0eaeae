// Package watch re-runs a callback when a repository changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thiagokokada/gitk-layout/internal/debounce"
)

// DefaultDelay is the quiet period before a burst of events triggers a
// reload.
const DefaultDelay = 350 * time.Millisecond

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Run watches repoPath until ctx is done, calling onChange after each
// settled burst of changes. onChange runs on the debouncer's goroutine and
// calls never overlap.
func Run(ctx context.Context, repoPath string, delay time.Duration, onChange func()) (err error) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()
	for path := range watchPaths(repoPath) {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}

	reloads := make(chan struct{}, 1)
	d := debounce.New(delay, func() {
		select {
		case reloads <- struct{}{}:
		default:
		}
	})
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reloads:
			slog.Debug("repository changed, reloading")
			onChange()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			d.Trigger()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	return ev.Op&relevantOps != 0 && !shouldIgnoreWatchPath(ev.Name)
}

// watchPaths yields the .git directory when there is one, else root itself.
func watchPaths(root string) iter.Seq[string] {
	if root == "" {
		return func(func(string) bool) {}
	}
	paths := map[string]struct{}{}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		paths[gitDir] = struct{}{}
		return maps.Keys(paths)
	}
	paths[root] = struct{}{}
	return maps.Keys(paths)
}

func shouldIgnoreWatchPath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
