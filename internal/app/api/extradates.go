package api

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

// watchExtraDates merges user-supplied dates from the file into the
// candidate store, then keeps watching for rewrites and re-merges on every
// change. Merges are append-only; removing a line from the file never
// shrinks the candidate set. The watch runs until ctx is cancelled.
func watchExtraDates(ctx context.Context, path string, store ports.CandidateSource, logger *slog.Logger) error {
	mergeExtraDatesFile(path, store, logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory, not the file: editors and config tooling replace
	// files by rename, which drops a file-level watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				mergeExtraDatesFile(path, store, logger)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("extra dates watcher error", slog.String("error", err.Error()))
			}
		}
	}()
	return nil
}

func mergeExtraDatesFile(path string, store ports.CandidateSource, logger *slog.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("extra dates file unreadable", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	dates := ParseExtraDates(string(raw))
	if added := store.Merge(dates...); added > 0 {
		logger.Info("extra dates merged", slog.String("path", path), slog.Int("added", added))
	}
}
