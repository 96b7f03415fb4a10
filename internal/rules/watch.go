package rules

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce collapses editor write bursts into one re-check.
const watchDebounce = 100 * time.Millisecond

// Watch re-checks files as they change and hands each batch of issues
// to report. It blocks until the context is canceled.
func (e *Engine) Watch(ctx context.Context, paths []string, report func(filename string, issues []Issue)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			e.handleFileEvent(ctx, event, report)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(ctx context.Context, event fsnotify.Event, report func(string, []Issue)) {
	if event.Op&fsnotify.Write != fsnotify.Write {
		return
	}
	// skip hidden files; the base name is what matters, the event path
	// may legitimately start with "./"
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}
	// wait for a while after file change to consider multiple changes as one
	time.Sleep(watchDebounce)
	issues, err := e.CheckFile(ctx, event.Name)
	if err != nil {
		e.logger.Error("error re-checking file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	report(event.Name, issues)
}
