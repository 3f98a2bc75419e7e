package content

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReloadDebounce is how long Watch waits after the last change before
// reloading.
const ReloadDebounce = 500 * time.Millisecond

// Watch reloads the content file whenever it changes and passes the result to
// onChange. A file that fails to load is logged and skipped, so the caller
// keeps serving the last good portfolio. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger *zap.Logger, onChange func(*Portfolio)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating content watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching content", zap.String("path", abs))

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		p, err := LoadFile(abs)
		if err != nil {
			logger.Error("content reload failed, keeping previous content", zap.Error(err))
			return
		}
		logger.Info("content reloaded", zap.String("path", abs))
		onChange(p)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(ReloadDebounce, reload)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("content watcher error", zap.Error(err))
		}
	}
}
