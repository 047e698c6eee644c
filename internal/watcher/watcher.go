package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/medscribe/internal/logger"
)

type implWatcher struct {
	opts      Options
	exts      map[string]struct{}
	handler   EventHandler
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	semaphore *semaphore
	wg        sync.WaitGroup
}

// Start monitors the inbox and runs the handler for every new audio file,
// at most MaxConcurrent at a time. It returns when ctx is cancelled, after
// in-flight files finish.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started (max concurrent: %d). Monitoring: %s", w.opts.MaxConcurrent, w.opts.Dir)
	w.logger.Info(ctx, "Supported formats: %s", w.formats())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "Inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.isAudioFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
				continue
			}
			w.logger.Info(ctx, "New recording detected: %s", event.Name)

			if err := w.dispatch(ctx, event.Name); err != nil {
				w.wg.Wait()
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// dispatch waits for a free slot and handles path in its own goroutine.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	if err := w.semaphore.acquire(ctx); err != nil {
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.semaphore.release()

		// Give the writer time to finish the file
		select {
		case <-time.After(w.opts.Settle):
		case <-ctx.Done():
			return
		}

		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
	return nil
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) isAudioFile(path string) bool {
	_, ok := w.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (w *implWatcher) formats() string {
	list := make([]string, 0, len(w.exts))
	for ext := range w.exts {
		list = append(list, ext)
	}
	sort.Strings(list)
	return strings.Join(list, ", ")
}
