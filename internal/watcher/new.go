package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/medscribe/internal/logger"
)

// DefaultSettle is how long a new file is left alone before processing so
// the writer can finish.
const DefaultSettle = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Dir string
	// Extensions accepted, without the dot. Case-insensitive.
	Extensions    []string
	MaxConcurrent int
	Settle        time.Duration
}

// New creates a new Watcher instance with concurrency control
func New(opts Options, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(opts.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}

	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	return &implWatcher{
		opts:      opts,
		exts:      exts,
		handler:   handler,
		logger:    log,
		watcher:   watcher,
		semaphore: newSemaphore(opts.MaxConcurrent),
	}, nil
}
