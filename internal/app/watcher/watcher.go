package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"logview/internal/app/errors"
	"logview/internal/app/search"
	"logview/internal/config"
	"logview/internal/config/logger"
)

//go:generate mockgen -source=watcher.go -destination=watcher_mock.go -package=watcher

// ignored editor artefacts that land next to the config file
var ignorePatterns = []string{"*.swp", "*.swx", "*~", ".#*"}

// Watcher reloads the index pattern and log level when the config file changes
type Watcher interface {
	Start(ctx context.Context) error
	Close()
}

type watcher struct {
	cfg      *config.Config
	searcher search.Searcher
	log      logger.Logger

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	batcher   Batcher
	matcher   Matcher
	done      chan struct{}
	closed    bool
}

// NewWatcher creates a config watcher; nothing is watched until Start
func NewWatcher(cfg *config.Config, searcher search.Searcher, log logger.Logger) Watcher {
	return &watcher{
		cfg:      cfg,
		searcher: searcher,
		log:      log.WithComponent("WATCHER"),
	}
}

// Start watches the directory holding the config file until ctx is done.
// The directory is watched rather than the file so editors that replace it by rename are seen.
func (w *watcher) Start(ctx context.Context) error {
	path, err := filepath.Abs(w.cfg.Path())
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToWatch, err)
	}

	matcher, err := NewMatcher([]string{filepath.Base(path), config.EnvFile}, ignorePatterns)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToWatch, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToWatch, err)
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("%w: %w", errors.ErrFailedToWatch, err)
	}

	w.mu.Lock()
	w.fsWatcher = fsw
	w.matcher = matcher
	w.batcher = NewBatcher(config.WatchDebounce, filepath.Base(path), w.reload)
	w.done = make(chan struct{})
	w.mu.Unlock()

	w.log.Info().Str("dir", dir).Msgf("Watching %s for changes", filepath.Base(path))

	go w.processEvents(ctx, fsw)

	return nil
}

// Close stops watching and waits for the event loop to exit
func (w *watcher) Close() {
	w.mu.Lock()

	if w.closed || w.fsWatcher == nil {
		w.closed = true
		w.mu.Unlock()

		return
	}

	w.closed = true
	w.batcher.Stop()
	_ = w.fsWatcher.Close()
	done := w.done

	w.mu.Unlock()

	<-done
}

func (w *watcher) processEvents(ctx context.Context, fsw *fsnotify.Watcher) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.batcher.Stop()
			w.mu.Unlock()

			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}

			w.handleEvent(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}

			w.log.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *watcher) handleEvent(event fsnotify.Event) {
	if !isRelevantEvent(event) || !w.matcher.Match(event.Name) {
		return
	}

	w.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Config change detected")
	w.batcher.Add(event)
}

// reload re-reads the config. A broken file keeps the running settings.
func (w *watcher) reload(change Change) {
	next, err := w.cfg.Reload()
	if err != nil {
		w.log.Warn().Err(err).Bool("config", change.Config).Bool("env", change.Env).Msg("Ignoring invalid config change")
		return
	}

	w.searcher.SetIndex(next.Elastic.Index)
	w.log.SetLevel(next.Logging.Level)

	w.log.Info().
		Bool("config", change.Config).
		Bool("env", change.Env).
		Int("events", change.Events).
		Str("index", next.Elastic.Index).
		Str("level", next.Logging.Level).
		Msg("Config reloaded")
}

// isRelevantEvent returns true if the event can change the file contents
func isRelevantEvent(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename)
}
