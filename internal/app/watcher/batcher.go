package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"logview/internal/config"
)

// Change is the reload decision for one burst of config events
type Change struct {
	Config bool // the config file was written or replaced
	Env    bool // the .env file was written or replaced
	Events int
}

// Reload reports whether the running settings need to be re-read
func (c Change) Reload() bool {
	return c.Config || c.Env
}

// Batcher folds file events into a Change and applies it once the quiet period passes
type Batcher interface {
	Add(event fsnotify.Event)
	Stop()
}

type batcher struct {
	quiet      time.Duration
	configName string
	apply      func(Change)

	mu      sync.Mutex
	timer   *time.Timer
	pending Change
	stopped bool
}

// NewBatcher creates a Batcher for the config file named configName and the .env file
func NewBatcher(quiet time.Duration, configName string, apply func(Change)) Batcher {
	return &batcher{
		quiet:      quiet,
		configName: configName,
		apply:      apply,
	}
}

// Add records event and restarts the quiet period. Events for other files are dropped.
func (b *batcher) Add(event fsnotify.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}

	switch filepath.Base(event.Name) {
	case b.configName:
		b.pending.Config = true
	case config.EnvFile:
		b.pending.Env = true
	default:
		return
	}

	b.pending.Events++

	if b.timer != nil {
		b.timer.Stop()
	}

	b.timer = time.AfterFunc(b.quiet, b.flush)
}

// Stop drops the pending change; later events are ignored
func (b *batcher) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	b.pending = Change{}

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *batcher) flush() {
	b.mu.Lock()

	change := b.pending
	b.pending = Change{}
	b.timer = nil

	if b.stopped || !change.Reload() {
		b.mu.Unlock()
		return
	}

	b.mu.Unlock()

	b.apply(change)
}
