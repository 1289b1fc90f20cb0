package refresh

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"logview/internal/config"
	"logview/internal/config/logger"
)

// Scheduler starts periodic refresh tickers
type Scheduler interface {
	Start(ctx context.Context) *Handle
	Interval() time.Duration
}

// Handle owns one ticker goroutine. Its channel is closed once the goroutine has exited.
type Handle struct {
	ID uint64
	C  <-chan time.Time

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the ticker and blocks until its goroutine has exited. It is safe to call more than once.
func (h *Handle) Stop() {
	if h == nil {
		return
	}

	h.once.Do(func() {
		h.cancel()
		<-h.done
	})
}

// Done is closed when the ticker goroutine has exited
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

type scheduler struct {
	interval time.Duration
	ids      atomic.Uint64
	log      logger.Logger
}

// NewScheduler creates a scheduler ticking at the configured refresh interval
func NewScheduler(cfg *config.Config, log logger.Logger) Scheduler {
	return newScheduler(cfg.Refresh.Interval, log)
}

func newScheduler(interval time.Duration, log logger.Logger) *scheduler {
	if interval <= 0 {
		interval = config.DefaultRefreshInterval
	}

	return &scheduler{
		interval: interval,
		log:      log.WithComponent("REFRESH"),
	}
}

// Interval returns the tick period
func (s *scheduler) Interval() time.Duration {
	return s.interval
}

// Start launches a ticker bound to ctx. The first tick arrives one interval after Start.
func (s *scheduler) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	ticks := make(chan time.Time)

	h := &Handle{
		ID:     s.ids.Add(1),
		C:      ticks,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	s.log.Debug().Uint64("handle", h.ID).Dur("interval", s.interval).Msg("Auto-refresh started")

	go s.run(ctx, h, ticks)

	return h
}

func (s *scheduler) run(ctx context.Context, h *Handle, ticks chan<- time.Time) {
	ticker := time.NewTicker(s.interval)

	defer func() {
		ticker.Stop()
		s.log.Debug().Uint64("handle", h.ID).Msg("Auto-refresh stopped")
		close(ticks)
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			select {
			case ticks <- t:
			case <-ctx.Done():
				return
			}
		}
	}
}
