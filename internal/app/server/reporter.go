package server

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"logview/internal/config"
	"logview/internal/config/logger"
)

// reporter forwards server errors to Sentry. With no DSN it does nothing.
type reporter struct {
	hub *sentry.Hub
}

func newReporter(cfg *config.Config, log logger.Logger) (*reporter, error) {
	return newReporterWithOptions(cfg, log, nil)
}

func newReporterWithOptions(cfg *config.Config, log logger.Logger, beforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event) (*reporter, error) {
	if cfg.Sentry.DSN == "" {
		return &reporter{}, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     fmt.Sprintf("%s@%s", config.AppName, config.Version),
		BeforeSend:  beforeSend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure sentry: %w", err)
	}

	log.Info().Str("environment", cfg.Sentry.Environment).Msg("Error reporting enabled")

	return &reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// Capture reports err tagged with the request id
func (r *reporter) Capture(err error, requestID string) {
	if r == nil || r.hub == nil {
		return
	}

	r.hub.WithScope(func(scope *sentry.Scope) {
		if requestID != "" {
			scope.SetTag("request_id", requestID)
		}

		r.hub.CaptureException(err)
	})
}

// Flush waits for queued events
func (r *reporter) Flush(timeout time.Duration) {
	if r == nil || r.hub == nil {
		return
	}

	r.hub.Flush(timeout)
}
