package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"logview/internal/app/errors"
	"logview/internal/app/search"
	"logview/internal/config"
	"logview/internal/config/logger"
)

//go:generate mockgen -source=server.go -destination=server_mock.go -package=server

// Routes
const (
	LogsRoute   = "/api/v1/logs"
	HealthRoute = "/healthz"
)

const readHeaderTimeout = 10 * time.Second

// Server is the logs backend
type Server interface {
	Handler() http.Handler
	Run(ctx context.Context) error
}

type server struct {
	cfg      *config.Config
	searcher search.Searcher
	reporter *reporter
	handler  http.Handler
	log      logger.Logger
}

// NewServer builds the router; nothing listens until Run
func NewServer(cfg *config.Config, searcher search.Searcher, log logger.Logger) (Server, error) {
	log = log.WithComponent("SERVER")

	rep, err := newReporter(cfg, log)
	if err != nil {
		return nil, err
	}

	return newServer(cfg, searcher, rep, log), nil
}

func newServer(cfg *config.Config, searcher search.Searcher, rep *reporter, log logger.Logger) *server {
	s := &server{
		cfg:      cfg,
		searcher: searcher,
		reporter: rep,
		log:      log,
	}

	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	engine.Use(
		requestID(),
		accessLog(log),
		recovery(log, rep),
	)

	engine.GET(LogsRoute, s.getLogs)
	engine.GET(HealthRoute, s.health)

	s.handler = gzhttp.GzipHandler(engine)

	return s
}

// Handler returns the full middleware chain, compression included
func (s *server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is done, then shuts down gracefully
func (s *server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrServerStartFail, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- srv.Serve(ln)
	}()

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("elastic", s.cfg.Elastic.URL).
		Str("index", s.searcher.Index()).
		Msg("Serving logs")

	select {
	case err := <-serveErr:
		s.reporter.Flush(config.ShutdownTimeout)

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %w", errors.ErrServerStartFail, err)
		}

		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	s.reporter.Flush(config.ShutdownTimeout)

	if err != nil {
		s.log.Warn().Err(err).Msg("Graceful shutdown did not finish")
		return err
	}

	return nil
}
