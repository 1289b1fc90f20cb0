package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"logview/internal/app/errors"
	"logview/internal/app/hit"
	"logview/internal/app/query"
	"logview/internal/config"
	"logview/internal/config/logger"
)

//go:generate mockgen -source=client.go -destination=client_mock.go -package=fetcher

// RequestIDHeader carries the id that correlates client and server log lines
const RequestIDHeader = "X-Request-ID"

// maxBody caps how much of a response is read
const maxBody = 32 << 20

// Client fetches one page of log hits for a filter
type Client interface {
	Fetch(ctx context.Context, filter query.Filter) ([]hit.Hit, error)
}

// Error is the single failure kind of a fetch. Its message is what the error banner shows.
type Error struct {
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
	}

	return e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{errors.ErrFetchFailed}
	}

	return []error{errors.ErrFetchFailed, e.Err}
}

type client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// NewClient creates a logs endpoint client from the api settings
func NewClient(cfg *config.Config, log logger.Logger) Client {
	return &client{
		baseURL: strings.TrimRight(cfg.API.URL, "/"),
		http: &http.Client{
			Timeout: cfg.API.Timeout,
		},
		log: log.WithComponent("FETCHER"),
	}
}

// Fetch sends GET /api/v1/logs with the filter encoded and the size forced to the page size.
// There are no retries.
func (c *client) Fetch(ctx context.Context, filter query.Filter) ([]hit.Hit, error) {
	fullURL := c.baseURL + config.LogsPath + query.Encode(query.WithPageSize(filter, config.PageSize))
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("%w: %w", errors.ErrFailedToCreateRequest, err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	c.log.Debug().Str("request_id", requestID).Str("url", fullURL).Msg("Fetching logs")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("request_id", requestID).Msg("Fetch failed")
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().Int("status", resp.StatusCode).Str("request_id", requestID).Msg("Fetch returned error status")
		return nil, &Error{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &Error{Err: err}
	}

	hits, err := hit.Decode(body)
	if err != nil {
		return nil, &Error{Err: err}
	}

	c.log.Debug().Str("request_id", requestID).Int("hits", len(hits)).Msg("Fetched logs")

	return hits, nil
}
