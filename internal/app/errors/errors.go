package errors

import (
	"errors"
)

var (
	ErrFailedToReadConfig  = errors.New("failed to read config file")
	ErrFailedToParseConfig = errors.New("failed to parse config file")
	ErrInvalidConfig       = errors.New("invalid configuration")

	ErrInvalidAPIURL       = errors.New("api url must be an absolute http(s) url")
	ErrInvalidPageSize     = errors.New("page size must be positive")
	ErrInvalidRefresh      = errors.New("refresh interval must be positive")
	ErrInvalidTimezone     = errors.New("unknown display timezone")
	ErrInvalidListenAddr   = errors.New("server listen address is required")
	ErrInvalidElasticURL   = errors.New("elastic url is required")
	ErrInvalidIndexPattern = errors.New("elastic index pattern is required")

	ErrFailedToCreateRequest = errors.New("failed to create request")
	ErrFetchFailed           = errors.New("fetch failed")
	ErrUnexpectedResponse    = errors.New("unexpected response body")

	ErrInvalidFilter    = errors.New("invalid filter")
	ErrInvalidDate      = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidSize      = errors.New("size must be a positive integer")
	ErrInvalidOrder     = errors.New("order must be asc or desc")
	ErrSearchFailed     = errors.New("search failed")
	ErrSearchBadStatus  = errors.New("search returned an error status")
	ErrMalformedResults = errors.New("malformed search results")

	ErrUnknownCommand  = errors.New("unknown command")
	ErrInvalidOutput   = errors.New("output must be text or json")
	ErrFileExists      = errors.New("file already exists")
	ErrFailedToWatch   = errors.New("failed to watch config file")
	ErrServerStartFail = errors.New("failed to start server")
)

var (
	As   = errors.As
	Is   = errors.Is
	New  = errors.New
	Join = errors.Join
)
