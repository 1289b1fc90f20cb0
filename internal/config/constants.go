package config

import "time"

// app constants
const (
	AppName        = "logview"
	AppDescription = "searchable terminal viewer for Elasticsearch logs"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	FileName  = "logview.yaml"
	EnvFile   = ".env"
	EnvPrefix = "LOGVIEW"

	Version = "0.3.0"
)

// client constants
const (
	DefaultAPIURL     = "http://127.0.0.1:3030"
	DefaultAPITimeout = 10 * time.Second
	LogsPath          = "/api/v1/logs"

	// PageSize is the size forced onto every outgoing logs request
	PageSize = 100

	DefaultRefreshInterval = 5 * time.Second
	DefaultTimezone        = "UTC"
)

// server constants
const (
	DefaultListenAddr    = "127.0.0.1:3030"
	DefaultElasticURL    = "http://localhost:9200"
	DefaultIndexPattern  = "filebeat-*"
	DefaultSearchTimeout = 15 * time.Second

	ShutdownTimeout = 5 * time.Second
	WatchDebounce   = 300 * time.Millisecond
)

// output formats for --no-ui mode
const (
	OutputText = "text"
	OutputJSON = "json"
)
