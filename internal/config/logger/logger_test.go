package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	"logview/internal/config"
)

func Test_NewLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.Config
		expected zerolog.Level
	}{
		{
			name:     "Default",
			cfg:      config.DefaultConfig(),
			expected: zerolog.InfoLevel,
		},
		{
			name: "Debug level",
			cfg: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Logging.Level = DebugLevel
				return cfg
			}(),
			expected: zerolog.DebugLevel,
		},
		{
			name: "Warn level and json format",
			cfg: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Logging.Level = WarnLevel
				cfg.Logging.Format = JSONFormat
				return cfg
			}(),
			expected: zerolog.WarnLevel,
		},
		{
			name: "Empty level and format (defaults)",
			cfg: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Logging.Level = ""
				cfg.Logging.Format = ""
				return cfg
			}(),
			expected: zerolog.InfoLevel,
		},
		{
			name: "Trace level",
			cfg: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Logging.Level = TraceLevel
				return cfg
			}(),
			expected: zerolog.TraceLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

			logger := NewLogger(tt.cfg)
			assert.NotNil(t, logger)

			_, ok := logger.(*AppLogger)
			assert.True(t, ok)

			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
			assert.NotEmpty(t, tt.cfg.Logging.Format)
		})
	}
}

func Test_NewLoggerWithOutput(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer

	cfg := config.DefaultConfig()
	cfg.Logging.Format = JSONFormat

	logger := NewLoggerWithOutput(cfg, &buf).WithComponent("FETCHER")
	logger.Info().Str("query", "level:error").Msg("fetching")
	logger.Debug().Msg("suppressed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "FETCHER", entry["component"])
	assert.Equal(t, "level:error", entry["query"])
	assert.Equal(t, config.Version, entry["version"])
	assert.Equal(t, "fetching", entry["message"])
}

func Test_NewLoggerWithOutput_File(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer

	path := filepath.Join(t.TempDir(), "logview.log")

	cfg := config.DefaultConfig()
	cfg.Logging.Format = JSONFormat
	cfg.Logging.File = path

	logger := NewLoggerWithOutput(cfg, &buf)
	logger.Info().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "to file")
	assert.Empty(t, buf.String())
}

func Test_NewLoggerWithOutput_FileOpenFails(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer

	cfg := config.DefaultConfig()
	cfg.Logging.Format = JSONFormat
	cfg.Logging.File = filepath.Join(t.TempDir(), "missing", "logview.log")

	logger := NewLoggerWithOutput(cfg, &buf)
	logger.Info().Msg("still logged")

	out := buf.String()
	assert.Contains(t, out, "Failed to open log file")
	assert.Contains(t, out, cfg.Logging.File)
	assert.Contains(t, out, "still logged")

	closer, ok := logger.(io.Closer)
	require.True(t, ok)
	assert.NoError(t, closer.Close())
}

func Test_RegisterClose(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	path := filepath.Join(t.TempDir(), "logview.log")

	cfg := config.DefaultConfig()
	cfg.Logging.Format = JSONFormat
	cfg.Logging.File = path

	logger := NewLoggerWithOutput(cfg, nil)
	app, ok := logger.(*AppLogger)
	require.True(t, ok)
	require.NotNil(t, app.file)

	lifecycle := fxtest.NewLifecycle(t)
	RegisterClose(lifecycle, logger)

	lifecycle.RequireStart()
	logger.Info().Msg("before stop")
	lifecycle.RequireStop()

	assert.Nil(t, app.file)
	assert.NoError(t, app.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "before stop")
}

func Test_NewSinkLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer

	logger := NewSinkLogger(config.DefaultConfig(), Sink{Writer: &buf})
	logger.Warn().Msg("careful")

	assert.Contains(t, buf.String(), "careful")
}

func Test_SetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer

	cfg := config.DefaultConfig()
	cfg.Logging.Format = JSONFormat

	logger := NewLoggerWithOutput(cfg, &buf)
	child := logger.WithComponent("SERVER")

	child.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.SetLevel(DebugLevel)
	child.Debug().Msg("visible")

	assert.Contains(t, buf.String(), "visible")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func Test_getLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{name: "Debug", level: DebugLevel, expected: zerolog.DebugLevel},
		{name: "Info", level: InfoLevel, expected: zerolog.InfoLevel},
		{name: "Warn", level: WarnLevel, expected: zerolog.WarnLevel},
		{name: "Error", level: ErrorLevel, expected: zerolog.ErrorLevel},
		{name: "Fatal", level: FatalLevel, expected: zerolog.FatalLevel},
		{name: "Panic", level: PanicLevel, expected: zerolog.PanicLevel},
		{name: "Trace", level: TraceLevel, expected: zerolog.TraceLevel},
		{name: "Unknown", level: "unknown", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getLogLevel(tt.level))
		})
	}
}

func Test_Module(t *testing.T) {
	assert.NotNil(t, Module)
}

func Test_zerologEvent(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer

	cfg := config.DefaultConfig()
	cfg.Logging.Level = DebugLevel

	logger := NewLoggerWithOutput(cfg, &buf)

	event := logger.Debug()
	assert.NotNil(t, event.Str("key", "value"))
	assert.NotNil(t, event.Int("count", 42))
	assert.NotNil(t, event.Dur("duration", time.Second))
	assert.NotNil(t, event.Err(errors.New("test error")))
	event.Msg("test message")

	assert.Contains(t, buf.String(), "test message")
}
