package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxevent"

	"logview/internal/app/cli"
	"logview/internal/app/errors"
	"logview/internal/config"
	"logview/internal/config/logger"
)

func Test_LoadConfig(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.yaml")
	require.NoError(t, os.WriteFile(valid, []byte("elastic:\n  index: app-*\n"), 0600))

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("api:\n  url: nope\n"), 0600))

	tests := []struct {
		name   string
		opts   *cli.Options
		error  error
		assert func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "serve reads the file",
			opts: &cli.Options{Type: cli.CommandServe, ConfigPath: valid},
			assert: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "app-*", cfg.Elastic.Index)
				assert.Equal(t, valid, cfg.Path())
			},
		},
		{
			name:  "view fails on an invalid file",
			opts:  &cli.Options{Type: cli.CommandView, ConfigPath: invalid},
			error: errors.ErrInvalidAPIURL,
		},
		{
			name: "init ignores the file",
			opts: &cli.Options{Type: cli.CommandInit, ConfigPath: invalid},
			assert: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.DefaultAPIURL, cfg.API.URL)
			},
		},
		{
			name: "version ignores the file",
			opts: &cli.Options{Type: cli.CommandVersion, ConfigPath: invalid},
			assert: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.DefaultIndexPattern, cfg.Elastic.Index)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(tt.opts)

			if tt.error != nil {
				assert.ErrorIs(t, err, tt.error)
				assert.Nil(t, cfg)

				return
			}

			require.NoError(t, err)
			tt.assert(t, cfg)
		})
	}
}

func Test_LogOutput(t *testing.T) {
	tests := []struct {
		name     string
		opts     *cli.Options
		expected io.Writer
	}{
		{name: "viewer discards logs", opts: &cli.Options{Type: cli.CommandView}, expected: io.Discard},
		{name: "printed results keep stdout clean", opts: &cli.Options{Type: cli.CommandView, NoUI: true}, expected: os.Stderr},
		{name: "serve logs to stdout", opts: &cli.Options{Type: cli.CommandServe}, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, logOutput(tt.opts))
		})
	}
}

func Test_CreateApp(t *testing.T) {
	tests := []struct {
		name string
		opts *cli.Options
	}{
		{name: "viewer", opts: &cli.Options{Type: cli.CommandView}},
		{name: "no ui", opts: &cli.Options{Type: cli.CommandView, NoUI: true, Output: config.OutputJSON}},
		{name: "serve", opts: &cli.Options{Type: cli.CommandServe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			application := createApp(config.DefaultConfig(), tt.opts)
			require.NotNil(t, application)
			assert.NoError(t, application.Err())
		})
	}
}

func Test_CreateFxLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected fxevent.Logger
	}{
		{name: "Debug level returns console logger", level: logger.DebugLevel, expected: &fxevent.ConsoleLogger{W: os.Stderr}},
		{name: "Info level returns nop logger", level: logger.InfoLevel, expected: fxevent.NopLogger},
		{name: "Error level returns nop logger", level: logger.ErrorLevel, expected: fxevent.NopLogger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Logging.Level = tt.level

			result := createFxLogger(cfg)()
			assert.Equal(t, tt.expected, result)
		})
	}
}
