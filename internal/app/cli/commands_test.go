package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logview/internal/app/errors"
	"logview/internal/config"
)

func Test_Parse(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected Options
	}{
		{
			name:     "no args opens the viewer",
			args:     []string{},
			expected: Options{Type: CommandView, Output: config.OutputText, ConfigPath: config.FileName},
		},
		{
			name:     "bare location",
			args:     []string{"?query=level:error"},
			expected: Options{Type: CommandView, Location: "?query=level:error", Output: config.OutputText, ConfigPath: config.FileName},
		},
		{
			name:     "view with location",
			args:     []string{"view", "http://localhost:3000/?query=x"},
			expected: Options{Type: CommandView, Location: "http://localhost:3000/?query=x", Output: config.OutputText, ConfigPath: config.FileName},
		},
		{
			name:     "view alias",
			args:     []string{"v"},
			expected: Options{Type: CommandView, Output: config.OutputText, ConfigPath: config.FileName},
		},
		{
			name:     "no-ui with json output",
			args:     []string{"--no-ui", "-o", "json", "?query=x"},
			expected: Options{Type: CommandView, Location: "?query=x", NoUI: true, Output: config.OutputJSON, ConfigPath: config.FileName},
		},
		{
			name:     "no-ui on the view subcommand",
			args:     []string{"view", "--no-ui", "?query=x"},
			expected: Options{Type: CommandView, Location: "?query=x", NoUI: true, Output: config.OutputText, ConfigPath: config.FileName},
		},
		{
			name:     "serve with config",
			args:     []string{"serve", "--config", "/etc/logview.yaml"},
			expected: Options{Type: CommandServe, Output: config.OutputText, ConfigPath: "/etc/logview.yaml"},
		},
		{
			name:     "init with force and dry run",
			args:     []string{"init", "-f", "--dry-run"},
			expected: Options{Type: CommandInit, Force: true, DryRun: true, Output: config.OutputText, ConfigPath: config.FileName},
		},
		{
			name:     "version subcommand",
			args:     []string{"version"},
			expected: Options{Type: CommandVersion, Output: config.OutputText, ConfigPath: config.FileName},
		},
		{
			name:     "version flag",
			args:     []string{"-v"},
			expected: Options{Type: CommandVersion, Output: config.OutputText, ConfigPath: config.FileName},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *result)
		})
	}
}

func Test_Parse_Help(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "long flag", args: []string{"--help"}},
		{name: "short flag", args: []string{"-h"}},
		{name: "help command", args: []string{"help"}},
		{name: "subcommand help", args: []string{"serve", "--help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.args)
			require.NoError(t, err)
			assert.Equal(t, CommandHelp, result.Type)
			assert.Contains(t, result.Usage, "Usage:")
		})
	}
}

func Test_Parse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		error error
	}{
		{name: "unknown output", args: []string{"--no-ui", "-o", "yaml"}, error: errors.ErrInvalidOutput},
		{name: "too many locations", args: []string{"?a=1", "?b=2"}},
		{name: "unknown flag", args: []string{"--bogus"}},
		{name: "serve takes no args", args: []string{"serve", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.args)
			assert.Error(t, err)
			assert.Nil(t, result)

			if tt.error != nil {
				assert.ErrorIs(t, err, tt.error)
			}
		})
	}
}
