package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"logview/internal/app/errors"
	"logview/internal/config"
)

// CommandType represents the type of CLI command
type CommandType int

// Command type values
const (
	CommandView CommandType = iota
	CommandServe
	CommandInit
	CommandVersion
	CommandHelp
)

// Options contains the parsed command-line arguments
type Options struct {
	Type       CommandType
	Location   string
	NoUI       bool
	Output     string
	ConfigPath string
	Force      bool
	DryRun     bool
	Usage      string
}

// Parse parses command-line args and returns an Options struct
func Parse(args []string) (*Options, error) {
	result := &Options{
		Type:       CommandView,
		Output:     config.OutputText,
		ConfigPath: config.FileName,
	}

	var version bool

	root := buildRootCommand(result, &version)
	root.AddCommand(
		buildViewCommand(result),
		buildServeCommand(result),
		buildInitCommand(result),
		buildVersionCommand(result),
	)

	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		return nil, err
	}

	if version {
		result.Type = CommandVersion
	}

	return result, nil
}

// buildRootCommand creates the root cobra command
func buildRootCommand(result *Options, version *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logview [location]",
		Short: "Search and browse Elasticsearch logs from the terminal",
		Long: `logview is a terminal log viewer. It opens the search given as a
location (a query string such as '?query=level:error' or a full URL) and
prints the location you ended on when it exits, so searches can be shared.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: validateOutput(result),
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandView
			if len(args) > 0 {
				result.Location = args[0]
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&result.NoUI, "no-ui", false, "Fetch once and print the results instead of opening the viewer")
	cmd.PersistentFlags().StringVarP(&result.Output, "output", "o", config.OutputText, "Output format for --no-ui: text or json")
	cmd.PersistentFlags().StringVarP(&result.ConfigPath, "config", "c", config.FileName, "Path to the config file")
	cmd.Flags().BoolVarP(version, "version", "v", false, "Show version information")

	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		result.Type = CommandHelp
		result.Usage = cmd.UsageString()
	})

	return cmd
}

// validateOutput rejects unknown --output values
func validateOutput(result *Options) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		switch result.Output {
		case config.OutputText, config.OutputJSON:
			return nil
		default:
			return fmt.Errorf("%w: '%s'", errors.ErrInvalidOutput, result.Output)
		}
	}
}

// buildViewCommand creates the view subcommand
func buildViewCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "view [location]",
		Aliases: []string{"v"},
		Short:   "Open the viewer at a location",
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandView
			if len(args) > 0 {
				result.Location = args[0]
			}
		},
	}
}

// buildServeCommand creates the serve subcommand
func buildServeCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Serve the logs API on top of Elasticsearch",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandServe
		},
	}
}

// buildInitCommand creates the init subcommand
func buildInitCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init",
		Aliases: []string{"i"},
		Short:   "Generate a logview.yaml template",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandInit
		},
	}

	cmd.Flags().BoolVarP(&result.Force, "force", "f", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&result.DryRun, "dry-run", false, "Print the template instead of writing it")

	return cmd
}

// buildVersionCommand creates the version subcommand
func buildVersionCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandVersion
		},
	}
}
