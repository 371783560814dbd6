// Package cli implements the cobra-based commands of the port-for CLI.
//
// Each subcommand (bind, unbind, list, get, check, ranges) lives in its
// own file. This file defines the root command, the global flags and the
// mapping from errors to process exit codes.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/port-for/internal/model"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// Global flag variables. They are bound to persistent flags on the root
// command and therefore reset every time NewRootCommand runs.
var (
	// outputFormat selects text, json or yaml output.
	outputFormat string

	// verbose lowers the log level to debug.
	verbose bool

	// configPath is the explicit --config file.
	configPath string

	// storePath overrides the store location from the configuration.
	storePath string

	// excludeDocker skips ports published by Docker containers.
	excludeDocker bool
)

// Version, Commit and Date are injected from main at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates the root command with every subcommand attached.
//
// Besides dispatching to subcommands, the root command accepts a bare
// application name: "port-for NAME" is the same as "port-for bind NAME".
func NewRootCommand() *cobra.Command {
	var bindPort int

	rootCmd := &cobra.Command{
		Use:   "port-for [NAME]",
		Short: "Reserve stable local ports for named applications",
		Long: `port-for hands out local TCP ports that are unlikely to collide with
anything else on the host and remembers which application owns which port.

Ports are picked at random from IANA-unassigned ranges outside the system
and ephemeral bands, and checked against the live host before being handed
out. Reservations persist in a small INI file (default /etc/port-for.conf).

Examples:
  port-for myapp              # same as "port-for bind myapp"
  port-for bind myapp --port 8001
  port-for unbind myapp
  port-for list -o yaml`,

		Args: cobra.MaximumNArgs(1),

		// Errors are printed by Execute, in the selected output format.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case outputText, outputJSON, outputYAML:
			default:
				return model.NewCLIError(model.ExitGeneralError,
					fmt.Sprintf("invalid output format %q: valid values are text, json, yaml", outputFormat))
			}
			configureLogger(cmd.ErrOrStderr(), verbose)
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runBind(cmd, args[0], bindPort)
		},
	}

	// PersistentFlags are inherited by every subcommand, so the store,
	// the configuration file and the output format can be given anywhere
	// on the command line.
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputText, "Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default $PORT_FOR_CONFIG or $XDG_CONFIG_HOME/port-for/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Reservation file (default /etc/port-for.conf)")
	rootCmd.PersistentFlags().BoolVar(&excludeDocker, "exclude-docker", false, "Never select host ports published by Docker containers")

	// --port is a local flag: it only applies to the bare "port-for NAME"
	// form. The bind subcommand declares its own.
	rootCmd.Flags().IntVar(&bindPort, "port", 0, "Bind NAME to this port instead of a random one")

	// Each subcommand is defined in its own file and returns a
	// *cobra.Command.
	rootCmd.AddCommand(NewBindCommand())
	rootCmd.AddCommand(NewUnbindCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewRangesCommand())

	return rootCmd
}

// Execute runs the root command and exits with the code matching the
// returned error.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	os.Exit(int(handleError(rootCmd.ErrOrStderr(), err)))
}

// handleError prints err and returns its exit code. CLIError values carry
// their own code; sentinel errors are mapped by model.ExitCodeFor.
func handleError(w io.Writer, err error) model.ExitCode {
	if err == nil {
		return model.ExitSuccess
	}

	// A CLIError carries its own code and a message written for the user.
	// errors.As also finds one wrapped by a command.
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(w, cliErr.Message, cliErr.Err)
		return cliErr.Code
	}

	// Store and selection errors wrap sentinels that select the code.
	printError(w, err.Error(), nil)
	return model.ExitCodeFor(err)
}

// printError writes an error message to w as text or, with --output json,
// as a JSON object. An empty message prints nothing.
func printError(w io.Writer, message string, underlying error) {
	if message == "" && underlying == nil {
		return
	}

	// Errors go to stderr even in JSON mode; stdout carries only the
	// command's result.
	if outputFormat == outputJSON {
		errObj := map[string]any{"message": message}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		data, _ := json.MarshalIndent(map[string]any{"error": errObj}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}
