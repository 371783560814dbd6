package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/port-for/internal/model"
)

// NewBindCommand creates the "bind" command.
func NewBindCommand() *cobra.Command {
	var bindPort int

	cmd := &cobra.Command{
		Use:   "bind NAME",
		Short: "Reserve a port for an application and print it",
		Long: `Reserve a port for NAME and print it.

An application that already holds a port gets the same port back. Without
--port a free port is picked at random; with --port that exact port is
recorded, as long as no other application holds it.

Examples:
  port-for bind myapp
  port-for bind myapp --port 8001`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBind(cmd, args[0], bindPort)
		},
	}

	cmd.Flags().IntVar(&bindPort, "port", 0, "Bind NAME to this port instead of a random one")

	return cmd
}

// runBind is shared by "bind NAME" and the bare "NAME" form.
func runBind(cmd *cobra.Command, name string, requested int) error {
	if requested < 0 {
		return model.NewCLIError(model.ExitGeneralError, fmt.Sprintf("invalid port %d", requested))
	}

	e, err := loadEnv(cmd.Context())
	if err != nil {
		return err
	}

	p, err := e.store.BindPort(name, requested)
	if err != nil {
		return err
	}
	VerboseLog("%s is bound to port %d", name, p)

	return writeResult(cmd.OutOrStdout(), model.Reservation{App: name, Port: p}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, p)
		return err
	})
}
