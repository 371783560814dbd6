package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/port-for/internal/model"
)

// NewListCommand creates the "list" command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all reservations",
		Long: `List every reservation as "name: port", in the order the reservations
were made.

Examples:
  port-for list
  port-for list -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context())
			if err != nil {
				return err
			}

			reservations, err := e.store.BoundPorts()
			if err != nil {
				return err
			}
			VerboseLog("found %d reservations in %s", len(reservations), e.store.Path())

			return writeResult(cmd.OutOrStdout(), reservationsOrEmpty(reservations), func(w io.Writer) error {
				return printReservations(w, reservations)
			})
		},
	}
}

// reservationsOrEmpty keeps JSON output an array rather than null.
func reservationsOrEmpty(r []model.Reservation) []model.Reservation {
	if r == nil {
		return []model.Reservation{}
	}
	return r
}

// printReservations writes one "name: port" line per reservation.
func printReservations(w io.Writer, reservations []model.Reservation) error {
	for _, r := range reservations {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}
