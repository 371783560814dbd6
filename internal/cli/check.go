package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/port-for/internal/model"
)

// checkResult is the structured output of "check".
type checkResult struct {
	Port      int    `json:"port" yaml:"port"`
	Available bool   `json:"available" yaml:"available"`
	BoundTo   string `json:"boundTo,omitempty" yaml:"boundTo,omitempty"`
}

// NewCheckCommand creates the "check" command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check PORT",
		Short: "Report whether a port could be handed out right now",
		Long: `Print "available" when PORT lies in the candidate pool, is not bound to
an application and is not in use on the host; print "unavailable" and exit
with status 1 otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := strconv.Atoi(args[0])
			if err == nil {
				err = model.ValidatePort(p)
			}
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("invalid port %q", args[0]), err)
			}

			e, err := loadEnv(cmd.Context())
			if err != nil {
				return err
			}

			bound, err := e.store.BoundPorts()
			if err != nil {
				return err
			}

			result := checkResult{Port: p}
			for _, r := range bound {
				if r.Port == p {
					result.BoundTo = r.App
				}
			}
			result.Available = result.BoundTo == "" && !e.isReserved(p) && e.allocator.IsAvailable(p)

			err = writeResult(cmd.OutOrStdout(), result, func(w io.Writer) error {
				status := "available"
				if !result.Available {
					status = "unavailable"
				}
				_, err := fmt.Fprintln(w, status)
				return err
			})
			if err != nil {
				return err
			}

			if !result.Available {
				// The answer is already printed; only the status remains.
				return &model.CLIError{Code: model.ExitGeneralError}
			}
			return nil
		},
	}
}
