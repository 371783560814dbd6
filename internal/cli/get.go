package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/port-for/internal/model"
	"github.com/shinji-kodama/port-for/internal/port"
)

// getResult is the structured output of "get". Port is nil for "-1".
type getResult struct {
	Spec string `json:"spec" yaml:"spec"`
	Port *int   `json:"port" yaml:"port"`
}

// NewGetCommand creates the "get" command.
func NewGetCommand() *cobra.Command {
	var exclude []int

	cmd := &cobra.Command{
		Use:   "get [SPEC]",
		Short: "Pick a free port without reserving it",
		Long: `Resolve a port spec to a concrete port and print it. Nothing is recorded
in the store, but ports bound there are never picked.

SPEC forms:
  (none), any   a random free port from the good ranges
  -1, none      no port; prints nothing (use "-- -1" for the numeric form)
  8000          exactly 8000, not checked
  8000-8100     a free port in the inclusive range
  {8000,8080}   a free port from the set
  8000,9000-9010,{7000,7001}
                a free port from the union

Examples:
  port-for get
  port-for get 8000-8100 --exclude 8000,8001`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) > 0 {
				raw = args[0]
			}
			spec, err := port.ParsePortSpec(raw)
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "invalid port spec", err)
			}

			e, err := loadEnv(cmd.Context())
			if err != nil {
				return err
			}

			bound, err := e.store.BoundPorts()
			if err != nil {
				return err
			}
			skip := append(append([]int(nil), exclude...), e.reserved...)
			for _, r := range bound {
				skip = append(skip, r.Port)
			}

			p, ok, err := e.allocator.GetPort(spec, skip)
			if err != nil {
				return err
			}

			result := getResult{Spec: spec.String()}
			if ok {
				result.Port = &p
			}
			return writeResult(cmd.OutOrStdout(), result, func(w io.Writer) error {
				if !ok {
					return nil
				}
				_, err := fmt.Fprintln(w, p)
				return err
			})
		},
	}

	cmd.Flags().IntSliceVar(&exclude, "exclude", nil, "Ports that must not be returned (comma-separated)")

	return cmd
}
