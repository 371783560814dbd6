package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/port-for/internal/model"
	"github.com/shinji-kodama/port-for/internal/port"
)

// NewRangesCommand creates the "ranges" command.
func NewRangesCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "ranges",
		Short: "Print the port ranges random selection draws from",
		Long: `Print the good port ranges as LOW-HIGH lines, widest first. With --all,
print every available range in ascending order instead, before the
minimum-length filter and border trimming are applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context())
			if err != nil {
				return err
			}

			cfg := e.cfg
			ports := e.allocator.AvailablePorts(cfg.Low, cfg.High, cfg.Exclude)

			var ranges []model.Range
			if all {
				ranges = port.SetToRanges(ports)
			} else {
				ranges = e.allocator.GoodPortRanges(ports, cfg.MinRangeLen, cfg.Border)
			}
			if ranges == nil {
				ranges = []model.Range{}
			}
			VerboseLog("%d ranges", len(ranges))

			return writeResult(cmd.OutOrStdout(), ranges, func(w io.Writer) error {
				for _, r := range ranges {
					if _, err := fmt.Fprintln(w, r); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Print all available ranges, not only the good ones")

	return cmd
}
