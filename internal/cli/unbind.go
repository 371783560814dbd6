package cli

import (
	"github.com/spf13/cobra"
)

// NewUnbindCommand creates the "unbind" command.
func NewUnbindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unbind NAME",
		Short: "Release the port reserved for an application",
		Long: `Release the port reserved for NAME. Unbinding an application that
holds no port succeeds silently.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context())
			if err != nil {
				return err
			}
			if err := e.store.UnbindPort(args[0]); err != nil {
				return err
			}
			VerboseLog("released %s", args[0])
			return nil
		},
	}
}
