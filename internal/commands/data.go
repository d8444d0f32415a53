package commands

import (
	"github.com/spf13/cobra"

	"condo-setup/internal/verify"
)

func DataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "data",
		Short: "Print the contents of every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newServiceClient(cfg)
			if err != nil {
				return err
			}
			return verify.ReadTables(cmd.Context(), svc, newReporter(cmd))
		},
	}
}
