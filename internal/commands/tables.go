package commands

import (
	"github.com/spf13/cobra"

	"condo-setup/internal/verify"
)

func TablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Check that every table exists and is accessible",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newServiceClient(cfg)
			if err != nil {
				return err
			}
			return verify.CheckTables(cmd.Context(), svc, instructions(cfg), newReporter(cmd))
		},
	}
}
