package commands

import (
	"github.com/spf13/cobra"

	"condo-setup/internal/verify"
)

func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Count records in every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newServiceClient(cfg)
			if err != nil {
				return err
			}
			return verify.CheckSetup(cmd.Context(), svc, newReporter(cmd))
		},
	}
}
