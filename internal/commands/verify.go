package commands

import (
	"github.com/spf13/cobra"

	"condo-setup/internal/verify"
)

func VerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Run the full database verification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newServiceClient(cfg)
			if err != nil {
				return err
			}
			anon, err := newAnonClient(cfg)
			if err != nil {
				return err
			}
			return verify.Full(cmd.Context(), svc, anon, svc, newReporter(cmd))
		},
	}
}
