package commands

import (
	"github.com/spf13/cobra"

	"condo-setup/internal/verify"
)

func FinalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "final",
		Short: "Check public access, storage and sample data",
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
			return verify.Final(cmd.Context(), svc, anon, svc, newReporter(cmd))
		},
	}
}
