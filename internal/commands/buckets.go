package commands

import (
	"github.com/spf13/cobra"

	"condo-setup/internal/provision"
)

func BucketsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buckets",
		Short: "Create the storage buckets and make them public",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newServiceClient(cfg)
			if err != nil {
				return err
			}
			p := provision.New(svc, instructions(cfg), newReporter(cmd))
			_, err = p.Ensure(cmd.Context(), provision.DefaultBuckets())
			return err
		},
	}
}
