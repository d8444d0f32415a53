package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"condo-setup/internal/apply"
)

func HistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show schema application history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := getDB(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %v", err)
			}
			defer closeDB(db)

			rep := newReporter(cmd)
			records, err := apply.NewApplier(db, rep).History(cmd.Context())
			if err != nil {
				return err
			}

			if len(records) == 0 {
				rep.Line("No schema has been applied yet.")
				return nil
			}

			rep.Line("%-16s  %-30s  %-24s", "Version", "Name", "Applied At")
			for _, record := range records {
				rep.Line("%-16s  %-30s  %-24s", record.Version(), record.Name, record.AppliedAt.Format(time.RFC3339))
			}

			return nil
		},
	}
}
