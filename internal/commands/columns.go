package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"condo-setup/internal/verify"
)

func ColumnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Compare table columns with the expected schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var src verify.ColumnSource
			switch source {
			case "rest":
				svc, err := newServiceClient(cfg)
				if err != nil {
					return err
				}
				src = verify.RESTColumns{Reader: svc}
			case "db":
				db, err := getDB(cmd.Context(), cfg)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %v", err)
				}
				defer closeDB(db)
				src = verify.DBColumns{DB: db}
			default:
				return fmt.Errorf("unknown column source %q (want rest or db)", source)
			}

			_, err = verify.CheckColumns(cmd.Context(), src, newReporter(cmd))
			return err
		},
	}

	cmd.Flags().String("source", "rest", "Where to read columns from: rest (first row) or db (catalog)")

	return cmd
}
