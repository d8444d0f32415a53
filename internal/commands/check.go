package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"condo-setup/internal/report"
	"condo-setup/internal/verify"
)

// ErrSchemaMissing is returned when some tables do not exist yet.
var ErrSchemaMissing = errors.New("database schema is not set up")

func CheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check whether the schema is in place and print setup steps if not",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newServiceClient(cfg)
			if err != nil {
				return err
			}
			rep := newReporter(cmd)

			rep.Line("Cozy Condo Database Schema Setup")
			rep.Line("%s", report.Ruler('=', 50))
			if _, all := verify.ExistingTables(cmd.Context(), svc, rep); all {
				rep.Pass("Database is ready to use.")
				return nil
			}

			rep.Blank()
			schemaSQL, err := readSchema(cfg.SchemaPath)
			if err != nil {
				rep.Warn("%v", err)
			}
			instructions(cfg).Print(rep, schemaSQL)
			return ErrSchemaMissing
		},
	}
}
