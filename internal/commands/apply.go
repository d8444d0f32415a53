package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"condo-setup/internal/apply"
)

// ErrNoConnection is returned when the schema cannot be applied because the
// database is unreachable. Manual instructions have been printed.
var ErrNoConnection = errors.New("database connection unavailable")

func ApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the schema file over a direct database connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			force, _ := cmd.Flags().GetBool("force")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rep := newReporter(cmd)

			rep.Line("Reading schema file...")
			schemaSQL, err := readSchema(cfg.SchemaPath)
			if err != nil {
				return err
			}

			rep.Line("Connecting to Supabase PostgreSQL database...")
			db, err := getDB(cmd.Context(), cfg)
			if err != nil {
				log.Warn().Err(err).Msg("direct database connection failed")
				rep.Fail("Database connection failed: %v", err)
				rep.Blank()
				instructions(cfg).Print(rep, "")
				return ErrNoConnection
			}
			defer closeDB(db)
			rep.Line("✓ Connection successful!")

			applier := apply.NewApplier(db, rep)
			res, err := applier.Apply(cmd.Context(), cfg.SchemaPath, schemaSQL, apply.Options{DryRun: dryRun, Force: force})
			if err != nil {
				return fmt.Errorf("failed to apply schema: %v", err)
			}
			if res.DryRun || res.Skipped {
				return nil
			}

			in, err := apply.NewInspector(db).Inspect(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to verify schema: %v", err)
			}
			apply.PrintInspection(rep, in)
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "List the statements without executing them")
	cmd.Flags().Bool("force", false, "Run the schema even if it was already applied")

	return cmd
}
