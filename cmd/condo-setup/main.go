package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"condo-setup/internal/commands"
	"condo-setup/internal/observability"
)

func main() {
	_ = godotenv.Load()

	log.Logger = observability.NewLogger(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	reg := observability.InitRegistry()

	rootCmd := &cobra.Command{
		Use:           "condo-setup",
		Short:         "Set up and verify the Cozy Condo Supabase project",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		commands.CheckCmd(),
		commands.ApplyCmd(),
		commands.HistoryCmd(),
		commands.BucketsCmd(),
		commands.TablesCmd(),
		commands.ColumnsCmd(),
		commands.DataCmd(),
		commands.StatusCmd(),
		commands.VerifyCmd(),
		commands.FinalCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if path := os.Getenv("METRICS_FILE"); path != "" {
		if werr := observability.WriteTextfile(path, reg); werr != nil {
			log.Warn().Err(werr).Str("path", path).Msg("failed to write metrics")
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
