package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"condo-setup/internal/config"
	"condo-setup/internal/manual"
	"condo-setup/internal/report"
	"condo-setup/internal/supabase"
)

// openDB opens the direct database connection. Tests replace it.
var openDB = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}
	return cfg, nil
}

func newServiceClient(cfg *config.Config) (*supabase.Client, error) {
	c, err := supabase.New(cfg.SupabaseURL, cfg.ServiceRoleKey,
		supabase.WithTimeout(cfg.HTTPTimeout),
		supabase.WithRateLimit(cfg.RequestsPerSecond),
		supabase.WithRole("service"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service client: %v", err)
	}
	return c, nil
}

func newAnonClient(cfg *config.Config) (*supabase.Client, error) {
	if err := cfg.RequireAnonKey(); err != nil {
		return nil, err
	}
	c, err := supabase.New(cfg.SupabaseURL, cfg.AnonKey,
		supabase.WithTimeout(cfg.HTTPTimeout),
		supabase.WithRateLimit(cfg.RequestsPerSecond),
		supabase.WithRole("anon"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create anon client: %v", err)
	}
	return c, nil
}

// getDB opens and pings the database named by DATABASE_URL.
func getDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set in environment or .env file")
	}
	db, err := openDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func instructions(cfg *config.Config) manual.Instructions {
	return manual.Instructions{
		ProjectRef: cfg.ProjectRef(),
		SchemaPath: cfg.SchemaPath,
		Host:       cfg.DatabaseHost(),
		Port:       cfg.DatabasePort(),
		User:       cfg.DatabaseUser(),
		Database:   cfg.DatabaseName(),
	}
}

func newReporter(cmd *cobra.Command) *report.Reporter {
	return report.New(cmd.OutOrStdout())
}

// readSchema reads the schema file, naming the path when it is missing.
func readSchema(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("schema file not found at %s", path)
		}
		return "", fmt.Errorf("failed to read schema file %s: %v", path, err)
	}
	return string(raw), nil
}
