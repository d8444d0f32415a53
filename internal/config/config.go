package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSchemaPath        = "supabase/schema.sql"
	DefaultHTTPTimeout       = 10 * time.Second
	DefaultRequestsPerSecond = 5
)

// ErrAnonKeyMissing is returned by RequireAnonKey when SUPABASE_ANON_KEY is unset.
var ErrAnonKeyMissing = errors.New("SUPABASE_ANON_KEY not set in environment or .env file")

// Config holds the settings shared by every command. Values come from the
// process environment, which main seeds from a .env file.
type Config struct {
	AppEnv            string        `validate:"required"`
	LogLevel          string        `validate:"oneof=debug info warn error"`
	SupabaseURL       string        `validate:"required,url"`
	ServiceRoleKey    string        `validate:"required"`
	AnonKey           string
	DatabaseURL       string
	SchemaPath        string        `validate:"required"`
	HTTPTimeout       time.Duration `validate:"gt=0"`
	RequestsPerSecond int           `validate:"gte=1"`
	MetricsFile       string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	c := &Config{
		AppEnv:            env("APP_ENV", "prod"),
		LogLevel:          strings.ToLower(env("LOG_LEVEL", "info")),
		SupabaseURL:       strings.TrimRight(env("SUPABASE_URL", ""), "/"),
		ServiceRoleKey:    env("SUPABASE_SERVICE_ROLE_KEY", ""),
		AnonKey:           env("SUPABASE_ANON_KEY", ""),
		DatabaseURL:       env("DATABASE_URL", ""),
		SchemaPath:        env("SCHEMA_PATH", DefaultSchemaPath),
		HTTPTimeout:       time.Duration(atoi("HTTP_TIMEOUT_SECONDS", int(DefaultHTTPTimeout/time.Second))) * time.Second,
		RequestsPerSecond: atoi("REQUESTS_PER_SECOND", DefaultRequestsPerSecond),
		MetricsFile:       env("METRICS_FILE", ""),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.AnonKey == "" {
		log.Debug().Msg("SUPABASE_ANON_KEY is empty; anonymous access checks are unavailable")
	}
	return c, nil
}

// Validate checks that all fields in Config are valid.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, envName(fe.Field()))
			}
			return fmt.Errorf("invalid configuration: check %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// RequireAnonKey reports whether the anonymous key needed for access-policy
// probes is configured.
func (c *Config) RequireAnonKey() error {
	if c.AnonKey == "" {
		return ErrAnonKeyMissing
	}
	return nil
}

// ProjectRef returns the project reference, the first label of the project host.
func (c *Config) ProjectRef() string {
	u, err := url.Parse(c.SupabaseURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := u.Hostname()
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}

// DatabaseHost returns the host of DATABASE_URL, falling back to the
// project's direct connection host.
func (c *Config) DatabaseHost() string {
	if c.DatabaseURL != "" {
		if u, err := url.Parse(c.DatabaseURL); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	if ref := c.ProjectRef(); ref != "" {
		return "db." + ref + ".supabase.co"
	}
	return ""
}

// DatabasePort returns the port of DATABASE_URL, or 5432.
func (c *Config) DatabasePort() int {
	if c.DatabaseURL != "" {
		if u, err := url.Parse(c.DatabaseURL); err == nil {
			if p, err := strconv.Atoi(u.Port()); err == nil {
				return p
			}
		}
	}
	return 5432
}

// DatabaseUser returns the user of DATABASE_URL, or postgres.
func (c *Config) DatabaseUser() string {
	if c.DatabaseURL != "" {
		if u, err := url.Parse(c.DatabaseURL); err == nil && u.User != nil && u.User.Username() != "" {
			return u.User.Username()
		}
	}
	return "postgres"
}

// DatabaseName returns the database of DATABASE_URL, or postgres.
func (c *Config) DatabaseName() string {
	if c.DatabaseURL != "" {
		if u, err := url.Parse(c.DatabaseURL); err == nil {
			if name := strings.TrimPrefix(u.Path, "/"); name != "" {
				return name
			}
		}
	}
	return "postgres"
}

func envName(field string) string {
	switch field {
	case "AppEnv":
		return "APP_ENV"
	case "LogLevel":
		return "LOG_LEVEL"
	case "SupabaseURL":
		return "SUPABASE_URL"
	case "ServiceRoleKey":
		return "SUPABASE_SERVICE_ROLE_KEY"
	case "SchemaPath":
		return "SCHEMA_PATH"
	case "HTTPTimeout":
		return "HTTP_TIMEOUT_SECONDS"
	case "RequestsPerSecond":
		return "REQUESTS_PER_SECOND"
	default:
		return field
	}
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric value")
	}
	return def
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
