package verify

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"condo-setup/internal/supabase"
)

// The views below hold only the fields the reports print. Rows are decoded
// weakly, so an integer id or a timestamp without a zone still reads as text.

type propertyRow struct {
	ID          string   `mapstructure:"id"`
	Name        string   `mapstructure:"name"`
	Slug        string   `mapstructure:"slug"`
	Description string   `mapstructure:"description"`
	Location    string   `mapstructure:"location"`
	Amenities   []string `mapstructure:"amenities"`
	Featured    bool     `mapstructure:"featured"`
	Active      bool     `mapstructure:"active"`
}

type settingsRow struct {
	ID           string `mapstructure:"id"`
	SiteName     string `mapstructure:"site_name"`
	Tagline      string `mapstructure:"tagline"`
	Description  string `mapstructure:"description"`
	Phone        string `mapstructure:"phone"`
	Email        string `mapstructure:"email"`
	HeroTitle    string `mapstructure:"hero_title"`
	HeroSubtitle string `mapstructure:"hero_subtitle"`
}

type photoRow struct {
	PropertyID string `mapstructure:"property_id"`
	URL        string `mapstructure:"url"`
}

type eventRow struct {
	PropertyID string `mapstructure:"property_id"`
	EventDate  string `mapstructure:"event_date"`
	EventType  string `mapstructure:"event_type"`
}

type postRow struct {
	Title  string `mapstructure:"title"`
	Status string `mapstructure:"status"`
}

// selectRows reads table as generic JSON rows and decodes them into out,
// a pointer to a slice of one of the views above.
func selectRows(ctx context.Context, r RowReader, table string, q supabase.Query, out interface{}) error {
	var raw []map[string]interface{}
	if err := r.Select(ctx, table, q, &raw); err != nil {
		return err
	}
	if err := mapstructure.WeakDecode(raw, out); err != nil {
		return fmt.Errorf("failed to read %s rows: %w", table, err)
	}
	return nil
}
