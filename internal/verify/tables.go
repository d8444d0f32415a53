package verify

import (
	"context"
	"encoding/json"
	"errors"

	"condo-setup/internal/manual"
	"condo-setup/internal/report"
	"condo-setup/internal/schema"
	"condo-setup/internal/supabase"
)

// CheckTables confirms every table answers a one-row read. When all do it
// shows the sample properties and site settings; otherwise it prints the
// dashboard steps and returns ErrFailed.
func CheckTables(ctx context.Context, r RowReader, in manual.Instructions, rep *report.Reporter) error {
	rep.Line("Verifying Cozy Condo schema execution...")
	rep.Line("%s", report.Ruler('=', 50))

	allExist := true
	for _, t := range schema.Tables {
		var rows []json.RawMessage
		err := r.Select(ctx, t.Name, supabase.Query{Limit: 1}, &rows)
		if err != nil {
			allExist = false
			var apiErr *supabase.APIError
			if errors.As(err, &apiErr) {
				rep.Fail("Table '%s' - Error: %d", t.Name, apiErr.StatusCode)
				if apiErr.Message != "" {
					rep.Detail("Details: %s", apiErr.Message)
				} else {
					rep.Detail("HTTP Error: %s", apiErr.Body)
				}
			} else {
				rep.Fail("Table '%s' - Connection error: %v", t.Name, err)
			}
			continue
		}

		rep.Pass("Table '%s' exists and is accessible", t.Name)
		if len(rows) > 0 {
			rep.Detail("Contains %d record(s)", len(rows))
		} else {
			rep.Detail("Table is empty (expected for fresh installation)")
		}
	}

	rep.Blank()
	rep.Line("%s", report.Ruler('=', 50))

	if !allExist {
		rep.Fail("Schema verification failed!")
		rep.Line("Some tables are missing or inaccessible.")
		rep.Blank()
		rep.Line("To resolve this, please execute the schema manually:")
		in.PrintDashboardSteps(rep)
		return ErrFailed
	}

	rep.Celebrate("Schema verification completed successfully!")
	rep.Line("All tables are created and accessible.")

	rep.Blank()
	rep.Line("Checking sample data...")
	var props []propertyRow
	if err := selectRows(ctx, r, "properties", supabase.Query{Select: "name,slug"}, &props); err != nil {
		rep.Warn("Could not check sample data")
	} else if len(props) > 0 {
		rep.Pass("Sample properties loaded: %d properties", len(props))
		for _, p := range props {
			rep.Line("   - %s (%s)", orDefault(p.Name, "Unnamed"), orDefault(p.Slug, "no-slug"))
		}
	} else {
		rep.Info("No sample properties found (this is normal if you removed sample data)")
	}

	rep.Blank()
	rep.Line("Checking site settings...")
	var settings []settingsRow
	if err := selectRows(ctx, r, "site_settings", supabase.Query{Limit: 1}, &settings); err != nil {
		rep.Warn("Could not check site settings")
	} else if len(settings) > 0 {
		s := settings[0]
		rep.Pass("Site settings configured: %s", orDefault(s.SiteName, "Unknown"))
		rep.Line("   - Tagline: %s", orDefault(s.Tagline, "Not set"))
		rep.Line("   - Email: %s", orDefault(s.Email, "Not set"))
	} else {
		rep.Warn("No site settings found")
	}
	return nil
}

// TableCount is the row count of one table, or the error that prevented
// counting it.
type TableCount struct {
	Table string
	Count int64
	Err   error
}

// Exists is true when the table could be counted.
func (c TableCount) Exists() bool { return c.Err == nil }

// ExistingTables counts every table and reports whether all of them exist.
func ExistingTables(ctx context.Context, r RowReader, rep *report.Reporter) ([]TableCount, bool) {
	rep.Line("Checking if tables already exist...")

	counts := make([]TableCount, 0, len(schema.Tables))
	existing := 0
	for _, t := range schema.Tables {
		n, err := r.Count(ctx, t.Name)
		counts = append(counts, TableCount{Table: t.Name, Count: n, Err: err})
		if err != nil {
			rep.Line("✗ %s: %s", t.Name, describe(err))
			continue
		}
		existing++
		rep.Line("✓ %s: exists (%d %s)", t.Name, n, plural(n, "record", "records"))
	}

	rep.Blank()
	if existing == len(schema.Tables) {
		rep.Celebrate("All %d tables exist! Database schema is already set up.", existing)
		return counts, true
	}
	rep.Fail("Only %d out of %d tables exist.", existing, len(schema.Tables))
	return counts, false
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
