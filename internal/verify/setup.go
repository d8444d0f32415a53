package verify

import (
	"context"
	"errors"

	"condo-setup/internal/report"
	"condo-setup/internal/schema"
	"condo-setup/internal/supabase"
)

// CheckSetup counts every table and, when all are accessible, shows a few
// sample properties and the site configuration.
func CheckSetup(ctx context.Context, r RowReader, rep *report.Reporter) error {
	rep.Line("🔍 Verifying Cozy Condo Database Setup")
	rep.Line("%s", report.Ruler('=', 50))

	allExist := true
	var total int64
	for _, t := range schema.Tables {
		n, err := r.Count(ctx, t.Name)
		if err != nil {
			allExist = false
			var apiErr *supabase.APIError
			if errors.As(err, &apiErr) {
				rep.Line("✗ %s: Table not accessible (Status: %d)", t.Description, apiErr.StatusCode)
			} else {
				rep.Line("✗ %s: Error - %v", t.Description, err)
			}
			continue
		}
		total += n
		rep.Line("✓ %s: %d records", t.Description, n)
	}
	rep.Blank()

	if !allExist {
		rep.Fail("DATABASE VERIFICATION FAILED!")
		rep.Line("Some tables are missing or not accessible.")
		rep.Line("Please ensure the schema has been properly executed.")
		return ErrFailed
	}

	rep.Celebrate("DATABASE VERIFICATION SUCCESSFUL!")
	rep.Line("✓ All required tables are accessible")
	rep.Line("✓ Total records found: %d", total)

	var props []propertyRow
	err := selectRows(ctx, r, "properties", supabase.Query{Select: "name,slug,location", Limit: 5}, &props)
	switch {
	case err != nil:
		rep.Warn("Could not fetch sample properties: %s", message(err))
	case len(props) > 0:
		rep.Blank()
		rep.Line("📝 Sample Properties Found:")
		for _, p := range props {
			rep.Line("  • %s (%s) - %s", p.Name, p.Slug, p.Location)
		}
	default:
		rep.Info("No sample properties found (this is okay)")
	}

	var settings []settingsRow
	err = selectRows(ctx, r, "site_settings", supabase.Query{Select: "site_name,tagline", Limit: 1}, &settings)
	switch {
	case err != nil:
		rep.Warn("Could not fetch site settings: %s", message(err))
	case len(settings) > 0:
		rep.Blank()
		rep.Line("🏠 Site Configuration:")
		rep.Line("  • Site Name: %s", settings[0].SiteName)
		rep.Line("  • Tagline: %s", settings[0].Tagline)
	}

	rep.Blank()
	rep.Pass("Your Cozy Condo database is ready to use!")
	return nil
}
