package verify

import (
	"context"
	"encoding/json"
	"errors"

	"condo-setup/internal/report"
	"condo-setup/internal/schema"
	"condo-setup/internal/supabase"
)

// Full runs every check in turn: existence, structure, sample data, access
// policies and storage buckets. svc must use the service key and anon the
// anonymous key.
func Full(ctx context.Context, svc, anon RowReader, storage BucketLister, rep *report.Reporter) error {
	rep.Title("SUPABASE DATABASE VERIFICATION")

	rep.Section("VERIFYING TABLE EXISTENCE")
	exists := make(map[string]bool, len(schema.Tables))
	allExist := true
	for _, t := range schema.Tables {
		rep.Line("Checking if table '%s' exists...", t.Name)
		var rows []json.RawMessage
		if err := svc.Select(ctx, t.Name, supabase.Query{Limit: 1}, &rows); err != nil {
			allExist = false
			rep.Fail("Table '%s' does not exist or is not accessible", t.Name)
			rep.Line("   Error: %s", describe(err))
			continue
		}
		exists[t.Name] = true
		rep.Pass("Table '%s' exists", t.Name)
	}

	rep.Section("VERIFYING TABLE STRUCTURES")
	for _, t := range schema.Tables {
		if !exists[t.Name] {
			continue
		}
		rep.Blank()
		rep.Line("Checking structure of table '%s'...", t.Name)
		cols, err := (RESTColumns{Reader: svc}).Columns(ctx, t.Name)
		switch {
		case errors.Is(err, ErrEmptyTable):
			rep.Pass("Table '%s' exists but is empty", t.Name)
		case err != nil:
			rep.Fail("Could not verify structure of table '%s'", t.Name)
		default:
			rep.Pass("Table '%s' has %d columns: %s", t.Name, len(cols), formatList(cols))
		}
	}

	rep.Section("VERIFYING SAMPLE DATA")
	fullSampleData(ctx, svc, rep)

	rep.Section("VERIFYING RLS POLICIES")
	for _, t := range schema.Tables {
		rep.Blank()
		rep.Line("Testing RLS for '%s' table...", t.Name)
		var rows []json.RawMessage
		err := anon.Select(ctx, t.Name, supabase.Query{Limit: 1}, &rows)
		switch {
		case err == nil:
			rep.Pass("Anon access to '%s' is allowed (good for public reads)", t.Name)
		case supabase.IsAccessDenied(err):
			rep.Locked("Anon access to '%s' is restricted (RLS is active)", t.Name)
		default:
			rep.Warn("Unexpected response for '%s': %s", t.Name, describe(err))
		}
	}

	rep.Section("VERIFYING STORAGE BUCKETS")
	bucketsOK := true
	buckets, err := storage.ListBuckets(ctx)
	if err != nil {
		bucketsOK = false
		rep.Fail("Could not retrieve storage buckets: %s", describe(err))
	} else {
		names := make([]string, 0, len(buckets))
		present := make(map[string]bool, len(buckets))
		for _, b := range buckets {
			names = append(names, b.Name)
			present[b.Name] = true
		}
		rep.Pass("Found %d storage buckets: %s", len(buckets), formatList(names))
		for _, want := range schema.Buckets {
			if present[want] {
				rep.Pass("Required bucket '%s' exists", want)
			} else {
				bucketsOK = false
				rep.Fail("Required bucket '%s' is missing", want)
			}
		}
	}

	rep.Section("VERIFICATION SUMMARY")
	rep.Line("All required tables exist: %s", report.YesNo(allExist))
	for _, t := range schema.Tables {
		rep.Line("%s %s", report.Status(exists[t.Name]), t.Name)
	}

	rep.Blank()
	if allExist && bucketsOK {
		rep.Celebrate("Database verification completed successfully!")
		rep.Line("Your Supabase database appears to be set up correctly.")
		return nil
	}
	rep.Warn("Some issues were found during verification.")
	rep.Line("Please check the errors above and ensure your schema was applied correctly.")
	return ErrFailed
}

func fullSampleData(ctx context.Context, svc RowReader, rep *report.Reporter) {
	rep.Blank()
	rep.Line("Checking properties table...")
	var props []propertyRow
	if err := selectRows(ctx, svc, "properties", supabase.Query{}, &props); err != nil {
		rep.Fail("Could not retrieve properties: %s", describe(err))
	} else {
		rep.Pass("Found %d properties", len(props))
		for _, p := range props {
			rep.Line("   - %s: %s", p.Name, orDefault(p.Location, "N/A"))
		}
	}

	rep.Blank()
	rep.Line("Checking property_photos table...")
	var photos []photoRow
	if err := selectRows(ctx, svc, "property_photos", supabase.Query{}, &photos); err != nil {
		rep.Fail("Could not retrieve property photos: %s", describe(err))
	} else {
		rep.Pass("Found %d property photos", len(photos))
		for i, p := range photos {
			if i == 5 {
				break
			}
			rep.Line("   - Photo for property %s: %s", p.PropertyID, orDefault(p.URL, "N/A"))
		}
	}

	rep.Blank()
	rep.Line("Checking calendar_events table...")
	var events []json.RawMessage
	if err := svc.Select(ctx, "calendar_events", supabase.Query{}, &events); err != nil {
		rep.Fail("Could not retrieve calendar events: %s", describe(err))
	} else {
		rep.Pass("Found %d calendar events", len(events))
	}

	rep.Blank()
	rep.Line("Checking site_settings table...")
	var settings []settingsRow
	if err := selectRows(ctx, svc, "site_settings", supabase.Query{}, &settings); err != nil {
		rep.Fail("Could not retrieve site settings: %s", describe(err))
	} else {
		rep.Pass("Found %d site settings", len(settings))
		for _, s := range settings {
			rep.Line("   - %s: %s", orDefault(s.SiteName, "Unknown"), orDefault(s.Tagline, "N/A"))
		}
	}

	rep.Blank()
	rep.Line("Checking blog_posts table...")
	var posts []json.RawMessage
	if err := svc.Select(ctx, "blog_posts", supabase.Query{}, &posts); err != nil {
		rep.Fail("Could not retrieve blog posts: %s", describe(err))
	} else {
		rep.Pass("Found %d blog posts", len(posts))
	}
}
