package verify

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"condo-setup/internal/report"
	"condo-setup/internal/schema"
	"condo-setup/internal/supabase"
)

// finalState collects what Final observed so the closing status block can
// be derived from it.
type finalState struct {
	existing       int
	restricted     []string
	properties     int
	propertiesRead bool
	settings       bool
	missingBuckets []string
	storageErr     bool
}

func (s finalState) ok() bool {
	return s.existing == len(schema.Tables) && len(s.restricted) == 0 &&
		s.propertiesRead && s.settings && len(s.missingBuckets) == 0 && !s.storageErr
}

// Final checks the setup from a site visitor's point of view: anonymous
// reads, storage buckets and the seeded content.
func Final(ctx context.Context, svc, anon RowReader, storage BucketLister, rep *report.Reporter) error {
	rep.Title("FINAL SUPABASE DATABASE VERIFICATION")
	rep.Line("Checking all aspects of your database setup...")

	var st finalState

	rep.Section("TESTING ANONYMOUS ACCESS")
	for _, t := range schema.Tables {
		var rows []json.RawMessage
		err := anon.Select(ctx, t.Name, supabase.Query{}, &rows)
		if err == nil {
			st.existing++
			rep.Pass("%s: Anonymous can read %d records", t.Name, len(rows))
			continue
		}
		st.restricted = append(st.restricted, t.Name)
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) {
			if !errors.Is(err, supabase.ErrNotFound) {
				st.existing++
			}
			rep.Fail("%s: Anonymous access denied (Status: %d)", t.Name, apiErr.StatusCode)
		} else {
			rep.Fail("%s: Error - %v", t.Name, err)
		}
	}

	rep.Section("TESTING STORAGE ACCESS")
	buckets, err := storage.ListBuckets(ctx)
	if err != nil {
		st.storageErr = true
		st.missingBuckets = append(st.missingBuckets, schema.Buckets...)
		if code := supabase.StatusCode(err); code != 0 {
			rep.Fail("Storage API not accessible: %d", code)
		} else {
			rep.Fail("Storage API error: %v", err)
		}
	} else {
		rep.Pass("Storage API accessible - %d buckets found", len(buckets))
		present := make(map[string]bool, len(buckets))
		for _, b := range buckets {
			present[b.Name] = true
			visibility := "Private"
			if b.Public {
				visibility = "Public"
			}
			rep.Line("  - %s: %s", b.Name, visibility)

			files, err := storage.ListObjects(ctx, b.Name, supabase.ListOptions{})
			if err != nil {
				rep.Line("    Could not list files: %s", statusOrError(err))
				continue
			}
			rep.Line("    Files in bucket: %d", len(files))
		}
		for _, want := range schema.Buckets {
			if !present[want] {
				st.missingBuckets = append(st.missingBuckets, want)
			}
		}
	}

	rep.Section("SAMPLE DATA SUMMARY")
	var props []propertyRow
	if err := selectRows(ctx, svc, "properties", supabase.Query{}, &props); err != nil {
		rep.Fail("Could not read properties: %s", describe(err))
	} else {
		st.propertiesRead = true
		st.properties = len(props)
		rep.Line("Properties: %d records", len(props))
		for _, p := range props {
			rep.Line("  - %s (%s) - Featured: %t", p.Name, p.Location, p.Featured)
		}
	}

	var settings []settingsRow
	if err := selectRows(ctx, svc, "site_settings", supabase.Query{Limit: 1}, &settings); err != nil {
		rep.Fail("Could not read site settings: %s", describe(err))
	} else if len(settings) > 0 {
		st.settings = true
		s := settings[0]
		rep.Blank()
		rep.Line("Site Settings: 1 record")
		rep.Line("  - Site: %s", s.SiteName)
		rep.Line("  - Tagline: %s", s.Tagline)
		rep.Line("  - Email: %s", s.Email)
		rep.Line("  - Phone: %s", s.Phone)
	}

	rep.Blank()
	rep.Line("%s", report.Ruler('=', 60))
	rep.Line("VERIFICATION COMPLETE")
	rep.Line("%s", report.Ruler('=', 60))
	printFinalStatus(st, rep)

	if st.ok() {
		rep.Blank()
		rep.Celebrate("Your Supabase database is ready for use!")
		return nil
	}
	rep.Blank()
	rep.Warn("Some parts of the setup need attention. See the details above.")
	return ErrFailed
}

func printFinalStatus(st finalState, rep *report.Reporter) {
	rep.Blank()
	if st.ok() {
		rep.Pass("DATABASE SETUP STATUS:")
	} else {
		rep.Fail("DATABASE SETUP STATUS:")
	}

	total := len(schema.Tables)
	if st.existing == total {
		rep.Line("- All %d required tables exist", total)
	} else {
		rep.Line("- Only %d of %d required tables exist", st.existing, total)
	}

	if st.propertiesRead {
		rep.Line("- Properties table has %d sample %s", st.properties, plural(int64(st.properties), "property", "properties"))
	} else {
		rep.Line("- Properties table could not be read")
	}

	if st.settings {
		rep.Line("- Site settings table has default configuration")
	} else {
		rep.Line("- Site settings table has no configuration")
	}

	if len(st.missingBuckets) == 0 {
		rep.Line("- Storage buckets (%s) exist", strings.Join(schema.Buckets, ", "))
	} else {
		rep.Line("- Storage buckets missing: %s", strings.Join(st.missingBuckets, ", "))
	}

	if len(st.restricted) == 0 {
		rep.Line("- Public read access is enabled for all tables")
	} else {
		rep.Line("- Public read access is not available for: %s", strings.Join(st.restricted, ", "))
	}
}

func statusOrError(err error) string {
	if code := supabase.StatusCode(err); code != 0 {
		return strconv.Itoa(code)
	}
	return err.Error()
}
