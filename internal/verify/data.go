package verify

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"condo-setup/internal/report"
	"condo-setup/internal/supabase"
)

// ReadTables prints the contents of every table. A table that cannot be
// fetched is reported and skipped; ErrFailed is returned at the end if any
// fetch failed.
func ReadTables(ctx context.Context, r RowReader, rep *report.Reporter) error {
	rep.Title("DETAILED DATA VERIFICATION")
	failed := false

	fetch := func(table string, out interface{}) bool {
		if err := selectRows(ctx, r, table, supabase.Query{}, out); err != nil {
			log.Debug().Err(err).Str("table", table).Msg("fetch failed")
			rep.Line("Error fetching %s: %s", table, describe(err))
			failed = true
			return false
		}
		return true
	}

	rep.Subsection("1. PROPERTIES TABLE:")
	var props []propertyRow
	if fetch("properties", &props) && len(props) == 0 {
		rep.Line("No properties found")
	} else if len(props) > 0 {
		rep.Line("Total properties: %d", len(props))
		for i, p := range props {
			rep.Blank()
			rep.Line("Property %d:", i+1)
			rep.Line("  ID: %s", p.ID)
			rep.Line("  Name: %s", p.Name)
			rep.Line("  Slug: %s", p.Slug)
			rep.Line("  Description: %s", report.Truncate(orNA(p.Description), 100))
			rep.Line("  Location: %s", p.Location)
			rep.Line("  Amenities: %s", formatList(p.Amenities))
			rep.Line("  Featured: %t", p.Featured)
			rep.Line("  Active: %t", p.Active)
		}
	}

	rep.Subsection("2. SITE_SETTINGS TABLE:")
	var settings []settingsRow
	if fetch("site_settings", &settings) && len(settings) == 0 {
		rep.Line("No site settings found")
	} else if len(settings) > 0 {
		rep.Line("Total settings records: %d", len(settings))
		for _, s := range settings {
			rep.Blank()
			rep.Line("Site Settings:")
			rep.Line("  ID: %s", s.ID)
			rep.Line("  Site Name: %s", s.SiteName)
			rep.Line("  Tagline: %s", s.Tagline)
			rep.Line("  Description: %s", report.Truncate(orNA(s.Description), 100))
			rep.Line("  Phone: %s", s.Phone)
			rep.Line("  Email: %s", s.Email)
			rep.Line("  Hero Title: %s", s.HeroTitle)
			rep.Line("  Hero Subtitle: %s", s.HeroSubtitle)
		}
	}

	rep.Subsection("3. PROPERTY_PHOTOS TABLE:")
	var photos []photoRow
	if fetch("property_photos", &photos) && len(photos) > 0 {
		rep.Line("Total photos: %d", len(photos))
		for _, p := range photos {
			rep.Line("  Property ID: %s, URL: %s", p.PropertyID, p.URL)
		}
	} else {
		rep.Line("No photos found")
	}

	rep.Subsection("4. CALENDAR_EVENTS TABLE:")
	var events []eventRow
	if fetch("calendar_events", &events) && len(events) > 0 {
		rep.Line("Total events: %d", len(events))
		for _, e := range events {
			rep.Line("  Property ID: %s, Date: %s, Type: %s", e.PropertyID, e.EventDate, e.EventType)
		}
	} else {
		rep.Line("No events found")
	}

	rep.Subsection("5. BLOG_POSTS TABLE:")
	var posts []postRow
	if fetch("blog_posts", &posts) && len(posts) > 0 {
		rep.Line("Total blog posts: %d", len(posts))
		for _, p := range posts {
			rep.Line("  Title: %s, Status: %s", p.Title, p.Status)
		}
	} else {
		rep.Line("No blog posts found")
	}

	if failed {
		return ErrFailed
	}
	return nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
