package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"properties", "property_photos", "calendar_events", "blog_posts", "site_settings"}, Names())
}

func TestLookup(t *testing.T) {
	tbl, ok := Lookup("blog_posts")
	require.True(t, ok)
	assert.Equal(t, "Blog posts", tbl.Description)

	_, ok = Lookup("bookings")
	assert.False(t, ok)
}

func TestExpectedColumns(t *testing.T) {
	tests := []struct {
		table string
		want  []string
	}{
		{"properties", []string{
			"id", "name", "slug", "description", "short_description",
			"location", "address", "map_url", "airbnb_url", "airbnb_ical_url",
			"amenities", "featured", "active", "display_order", "created_at", "updated_at",
		}},
		{"property_photos", []string{
			"id", "property_id", "url", "alt_text", "display_order",
			"is_primary", "created_at", "updated_at",
		}},
		{"calendar_events", []string{
			"id", "property_id", "event_date", "event_type", "price",
			"notes", "created_at", "updated_at",
		}},
		{"blog_posts", []string{
			"id", "title", "slug", "excerpt", "content", "featured_image_url",
			"author", "status", "published_at", "created_at", "updated_at",
		}},
		{"site_settings", []string{
			"id", "site_name", "tagline", "description", "phone", "email",
			"facebook_url", "messenger_url", "address", "logo_url",
			"hero_title", "hero_subtitle", "about_title", "about_content",
			"created_at", "updated_at",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			tbl, ok := Lookup(tt.table)
			require.True(t, ok)

			cols, err := ExpectedColumns(tbl)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cols)

			// cached copy must not alias the caller's slice
			cols[0] = "mutated"
			again, err := ExpectedColumns(tbl)
			require.NoError(t, err)
			assert.Equal(t, "id", again[0])
		})
	}
}

func TestCompareColumns(t *testing.T) {
	diff := CompareColumns(
		[]string{"id", "name", "slug", "location"},
		[]string{"slug", "id", "title", "name", "price"},
	)
	assert.Equal(t, []string{"location"}, diff.Missing)
	assert.Equal(t, []string{"price", "title"}, diff.Extra)
	assert.False(t, diff.Match())

	same := CompareColumns([]string{"a", "b"}, []string{"b", "a", "a"})
	assert.True(t, same.Match())
	assert.Empty(t, same.Missing)
	assert.Empty(t, same.Extra)
}
