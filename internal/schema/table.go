package schema

import (
	"fmt"
	"sync"

	GORMSchema "gorm.io/gorm/schema"
)

// Table is one table of the hosted backend together with the model that
// describes its expected shape.
type Table struct {
	Name        string
	Description string
	Model       interface{}
}

// Tables lists the backend tables in the order every report walks them.
var Tables = []Table{
	{Name: "properties", Description: "Property listings", Model: &Property{}},
	{Name: "property_photos", Description: "Property photos", Model: &PropertyPhoto{}},
	{Name: "calendar_events", Description: "Calendar events", Model: &CalendarEvent{}},
	{Name: "blog_posts", Description: "Blog posts", Model: &BlogPost{}},
	{Name: "site_settings", Description: "Site settings", Model: &SiteSettings{}},
}

// Buckets names the storage buckets the site uploads into.
var Buckets = []string{"property-photos", "blog-images"}

var (
	parseCache = &sync.Map{}
	columnsMu  sync.Mutex
	columns    = make(map[string][]string)
)

// Names returns the table names in registry order.
func Names() []string {
	names := make([]string, 0, len(Tables))
	for _, t := range Tables {
		names = append(names, t.Name)
	}
	return names
}

// Lookup finds a table by name.
func Lookup(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// ExpectedColumns returns the column names of the table's model in field order.
func ExpectedColumns(t Table) ([]string, error) {
	columnsMu.Lock()
	defer columnsMu.Unlock()

	if cols, ok := columns[t.Name]; ok {
		return append([]string(nil), cols...), nil
	}

	s, err := GORMSchema.Parse(t.Model, parseCache, GORMSchema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse model for %s: %w", t.Name, err)
	}
	if s.Table != t.Name {
		return nil, fmt.Errorf("model for %s maps to table %s", t.Name, s.Table)
	}

	cols := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		if field.DBName == "" {
			continue
		}
		cols = append(cols, field.DBName)
	}

	columns[t.Name] = cols
	return append([]string(nil), cols...), nil
}
