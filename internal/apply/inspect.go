package apply

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"condo-setup/internal/report"
)

const (
	tablesQuery = `SELECT table_name FROM information_schema.tables
WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
ORDER BY table_name`
	indexesQuery = `SELECT indexname AS index_name, tablename AS table_name FROM pg_indexes
WHERE schemaname = 'public' AND indexname LIKE 'idx_%'
ORDER BY indexname`
	triggersQuery = `SELECT DISTINCT trigger_name, event_object_table FROM information_schema.triggers
WHERE trigger_schema = 'public'
ORDER BY event_object_table, trigger_name`
)

type PropertySummary struct {
	Name string
	Slug string
}

type Index struct {
	IndexName string
	TableName string
}

type Trigger struct {
	TriggerName      string
	EventObjectTable string
}

type settingsRow struct {
	SiteName string
	Tagline  string
}

// Inspection is what the database holds after the schema ran.
type Inspection struct {
	Tables        []string
	PropertyCount int64
	Properties    []PropertySummary
	SettingsCount int64
	SiteName      string
	Tagline       string
	Indexes       []Index
	Triggers      []Trigger
}

// Inspector reads the applied schema back from the Postgres catalogs.
type Inspector struct {
	db *gorm.DB
}

func NewInspector(db *gorm.DB) *Inspector {
	return &Inspector{db: db}
}

func (i *Inspector) Inspect(ctx context.Context) (*Inspection, error) {
	db := i.db.WithContext(ctx)
	in := &Inspection{}

	if err := db.Raw(tablesQuery).Scan(&in.Tables).Error; err != nil {
		return nil, fmt.Errorf("failed to list tables: %v", err)
	}

	if err := db.Raw("SELECT COUNT(*) FROM properties").Scan(&in.PropertyCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count properties: %v", err)
	}
	if err := db.Raw("SELECT name, slug FROM properties ORDER BY display_order").Scan(&in.Properties).Error; err != nil {
		return nil, fmt.Errorf("failed to read properties: %v", err)
	}

	if err := db.Raw("SELECT COUNT(*) FROM site_settings").Scan(&in.SettingsCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count site settings: %v", err)
	}
	if in.SettingsCount > 0 {
		var row settingsRow
		if err := db.Raw("SELECT site_name, tagline FROM site_settings LIMIT 1").Scan(&row).Error; err != nil {
			return nil, fmt.Errorf("failed to read site settings: %v", err)
		}
		in.SiteName, in.Tagline = row.SiteName, row.Tagline
	}

	if err := db.Raw(indexesQuery).Scan(&in.Indexes).Error; err != nil {
		return nil, fmt.Errorf("failed to list indexes: %v", err)
	}
	if err := db.Raw(triggersQuery).Scan(&in.Triggers).Error; err != nil {
		return nil, fmt.Errorf("failed to list triggers: %v", err)
	}
	return in, nil
}

// PrintInspection renders the closing summary of a schema run.
func PrintInspection(rep *report.Reporter, in *Inspection) {
	rep.Blank()
	rep.Line("Verifying table creation...")
	rep.Line("✓ Created %d tables:", len(in.Tables))
	for _, t := range in.Tables {
		rep.Item("%s", t)
	}

	rep.Blank()
	rep.Line("Verifying sample data...")
	rep.Line("✓ Properties table: %d records", in.PropertyCount)
	if len(in.Properties) > 0 {
		rep.Line("  Sample properties:")
		for _, p := range in.Properties {
			rep.Line("    - %s (%s)", p.Name, p.Slug)
		}
	}
	rep.Line("✓ Site settings table: %d records", in.SettingsCount)
	if in.SettingsCount > 0 {
		rep.Line("  Site name: %s", in.SiteName)
		rep.Line("  Tagline: %s", in.Tagline)
	}

	rep.Blank()
	rep.Line("Verifying indexes...")
	rep.Line("✓ Created %d custom indexes:", len(in.Indexes))
	for _, idx := range in.Indexes {
		rep.Item("%s on %s", idx.IndexName, idx.TableName)
	}

	rep.Blank()
	rep.Line("Verifying triggers...")
	rep.Line("✓ Created %d triggers:", len(in.Triggers))
	for _, t := range in.Triggers {
		rep.Item("%s on %s", t.TriggerName, t.EventObjectTable)
	}

	rep.Blank()
	rep.Line("%s", report.Ruler('=', 60))
	rep.Celebrate("DATABASE SETUP COMPLETED SUCCESSFULLY!")
	rep.Line("%s", report.Ruler('=', 60))
	rep.Line("✓ %d tables created", len(in.Tables))
	rep.Line("✓ %d custom indexes created", len(in.Indexes))
	rep.Line("✓ %d update triggers created", len(in.Triggers))
	rep.Line("✓ %d sample properties inserted", in.PropertyCount)
	rep.Line("✓ %d site settings record inserted", in.SettingsCount)
}
