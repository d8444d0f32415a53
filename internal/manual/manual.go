// Package manual prints the step-by-step instructions shown when a setup
// task cannot be completed automatically.
package manual

import (
	"fmt"
	"strings"

	"condo-setup/internal/report"
	"condo-setup/internal/supabase"
)

// Instructions describes where the project lives and which schema file
// should be run against it. The database password is never printed.
type Instructions struct {
	ProjectRef string
	SchemaPath string
	Host       string
	Port       int
	User       string
	Database   string
}

// DashboardURL returns the project's dashboard page.
func (in Instructions) DashboardURL() string {
	return supabase.DashboardURL(in.ProjectRef)
}

// PsqlCommand returns the psql invocation that applies the schema file.
func (in Instructions) PsqlCommand() string {
	port := in.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("psql -h %s -p %d -U %s -d %s -f %s",
		in.Host, port, orDefault(in.User, "postgres"), orDefault(in.Database, "postgres"), in.SchemaPath)
}

// PrintDashboardSteps prints the four SQL editor steps.
func (in Instructions) PrintDashboardSteps(rep *report.Reporter) {
	rep.Line("1. Go to: %s", in.DashboardURL())
	rep.Line("2. Navigate to 'SQL Editor' in the sidebar")
	rep.Line("3. Copy and paste the contents of %s", in.SchemaPath)
	rep.Line("4. Click 'Run' to execute")
}

// Print prints every manual option. The schema text is included only when
// schemaSQL is non-empty.
func (in Instructions) Print(rep *report.Reporter, schemaSQL string) {
	rep.Line("You'll need to execute the schema manually in one of these ways:")
	rep.Blank()
	rep.Line("OPTION 1 - Supabase Dashboard (Recommended):")
	in.PrintDashboardSteps(rep)
	rep.Blank()
	rep.Line("OPTION 2 - Local psql client:")
	rep.Line("If you have the PostgreSQL client installed locally, run:")
	rep.Line("%s", in.PsqlCommand())
	rep.Line("Use the database password from your project settings.")

	if strings.TrimSpace(schemaSQL) == "" {
		return
	}
	rep.Blank()
	rep.Line("OPTION 3 - Copy schema content:")
	rep.Line("Here's the schema content to copy:")
	rep.Line("%s", report.Ruler('-', 60))
	rep.Line("%s", strings.TrimRight(schemaSQL, "\n"))
	rep.Line("%s", report.Ruler('-', 60))
}

// PrintBucketSteps prints how to create buckets by hand.
func (in Instructions) PrintBucketSteps(rep *report.Reporter, buckets []string) {
	quoted := make([]string, 0, len(buckets))
	for _, b := range buckets {
		quoted = append(quoted, "'"+b+"'")
	}
	rep.Line("You may need to create buckets manually in the Supabase Dashboard:")
	rep.Line("1. Go to the Storage section of %s", in.DashboardURL())
	rep.Line("2. Create buckets: %s", strings.Join(quoted, " and "))
	rep.Line("3. Set each bucket to 'Public' access")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
