package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"condo-setup/internal/report"
	"condo-setup/internal/schema"
	"condo-setup/internal/supabase"
)

var (
	// ErrEmptyTable means the table exists but has no row to read columns from.
	ErrEmptyTable = errors.New("table is empty")
	// ErrTableMissing means the table does not exist.
	ErrTableMissing = errors.New("table does not exist")
)

// ColumnSource reports the actual columns of a table.
type ColumnSource interface {
	Columns(ctx context.Context, table string) ([]string, error)
}

// RESTColumns reads columns from the keys of a table's first row, in the
// order the API returned them.
type RESTColumns struct {
	Reader RowReader
}

func (s RESTColumns) Columns(ctx context.Context, table string) ([]string, error) {
	var rows []json.RawMessage
	if err := s.Reader.Select(ctx, table, supabase.Query{Limit: 1}, &rows); err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTableMissing, message(err))
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	return objectKeys(rows[0])
}

// DBColumns reads columns from the database catalog, so empty tables can
// be checked too.
type DBColumns struct {
	DB *gorm.DB
}

func (s DBColumns) Columns(ctx context.Context, table string) ([]string, error) {
	m := s.DB.WithContext(ctx).Migrator()
	if !m.HasTable(table) {
		return nil, ErrTableMissing
	}
	types, err := m.ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	cols := make([]string, 0, len(types))
	for _, ct := range types {
		cols = append(cols, ct.Name())
	}
	return cols, nil
}

// ColumnResult is the outcome of checking one table.
type ColumnResult struct {
	Table   string
	Columns []string
	Diff    schema.ColumnDiff
	Empty   bool
	Err     error
}

// OK is true when the table could be read and no expected column is
// missing. Extra columns and empty tables do not fail a table.
func (r ColumnResult) OK() bool {
	return r.Err == nil && len(r.Diff.Missing) == 0
}

// CheckColumns compares every table's actual columns with its model.
func CheckColumns(ctx context.Context, src ColumnSource, rep *report.Reporter) ([]ColumnResult, error) {
	rep.Title("SCHEMA VERIFICATION")

	results := make([]ColumnResult, 0, len(schema.Tables))
	failed := false
	for _, t := range schema.Tables {
		res := checkTableColumns(ctx, src, t, rep)
		if !res.OK() {
			failed = true
		}
		results = append(results, res)
	}

	if failed {
		return results, ErrFailed
	}
	return results, nil
}

func checkTableColumns(ctx context.Context, src ColumnSource, t schema.Table, rep *report.Reporter) ColumnResult {
	res := ColumnResult{Table: t.Name}
	rep.Subsection(fmt.Sprintf("Checking %s table:", strings.ToUpper(t.Name)))

	expected, err := schema.ExpectedColumns(t)
	if err != nil {
		res.Err = err
		rep.Fail("Cannot load expected columns: %v", err)
		return res
	}

	actual, err := src.Columns(ctx, t.Name)
	switch {
	case errors.Is(err, ErrEmptyTable):
		res.Empty = true
		rep.Warn("Table exists but is empty - cannot verify full schema")
		return res
	case errors.Is(err, ErrTableMissing):
		res.Err = err
		rep.Fail("Table does not exist")
		return res
	case err != nil:
		res.Err = err
		rep.Fail("Table is not accessible: %s", describe(err))
		return res
	}

	res.Columns = actual
	res.Diff = schema.CompareColumns(expected, actual)
	rep.Pass("Table exists with %d columns", len(actual))
	if res.Diff.Match() {
		rep.Pass("All expected columns present and no extras")
	} else {
		if len(res.Diff.Missing) > 0 {
			rep.Fail("Missing columns: %s", formatList(res.Diff.Missing))
		}
		if len(res.Diff.Extra) > 0 {
			rep.Warn("Extra columns: %s", formatList(res.Diff.Extra))
		}
	}
	rep.Line("Actual columns: %s", formatList(actual))
	return res
}

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
