// Package apply runs the schema file against the database over a direct
// connection and reads back what it created.
package apply

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"condo-setup/internal/observability"
	"condo-setup/internal/report"
)

// ErrEmptySchema is returned when the schema text holds no statements.
var ErrEmptySchema = errors.New("schema contains no SQL statements")

type Options struct {
	DryRun bool
	Force  bool
}

// Result describes what Apply did.
type Result struct {
	Checksum   string
	Statements []string
	Executed   int
	DryRun     bool
	Skipped    bool
	// AppliedAt is the earlier application time when Skipped is set, and
	// the new one otherwise.
	AppliedAt time.Time
}

// StatementError reports the statement that aborted a run. Index is 1-based.
type StatementError struct {
	Index     int
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d (%s) failed: %v", e.Index, e.Statement, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

type Applier struct {
	db  *gorm.DB
	rep *report.Reporter
	now func() time.Time
}

func NewApplier(db *gorm.DB, rep *report.Reporter) *Applier {
	return &Applier{db: db, rep: rep, now: time.Now}
}

// Apply runs every statement of sql in a single transaction and records it
// in the ledger. A schema whose checksum is already recorded is skipped
// unless opts.Force is set. A dry run only lists the statements.
func (a *Applier) Apply(ctx context.Context, name, sql string, opts Options) (*Result, error) {
	stmts := SplitStatements(sql)
	if len(stmts) == 0 {
		return nil, ErrEmptySchema
	}

	res := &Result{Checksum: Checksum(sql), Statements: stmts, DryRun: opts.DryRun}
	db := a.db.WithContext(ctx)

	if !opts.DryRun {
		if err := db.AutoMigrate(&SchemaApplication{}); err != nil {
			return nil, fmt.Errorf("failed to create ledger table: %v", err)
		}
	}

	prev, err := a.lookup(db, res.Checksum)
	if err != nil {
		return nil, err
	}
	if prev != nil && !opts.Force {
		res.Skipped = true
		res.AppliedAt = prev.AppliedAt
		a.rep.Info("Schema %s (%s) was already applied at %s; use --force to run it again",
			name, prev.Version(), prev.AppliedAt.Format(time.RFC3339))
		return res, nil
	}

	if opts.DryRun {
		a.rep.Line("Dry run: %d SQL statements would be executed:", len(stmts))
		for i, stmt := range stmts {
			a.rep.Line("%3d. %s", i+1, firstLine(stmt))
		}
		return res, nil
	}

	a.rep.Line("Executing %d SQL statements...", len(stmts))
	appliedAt := a.now().UTC()
	err = db.Transaction(func(tx *gorm.DB) error {
		for i, stmt := range stmts {
			err := tx.Exec(stmt).Error
			observability.ObserveStatement(err)
			if err != nil {
				return &StatementError{Index: i + 1, Statement: firstLine(stmt), Err: err}
			}
			res.Executed++
			log.Debug().Int("index", i+1).Str("statement", firstLine(stmt)).Msg("statement executed")
		}
		record := SchemaApplication{
			Checksum:   res.Checksum,
			Name:       name,
			Statements: len(stmts),
			AppliedAt:  appliedAt,
		}
		return tx.Save(&record).Error
	})
	if err != nil {
		res.Executed = 0
		a.rep.Fail("Error executing schema: %v", err)
		return res, err
	}

	res.AppliedAt = appliedAt
	a.rep.Pass("Schema executed successfully!")
	return res, nil
}

func (a *Applier) lookup(db *gorm.DB, checksum string) (*SchemaApplication, error) {
	if !db.Migrator().HasTable(&SchemaApplication{}) {
		return nil, nil
	}
	var records []SchemaApplication
	if err := db.Where("checksum = ?", checksum).Limit(1).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read ledger: %v", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// History returns the ledger, newest first. A database that never had a
// schema applied has an empty history.
func (a *Applier) History(ctx context.Context) ([]SchemaApplication, error) {
	db := a.db.WithContext(ctx)
	if !db.Migrator().HasTable(&SchemaApplication{}) {
		return nil, nil
	}
	var records []SchemaApplication
	if err := db.Order("applied_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get schema history: %v", err)
	}
	return records, nil
}
