package checks

import (
	"fmt"

	"payment-sync/core/database"

	"gorm.io/gorm"
)

// Table statuses.
const (
	StatusOK      = "ok"
	StatusMissing = "missing"
	StatusError   = "error"
)

// SchemaReport strictly types the result of a schema check.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport is the state of one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "missing", "error"
}

// CheckSchema verifies the live tables using the GORM models as the source of
// truth. Inspection failures are reported per table.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport, len(models)),
		Errors:  []string{},
	}

	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(model) {
			report.Tables[table] = TableReport{MissingColumns: []string{}, Status: StatusMissing}
			report.Matched = false
			continue
		}

		missing, err := database.MissingColumns(db, model)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Tables[table] = TableReport{MissingColumns: []string{}, Status: StatusError}
			report.Matched = false
			continue
		}

		tbl := TableReport{MissingColumns: []string{}, Status: StatusOK}
		if len(missing) > 0 {
			tbl.MissingColumns = missing
			tbl.Status = StatusError
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}

// FixSchema creates missing tables and adds missing columns. Existing columns
// are never dropped.
func FixSchema(db *gorm.DB, models ...any) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
