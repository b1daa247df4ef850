package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo describes one column of a live table.
type ColumnInfo struct {
	Field string
	Type  string
}

// GetTableColumns retrieves the column definitions for a given table.
// Names and types are lowercased.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo

	switch db.Dialector.Name() {
	case "sqlite":
		type sqliteColumn struct {
			Name string
			Type string
		}
		var cols []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&cols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, c := range cols {
			columns = append(columns, ColumnInfo{Field: c.Name, Type: c.Type})
		}
	case "postgres":
		err := db.Raw(`SELECT column_name AS field, data_type AS type FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ? ORDER BY ordinal_position`, tableName).
			Scan(&columns).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
	default:
		type mysqlColumn struct {
			Field string
			Type  string
		}
		var cols []mysqlColumn
		if err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&cols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, c := range cols {
			columns = append(columns, ColumnInfo{Field: c.Field, Type: c.Type})
		}
	}

	for i := range columns {
		columns[i].Field = strings.ToLower(columns[i].Field)
		columns[i].Type = strings.ToLower(columns[i].Type)
	}
	return columns, nil
}

// MissingColumns returns the columns of model that the live table lacks.
func MissingColumns(db *gorm.DB, model any) ([]string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}

	live, err := GetTableColumns(db, stmt.Schema.Table)
	if err != nil {
		return nil, err
	}
	have := make(map[string]struct{}, len(live))
	for _, c := range live {
		have[c.Field] = struct{}{}
	}

	var missing []string
	for _, f := range stmt.Schema.Fields {
		if f.DBName == "" {
			continue
		}
		if _, ok := have[strings.ToLower(f.DBName)]; !ok {
			missing = append(missing, f.DBName)
		}
	}
	return missing, nil
}
