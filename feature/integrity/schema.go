package integrity

import (
	"context"
	"fmt"
	"sync"

	"game-catalog/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// SchemaReport is the result of a schema check.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport lists what one table is missing.
type TableReport struct {
	Exists         bool     `json:"exists"`
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema compares the live schema with the columns models map to. The
// models are the source of truth.
func CheckSchema(ctx context.Context, db *gorm.DB, models []any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport, len(models)),
		Errors:  []string{},
	}
	cache := &sync.Map{}

	for _, model := range models {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}

		tbl := TableReport{MissingColumns: []string{}, Status: "ok"}

		columns, err := database.TableColumns(ctx, db, s.Table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("failed to inspect table %s: %v", s.Table, err))
			report.Matched = false
			tbl.Status = "error"
			report.Tables[s.Table] = tbl
			continue
		}

		actual := make(map[string]struct{}, len(columns))
		for _, col := range columns {
			actual[col.Name] = struct{}{}
		}
		tbl.Exists = len(columns) > 0

		for _, name := range s.DBNames {
			if _, ok := actual[name]; !ok {
				tbl.MissingColumns = append(tbl.MissingColumns, name)
			}
		}
		if !tbl.Exists || len(tbl.MissingColumns) > 0 {
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[s.Table] = tbl
	}

	return report, nil
}
