package checks

import (
	"fmt"
	"strings"

	"georecon/core/database"
	"georecon/core/ingest"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FeedReport is the result of a feed schema check.
type FeedReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport describes one table of the feed.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error", "missing"
}

// columnTypes lists the accepted type fragments per feed column.
var columnTypes = map[string][]string{
	"id":           {"int"},
	"parent_id":    {"int"},
	"place_id":     {"int"},
	"population":   {"int", "decimal", "numeric"},
	"latitude":     {"double", "float", "real", "decimal", "numeric"},
	"longitude":    {"double", "float", "real", "decimal", "numeric"},
	"name":         {"char", "text"},
	"feature_code": {"char", "text"},
	"kind":         {"char", "text", "enum"},
}

// CheckFeed verifies that the feed tables carry the columns the ingester reads.
func CheckFeed(db *gorm.DB, cfg ingest.Config) (*FeedReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &FeedReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	tables := []struct {
		name    string
		columns []string
	}{
		{cfg.PlacesTable, ingest.PlaceColumns},
		{cfg.NamesTable, ingest.NameColumns},
	}
	for _, table := range tables {
		tblReport, err := checkTable(db, table.name, table.columns)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table.name, err))
			report.Matched = false
			continue
		}
		if tblReport.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table.name] = *tblReport
	}
	return report, nil
}

func checkTable(db *gorm.DB, table string, expected []string) (*TableReport, error) {
	columns, err := database.GetTableColumns(db, table)
	if err != nil {
		return nil, err
	}

	report := &TableReport{MissingColumns: []string{}, TypeMismatches: []string{}, Status: "ok"}
	// sqlite reports an absent table as a table without columns
	if len(columns) == 0 {
		report.MissingColumns = append(report.MissingColumns, expected...)
		report.Status = "missing"
		return report, nil
	}

	actual := make(map[string]database.ColumnInfo, len(columns))
	for _, col := range columns {
		actual[col.Field] = col
	}

	for _, name := range expected {
		col, ok := actual[name]
		if !ok {
			report.MissingColumns = append(report.MissingColumns, name)
			report.Status = "error"
			continue
		}
		if !typeMatches(col.Type, columnTypes[name]) {
			report.TypeMismatches = append(report.TypeMismatches,
				fmt.Sprintf("%s: expected one of %s, got %s", name, strings.Join(columnTypes[name], "/"), col.Type))
			report.Status = "error"
		}
	}
	return report, nil
}

func typeMatches(actual string, accepted []string) bool {
	if len(accepted) == 0 {
		return true
	}
	for _, frag := range accepted {
		if strings.Contains(actual, frag) {
			return true
		}
	}
	return false
}

// FixFeed creates missing feed tables and columns from the ingest models.
// Existing rows are kept.
func FixFeed(db *gorm.DB, cfg ingest.Config, logger *zap.Logger) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if err := ingest.Migrate(db, cfg); err != nil {
		logger.Error("Failed to migrate feed tables", zap.Error(err))
		return err
	}
	logger.Info("Feed tables ready", zap.String("places", cfg.PlacesTable), zap.String("names", cfg.NamesTable))
	return nil
}
