package datasource

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/veldhuizen/scopick/pkg/catalog"
)

// CreateCatalogSchema creates the two catalog tables.
func CreateCatalogSchema(db *sql.DB) error {
	categoriesSQL := `
		CREATE TABLE IF NOT EXISTS categories (
			product_id INTEGER,
			category_id INTEGER,
			name TEXT NOT NULL,
			parent TEXT,
			branch_select INTEGER NOT NULL DEFAULT 0,
			note TEXT,
			position INTEGER NOT NULL
		)
	`
	if _, err := db.Exec(categoriesSQL); err != nil {
		return fmt.Errorf("create categories table: %w", err)
	}

	geographiesSQL := `
		CREATE TABLE IF NOT EXISTS geographies (
			geo_id INTEGER,
			name TEXT NOT NULL,
			parent TEXT,
			branch_select INTEGER NOT NULL DEFAULT 0,
			note TEXT,
			position INTEGER NOT NULL
		)
	`
	if _, err := db.Exec(geographiesSQL); err != nil {
		return fmt.Errorf("create geographies table: %w", err)
	}

	return nil
}

// WriteCatalogSQLite writes records to a fresh SQLite catalog database,
// replacing any existing file. Position follows record order per kind.
func WriteCatalogSQLite(path string, records []catalog.Record) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := CreateCatalogSchema(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	catStmt, err := tx.Prepare(`
		INSERT INTO categories (product_id, category_id, name, parent, branch_select, note, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare categories insert: %w", err)
	}
	defer catStmt.Close()

	geoStmt, err := tx.Prepare(`
		INSERT INTO geographies (geo_id, name, parent, branch_select, note, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare geographies insert: %w", err)
	}
	defer geoStmt.Close()

	catPos, geoPos := 0, 0
	for _, rec := range records {
		switch rec.Kind {
		case catalog.KindCategory:
			catPos++
			_, err = catStmt.Exec(
				nullableInt(rec.ProductID), nullableInt(rec.CategoryID),
				rec.Name, nullableStr(rec.Parent), boolInt(rec.BranchSelect),
				nullableStr(rec.Note), catPos,
			)
		case catalog.KindGeography:
			geoPos++
			_, err = geoStmt.Exec(
				nullableInt(rec.GeoID),
				rec.Name, nullableStr(rec.Parent), boolInt(rec.BranchSelect),
				nullableStr(rec.Note), geoPos,
			)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("insert record %q: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
