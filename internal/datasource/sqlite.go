package datasource

import (
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/veldhuizen/scopick/pkg/catalog"
)

// SQLiteReader provides read access to a catalog SQLite database
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	// Open in read-only mode with a busy timeout so a live writer can't wedge us
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Read-performance pragmas, best effort
	pragmas := []string{
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		_, _ = db.Exec(pragma)
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadRecords reads all catalog records from the database, categories first.
// The two tables are independent, so they load concurrently.
func (r *SQLiteReader) LoadRecords() ([]catalog.Record, error) {
	var cats, geos []catalog.Record

	var g errgroup.Group
	g.Go(func() error {
		var err error
		cats, err = r.loadCategories()
		return err
	})
	g.Go(func() error {
		var err error
		geos, err = r.loadGeographies()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(cats, geos...), nil
}

// loadCategories reads the categories table in position order
func (r *SQLiteReader) loadCategories() ([]catalog.Record, error) {
	query := `
		SELECT product_id, category_id, name, parent, branch_select, note
		FROM categories
		ORDER BY position
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var records []catalog.Record
	for rows.Next() {
		var rec catalog.Record
		var productID, categoryID sql.NullInt64
		var parent, note sql.NullString
		var branchSelect sql.NullInt64

		err := rows.Scan(&productID, &categoryID, &rec.Name, &parent, &branchSelect, &note)
		if err != nil {
			continue
		}

		rec.Kind = catalog.KindCategory
		if productID.Valid {
			v := productID.Int64
			rec.ProductID = &v
		}
		if categoryID.Valid {
			v := categoryID.Int64
			rec.CategoryID = &v
		}
		if parent.Valid {
			rec.Parent = parent.String
		}
		rec.BranchSelect = branchSelect.Valid && branchSelect.Int64 != 0
		if note.Valid {
			rec.Note = note.String
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return records, nil
}

// loadGeographies reads the geographies table in position order
func (r *SQLiteReader) loadGeographies() ([]catalog.Record, error) {
	query := `
		SELECT geo_id, name, parent, branch_select, note
		FROM geographies
		ORDER BY position
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying geographies: %w", err)
	}
	defer rows.Close()

	var records []catalog.Record
	for rows.Next() {
		var rec catalog.Record
		var geoID sql.NullInt64
		var parent, note sql.NullString
		var branchSelect sql.NullInt64

		err := rows.Scan(&geoID, &rec.Name, &parent, &branchSelect, &note)
		if err != nil {
			continue
		}

		rec.Kind = catalog.KindGeography
		if geoID.Valid {
			v := geoID.Int64
			rec.GeoID = &v
		}
		if parent.Valid {
			rec.Parent = parent.String
		}
		rec.BranchSelect = branchSelect.Valid && branchSelect.Int64 != 0
		if note.Valid {
			rec.Note = note.String
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating geographies: %w", err)
	}

	return records, nil
}

// CountRecords returns the combined row count of both catalog tables
func (r *SQLiteReader) CountRecords() (int, error) {
	var cats, geos int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&cats); err != nil {
		return 0, err
	}
	if err := r.db.QueryRow("SELECT COUNT(*) FROM geographies").Scan(&geos); err != nil {
		return 0, err
	}
	return cats + geos, nil
}

// validateSQLiteSource opens the database and counts catalog rows
func validateSQLiteSource(path string) (int, error) {
	reader, err := NewSQLiteReader(DataSource{Type: SourceTypeSQLite, Path: path})
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	count, err := reader.CountRecords()
	if err != nil {
		return 0, fmt.Errorf("reading catalog tables: %w", err)
	}
	if count == 0 {
		return 0, fmt.Errorf("catalog is empty")
	}
	return count, nil
}
