package export

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
)

// Supported SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultTable receives exported facilities when no table is named.
const DefaultTable = "facilities"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type facilityRow struct {
	RunID     string  `db:"run_id"`
	Row       int     `db:"row_num"`
	Name      string  `db:"name"`
	Patients  int     `db:"patients"`
	Rating    float64 `db:"rating"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}

// OpenDB opens a database handle for driver (sqlite or postgres) and checks connectivity.
func OpenDB(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported sql driver %q (want %s or %s)", driver, DriverSQLite, DriverPostgres)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

// WriteSQL creates table if needed and inserts every facility tagged with
// runID, in one transaction. It returns the number of rows written.
func WriteSQL(ctx context.Context, db *sqlx.DB, table, runID string, fs []facility.Facility) (int, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return 0, fmt.Errorf("invalid table name %q", table)
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id TEXT NOT NULL,
	row_num INTEGER NOT NULL,
	name TEXT NOT NULL,
	patients INTEGER NOT NULL,
	rating DOUBLE PRECISION NOT NULL,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL
)`, table)
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}
	stmt, err := tx.PreparexContext(ctx, tx.Rebind(fmt.Sprintf(
		"INSERT INTO %s (run_id, row_num, name, patients, rating, latitude, longitude) VALUES (?, ?, ?, ?, ?, ?, ?)", table)))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, f := range fs {
		if _, err := stmt.ExecContext(ctx, runID, f.Row, f.Name, f.Visits, f.Rating, f.Latitude, f.Longitude); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", f.Row, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(fs), nil
}

// ReadSQL loads the facilities exported under runID, in row order.
func ReadSQL(ctx context.Context, db *sqlx.DB, table, runID string) ([]facility.Facility, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	var rows []facilityRow
	q := db.Rebind(fmt.Sprintf("SELECT * FROM %s WHERE run_id = ? ORDER BY row_num", table))
	if err := db.SelectContext(ctx, &rows, q, runID); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	out := make([]facility.Facility, len(rows))
	for i, r := range rows {
		out[i] = facility.Facility{Row: r.Row, Name: r.Name, Visits: r.Patients, Rating: r.Rating, Latitude: r.Latitude, Longitude: r.Longitude}
	}
	return out, nil
}
