// Package sqlite provides a SQLite-backed implementation of the
// storage.RegistrationStore interface using Go's standard database/sql
// package.
//
// The registrations table is append-only: this package only ever INSERTs
// and SELECTs. The AUTOINCREMENT id gives a stable append order.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/course-registration/internal/config"
	"github.com/aanand-mishra/course-registration/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.RegistrationStore.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.SQLitePath, creates the
// registrations table if it does not already exist, and returns a
// ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent, safe to run on every startup.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS registrations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			semester    TEXT    NOT NULL,
			course_code TEXT    NOT NULL,
			student_id  TEXT    NOT NULL,
			first_name  TEXT    NOT NULL,
			last_name   TEXT    NOT NULL,
			email       TEXT    NOT NULL,
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// AppendRegistration inserts one row. Values go through ? placeholders, so
// student-supplied text is never interpreted as SQL.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) AppendRegistration(ctx context.Context, rec types.RegistrationRecord) error {
	stmt, err := s.Db.PrepareContext(ctx,
		`INSERT INTO registrations
			(semester, course_code, student_id, first_name, last_name, email)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("AppendRegistration: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		rec.Semester,
		rec.CourseCode,
		rec.StudentID,
		rec.FirstName,
		rec.LastName,
		rec.Email,
	)
	if err != nil {
		return fmt.Errorf("AppendRegistration: exec: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ListRegistrations returns all rows ordered by insertion.
// Returns an empty slice (not nil) when nothing is stored.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) ListRegistrations(ctx context.Context) ([]types.RegistrationRecord, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		`SELECT semester, course_code, student_id, first_name, last_name, email
		 FROM registrations ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListRegistrations: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRegistrations: query: %w", err)
	}
	defer rows.Close()

	records := make([]types.RegistrationRecord, 0)

	for rows.Next() {
		var rec types.RegistrationRecord

		if err := rows.Scan(
			&rec.Semester,
			&rec.CourseCode,
			&rec.StudentID,
			&rec.FirstName,
			&rec.LastName,
			&rec.Email,
		); err != nil {
			return nil, fmt.Errorf("ListRegistrations: scan row: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRegistrations: rows iteration: %w", err)
	}

	return records, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
