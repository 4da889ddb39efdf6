// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY ":memory:" BY DEFAULT?
// ──────────────────────────
// The default path keeps the store non-durable like the map backend: a
// restart starts from the four sample students again. Point storage.path
// at a file to keep records across restarts.
//
// The pool is pinned to a single connection. Every new connection to
// ":memory:" opens its own empty database, so a second pooled connection
// would see no students table at all. One connection also serialises
// writers, which is what SQLite does internally anyway.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this when the package is loaded.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/students-advice-api/internal/config"
	"github.com/aanand-mishra/students-advice-api/internal/storage"
	"github.com/aanand-mishra/students-advice-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB, which is a connection pool managed by database/sql
// and safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// selectColumns lists the columns explicitly, in the order scanStudent
// reads them. Adding a column means touching both places.
const selectColumns = "SELECT id, name, email, major, advice FROM students"

// ─────────────────────────────────────────────────────────────────────────────
// New opens the database at cfg.Path, creates the students table if it does
// not already exist, and returns a ready-to-use *SQLite.
//
// An empty path falls back to ":memory:".
//
// Schema:
//
//	id     integer primary key, never reused (AUTOINCREMENT)
//	name   student's full name, required
//	email  may be empty
//	major  may be empty; advice cannot be generated while it is
//	advice empty until POST /students/{id}/advice succeeds
//
// ─────────────────────────────────────────────────────────────────────────────
func New(cfg config.Storage) (*SQLite, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	// sql.Open only validates the driver name and DSN. The first real
	// connection is made by the Exec below.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Without AUTOINCREMENT SQLite may hand out the id of the most recently
	// deleted row again.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			name   TEXT NOT NULL,
			email  TEXT NOT NULL DEFAULT '',
			major  TEXT NOT NULL DEFAULT '',
			advice TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows, so single-row and
// multi-row reads share one Scan call.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (types.Student, error) {
	var student types.Student
	err := row.Scan(
		&student.ID,     // ← column 1: id
		&student.Name,   // ← column 2: name
		&student.Email,  // ← column 3: email
		&student.Major,  // ← column 4: major
		&student.Advice, // ← column 5: advice
	)
	return student, err
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateStudent inserts a new row and returns it with the id SQLite assigned.
//
// The values travel as ? placeholders, never concatenated into the SQL, so a
// name such as "'; DROP TABLE students; --" is stored as plain text.
//
// Any ID on the incoming student is ignored.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	result, err := s.Db.ExecContext(ctx,
		"INSERT INTO students (name, email, major, advice) VALUES (?, ?, ?, ?)",
		student.Name, student.Email, student.Major, student.Advice,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	// LastInsertId returns the auto-generated primary key of the new row.
	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	student.ID = lastID
	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudentByID fetches exactly one student row matched by primary key.
//
// A missing row is reported as storage.ErrNotFound so the handlers can map it
// to 404 without knowing which backend is in use.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	return getStudent(ctx, s.Db, id)
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getStudent(ctx context.Context, q queryer, id int64) (types.Student, error) {
	// QueryRow never returns nil. A missing row only surfaces as
	// sql.ErrNoRows when Scan is called.
	student, err := scanStudent(q.QueryRowContext(ctx, selectColumns+" WHERE id = ? LIMIT 1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}
	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudents returns all student rows in ascending id order.
//
// HOW Query + rows.Next() WORK:
// ──────────────────────────────
// Query returns *sql.Rows, a cursor over the result set. rows.Next advances
// it and returns false when the rows are exhausted or an error occurred;
// rows.Err tells the two apart. rows.Close releases the single connection,
// which every other call is waiting on, so it is always deferred.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	rows, err := s.Db.QueryContext(ctx, selectColumns+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty store encodes as [] rather than null.
	students := make([]types.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateStudentByID merges the non-nil fields of patch into the stored row.
//
// The read and the write-back share one transaction, so the returned record
// is exactly what is stored and a concurrent delete cannot slip in between.
// The id column is never written.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) UpdateStudentByID(ctx context.Context, id int64, patch types.StudentPatch) (types.Student, error) {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op returning sql.ErrTxDone.
	defer tx.Rollback()

	student, err := getStudent(ctx, tx, id)
	if err != nil {
		return types.Student{}, err
	}
	patch.Apply(&student)

	// Argument order matches the ? order: name, email, major, advice, id.
	_, err = tx.ExecContext(ctx,
		"UPDATE students SET name = ?, email = ?, major = ?, advice = ? WHERE id = ?",
		student.Name, student.Email, student.Major, student.Advice, id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: commit: %w", err)
	}
	return student, nil
}

// SetAdvice overwrites the advice column and leaves every other field alone.
func (s *SQLite) SetAdvice(ctx context.Context, id int64, advice string) (types.Student, error) {
	return s.UpdateStudentByID(ctx, id, types.StudentPatch{Advice: &advice})
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteStudentByID removes a student row by primary key.
//
// DELETE on a missing id is not an SQL error, so RowsAffected is what tells
// an unknown id apart from a successful delete.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) DeleteStudentByID(ctx context.Context, id int64) error {
	result, err := s.Db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Close closes the pool. With ":memory:" every record is gone afterwards.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
