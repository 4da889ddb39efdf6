// Package storage defines the Storage interface that every record store
// backend satisfies.
//
// Handlers only depend on this interface, so the in-memory map, SQLite and
// Redis backends are interchangeable and tests can run against any of them.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/students-advice-api/internal/types"
)

// ErrNotFound is returned when no student exists for the requested id.
var ErrNotFound = errors.New("student not found")

// Storage is the record store contract.
//
// Ids are assigned by the backend, grow monotonically and are never reused,
// even after the record that held them is deleted.
type Storage interface {
	// CreateStudent stores a new record under the next free id and returns
	// it. Any id set on student is ignored.
	CreateStudent(ctx context.Context, student types.Student) (types.Student, error)

	// GetStudentByID returns ErrNotFound if the id is unknown.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// GetStudents returns every record in ascending id order. The slice is
	// empty, not nil, when there are no records.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudentByID merges patch into the stored record and returns the
	// result.
	UpdateStudentByID(ctx context.Context, id int64, patch types.StudentPatch) (types.Student, error)

	// SetAdvice overwrites the advice on the record.
	SetAdvice(ctx context.Context, id int64, advice string) (types.Student, error)

	// DeleteStudentByID removes the record permanently.
	DeleteStudentByID(ctx context.Context, id int64) error

	Close() error
}

// DefaultStudents is the data every fresh store is seeded with.
var DefaultStudents = []types.Student{
	{Name: "Alice Smith", Email: "alice@berkeley.edu", Major: "Data Science"},
	{Name: "Bob Jones", Email: "bob@berkeley.edu", Major: "Computer Science"},
	{Name: "Carol White", Email: "carol@berkeley.edu", Major: "Information Systems"},
	{Name: "David Park", Email: "david@berkeley.edu", Major: ""},
}

// Seed inserts students in order. On an empty store they receive ids 1..n.
func Seed(ctx context.Context, s Storage, students []types.Student) error {
	for _, student := range students {
		if _, err := s.CreateStudent(ctx, student); err != nil {
			return fmt.Errorf("storage.Seed: %s: %w", student.Name, err)
		}
	}
	return nil
}
