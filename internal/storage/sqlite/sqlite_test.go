package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-advice-api/internal/config"
	"github.com/aanand-mishra/students-advice-api/internal/storage"
	"github.com/aanand-mishra/students-advice-api/internal/storage/storagetest"
	"github.com/aanand-mishra/students-advice-api/internal/types"
)

func TestSQLiteInMemory(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		s, err := New(config.Storage{Path: ":memory:"})
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSQLiteFileKeepsRecordsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.db")
	ctx := context.Background()

	s, err := New(config.Storage{Path: path})
	require.NoError(t, err)
	created, err := s.CreateStudent(ctx, types.Student{Name: "Eve", Major: "Statistics"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := New(config.Storage{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetStudentByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestSQLiteEmptyPathDefaultsToMemory(t *testing.T) {
	s, err := New(config.Storage{})
	require.NoError(t, err)
	defer s.Close()

	all, err := s.GetStudents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
