// Package storagetest is a behavioural suite every storage.Storage backend
// must pass.
package storagetest

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-advice-api/internal/storage"
	"github.com/aanand-mishra/students-advice-api/internal/types"
)

// Run executes the suite. newStore must return an empty store; it is
// called once per subtest.
func Run(t *testing.T, newStore func(t *testing.T) storage.Storage) {
	t.Run("SeedAssignsSequentialIDs", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, storage.Seed(ctx, s, storage.DefaultStudents))

		got, err := s.GetStudents(ctx)
		require.NoError(t, err)

		want := make([]types.Student, len(storage.DefaultStudents))
		for i, st := range storage.DefaultStudents {
			st.ID = int64(i + 1)
			want[i] = st
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("GetStudents mismatch (-want +got):\n%s", diff)
		}

		next, err := s.CreateStudent(ctx, types.Student{Name: "Eve Adams"})
		require.NoError(t, err)
		assert.Equal(t, int64(5), next.ID)
	})

	t.Run("EmptyListIsNotNil", func(t *testing.T) {
		s := newStore(t)
		got, err := s.GetStudents(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("CreateIgnoresGivenID", func(t *testing.T) {
		s := newStore(t)
		created, err := s.CreateStudent(context.Background(), types.Student{ID: 99, Name: "Eve"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
	})

	t.Run("GetReturnsStoredRecord", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created, err := s.CreateStudent(ctx, types.Student{Name: "Eve", Email: "eve@berkeley.edu", Major: "Statistics"})
		require.NoError(t, err)

		got, err := s.GetStudentByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("GetUnknownIsNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetStudentByID(context.Background(), 42)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateMergesAndKeepsID", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created, err := s.CreateStudent(ctx, types.Student{Name: "Eve", Email: "eve@berkeley.edu", Major: "Statistics"})
		require.NoError(t, err)

		major := "Data Science"
		updated, err := s.UpdateStudentByID(ctx, created.ID, types.StudentPatch{Major: &major})
		require.NoError(t, err)
		assert.Equal(t, types.Student{ID: created.ID, Name: "Eve", Email: "eve@berkeley.edu", Major: "Data Science"}, updated)

		got, err := s.GetStudentByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("UpdateUnknownIsNotFound", func(t *testing.T) {
		s := newStore(t)
		name := "x"
		_, err := s.UpdateStudentByID(context.Background(), 7, types.StudentPatch{Name: &name})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("SetAdviceOverwrites", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created, err := s.CreateStudent(ctx, types.Student{Name: "Eve", Major: "Statistics"})
		require.NoError(t, err)

		_, err = s.SetAdvice(ctx, created.ID, "first")
		require.NoError(t, err)
		updated, err := s.SetAdvice(ctx, created.ID, "second")
		require.NoError(t, err)
		assert.Equal(t, "second", updated.Advice)

		got, err := s.GetStudentByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "second", got.Advice)
		assert.Equal(t, "Statistics", got.Major)
	})

	t.Run("SetAdviceUnknownIsNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.SetAdvice(context.Background(), 3, "advice")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("DeleteRemovesAndNeverReusesID", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a, err := s.CreateStudent(ctx, types.Student{Name: "A"})
		require.NoError(t, err)
		b, err := s.CreateStudent(ctx, types.Student{Name: "B"})
		require.NoError(t, err)

		require.NoError(t, s.DeleteStudentByID(ctx, b.ID))
		_, err = s.GetStudentByID(ctx, b.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, s.DeleteStudentByID(ctx, b.ID), storage.ErrNotFound)

		c, err := s.CreateStudent(ctx, types.Student{Name: "C"})
		require.NoError(t, err)
		assert.Equal(t, b.ID+1, c.ID)

		all, err := s.GetStudents(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, a.ID, all[0].ID)
		assert.Equal(t, c.ID, all[1].ID)
	})
}
