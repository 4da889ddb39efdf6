// Package memory is the default storage backend: a map guarded by a mutex.
// Nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aanand-mishra/students-advice-api/internal/storage"
	"github.com/aanand-mishra/students-advice-api/internal/types"
)

// Memory implements storage.Storage.
type Memory struct {
	mu       sync.RWMutex
	students map[int64]types.Student
	nextID   int64
}

// New returns an empty store whose first id is 1.
func New() *Memory {
	return &Memory{
		students: make(map[int64]types.Student),
		nextID:   1,
	}
}

func (m *Memory) CreateStudent(_ context.Context, student types.Student) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student.ID = m.nextID
	m.students[student.ID] = student
	m.nextID++

	return student, nil
}

func (m *Memory) GetStudentByID(_ context.Context, id int64) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	student, ok := m.students[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}
	return student, nil
}

func (m *Memory) GetStudents(_ context.Context) ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	students := make([]types.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })

	return students, nil
}

func (m *Memory) UpdateStudentByID(_ context.Context, id int64, patch types.StudentPatch) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student, ok := m.students[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}
	patch.Apply(&student)
	m.students[id] = student

	return student, nil
}

func (m *Memory) SetAdvice(_ context.Context, id int64, advice string) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student, ok := m.students[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}
	student.Advice = advice
	m.students[id] = student

	return student, nil
}

func (m *Memory) DeleteStudentByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.students, id)
	return nil
}

func (m *Memory) Close() error { return nil }
