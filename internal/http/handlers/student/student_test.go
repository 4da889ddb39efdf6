package student

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/aanand-mishra/students-advice-api/internal/advisor"
	"github.com/aanand-mishra/students-advice-api/internal/storage"
	"github.com/aanand-mishra/students-advice-api/internal/storage/memory"
	"github.com/aanand-mishra/students-advice-api/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── fakes ──

type fakeAdvisor struct {
	advice string
	err    error
	majors []string
}

func (f *fakeAdvisor) Advise(_ context.Context, major string) (string, error) {
	f.majors = append(f.majors, major)
	if f.err != nil {
		return "", f.err
	}
	return f.advice, nil
}

// brokenStore fails every read with a non-NotFound error.
type brokenStore struct {
	*memory.Memory
}

var errDisk = errors.New("disk on fire")

func (brokenStore) GetStudents(context.Context) ([]types.Student, error) { return nil, errDisk }

func (brokenStore) GetStudentByID(context.Context, int64) (types.Student, error) {
	return types.Student{}, errDisk
}

// ── helpers ──

func newEngine(s storage.Storage, adv advisor.Advisor, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.GET("/students", GetList(s, log))
	r.POST("/students", New(s, log))
	r.GET("/students/:id", GetByID(s, log))
	r.PUT("/students/:id", Update(s, log))
	r.DELETE("/students/:id", Delete(s, log))
	r.POST("/students/:id/advice", GenerateAdvice(s, adv, log))
	r.GET("/students/:id/advice", GetAdvice(s, log))
	return r
}

func seededStore(t *testing.T) *memory.Memory {
	t.Helper()
	s := memory.New()
	require.NoError(t, storage.Seed(context.Background(), s, storage.DefaultStudents))
	return s
}

func setup(t *testing.T) (*gin.Engine, *memory.Memory, *fakeAdvisor) {
	t.Helper()
	s := seededStore(t)
	adv := &fakeAdvisor{advice: "Take foundational stats courses early."}
	return newEngine(s, adv, zaptest.NewLogger(t)), s, adv
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&v))
	return v
}

// ── CRUD ──

func TestGetList(t *testing.T) {
	r, _, _ := setup(t)

	w := do(r, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[types.StudentList](t, w)
	assert.Equal(t, 4, list.Total)
	require.Len(t, list.Students, 4)
	for i, s := range list.Students {
		assert.Equal(t, int64(i+1), s.ID)
	}
}

func TestGetByIDReturnsStoredRecord(t *testing.T) {
	r, s, _ := setup(t)

	for id := int64(1); id <= 4; id++ {
		want, err := s.GetStudentByID(context.Background(), id)
		require.NoError(t, err)

		w := do(r, http.MethodGet, "/students/"+strconv.FormatInt(id, 10), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, decode[types.Student](t, w))
	}

	w := do(r, http.MethodGet, "/students/1", "")
	assert.JSONEq(t, `{"id":1,"name":"Alice Smith","email":"alice@berkeley.edu","major":"Data Science"}`, w.Body.String())
}

func TestGetByIDNotFound(t *testing.T) {
	r, _, _ := setup(t)

	for _, path := range []string{"/students/99", "/students/abc", "/students/-1"} {
		w := do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error":"Student not found"}`, w.Body.String(), path)
	}
}

func TestCreate(t *testing.T) {
	r, _, _ := setup(t)

	w := do(r, http.MethodPost, "/students", `{"name":"Eve Adams","email":"eve@berkeley.edu"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":5,"name":"Eve Adams","email":"eve@berkeley.edu","major":""}`, w.Body.String())
}

func TestCreateWithoutNameDoesNotConsumeID(t *testing.T) {
	r, _, _ := setup(t)

	for _, body := range []string{`{"email":"x@y.z"}`, `{"name":""}`, `{}`, `null`, ""} {
		w := do(r, http.MethodPost, "/students", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error":"Name is required"}`, w.Body.String(), body)
	}

	w := do(r, http.MethodPost, "/students", `{"name":"Eve"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(5), decode[types.Student](t, w).ID)
}

func TestCreateMalformedJSON(t *testing.T) {
	r, _, _ := setup(t)

	w := do(r, http.MethodPost, "/students", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON body"}`, w.Body.String())
}

func TestUpdateMergesFieldsAndKeepsID(t *testing.T) {
	r, s, _ := setup(t)

	w := do(r, http.MethodPut, "/students/4", `{"id":42,"major":"Economics"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":4,"name":"David Park","email":"david@berkeley.edu","major":"Economics"}`, w.Body.String())

	got, err := s.GetStudentByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Economics", got.Major)

	_, err = s.GetStudentByID(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateErrors(t *testing.T) {
	r, _, _ := setup(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		want   string
	}{
		{"unknown id", "/students/99", `{"name":"x"}`, http.StatusNotFound, `{"error":"Student not found"}`},
		{"unknown id without body", "/students/99", "", http.StatusNotFound, `{"error":"Student not found"}`},
		{"empty body", "/students/1", "", http.StatusBadRequest, `{"error":"No data provided"}`},
		{"empty object", "/students/1", `{}`, http.StatusBadRequest, `{"error":"No data provided"}`},
		{"null body", "/students/1", `null`, http.StatusBadRequest, `{"error":"No data provided"}`},
		{"array body", "/students/1", `[{"name":"x"}]`, http.StatusBadRequest, `{"error":"Invalid JSON body"}`},
		{"wrong field type", "/students/1", `{"name":7}`, http.StatusBadRequest, `{"error":"Invalid JSON body"}`},
		{"blank name", "/students/1", `{"name":""}`, http.StatusBadRequest, `{"error":"Name is required"}`},
		{"malformed", "/students/1", `{"name"`, http.StatusBadRequest, `{"error":"Invalid JSON body"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestUpdateWithoutSettableFieldsKeepsRecord(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"only id", `{"id":9}`},
		{"null major", `{"major":null}`},
		{"unknown key", `{"gpa":3.9}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, s, _ := setup(t)
			before, err := s.GetStudentByID(context.Background(), 1)
			require.NoError(t, err)

			w := do(r, http.MethodPut, "/students/1", tt.body)
			require.Equal(t, http.StatusOK, w.Code)

			got := decode[types.Student](t, w)
			assert.Equal(t, before, got)

			after, err := s.GetStudentByID(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestDeleteThenGet(t *testing.T) {
	r, _, _ := setup(t)

	w := do(r, http.MethodDelete, "/students/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Student deleted"}`, w.Body.String())

	w = do(r, http.MethodGet, "/students/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/students/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Student not found"}`, w.Body.String())
}

func TestStorageFailureIs500(t *testing.T) {
	s := brokenStore{Memory: memory.New()}
	r := newEngine(s, &fakeAdvisor{}, zaptest.NewLogger(t))

	w := do(r, http.MethodGet, "/students", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())

	w = do(r, http.MethodGet, "/students/1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
