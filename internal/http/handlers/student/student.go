// Package student contains the HTTP handlers for the student resource.
//
// Each exported function is a factory: it receives the dependencies once,
// at route registration, and returns the gin.HandlerFunc that runs on every
// request.
//
//	router.POST("/students", student.New(store, log))
package student

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aanand-mishra/students-advice-api/internal/storage"
	"github.com/aanand-mishra/students-advice-api/internal/types"
	"github.com/aanand-mishra/students-advice-api/internal/utils/response"
)

var validate = validator.New()

// parseID reads the {id} path segment. Anything that is not an integer
// cannot name a student, so it is answered with 404 like an unknown id.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, response.MsgStudentNotFound)
		return 0, false
	}
	return id, true
}

// storageError maps a storage failure onto the response.
func storageError(c *gin.Context, log *zap.Logger, id int64, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		response.Error(c, http.StatusNotFound, response.MsgStudentNotFound)
		return
	}
	log.Error("storage failure", zap.Int64("id", id), zap.Error(err))
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, response.MsgInternalError)
}

// New handles POST /students.
//
//	{ "name": "Eve Adams", "email": "eve@berkeley.edu", "major": "Statistics" }
//
// 201 with the created record, 400 when the name is missing.
func New(s storage.Storage, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.CreateStudentRequest

		err := json.NewDecoder(c.Request.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.Error(c, http.StatusBadRequest, response.MsgNameRequired)
			return
		}
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.MsgInvalidBody)
			return
		}

		if err := validate.Struct(req); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				response.WriteJSON(c, http.StatusBadRequest, response.ValidationError(verrs))
				return
			}
			response.WriteJSON(c, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		student, err := s.CreateStudent(c.Request.Context(), types.Student{
			Name:  req.Name,
			Email: req.Email,
			Major: req.Major,
		})
		if err != nil {
			storageError(c, log, 0, err)
			return
		}

		log.Info("student created", zap.Int64("id", student.ID))
		response.WriteJSON(c, http.StatusCreated, student)
	}
}

// GetByID handles GET /students/{id}.
func GetByID(s storage.Storage, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		student, err := s.GetStudentByID(c.Request.Context(), id)
		if err != nil {
			storageError(c, log, id, err)
			return
		}

		response.WriteJSON(c, http.StatusOK, student)
	}
}

// GetList handles GET /students.
func GetList(s storage.Storage, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		students, err := s.GetStudents(c.Request.Context())
		if err != nil {
			storageError(c, log, 0, err)
			return
		}

		response.WriteJSON(c, http.StatusOK, types.StudentList{
			Students: students,
			Total:    len(students),
		})
	}
}

// Update handles PUT /students/{id}. Only the fields present in the body
// are changed; the id cannot be.
//
// 404 for an unknown id is checked before the body is looked at. A missing
// or empty body ({} or null) is 400 "No data provided". Any other object is
// accepted, so a body such as {"id":9} or {"major":null} that names no
// settable field answers 200 with the record unchanged.
func Update(s storage.Storage, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		current, err := s.GetStudentByID(ctx, id)
		if err != nil {
			storageError(c, log, id, err)
			return
		}

		var raw json.RawMessage
		err = json.NewDecoder(c.Request.Body).Decode(&raw)
		if errors.Is(err, io.EOF) {
			response.Error(c, http.StatusBadRequest, response.MsgNoData)
			return
		}
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.MsgInvalidBody)
			return
		}

		// The key count decides "no data"; the typed request below only
		// sees the keys it knows.
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keys); err != nil {
			response.Error(c, http.StatusBadRequest, response.MsgInvalidBody)
			return
		}
		if len(keys) == 0 {
			response.Error(c, http.StatusBadRequest, response.MsgNoData)
			return
		}

		var req types.UpdateStudentRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			response.Error(c, http.StatusBadRequest, response.MsgInvalidBody)
			return
		}
		if req.Name != nil && *req.Name == "" {
			response.Error(c, http.StatusBadRequest, response.MsgNameRequired)
			return
		}
		if req.Empty() {
			response.WriteJSON(c, http.StatusOK, current)
			return
		}

		updated, err := s.UpdateStudentByID(ctx, id, req.Patch())
		if err != nil {
			storageError(c, log, id, err)
			return
		}

		log.Info("student updated", zap.Int64("id", id))
		response.WriteJSON(c, http.StatusOK, updated)
	}
}

// Delete handles DELETE /students/{id}.
func Delete(s storage.Storage, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := s.DeleteStudentByID(c.Request.Context(), id); err != nil {
			storageError(c, log, id, err)
			return
		}

		log.Info("student deleted", zap.Int64("id", id))
		response.WriteJSON(c, http.StatusOK, response.Message{Message: response.MsgStudentDeleted})
	}
}
