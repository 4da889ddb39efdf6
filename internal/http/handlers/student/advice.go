package student

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aanand-mishra/students-advice-api/internal/advisor"
	"github.com/aanand-mishra/students-advice-api/internal/storage"
	"github.com/aanand-mishra/students-advice-api/internal/types"
	"github.com/aanand-mishra/students-advice-api/internal/utils/response"
)

// GenerateAdvice handles POST /students/{id}/advice.
//
// The advisor is only called for an existing student with a non-empty
// major. If the call fails the record is left as it was and the client
// gets 502. On success the advice replaces any earlier value.
func GenerateAdvice(s storage.Storage, adv advisor.Advisor, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		student, err := s.GetStudentByID(ctx, id)
		if err != nil {
			storageError(c, log, id, err)
			return
		}

		if !hasMajor(student) {
			response.Error(c, http.StatusBadRequest, response.MsgMajorRequired)
			return
		}

		advice, err := adv.Advise(ctx, student.Major)
		if err != nil {
			log.Error("advice generation failed",
				zap.Int64("id", id),
				zap.String("major", student.Major),
				zap.Error(err))
			_ = c.Error(err)
			response.Error(c, http.StatusBadGateway, response.MsgUpstreamFailed)
			return
		}

		updated, err := s.SetAdvice(ctx, id, advice)
		if err != nil {
			storageError(c, log, id, err)
			return
		}

		log.Info("advice generated", zap.Int64("id", id))
		response.WriteJSON(c, http.StatusOK, types.AdviceResult{
			ID:     updated.ID,
			Major:  updated.Major,
			Advice: updated.Advice,
		})
	}
}

// GetAdvice handles GET /students/{id}/advice. It never calls the advisor.
func GetAdvice(s storage.Storage, log *zap.Logger) gin.HandlerFunc {
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

		if student.Advice == "" {
			response.Error(c, http.StatusNotFound, response.MsgAdviceNotFound)
			return
		}

		response.WriteJSON(c, http.StatusOK, types.AdviceView{
			ID:     student.ID,
			Advice: student.Advice,
		})
	}
}

// hasMajor reports whether a record carries a usable major. A major made
// only of whitespace, such as " ", counts as empty, so the advisor is never
// asked about it.
func hasMajor(s types.Student) bool {
	return strings.TrimSpace(s.Major) != ""
}
