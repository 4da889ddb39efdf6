// Package response provides helpers for writing consistent JSON responses.
//
// Every handler answers in JSON. Keeping the envelopes and the fixed
// client-facing messages here means a client always knows what an error
// looks like, and a typo in a message is caught by the compiler instead of
// reaching the wire.
//
// Success responses may have any shape. Error responses always look like:
//
//	{ "error": "Student not found" }
package response

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Fixed client-facing messages. Tests compare response bodies against these
// exact strings.
const (
	MsgStudentNotFound = "Student not found"
	MsgNameRequired    = "Name is required"
	MsgNoData          = "No data provided"
	MsgInvalidBody     = "Invalid JSON body"
	MsgMajorRequired   = "Student major is required to generate advice"
	MsgUpstreamFailed  = "Upstream AI service failed"
	MsgAdviceNotFound  = "Advice not found for this student"
	MsgStudentDeleted  = "Student deleted"
	MsgInternalError   = "Internal server error"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the envelope returned for every error case.
//
//	{ "error": "Name is required" }
//
// The json:"error" tag keeps the key lower-case. Without it Go would encode
// the field name as "Error".
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Error string `json:"error"` // human-readable error detail
}

// Message is the envelope for plain confirmations such as a delete.
//
//	{ "message": "Student deleted" }
type Message struct {
	Message string `json:"message"`
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes data as JSON with the given HTTP status code.
//
// Parameters:
//
//	c      the *gin.Context of the current request
//	status HTTP status code (e.g. http.StatusOK = 200)
//	data   any Go value; it is JSON-encoded into the body
//
// gin sets the Content-Type header and writes the status line before the
// body, so callers must not write anything to c after this returns.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// Error writes {"error": msg} with the given status code. msg is normally one
// of the Msg constants above.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Error: msg})
}

// ─────────────────────────────────────────────────────────────────────────────
// GeneralError wraps any Go error into the error envelope.
// Use it for errors whose text is safe to show the client, such as a
// validator failure that is not a ValidationErrors slice.
//
// Example usage:
//
//	response.WriteJSON(c, http.StatusBadRequest, response.GeneralError(err))
//
// ─────────────────────────────────────────────────────────────────────────────
func GeneralError(err error) Response {
	return Response{Error: err.Error()}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts validator field errors into one Response.
//
// go-playground/validator returns one FieldError per failing struct field.
// Each becomes a short English sentence and they are joined with ", " so the
// client sees a single error string.
//
// Example output for a create request without a name:
//
//	{ "error": "Name is required" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var msgs []string

	for _, e := range errs {
		switch e.ActualTag() {
		// "required" tag: field was missing or zero-valued
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		// any other tag (min, max, email...)
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}

	return Response{Error: strings.Join(msgs, ", ")}
}
