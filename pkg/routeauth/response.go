package routeauth

import (
	"net/http"

	"github.com/dmitrymomot/payrollguard/pkg/response"
)

// DefaultInternalErrorMessage is sent with every 500 response. Handler errors
// and panics are only logged.
const DefaultInternalErrorMessage = "An unexpected error occurred. Please try again later."

// ErrorBody is the JSON body of every error response written by this package.
type ErrorBody = response.ErrorBody

var (
	unauthorizedBody = ErrorBody{Error: "Unauthorized", Code: "UNAUTHORIZED"}
	forbiddenBody    = ErrorBody{Error: "Forbidden", Code: "FORBIDDEN"}
)

// WriteUnauthorized writes a 401 response.
func WriteUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, unauthorizedBody)
}

// WriteForbidden writes a 403 response.
func WriteForbidden(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, forbiddenBody)
}

// WriteInternalError writes a 500 response. msg must be safe to show to
// clients; an empty msg uses DefaultInternalErrorMessage.
func WriteInternalError(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = DefaultInternalErrorMessage
	}
	writeJSON(w, http.StatusInternalServerError, ErrorBody{Error: "Internal server error", Message: msg})
}

// WriteError writes an error body with the given status.
func WriteError(w http.ResponseWriter, status int, body ErrorBody) {
	writeJSON(w, status, body)
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	_ = response.JSON(v, response.WithStatus(status)).Render(w, nil)
}

// trackingWriter records whether the wrapped handler started a response.
type trackingWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (t *trackingWriter) WriteHeader(code int) {
	t.wroteHeader = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *trackingWriter) Write(b []byte) (int, error) {
	t.wroteHeader = true
	return t.ResponseWriter.Write(b)
}

func (t *trackingWriter) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}
