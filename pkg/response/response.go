// Package response renders JSON API responses. Error bodies share one shape,
// {"error","code","message"}, across every package that answers clients.
package response

import (
	"encoding/json"
	"net/http"
)

// Response renders itself to w.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type jsonResponse struct {
	status int
	header http.Header
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	for k, vs := range j.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// Option configures a JSON response.
type Option func(*jsonResponse)

// WithStatus sets the HTTP status. The default is 200.
func WithStatus(status int) Option {
	return func(j *jsonResponse) { j.status = status }
}

// WithHeader adds a response header.
func WithHeader(key, value string) Option {
	return func(j *jsonResponse) {
		if j.header == nil {
			j.header = http.Header{}
		}
		j.header.Add(key, value)
	}
}

// JSON encodes v as the response body.
func JSON(v any, opts ...Option) Response {
	j := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Error renders body with status.
func Error(status int, body ErrorBody, opts ...Option) Response {
	return JSON(body, append([]Option{WithStatus(status)}, opts...)...)
}

// BadRequest is a 400 with code BAD_REQUEST.
func BadRequest(msg string) Response {
	return Error(http.StatusBadRequest, ErrorBody{Error: "Bad request", Code: "BAD_REQUEST", Message: msg})
}

// NotFound is a 404 with code NOT_FOUND.
func NotFound(msg string) Response {
	return Error(http.StatusNotFound, ErrorBody{Error: "Not found", Code: "NOT_FOUND", Message: msg})
}
