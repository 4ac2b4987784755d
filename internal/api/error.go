package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error is a non-2xx response from the backend. Message prefers the
// server-supplied "detail" field and falls back to the HTTP status text.
type Error struct {
	Status  int    // numeric HTTP status
	Message string // human-readable message
	Body    []byte // raw response body, for callers that want more
}

func (e *Error) Error() string {
	return e.Message
}

// newStatusError builds an Error from a response body.
func newStatusError(status int, body []byte, isJSON bool) *Error {
	msg := http.StatusText(status)
	if isJSON {
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
			msg = detail.Detail
		}
	}
	return &Error{Status: status, Message: msg, Body: body}
}

// IsStatus reports whether err is a backend Error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}
