package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionExpired means the API rejected the session even after a token
	// refresh. The caller must log the user out.
	ErrSessionExpired = errors.New("session expired")
	// ErrUnavailable means no candidate endpoint produced a usable response.
	ErrUnavailable = errors.New("backend unavailable")
	ErrNoSession   = errors.New("no credentials")
)

const codeTokenExpired = "TOKEN_EXPIRED"

// APIError is a non-2xx (or success:false) response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend: %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("backend: %d: %s", e.Status, msg)
}

func (e *APIError) tokenExpired() bool {
	return e.Status == http.StatusUnauthorized && e.Code == codeTokenExpired
}

// Message returns the text to show a user for err: the API's own message when
// there is one, otherwise err's text.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
