package github

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNotFound = errors.New("github: resource not found")

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github API %s %s error %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Unwrap lets errors.Is(err, ErrNotFound) match deleted or missing resources.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone {
		return ErrNotFound
	}
	return nil
}
