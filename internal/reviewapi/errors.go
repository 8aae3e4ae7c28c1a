package reviewapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRequest means the request never produced a response.
	ErrRequest = errors.New("review request failed")
	// ErrInvalidData means the response body is not a well-formed review array.
	ErrInvalidData = errors.New("invalid review data")
)

// StatusError is returned when the service answers with a 4xx/5xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("review service: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("review service: %d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

// Describe turns a fetch error into a short line for the UI.
func Describe(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		if se.Code == http.StatusNotFound {
			return "No reviews found for this app."
		}
		return "The review service rejected the request (" + http.StatusText(se.Code) + ")."
	case errors.Is(err, ErrInvalidData):
		return "The review service returned data that could not be read."
	case errors.Is(err, ErrRequest):
		return "Could not reach the review service."
	default:
		return err.Error()
	}
}
