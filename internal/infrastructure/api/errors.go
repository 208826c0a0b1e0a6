package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest indicates the request could not be built from its configuration
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRequestFailed indicates the HTTP round trip failed on every attempt
	ErrRequestFailed = errors.New("request failed")

	// ErrStatus matches any *StatusError
	ErrStatus = errors.New("unexpected response status")
)

const maxErrorBody = 512

// StatusError is returned when the API answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return fmt.Sprintf("API returned error status: %d, body: %s", e.StatusCode, body)
}

// Is lets errors.Is(err, ErrStatus) match status errors
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}
