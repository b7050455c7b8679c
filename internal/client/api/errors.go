package api

import (
	"errors"
	"fmt"
)

// FieldError is one granular error reported by the backend, optionally
// pointing at the request field or location that caused it.
type FieldError struct {
	Domain       string `json:"domain,omitempty"`
	Location     string `json:"location,omitempty"`
	LocationType string `json:"locationType,omitempty"`
	Message      string `json:"message"`
	Reason       string `json:"reason,omitempty"`
}

// APIError is a domain error reported by the backend inside the response
// envelope. Status is the HTTP status of the response that carried it.
type APIError struct {
	Status  int
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ProtocolError indicates a response that does not follow the backend wire
// contract: wrong content type, undecodable envelope, or malformed payload.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("protocol error: %s", e.Reason)
	}
	return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ErrorMessages flattens err into user-renderable lines. For an APIError the
// top-level message is included only when it differs from the first granular
// error, then each granular error is rendered as "location: message".
func ErrorMessages(err error) []string {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		var msgs []string
		if len(apiErr.Errors) == 0 || apiErr.Message != apiErr.Errors[0].Message {
			msgs = append(msgs, apiErr.Message)
		}
		for _, fe := range apiErr.Errors {
			if fe.Location != "" {
				msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Location, fe.Message))
			} else {
				msgs = append(msgs, fe.Message)
			}
		}
		return msgs
	}

	return []string{err.Error()}
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
