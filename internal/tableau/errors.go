package tableau

import (
	"errors"
	"fmt"

	"github.com/aaearon/tabrotate/internal/tableau/models"
)

// ErrMalformedAuthResponse is wrapped by ProtocolError when a sign-in
// response does not carry the credentials token.
var ErrMalformedAuthResponse = errors.New("malformed auth response")

// ErrInvalidSignIn is wrapped by sign-in errors raised before any request
// is sent, such as a server URL that normalizes to nothing.
var ErrInvalidSignIn = errors.New("invalid sign-in request")

// AuthenticationError is returned when sign-in or sign-out fails.
// StatusCode is zero when the request never got a response.
type AuthenticationError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// EnumerationError is returned when a data source or workbook listing fails.
type EnumerationError struct {
	Collection string
	StatusCode int
	Body       string
	Err        error
}

func (e *EnumerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %s", e.Collection, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s request failed: %v", e.Collection, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// ProtocolError is returned when a response body is missing expected fields
// or cannot be decoded.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// UpdateFailure describes one connection update that did not succeed.
type UpdateFailure struct {
	ParentType   models.ParentType
	ParentID     string
	ConnectionID string
	StatusCode   int
	Body         string
	Err          error
}

func (e *UpdateFailure) Error() string {
	target := fmt.Sprintf("%s %s connection %s", e.ParentType, e.ParentID, e.ConnectionID)
	if e.StatusCode != 0 {
		return fmt.Sprintf("update %s failed with status %d: %s", target, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("update %s failed: %v", target, e.Err)
}

func (e *UpdateFailure) Unwrap() error { return e.Err }
