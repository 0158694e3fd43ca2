package llm

import (
	"errors"
	"fmt"
)

// UnavailableError means the provider could not serve the request at all:
// network failure, auth rejection, rate limiting, or server error. The
// router treats it as a signal to try the next provider.
type UnavailableError struct {
	Provider string
	Status   int // HTTP status when known, 0 otherwise
	Err      error
}

func (e *UnavailableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider %s unavailable (status %d): %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// MalformedError means the provider answered, but with a payload the
// adapter could not interpret. Falling back would mask a real defect, so
// the router propagates it instead.
type MalformedError struct {
	Provider string
	Detail   string
	Err      error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("provider %s returned malformed response: %s", e.Provider, e.Detail)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err is (or wraps) an UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// IsMalformed reports whether err is (or wraps) a MalformedError.
func IsMalformed(err error) bool {
	var me *MalformedError
	return errors.As(err, &me)
}
