package tools

import (
	"errors"
	"fmt"
)

// UnknownToolError means the model asked for a tool that is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// InvalidArgumentsError means the arguments failed basic validation against
// the tool's schema.
type InvalidArgumentsError struct {
	Tool   string
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
}

// IsUnknownTool reports whether err is (or wraps) an UnknownToolError.
func IsUnknownTool(err error) bool {
	var ue *UnknownToolError
	return errors.As(err, &ue)
}

// IsInvalidArguments reports whether err is (or wraps) an
// InvalidArgumentsError.
func IsInvalidArguments(err error) bool {
	var ie *InvalidArgumentsError
	return errors.As(err, &ie)
}
