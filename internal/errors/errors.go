package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a sketchcad error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrOutOfRange       ErrorCode = "OUT_OF_RANGE"      // 400
	ErrFileNotFound     ErrorCode = "FILE_NOT_FOUND"    // 404
	ErrNothingToUndo    ErrorCode = "NOTHING_TO_UNDO"   // 409
	ErrNothingToRedo    ErrorCode = "NOTHING_TO_REDO"   // 409
	ErrNoShape          ErrorCode = "NO_SHAPE"          // 412
	ErrCapacityExceeded ErrorCode = "CAPACITY_EXCEEDED" // 413
	ErrFormat           ErrorCode = "FORMAT_ERROR"      // 422
	ErrIO               ErrorCode = "IO_ERROR"          // 500
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// CadError represents a structured error with code, status, and details.
type CadError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *CadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for malformed arguments.
func NewInvalidRequest(msg string) *CadError {
	return &CadError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewOutOfRange creates a 400 error for a value outside its documented bounds.
func NewOutOfRange(field string, value any, bounds string) *CadError {
	return &CadError{
		Code:    ErrOutOfRange,
		Status:  400,
		Message: fmt.Sprintf("%s must be %s (got %v)", field, bounds, value),
		Details: map[string]any{"field": field, "value": value, "bounds": bounds},
	}
}

// NewFileNotFound creates a 404 error for a missing input file.
func NewFileNotFound(path string) *CadError {
	return &CadError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNothingToUndo creates a 409 error when the undo stack is empty.
func NewNothingToUndo() *CadError {
	return &CadError{
		Code:    ErrNothingToUndo,
		Status:  409,
		Message: "nothing to undo",
	}
}

// NewNothingToRedo creates a 409 error when the redo stack is empty.
func NewNothingToRedo() *CadError {
	return &CadError{
		Code:    ErrNothingToRedo,
		Status:  409,
		Message: "nothing to redo",
	}
}

// NewNoShape creates a 412 error when a mesh is requested before any shape exists.
func NewNoShape() *CadError {
	return &CadError{
		Code:    ErrNoShape,
		Status:  412,
		Message: "no shape created yet; create a cube or sphere first",
	}
}

// NewCapacityExceeded creates a 413 error when the sketch cannot hold more entities.
func NewCapacityExceeded(capacity, requested int) *CadError {
	return &CadError{
		Code:    ErrCapacityExceeded,
		Status:  413,
		Message: fmt.Sprintf("sketch is full: %d entities requested (max %d)", requested, capacity),
		Details: map[string]any{"capacity": capacity, "requested": requested},
	}
}

// NewFormat creates a 422 error for a structurally malformed input file.
// line is 1-based.
func NewFormat(line int, msg string) *CadError {
	return &CadError{
		Code:    ErrFormat,
		Status:  422,
		Message: fmt.Sprintf("line %d: %s", line, msg),
		Details: map[string]any{"line": line},
	}
}

// NewIO creates a 500 error for a failed file operation.
func NewIO(op, path string, err error) *CadError {
	msg := fmt.Sprintf("%s %s failed", op, path)
	if err != nil {
		msg = fmt.Sprintf("%s %s: %v", op, path, err)
	}
	return &CadError{
		Code:    ErrIO,
		Status:  500,
		Message: msg,
		Details: map[string]any{"op": op, "path": path},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *CadError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &CadError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error (or anything it wraps) is a CadError with the given code.
func Is(err error, code ErrorCode) bool {
	var cErr *CadError
	if stderrors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}
