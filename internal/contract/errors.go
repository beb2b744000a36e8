package contract

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable means the model server health check failed. The
// batch never starts when this is returned.
var ErrModelUnavailable = errors.New("model server unavailable")

// IOError wraps a filesystem failure for a specific path.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io failure for %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ConversionError wraps a rasterization failure for a specific document.
type ConversionError struct {
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failure for %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// InferenceError wraps a failed model invocation. The health check passed
// but this particular request did not complete.
type InferenceError struct {
	Filename string
	Err      error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failure for %s: %v", e.Filename, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
