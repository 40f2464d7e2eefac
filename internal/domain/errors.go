package domain

import (
	"errors"
	"fmt"
)

// ErrInputMissing reports that the input artifact does not exist yet.
var ErrInputMissing = errors.New("faultwatch: input missing")

var (
	errEmptyValue = errors.New("empty value")
	errNotFinite  = errors.New("value is not finite")

	// ErrFieldCount reports a row whose width differs from the header.
	ErrFieldCount = errors.New("wrong number of fields")
)

// LoadError wraps any failure to read or parse the input artifact.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MalformedRowError identifies a row whose required field is missing or not
// numeric, or whose width differs from the header (Field empty). Row is the
// zero-based data row index (header excluded).
type MalformedRowError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *MalformedRowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("row %d: missing field %q", e.Row, e.Field)
	}
	return fmt.Sprintf("row %d: field %q: invalid value %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

// WriteError wraps a failure to persist the annotated dataset.
type WriteError struct {
	Sink string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Sink, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
