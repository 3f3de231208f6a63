// Package errors provides the typed errors returned by structure file readers
// and the tooling around them. Every type unwraps to one of the sentinels
// below, so callers branch with errors.Is and recover details with errors.As.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidInput: the input or an argument is malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOverflow: a numeric field does not fit its target type.
	ErrOverflow = errors.New("numeric overflow")
	// ErrShapeMismatch: the buffers passed to a read disagree with its options.
	ErrShapeMismatch = errors.New("buffer shape mismatch")
	// ErrUnexpectedEOF: the stream ended in the middle of a record.
	ErrUnexpectedEOF = errors.New("unexpected end of stream")
	// ErrUnsupported: no format handles the input, or the request is unsupported.
	ErrUnsupported = errors.New("unsupported")
	// ErrNotFound: a looked up resource does not exist.
	ErrNotFound = errors.New("not found")
)

// Read errors. Format is the name of the format that failed; Line counts the
// lines consumed by the current read, starting at 1, or 0 when unknown.

// ParseError reports a record that does not match its format's grammar.
type ParseError struct {
	Format  string
	Line    int
	Message string
	Err     error // cause, if any
}

// NewParse builds a ParseError.
func NewParse(format string, line int, message string) *ParseError {
	return &ParseError{Format: format, Line: line, Message: message}
}

// NewParsef builds a ParseError with a formatted message.
func NewParsef(format string, line int, msg string, args ...interface{}) *ParseError {
	return NewParse(format, line, fmt.Sprintf(msg, args...))
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s at line %d: %s", e.Format, e.Line, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrInvalidInput whatever the cause.
func (e *ParseError) Is(target error) bool { return target == ErrInvalidInput }

// OverflowError reports a numeric field whose text does not fit its type.
type OverflowError struct {
	Format string
	Field  string // e.g. "energy", "length"
	Value  string // offending text
	Err    error  // strconv error, if any
}

// NewOverflow builds an OverflowError.
func NewOverflow(format, field, value string, err error) *OverflowError {
	return &OverflowError{Format: format, Field: field, Value: value, Err: err}
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: value %q for %s is out of range", e.Format, e.Value, e.Field)
}

func (e *OverflowError) Unwrap() error { return e.Err }

// Is matches ErrOverflow whatever the cause.
func (e *OverflowError) Is(target error) bool { return target == ErrOverflow }

// ShapeError reports buffers whose layout disagrees with the read options.
type ShapeError struct {
	Format  string
	Message string
}

// NewShape builds a ShapeError.
func NewShape(format, message string) *ShapeError {
	return &ShapeError{Format: format, Message: message}
}

func (e *ShapeError) Error() string { return e.Format + ": " + e.Message }

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// UnexpectedEOFError reports a stream that ended inside a record.
type UnexpectedEOFError struct {
	Format string
	Field  string // field being read when the stream ended
	Line   int
}

// NewUnexpectedEOF builds an UnexpectedEOFError.
func NewUnexpectedEOF(format, field string, line int) *UnexpectedEOFError {
	return &UnexpectedEOFError{Format: format, Field: field, Line: line}
}

func (e *UnexpectedEOFError) Error() string {
	what := "unexpected end of stream"
	if e.Field != "" {
		what += " while reading " + e.Field
	}
	return fmt.Sprintf("%s: %s (line %d)", e.Format, what, e.Line)
}

func (e *UnexpectedEOFError) Unwrap() error { return ErrUnexpectedEOF }

// IOError reports a failed operation on the underlying stream or file.
type IOError struct {
	Operation string // e.g. "open", "read"
	Path      string
	Err       error
}

// NewIO builds an IOError.
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Tooling errors.

// UnsupportedError reports an input no format handles, or a request a
// format cannot serve.
type UnsupportedError struct {
	Feature string
	Reason  string
}

// NewUnsupported builds an UnsupportedError.
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{Feature: feature, Reason: reason}
}

func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return "unsupported " + e.Feature
	}
	return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// ValidationError reports an argument rejected by a validator.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidation builds a ValidationError.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NotFoundError reports a missing resource, such as an index entry.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFound builds a NotFoundError.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// New returns an error with the given message, for sentinels outside this
// package.
func New(message string) error { return errors.New(message) }

// Wrap prefixes err with message. It returns nil for a nil err.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is is errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }

// As is errors.As.
func As(err error, target interface{}) bool { return errors.As(err, target) }
