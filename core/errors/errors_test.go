package errors

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "record", ID: "abc123"},
			wantMsg:  "record not found: abc123",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "format"},
			wantMsg:  "format not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, tt.wantBase) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.wantBase)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ParseError
		wantMsg string
	}{
		{
			name:    "with line",
			err:     NewParse("vienna", 3, "unbalanced bracket"),
			wantMsg: "failed to parse vienna at line 3: unbalanced bracket",
		},
		{
			name:    "without line",
			err:     NewParse("ct", 0, "missing header"),
			wantMsg: "failed to parse ct: missing header",
		},
		{
			name:    "formatted",
			err:     NewParsef("bpseq", 7, "index %d out of order", 4),
			wantMsg: "failed to parse bpseq at line 7: index 4 out of order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Errorf("ParseError does not unwrap to ErrInvalidInput")
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		base := fmt.Errorf("lexer failure")
		err := &ParseError{Format: "ct", Message: "bad header", Err: base}
		if !errors.Is(err, base) {
			t.Errorf("ParseError does not unwrap to underlying error")
		}
	})
}

func TestOverflowError(t *testing.T) {
	_, numErr := strconv.ParseUint("99999999999999999999999", 10, 64)
	err := NewOverflow("ct", "offset", "99999999999999999999999", numErr)

	if !errors.Is(err, ErrOverflow) {
		t.Errorf("OverflowError does not match ErrOverflow")
	}
	if !errors.Is(err, strconv.ErrRange) {
		t.Errorf("OverflowError does not unwrap to strconv.ErrRange")
	}
	want := `ct: value "99999999999999999999999" for offset is out of range`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Errorf("OverflowError must not match ErrInvalidInput")
	}
}

func TestShapeError(t *testing.T) {
	err := NewShape("vienna", "combined options need a structured sequence buffer")
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("ShapeError does not unwrap to ErrShapeMismatch")
	}
	want := "vienna: combined options need a structured sequence buffer"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnexpectedEOFError(t *testing.T) {
	tests := []struct {
		err     *UnexpectedEOFError
		wantMsg string
	}{
		{NewUnexpectedEOF("vienna", "structure", 3), "vienna: unexpected end of stream while reading structure (line 3)"},
		{NewUnexpectedEOF("ct", "", 1), "ct: unexpected end of stream (line 1)"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.wantMsg {
			t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
		}
		if !errors.Is(tt.err, ErrUnexpectedEOF) {
			t.Errorf("UnexpectedEOFError does not unwrap to ErrUnexpectedEOF")
		}
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidation("alphabet", "must be one of rna4, rna5")
	if got := err.Error(); got != "validation failed for alphabet: must be one of rna4, rna5" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ValidationError does not unwrap to ErrInvalidInput")
	}

	anon := &ValidationError{Message: "empty"}
	if got := anon.Error(); got != "validation failed: empty" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIOError(t *testing.T) {
	base := fmt.Errorf("permission denied")
	err := NewIO("open", "/tmp/x.dbn", base)
	if got := err.Error(); got != "failed to open /tmp/x.dbn: permission denied" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, base) {
		t.Errorf("IOError does not unwrap to base error")
	}

	noPath := NewIO("read", "", base)
	if got := noPath.Error(); got != "failed to read: permission denied" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUnsupportedError(t *testing.T) {
	err := NewUnsupported("extension", ".foo")
	if got := err.Error(); got != "unsupported extension: .foo" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("UnsupportedError does not unwrap to ErrUnsupported")
	}
	bare := &UnsupportedError{Feature: "read"}
	if got := bare.Error(); got != "unsupported read" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrap(t *testing.T) {
	t.Run("wraps error", func(t *testing.T) {
		baseErr := fmt.Errorf("base error")
		wrapped := Wrap(baseErr, "context message")
		if wrapped == nil {
			t.Fatal("Wrap() returned nil")
		}
		if !errors.Is(wrapped, baseErr) {
			t.Errorf("Wrap() error does not unwrap to base error")
		}
		wantMsg := "context message: base error"
		if wrapped.Error() != wantMsg {
			t.Errorf("Wrap() = %q, want %q", wrapped.Error(), wantMsg)
		}
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		if got := Wrap(nil, "context"); got != nil {
			t.Errorf("Wrap(nil) = %v, want nil", got)
		}
	})
}

func TestWrapf(t *testing.T) {
	baseErr := fmt.Errorf("base error")
	wrapped := Wrapf(baseErr, "failed to read record %d", 4)
	if !errors.Is(wrapped, baseErr) {
		t.Errorf("Wrapf() error does not unwrap to base error")
	}
	if wrapped.Error() != "failed to read record 4: base error" {
		t.Errorf("Wrapf() = %q", wrapped.Error())
	}
	if got := Wrapf(nil, "context %s", "test"); got != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", got)
	}
}

func TestIsAs(t *testing.T) {
	err := Wrap(NewShape("ct", "mismatch"), "read")
	if !Is(err, ErrShapeMismatch) {
		t.Errorf("Is() = false, want true")
	}
	var shape *ShapeError
	if !As(err, &shape) {
		t.Fatalf("As() = false, want true")
	}
	if shape.Format != "ct" {
		t.Errorf("Format = %q, want ct", shape.Format)
	}
}

func TestNew(t *testing.T) {
	a, b := New("limit"), New("limit")
	if a.Error() != "limit" {
		t.Errorf("New() = %q, want limit", a.Error())
	}
	if Is(a, b) {
		t.Errorf("distinct New() errors compare equal")
	}
}
