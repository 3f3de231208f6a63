// Package validation provides the argument validators used by the command
// line and the input layer: ranges, value lists, file extensions, patterns
// and path checks. Every failure is an *errors.ValidationError.
package validation

import (
	"bytes"
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/FocuswithJustin/structfile/core/errors"
	"github.com/FocuswithJustin/structfile/core/formats/base"
)

// Limits on user-supplied paths.
const (
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Validator checks a value. Validate returns nil to accept it; Help
// describes the accepted values for usage messages.
type Validator[T any] interface {
	Validate(v T) error
	Help() string
}

// Range accepts values in [Min, Max].
type Range[T cmp.Ordered] struct {
	Field    string
	Min, Max T
}

// NewRange returns a Range validator for field.
func NewRange[T cmp.Ordered](field string, lo, hi T) Range[T] {
	return Range[T]{Field: field, Min: lo, Max: hi}
}

func (r Range[T]) Validate(v T) error {
	if v < r.Min || v > r.Max {
		return errors.NewValidation(r.Field, fmt.Sprintf("value %v is not in range [%v, %v]", v, r.Min, r.Max))
	}
	return nil
}

func (r Range[T]) Help() string {
	return fmt.Sprintf("Value must be in range [%v, %v].", r.Min, r.Max)
}

// ValueList accepts one of a fixed set of values.
type ValueList[T comparable] struct {
	Field  string
	Values []T
}

// NewValueList returns a ValueList validator for field.
func NewValueList[T comparable](field string, values ...T) ValueList[T] {
	return ValueList[T]{Field: field, Values: values}
}

func (l ValueList[T]) Validate(v T) error {
	if slices.Contains(l.Values, v) {
		return nil
	}
	return errors.NewValidation(l.Field, fmt.Sprintf("value %v is not one of %s", v, l.list()))
}

func (l ValueList[T]) Help() string {
	return "Value must be one of " + l.list() + "."
}

func (l ValueList[T]) list() string {
	parts := make([]string, len(l.Values))
	for i, v := range l.Values {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FileExtension accepts paths whose extension, after removing a .gz or .xz
// suffix, is one of Extensions. Case is ignored.
type FileExtension struct {
	Extensions []string
}

// NewFileExtension returns a FileExtension validator.
func NewFileExtension(exts ...string) FileExtension {
	return FileExtension{Extensions: exts}
}

func (f FileExtension) Validate(path string) error {
	if path == "-" || base.MatchExtension(path, f.Extensions) {
		return nil
	}
	return errors.NewValidation("path", fmt.Sprintf("%q has none of the extensions %s", path, strings.Join(f.Extensions, ", ")))
}

func (f FileExtension) Help() string {
	return "Valid file extensions: [" + strings.Join(f.Extensions, ", ") + "]."
}

// Regex accepts strings matching a pattern.
type Regex struct {
	Field string
	re    *regexp.Regexp
}

// NewRegex compiles pattern into a Regex validator.
func NewRegex(field, pattern string) (Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Regex{}, errors.NewValidation(field, fmt.Sprintf("invalid pattern %q: %v", pattern, err))
	}
	return Regex{Field: field, re: re}, nil
}

// MustRegex is like NewRegex but panics on an invalid pattern.
func MustRegex(field, pattern string) Regex {
	r, err := NewRegex(field, pattern)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Regex) Validate(s string) error {
	if r.re.MatchString(s) {
		return nil
	}
	return errors.NewValidation(r.Field, fmt.Sprintf("value %q does not match %s", s, r.re))
}

func (r Regex) Help() string {
	return "Value must match " + r.re.String() + "."
}

// Chain applies validators in order and returns the first failure.
type Chain[T any] []Validator[T]

func (c Chain[T]) Validate(v T) error {
	for _, val := range c {
		if err := val.Validate(v); err != nil {
			return err
		}
	}
	return nil
}

func (c Chain[T]) Help() string {
	parts := make([]string, len(c))
	for i, val := range c {
		parts[i] = val.Help()
	}
	return strings.Join(parts, " ")
}

// ValidatePath performs comprehensive path validation without requiring a base directory.
// It checks length limits and invalid characters.
func ValidatePath(path string) error {
	if path == "" {
		return errors.NewValidation("path", "path cannot be empty")
	}

	if len(path) > MaxPathLength {
		return errors.NewValidation("path", "path too long")
	}

	if strings.Contains(path, "\x00") {
		return errors.NewValidation("path", "null byte not allowed")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return errors.NewValidation("path", "control character not allowed")
		}
	}

	return nil
}

// Compression identifies a compressed stream.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionXZ   Compression = "xz"
)

// magicBytes defines magic byte signatures for compression detection.
var magicBytes = []struct {
	compression Compression
	magic       []byte
}{
	{CompressionGzip, []byte{0x1f, 0x8b}},
	{CompressionXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
}

// DetectCompression identifies the compression of a stream from its first
// bytes.
func DetectCompression(head []byte) Compression {
	for _, sig := range magicBytes {
		if bytes.HasPrefix(head, sig.magic) {
			return sig.compression
		}
	}
	return CompressionNone
}

// IsLikelyText checks if the buffer contains likely text content.
// Returns true if the buffer appears to be text (UTF-8, ASCII).
func IsLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}

	// Check for null bytes (strong indicator of binary content)
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 {
			control++
		}
		// UTF-8 continuation bytes (0x80-0xBF) and start bytes (0xC0-0xFD) are neutral
	}

	// If more than 95% is printable, consider it text
	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
