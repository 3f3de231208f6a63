// Package structfile defines the contract between structure file formats and
// their callers: the fields a record carries, the sinks those fields are read
// into, the options a read runs under, and the list of formats a higher-level
// reader dispatches to.
//
// A format reads one record per call. Every field has its own sink argument;
// passing Discard for a field means "parse, validate, but do not keep". When
// the options select combined storage, one *StructuredSeq is passed as both
// the sequence and the structure sink.
package structfile

import (
	"fmt"
	"strings"
)

// Field identifies one logical component of a record.
type Field int

// Record fields. FieldSeq + FieldStructure and FieldStructuredSeq are
// interchangeable at the storage level.
const (
	FieldSeq Field = iota
	FieldID
	FieldBPP
	FieldStructure
	FieldEnergy
	FieldReact
	FieldReactErr
	FieldComment
	FieldOffset
	FieldStructuredSeq
)

var fieldNames = [...]string{
	FieldSeq:           "seq",
	FieldID:            "id",
	FieldBPP:           "bpp",
	FieldStructure:     "structure",
	FieldEnergy:        "energy",
	FieldReact:         "react",
	FieldReactErr:      "react_err",
	FieldComment:       "comment",
	FieldOffset:        "offset",
	FieldStructuredSeq: "structured_seq",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField returns the field with the given name.
func ParseField(name string) (Field, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", name)
}

// FieldSet is a set of fields.
type FieldSet uint16

// AllFields selects every field in separate storage.
const AllFields FieldSet = 1<<FieldSeq | 1<<FieldID | 1<<FieldBPP | 1<<FieldStructure |
	1<<FieldEnergy | 1<<FieldReact | 1<<FieldReactErr | 1<<FieldComment | 1<<FieldOffset

// NewFieldSet returns a set holding fields.
func NewFieldSet(fields ...Field) FieldSet {
	var s FieldSet
	for _, f := range fields {
		s = s.With(f)
	}
	return s
}

// ParseFieldSet parses a comma separated list of field names.
func ParseFieldSet(list string) (FieldSet, error) {
	var s FieldSet
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseField(part)
		if err != nil {
			return 0, err
		}
		s = s.With(f)
	}
	return s, nil
}

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool {
	return s&(1<<f) != 0
}

// With returns the set plus f.
func (s FieldSet) With(f Field) FieldSet {
	return s | 1<<f
}

// Without returns the set minus f.
func (s FieldSet) Without(f Field) FieldSet {
	return s &^ (1 << f)
}

// Fields lists the members in field order.
func (s FieldSet) Fields() []Field {
	var out []Field
	for f := FieldSeq; f <= FieldStructuredSeq; f++ {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s FieldSet) String() string {
	names := make([]string, 0, len(fieldNames))
	for _, f := range s.Fields() {
		names = append(names, f.String())
	}
	return strings.Join(names, ",")
}
