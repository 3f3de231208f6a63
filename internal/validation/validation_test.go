package validation

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/structfile/core/errors"
)

func isValidationError(err error) bool {
	var verr *errors.ValidationError
	return errors.As(err, &verr)
}

func TestRange(t *testing.T) {
	r := NewRange("jobs", 1, 64)
	tests := []struct {
		value   int
		wantErr bool
	}{
		{1, false},
		{64, false},
		{32, false},
		{0, true},
		{65, true},
		{-3, true},
	}
	for _, tt := range tests {
		err := r.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if err != nil && !isValidationError(err) {
			t.Errorf("Validate(%d) error %T is not a ValidationError", tt.value, err)
		}
	}
	if got := r.Help(); got != "Value must be in range [1, 64]." {
		t.Errorf("Help() = %q", got)
	}

	f := NewRange("prob", 0.0, 1.0)
	if err := f.Validate(0.5); err != nil {
		t.Errorf("Validate(0.5) = %v", err)
	}
	if err := f.Validate(1.5); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Validate(1.5) = %v, want ErrInvalidInput", err)
	}
}

func TestValueList(t *testing.T) {
	l := NewValueList("output", "json", "vienna", "tsv")
	for _, v := range []string{"json", "vienna", "tsv"} {
		if err := l.Validate(v); err != nil {
			t.Errorf("Validate(%q) = %v", v, err)
		}
	}
	err := l.Validate("yaml")
	if !isValidationError(err) {
		t.Fatalf("Validate(yaml) = %v, want ValidationError", err)
	}
	if !strings.Contains(err.Error(), "[json, vienna, tsv]") {
		t.Errorf("error %q does not list the values", err)
	}
	if got := l.Help(); got != "Value must be one of [json, vienna, tsv]." {
		t.Errorf("Help() = %q", got)
	}
}

func TestFileExtension(t *testing.T) {
	v := NewFileExtension("dbn", "ct")
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"a.dbn", false},
		{"dir/A.CT", false},
		{"a.dbn.gz", false},
		{"a.ct.xz", false},
		{"-", false},
		{"a.bpseq", true},
		{"a.gz", true},
		{"noext", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := v.Validate(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
	if got := v.Help(); got != "Valid file extensions: [dbn, ct]." {
		t.Errorf("Help() = %q", got)
	}
}

func TestRegex(t *testing.T) {
	r := MustRegex("id", `^[A-Za-z0-9_.-]+$`)
	if err := r.Validate("tRNA-Phe_1"); err != nil {
		t.Errorf("Validate = %v", err)
	}
	if err := r.Validate("bad id"); !isValidationError(err) {
		t.Errorf("Validate(bad id) = %v, want ValidationError", err)
	}
	if _, err := NewRegex("id", "("); !isValidationError(err) {
		t.Errorf("NewRegex(\"(\") = %v, want ValidationError", err)
	}
}

func TestChain(t *testing.T) {
	c := Chain[int]{NewRange("n", 0, 100), NewValueList("n", 10, 20, 200)}
	if err := c.Validate(10); err != nil {
		t.Errorf("Validate(10) = %v", err)
	}
	if err := c.Validate(200); err == nil {
		t.Errorf("Validate(200) passed the range check")
	}
	if err := c.Validate(50); err == nil {
		t.Errorf("Validate(50) passed the value list")
	}
	if got := c.Help(); got != "Value must be in range [0, 100]. Value must be one of [10, 20, 200]." {
		t.Errorf("Help() = %q", got)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple", "rna.dbn", false},
		{"nested", "data/set1/rna.ct", false},
		{"empty", "", true},
		{"null byte", "a\x00b", true},
		{"control", "a\nb", true},
		{"too long", strings.Repeat("a", MaxPathLength+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !isValidationError(err) {
				t.Errorf("error %T is not a ValidationError", err)
			}
		})
	}
}

func TestDetectCompression(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want Compression
	}{
		{"gzip", []byte{0x1f, 0x8b, 0x08, 0x00}, CompressionGzip},
		{"xz", []byte{0xfd, '7', 'z', 'X', 'Z', 0x00, 0x00}, CompressionXZ},
		{"text", []byte(">id\nACGU\n"), CompressionNone},
		{"short", []byte{0x1f}, CompressionNone},
		{"empty", nil, CompressionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCompression(tt.head); got != tt.want {
				t.Errorf("DetectCompression() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsLikelyText(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want bool
	}{
		{"vienna", []byte(">id\nACGU\n(..)\n"), true},
		{"empty", nil, false},
		{"null byte", []byte("AC\x00GU"), false},
		{"binary", []byte{0x01, 0x02, 0x03, 0x04, 'a'}, false},
		{"utf8", []byte("name: ribozyme \xc3\xa9\n"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLikelyText(tt.buf); got != tt.want {
				t.Errorf("IsLikelyText() = %v, want %v", got, tt.want)
			}
		})
	}
}
