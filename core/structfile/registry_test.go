package structfile

import (
	"bufio"
	"reflect"
	"testing"
)

type namedFormat struct {
	name string
	exts []string
}

func (f namedFormat) Name() string         { return f.name }
func (f namedFormat) Extensions() []string { return f.exts }
func (f namedFormat) Read(*bufio.Reader, Options, SeqSink, TextSink, BPPSink, StructureSink,
	FloatSink, FloatSink, FloatSink, TextSink, OffsetSink) error {
	return nil
}

func TestFormatList(t *testing.T) {
	a := namedFormat{"alpha", []string{"a", ".Shared"}}
	b := namedFormat{"beta", []string{"b", "shared"}}
	l := NewFormatList(a, b)

	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	if got := l.Names(); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Errorf("Names() = %v", got)
	}
	if got := l.Extensions(); !reflect.DeepEqual(got, []string{"a", "b", "shared"}) {
		t.Errorf("Extensions() = %v", got)
	}
	if f, ok := l.Lookup("BETA"); !ok || f.Name() != "beta" {
		t.Errorf("Lookup(BETA) = %v, %v", f, ok)
	}
	if _, ok := l.Lookup("gamma"); ok {
		t.Error("Lookup(gamma) found a format")
	}

	tests := []struct {
		path string
		want []string
	}{
		{"x.a", []string{"alpha"}},
		{"dir/x.B", []string{"beta"}},
		{"x.shared.gz", []string{"alpha", "beta"}},
		{"x.b.XZ", []string{"beta"}},
		{"x.c", nil},
		{"noext", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, f := range l.ForPath(tt.path) {
			got = append(got, f.Name())
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ForPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPathExtension(t *testing.T) {
	tests := map[string]string{
		"x.dbn":       "dbn",
		"x.DBN.gz":    "dbn",
		"a.b/x.ct.xz": "ct",
		"x.gz":        "",
		"-":           "",
	}
	for path, want := range tests {
		if got := PathExtension(path); got != want {
			t.Errorf("PathExtension(%q) = %q, want %q", path, got, want)
		}
	}
}
