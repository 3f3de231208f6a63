package base

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/FocuswithJustin/structfile/core/alphabet"
	"github.com/FocuswithJustin/structfile/core/errors"
	"github.com/FocuswithJustin/structfile/core/structfile"
)

func newLineReader(s string) *LineReader {
	return NewLineReader(bufio.NewReader(strings.NewReader(s)), "test")
}

func TestReadLine(t *testing.T) {
	lr := newLineReader("one\r\ntwo\nthree")
	for _, want := range []string{"one", "two", "three"} {
		got, err := lr.ReadLine()
		if err != nil || got != want {
			t.Fatalf("ReadLine() = %q, %v; want %q", got, err, want)
		}
	}
	if _, err := lr.ReadLine(); err != io.EOF {
		t.Errorf("ReadLine at end = %v, want io.EOF", err)
	}
	if lr.Line() != 3 {
		t.Errorf("Line() = %d, want 3", lr.Line())
	}
	if _, err := lr.Require("structure"); !errors.Is(err, errors.ErrUnexpectedEOF) {
		t.Errorf("Require at end = %v, want ErrUnexpectedEOF", err)
	}
}

func TestReadTag(t *testing.T) {
	lr := newLineReader("<a>\n<b/>tail")
	var got []string
	for {
		s, err := lr.ReadTag()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadTag: %v", err)
		}
		got = append(got, s)
	}
	if strings.Join(got, "|") != "<a>|\n<b/>|tail" {
		t.Errorf("chunks = %q", got)
	}
	if lr.Line() != 1 {
		t.Errorf("Line() = %d, want 1", lr.Line())
	}
}

func TestParseNumbers(t *testing.T) {
	lr := newLineReader("")
	tests := []struct {
		name   string
		parse  func() error
		target error
	}{
		{"int", func() error { _, err := lr.ParseInt("n", " 42 "); return err }, nil},
		{"negative int", func() error { _, err := lr.ParseInt("n", "-1"); return err }, errors.ErrInvalidInput},
		{"huge int", func() error { _, err := lr.ParseInt("n", "99999999999999999999"); return err }, errors.ErrOverflow},
		{"float", func() error { _, err := lr.ParseFloat("e", "-1.5e2"); return err }, nil},
		{"bad float", func() error { _, err := lr.ParseFloat("e", "low"); return err }, errors.ErrInvalidInput},
		{"huge float", func() error { _, err := lr.ParseFloat("e", "1e400"); return err }, errors.ErrOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse()
			if tt.target == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	lr := newLineReader("")
	seq, err := lr.DecodeResidues(alphabet.RNA4, "ac gt", nil)
	if err != nil || structfile.Sequence(seq).String() != "ACGU" {
		t.Errorf("DecodeResidues = %q, %v", structfile.Sequence(seq), err)
	}
	if _, err := lr.DecodeResidues(alphabet.RNA4, "ACN", nil); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("N in rna4: error = %v", err)
	}
	if _, err := lr.DecodeStructure("((.)]", nil); err != nil {
		t.Errorf("DecodeStructure: %v", err)
	}
	if _, err := lr.DecodeStructure("(x)", nil); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("DecodeStructure(x): error = %v", err)
	}
}

func TestCheckPartners(t *testing.T) {
	lr := newLineReader("")
	tests := []struct {
		partner []int
		wantErr bool
	}{
		{[]int{3, -1, -1, 0}, false},
		{[]int{-1, -1}, false},
		{[]int{5, -1}, true},
		{[]int{0, -1}, true},
		{[]int{2, -1, 1}, true},
	}
	for _, tt := range tests {
		if err := lr.CheckPartners(tt.partner); (err != nil) != tt.wantErr {
			t.Errorf("CheckPartners(%v) = %v, wantErr %v", tt.partner, err, tt.wantErr)
		}
	}
}

func TestCheckSinks(t *testing.T) {
	var seq structfile.Sequence
	d := structfile.Discard{}
	if err := CheckSinks("test", structfile.DefaultOptions(), d, d, d, d, d, d, d, d, d); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("all discarded: error = %v, want ErrUnsupported", err)
	}
	if err := CheckSinks("test", structfile.DefaultOptions(), &seq, d, d, d, d, d, d, d, d); err != nil {
		t.Errorf("sequence only: %v", err)
	}
	if err := CheckSinks("test", structfile.NewOptions(nil, true), &seq, d, d, d, d, d, d, d, d); !errors.Is(err, errors.ErrShapeMismatch) {
		t.Errorf("combined with a plain buffer: error = %v, want ErrShapeMismatch", err)
	}
}

func TestEmit(t *testing.T) {
	var bpp structfile.BPP
	EmitPairs(&bpp, []int{2, -1, 0})
	if len(bpp) != 3 || len(bpp[1]) != 0 {
		t.Fatalf("bpp = %v", bpp)
	}
	if p, ok := bpp[0].Prob(2); !ok || p != 1 {
		t.Errorf("bpp[0] = %v", bpp[0])
	}

	var text structfile.Text
	EmitText(&text, "")
	EmitText(&text, "id")
	if text != "id" {
		t.Errorf("text = %q", text)
	}
	EmitSequence(structfile.Discard{}, []alphabet.Nucleotide{'A'})
}

func TestMatchExtension(t *testing.T) {
	exts := []string{"dbn", ".CT"}
	tests := map[string]bool{
		"a.dbn":    true,
		"a.ct.gz":  true,
		"A.CT":     true,
		"a.bpseq":  false,
		"dbn":      false,
		"a.dbn.7z": false,
	}
	for path, want := range tests {
		if got := MatchExtension(path, exts); got != want {
			t.Errorf("MatchExtension(%q) = %v, want %v", path, got, want)
		}
	}
}
