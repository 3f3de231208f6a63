package vienna

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/FocuswithJustin/structfile/core/alphabet"
	"github.com/FocuswithJustin/structfile/core/errors"
	"github.com/FocuswithJustin/structfile/core/structfile"
	"github.com/FocuswithJustin/structfile/core/structfile/formattest"
)

const sample = ">id1\nACGU\n(..)\n"

func TestConformance(t *testing.T) {
	full := formattest.Run(t, Format{}, sample)
	if full.Seq.String() != "ACGU" {
		t.Errorf("seq = %q, want ACGU", full.Seq)
	}
	if full.ID != "id1" {
		t.Errorf("id = %q, want id1", full.ID)
	}
	if full.Structure.String() != "(..)" {
		t.Errorf("structure = %q, want (..)", full.Structure)
	}
	if full.Offset != 0 {
		t.Errorf("offset = %d, want 0", full.Offset)
	}
	if full.Comment != "" {
		t.Errorf("comment = %q, want empty", full.Comment)
	}
	if full.Energy.Valid {
		t.Errorf("energy set without an energy annotation")
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated structure", ">x\nGGGAAACC\n(((...))\n"},
		{"unterminated energy", ">x\nGGAACC\n((..)) (-1.2\n"},
		{"length mismatch", ">id1\nACGU\n((.))\n"},
		{"illegal residue", ">x\nACXU\n(..)\n"},
		{"invalid structure symbol", ">x\nACGU\n(.#)\n"},
		{"text after energy", ">x\nACGU\n(..) (-1.0) junk\n"},
		{"missing sequence", ">x\n(..)\n"},
		{"next header before structure", ">x\nACGU\n>y\nACGU\n(..)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formattest.RunInvalid(t, Format{}, tt.input)
		})
	}
}

func TestEnergy(t *testing.T) {
	full, err := formattest.ReadFull(Format{}, ">hp\nGGGAAACCC\n(((...))) ( -1.20)\n")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !full.Energy.Valid || full.Energy.Value != -1.2 {
		t.Errorf("energy = %+v, want -1.2", full.Energy)
	}
	if len(full.BPP) != 9 {
		t.Fatalf("bpp len = %d", len(full.BPP))
	}
	if p, ok := full.BPP[0].Prob(8); !ok || p != 1 {
		t.Errorf("bpp[0] = %v, want partner 8 with probability 1", full.BPP[0])
	}
	if len(full.BPP[4]) != 0 {
		t.Errorf("bpp[4] = %v, want empty", full.BPP[4])
	}
}

func TestEnergyOverflow(t *testing.T) {
	_, err := formattest.ReadFull(Format{}, ">x\nACGU\n(..) (1e999)\n")
	if !errors.Is(err, errors.ErrOverflow) {
		t.Fatalf("error = %v, want ErrOverflow", err)
	}
}

func TestUnexpectedEOF(t *testing.T) {
	for _, input := range []string{">x\n", ">x\nACGU\n", "ACGU"} {
		_, err := formattest.ReadFull(Format{}, input)
		if !errors.Is(err, errors.ErrUnexpectedEOF) {
			t.Errorf("ReadFull(%q) error = %v, want ErrUnexpectedEOF", input, err)
		}
	}
}

func TestEmptyStream(t *testing.T) {
	_, err := formattest.ReadFull(Format{}, "")
	if err != io.EOF {
		t.Fatalf("error = %v, want io.EOF", err)
	}
}

func TestMultiLineSequenceNoHeader(t *testing.T) {
	full, err := formattest.ReadFull(Format{}, "acgu\nTTAA\n\n((....))\n")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if full.Seq.String() != "ACGUUUAA" {
		t.Errorf("seq = %q", full.Seq)
	}
	if full.ID != "" {
		t.Errorf("id = %q, want empty", full.ID)
	}
}

func TestLengthMismatchScenario(t *testing.T) {
	err := formattest.RunInvalid(t, Format{}, ">id1\nACGU\n((.))\n")
	if !strings.Contains(err.Error(), "4 residues but structure has 5") {
		t.Errorf("error = %v", err)
	}
}

func TestCombinedScenario(t *testing.T) {
	combined := &structfile.StructuredSeq{}
	var id structfile.Text
	d := structfile.Discard{}
	opts := structfile.NewOptions(alphabet.RNA5, true)
	r := bufio.NewReader(strings.NewReader(sample))
	if err := (Format{}).Read(r, opts, combined, &id, d, combined, d, d, d, d, d); err != nil {
		t.Fatalf("read: %v", err)
	}
	if combined.Len() != 4 {
		t.Fatalf("len = %d, want 4", combined.Len())
	}
	if got := combined.Residues().String(); got != "ACGU" {
		t.Errorf("residues = %q", got)
	}
	if got := combined.Structures().String(); got != "(..)" {
		t.Errorf("structures = %q", got)
	}
	if combined.At(0) != alphabet.NewStructuredRNA('A', '(') {
		t.Errorf("At(0) = %v", combined.At(0))
	}
}

func TestReaderMultipleRecords(t *testing.T) {
	input := ">a\nGGGAAACCC\n(((...))) (-1.20)\n\n>b\nACGU\n....\n"
	rd := structfile.NewReader(strings.NewReader(input), Format{}, structfile.DefaultOptions(), structfile.AllFields)
	var ids []string
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		ids = append(ids, rec.ID.String())
	}
	if strings.Join(ids, ",") != "a,b" {
		t.Errorf("ids = %v", ids)
	}
	if rd.Count() != 2 {
		t.Errorf("Count = %d", rd.Count())
	}
}

func TestWriteRoundTrip(t *testing.T) {
	inputs := []string{
		">hp\nGGGAAACCC\n(((...))) (-1.20)\n",
		">id1\nACGU\n(..)\n",
		"GGAAUCC\n((...))\n",
	}
	for _, input := range inputs {
		rd := structfile.NewReader(strings.NewReader(input), Format{}, structfile.DefaultOptions(), structfile.AllFields)
		rec, err := rd.Next()
		if err != nil {
			t.Fatalf("read %q: %v", input, err)
		}
		var buf bytes.Buffer
		if err := Write(&buf, rec); err != nil {
			t.Fatalf("write: %v", err)
		}
		if buf.String() != input {
			t.Errorf("round trip = %q, want %q", buf.String(), input)
		}
	}
}

func TestWriteRejectsMismatch(t *testing.T) {
	rec := &structfile.Record{Seq: structfile.Sequence("ACGU"), Structure: structfile.Structure("(.)")}
	if err := Write(io.Discard, rec); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}
