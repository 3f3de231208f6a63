// Package formattest checks that a structfile.Format honours the read
// contract. Format tests call Run with a valid sample record and RunInvalid
// with a malformed one.
package formattest

import (
	"bufio"
	"reflect"
	"strings"
	"testing"

	"github.com/FocuswithJustin/structfile/core/alphabet"
	"github.com/FocuswithJustin/structfile/core/errors"
	"github.com/FocuswithJustin/structfile/core/structfile"
)

// Full is the result of a full extraction read.
type Full struct {
	Seq       structfile.Sequence
	ID        structfile.Text
	BPP       structfile.BPP
	Structure structfile.Structure
	Energy    structfile.Float
	React     structfile.Float
	ReactErr  structfile.Float
	Comment   structfile.Text
	Offset    structfile.Offset
}

func reader(sample string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(sample))
}

// ReadFull reads sample with every field materialized.
func ReadFull(f structfile.Format, sample string) (*Full, error) {
	var out Full
	err := f.Read(reader(sample), structfile.DefaultOptions(),
		&out.Seq, &out.ID, &out.BPP, &out.Structure,
		&out.Energy, &out.React, &out.ReactErr, &out.Comment, &out.Offset)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Run reads sample with the four argument shapes of the contract and checks
// that the results agree.
func Run(t *testing.T, f structfile.Format, sample string) *Full {
	t.Helper()
	d := structfile.Discard{}

	if len(f.Extensions()) == 0 {
		t.Errorf("%s: Extensions() is empty", f.Name())
	}
	for _, ext := range f.Extensions() {
		if ext != structfile.NormalizeExtension(ext) {
			t.Errorf("%s: extension %q is not normalized", f.Name(), ext)
		}
	}

	// (a) full extraction
	full, err := ReadFull(f, sample)
	if err != nil {
		t.Fatalf("%s: full read: %v", f.Name(), err)
	}
	if len(full.Seq) == 0 {
		t.Fatalf("%s: full read produced an empty sequence", f.Name())
	}
	if len(full.Structure) != len(full.Seq) {
		t.Errorf("%s: structure length %d, sequence length %d", f.Name(), len(full.Structure), len(full.Seq))
	}
	if len(full.BPP) != len(full.Seq) {
		t.Errorf("%s: bpp length %d, sequence length %d", f.Name(), len(full.BPP), len(full.Seq))
	}

	// (b) trailing scalar and metadata fields discarded
	var (
		seq       structfile.Sequence
		id        structfile.Text
		bpp       structfile.BPP
		structure structfile.Structure
	)
	if err := f.Read(reader(sample), structfile.DefaultOptions(), &seq, &id, &bpp, &structure, d, d, d, d, d); err != nil {
		t.Fatalf("%s: read with discarded metadata: %v", f.Name(), err)
	}
	if !reflect.DeepEqual(seq, full.Seq) || !reflect.DeepEqual(structure, full.Structure) || id != full.ID {
		t.Errorf("%s: discarding metadata changed the kept fields", f.Name())
	}
	if !reflect.DeepEqual(bpp, full.BPP) {
		t.Errorf("%s: discarding metadata changed bpp", f.Name())
	}

	// (c) combined storage
	combined := &structfile.StructuredSeq{}
	var cid structfile.Text
	opts := structfile.NewOptions(alphabet.RNA5, true)
	if err := f.Read(reader(sample), opts, combined, &cid, d, combined, d, d, d, d, d); err != nil {
		t.Fatalf("%s: combined read: %v", f.Name(), err)
	}
	if combined.Len() != len(full.Seq) {
		t.Fatalf("%s: combined length %d, want %d", f.Name(), combined.Len(), len(full.Seq))
	}
	if got := combined.Residues(); !reflect.DeepEqual(got, full.Seq) {
		t.Errorf("%s: combined residues %q, want %q", f.Name(), got, full.Seq)
	}
	if got := combined.Structures(); !reflect.DeepEqual(got, full.Structure) {
		t.Errorf("%s: combined structure %q, want %q", f.Name(), got, full.Structure)
	}
	if cid != full.ID {
		t.Errorf("%s: combined id %q, want %q", f.Name(), cid, full.ID)
	}

	// (d) everything discarded: valid call, usage error at run time
	err = f.Read(reader(sample), structfile.DefaultOptions(), d, d, d, d, d, d, d, d, d)
	if !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("%s: all-discard read error = %v, want ErrUnsupported", f.Name(), err)
	}

	checkShapeErrors(t, f, sample)
	return full
}

func checkShapeErrors(t *testing.T, f structfile.Format, sample string) {
	t.Helper()
	d := structfile.Discard{}

	var seq structfile.Sequence
	var structure structfile.Structure
	err := f.Read(reader(sample), structfile.NewOptions(nil, true), &seq, d, d, &structure, d, d, d, d, d)
	if !errors.Is(err, errors.ErrShapeMismatch) {
		t.Errorf("%s: separate buffers with combined options: error = %v, want ErrShapeMismatch", f.Name(), err)
	}
	if len(seq) != 0 || len(structure) != 0 {
		t.Errorf("%s: rejected read wrote to its buffers", f.Name())
	}

	combined := &structfile.StructuredSeq{}
	err = f.Read(reader(sample), structfile.DefaultOptions(), combined, d, d, combined, d, d, d, d, d)
	if !errors.Is(err, errors.ErrShapeMismatch) {
		t.Errorf("%s: structured buffer without combined options: error = %v, want ErrShapeMismatch", f.Name(), err)
	}
}

// RunInvalid checks that sample is rejected whichever fields are kept, and
// that the error is a ParseError.
func RunInvalid(t *testing.T, f structfile.Format, sample string) error {
	t.Helper()
	d := structfile.Discard{}

	_, err := ReadFull(f, sample)
	if err == nil {
		t.Fatalf("%s: full read of invalid sample succeeded", f.Name())
	}
	var perr *errors.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("%s: error %v (%T) is not a ParseError", f.Name(), err, err)
	}

	var id structfile.Text
	if err := f.Read(reader(sample), structfile.DefaultOptions(), d, &id, d, d, d, d, d, d, d); err == nil {
		t.Errorf("%s: id-only read of invalid sample succeeded", f.Name())
	}

	combined := &structfile.StructuredSeq{}
	if err := f.Read(reader(sample), structfile.NewOptions(nil, true), combined, d, d, combined, d, d, d, d, d); err == nil {
		t.Errorf("%s: combined read of invalid sample succeeded", f.Name())
	}
	return err
}
