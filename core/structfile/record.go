package structfile

import (
	"bufio"

	"github.com/FocuswithJustin/structfile/core/errors"
)

// Record holds every field of one record. Only the fields listed in Fields
// were requested; the others keep their zero values.
type Record struct {
	Format string
	Fields FieldSet

	ID            Text
	Seq           Sequence
	BPP           BPP
	Structure     Structure
	StructuredSeq *StructuredSeq
	Energy        Float
	React         Float
	ReactErr      Float
	Comment       Text
	Offset        Offset
}

// Sequence returns the residues whichever storage layout was used.
func (r *Record) Sequence() Sequence {
	if r.StructuredSeq != nil {
		return r.StructuredSeq.Residues()
	}
	return r.Seq
}

// Structures returns the structure symbols whichever storage layout was used.
func (r *Record) Structures() Structure {
	if r.StructuredSeq != nil {
		return r.StructuredSeq.Structures()
	}
	return r.Structure
}

// Len returns the number of positions read.
func (r *Record) Len() int {
	if r.StructuredSeq != nil {
		return r.StructuredSeq.Len()
	}
	return max(len(r.Seq), len(r.Structure))
}

// ReadRecord reads one record from r with f, materializing only the fields
// in fields. With combined options, requesting the sequence, the structure
// or FieldStructuredSeq fills Record.StructuredSeq.
func ReadRecord(f Format, r *bufio.Reader, opts Options, fields FieldSet) (*Record, error) {
	rec := &Record{Format: f.Name(), Fields: fields}

	var (
		seq       SeqSink       = Discard{}
		id        TextSink      = Discard{}
		bpp       BPPSink       = Discard{}
		structure StructureSink = Discard{}
		energy    FloatSink     = Discard{}
		react     FloatSink     = Discard{}
		reactErr  FloatSink     = Discard{}
		comment   TextSink      = Discard{}
		offset    OffsetSink    = Discard{}
	)

	wantSeqOrStructure := fields.Has(FieldSeq) || fields.Has(FieldStructure) || fields.Has(FieldStructuredSeq)
	switch {
	case opts.Combined():
		if wantSeqOrStructure {
			rec.StructuredSeq = &StructuredSeq{}
			seq, structure = rec.StructuredSeq, rec.StructuredSeq
		}
	case fields.Has(FieldStructuredSeq):
		return nil, errors.NewShape(f.Name(), "field structured_seq requires combined storage")
	default:
		if fields.Has(FieldSeq) {
			seq = &rec.Seq
		}
		if fields.Has(FieldStructure) {
			structure = &rec.Structure
		}
	}
	if fields.Has(FieldID) {
		id = &rec.ID
	}
	if fields.Has(FieldBPP) {
		bpp = &rec.BPP
	}
	if fields.Has(FieldEnergy) {
		energy = &rec.Energy
	}
	if fields.Has(FieldReact) {
		react = &rec.React
	}
	if fields.Has(FieldReactErr) {
		reactErr = &rec.ReactErr
	}
	if fields.Has(FieldComment) {
		comment = &rec.Comment
	}
	if fields.Has(FieldOffset) {
		offset = &rec.Offset
	}

	if err := f.Read(r, opts, seq, id, bpp, structure, energy, react, reactErr, comment, offset); err != nil {
		return nil, err
	}
	return rec, nil
}
