package structfile

import (
	"sort"

	"github.com/FocuswithJustin/structfile/core/alphabet"
)

// SeqSink receives sequence residues in order.
type SeqSink interface {
	AppendResidue(alphabet.Nucleotide)
}

// StructureSink receives structure symbols in order, one per residue.
type StructureSink interface {
	AppendStructure(alphabet.WUSS)
}

// TextSink receives the id or comment text. A format may call it more than
// once per record; the pieces concatenate.
type TextSink interface {
	AppendText(string)
}

// BPPSink receives one pair set per sequence position.
type BPPSink interface {
	AppendPairs(PairSet)
}

// FloatSink receives a per-record scalar (energy, react, react_err).
type FloatSink interface {
	SetFloat(float64)
}

// OffsetSink receives the record offset.
type OffsetSink interface {
	SetOffset(uint64)
}

// Discard is the discard marker. It satisfies every sink and drops all
// writes; the field is still parsed and validated.
type Discard struct{}

func (Discard) AppendResidue(alphabet.Nucleotide) {}
func (Discard) AppendStructure(alphabet.WUSS)     {}
func (Discard) AppendText(string)                 {}
func (Discard) AppendPairs(PairSet)               {}
func (Discard) SetFloat(float64)                  {}
func (Discard) SetOffset(uint64)                  {}

// IsDiscard reports whether sink is the discard marker (or nil).
func IsDiscard(sink any) bool {
	switch sink.(type) {
	case nil, Discard, *Discard:
		return true
	}
	return false
}

// AllDiscarded reports whether every sink is the discard marker.
func AllDiscarded(sinks ...any) bool {
	for _, s := range sinks {
		if !IsDiscard(s) {
			return false
		}
	}
	return true
}

// Sequence is a residue buffer.
type Sequence []alphabet.Nucleotide

func (s *Sequence) AppendResidue(n alphabet.Nucleotide) { *s = append(*s, n) }

func (s Sequence) String() string {
	b := make([]byte, len(s))
	for i, n := range s {
		b[i] = n.Char()
	}
	return string(b)
}

// Structure is a structure symbol buffer.
type Structure []alphabet.WUSS

func (s *Structure) AppendStructure(w alphabet.WUSS) { *s = append(*s, w) }

func (s Structure) String() string {
	b := make([]byte, len(s))
	for i, w := range s {
		b[i] = w.Char()
	}
	return string(b)
}

// Text is an id or comment buffer.
type Text string

func (t *Text) AppendText(s string) { *t += Text(s) }

func (t Text) String() string { return string(t) }

// Float is a scalar buffer; Valid is false until a format sets it.
type Float struct {
	Value float64
	Valid bool
}

func (f *Float) SetFloat(v float64) {
	f.Value = v
	f.Valid = true
}

// Offset is a record offset buffer. See the format packages for the
// numbering each one reports.
type Offset uint64

func (o *Offset) SetOffset(v uint64) { *o = Offset(v) }

// Pair is one base pairing candidate: the probability that the owning
// position pairs with the 0-based position Partner.
type Pair struct {
	Prob    float64
	Partner int
}

// PairSet holds the pairing candidates of one position, unique by partner.
type PairSet []Pair

// Add inserts p, replacing an existing entry with the same partner.
func (ps *PairSet) Add(p Pair) {
	for i := range *ps {
		if (*ps)[i].Partner == p.Partner {
			(*ps)[i].Prob = p.Prob
			return
		}
	}
	*ps = append(*ps, p)
}

// Prob returns the probability recorded for partner.
func (ps PairSet) Prob(partner int) (float64, bool) {
	for _, p := range ps {
		if p.Partner == partner {
			return p.Prob, true
		}
	}
	return 0, false
}

// Sorted returns a copy ordered by partner.
func (ps PairSet) Sorted() PairSet {
	out := append(PairSet(nil), ps...)
	sort.Slice(out, func(i, j int) bool { return out[i].Partner < out[j].Partner })
	return out
}

// BPP is a base pair probability buffer with one set per position.
type BPP []PairSet

func (b *BPP) AppendPairs(ps PairSet) { *b = append(*b, ps) }

// StructuredSeq is the combined sequence+structure buffer. Each append fills
// the first element still missing that component and adds an element only
// when none is missing, so residues and structure symbols may arrive in any
// order. Pass the same *StructuredSeq as both the sequence and the structure
// sink.
type StructuredSeq struct {
	elems    []alphabet.StructuredRNA
	residues int
	filled   int
}

// NewStructuredSeq wraps existing elements, all considered complete.
func NewStructuredSeq(elems ...alphabet.StructuredRNA) *StructuredSeq {
	return &StructuredSeq{elems: elems, residues: len(elems), filled: len(elems)}
}

func (s *StructuredSeq) AppendResidue(n alphabet.Nucleotide) {
	if s.residues < len(s.elems) {
		s.elems[s.residues] = s.elems[s.residues].WithResidue(n)
	} else {
		s.elems = append(s.elems, alphabet.NewStructuredRNA(n, 0))
	}
	s.residues++
}

func (s *StructuredSeq) AppendStructure(w alphabet.WUSS) {
	if s.filled < len(s.elems) {
		s.elems[s.filled] = s.elems[s.filled].WithStructure(w)
	} else {
		s.elems = append(s.elems, alphabet.NewStructuredRNA(0, w))
	}
	s.filled++
}

func (s *StructuredSeq) combinedStorage() {}

// Len returns the number of elements.
func (s *StructuredSeq) Len() int { return len(s.elems) }

// At returns element i.
func (s *StructuredSeq) At(i int) alphabet.StructuredRNA { return s.elems[i] }

// Residues returns the residue view as a separate buffer.
func (s *StructuredSeq) Residues() Sequence {
	seq, _ := alphabet.Decompose(s.elems)
	return seq
}

// Structures returns the structure view as a separate buffer.
func (s *StructuredSeq) Structures() Structure {
	_, str := alphabet.Decompose(s.elems)
	return str
}

// Reset empties the buffer, keeping its capacity.
func (s *StructuredSeq) Reset() {
	s.elems = s.elems[:0]
	s.residues, s.filled = 0, 0
}

// combinedSink is implemented by buffers that store sequence and structure
// together.
type combinedSink interface {
	SeqSink
	StructureSink
	combinedStorage()
}
