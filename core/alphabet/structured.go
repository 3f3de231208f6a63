package alphabet

// StructuredRNA is one sequence position carrying both its residue and its
// structure symbol. It is the element type of combined sequence+structure
// storage.
type StructuredRNA struct {
	residue   Nucleotide
	structure WUSS
}

// NewStructuredRNA builds a combined element.
func NewStructuredRNA(n Nucleotide, s WUSS) StructuredRNA {
	return StructuredRNA{residue: n, structure: s}
}

// Residue returns the residue component.
func (e StructuredRNA) Residue() Nucleotide { return e.residue }

// Structure returns the structure component.
func (e StructuredRNA) Structure() WUSS { return e.structure }

// WithResidue returns a copy of e carrying n.
func (e StructuredRNA) WithResidue(n Nucleotide) StructuredRNA {
	e.residue = n
	return e
}

// WithStructure returns a copy of e carrying s.
func (e StructuredRNA) WithStructure(s WUSS) StructuredRNA {
	e.structure = s
	return e
}

// Equal reports whether both components match.
func (e StructuredRNA) Equal(o StructuredRNA) bool {
	return e == o
}

// Compare orders elements by residue rank, then structure rank.
func (e StructuredRNA) Compare(o StructuredRNA) int {
	if a, b := e.residue.Rank(), o.residue.Rank(); a != b {
		if a < b {
			return -1
		}
		return 1
	}
	if a, b := e.structure.Rank(), o.structure.Rank(); a != b {
		if a < b {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether e sorts before o.
func (e StructuredRNA) Less(o StructuredRNA) bool {
	return e.Compare(o) < 0
}

func (e StructuredRNA) String() string {
	return string([]byte{byte(e.residue), byte(e.structure)})
}

// Decompose splits combined elements into parallel residue and structure
// slices.
func Decompose(elems []StructuredRNA) ([]Nucleotide, []WUSS) {
	seq := make([]Nucleotide, len(elems))
	str := make([]WUSS, len(elems))
	for i, e := range elems {
		seq[i] = e.residue
		str[i] = e.structure
	}
	return seq, str
}

// Zip combines parallel residue and structure slices; the result has the
// length of the shorter input.
func Zip(seq []Nucleotide, str []WUSS) []StructuredRNA {
	n := min(len(seq), len(str))
	out := make([]StructuredRNA, n)
	for i := 0; i < n; i++ {
		out[i] = NewStructuredRNA(seq[i], str[i])
	}
	return out
}
