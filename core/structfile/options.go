package structfile

import "github.com/FocuswithJustin/structfile/core/alphabet"

// Options configures a read. It is a value fixed at construction; copies may
// be shared freely between goroutines.
type Options struct {
	alph     alphabet.Alphabet
	combined bool
}

// NewOptions returns options decoding residues with alph (RNA5 when nil).
// combined selects one *StructuredSeq buffer for sequence and structure.
func NewOptions(alph alphabet.Alphabet, combined bool) Options {
	if alph == nil {
		alph = alphabet.RNA5
	}
	return Options{alph: alph, combined: combined}
}

// DefaultOptions is RNA5 with separate sequence and structure buffers.
func DefaultOptions() Options {
	return NewOptions(alphabet.RNA5, false)
}

// Alphabet returns the legal residue alphabet.
func (o Options) Alphabet() alphabet.Alphabet {
	if o.alph == nil {
		return alphabet.RNA5
	}
	return o.alph
}

// Combined reports whether sequence and structure share one buffer.
func (o Options) Combined() bool {
	return o.combined
}
