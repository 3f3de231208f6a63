// Package alphabet defines the residue and structure symbols carried by
// structure file records, and the combined per-position element used when
// sequence and structure share one buffer.
package alphabet

import (
	"sort"
	"strings"
)

// Nucleotide is a residue stored as its canonical upper-case character.
type Nucleotide byte

// Char returns the residue character.
func (n Nucleotide) Char() byte {
	return byte(n)
}

func (n Nucleotide) String() string {
	return string(rune(n))
}

// nucleotideOrder fixes the rank of the common residues; anything else sorts
// after them by character.
const nucleotideOrder = "ACGTUN"

// Rank returns the ordering key of n.
func (n Nucleotide) Rank() int {
	if i := strings.IndexByte(nucleotideOrder, byte(n)); i >= 0 {
		return i
	}
	return len(nucleotideOrder) + int(n)
}

// Alphabet decodes raw sequence characters into residues. It is the legal
// alphabet of a read: characters it does not accept are grammar errors.
type Alphabet interface {
	// Name returns the lowercase alphabet name (e.g., "rna5").
	Name() string
	// Symbols returns the canonical residues in rank order.
	Symbols() string
	// Decode maps a raw character to a residue, reporting whether it is legal.
	Decode(c byte) (Nucleotide, bool)
}

type nucleotideAlphabet struct {
	name    string
	symbols string
	table   [256]byte
}

func (a *nucleotideAlphabet) Name() string    { return a.name }
func (a *nucleotideAlphabet) Symbols() string { return a.symbols }

func (a *nucleotideAlphabet) Decode(c byte) (Nucleotide, bool) {
	v := a.table[c]
	if v == 0 {
		return 0, false
	}
	return Nucleotide(v), true
}

// ambiguityCodes are the IUPAC codes folded to N by the 5-letter alphabets.
const ambiguityCodes = "RYSWKMBDHV"

func newNucleotideAlphabet(name, symbols string, thymine byte, ambiguous bool) *nucleotideAlphabet {
	a := &nucleotideAlphabet{name: name, symbols: symbols}
	set := func(c, v byte) {
		a.table[c] = v
		a.table[c+('a'-'A')] = v
	}
	for i := 0; i < len(symbols); i++ {
		set(symbols[i], symbols[i])
	}
	// T and U are interchangeable; each alphabet keeps its own letter.
	set('T', thymine)
	set('U', thymine)
	if ambiguous {
		for i := 0; i < len(ambiguityCodes); i++ {
			set(ambiguityCodes[i], 'N')
		}
	}
	return a
}

// Built-in alphabets.
var (
	RNA4 Alphabet = newNucleotideAlphabet("rna4", "ACGU", 'U', false)
	RNA5 Alphabet = newNucleotideAlphabet("rna5", "ACGUN", 'U', true)
	DNA4 Alphabet = newNucleotideAlphabet("dna4", "ACGT", 'T', false)
	DNA5 Alphabet = newNucleotideAlphabet("dna5", "ACGTN", 'T', true)
)

var builtin = map[string]Alphabet{
	RNA4.Name(): RNA4,
	RNA5.Name(): RNA5,
	DNA4.Name(): DNA4,
	DNA5.Name(): DNA5,
}

// Lookup returns the built-in alphabet with the given name.
func Lookup(name string) (Alphabet, bool) {
	a, ok := builtin[strings.ToLower(name)]
	return a, ok
}

// Names returns the sorted names of the built-in alphabets.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
