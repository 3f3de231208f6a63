// Package vienna reads and writes the Vienna dot-bracket format:
//
//	>id
//	GGGAAACCC
//	(((...))) (-1.20)
//
// The header line is optional and the sequence may span several lines. The
// structure is one line, optionally followed by the free energy in
// parentheses. Base pair probabilities are derived from the structure.
// Vienna files carry no comment, offset or reactivity; those sinks are left
// untouched.
package vienna

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/structfile/core/alphabet"
	"github.com/FocuswithJustin/structfile/core/errors"
	"github.com/FocuswithJustin/structfile/core/formats/base"
	"github.com/FocuswithJustin/structfile/core/structfile"
)

// Name is the format name.
const Name = "vienna"

var extensions = []string{"dbn", "fasta", "fa"}

// Format is the Vienna format reader.
type Format struct{}

var _ structfile.Format = Format{}

// Name implements structfile.Format.
func (Format) Name() string { return Name }

// Extensions implements structfile.Format.
func (Format) Extensions() []string {
	return append([]string(nil), extensions...)
}

// Read implements structfile.Format.
func (Format) Read(r *bufio.Reader, opts structfile.Options,
	seq structfile.SeqSink, id structfile.TextSink, bpp structfile.BPPSink, structure structfile.StructureSink,
	energy, react, reactErr structfile.FloatSink, comment structfile.TextSink, offset structfile.OffsetSink) error {
	if err := base.CheckSinks(Name, opts, seq, id, bpp, structure, energy, react, reactErr, comment, offset); err != nil {
		return err
	}

	lr := base.NewLineReader(r, Name)
	line, err := lr.ReadLine()
	if err != nil {
		return err
	}

	var header string
	if strings.HasPrefix(line, ">") {
		header = strings.TrimSpace(line[1:])
		if line, err = lr.Require("sequence"); err != nil {
			return err
		}
	}

	var residues []alphabet.Nucleotide
	for {
		text := strings.TrimSpace(line)
		if text != "" {
			if text[0] == '>' {
				return lr.Parsef("record %q has no structure line", header)
			}
			if isStructureLine(text) {
				break
			}
			if residues, err = lr.DecodeResidues(opts.Alphabet(), text, residues); err != nil {
				return err
			}
		}
		if line, err = lr.Require("structure"); err != nil {
			return err
		}
	}
	if len(residues) == 0 {
		return lr.Parsef("missing sequence before structure line")
	}

	structText, energyText := splitStructureLine(strings.TrimSpace(line))
	symbols, err := lr.DecodeStructure(structText, nil)
	if err != nil {
		return err
	}
	if len(symbols) != len(residues) {
		return lr.Parsef("sequence has %d residues but structure has %d symbols", len(residues), len(symbols))
	}
	partner, err := alphabet.Pairs(symbols)
	if err != nil {
		return lr.PairingError(err)
	}

	var dG float64
	hasEnergy := energyText != ""
	if hasEnergy {
		if dG, err = parseEnergy(lr, energyText); err != nil {
			return err
		}
	}

	base.EmitText(id, header)
	base.EmitSequence(seq, residues)
	base.EmitStructure(structure, symbols)
	base.EmitPairs(bpp, partner)
	if hasEnergy && !structfile.IsDiscard(energy) {
		energy.SetFloat(dG)
	}
	return nil
}

// isStructureLine reports whether a trimmed line starts a structure. Letters
// begin sequence lines even though WUSS uses them for pseudoknots.
func isStructureLine(text string) bool {
	w, ok := alphabet.ParseWUSS(text[0])
	return ok && !w.IsLetter()
}

// splitStructureLine separates the structure from a trailing energy.
func splitStructureLine(text string) (structure, energy string) {
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		return text[:i], strings.TrimSpace(text[i:])
	}
	return text, ""
}

func parseEnergy(lr *base.LineReader, text string) (float64, error) {
	if !strings.HasPrefix(text, "(") {
		return 0, lr.Parsef("unexpected text %q after structure", text)
	}
	end := strings.IndexByte(text, ')')
	if end < 0 {
		return 0, lr.Parsef("unterminated energy %q", text)
	}
	if rest := strings.TrimSpace(text[end+1:]); rest != "" {
		return 0, lr.Parsef("unexpected text %q after energy", rest)
	}
	return lr.ParseFloat("energy", text[1:end])
}

// Write writes rec in Vienna format. The record must carry a structure of
// the same length as its sequence.
func Write(w io.Writer, rec *structfile.Record) error {
	seq := rec.Sequence()
	str := rec.Structures()
	if len(seq) == 0 {
		return errors.NewValidation("seq", "record has no sequence")
	}
	if len(str) != len(seq) {
		return errors.NewValidation("structure", fmt.Sprintf("structure length %d differs from sequence length %d", len(str), len(seq)))
	}

	bw := bufio.NewWriter(w)
	if rec.ID != "" {
		fmt.Fprintf(bw, ">%s\n", rec.ID)
	}
	fmt.Fprintf(bw, "%s\n", seq)
	if rec.Energy.Valid {
		fmt.Fprintf(bw, "%s (%.2f)\n", str, rec.Energy.Value)
	} else {
		fmt.Fprintf(bw, "%s\n", str)
	}
	if err := bw.Flush(); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}
