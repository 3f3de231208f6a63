// Package bpseq reads and writes the BPSEQ format used by the Comparative
// RNA Web site:
//
//	Filename: tRNA.bpseq
//	# comment
//	1 G 7
//	2 A 0
//	...
//
// Each row holds a 1-based index, a base and the index of its partner (0
// for unpaired). Rows must be numbered consecutively; the first index sets
// the offset. A record ends at a blank line, at the next header or at the
// end of the stream.
package bpseq

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
const Name = "bpseq"

const filenameHeader = "Filename:"

// Header prefixes kept as comment text.
var commentHeaders = []string{"Organism:", "Accession Number:", "Citation"}

// Format is the BPSEQ format reader.
type Format struct{}

var _ structfile.Format = Format{}

// Name implements structfile.Format.
func (Format) Name() string { return Name }

// Extensions implements structfile.Format.
func (Format) Extensions() []string { return []string{"bpseq"} }

// Read implements structfile.Format.
func (Format) Read(r *bufio.Reader, opts structfile.Options,
	seq structfile.SeqSink, id structfile.TextSink, bpp structfile.BPPSink, structure structfile.StructureSink,
	energy, react, reactErr structfile.FloatSink, comment structfile.TextSink, offset structfile.OffsetSink) error {
	if err := base.CheckSinks(Name, opts, seq, id, bpp, structure, energy, react, reactErr, comment, offset); err != nil {
		return err
	}

	lr := base.NewLineReader(r, Name)
	var (
		name     string
		comments []string
		residues []alphabet.Nucleotide
		raw      []int // partner indices as written, 0 for unpaired
		first    int
		consumed bool
	)

rows:
	for {
		if len(residues) > 0 && !startsRow(lr) {
			break
		}
		line, err := lr.ReadLine()
		if err == io.EOF {
			if len(residues) > 0 {
				break
			}
			if !consumed {
				return io.EOF
			}
			return lr.UnexpectedEOF("rows")
		}
		if err != nil {
			return err
		}
		consumed = true

		text := strings.TrimSpace(line)
		switch {
		case text == "":
			if len(residues) > 0 {
				break rows
			}
		case isDigit(text[0]):
			fields := strings.Fields(text)
			if len(fields) != 3 {
				return lr.Parsef("row has %d columns, want 3", len(fields))
			}
			idx, err := lr.ParseInt("index", fields[0])
			if err != nil {
				return err
			}
			if len(residues) == 0 {
				if idx == 0 {
					return lr.Parsef("index 0 is not valid")
				}
				first = idx
			} else if idx != first+len(residues) {
				return lr.Parsef("index %d follows %d", idx, first+len(residues)-1)
			}
			if len(fields[1]) != 1 {
				return lr.Parsef("base %q is not a single residue", fields[1])
			}
			if residues, err = lr.DecodeResidues(opts.Alphabet(), fields[1], residues); err != nil {
				return err
			}
			j, err := lr.ParseInt("partner", fields[2])
			if err != nil {
				return err
			}
			raw = append(raw, j)
		case text[0] == '#':
			comments = append(comments, strings.TrimSpace(text[1:]))
		case strings.HasPrefix(text, filenameHeader):
			name = strings.TrimSpace(text[len(filenameHeader):])
		case hasCommentHeader(text):
			comments = append(comments, text)
		default:
			return lr.Parsef("unexpected line %q", text)
		}
	}

	partner := make([]int, len(raw))
	for i, j := range raw {
		switch {
		case j == 0:
			partner[i] = -1
		case j < first || j >= first+len(raw):
			return lr.Parsef("index %d pairs with %d outside the record", first+i, j)
		default:
			partner[i] = j - first
		}
	}
	if err := lr.CheckPartners(partner); err != nil {
		return err
	}
	symbols, err := alphabet.FromPairs(partner)
	if err != nil {
		return lr.PairingError(err)
	}

	base.EmitText(id, name)
	base.EmitSequence(seq, residues)
	base.EmitStructure(structure, symbols)
	base.EmitPairs(bpp, partner)
	base.EmitText(comment, strings.Join(comments, "\n"))
	if !structfile.IsDiscard(offset) {
		offset.SetOffset(uint64(first - 1))
	}
	return nil
}

// startsRow reports whether the next line continues the current record.
func startsRow(lr *base.LineReader) bool {
	b, err := lr.PeekByte()
	if err != nil {
		return false
	}
	return isDigit(b) || b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func hasCommentHeader(text string) bool {
	for _, h := range commentHeaders {
		if strings.HasPrefix(text, h) {
			return true
		}
	}
	return false
}

// Write writes rec in BPSEQ format. Rows are numbered from the record
// offset plus one.
func Write(w io.Writer, rec *structfile.Record) error {
	seq := rec.Sequence()
	if len(seq) == 0 {
		return errors.NewValidation("seq", "record has no sequence")
	}
	partner := make([]int, len(seq))
	for i := range partner {
		partner[i] = -1
	}
	if str := rec.Structures(); len(str) > 0 {
		if len(str) != len(seq) {
			return errors.NewValidation("structure", fmt.Sprintf("structure length %d differs from sequence length %d", len(str), len(seq)))
		}
		p, err := alphabet.Pairs(str)
		if err != nil {
			return errors.NewValidation("structure", err.Error())
		}
		partner = p
	}

	start := int(rec.Offset) + 1
	bw := bufio.NewWriter(w)
	if rec.ID != "" {
		fmt.Fprintf(bw, "%s %s\n", filenameHeader, rec.ID)
	}
	if rec.Comment != "" {
		for _, c := range strings.Split(string(rec.Comment), "\n") {
			if hasCommentHeader(c) {
				fmt.Fprintln(bw, c)
			} else {
				fmt.Fprintf(bw, "# %s\n", c)
			}
		}
	}
	for i, n := range seq {
		j := 0
		if partner[i] >= 0 {
			j = partner[i] + start
		}
		fmt.Fprintf(bw, "%d %c %d\n", i+start, n.Char(), j)
	}
	if err := bw.Flush(); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}
