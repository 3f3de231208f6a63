// Package ct reads and writes the connectivity table format produced by
// mfold, RNAstructure and the ViennaRNA tools.
//
// A record starts with a header holding the sequence length, an optional
// free energy and a name:
//
//	5 ENERGY = -1.20  hairpin
//	1 G 0 2 5 1
//	2 A 1 3 0 2
//
// followed by one row per residue: index, base, previous index, next
// index, partner (0 when unpaired) and natural numbering. The natural
// number of the first row sets the record offset.
package ct

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/structfile/core/alphabet"
	"github.com/FocuswithJustin/structfile/core/errors"
	"github.com/FocuswithJustin/structfile/core/formats/base"
	"github.com/FocuswithJustin/structfile/core/structfile"
)

// Name is the format name.
const Name = "ct"

// rowColumns is the number of columns of a residue row.
const rowColumns = 6

// header is the participle grammar for the first line of a record.
// Examples: "73", "73 tRNA", "73 ENERGY = -17.5 tRNA", "73 dG = -17.5"
//
//nolint:govet // participle grammar tags are not standard struct tags
type header struct {
	Length string      `@Number`
	Energy *string     `( Keyword "=" @Number )?`
	Name   *headerName `@@?`
}

// headerName only locates the record name; the id is the raw rest of the line
// from Pos, since the lexer splits names such as "16S" or "5.8S".
type headerName struct {
	Pos   lexer.Position
	Parts []string `@( Word | Number | Keyword | "=" )+`
}

// id returns the name text of line.
func (h *header) id(line string) string {
	if h.Name == nil {
		return ""
	}
	return strings.TrimRight(line[h.Name.Pos.Offset:], " \t")
}

var headerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?:ENERGY|Energy|dG)\b`},
	{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Eq", Pattern: `=`},
	{Name: "Word", Pattern: `[^\s=]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var headerParser = participle.MustBuild[header](
	participle.Lexer(headerLexer),
	participle.Elide("Whitespace"),
)

// Format is the CT format reader.
type Format struct{}

var _ structfile.Format = Format{}

// Name implements structfile.Format.
func (Format) Name() string { return Name }

// Extensions implements structfile.Format.
func (Format) Extensions() []string { return []string{"ct"} }

// Read implements structfile.Format.
func (Format) Read(r *bufio.Reader, opts structfile.Options,
	seq structfile.SeqSink, id structfile.TextSink, bpp structfile.BPPSink, structure structfile.StructureSink,
	energy, react, reactErr structfile.FloatSink, comment structfile.TextSink, offset structfile.OffsetSink) error {
	if err := base.CheckSinks(Name, opts, seq, id, bpp, structure, energy, react, reactErr, comment, offset); err != nil {
		return err
	}

	lr := base.NewLineReader(r, Name)
	line, err := lr.ReadLine()
	for err == nil && strings.TrimSpace(line) == "" {
		line, err = lr.ReadLine()
	}
	if err != nil {
		return err
	}

	h, err := headerParser.ParseString("", line)
	if err != nil {
		return lr.Parsef("invalid header %q: %v", strings.TrimSpace(line), err)
	}
	recordID := h.id(line)
	n, err := lr.ParseInt("length", h.Length)
	if err != nil {
		return err
	}
	if n == 0 {
		return lr.Parsef("header declares an empty sequence")
	}
	var (
		dG        float64
		hasEnergy = h.Energy != nil
	)
	if hasEnergy {
		if dG, err = lr.ParseFloat("energy", *h.Energy); err != nil {
			return err
		}
	}

	residues := make([]alphabet.Nucleotide, 0, min(n, 1<<16))
	partner := make([]int, 0, min(n, 1<<16))
	var natural int
	for i := 1; i <= n; i++ {
		line, err := lr.Require("row")
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) != rowColumns {
			return lr.Parsef("row has %d columns, want %d", len(fields), rowColumns)
		}
		idx, err := lr.ParseInt("index", fields[0])
		if err != nil {
			return err
		}
		if idx != i {
			return lr.Parsef("row index %d, want %d", idx, i)
		}
		if len(fields[1]) != 1 {
			return lr.Parsef("base %q is not a single residue", fields[1])
		}
		if residues, err = lr.DecodeResidues(opts.Alphabet(), fields[1], residues); err != nil {
			return err
		}
		for _, col := range fields[2:4] {
			if _, err := lr.ParseInt("link", col); err != nil {
				return err
			}
		}
		j, err := lr.ParseInt("partner", fields[4])
		if err != nil {
			return err
		}
		if j > n {
			return lr.Parsef("index %d pairs with %d beyond the sequence end", i, j)
		}
		partner = append(partner, j-1)
		nat, err := lr.ParseInt("natural", fields[5])
		if err != nil {
			return err
		}
		if i == 1 {
			natural = nat
		}
	}
	if err := lr.CheckPartners(partner); err != nil {
		return err
	}
	symbols, err := alphabet.FromPairs(partner)
	if err != nil {
		return lr.PairingError(err)
	}

	base.EmitText(id, recordID)
	base.EmitSequence(seq, residues)
	base.EmitStructure(structure, symbols)
	base.EmitPairs(bpp, partner)
	if hasEnergy && !structfile.IsDiscard(energy) {
		energy.SetFloat(dG)
	}
	if !structfile.IsDiscard(offset) {
		offset.SetOffset(uint64(max(natural-1, 0)))
	}
	return nil
}

// Write writes rec as a connectivity table.
func Write(w io.Writer, rec *structfile.Record) error {
	seq := rec.Sequence()
	if len(seq) == 0 {
		return errors.NewValidation("seq", "record has no sequence")
	}
	str := rec.Structures()
	if len(str) != len(seq) {
		return errors.NewValidation("structure", fmt.Sprintf("structure length %d differs from sequence length %d", len(str), len(seq)))
	}
	partner, err := alphabet.Pairs(str)
	if err != nil {
		return errors.NewValidation("structure", err.Error())
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%5d", len(seq))
	if rec.Energy.Valid {
		fmt.Fprintf(bw, " ENERGY = %.2f", rec.Energy.Value)
	}
	if rec.ID != "" {
		fmt.Fprintf(bw, "  %s", rec.ID)
	}
	bw.WriteByte('\n')

	n := len(seq)
	for i, nt := range seq {
		next := i + 2
		if next > n {
			next = 0
		}
		fmt.Fprintf(bw, "%5d %c %7d %4d %4d %4d\n", i+1, nt.Char(), i, next, partner[i]+1, int(rec.Offset)+i+1)
	}
	if err := bw.Flush(); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}
