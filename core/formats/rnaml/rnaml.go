// Package rnaml reads RNAML documents. Every <molecule> element of the
// document is one record; the closing </rnaml> tag ends the stream.
//
// Base pair positions in str-annotation are interpreted in the molecule's
// numbering, so a molecule numbered from 11 pairs position 11 with the
// first residue.
package rnaml

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/structfile/core/alphabet"
	"github.com/FocuswithJustin/structfile/core/errors"
	"github.com/FocuswithJustin/structfile/core/formats/base"
	"github.com/FocuswithJustin/structfile/core/structfile"
)

// Name is the format name.
const Name = "rnaml"

const (
	moleculeOpen  = "<molecule"
	moleculeClose = "</molecule>"
	documentClose = "</rnaml"
)

// Queries are relative to the molecule element.
var (
	moleculeExpr  = xpath.MustCompile("/molecule")
	nameExpr      = xpath.MustCompile("identity/name")
	seqDataExpr   = xpath.MustCompile("sequence/seq-data")
	numberingExpr = xpath.MustCompile("sequence/numbering-table")
	commentExpr   = xpath.MustCompile(".//comment")
	energyExpr    = xpath.MustCompile("structure/model/free-energy")
	basePairExpr  = xpath.MustCompile("structure/model/str-annotation/base-pair")
	pos5Expr      = xpath.MustCompile("base-id-5p/base-id/position")
	pos3Expr      = xpath.MustCompile("base-id-3p/base-id/position")
)

// Format is the RNAML format reader.
type Format struct{}

var _ structfile.Format = Format{}

// Name implements structfile.Format.
func (Format) Name() string { return Name }

// Extensions implements structfile.Format.
func (Format) Extensions() []string { return []string{"rnaml", "xml"} }

// Read implements structfile.Format.
func (Format) Read(r *bufio.Reader, opts structfile.Options,
	seq structfile.SeqSink, id structfile.TextSink, bpp structfile.BPPSink, structure structfile.StructureSink,
	energy, react, reactErr structfile.FloatSink, comment structfile.TextSink, offset structfile.OffsetSink) error {
	if err := base.CheckSinks(Name, opts, seq, id, bpp, structure, energy, react, reactErr, comment, offset); err != nil {
		return err
	}

	lr := base.NewLineReader(r, Name)
	fragment, err := nextMolecule(lr)
	if err != nil {
		return err
	}
	doc, err := xmlquery.Parse(strings.NewReader(fragment))
	if err != nil {
		return lr.Parsef("malformed molecule: %v", err)
	}
	mol := xmlquery.QuerySelector(doc, moleculeExpr)
	if mol == nil {
		return lr.Parsef("no molecule element")
	}

	m, err := decodeMolecule(lr, opts.Alphabet(), mol)
	if err != nil {
		return err
	}

	base.EmitText(id, m.id)
	base.EmitSequence(seq, m.residues)
	base.EmitStructure(structure, m.symbols)
	base.EmitPairs(bpp, m.partner)
	if m.hasEnergy && !structfile.IsDiscard(energy) {
		energy.SetFloat(m.energy)
	}
	base.EmitText(comment, strings.Join(m.comments, "\n"))
	if m.hasOffset && !structfile.IsDiscard(offset) {
		offset.SetOffset(m.offset)
	}
	return nil
}

// nextMolecule skips to the next <molecule> element and returns its markup.
// It returns io.EOF at the end of the document.
func nextMolecule(lr *base.LineReader) (string, error) {
	var preamble strings.Builder
	for {
		chunk, err := lr.ReadTag()
		if err == io.EOF {
			if strings.TrimSpace(preamble.String()) == "" {
				return "", io.EOF
			}
			return "", lr.UnexpectedEOF("molecule")
		}
		if err != nil {
			return "", err
		}
		if i := moleculeStart(chunk); i >= 0 {
			return readMolecule(lr, chunk[i:])
		}
		if strings.Contains(chunk, documentClose) {
			return "", io.EOF
		}
		preamble.WriteString(chunk)
	}
}

func readMolecule(lr *base.LineReader, start string) (string, error) {
	var b strings.Builder
	b.WriteString(start)
	if strings.HasSuffix(start, "/>") {
		return b.String(), nil
	}
	for {
		chunk, err := lr.ReadTag()
		if err == io.EOF {
			return "", lr.UnexpectedEOF("molecule")
		}
		if err != nil {
			return "", err
		}
		b.WriteString(chunk)
		if strings.HasSuffix(chunk, moleculeClose) {
			return b.String(), nil
		}
		if !strings.HasSuffix(chunk, ">") {
			return "", lr.UnexpectedEOF("molecule")
		}
	}
}

// moleculeStart returns the index of a <molecule> start tag in chunk, or -1.
func moleculeStart(chunk string) int {
	for off := 0; ; {
		i := strings.Index(chunk[off:], moleculeOpen)
		if i < 0 {
			return -1
		}
		i += off
		end := i + len(moleculeOpen)
		if end < len(chunk) && strings.IndexByte(" \t\r\n/>", chunk[end]) >= 0 {
			return i
		}
		off = end
	}
}

type molecule struct {
	id        string
	residues  []alphabet.Nucleotide
	symbols   []alphabet.WUSS
	partner   []int
	comments  []string
	energy    float64
	hasEnergy bool
	offset    uint64
	hasOffset bool
}

func decodeMolecule(lr *base.LineReader, alph alphabet.Alphabet, mol *xmlquery.Node) (*molecule, error) {
	m := &molecule{}
	if n := xmlquery.QuerySelector(mol, nameExpr); n != nil {
		m.id = strings.TrimSpace(n.InnerText())
	}
	if m.id == "" {
		m.id = mol.SelectAttr("id")
	}

	data := xmlquery.QuerySelector(mol, seqDataExpr)
	if data == nil {
		return nil, lr.Parsef("molecule %q has no seq-data", m.id)
	}
	var err error
	if m.residues, err = lr.DecodeResidues(alph, cleanSequence(data.InnerText()), nil); err != nil {
		return nil, err
	}
	if len(m.residues) == 0 {
		return nil, lr.Parsef("molecule %q has an empty sequence", m.id)
	}

	first := 1
	if n := xmlquery.QuerySelector(mol, numberingExpr); n != nil {
		if fields := strings.Fields(n.InnerText()); len(fields) > 0 {
			v, err := lr.ParseInt("numbering", fields[0])
			if err != nil {
				return nil, err
			}
			first = v
			m.offset = uint64(max(v-1, 0))
			m.hasOffset = true
		}
	}

	if n := xmlquery.QuerySelector(mol, energyExpr); n != nil {
		if m.energy, err = lr.ParseFloat("energy", n.InnerText()); err != nil {
			return nil, err
		}
		m.hasEnergy = true
	}

	for _, n := range xmlquery.QuerySelectorAll(mol, commentExpr) {
		if text := strings.TrimSpace(n.InnerText()); text != "" {
			m.comments = append(m.comments, text)
		}
	}

	m.partner = make([]int, len(m.residues))
	for i := range m.partner {
		m.partner[i] = -1
	}
	for _, bp := range xmlquery.QuerySelectorAll(mol, basePairExpr) {
		i, err := position(lr, bp, pos5Expr, first, len(m.residues))
		if err != nil {
			return nil, err
		}
		j, err := position(lr, bp, pos3Expr, first, len(m.residues))
		if err != nil {
			return nil, err
		}
		switch {
		case i == j:
			return nil, lr.Parsef("position %d pairs with itself", i+first)
		case m.partner[i] >= 0 || m.partner[j] >= 0:
			return nil, lr.Parsef("pair %d-%d reuses a paired position", i+first, j+first)
		}
		m.partner[i], m.partner[j] = j, i
	}
	if m.symbols, err = alphabet.FromPairs(m.partner); err != nil {
		return nil, lr.PairingError(err)
	}
	return m, nil
}

// position resolves one end of a base pair to a 0-based index.
func position(lr *base.LineReader, bp *xmlquery.Node, expr *xpath.Expr, first, n int) (int, error) {
	node := xmlquery.QuerySelector(bp, expr)
	if node == nil {
		return 0, lr.Parsef("base-pair without %s", expr.String())
	}
	p, err := lr.ParseInt("position", node.InnerText())
	if err != nil {
		return 0, err
	}
	if p < first || p-first >= n {
		return 0, lr.Parsef("position %d is outside the molecule", p)
	}
	return p - first, nil
}

// cleanSequence drops the whitespace and position numbers that formatted
// seq-data may contain.
func cleanSequence(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ', r == '\t', r == '\r', r == '\n', r >= '0' && r <= '9':
			return -1
		}
		return r
	}, s)
}

// Write writes rec as one <molecule> element. Records written in a row
// form a molecule sequence that Read accepts with or without an enclosing
// <rnaml> element. A numbering table is written only for records with a
// non-zero offset.
func Write(w io.Writer, rec *structfile.Record) error {
	seq := rec.Sequence()
	if len(seq) == 0 {
		return errors.NewValidation("seq", "record has no sequence")
	}
	var partner []int
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

	bw := bufio.NewWriter(w)
	id := escape(rec.ID.String())
	if id != "" {
		fmt.Fprintf(bw, "<molecule id=\"%s\">\n", id)
		fmt.Fprintf(bw, "  <identity><name>%s</name></identity>\n", id)
	} else {
		bw.WriteString("<molecule>\n")
	}

	bw.WriteString("  <sequence>\n")
	first := int(rec.Offset) + 1
	if rec.Offset > 0 {
		fmt.Fprintf(bw, "    <numbering-table length=\"%d\">", len(seq))
		for i := range seq {
			if i > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%d", first+i)
		}
		bw.WriteString("</numbering-table>\n")
	}
	fmt.Fprintf(bw, "    <seq-data>%s</seq-data>\n", seq)
	bw.WriteString("  </sequence>\n")

	if rec.Energy.Valid || hasPairs(partner) {
		bw.WriteString("  <structure>\n    <model>\n")
		if rec.Energy.Valid {
			fmt.Fprintf(bw, "      <free-energy>%.2f</free-energy>\n", rec.Energy.Value)
		}
		if hasPairs(partner) {
			bw.WriteString("      <str-annotation>\n")
			for i, j := range partner {
				if j <= i {
					continue
				}
				fmt.Fprintf(bw, "        <base-pair>"+
					"<base-id-5p><base-id><position>%d</position></base-id></base-id-5p>"+
					"<base-id-3p><base-id><position>%d</position></base-id></base-id-3p>"+
					"</base-pair>\n", i+first, j+first)
			}
			bw.WriteString("      </str-annotation>\n")
		}
		bw.WriteString("    </model>\n  </structure>\n")
	}

	if rec.Comment != "" {
		for _, c := range strings.Split(rec.Comment.String(), "\n") {
			fmt.Fprintf(bw, "  <comment>%s</comment>\n", escape(c))
		}
	}
	bw.WriteString("</molecule>\n")
	if err := bw.Flush(); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}

func hasPairs(partner []int) bool {
	for _, j := range partner {
		if j >= 0 {
			return true
		}
	}
	return false
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
