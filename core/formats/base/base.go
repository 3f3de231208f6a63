// Package base provides common functionality for structure file formats.
// It reduces code duplication by abstracting the line handling, numeric
// parsing and pairing conversions shared by the format readers.
package base

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/structfile/core/alphabet"
	"github.com/FocuswithJustin/structfile/core/errors"
	"github.com/FocuswithJustin/structfile/core/structfile"
)

// LineReader reads the lines of one record and tracks the line number for
// error messages.
type LineReader struct {
	r      *bufio.Reader
	format string
	line   int
}

// NewLineReader wraps r for the named format.
func NewLineReader(r *bufio.Reader, format string) *LineReader {
	return &LineReader{r: r, format: format}
}

// Line returns the number of lines consumed so far.
func (lr *LineReader) Line() int { return lr.line }

// Format returns the format name used in errors.
func (lr *LineReader) Format() string { return lr.format }

// ReadLine returns the next line without its line terminator. It returns
// io.EOF only when no bytes remain; other read failures become IOErrors.
func (lr *LineReader) ReadLine() (string, error) {
	s, err := lr.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.NewIO("read", "", err)
	}
	if err == io.EOF && s == "" {
		return "", io.EOF
	}
	lr.line++
	return strings.TrimRight(s, "\r\n"), nil
}

// ReadTag returns the text up to and including the next '>', for markup
// formats that are split on tag boundaries. At the end of the stream it
// returns the remaining text, or io.EOF when nothing remains.
func (lr *LineReader) ReadTag() (string, error) {
	s, err := lr.r.ReadString('>')
	if err != nil && err != io.EOF {
		return "", errors.NewIO("read", "", err)
	}
	if err == io.EOF && s == "" {
		return "", io.EOF
	}
	lr.line += strings.Count(s, "\n")
	return s, nil
}

// PeekByte returns the next byte without consuming it.
func (lr *LineReader) PeekByte() (byte, error) {
	b, err := lr.r.Peek(1)
	if err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, errors.NewIO("read", "", err)
	}
	return b[0], nil
}

// Parsef builds a ParseError at the current line.
func (lr *LineReader) Parsef(msg string, args ...interface{}) error {
	return errors.NewParsef(lr.format, lr.line, msg, args...)
}

// UnexpectedEOF builds an UnexpectedEOFError for field at the current line.
func (lr *LineReader) UnexpectedEOF(field string) error {
	return errors.NewUnexpectedEOF(lr.format, field, lr.line)
}

// Require returns the next line, turning io.EOF into UnexpectedEOF(field).
func (lr *LineReader) Require(field string) (string, error) {
	s, err := lr.ReadLine()
	if err == io.EOF {
		return "", lr.UnexpectedEOF(field)
	}
	return s, err
}

// CheckSinks runs the checks every format performs before consuming input:
// the combined storage shape and the all-discard usage error.
func CheckSinks(format string, opts structfile.Options,
	seq structfile.SeqSink, id structfile.TextSink, bpp structfile.BPPSink, structure structfile.StructureSink,
	energy, react, reactErr structfile.FloatSink, comment structfile.TextSink, offset structfile.OffsetSink) error {
	if structfile.AllDiscarded(seq, id, bpp, structure, energy, react, reactErr, comment, offset) {
		return structfile.ErrAllDiscarded(format)
	}
	return structfile.CheckShape(format, opts, seq, structure)
}

// DecodeResidues decodes the residue characters of text through alph and
// returns them. Whitespace is skipped; any other illegal character is a
// parse error.
func (lr *LineReader) DecodeResidues(alph alphabet.Alphabet, text string, dst []alphabet.Nucleotide) ([]alphabet.Nucleotide, error) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == ' ' || c == '\t' {
			continue
		}
		n, ok := alph.Decode(c)
		if !ok {
			return dst, lr.Parsef("character %q is not legal in alphabet %s", c, alph.Name())
		}
		dst = append(dst, n)
	}
	return dst, nil
}

// DecodeStructure parses the structure characters of text.
func (lr *LineReader) DecodeStructure(text string, dst []alphabet.WUSS) ([]alphabet.WUSS, error) {
	for i := 0; i < len(text); i++ {
		w, ok := alphabet.ParseWUSS(text[i])
		if !ok {
			return dst, lr.Parsef("invalid structure symbol %q", text[i])
		}
		dst = append(dst, w)
	}
	return dst, nil
}

// PairingError converts an alphabet pairing error into a parse error.
func (lr *LineReader) PairingError(err error) error {
	return &errors.ParseError{Format: lr.format, Line: lr.line, Message: err.Error(), Err: err}
}

// ParseFloat parses a floating point field. Out of range values are
// OverflowErrors, malformed ones ParseErrors.
func (lr *LineReader) ParseFloat(field, text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		if isRange(err) {
			return 0, errors.NewOverflow(lr.format, field, text, err)
		}
		return 0, lr.Parsef("invalid %s %q", field, text)
	}
	return v, nil
}

// ParseInt parses a non-negative integer field that must fit an int.
func (lr *LineReader) ParseInt(field, text string) (int, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(text), 10, strconv.IntSize-1)
	if err != nil {
		if isRange(err) {
			return 0, errors.NewOverflow(lr.format, field, text, err)
		}
		return 0, lr.Parsef("invalid %s %q", field, text)
	}
	return int(v), nil
}

func isRange(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// EmitSequence appends residues to sink unless it is discarded.
func EmitSequence(sink structfile.SeqSink, seq []alphabet.Nucleotide) {
	if structfile.IsDiscard(sink) {
		return
	}
	for _, n := range seq {
		sink.AppendResidue(n)
	}
}

// EmitStructure appends structure symbols to sink unless it is discarded.
func EmitStructure(sink structfile.StructureSink, structure []alphabet.WUSS) {
	if structfile.IsDiscard(sink) {
		return
	}
	for _, w := range structure {
		sink.AppendStructure(w)
	}
}

// EmitPairs appends one pair set per position derived from a partner table:
// a paired position gets its partner with probability 1, an unpaired one an
// empty set.
func EmitPairs(sink structfile.BPPSink, partner []int) {
	if structfile.IsDiscard(sink) {
		return
	}
	for _, j := range partner {
		var ps structfile.PairSet
		if j >= 0 {
			ps.Add(structfile.Pair{Prob: 1, Partner: j})
		}
		sink.AppendPairs(ps)
	}
}

// EmitText appends text to sink unless it is discarded or empty.
func EmitText(sink structfile.TextSink, text string) {
	if text == "" || structfile.IsDiscard(sink) {
		return
	}
	sink.AppendText(text)
}

// CheckPartners validates a partner table read from a file: partners must
// be in range, distinct from the position and symmetric.
func (lr *LineReader) CheckPartners(partner []int) error {
	for i, j := range partner {
		if j < 0 {
			continue
		}
		switch {
		case j >= len(partner):
			return lr.Parsef("position %d pairs with %d beyond the sequence end", i+1, j+1)
		case j == i:
			return lr.Parsef("position %d pairs with itself", i+1)
		case partner[j] != i:
			return lr.Parsef("pair %d-%d is not symmetric", i+1, j+1)
		}
	}
	return nil
}

// MatchExtension reports whether path carries one of exts, ignoring case
// and a compression suffix.
func MatchExtension(path string, exts []string) bool {
	ext := structfile.PathExtension(path)
	for _, valid := range exts {
		if ext == structfile.NormalizeExtension(valid) {
			return true
		}
	}
	return false
}
