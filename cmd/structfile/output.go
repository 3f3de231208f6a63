package main

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/FocuswithJustin/structfile/core/digest"
	"github.com/FocuswithJustin/structfile/core/errors"
	"github.com/FocuswithJustin/structfile/core/formats"
	"github.com/FocuswithJustin/structfile/core/structfile"
)

// encoder prints records in one output representation.
type encoder struct {
	w      *bufio.Writer
	encode func(*structfile.Record) error
}

func (e *encoder) flush() error {
	if err := e.w.Flush(); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}

func newEncoder(name string, out io.Writer) (*encoder, error) {
	e := &encoder{w: bufio.NewWriter(out)}
	switch name {
	case "json":
		enc := json.NewEncoder(e.w)
		e.encode = func(rec *structfile.Record) error { return enc.Encode(newJSONRecord(rec)) }
	case "tsv":
		cw := csv.NewWriter(e.w)
		cw.Comma = '\t'
		header := false
		e.encode = func(rec *structfile.Record) error {
			if !header {
				header = true
				cw.Write(tsvColumns)
			}
			cw.Write(tsvRow(rec))
			cw.Flush()
			return cw.Error()
		}
	default:
		write, ok := formats.Writer(name)
		if !ok {
			return nil, errors.NewUnsupported("output "+name, "no writer for this format")
		}
		e.encode = func(rec *structfile.Record) error { return write(e.w, rec) }
	}
	return e, nil
}

type jsonPair struct {
	Partner int     `json:"partner"`
	Prob    float64 `json:"prob"`
}

type jsonRecord struct {
	Format    string       `json:"format"`
	Digest    string       `json:"digest,omitempty"`
	ID        *string      `json:"id,omitempty"`
	Seq       *string      `json:"seq,omitempty"`
	Structure *string      `json:"structure,omitempty"`
	BPP       [][]jsonPair `json:"bpp,omitempty"`
	Energy    *float64     `json:"energy,omitempty"`
	React     *float64     `json:"react,omitempty"`
	ReactErr  *float64     `json:"react_err,omitempty"`
	Comment   *string      `json:"comment,omitempty"`
	Offset    *uint64      `json:"offset,omitempty"`
}

// newJSONRecord keeps the requested fields. Scalars a format did not set
// are left out.
func newJSONRecord(rec *structfile.Record) jsonRecord {
	out := jsonRecord{Format: rec.Format}
	has := func(f structfile.Field) bool { return rec.Fields.Has(f) }
	str := func(s string) *string { return &s }
	float := func(f structfile.Float) *float64 {
		if !f.Valid {
			return nil
		}
		return &f.Value
	}

	seqWanted := has(structfile.FieldSeq) || has(structfile.FieldStructuredSeq)
	strWanted := has(structfile.FieldStructure) || has(structfile.FieldStructuredSeq)
	if seqWanted {
		out.Seq = str(rec.Sequence().String())
	}
	if strWanted {
		out.Structure = str(rec.Structures().String())
	}
	if seqWanted && strWanted {
		out.Digest = digest.Record(rec)
	}
	if has(structfile.FieldID) {
		out.ID = str(rec.ID.String())
	}
	if has(structfile.FieldComment) {
		out.Comment = str(rec.Comment.String())
	}
	if has(structfile.FieldBPP) {
		out.BPP = make([][]jsonPair, len(rec.BPP))
		for i, ps := range rec.BPP {
			out.BPP[i] = make([]jsonPair, 0, len(ps))
			for _, p := range ps.Sorted() {
				out.BPP[i] = append(out.BPP[i], jsonPair{Partner: p.Partner, Prob: p.Prob})
			}
		}
	}
	out.Energy = float(rec.Energy)
	out.React = float(rec.React)
	out.ReactErr = float(rec.ReactErr)
	if has(structfile.FieldOffset) {
		off := uint64(rec.Offset)
		out.Offset = &off
	}
	return out
}

var tsvColumns = []string{"format", "id", "offset", "energy", "sequence", "structure"}

func tsvRow(rec *structfile.Record) []string {
	energy := ""
	if rec.Energy.Valid {
		energy = strconv.FormatFloat(rec.Energy.Value, 'f', -1, 64)
	}
	return []string{
		rec.Format,
		rec.ID.String(),
		strconv.FormatUint(uint64(rec.Offset), 10),
		energy,
		rec.Sequence().String(),
		rec.Structures().String(),
	}
}
