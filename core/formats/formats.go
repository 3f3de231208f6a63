// Package formats lists the built-in structure file formats.
package formats

import (
	"io"
	"sort"

	"github.com/FocuswithJustin/structfile/core/formats/bpseq"
	"github.com/FocuswithJustin/structfile/core/formats/ct"
	"github.com/FocuswithJustin/structfile/core/formats/rnaml"
	"github.com/FocuswithJustin/structfile/core/formats/vienna"
	"github.com/FocuswithJustin/structfile/core/structfile"
)

// WriteFunc writes one record in a format.
type WriteFunc func(w io.Writer, rec *structfile.Record) error

var writers = map[string]WriteFunc{
	vienna.Name: vienna.Write,
	bpseq.Name:  bpseq.Write,
	ct.Name:     ct.Write,
	rnaml.Name:  rnaml.Write,
}

// Default returns the built-in formats in order of preference: Vienna,
// BPSEQ, CT and RNAML.
func Default() structfile.FormatList {
	return structfile.NewFormatList(
		vienna.Format{},
		bpseq.Format{},
		ct.Format{},
		rnaml.Format{},
	)
}

// Writer returns the writer of the named format.
func Writer(name string) (WriteFunc, bool) {
	w, ok := writers[name]
	return w, ok
}

// WriterNames returns the names of the formats that can be written, sorted.
func WriterNames() []string {
	names := make([]string, 0, len(writers))
	for name := range writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
