package structfile

import (
	"bufio"

	"github.com/FocuswithJustin/structfile/core/errors"
)

// Format reads records of one structure file format.
//
// Read consumes exactly one record from r and appends its fields to the
// sinks, which may each be Discard. The argument order is fixed:
// sequence, id, bpp, structure, energy, react, react_err, comment, offset.
// A nil error means success; on error the sinks may hold a partial record.
// Read returns io.EOF only when r holds no further record.
//
// Implementations must reject a sink layout that disagrees with
// opts.Combined (see CheckShape), and should return an UnsupportedError
// when every sink is discarded.
type Format interface {
	// Name returns the short lowercase format name.
	Name() string
	// Extensions returns the lowercase file extensions, without dots.
	Extensions() []string
	Read(r *bufio.Reader, opts Options,
		seq SeqSink, id TextSink, bpp BPPSink, structure StructureSink,
		energy, react, reactErr FloatSink, comment TextSink, offset OffsetSink) error
}

// CheckShape verifies the sequence and structure sinks against the combined
// storage flag of opts. With combined storage both sinks must be the same
// combined buffer, or both discarded; otherwise neither may be a combined
// buffer.
func CheckShape(format string, opts Options, seq SeqSink, structure StructureSink) error {
	seqCombined, seqIsCombined := seq.(combinedSink)
	strCombined, strIsCombined := structure.(combinedSink)

	if !opts.Combined() {
		if seqIsCombined || strIsCombined {
			return errors.NewShape(format, "structured sequence buffer passed without combined storage enabled")
		}
		return nil
	}

	if IsDiscard(seq) && IsDiscard(structure) {
		return nil
	}
	if !seqIsCombined || !strIsCombined {
		return errors.NewShape(format, "combined storage needs one structured sequence buffer for both sequence and structure")
	}
	if seqCombined != strCombined {
		return errors.NewShape(format, "sequence and structure must be the same structured sequence buffer")
	}
	return nil
}

// ErrAllDiscarded builds the error formats return for a read that keeps
// nothing.
func ErrAllDiscarded(format string) error {
	return errors.NewUnsupported(format+" read", "every field is discarded")
}
