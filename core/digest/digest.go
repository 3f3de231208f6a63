// Package digest computes BLAKE3 content digests of structure records. The
// digest of a record covers its residues and structure symbols only, so the
// same molecule read from different formats gets the same digest.
package digest

import (
	"encoding/hex"
	"hash"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/structfile/core/structfile"
)

// Size is the length of a hex digest.
const Size = 64

// Bytes returns the hex BLAKE3-256 digest of data.
func Bytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Sum returns the digest of a sequence and its dot-bracket structure.
func Sum(seq, structure string) string {
	buf := make([]byte, 0, len(seq)+1+len(structure))
	buf = append(buf, seq...)
	buf = append(buf, '\n')
	buf = append(buf, structure...)
	return Bytes(buf)
}

// Record returns the digest of rec. Records read without a structure hash
// their sequence against an empty structure.
func Record(rec *structfile.Record) string {
	return Sum(rec.Sequence().String(), rec.Structures().String())
}

// Stream accumulates the record digests of a whole file.
type Stream struct {
	h hash.Hash
	n int
}

// NewStream returns an empty Stream.
func NewStream() *Stream {
	return &Stream{h: blake3.New()}
}

// Add folds the digest of rec into the stream and returns it.
func (s *Stream) Add(rec *structfile.Record) string {
	d := Record(rec)
	s.h.Write([]byte(d))
	s.n++
	return d
}

// Count returns the number of records added.
func (s *Stream) Count() int { return s.n }

// Sum returns the digest over every record added so far, in order.
func (s *Stream) Sum() string {
	return hex.EncodeToString(s.h.Sum(nil))
}
