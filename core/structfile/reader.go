package structfile

import (
	"bufio"
	"context"
	"io"

	"github.com/FocuswithJustin/structfile/core/errors"
)

// Reader iterates the records of one stream. It is not safe for concurrent
// use; run one Reader per stream.
type Reader struct {
	r      *bufio.Reader
	format Format
	opts   Options
	fields FieldSet
	n      int
}

// NewReader reads records of format f from r.
func NewReader(r io.Reader, f Format, opts Options, fields FieldSet) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br, format: f, opts: opts, fields: fields}
}

// Format returns the format records are read with.
func (r *Reader) Format() Format { return r.format }

// Count returns the number of records read so far.
func (r *Reader) Count() int { return r.n }

// Next reads the next record. It returns io.EOF when the stream ends on a
// record boundary; whitespace between records is skipped.
func (r *Reader) Next() (*Record, error) {
	if err := skipSpace(r.r); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.NewIO("read", "", err)
	}
	rec, err := ReadRecord(r.format, r.r, r.opts, r.fields)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.Wrapf(err, "record %d", r.n+1)
	}
	r.n++
	return rec, nil
}

// Each calls fn for every remaining record. It stops at the first error
// from the stream or from fn, and between records when ctx is done.
func (r *Reader) Each(ctx context.Context, fn func(*Record) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

func skipSpace(r *bufio.Reader) error {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return r.UnreadByte()
	}
}
