// Package input opens structure files for reading. It handles stdin, gzip
// and xz compression, and picks the format of a stream from its extension,
// falling back to trying each format on the head of the stream.
package input

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/structfile/core/errors"
	"github.com/FocuswithJustin/structfile/core/structfile"
	"github.com/FocuswithJustin/structfile/internal/logging"
	"github.com/FocuswithJustin/structfile/internal/validation"
)

// Stdin is the path naming standard input.
const Stdin = "-"

// sniffSize is the number of bytes examined to detect compression and format.
const sniffSize = 64 << 10

// Source is an opened, decompressed input stream.
type Source struct {
	// Path is the path the source was opened from, "-" for stdin.
	Path string
	// Ext is the normalized extension with any compression suffix removed.
	Ext string
	// Compression is the detected compression of the raw stream.
	Compression validation.Compression

	r            *bufio.Reader
	file         io.Closer
	decompressor io.Closer
}

// Open opens path, or stdin for "-", and decompresses it if needed.
func Open(path string) (*Source, error) {
	if path == Stdin {
		return NewSource(io.NopCloser(os.Stdin), Stdin)
	}
	if err := validation.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("file", path)
		}
		return nil, errors.NewIO("open", path, err)
	}
	return NewSource(f, path)
}

// NewSource wraps rc, named path, detecting its compression. Closing the
// source closes rc.
func NewSource(rc io.ReadCloser, path string) (*Source, error) {
	raw := bufio.NewReaderSize(rc, sniffSize)
	head, err := raw.Peek(8)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		rc.Close()
		return nil, errors.NewIO("read", path, err)
	}

	s := &Source{
		Path:        path,
		Compression: validation.DetectCompression(head),
		file:        rc,
	}
	if path != Stdin {
		s.Ext = structfile.PathExtension(path)
	}

	var reader io.Reader = raw
	switch s.Compression {
	case validation.CompressionGzip:
		gzr, err := gzip.NewReader(raw)
		if err != nil {
			rc.Close()
			return nil, errors.NewIO("gzip reader", path, err)
		}
		reader = gzr
		s.decompressor = gzr
	case validation.CompressionXZ:
		xzr, err := xz.NewReader(raw)
		if err != nil {
			rc.Close()
			return nil, errors.NewIO("xz reader", path, err)
		}
		reader = xzr // xz reader doesn't need closing
	}
	s.r = bufio.NewReaderSize(reader, sniffSize)
	return s, nil
}

// Read reads decompressed data.
func (s *Source) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// Head returns up to sniffSize bytes of decompressed data without
// consuming them.
func (s *Source) Head() ([]byte, error) {
	head, err := s.r.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, errors.NewIO("read", s.Path, err)
	}
	return head, nil
}

// Close closes the source and any decompressor.
func (s *Source) Close() error {
	var errs []error
	if s.decompressor != nil {
		if err := s.decompressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.NewIO("close", s.Path, errs[0])
	}
	return nil
}

// Records iterates the records of an opened source.
type Records struct {
	*structfile.Reader
	Source *Source
}

// Close closes the underlying source.
func (r *Records) Close() error {
	return r.Source.Close()
}

// OpenRecords opens path and returns a record reader for it.
func OpenRecords(path string, list structfile.FormatList, opts structfile.Options, fields structfile.FieldSet) (*Records, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	f, err := Detect(src, list)
	if err != nil {
		src.Close()
		return nil, err
	}
	return &Records{
		Reader: structfile.NewReader(src.r, f, opts, fields),
		Source: src,
	}, nil
}

// Detect picks the format of src. The formats claiming its extension are
// candidates; a source without an extension, such as stdin, considers
// every listed format. With several candidates, the first one that reads a
// record from the head of the stream wins.
func Detect(src *Source, list structfile.FormatList) (structfile.Format, error) {
	candidates := list.ForExtension(src.Ext)
	if len(candidates) == 0 {
		if src.Ext != "" {
			return nil, errors.NewUnsupported("extension ."+src.Ext, "no format claims it")
		}
		candidates = list.Formats()
	}

	head, err := src.Head()
	if err != nil {
		return nil, err
	}
	if len(head) > 0 && !validation.IsLikelyText(head) {
		return nil, errors.NewUnsupported("input "+src.Path, "content is not text")
	}
	if len(candidates) == 1 {
		logging.FormatSelected(src.Path, candidates[0].Name(), 1)
		return candidates[0], nil
	}

	sample := bytes.TrimLeft(head, " \t\r\n")
	if len(sample) == 0 {
		return candidates[0], nil
	}
	truncated := len(head) == sniffSize
	for _, f := range candidates {
		_, err := structfile.ReadRecord(f, bufio.NewReader(bytes.NewReader(sample)), sniffOptions, structfile.AllFields)
		if err == nil || (truncated && errors.Is(err, errors.ErrUnexpectedEOF)) {
			logging.FormatSelected(src.Path, f.Name(), len(candidates))
			return f, nil
		}
		logging.FormatRejected(src.Path, f.Name(), err)
	}
	return nil, errors.NewUnsupported("input "+src.Path, "no format recognizes the content")
}

// sniffOptions read with RNA5, which accepts T, U and ambiguity codes, so
// detection does not depend on the caller's alphabet.
var sniffOptions = structfile.DefaultOptions()

// OpenRecordsAs opens path and reads it with format f, skipping detection.
func OpenRecordsAs(path string, f structfile.Format, opts structfile.Options, fields structfile.FieldSet) (*Records, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &Records{
		Reader: structfile.NewReader(src.r, f, opts, fields),
		Source: src,
	}, nil
}
