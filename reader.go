package flatfile

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// A Reader reads successive fixed-width records from an input stream.
//
// The reader is single-pass and stateful: every call to Next advances
// the underlying stream, and there is no rewind. Construct a fresh
// Reader to re-read a source from the start.
type Reader struct {
	r         *bufio.Reader
	width     int
	linebreak LineBreak
	done      bool
}

// NewReader returns a Reader that slices r into records of width
// bytes. The line break defaults to LineBreakNewline, which also
// handles CRLF and terminator-less input.
func NewReader(r io.Reader, width int) *Reader {
	return &Reader{
		r:         bufio.NewReader(r),
		width:     width,
		linebreak: LineBreakNewline,
	}
}

// SetLineBreak configures the record separator the reader skips after
// each record. LineBreakNone disables skipping entirely.
func (r *Reader) SetLineBreak(lb LineBreak) {
	r.linebreak = lb
}

// Width returns the fixed record width in bytes.
func (r *Reader) Width() int {
	return r.width
}

// Next returns the next record, always exactly Width bytes in a
// freshly allocated slice. It returns io.EOF when the source is
// exhausted at a record boundary, and ErrShortRecord when the source
// ends mid-record. After ErrShortRecord or an IO failure the reader is
// done; subsequent calls return io.EOF.
func (r *Reader) Next() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}
	if r.width <= 0 {
		r.done = true
		return nil, errors.Wrapf(ErrInvalidRange, "record width %d", r.width)
	}

	record := make([]byte, r.width)
	n, err := io.ReadFull(r.r, record)
	switch err {
	case nil:
	case io.EOF:
		r.done = true
		return nil, io.EOF
	case io.ErrUnexpectedEOF:
		r.done = true
		return nil, errors.Wrapf(ErrShortRecord, "%d of %d bytes", n, r.width)
	default:
		r.done = true
		return nil, errors.Wrap(err, "flatfile: read record")
	}

	if err := r.skipLineBreak(); err != nil {
		r.done = true
		return nil, err
	}
	return record, nil
}

// NextString returns the next record decoded as UTF-8 text. The record
// is consumed either way; invalid text fails with ErrInvalidEncoding
// without ending the sequence.
func (r *Reader) NextString() (string, error) {
	record, err := r.Next()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(record) {
		return "", ErrInvalidEncoding
	}
	return string(record), nil
}

// ReadAll consumes the remaining records. It returns the records read
// before any failure along with the error.
func (r *Reader) ReadAll() ([][]byte, error) {
	var records [][]byte
	for {
		record, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

// ReadAllStrings is ReadAll with every record decoded as UTF-8 text.
func (r *Reader) ReadAllStrings() ([]string, error) {
	var records []string
	for {
		record, err := r.NextString()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

// skipLineBreak discards the separator following a record, if present.
// A missing separator is not an error: the next record may begin
// immediately, and end of input may follow the final record directly.
func (r *Reader) skipLineBreak() error {
	if r.linebreak == LineBreakNone {
		return nil
	}

	peek, err := r.r.Peek(2)
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "flatfile: read line break")
	}

	switch r.linebreak {
	case LineBreakCRLF:
		if len(peek) == 2 && peek[0] == '\r' && peek[1] == '\n' {
			_, _ = r.r.Discard(2)
		}
	default:
		if len(peek) >= 1 && peek[0] == '\n' {
			_, _ = r.r.Discard(1)
		} else if len(peek) == 2 && peek[0] == '\r' && peek[1] == '\n' {
			_, _ = r.r.Discard(2)
		}
	}
	return nil
}
