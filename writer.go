package flatfile

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// A Writer writes fixed-width records to an output sink, framing each
// record with the configured line break.
//
// Output is buffered; call Flush to guarantee the records reach the
// underlying sink.
type Writer struct {
	w         *bufio.Writer
	width     int
	linebreak LineBreak
}

// NewWriter returns a Writer for records of width bytes. The line
// break defaults to LineBreakNewline.
func NewWriter(w io.Writer, width int) *Writer {
	return &Writer{
		w:         bufio.NewWriter(w),
		width:     width,
		linebreak: LineBreakNewline,
	}
}

// SetLineBreak configures the separator written after each record.
func (w *Writer) SetLineBreak(lb LineBreak) {
	w.linebreak = lb
}

// Width returns the fixed record width in bytes.
func (w *Writer) Width() int {
	return w.width
}

// Write writes one record followed by the line break. A record whose
// length differs from the writer's width fails with ErrWidthMismatch
// before anything is written; padding is the encoder's job, not the
// writer's.
func (w *Writer) Write(record []byte) error {
	if w.width <= 0 {
		return errors.Wrapf(ErrInvalidRange, "record width %d", w.width)
	}
	if len(record) != w.width {
		return errors.Wrapf(ErrWidthMismatch, "record is %d bytes, writer width is %d", len(record), w.width)
	}
	if _, err := w.w.Write(record); err != nil {
		return errors.Wrap(err, "flatfile: write record")
	}
	if _, err := w.w.Write(w.linebreak.Bytes()); err != nil {
		return errors.Wrap(err, "flatfile: write line break")
	}
	return nil
}

// WriteString writes one record given as a string.
func (w *Writer) WriteString(record string) error {
	return w.Write([]byte(record))
}

// WriteAll writes every record and flushes.
func (w *Writer) WriteAll(records [][]byte) error {
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush forces any buffered records to the underlying sink.
func (w *Writer) Flush() error {
	return errors.Wrap(w.w.Flush(), "flatfile: flush")
}
