// Package flatfile reads and writes fixed-width record data.
//
// A fixed-width file is a byte stream in which every record occupies
// exactly the same number of bytes and every field occupies a fixed
// byte range within its record. Records may be separated by a line
// break or packed back to back.
//
// Reader and Writer handle record framing: slicing a stream into
// fixed-size records and emitting records with the configured line
// break. A FieldMap describes how one record decomposes into named
// byte ranges, and the encode/decode layer converts between raw
// records and Go values, either through an explicit FieldMap or
// through `fixed` struct tags.
package flatfile

// Marshaler is the interface implemented by an object that can
// marshal itself into a fixed-width field.
//
// MarshalFlatfile is provided the field width in bytes. The returned
// data must not be longer than width; shorter values are padded by the
// encoder according to the field's pad byte and justification.
type Marshaler interface {
	MarshalFlatfile(width int) (data []byte, err error)
}

// Unmarshaler is the interface implemented by an object that can
// unmarshal a fixed-width representation of itself.
//
// The data passed to UnmarshalFlatfile has already had the field's
// padding trimmed.
type Unmarshaler interface {
	UnmarshalFlatfile(data []byte) error
}

// LineBreak is the byte sequence separating records in a stream.
type LineBreak int

const (
	// LineBreakNewline separates records with \n. When reading, a
	// preceding \r is tolerated, so LF and CRLF data both parse.
	// This is the default for readers and writers.
	LineBreakNewline LineBreak = iota
	// LineBreakCRLF separates records with \r\n.
	LineBreakCRLF
	// LineBreakNone packs records back to back with no separator.
	LineBreakNone
)

// Bytes returns the bytes the Writer emits after each record.
func (lb LineBreak) Bytes() []byte {
	switch lb {
	case LineBreakNewline:
		return []byte{'\n'}
	case LineBreakCRLF:
		return []byte{'\r', '\n'}
	default:
		return nil
	}
}

// ByteWidth returns the width of the line break in bytes.
func (lb LineBreak) ByteWidth() int {
	return len(lb.Bytes())
}
