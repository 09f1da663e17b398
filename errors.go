package flatfile

import (
	"errors"
	"reflect"
)

var (
	// ErrShortRecord indicates the stream ended in the middle of a
	// record. No further records can be read from the stream.
	ErrShortRecord = errors.New("flatfile: stream ended mid-record")

	// ErrWidthMismatch indicates a record passed to a Writer whose
	// length differs from the writer's width. Nothing is written.
	ErrWidthMismatch = errors.New("flatfile: record length does not match writer width")

	// ErrInvalidRange indicates a byte range that is negative or
	// empty: a field whose End does not exceed its Start, or a Reader
	// or Writer constructed with a non-positive record width.
	ErrInvalidRange = errors.New("flatfile: invalid byte range")

	// ErrOverlappingField indicates a field whose byte range overlaps
	// one already registered in the FieldMap.
	ErrOverlappingField = errors.New("flatfile: field ranges overlap")

	// ErrDuplicateField indicates a field whose name is already
	// registered in the FieldMap.
	ErrDuplicateField = errors.New("flatfile: field name already registered")

	// ErrUnknownField indicates a field name with no entry in the
	// FieldMap.
	ErrUnknownField = errors.New("flatfile: field not present in map")

	// ErrOutOfBounds indicates a field range that extends past the end
	// of the record being decoded or encoded.
	ErrOutOfBounds = errors.New("flatfile: field range exceeds record length")

	// ErrFieldTooWide indicates an encoded value longer than its
	// field's byte range. Values are never silently truncated.
	ErrFieldTooWide = errors.New("flatfile: encoded value exceeds field width")

	// ErrInvalidEncoding indicates a record requested as text that is
	// not valid UTF-8.
	ErrInvalidEncoding = errors.New("flatfile: record is not valid UTF-8")
)

// An InvalidUnmarshalError describes an invalid argument passed to
// Unmarshal. (The argument to Unmarshal must be a non-nil pointer.)
type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "flatfile: Unmarshal(nil)"
	}
	if e.Type.Kind() != reflect.Ptr {
		return "flatfile: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "flatfile: Unmarshal(nil " + e.Type.String() + ")"
}

// A ParseError describes a field value that could not be converted to
// its Go type during decoding.
type ParseError struct {
	Value  string       // the raw field value, padding trimmed
	Type   reflect.Type // type of Go value it could not be assigned to
	Struct string       // name of the struct type containing the field
	Field  string       // name of the field holding the Go value
	Cause  error        // original error
}

func (e *ParseError) Error() string {
	var s string
	if e.Struct != "" || e.Field != "" {
		s = "flatfile: cannot parse " + e.Value + " into field " + e.Struct + "." + e.Field + " of type " + e.Type.String()
	} else {
		s = "flatfile: cannot parse " + e.Value + " into value of type " + e.Type.String()
	}
	if e.Cause != nil {
		return s + ": " + e.Cause.Error()
	}
	return s
}

func (e *ParseError) Unwrap() error { return e.Cause }

// A FormatError describes a field value that could not be rendered to
// bytes during encoding.
type FormatError struct {
	Struct string // name of the struct type containing the field
	Field  string // name of the field holding the Go value
	Cause  error  // original error
}

func (e *FormatError) Error() string {
	s := "flatfile: cannot format field " + e.Struct + "." + e.Field
	if e.Cause != nil {
		return s + ": " + e.Cause.Error()
	}
	return s
}

func (e *FormatError) Unwrap() error { return e.Cause }

// A MarshalInvalidTypeError describes an invalid type being marshaled.
type MarshalInvalidTypeError struct {
	typeName string
}

func (e *MarshalInvalidTypeError) Error() string {
	return "flatfile: cannot marshal unknown type " + e.typeName
}
