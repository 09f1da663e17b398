package flatfile

import (
	"bytes"
	"encoding"
	"reflect"
	"strconv"
)

// Marshal returns the fixed-width encoding of v, deriving the record
// layout from `fixed` struct tags.
//
// v must be a struct or a slice of structs (pointers and interfaces
// holding either are followed). A slice is encoded one record per
// element, separated by \n with no trailing line break; use an Encoder
// over a Writer for terminator-per-record framing.
//
// Field values wider than their byte range fail with ErrFieldTooWide;
// values are never truncated. Shorter values are padded with the
// field's pad byte on the side opposite its justification. Record
// positions not covered by any field hold the layout's fill byte.
func Marshal(i interface{}) ([]byte, error) {
	if i == nil {
		return nil, nil
	}

	v := reflect.ValueOf(i)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Slice {
		return newValueEncoder(v.Type())(v, 0)
	}

	var buf bytes.Buffer
	for j := 0; j < v.Len(); j++ {
		record, err := newValueEncoder(v.Index(j).Type())(v.Index(j), 0)
		if err != nil {
			return nil, err
		}
		if j != 0 {
			buf.WriteByte('\n')
		}
		buf.Write(record)
	}
	return buf.Bytes(), nil
}

// MarshalFields encodes the struct v into a single raw record using an
// explicit FieldMap. Every exported struct field must be present in
// the map by name; a missing entry fails with ErrUnknownField.
func MarshalFields(v interface{}, m *FieldMap) ([]byte, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, &MarshalInvalidTypeError{typeName: "nil"}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, &MarshalInvalidTypeError{typeName: rv.Type().Name()}
	}

	t := rv.Type()
	record := newRecord(m.Width(), m.fillByte())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		f, err := m.Lookup(sf.Name)
		if err != nil {
			return nil, err
		}
		value, err := newValueEncoder(sf.Type)(rv.Field(i), f.width())
		if err != nil {
			return nil, &FormatError{t.Name(), sf.Name, err}
		}
		if err := f.place(value, record); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// EncodeStrings encodes a map of field name to string value into a
// single raw record. Names missing from the layout fail with
// ErrUnknownField; values wider than their field fail with
// ErrFieldTooWide.
func (m *FieldMap) EncodeStrings(values map[string]string) ([]byte, error) {
	record := newRecord(m.Width(), m.fillByte())
	for name, value := range values {
		f, err := m.Lookup(name)
		if err != nil {
			return nil, err
		}
		if err := f.place([]byte(value), record); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// newRecord returns a record buffer pre-filled with the fill byte.
func newRecord(width int, fill byte) []byte {
	record := make([]byte, width)
	for i := range record {
		record[i] = fill
	}
	return record
}

// An Encoder encodes Go values and writes them as framed records to a
// Writer.
type Encoder struct {
	w *Writer
}

// NewEncoder returns an Encoder writing records to w.
func NewEncoder(w *Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the fixed-width encoding of v to the underlying
// Writer, one framed record per value, and flushes. A slice is
// encoded one record per element. Records are sized to the Writer's
// width; a layout wider than the Writer fails with ErrOutOfBounds.
func (e *Encoder) Encode(i interface{}) error {
	if i == nil {
		return nil
	}

	v := reflect.ValueOf(i)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	if v.Kind() == reflect.Slice {
		for j := 0; j < v.Len(); j++ {
			if err := e.encodeRecord(v.Index(j)); err != nil {
				return err
			}
		}
	} else if err := e.encodeRecord(v); err != nil {
		return err
	}
	return e.w.Flush()
}

func (e *Encoder) encodeRecord(v reflect.Value) error {
	record, err := newValueEncoder(v.Type())(v, e.w.Width())
	if err != nil {
		return err
	}
	return e.w.Write(record)
}

// A valueEncoder renders one Go value to bytes. For struct values the
// width is the record width to compose into (0 means the width implied
// by the layout); for Marshaler values it is the field width.
type valueEncoder func(v reflect.Value, width int) ([]byte, error)

var (
	marshalerType     = reflect.TypeOf(new(Marshaler)).Elem()
	textMarshalerType = reflect.TypeOf(new(encoding.TextMarshaler)).Elem()
)

func newValueEncoder(t reflect.Type) valueEncoder {
	if t == nil {
		return nilEncoder
	}
	if t.Implements(marshalerType) {
		return marshalerEncoder
	}
	if t.Implements(textMarshalerType) {
		return textMarshalerEncoder
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Interface:
		return ptrInterfaceEncoder
	case reflect.Struct:
		return structEncoder
	case reflect.String:
		return stringEncoder
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8:
		return intEncoder
	case reflect.Uint, reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8:
		return uintEncoder
	case reflect.Float64:
		return floatEncoder(2, 64)
	case reflect.Float32:
		return floatEncoder(2, 32)
	case reflect.Bool:
		return boolEncoder
	}
	return unknownTypeEncoder(t)
}

// structEncoder composes a whole record from the struct's tagged
// fields.
func structEncoder(v reflect.Value, width int) ([]byte, error) {
	ss, err := cachedStructSpec(v.Type())
	if err != nil {
		return nil, err
	}
	if width == 0 {
		width = ss.fm.Width()
	}

	record := newRecord(width, ss.fm.fillByte())
	for i, spec := range ss.specs {
		if !spec.ok {
			continue
		}
		value, err := spec.encoder(v.Field(i), spec.field.width())
		if err != nil {
			return nil, &FormatError{v.Type().Name(), spec.name, err}
		}
		if err := spec.field.place(value, record); err != nil {
			return nil, err
		}
	}
	return record, nil
}

func marshalerEncoder(v reflect.Value, width int) ([]byte, error) {
	return v.Interface().(Marshaler).MarshalFlatfile(width)
}

func textMarshalerEncoder(v reflect.Value, _ int) ([]byte, error) {
	return v.Interface().(encoding.TextMarshaler).MarshalText()
}

func ptrInterfaceEncoder(v reflect.Value, width int) ([]byte, error) {
	if v.IsNil() {
		return nilEncoder(v, width)
	}
	return newValueEncoder(v.Elem().Type())(v.Elem(), width)
}

func stringEncoder(v reflect.Value, _ int) ([]byte, error) {
	return []byte(v.String()), nil
}

func intEncoder(v reflect.Value, _ int) ([]byte, error) {
	return strconv.AppendInt(nil, v.Int(), 10), nil
}

func uintEncoder(v reflect.Value, _ int) ([]byte, error) {
	return strconv.AppendUint(nil, v.Uint(), 10), nil
}

func floatEncoder(prec, bitSize int) valueEncoder {
	return func(v reflect.Value, _ int) ([]byte, error) {
		return strconv.AppendFloat(nil, v.Float(), 'f', prec, bitSize), nil
	}
}

func boolEncoder(v reflect.Value, _ int) ([]byte, error) {
	return strconv.AppendBool(nil, v.Bool()), nil
}

func nilEncoder(_ reflect.Value, _ int) ([]byte, error) {
	return nil, nil
}

func unknownTypeEncoder(t reflect.Type) valueEncoder {
	return func(_ reflect.Value, _ int) ([]byte, error) {
		return nil, &MarshalInvalidTypeError{typeName: t.Name()}
	}
}
