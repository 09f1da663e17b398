package flatfile

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
)

const defaultPad = ' '

// Justify is the side a field's value is aligned to within its byte
// range. Padding is applied on the opposite side.
type Justify int

const (
	// JustifyLeft aligns the value to the left and pads on the right.
	// This is the default for all fields.
	JustifyLeft Justify = iota
	// JustifyRight aligns the value to the right and pads on the
	// left, as is conventional for numeric fields.
	JustifyRight
)

// A Field describes one field's location and padding policy within a
// record. The byte range [Start, End) is relative to the start of the
// record. A zero Pad means ASCII space.
type Field struct {
	Name    string
	Start   int
	End     int
	Pad     byte
	Justify Justify
}

func (f Field) width() int { return f.End - f.Start }

func (f Field) pad() byte {
	if f.Pad == 0 {
		return defaultPad
	}
	return f.Pad
}

// key is the name the field is registered and decoded under. Unnamed
// fields use their byte range, e.g. "8..10".
func (f Field) key() string {
	if f.Name != "" {
		return f.Name
	}
	return strconv.Itoa(f.Start) + ".." + strconv.Itoa(f.End)
}

func (f Field) overlaps(g Field) bool {
	return f.Start < g.End && g.Start < f.End
}

// rawSlice extracts the field's bytes from a record, padding included.
func (f Field) rawSlice(record []byte) ([]byte, error) {
	if f.End > len(record) {
		return nil, errors.Wrapf(ErrOutOfBounds, "field %s [%d,%d) in record of %d bytes", f.key(), f.Start, f.End, len(record))
	}
	return record[f.Start:f.End], nil
}

// slice extracts the field's bytes from a record and trims its
// padding.
func (f Field) slice(record []byte) ([]byte, error) {
	raw, err := f.rawSlice(record)
	if err != nil {
		return nil, err
	}
	return f.trim(raw), nil
}

// trim strips padding from a decoded field value. ASCII space is
// trimmed from both ends regardless of the configured pad byte; a
// non-space pad byte is trimmed only from the side it is applied on,
// so zero-filled numeric fields keep their significant digits.
func (f Field) trim(b []byte) []byte {
	b = bytes.Trim(b, " ")
	if p := f.pad(); p != ' ' {
		if f.Justify == JustifyRight {
			b = bytes.TrimLeft(b, string(p))
		} else {
			b = bytes.TrimRight(b, string(p))
		}
	}
	return b
}

// place pads value to the field's width and copies it into record.
func (f Field) place(value, record []byte) error {
	if len(value) > f.width() {
		return errors.Wrapf(ErrFieldTooWide, "field %s: value is %d bytes, width is %d", f.key(), len(value), f.width())
	}
	if f.End > len(record) {
		return errors.Wrapf(ErrOutOfBounds, "field %s [%d,%d) in record of %d bytes", f.key(), f.Start, f.End, len(record))
	}
	dst := record[f.Start:f.End]
	for i := range dst {
		dst[i] = f.pad()
	}
	if f.Justify == JustifyRight {
		copy(dst[f.width()-len(value):], value)
	} else {
		copy(dst, value)
	}
	return nil
}

// A FieldMap is an ordered collection of Fields describing a whole
// record layout. Ranges may leave gaps but must not overlap; gaps are
// ignored on decode and filled with the map's fill byte on encode.
type FieldMap struct {
	fields []Field
	index  map[string]int
	fill   byte
}

// NewFieldMap returns an empty FieldMap with a space fill byte.
func NewFieldMap() *FieldMap {
	return &FieldMap{index: make(map[string]int), fill: defaultPad}
}

// SetFill configures the byte used on encode for record positions not
// covered by any field.
func (m *FieldMap) SetFill(b byte) {
	m.fill = b
}

func (m *FieldMap) fillByte() byte {
	if m.fill == 0 {
		return defaultPad
	}
	return m.fill
}

// Add registers a field. It fails with ErrInvalidRange for an empty or
// negative range, ErrOverlappingField if the range overlaps a
// registered field, and ErrDuplicateField if the name is taken.
func (m *FieldMap) Add(f Field) error {
	if f.Start < 0 || f.End <= f.Start {
		return errors.Wrapf(ErrInvalidRange, "field %s [%d,%d)", f.key(), f.Start, f.End)
	}
	for _, g := range m.fields {
		if f.overlaps(g) {
			return errors.Wrapf(ErrOverlappingField, "field %s [%d,%d) overlaps %s [%d,%d)", f.key(), f.Start, f.End, g.key(), g.Start, g.End)
		}
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if _, ok := m.index[f.key()]; ok {
		return errors.Wrapf(ErrDuplicateField, "field %s", f.key())
	}
	m.index[f.key()] = len(m.fields)
	m.fields = append(m.fields, f)
	return nil
}

// Lookup returns the field registered under name, or ErrUnknownField.
func (m *FieldMap) Lookup(name string) (Field, error) {
	i, ok := m.index[name]
	if !ok {
		return Field{}, errors.Wrapf(ErrUnknownField, "field %s", name)
	}
	return m.fields[i], nil
}

// Fields returns the registered fields in registration order.
func (m *FieldMap) Fields() []Field {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// Width is the record width implied by the map: the largest field end
// offset.
func (m *FieldMap) Width() int {
	var w int
	for _, f := range m.fields {
		if f.End > w {
			w = f.End
		}
	}
	return w
}
