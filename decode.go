package flatfile

import (
	"bytes"
	"encoding"
	"errors"
	"io"
	"reflect"
	"strconv"
)

// Unmarshal parses fixed-width data into the value pointed to by v,
// deriving the record layout from `fixed` struct tags. If v points to
// a struct, a single record is decoded; if v points to a slice, one
// record is decoded per element until the data is exhausted. The
// record width is the width implied by the tags.
func Unmarshal(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}

	t := rv.Elem().Type()
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}
	ss, err := cachedStructSpec(t)
	if err != nil {
		return err
	}

	return NewDecoder(NewReader(bytes.NewReader(data), ss.fm.Width())).Decode(v)
}

// UnmarshalFields decodes a single raw record into the struct pointed
// to by v using an explicit FieldMap. Every exported struct field must
// be present in the map by name; a missing entry fails with
// ErrUnknownField.
func UnmarshalFields(record []byte, v interface{}, m *FieldMap) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}

	el := rv.Elem()
	t := el.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		f, err := m.Lookup(sf.Name)
		if err != nil {
			return err
		}
		extract := f.slice
		if keepsPadding(sf.Type) {
			extract = f.rawSlice
		}
		raw, err := extract(record)
		if err != nil {
			return err
		}
		if err := newValueSetter(sf.Type)(el.Field(i), raw); err != nil {
			return &ParseError{string(raw), sf.Type, t.Name(), sf.Name, err}
		}
	}
	return nil
}

// DecodeStrings decodes a raw record into a map of field name to
// trimmed string value. Unnamed fields are keyed by their byte range,
// e.g. "8..10".
func (m *FieldMap) DecodeStrings(record []byte) (map[string]string, error) {
	out := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		raw, err := f.slice(record)
		if err != nil {
			return nil, err
		}
		out[f.key()] = string(raw)
	}
	return out, nil
}

// A Decoder decodes records pulled from a Reader into Go values.
type Decoder struct {
	r *Reader
}

// NewDecoder returns a Decoder reading records from r.
func NewDecoder(r *Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads from the underlying Reader and stores the decoded data
// in the value pointed to by v.
//
// If v points to a struct, Decode consumes a single record and returns
// io.EOF when no data remains. If v points to a slice, Decode consumes
// records until the Reader is exhausted.
func (d *Decoder) Decode(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}

	if rv.Elem().Kind() == reflect.Slice {
		return d.decodeAll(rv.Elem())
	}

	record, err := d.r.Next()
	if err != nil {
		return err
	}
	return decodeRecord(record, rv.Elem())
}

func (d *Decoder) decodeAll(v reflect.Value) error {
	ct := v.Type().Elem()
	for {
		record, err := d.r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		nv := reflect.New(ct).Elem()
		if err := decodeRecord(record, nv); err != nil {
			return err
		}
		v.Set(reflect.Append(v, nv))
	}
}

// decodeRecord decodes one raw record into a struct value using the
// layout derived from its tags.
func decodeRecord(record []byte, v reflect.Value) error {
	t := v.Type()
	for t.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		v = v.Elem()
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return &InvalidUnmarshalError{t}
	}

	ss, err := cachedStructSpec(t)
	if err != nil {
		return err
	}
	for i, spec := range ss.specs {
		if !spec.ok {
			continue
		}
		extract := spec.field.slice
		if spec.keepPad {
			extract = spec.field.rawSlice
		}
		raw, err := extract(record)
		if err != nil {
			return err
		}
		if err := spec.setter(v.Field(i), raw); err != nil {
			return &ParseError{string(raw), t.Field(i).Type, t.Name(), spec.name, err}
		}
	}
	return nil
}

// A valueSetter assigns the trimmed bytes of one field to a Go value.
type valueSetter func(v reflect.Value, raw []byte) error

var (
	unmarshalerType     = reflect.TypeOf(new(Unmarshaler)).Elem()
	textUnmarshalerType = reflect.TypeOf(new(encoding.TextUnmarshaler)).Elem()
)

// keepsPadding reports whether a field type consumes its full byte
// range, padding included. A nested struct record carries its own
// field offsets relative to the range start, so trimming the enclosing
// field would shift them.
func keepsPadding(t reflect.Type) bool {
	if t.Implements(unmarshalerType) || reflect.PtrTo(t).Implements(unmarshalerType) ||
		t.Implements(textUnmarshalerType) || reflect.PtrTo(t).Implements(textUnmarshalerType) {
		return false
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func newValueSetter(t reflect.Type) valueSetter {
	if t.Implements(unmarshalerType) {
		return unmarshalerSetter(t, false)
	}
	if reflect.PtrTo(t).Implements(unmarshalerType) {
		return unmarshalerSetter(t, true)
	}
	if t.Implements(textUnmarshalerType) {
		return textUnmarshalerSetter(t, false)
	}
	if reflect.PtrTo(t).Implements(textUnmarshalerType) {
		return textUnmarshalerSetter(t, true)
	}

	switch t.Kind() {
	case reflect.Ptr:
		return ptrSetter(t)
	case reflect.Interface:
		return interfaceSetter
	case reflect.Struct:
		return structSetter
	case reflect.String:
		return stringSetter
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8:
		return intSetter
	case reflect.Uint, reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8:
		return uintSetter
	case reflect.Float32:
		return floatSetter(32)
	case reflect.Float64:
		return floatSetter(64)
	case reflect.Bool:
		return boolSetter
	}
	return unknownSetter
}

func unmarshalerSetter(t reflect.Type, shouldAddr bool) valueSetter {
	return func(v reflect.Value, raw []byte) error {
		if shouldAddr {
			v = v.Addr()
		}
		// set to zero value if this is nil
		if t.Kind() == reflect.Ptr && v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return v.Interface().(Unmarshaler).UnmarshalFlatfile(raw)
	}
}

func textUnmarshalerSetter(t reflect.Type, shouldAddr bool) valueSetter {
	return func(v reflect.Value, raw []byte) error {
		if shouldAddr {
			v = v.Addr()
		}
		// set to zero value if this is nil
		if t.Kind() == reflect.Ptr && v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return v.Interface().(encoding.TextUnmarshaler).UnmarshalText(raw)
	}
}

func ptrSetter(t reflect.Type) valueSetter {
	return func(v reflect.Value, raw []byte) error {
		if len(raw) == 0 {
			return nilSetter(v, raw)
		}
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return newValueSetter(t.Elem())(reflect.Indirect(v), raw)
	}
}

func interfaceSetter(v reflect.Value, raw []byte) error {
	if v.IsNil() {
		if len(raw) == 0 {
			return nil
		}
		return errors.New("flatfile: cannot decode into nil interface")
	}
	return newValueSetter(v.Elem().Type())(v.Elem(), raw)
}

// structSetter treats the field's bytes as a nested record with its
// own tags, relative to the start of the enclosing field.
func structSetter(v reflect.Value, raw []byte) error {
	return decodeRecord(raw, v)
}

func nilSetter(v reflect.Value, _ []byte) error {
	v.Set(reflect.Zero(v.Type()))
	return nil
}

func stringSetter(v reflect.Value, raw []byte) error {
	v.SetString(string(raw))
	return nil
}

func intSetter(v reflect.Value, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	i, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return err
	}
	v.SetInt(i)
	return nil
}

func uintSetter(v reflect.Value, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	u, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return err
	}
	v.SetUint(u)
	return nil
}

func floatSetter(bitSize int) valueSetter {
	return func(v reflect.Value, raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		f, err := strconv.ParseFloat(string(raw), bitSize)
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil
	}
}

func boolSetter(v reflect.Value, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	b, err := strconv.ParseBool(string(raw))
	if err != nil {
		return err
	}
	v.SetBool(b)
	return nil
}

func unknownSetter(v reflect.Value, _ []byte) error {
	return errors.New("flatfile: unsupported field type " + v.Type().String())
}
