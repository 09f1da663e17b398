package flatfile

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// parseTag splits a struct field's `fixed` tag into a Field. The tag
// is "start,end" with a half-open, 0-based byte range, optionally
// followed by "left" or "right", "pad=c" and "name=s". If the tag is
// not valid, ok is false and the field is ignored.
func parseTag(tag string) (f Field, hasJustify, ok bool) {
	parts := strings.Split(tag, ",")
	if len(parts) < 2 {
		return f, false, false
	}

	var err error
	if f.Start, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
		return f, false, false
	}
	if f.End, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return f, false, false
	}
	if f.Start < 0 || f.End <= f.Start {
		return f, false, false
	}

	for _, opt := range parts[2:] {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "left":
			f.Justify = JustifyLeft
			hasJustify = true
		case opt == "right":
			f.Justify = JustifyRight
			hasJustify = true
		case strings.HasPrefix(opt, "pad="):
			v := strings.TrimPrefix(opt, "pad=")
			if len(v) != 1 {
				return f, false, false
			}
			f.Pad = v[0]
		case strings.HasPrefix(opt, "name="):
			f.Name = strings.TrimPrefix(opt, "name=")
		default:
			return f, false, false
		}
	}
	return f, hasJustify, true
}

// fieldSpec pairs one struct field's layout with its conversion
// functions.
type fieldSpec struct {
	field   Field
	name    string // Go struct field name
	encoder valueEncoder
	setter  valueSetter
	keepPad bool // decode from the raw range, padding included
	ok      bool // field carries a valid `fixed` tag
}

// structSpec is the derived record layout for a struct type.
type structSpec struct {
	fm    *FieldMap
	specs []fieldSpec
}

func buildStructSpec(t reflect.Type) (*structSpec, error) {
	ss := &structSpec{
		fm:    NewFieldMap(),
		specs: make([]fieldSpec, t.NumField()),
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		f, hasJustify, ok := parseTag(sf.Tag.Get("fixed"))
		if !ok {
			continue
		}
		if f.Name == "" {
			f.Name = sf.Name
		}
		if !hasJustify && isNumericKind(sf.Type.Kind()) {
			f.Justify = JustifyRight
		}
		if err := ss.fm.Add(f); err != nil {
			return nil, err
		}
		ss.specs[i] = fieldSpec{
			field:   f,
			name:    sf.Name,
			encoder: newValueEncoder(sf.Type),
			setter:  newValueSetter(sf.Type),
			keepPad: keepsPadding(sf.Type),
			ok:      true,
		}
	}
	return ss, nil
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

var structSpecCache = xsync.NewMapOf[reflect.Type, *structSpec]()

// cachedStructSpec is like buildStructSpec but cached to prevent
// duplicate work. Build errors are not cached; an invalid layout fails
// on every call.
func cachedStructSpec(t reflect.Type) (*structSpec, error) {
	if ss, ok := structSpecCache.Load(t); ok {
		return ss, nil
	}
	ss, err := buildStructSpec(t)
	if err != nil {
		return nil, err
	}
	actual, _ := structSpecCache.LoadOrStore(t, ss)
	return actual, nil
}
