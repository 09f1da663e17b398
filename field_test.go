package flatfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMap_Add(t *testing.T) {
	t.Run("adjacent ranges do not overlap", func(t *testing.T) {
		m := NewFieldMap()
		require.NoError(t, m.Add(Field{Name: "a", Start: 0, End: 5}))
		require.NoError(t, m.Add(Field{Name: "b", Start: 5, End: 10}))
		assert.Equal(t, 10, m.Width())
	})

	t.Run("overlapping ranges", func(t *testing.T) {
		m := NewFieldMap()
		require.NoError(t, m.Add(Field{Name: "a", Start: 0, End: 5}))
		err := m.Add(Field{Name: "b", Start: 3, End: 8})
		assert.ErrorIs(t, err, ErrOverlappingField)
	})

	t.Run("gaps are allowed", func(t *testing.T) {
		m := NewFieldMap()
		require.NoError(t, m.Add(Field{Name: "a", Start: 0, End: 2}))
		require.NoError(t, m.Add(Field{Name: "b", Start: 6, End: 8}))
		assert.Equal(t, 8, m.Width())
	})

	t.Run("registration order is independent of offsets", func(t *testing.T) {
		m := NewFieldMap()
		require.NoError(t, m.Add(Field{Name: "late", Start: 5, End: 10}))
		require.NoError(t, m.Add(Field{Name: "early", Start: 0, End: 5}))
		fields := m.Fields()
		require.Len(t, fields, 2)
		assert.Equal(t, "late", fields[0].Name)
		assert.Equal(t, "early", fields[1].Name)
	})

	for _, tt := range []struct {
		name  string
		field Field
		err   error
	}{
		{"empty range", Field{Name: "a", Start: 3, End: 3}, ErrInvalidRange},
		{"inverted range", Field{Name: "a", Start: 5, End: 2}, ErrInvalidRange},
		{"negative start", Field{Name: "a", Start: -1, End: 2}, ErrInvalidRange},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFieldMap().Add(tt.field)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("duplicate name", func(t *testing.T) {
		m := NewFieldMap()
		require.NoError(t, m.Add(Field{Name: "a", Start: 0, End: 5}))
		err := m.Add(Field{Name: "a", Start: 5, End: 10})
		assert.ErrorIs(t, err, ErrDuplicateField)
	})
}

func TestFieldMap_Lookup(t *testing.T) {
	m := NewFieldMap()
	require.NoError(t, m.Add(Field{Name: "state", Start: 1, End: 5}))

	f, err := m.Lookup("state")
	require.NoError(t, err)
	assert.Equal(t, 1, f.Start)
	assert.Equal(t, 5, f.End)

	_, err = m.Lookup("county")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestFieldMap_UnnamedKey(t *testing.T) {
	m := NewFieldMap()
	require.NoError(t, m.Add(Field{Start: 8, End: 10}))

	f, err := m.Lookup("8..10")
	require.NoError(t, err)
	assert.Equal(t, 8, f.Start)
}

func TestField_Trim(t *testing.T) {
	for _, tt := range []struct {
		name  string
		field Field
		in    string
		want  string
	}{
		{"space pad both ends", Field{End: 5}, "  ab ", "ab"},
		{"zero pad right justified", Field{End: 5, Pad: '0', Justify: JustifyRight}, "00420", "420"},
		{"zero pad keeps trailing zero", Field{End: 5, Pad: '0', Justify: JustifyRight}, "00700", "700"},
		{"custom pad left justified", Field{End: 5, Pad: 'x'}, "abxxx", "ab"},
		{"all pad", Field{End: 5, Pad: '0', Justify: JustifyRight}, "00000", ""},
		{"spaces around zero pad", Field{End: 6, Pad: '0', Justify: JustifyRight}, " 00042", "42"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(tt.field.trim([]byte(tt.in))))
		})
	}
}

func TestField_Place(t *testing.T) {
	for _, tt := range []struct {
		name  string
		field Field
		value string
		want  string
		err   error
	}{
		{"left justified space pad", Field{Start: 0, End: 4}, "BOB", "BOB ", nil},
		{"right justified zero pad", Field{Start: 0, End: 5, Pad: '0', Justify: JustifyRight}, "7", "00007", nil},
		{"exact width", Field{Start: 0, End: 3}, "abc", "abc", nil},
		{"too wide", Field{Start: 0, End: 3}, "abcd", "", ErrFieldTooWide},
	} {
		t.Run(tt.name, func(t *testing.T) {
			record := newRecord(tt.field.End, ' ')
			err := tt.field.place([]byte(tt.value), record)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(record))
		})
	}

	t.Run("beyond record", func(t *testing.T) {
		f := Field{Start: 8, End: 12}
		err := f.place([]byte("x"), newRecord(10, ' '))
		assert.ErrorIs(t, err, ErrOutOfBounds)
	})
}
