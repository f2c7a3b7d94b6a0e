package recordstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeFields(t *testing.T) {
	cases := [][]string{
		{"1", "plain", "9.99"},
		{"Milk, 2L", `back\slash`, "multi\nline"},
		{"", "", ""},
		{`trailing\`, ",leading comma", "\r\n"},
	}
	for _, fields := range cases {
		line := EncodeFields(fields)
		require.NotContains(t, line, "\n")
		require.Equal(t, fields, DecodeFields(line))
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.dat"))
	records, err := s.Load()
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestSaveAllRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "items.dat"))
	in := []Record{
		{"1", "Rice, 5kg", "12.50"},
		{"2", "Tea", "4.00"},
	}
	require.NoError(t, s.SaveAll(in))

	out, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestSaveAllReplacesContents(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "items.dat"))
	require.NoError(t, s.SaveAll([]Record{{"1", "a"}, {"2", "b"}}))
	require.NoError(t, s.SaveAll([]Record{{"3", "c"}}))

	out, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, []Record{{"3", "c"}}, out)

	// no temp file debris after the rename
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
