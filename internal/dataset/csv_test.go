package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVKeepsLabelsVerbatim(t *testing.T) {
	in := "\xEF\xBB\xBF Hospital Name ,Patients\n\"General, North\",120\nSt Mary,80\n"
	ds, err := ReadCSV(strings.NewReader(in), "h.csv", CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{" Hospital Name ", "Patients"}, ds.Columns)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"120", "80"}, ds.Column("Patients"))
	assert.Equal(t, "General, North", ds.Rows[0][0])
}

func TestReadCSVDelimiters(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("a\tb\n1\t2\n"), "data.tsv", CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Columns)

	ds, err = ReadCSV(strings.NewReader("a;b\n1;2\n"), "data.csv", CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ds.Rows[0])
}

func TestReadCSVEmptyInput(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(""), "empty.csv", CSVOptions{})
	require.NoError(t, err)
	assert.Empty(t, ds.Columns)
	assert.Zero(t, ds.Len())
}

func TestReadCSVTooManyFields(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2\n1,2,3\n"), "bad.csv", CSVOptions{})
	var me *MalformedError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, 2, me.Row)
}

func TestSniffDelimiterIgnoresQuery(t *testing.T) {
	assert.Equal(t, '\t', sniffDelimiter("https://x.test/data.TSV?raw=1"))
	assert.Equal(t, ',', sniffDelimiter("/tmp/data.csv"))
}
