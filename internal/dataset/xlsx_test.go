package dataset

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"ignored"}))
	_, err := f.NewSheet("Facilities")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Facilities", "A1", &[]any{"Hospital Name", "Patients", "Rating"}))
	require.NoError(t, f.SetSheetRow("Facilities", "A2", &[]any{"A", 120, 4.5}))
	// row 3 left blank
	require.NoError(t, f.SetSheetRow("Facilities", "A4", &[]any{"B", 80}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadXLSXNamedSheet(t *testing.T) {
	ds, err := ReadXLSX(workbook(t), "f.xlsx", XLSXOptions{Sheet: "facilities"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hospital Name", "Patients", "Rating"}, ds.Columns)
	assert.Equal(t, [][]string{{"A", "120", "4.5"}, {"B", "80", ""}}, ds.Rows)
}

func TestReadXLSXFirstSheetByDefault(t *testing.T) {
	ds, err := ReadXLSX(workbook(t), "f.xlsx", XLSXOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ignored"}, ds.Columns)
	assert.Zero(t, ds.Len())
}

func TestReadXLSXMissingSheet(t *testing.T) {
	_, err := ReadXLSX(workbook(t), "f.xlsx", XLSXOptions{Sheet: "Nope"})
	var me *MalformedError
	require.True(t, errors.As(err, &me))
	assert.Contains(t, err.Error(), "Facilities")
}

func TestReadXLSXGarbage(t *testing.T) {
	_, err := ReadXLSX(bytes.NewReader([]byte("not a zip")), "f.xlsx", XLSXOptions{})
	var me *MalformedError
	assert.True(t, errors.As(err, &me))
}
