package export

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
	"github.com/KaramelBytes/hospiviz-cli/internal/pipeline"
)

func result(t *testing.T) *pipeline.Result {
	t.Helper()
	in := "Hospital Name,Beds\n\"North, East\",10\nSouth,20\n"
	ds, err := dataset.ReadCSV(strings.NewReader(in), "h.csv", dataset.CSVOptions{})
	require.NoError(t, err)
	res, err := pipeline.Run(ds, pipeline.Options{})
	require.NoError(t, err)
	return res
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	res := result(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res.Dataset))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Hospital_Name,Beds,Patients,Rating,Latitude,Longitude", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"North, East",10,222,3.2,38.17152409425579`), lines[1])
}

func TestWriteJSON(t *testing.T) {
	res := result(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, res.Report.RunID, doc.Report.RunID)
	assert.Equal(t, []string{"Patients", "Rating", "Latitude", "Longitude"}, doc.Report.Synthesized)
	require.Len(t, doc.Facilities, 2)
	assert.Equal(t, "North, East", doc.Facilities[0].Name)
	assert.Equal(t, 222, doc.Facilities[0].Visits)
	assert.Contains(t, buf.String(), `"patients": 222`)
}

func TestWriteSQLRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(ctx, DriverSQLite, filepath.Join(t.TempDir(), "out.db"))
	require.NoError(t, err)
	defer db.Close()

	res := result(t)
	n, err := WriteSQL(ctx, db, "", res.Report.RunID, res.Facilities)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// a second run appends under its own id
	_, err = WriteSQL(ctx, db, "", "other-run", []facility.Facility{{Row: 1, Name: "X"}})
	require.NoError(t, err)

	got, err := ReadSQL(ctx, db, "", res.Report.RunID)
	require.NoError(t, err)
	assert.Equal(t, res.Facilities, got)
}

func TestWriteSQLRejectsBadTable(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(ctx, DriverSQLite, filepath.Join(t.TempDir(), "out.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = WriteSQL(ctx, db, "x; DROP TABLE y", "r", nil)
	assert.Error(t, err)
}

func TestOpenDBUnknownDriver(t *testing.T) {
	_, err := OpenDB(context.Background(), "mysql", "")
	assert.ErrorContains(t, err, "unsupported sql driver")
}
