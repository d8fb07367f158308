package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/hospiviz-cli/internal/analysis"
	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
	"github.com/KaramelBytes/hospiviz-cli/internal/pipeline"
)

func newServer(t *testing.T, in string) *Server {
	t.Helper()
	ds, err := dataset.ReadCSV(strings.NewReader(in), "hospitals.csv", dataset.CSVOptions{})
	require.NoError(t, err)
	res, err := pipeline.Run(ds, pipeline.Options{})
	require.NoError(t, err)
	return New(res, Options{Summary: analysis.DefaultOptions()})
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

const sampleCSV = "Hospital_Name,Patients,Rating\nA,100,4.0\nB,250,3.5\nC,40,4.8\n"

func TestIndexAndMap(t *testing.T) {
	s := newServer(t, sampleCSV)

	rec := get(s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "3 facilities")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = get(s, "/map")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "L.circleMarker")
}

func TestChartsArePNG(t *testing.T) {
	s := newServer(t, sampleCSV)
	for _, name := range []string{"bar", "heatmap", "violin"} {
		rec := get(s, "/charts/"+name+".png")
		require.Equal(t, http.StatusOK, rec.Code, name)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		assert.NoError(t, err, name)
	}
	assert.Equal(t, http.StatusNotFound, get(s, "/charts/pie.png").Code)
}

func TestDataEndpoints(t *testing.T) {
	s := newServer(t, sampleCSV)

	rec := get(s, "/data.json")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc struct {
		Facilities []struct {
			Name     string `json:"name"`
			Patients int    `json:"patients"`
		} `json:"facilities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Facilities, 3)
	assert.Equal(t, 250, doc.Facilities[1].Patients)

	rec = get(s, "/data.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Hospital_Name,Patients,Rating,Latitude,Longitude\n"))

	rec = get(s, "/summary.md")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# Dataset Summary")

	rec = get(s, "/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1")
}

func TestEmptyDatasetIsNotFound(t *testing.T) {
	s := newServer(t, "Hospital_Name,Patients\n")
	assert.Equal(t, http.StatusNotFound, get(s, "/map").Code)
	assert.Equal(t, http.StatusNotFound, get(s, "/charts/bar.png").Code)
	assert.Equal(t, http.StatusOK, get(s, "/").Code)
}
