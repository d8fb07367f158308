package analysis

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
	"github.com/KaramelBytes/hospiviz-cli/internal/pipeline"
)

func runPipeline(t *testing.T, csv string) *pipeline.Result {
	t.Helper()
	ds, err := dataset.ReadCSV(strings.NewReader(csv), "/data/hospitals.csv", dataset.CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	res, err := pipeline.Run(ds, pipeline.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestSummarizeNameOnly(t *testing.T) {
	res := runPipeline(t, "Hospital Name\nAlpha\nBeta\nGamma\nDelta\nEpsilon\nZeta\n")
	rep := Summarize(res, DefaultOptions())

	if rep.Name != "hospitals.csv" {
		t.Fatalf("name = %q", rep.Name)
	}
	if rep.Rows != 6 || len(rep.Cols) != 5 {
		t.Fatalf("rows=%d cols=%d", rep.Rows, len(rep.Cols))
	}
	if rep.Cols[0].Kind != "text" {
		t.Fatalf("name column kind = %q, want text", rep.Cols[0].Kind)
	}
	for _, c := range rep.Cols[1:] {
		if c.Kind != "numeric" || !c.Synthesized {
			t.Fatalf("column %s: kind=%s synthesized=%v", c.Name, c.Kind, c.Synthesized)
		}
	}
	if rep.Cols[1].Min < 50 || rep.Cols[1].Max >= 500 {
		t.Fatalf("patients range [%v, %v]", rep.Cols[1].Min, rep.Cols[1].Max)
	}
	if len(rep.Samples) != 5 {
		t.Fatalf("samples = %d, want 5", len(rep.Samples))
	}
	if len(rep.Top) != 6 || rep.Top[0].Visits < rep.Top[5].Visits {
		t.Fatalf("top facilities not ordered: %+v", rep.Top)
	}

	md := rep.Markdown()
	for _, want := range []string{
		"# Dataset Summary",
		"- File: hospitals.csv",
		"- Rows: 6",
		"renamed `Hospital Name` to `Hospital_Name`",
		"synthesized `Patients` (seed 0)",
		"- Patients: numeric (non-null 6, missing 0.0%) [synthesized]",
		"## Correlations",
		"- Patients ~ Rating: r=",
		"## Busiest Facilities",
		"| Hospital_Name | Patients | Rating | Latitude | Longitude |",
		"## Notes",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestSummarizeGroupsLargeNumbers(t *testing.T) {
	res := runPipeline(t, "Hospital_Name,Patients,Rating,Latitude,Longitude\n"+
		"Big,\"12,500\",4.1,30,-90\nSmall,300,3.9,31,-91\n")
	md := Summarize(res, DefaultOptions()).Markdown()
	if !strings.Contains(md, "1. Big: 12,500 patients") {
		t.Fatalf("markdown missing grouped count:\n%s", md)
	}
	if strings.Contains(md, "## Normalization") {
		t.Fatalf("unexpected normalization section:\n%s", md)
	}
}

func TestColumnKindsAndOutliers(t *testing.T) {
	cells := []string{"10", "11", "9", "10", "12", "10", "11", "9", "250", ""}
	cs := summarizeColumn("x", cells, dataset.NumberFormat{}, DefaultOptions())
	if cs.Kind != "numeric" || cs.Missing != 1 || cs.NonNull != 9 {
		t.Fatalf("summary = %+v", cs)
	}
	if cs.OutliersCount != 1 {
		t.Fatalf("outliers = %d, want 1", cs.OutliersCount)
	}

	cat := summarizeColumn("c", []string{"a", "b", "a", "a", "b", "a"}, dataset.NumberFormat{}, DefaultOptions())
	if cat.Kind != "categorical" || cat.TopValues[0].Value != "a" || cat.TopValues[0].Count != 4 {
		t.Fatalf("categorical summary = %+v", cat)
	}
}

func TestReportHTML(t *testing.T) {
	res := runPipeline(t, "Hospital_Name,Patients\nA & B,10\nC,20\n")
	page := string(Summarize(res, DefaultOptions()).HTML())
	for _, want := range []string{"<html", "<title>Dataset Summary: hospitals.csv</title>", "<h1", "<table>", "A &amp; B"} {
		if !strings.Contains(page, want) {
			t.Fatalf("html missing %q:\n%s", want, page)
		}
	}
}
