// Package analysis builds the human-readable dataset summary for a pipeline run.
package analysis

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
	"github.com/KaramelBytes/hospiviz-cli/internal/derive"
	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
	"github.com/KaramelBytes/hospiviz-cli/internal/pipeline"
)

// Options controls summary contents.
type Options struct {
	// SampleRows determines how many example rows to include.
	SampleRows int
	// TopFacilities lists the busiest facilities; 0 disables the section.
	TopFacilities int
	// OutlierThreshold is the robust |z| above which a value counts as an outlier.
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for a summary.
func DefaultOptions() Options {
	return Options{SampleRows: 5, TopFacilities: 10, OutlierThreshold: 3.5}
}

// Report is a markdown-friendly summary of a processed dataset.
type Report struct {
	Name          string
	RunID         string
	Rows          int
	Cols          []ColumnSummary
	Samples       [][]string
	Normalization pipeline.Report
	Corr          *derive.Matrix
	Top           []facility.Facility
	Warnings      []string
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name        string
	Kind        string // numeric|categorical|text
	Synthesized bool
	NonNull     int
	Missing     int
	Unique      int
	// Numeric stats
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Std    float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutlierThreshold float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// Summarize describes the dataset and facilities of a pipeline result.
func Summarize(res *pipeline.Result, opt Options) *Report {
	ds := res.Dataset
	rep := &Report{
		Name:          filepath.Base(ds.Source),
		RunID:         res.Report.RunID,
		Rows:          ds.Len(),
		Normalization: res.Report,
	}
	synth := map[string]bool{}
	for _, c := range res.Report.Synthesized {
		synth[c] = true
	}
	for _, name := range ds.Columns {
		cs := summarizeColumn(name, ds.Column(name), ds.Format, opt)
		cs.Synthesized = synth[name]
		rep.Cols = append(rep.Cols, cs)
	}
	n := opt.SampleRows
	if n > ds.Len() {
		n = ds.Len()
	}
	for _, row := range ds.Rows[:max(n, 0)] {
		rep.Samples = append(rep.Samples, append([]string(nil), row...))
	}
	if len(res.Facilities) > 0 {
		m := derive.Correlation(res.Facilities)
		rep.Corr = &m
	}
	if opt.TopFacilities > 0 {
		top := derive.SortByVisits(res.Facilities)
		if len(top) > opt.TopFacilities {
			top = top[:opt.TopFacilities]
		}
		rep.Top = top
	}
	if res.Report.NameFallback {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("facility names taken from first column %q", res.Report.NameColumn))
	}
	if len(res.Report.Synthesized) > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("synthesized with seed %d: %s; values are placeholders, not observations",
			res.Report.Seed, strings.Join(res.Report.Synthesized, ", ")))
	}
	return rep
}

func summarizeColumn(name string, cells []string, nf dataset.NumberFormat, opt Options) ColumnSummary {
	cs := ColumnSummary{Name: name}
	counts := map[string]int{}
	var nums []float64
	numeric := true
	for _, c := range cells {
		v := strings.TrimSpace(c)
		if v == "" {
			cs.Missing++
			continue
		}
		cs.NonNull++
		counts[v]++
		if f, ok := nf.Parse(v); ok {
			nums = append(nums, f)
		} else {
			numeric = false
		}
	}
	cs.Unique = len(counts)
	switch {
	case cs.NonNull > 0 && numeric:
		cs.Kind = "numeric"
		data := stats.Float64Data(nums)
		cs.Min, _ = data.Min()
		cs.Max, _ = data.Max()
		cs.Mean, _ = data.Mean()
		cs.Median, _ = data.Median()
		if len(nums) > 1 {
			cs.Std, _ = data.StandardDeviationSample()
		}
		if opt.OutlierThreshold > 0 && len(nums) >= 8 {
			cs.OutlierThreshold = opt.OutlierThreshold
			cs.OutliersCount = countOutliers(nums, cs.Median, opt.OutlierThreshold)
		}
	case cs.Unique > 0 && cs.Unique <= max(1, cs.NonNull/2):
		cs.Kind = "categorical"
		cs.TopValues = topValues(counts, 5)
	default:
		cs.Kind = "text"
	}
	return cs
}

// countOutliers counts values whose robust z-score (0.6745 * deviation / MAD) exceeds thr.
func countOutliers(vals []float64, median, thr float64) int {
	mad, err := stats.MedianAbsoluteDeviationPopulation(vals)
	if err != nil || mad == 0 {
		return 0
	}
	n := 0
	for _, v := range vals {
		if math.Abs(0.6745*(v-median)/mad) > thr {
			n++
		}
	}
	return n
}

func topValues(counts map[string]int, k int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, CategoryCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	pr := message.NewPrinter(language.English)
	var b strings.Builder
	b.WriteString("# Dataset Summary\n\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("- File: %s\n", r.Name))
	}
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("- Run: %s\n", r.RunID))
	}
	b.WriteString(pr.Sprintf("- Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("- Columns: %d\n", len(r.Cols)))

	n := r.Normalization
	if len(n.Renamed) > 0 || len(n.Synthesized) > 0 {
		b.WriteString("\n## Normalization\n\n")
		for _, rn := range n.Renamed {
			b.WriteString(fmt.Sprintf("- renamed `%s` to `%s`\n", safeVal(rn.From), rn.To))
		}
		for _, s := range n.Synthesized {
			b.WriteString(fmt.Sprintf("- synthesized `%s` (seed %d)\n", s, n.Seed))
		}
	}

	b.WriteString("\n## Schema\n\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		if c.Synthesized {
			b.WriteString(" [synthesized]")
		}
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Median, c.Std))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(": top ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n## Correlations\n\n")
		for i := 0; i < len(r.Corr.Columns); i++ {
			for j := i + 1; j < len(r.Corr.Columns); j++ {
				b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", r.Corr.Columns[i], r.Corr.Columns[j], r.Corr.Values[i][j]))
			}
		}
	}

	if len(r.Top) > 0 {
		b.WriteString("\n## Busiest Facilities\n\n")
		for i, f := range r.Top {
			b.WriteString(pr.Sprintf("%d. %s: %d patients\n", i+1, safeVal(f.Name), f.Visits))
		}
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n## Sample Rows\n\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// HTML renders the Markdown summary as a complete HTML page.
func (r *Report) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	title := "Dataset Summary"
	if r.Name != "" {
		title += ": " + r.Name
	}
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage,
		Title: title,
	})
	return markdown.ToHTML([]byte(r.Markdown()), p, renderer)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return safeVal(s)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
