package pipeline

import (
	"strings"

	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
)

// Rename records a column label that changed during a run.
type Rename struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NormalizeLabel trims surrounding whitespace and replaces each remaining
// space with an underscore.
func NormalizeLabel(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}

// NormalizeLabels applies NormalizeLabel to every label, preserving order.
func NormalizeLabels(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = NormalizeLabel(l)
	}
	return out
}

// NormalizeColumns relabels ds in place and returns the labels that changed.
func NormalizeColumns(ds *dataset.Dataset) []Rename {
	var renamed []Rename
	for i, l := range NormalizeLabels(ds.Columns) {
		if l != ds.Columns[i] {
			renamed = append(renamed, Rename{From: ds.Columns[i], To: l})
			ds.Rename(i, l)
		}
	}
	return renamed
}
