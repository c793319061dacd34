// Package export renders a tree-select forest for humans (markdown) and
// scripts (JSON).
package export

import (
	"io"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treeselect/pkg/model"
	"github.com/vanderheijden86/treeselect/pkg/tree"
)

// BuildReport assembles the JSON selection report.
func BuildReport(f *tree.Forest, style tree.Style, sep string, clicks []string, now time.Time) model.SelectionReport {
	report := f.Report(style, sep, clicks)
	report.GeneratedAt = now.UTC()
	return report
}

// WriteJSON encodes the report as indented JSON.
func WriteJSON(w io.Writer, report model.SelectionReport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
