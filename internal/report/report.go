// Package report turns a comparison into a document in one of several output formats. A Report is built once from a Result and its display rows, then written
// with Write.
package report

import (
	"fmt"
	"strings"

	"github.com/codalotl/segdiff/internal/segment"
	"github.com/codalotl/segdiff/internal/structdiff"
)

// Format is an output format name, as accepted on the command line.
type Format string

const (
	FormatText     Format = "text"
	FormatSide     Format = "side"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported format in the order they are documented.
func Formats() []Format {
	return []Format{FormatText, FormatSide, FormatMarkdown, FormatHTML, FormatJSON, FormatYAML}
}

// ParseFormat validates s as a format name. Matching is case-insensitive; "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "md" {
		return FormatMarkdown, nil
	}
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, 0, len(Formats()))
	for _, known := range Formats() {
		names = append(names, string(known))
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(names, ", "))
}

// Meta describes the inputs of a comparison.
type Meta struct {
	Left    string // Name of the left document, usually its path.
	Right   string // Name of the right document.
	Dialect segment.Dialect
}

// Report is a serializable comparison. Rows follow the display rows it was built from, so filters and collapsing are reflected; Summary always covers the whole
// result.
type Report struct {
	Left    string             `json:"left" yaml:"left"`
	Right   string             `json:"right" yaml:"right"`
	Dialect string             `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	Summary structdiff.Summary `json:"summary" yaml:"summary"`
	Rows    []Row              `json:"rows" yaml:"rows"`

	display []structdiff.DisplayRow
}

// Row is one display row. Kind is a structdiff.Kind name or "collapsed".
type Row struct {
	Kind          string   `json:"kind" yaml:"kind"`
	ID            string   `json:"id,omitempty" yaml:"id,omitempty"`
	Left          *Segment `json:"left,omitempty" yaml:"left,omitempty"`
	Right         *Segment `json:"right,omitempty" yaml:"right,omitempty"`
	DiffPositions []int    `json:"diffPositions,omitempty" yaml:"diffPositions,omitempty"`
	Hidden        int      `json:"hidden,omitempty" yaml:"hidden,omitempty"` // Rows stood in for by a collapsed row.
}

// Segment is one side of a Row.
type Segment struct {
	Line     int      `json:"line" yaml:"line"`
	Raw      string   `json:"raw" yaml:"raw"`
	Elements []string `json:"elements" yaml:"elements,flow"`
}

const kindCollapsed = "collapsed"

// Build assembles a Report from result and the rows Present derived from it.
func Build(result structdiff.Result, rows []structdiff.DisplayRow, meta Meta) Report {
	r := Report{
		Left:    meta.Left,
		Right:   meta.Right,
		Summary: structdiff.Summarize(result),
		Rows:    make([]Row, 0, len(rows)),
		display: rows,
	}
	if meta.Dialect != segment.DialectUnknown {
		r.Dialect = meta.Dialect.String()
	}

	for _, dr := range rows {
		switch dr := dr.(type) {
		case structdiff.Collapsed:
			r.Rows = append(r.Rows, Row{Kind: kindCollapsed, Hidden: dr.Count})
		case structdiff.Row:
			row := Row{Kind: dr.Kind().String(), ID: dr.ID()}
			if s, ok := structdiff.LeftOf(dr); ok {
				row.Left = toSegment(s)
			}
			if s, ok := structdiff.RightOf(dr); ok {
				row.Right = toSegment(s)
			}
			if m, ok := dr.(structdiff.Modified); ok {
				row.DiffPositions = m.DiffPositions
			}
			r.Rows = append(r.Rows, row)
		}
	}
	return r
}

func toSegment(s segment.Segment) *Segment {
	return &Segment{Line: s.LineNumber, Raw: s.Raw, Elements: s.Elements}
}

// Title is the one-line heading used by the document formats.
func (r Report) Title() string {
	return fmt.Sprintf("%s vs %s", r.Left, r.Right)
}
