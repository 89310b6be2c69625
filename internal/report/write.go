package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/codalotl/segdiff/internal/structdiff"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// WriteOptions tune the terminal formats. They are ignored by the others.
type WriteOptions struct {
	Width int  // Side-by-side width in cells.
	Color bool // ANSI colors for the side format.
}

// Write renders r to w in format f.
func Write(w io.Writer, f Format, r Report, opts WriteOptions) error {
	var err error
	switch f {
	case FormatText:
		err = writeText(w, r)
	case FormatSide:
		err = writeSide(w, r, opts)
	case FormatMarkdown:
		_, err = io.WriteString(w, Markdown(r))
	case FormatHTML:
		err = writeHTML(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(r); err == nil {
			err = enc.Close()
		}
	default:
		return fmt.Errorf("report: unsupported format %q", f)
	}
	if err != nil {
		return fmt.Errorf("report: write %s: %w", f, err)
	}
	return nil
}

func writeText(w io.Writer, r Report) error {
	body := structdiff.RenderText(r.display)
	if body != "" {
		body += "\n"
	}
	_, err := fmt.Fprintf(w, "%s\n%s", r.Summary, body)
	return err
}

func writeSide(w io.Writer, r Report, opts WriteOptions) error {
	body := structdiff.RenderSideBySide(r.display, structdiff.SideBySideOptions{Width: opts.Width, Color: opts.Color})
	if body != "" {
		body += "\n"
	}
	_, err := fmt.Fprintf(w, "%s\n%s", r.Summary, body)
	return err
}

var kindMarkers = map[string]string{
	"match":      " ",
	"modified":   "~",
	"left-only":  "-",
	"right-only": "+",
}

// Markdown renders r as a GitHub-flavored markdown document with a summary and one table row per display row.
func Markdown(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeInline(r.Title()))
	if r.Dialect != "" {
		fmt.Fprintf(&b, "Dialect: %s\n\n", r.Dialect)
	}
	fmt.Fprintf(&b, "**Summary:** %s\n", r.Summary)
	if len(r.Rows) == 0 {
		return b.String()
	}

	b.WriteString("\n|   | Line | Left | Line | Right |\n")
	b.WriteString("|---|-----:|------|-----:|-------|\n")
	for _, row := range r.Rows {
		if row.Kind == kindCollapsed {
			fmt.Fprintf(&b, "|   |  | _%s_ |  |  |\n", structdiff.CollapsedLabel(row.Hidden))
			continue
		}
		marker := kindMarkers[row.Kind]
		if marker == " " {
			marker = ""
		}
		leftLine, leftRaw := cell(row.Left)
		rightLine, rightRaw := cell(row.Right)
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", marker, leftLine, leftRaw, rightLine, rightRaw)
	}
	return b.String()
}

func cell(s *Segment) (line, raw string) {
	if s == nil {
		return "", ""
	}
	return strconv.Itoa(s.Line), codeSpan(s.Raw)
}

// codeSpan wraps raw in a code span sized to hold any backticks inside it. Pipes are escaped so the table keeps its shape.
func codeSpan(raw string) string {
	if raw == "" {
		return ""
	}
	fence := "`"
	for strings.Contains(raw, fence) {
		fence += "`"
	}
	raw = strings.ReplaceAll(raw, "|", `\|`)
	if strings.HasPrefix(raw, "`") || strings.HasSuffix(raw, "`") {
		raw = " " + raw + " "
	}
	return fence + raw + fence
}

func escapeInline(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`, "<", `\<`, "[", `\[`)
	return r.Replace(s)
}

const htmlStyle = `body{font-family:sans-serif;margin:2em}
table{border-collapse:collapse}
td,th{border:1px solid #ccc;padding:2px 8px;text-align:left}
code{white-space:pre}`

func writeHTML(w io.Writer, r Report) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(r)), &body); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n<style>\n%s\n</style>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(r.Title()), htmlStyle, body.String())
	return err
}
