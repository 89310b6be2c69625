package rawdiff

import (
	"fmt"
	"strings"
)

const (
	reset    = "\x1b[0m"
	red      = "\x1b[31m"
	green    = "\x1b[32m"
	magenta  = "\x1b[35m"
	cyanBold = "\x1b[1;36m"
	reverse  = "\x1b[7m"
)

// entry is one output line of a unified diff.
type entry struct {
	tag     byte // ' ', '-', or '+'
	text    string
	spans   []Span
	oldSeen int // old lines before this entry
	newSeen int // new lines before this entry
}

// RenderUnified returns a unified diff of d with contextSize lines of context around each change. Groups of changes separated by at most 2*contextSize unchanged
// lines share one @@ hunk. Within a hunk, deleted lines are listed before inserted ones.
//
// If color is set, headers and changed lines are colored and changed spans within replaced lines are shown in reverse video. If the texts are equal, the result
// is "".
func (d Diff) RenderUnified(color bool, from, to string, contextSize int) string {
	if !d.Changed() {
		return ""
	}
	contextSize = max(contextSize, 0)
	paint := func(s, code string) string {
		if !color {
			return s
		}
		return code + s + reset
	}

	entries := d.entries()
	var out []string
	out = append(out, paint("--- "+from, cyanBold), paint("+++ "+to, cyanBold))

	for i := 0; i < len(entries); {
		if entries[i].tag == ' ' {
			i++
			continue
		}
		// Extend the group while the next change is within reach of the current context window.
		start := max(i-contextSize, 0)
		end := i
		for j := i + 1; j < len(entries); j++ {
			if entries[j].tag == ' ' {
				continue
			}
			if j-end-1 > 2*contextSize {
				break
			}
			end = j
		}
		stop := min(end+contextSize, len(entries)-1)

		group := entries[start : stop+1]
		out = append(out, paint(hunkHeader(group), magenta))
		for _, e := range group {
			out = append(out, renderEntry(e, color))
		}
		i = stop + 1
	}
	return strings.Join(out, "\n")
}

func (d Diff) entries() []entry {
	var entries []entry
	oldSeen, newSeen := 0, 0
	add := func(tag byte, text string, spans []Span) {
		entries = append(entries, entry{tag: tag, text: strings.TrimSuffix(text, eol), spans: spans, oldSeen: oldSeen, newSeen: newSeen})
		if tag != '+' {
			oldSeen++
		}
		if tag != '-' {
			newSeen++
		}
	}

	for _, h := range d.Hunks {
		if h.Op == OpEqual {
			for _, ln := range splitLines(h.Old) {
				add(' ', ln, nil)
			}
			continue
		}
		for _, ln := range h.Lines {
			if ln.Op == OpEqual {
				add(' ', ln.Old, nil)
			} else if ln.Old != "" {
				add('-', ln.Old, ln.Spans)
			}
		}
		for _, ln := range h.Lines {
			if ln.Op != OpEqual && ln.New != "" {
				add('+', ln.New, ln.Spans)
			}
		}
	}
	return entries
}

func hunkHeader(group []entry) string {
	oldCount, newCount := 0, 0
	for _, e := range group {
		if e.tag != '+' {
			oldCount++
		}
		if e.tag != '-' {
			newCount++
		}
	}
	oldStart, newStart := group[0].oldSeen, group[0].newSeen
	if oldCount > 0 {
		oldStart++
	}
	if newCount > 0 {
		newStart++
	}
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldCount, newStart, newCount)
}

func renderEntry(e entry, color bool) string {
	if !color || e.tag == ' ' {
		return string(e.tag) + e.text
	}
	base := red
	if e.tag == '+' {
		base = green
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteByte(e.tag)
	for _, sp := range e.spans {
		text := sp.Old
		if e.tag == '+' {
			text = sp.New
		}
		if text == "" {
			continue
		}
		if sp.Op == OpEqual || len(e.spans) == 1 {
			b.WriteString(text)
			continue
		}
		b.WriteString(reverse + text + reset + base)
	}
	b.WriteString(reset)
	return b.String()
}

// splitLines splits text after each newline. A final line without a newline is kept.
func splitLines(text string) []string {
	var lines []string
	for text != "" {
		i := strings.Index(text, eol)
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}
