package structdiff

import (
	"fmt"
	"strings"

	"github.com/codalotl/segdiff/internal/textwidth"
)

// RenderText renders rows in the plain-text reporting convention, one row per line:
//   - Match: "  <raw>"
//   - Modified: "~ <left raw>  ->  <right raw>"
//   - LeftOnly: "- <raw>"
//   - RightOnly: "+ <raw>"
//   - Collapsed: "  ... <n> unchanged segments ..."
//
// Lines are joined with "\n" and there is no trailing newline. Empty input renders as "".
func RenderText(rows []DisplayRow) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, textLine(r))
	}
	return strings.Join(lines, "\n")
}

func textLine(r DisplayRow) string {
	switch r := r.(type) {
	case Match:
		return "  " + r.Left.Raw
	case Modified:
		return "~ " + r.Left.Raw + "  ->  " + r.Right.Raw
	case LeftOnly:
		return "- " + r.Left.Raw
	case RightOnly:
		return "+ " + r.Right.Raw
	case Collapsed:
		return "  " + CollapsedLabel(r.Count)
	default:
		return ""
	}
}

// CollapsedLabel describes n hidden rows.
func CollapsedLabel(n int) string {
	if n == 1 {
		return "... 1 unchanged segment ..."
	}
	return fmt.Sprintf("... %d unchanged segments ...", n)
}

// SideBySideOptions control RenderSideBySide.
type SideBySideOptions struct {
	Width int  // Total width in terminal cells. Values below the minimum are raised to it.
	Color bool // If true, include ANSI colors.
}

const minSideBySideWidth = 25

// ANSI colors for side-by-side output. Line backgrounds mark the side that changed; darker span backgrounds mark differing elements.
const (
	reset     = "\x1b[0m"
	blackFG   = "\x1b[30m"
	pinkLine  = "\x1b[48;5;224m"
	pinkSpan  = "\x1b[48;5;217m"
	greenLine = "\x1b[48;5;194m"
	greenSpan = "\x1b[48;5;114m"
	cyanBold  = "\x1b[1;36m"
)

// RenderSideBySide renders rows as two columns, old on the left and new on the right. Each line starts with the same marker RenderText uses (" ", "~", "-", "+"). Cells
// are truncated with an ellipsis to fit. In Modified rows, the differing elements are highlighted when opts.Color is set.
//
// Lines are joined with "\n" and there is no trailing newline.
func RenderSideBySide(rows []DisplayRow, opts SideBySideOptions) string {
	width := max(opts.Width, minSideBySideWidth)
	colWidth := (width - 5) / 2 // marker + space, and " │ " between the columns

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		var marker string
		var left, right string
		switch r := r.(type) {
		case Match:
			marker = " "
			left = renderCell(rawPieces(r.Left.Raw), colWidth, false, "", "")
			right = renderCell(rawPieces(r.Right.Raw), colWidth, false, "", "")
		case Modified:
			marker = "~"
			left = renderCell(elementPieces(r, true), colWidth, opts.Color, pinkLine, pinkSpan)
			right = renderCell(elementPieces(r, false), colWidth, opts.Color, greenLine, greenSpan)
		case LeftOnly:
			marker = "-"
			left = renderCell(rawPieces(r.Left.Raw), colWidth, opts.Color, pinkLine, pinkSpan)
			right = renderCell(nil, colWidth, false, "", "")
		case RightOnly:
			marker = "+"
			left = renderCell(nil, colWidth, false, "", "")
			right = renderCell(rawPieces(r.Right.Raw), colWidth, opts.Color, greenLine, greenSpan)
		case Collapsed:
			label := textwidth.Fit(CollapsedLabel(r.Count), width-2)
			if opts.Color {
				label = cyanBold + label + reset
			}
			lines = append(lines, "  "+label)
			continue
		default:
			continue
		}
		lines = append(lines, marker+" "+left+" │ "+right)
	}
	return strings.Join(lines, "\n")
}

// piece is a run of cell text; highlighted pieces get the span color.
type piece struct {
	text        string
	highlighted bool
}

func rawPieces(raw string) []piece {
	return []piece{{text: raw}}
}

// elementPieces rebuilds one side of a Modified row from its elements so the differing ones can be highlighted. If Raw can't be rebuilt from the elements (see
// segment.Segment.Separator), the raw text is used as a single highlighted piece so it is shown as written.
func elementPieces(r Modified, leftSide bool) []piece {
	seg := r.Right
	if leftSide {
		seg = r.Left
	}
	sep := seg.Separator()
	if sep == 0 {
		return []piece{{text: seg.Raw, highlighted: len(r.DiffPositions) > 0}}
	}
	pieces := make([]piece, 0, 2*len(seg.Elements))
	for i, e := range seg.Elements {
		if i > 0 {
			pieces = append(pieces, piece{text: string(sep)})
		}
		pieces = append(pieces, piece{text: e, highlighted: r.Differs(i)})
	}
	return pieces
}

// renderCell fits pieces into exactly w cells. Control characters are shown as their Unicode control pictures so every row stays on one line.
func renderCell(pieces []piece, w int, color bool, lineBg, spanBg string) string {
	for i := range pieces {
		pieces[i].text = visibleControls(pieces[i].text)
	}
	pieces = fitPieces(pieces, w)

	var b strings.Builder
	if color {
		b.WriteString(blackFG + lineBg)
	}
	used := 0
	for _, p := range pieces {
		used += textwidth.Width(p.text)
		if color && p.highlighted {
			b.WriteString(reset + blackFG + spanBg + p.text + reset + blackFG + lineBg)
			continue
		}
		b.WriteString(p.text)
	}
	if used < w {
		b.WriteString(strings.Repeat(" ", w-used))
	}
	if color {
		b.WriteString(reset)
	}
	return b.String()
}

// visibleControls replaces C0 control characters and DEL with the matching symbols from the Control Pictures block (ex: '\n' becomes '␊').
func visibleControls(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20:
			return 0x2400 + r
		case r == 0x7f:
			return 0x2421
		}
		return r
	}, s)
}

// fitPieces truncates pieces to w cells, ending with textwidth.Ellipsis when anything was cut.
func fitPieces(pieces []piece, w int) []piece {
	total := 0
	for _, p := range pieces {
		total += textwidth.Width(p.text)
	}
	if total <= w {
		return pieces
	}

	budget := w - textwidth.Width(textwidth.Ellipsis)
	var out []piece
	used := 0
	for _, p := range pieces {
		pw := textwidth.Width(p.text)
		if used+pw <= budget {
			out = append(out, p)
			used += pw
			continue
		}
		if cut := textwidth.Truncate(p.text, budget-used, ""); cut != "" {
			out = append(out, piece{text: cut, highlighted: p.highlighted})
		}
		break
	}
	return append(out, piece{text: textwidth.Ellipsis})
}
