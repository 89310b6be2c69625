// Package textwidth measures, truncates, and pads text by its display width in a monospace terminal.
//
// Width is measured per grapheme cluster, so combining marks and multi-rune emoji never get split when truncating. East Asian ambiguous-width characters are treated
// as narrow.
package textwidth

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// Ellipsis is the tail Fit appends to truncated text.
const Ellipsis = "…"

func condition() *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true
	return cond
}

// Width returns the number of terminal cells s occupies. s must not contain ANSI escape sequences.
func Width(s string) int {
	return condition().StringWidth(s)
}

// Truncate returns the longest prefix of s, cut on a grapheme boundary, that occupies at most w cells, followed by tail. The tail counts toward w. If s already fits,
// it is returned unchanged (without tail). If w is too small to hold the tail, the result is the longest prefix of s that fits in w.
func Truncate(s string, w int, tail string) string {
	if w <= 0 {
		return ""
	}
	cond := condition()
	if cond.StringWidth(s) <= w {
		return s
	}

	limit := w - cond.StringWidth(tail)
	if limit < 0 {
		limit = w
		tail = ""
	}

	var b strings.Builder
	used := 0
	iter := graphemes.FromString(s)
	for iter.Next() {
		g := iter.Value()
		gw := cond.StringWidth(g)
		if used+gw > limit {
			break
		}
		b.WriteString(g)
		used += gw
	}
	b.WriteString(tail)
	return b.String()
}

// PadRight pads s with spaces to w cells. Text wider than w is returned unchanged.
func PadRight(s string, w int) string {
	sw := Width(s)
	if sw >= w {
		return s
	}
	return s + strings.Repeat(" ", w-sw)
}

// Fit truncates s to w cells (with Ellipsis) and pads it to exactly w cells.
func Fit(s string, w int) string {
	return PadRight(Truncate(s, w, Ellipsis), w)
}
