// Package rawdiff computes line diffs of raw interchange text. It is the fallback used when a document can't be parsed into segments, or when the two documents
// are in different dialects and a structural comparison isn't meaningful.
//
// A Diff holds ordered hunks that reconstruct both inputs. Non-equal hunks carry per-line changes, and replaced lines carry intra-line spans. Lines include their
// trailing '\n' when the input had one; spans never contain '\n'.
package rawdiff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is an edit operation from old text to new text.
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpReplace
)

func (o Op) String() string {
	switch o {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Diff is a line diff from Old to New.
//
// Invariants:
//   - concat(Hunks.Old) == Old
//   - concat(Hunks.New) == New
type Diff struct {
	Old   string
	New   string
	Hunks []Hunk
}

// Hunk is a maximal run of lines sharing one kind of change. Lines is nil for OpEqual hunks.
type Hunk struct {
	Op    Op
	Old   string
	New   string
	Lines []Line
}

// Line is one changed line. Spans is nil for OpEqual lines.
type Line struct {
	Op    Op
	Old   string
	New   string
	Spans []Span
}

// Span is a run of characters within a line.
type Span struct {
	Op  Op
	Old string
	New string
}

const eol = "\n"

// maxBridgeLen is the longest equal span that is absorbed into the surrounding changes. Short bridges like a lone separator make highlighting noisy.
const maxBridgeLen = 3

// Compute diffs oldText to newText by lines.
func Compute(oldText, newText string) Diff {
	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffCleanupMerge(dmp.DiffMainRunes(rOld, rNew, false))

	decode := func(s string) []string {
		var out []string
		for _, r := range s {
			if i := int(r); i >= 0 && i < len(lineArray) {
				out = append(out, lineArray[i])
			}
		}
		return out
	}

	var hunks []Hunk
	var dels, ins []string
	flush := func() {
		if len(dels) == 0 && len(ins) == 0 {
			return
		}
		h := Hunk{Op: opFor(len(dels) > 0, len(ins) > 0), Old: strings.Join(dels, ""), New: strings.Join(ins, "")}
		h.Lines = pairLines(dmp, dels, ins)
		hunks = append(hunks, h)
		dels, ins = nil, nil
	}

	for _, d := range diffs {
		lines := decode(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			if len(lines) > 0 {
				text := strings.Join(lines, "")
				hunks = append(hunks, Hunk{Op: OpEqual, Old: text, New: text})
			}
		case diffmatchpatch.DiffDelete:
			dels = append(dels, lines...)
		case diffmatchpatch.DiffInsert:
			ins = append(ins, lines...)
		}
	}
	flush()

	d := Diff{Old: oldText, New: newText, Hunks: hunks}
	if err := d.validate(); err != nil {
		panic(fmt.Errorf("rawdiff.Compute: %w", err))
	}
	return d
}

// Changed reports whether the two texts differ.
func (d Diff) Changed() bool {
	for _, h := range d.Hunks {
		if h.Op != OpEqual {
			return true
		}
	}
	return false
}

func opFor(hasOld, hasNew bool) Op {
	switch {
	case hasOld && hasNew:
		return OpReplace
	case hasOld:
		return OpDelete
	case hasNew:
		return OpInsert
	}
	return OpEqual
}

// pairLines pairs deleted and inserted lines by position. Leftovers are pure deletes or inserts.
func pairLines(dmp *diffmatchpatch.DiffMatchPatch, dels, ins []string) []Line {
	n := min(len(dels), len(ins))
	lines := make([]Line, 0, max(len(dels), len(ins)))
	for i := 0; i < n; i++ {
		o, nw := dels[i], ins[i]
		if o == nw {
			lines = append(lines, Line{Op: OpEqual, Old: o, New: nw})
			continue
		}
		diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(strings.TrimSuffix(o, eol), strings.TrimSuffix(nw, eol), false))
		lines = append(lines, Line{Op: OpReplace, Old: o, New: nw, Spans: toSpans(diffs)})
	}
	for _, o := range dels[n:] {
		var spans []Span
		if core := strings.TrimSuffix(o, eol); core != "" {
			spans = []Span{{Op: OpDelete, Old: core}}
		}
		lines = append(lines, Line{Op: OpDelete, Old: o, Spans: spans})
	}
	for _, nw := range ins[n:] {
		var spans []Span
		if core := strings.TrimSuffix(nw, eol); core != "" {
			spans = []Span{{Op: OpInsert, New: core}}
		}
		lines = append(lines, Line{Op: OpInsert, New: nw, Spans: spans})
	}
	return lines
}

// toSpans converts character diffs to spans. Adjacent changes merge into one span, as do changes separated by an equal run of at most maxBridgeLen bytes.
func toSpans(diffs []diffmatchpatch.Diff) []Span {
	var spans []Span
	var oldBuf, newBuf strings.Builder

	closeChange := func() {
		if oldBuf.Len() == 0 && newBuf.Len() == 0 {
			return
		}
		spans = append(spans, Span{Op: opFor(oldBuf.Len() > 0, newBuf.Len() > 0), Old: oldBuf.String(), New: newBuf.String()})
		oldBuf.Reset()
		newBuf.Reset()
	}

	for i, d := range diffs {
		if d.Text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			oldBuf.WriteString(d.Text)
		case diffmatchpatch.DiffInsert:
			newBuf.WriteString(d.Text)
		case diffmatchpatch.DiffEqual:
			inChange := oldBuf.Len() > 0 || newBuf.Len() > 0
			moreChanges := i+1 < len(diffs)
			if inChange && moreChanges && len(d.Text) <= maxBridgeLen {
				oldBuf.WriteString(d.Text)
				newBuf.WriteString(d.Text)
				continue
			}
			closeChange()
			if n := len(spans); n > 0 && spans[n-1].Op == OpEqual {
				spans[n-1].Old += d.Text
				spans[n-1].New += d.Text
				continue
			}
			spans = append(spans, Span{Op: OpEqual, Old: d.Text, New: d.Text})
		}
	}
	closeChange()
	return spans
}
