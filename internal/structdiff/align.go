package structdiff

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/codalotl/segdiff/internal/segment"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Align aligns left (old) and right (new) into one ordered, classified sequence of rows.
//
// Match rows form a longest common subsequence of whole segments (id + elements; Raw is ignored). Between Match anchors, unmatched segments that share an id are paired
// into Modified rows by order of occurrence on each side; the rest become LeftOnly/RightOnly, with left segments emitted before right segments between consecutive pairs.
//
// Align never fails: empty, identical, and fully disjoint inputs all produce a valid Result.
func Align(left, right []segment.Segment) Result {
	keys := newKeyTable()
	rLeft := keys.encode(left)
	rRight := keys.encode(right)

	// A zero timeout disables diffmatchpatch's speedup heuristics, so the equalities form a maximal common subsequence.
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(rLeft, rRight, false)

	var rows []Row
	var gapLeft, gapRight []segment.Segment
	li, ri := 0, 0

	flush := func() {
		rows = append(rows, resolveGap(gapLeft, gapRight)...)
		gapLeft = nil
		gapRight = nil
	}

	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			for k := 0; k < n; k++ {
				rows = append(rows, Match{Left: left[li], Right: right[ri]})
				li++
				ri++
			}
		case diffmatchpatch.DiffDelete:
			gapLeft = append(gapLeft, left[li:li+n]...)
			li += n
		case diffmatchpatch.DiffInsert:
			gapRight = append(gapRight, right[ri:ri+n]...)
			ri += n
		}
	}
	flush()

	res := Result{Rows: rows}
	if err := res.validate(left, right); err != nil {
		panic(fmt.Errorf("Align: validate failed with %v", err))
	}
	return res
}

// resolveGap classifies the unmatched segments between two Match anchors.
//
// Each left segment, in order, is paired with the earliest right segment of the same id that comes after the previously paired right segment. Keeping pairs in order
// on both sides keeps the rows a valid interleaving of the inputs.
func resolveGap(lefts, rights []segment.Segment) []Row {
	if len(lefts) == 0 && len(rights) == 0 {
		return nil
	}
	rows := make([]Row, 0, len(lefts)+len(rights))

	// Candidate right indexes per id, in order of occurrence.
	candidates := make(map[string][]int)
	for j, s := range rights {
		candidates[s.ID] = append(candidates[s.ID], j)
	}

	li, ri := 0, 0 // next left/right segment not yet emitted
	for i, l := range lefts {
		q := candidates[l.ID]
		for len(q) > 0 && q[0] < ri {
			q = q[1:]
		}
		if len(q) == 0 {
			candidates[l.ID] = q
			continue
		}
		j := q[0]
		candidates[l.ID] = q[1:]

		for ; li < i; li++ {
			rows = append(rows, LeftOnly{Left: lefts[li]})
		}
		for ; ri < j; ri++ {
			rows = append(rows, RightOnly{Right: rights[ri]})
		}
		rows = append(rows, Modified{Left: l, Right: rights[j], DiffPositions: DiffElements(l, rights[j])})
		li = i + 1
		ri = j + 1
	}

	for ; li < len(lefts); li++ {
		rows = append(rows, LeftOnly{Left: lefts[li]})
	}
	for ; ri < len(rights); ri++ {
		rows = append(rows, RightOnly{Right: rights[ri]})
	}
	return rows
}

// keyTable maps each distinct segment comparison key to a rune, so segment sequences can be diffed as rune sequences (the same trick diffmatchpatch uses for lines).
type keyTable struct {
	runes map[string]rune
}

func newKeyTable() *keyTable {
	return &keyTable{runes: make(map[string]rune)}
}

func (t *keyTable) encode(segs []segment.Segment) []rune {
	out := make([]rune, len(segs))
	for i, s := range segs {
		k := comparisonKey(s)
		r, ok := t.runes[k]
		if !ok {
			r = keyRune(len(t.runes))
			t.runes[k] = r
		}
		out[i] = r
	}
	return out
}

// keyRune returns the i-th valid rune, skipping the surrogate range so that runes survive a round trip through a Go string.
func keyRune(i int) rune {
	const surrogateMin, surrogateCount = 0xD800, 0x800
	if i >= surrogateMin {
		i += surrogateCount
	}
	if i > utf8.MaxRune {
		panic(fmt.Errorf("structdiff: more than %d distinct segments", utf8.MaxRune-surrogateCount))
	}
	return rune(i)
}

// comparisonKey encodes a segment's identity (id + elements). Every part is length-prefixed, so distinct segments never share a key whatever bytes their elements hold.
func comparisonKey(s segment.Segment) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(s.Elements)))
	for _, part := range append([]string{s.ID}, s.Elements...) {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(len(part)))
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}
