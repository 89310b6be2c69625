package structdiff

import "github.com/codalotl/segdiff/internal/segment"

// Kind classifies an aligned row.
type Kind int

const (
	KindMatch Kind = iota
	KindModified
	KindLeftOnly
	KindRightOnly
)

func (k Kind) String() string {
	switch k {
	case KindMatch:
		return "match"
	case KindModified:
		return "modified"
	case KindLeftOnly:
		return "left-only"
	case KindRightOnly:
		return "right-only"
	default:
		return "unknown"
	}
}

// DisplayRow is one row of presentation output. It is either a Row or a Collapsed placeholder.
type DisplayRow interface {
	isDisplayRow()
}

// Row is one aligned row: Match, Modified, LeftOnly, or RightOnly.
type Row interface {
	DisplayRow

	// Kind returns the row's classification.
	Kind() Kind

	// ID returns the segment id the row is about. Both sides of a Match or Modified row share it.
	ID() string
}

// Match is an identical segment present on both sides.
type Match struct {
	Left  segment.Segment
	Right segment.Segment
}

// Modified pairs two segments with the same id and different elements.
type Modified struct {
	Left          segment.Segment
	Right         segment.Segment
	DiffPositions []int // Sorted element indexes where Left and Right differ.
}

// LeftOnly is a segment present only in the left document.
type LeftOnly struct {
	Left segment.Segment
}

// RightOnly is a segment present only in the right document.
type RightOnly struct {
	Right segment.Segment
}

// Collapsed stands in for Count consecutive rows hidden by Present.
type Collapsed struct {
	Count int
}

func (Match) isDisplayRow()     {}
func (Modified) isDisplayRow()  {}
func (LeftOnly) isDisplayRow()  {}
func (RightOnly) isDisplayRow() {}
func (Collapsed) isDisplayRow() {}

func (Match) Kind() Kind     { return KindMatch }
func (Modified) Kind() Kind  { return KindModified }
func (LeftOnly) Kind() Kind  { return KindLeftOnly }
func (RightOnly) Kind() Kind { return KindRightOnly }

func (r Match) ID() string     { return r.Left.ID }
func (r Modified) ID() string  { return r.Left.ID }
func (r LeftOnly) ID() string  { return r.Left.ID }
func (r RightOnly) ID() string { return r.Right.ID }

// Differs reports whether element index i differs between the two sides.
func (r Modified) Differs(i int) bool {
	for _, p := range r.DiffPositions {
		if p == i {
			return true
		}
		if p > i {
			return false
		}
	}
	return false
}

// LeftOf returns the left segment of r, if r has one.
func LeftOf(r Row) (segment.Segment, bool) {
	switch r := r.(type) {
	case Match:
		return r.Left, true
	case Modified:
		return r.Left, true
	case LeftOnly:
		return r.Left, true
	default:
		return segment.Segment{}, false
	}
}

// RightOf returns the right segment of r, if r has one.
func RightOf(r Row) (segment.Segment, bool) {
	switch r := r.(type) {
	case Match:
		return r.Right, true
	case Modified:
		return r.Right, true
	case RightOnly:
		return r.Right, true
	default:
		return segment.Segment{}, false
	}
}

// Result is the alignment of two segment sequences. It is immutable once returned by Align: a new comparison produces a new Result.
type Result struct {
	Rows []Row
}

// Left returns the left segments of r in row order. By construction, this is the left input of Align.
func (r Result) Left() []segment.Segment {
	var segs []segment.Segment
	for _, row := range r.Rows {
		if s, ok := LeftOf(row); ok {
			segs = append(segs, s)
		}
	}
	return segs
}

// Right returns the right segments of r in row order. By construction, this is the right input of Align.
func (r Result) Right() []segment.Segment {
	var segs []segment.Segment
	for _, row := range r.Rows {
		if s, ok := RightOf(row); ok {
			segs = append(segs, s)
		}
	}
	return segs
}

// FirstDifference returns the index of the first non-Match row, or -1 if both sides are identical.
func (r Result) FirstDifference() int {
	for i, row := range r.Rows {
		if row.Kind() != KindMatch {
			return i
		}
	}
	return -1
}
