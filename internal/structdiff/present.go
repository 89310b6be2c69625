package structdiff

import "sort"

// DefaultContextSize is the number of rows kept visible on each side of a significant row.
const DefaultContextSize = 2

// IDSet is a set of segment ids.
type IDSet map[string]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	s.Add(ids...)
	return s
}

// Has reports whether id is in s. A nil set is empty.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s IDSet) Remove(ids ...string) {
	for _, id := range ids {
		delete(s, id)
	}
}

// Sorted returns the ids in s in ascending order.
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PresentOptions control how Present derives display rows.
type PresentOptions struct {
	TypeFilter  string // If non-empty, only rows about this segment id are kept.
	DiffsOnly   bool   // If true, unchanged rows far from any significant row are collapsed.
	PinnedIDs   IDSet  // Ids that are always significant under DiffsOnly, even when unchanged (typically envelope/header segments).
	ContextSize int    // Rows kept on each side of a significant row under DiffsOnly. Negative values act as 0.
}

// DefaultPresentOptions returns options that show every row, with DefaultContextSize ready for when DiffsOnly is turned on.
func DefaultPresentOptions() PresentOptions {
	return PresentOptions{ContextSize: DefaultContextSize}
}

// Present derives the display list for result.
//
// First, if opts.TypeFilter is set, rows whose id differs are dropped; all later index arithmetic uses this narrowed list. Then, if opts.DiffsOnly, a row is significant
// if it isn't a Match or its id is pinned. Each significant row keeps opts.ContextSize rows visible on each side (windows merge when they overlap), and each maximal
// run of remaining rows is replaced by one Collapsed row.
//
// Present never fails; a TypeFilter matching nothing yields an empty list.
func Present(result Result, opts PresentOptions) []DisplayRow {
	rows := result.Rows
	if opts.TypeFilter != "" {
		filtered := make([]Row, 0, len(rows))
		for _, row := range rows {
			if row.ID() == opts.TypeFilter {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	out := make([]DisplayRow, 0, len(rows))
	if !opts.DiffsOnly {
		for _, row := range rows {
			out = append(out, row)
		}
		return out
	}

	ctxSize := max(opts.ContextSize, 0)
	visible := make([]bool, len(rows))
	last := -1 // highest index already marked visible
	for i, row := range rows {
		if row.Kind() == KindMatch && !opts.PinnedIDs.Has(row.ID()) {
			continue
		}
		lo := max(i-ctxSize, last+1)
		hi := min(i+ctxSize, len(rows)-1)
		for k := lo; k <= hi; k++ {
			visible[k] = true
		}
		last = max(last, hi)
	}

	hidden := 0
	for i, row := range rows {
		if !visible[i] {
			hidden++
			continue
		}
		if hidden > 0 {
			out = append(out, Collapsed{Count: hidden})
			hidden = 0
		}
		out = append(out, row)
	}
	if hidden > 0 {
		out = append(out, Collapsed{Count: hidden})
	}
	return out
}

// NextDifference returns the index of the first non-Match row in rows after index from, or -1 if there is none. Pass -1 to search from the start.
func NextDifference(rows []DisplayRow, from int) int {
	for i := max(from+1, 0); i < len(rows); i++ {
		if isDifference(rows[i]) {
			return i
		}
	}
	return -1
}

// PrevDifference returns the index of the last non-Match row in rows before index from, or -1 if there is none.
func PrevDifference(rows []DisplayRow, from int) int {
	for i := min(from, len(rows)) - 1; i >= 0; i-- {
		if isDifference(rows[i]) {
			return i
		}
	}
	return -1
}

func isDifference(r DisplayRow) bool {
	row, ok := r.(Row)
	return ok && row.Kind() != KindMatch
}
