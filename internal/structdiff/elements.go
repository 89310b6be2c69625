package structdiff

import "github.com/codalotl/segdiff/internal/segment"

// DiffElements returns the sorted element indexes at which left and right differ. Comparison is positional: for a given segment type, an element's position is its
// meaning, so shifted elements are reported as changed rather than re-aligned. An index past the end of one side compares as "".
func DiffElements(left, right segment.Segment) []int {
	n := max(len(left.Elements), len(right.Elements))
	var positions []int
	for i := 0; i < n; i++ {
		if left.Element(i) != right.Element(i) {
			positions = append(positions, i)
		}
	}
	return positions
}
