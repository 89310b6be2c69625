package structdiff

import (
	"fmt"
	"slices"

	"github.com/codalotl/segdiff/internal/segment"
)

// validate checks the Result invariants against the inputs it was built from and returns an error on the first violation.
func (r Result) validate(left, right []segment.Segment) error {
	li, ri := 0, 0

	takeLeft := func(i int, s segment.Segment) error {
		if li >= len(left) {
			return fmt.Errorf("row[%d]: more left segments than input", i)
		}
		if !sameSegment(left[li], s) {
			return fmt.Errorf("row[%d]: left segment %d out of order", i, li)
		}
		li++
		return nil
	}
	takeRight := func(i int, s segment.Segment) error {
		if ri >= len(right) {
			return fmt.Errorf("row[%d]: more right segments than input", i)
		}
		if !sameSegment(right[ri], s) {
			return fmt.Errorf("row[%d]: right segment %d out of order", i, ri)
		}
		ri++
		return nil
	}

	for i, row := range r.Rows {
		switch row := row.(type) {
		case Match:
			if !row.Left.Equal(row.Right) {
				return fmt.Errorf("row[%d]: Match requires equal segments", i)
			}
			if err := takeLeft(i, row.Left); err != nil {
				return err
			}
			if err := takeRight(i, row.Right); err != nil {
				return err
			}
		case Modified:
			if row.Left.ID != row.Right.ID {
				return fmt.Errorf("row[%d]: Modified requires the same id (%q vs %q)", i, row.Left.ID, row.Right.ID)
			}
			limit := max(len(row.Left.Elements), len(row.Right.Elements))
			for k, p := range row.DiffPositions {
				if p < 0 || p >= limit {
					return fmt.Errorf("row[%d]: diff position %d out of range", i, p)
				}
				if k > 0 && row.DiffPositions[k-1] >= p {
					return fmt.Errorf("row[%d]: diff positions not strictly increasing", i)
				}
			}
			if err := takeLeft(i, row.Left); err != nil {
				return err
			}
			if err := takeRight(i, row.Right); err != nil {
				return err
			}
		case LeftOnly:
			if err := takeLeft(i, row.Left); err != nil {
				return err
			}
		case RightOnly:
			if err := takeRight(i, row.Right); err != nil {
				return err
			}
		default:
			return fmt.Errorf("row[%d]: unexpected row type %T", i, row)
		}
	}

	if li != len(left) {
		return fmt.Errorf("rows cover %d of %d left segments", li, len(left))
	}
	if ri != len(right) {
		return fmt.Errorf("rows cover %d of %d right segments", ri, len(right))
	}
	return nil
}

// sameSegment reports whether a and b are the same input segment, including Raw and LineNumber.
func sameSegment(a, b segment.Segment) bool {
	return a.ID == b.ID && a.Raw == b.Raw && a.LineNumber == b.LineNumber && slices.Equal(a.Elements, b.Elements)
}
