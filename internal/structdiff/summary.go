package structdiff

import "fmt"

// Summary counts the rows of a Result by classification.
type Summary struct {
	Added     int `json:"added" yaml:"added"`         // RightOnly rows.
	Removed   int `json:"removed" yaml:"removed"`     // LeftOnly rows.
	Modified  int `json:"modified" yaml:"modified"`   // Modified rows.
	Unchanged int `json:"unchanged" yaml:"unchanged"` // Match rows.
}

// Summarize counts the rows of result. It always looks at the whole result, independent of any presentation filter.
func Summarize(result Result) Summary {
	var s Summary
	for _, row := range result.Rows {
		switch row.Kind() {
		case KindRightOnly:
			s.Added++
		case KindLeftOnly:
			s.Removed++
		case KindModified:
			s.Modified++
		case KindMatch:
			s.Unchanged++
		}
	}
	return s
}

// HasDifferences reports whether any row is not a Match.
func (s Summary) HasDifferences() bool {
	return s.Added+s.Removed+s.Modified > 0
}

func (s Summary) String() string {
	return fmt.Sprintf("%d added, %d removed, %d modified, %d unchanged", s.Added, s.Removed, s.Modified, s.Unchanged)
}
