package rawdiff

import (
	"fmt"
	"strings"
)

// checkOp verifies that old and new agree with op.
func checkOp(op Op, old, new string) error {
	switch op {
	case OpEqual:
		if old != new {
			return fmt.Errorf("equal requires old == new")
		}
	case OpInsert:
		if old != "" || new == "" {
			return fmt.Errorf("insert requires only new text")
		}
	case OpDelete:
		if old == "" || new != "" {
			return fmt.Errorf("delete requires only old text")
		}
	case OpReplace:
		if old == "" || new == "" {
			return fmt.Errorf("replace requires old and new text")
		}
	default:
		return fmt.Errorf("unknown op %d", int(op))
	}
	return nil
}

// validate checks the Diff invariants and returns the first violation.
func (d Diff) validate() error {
	var oldAll, newAll strings.Builder
	for hi, h := range d.Hunks {
		if err := checkOp(h.Op, h.Old, h.New); err != nil {
			return fmt.Errorf("hunk[%d]: %w", hi, err)
		}
		oldAll.WriteString(h.Old)
		newAll.WriteString(h.New)
		if h.Op == OpEqual {
			if h.Lines != nil {
				return fmt.Errorf("hunk[%d]: equal hunk has lines", hi)
			}
			continue
		}

		var oldLines, newLines strings.Builder
		for li, ln := range h.Lines {
			if err := checkOp(ln.Op, ln.Old, ln.New); err != nil {
				return fmt.Errorf("hunk[%d].line[%d]: %w", hi, li, err)
			}
			oldLines.WriteString(ln.Old)
			newLines.WriteString(ln.New)
			if ln.Op == OpEqual {
				continue
			}

			var oldSpans, newSpans strings.Builder
			for si, sp := range ln.Spans {
				if err := checkOp(sp.Op, sp.Old, sp.New); err != nil {
					return fmt.Errorf("hunk[%d].line[%d].span[%d]: %w", hi, li, si, err)
				}
				if strings.Contains(sp.Old, eol) || strings.Contains(sp.New, eol) {
					return fmt.Errorf("hunk[%d].line[%d].span[%d]: span contains a newline", hi, li, si)
				}
				oldSpans.WriteString(sp.Old)
				newSpans.WriteString(sp.New)
			}
			if strings.TrimSuffix(ln.Old, eol) != oldSpans.String() || strings.TrimSuffix(ln.New, eol) != newSpans.String() {
				return fmt.Errorf("hunk[%d].line[%d]: spans do not reconstruct the line", hi, li)
			}
		}
		if h.Old != oldLines.String() || h.New != newLines.String() {
			return fmt.Errorf("hunk[%d]: lines do not reconstruct the hunk", hi)
		}
	}
	if d.Old != oldAll.String() || d.New != newAll.String() {
		return fmt.Errorf("hunks do not reconstruct the input")
	}
	return nil
}
