// Package structdiff aligns two versions of a segment-based interchange and presents the alignment as a filterable, collapsible list of rows.
//
// Representation: Align returns a Result, an ordered slice of rows. Each Row is exactly one of:
//   - Match: identical segment on both sides (same id and elements).
//   - Modified: same segment id on both sides, different elements. DiffPositions lists the differing element indexes.
//   - LeftOnly: segment present only in the left (old) document.
//   - RightOnly: segment present only in the right (new) document.
//
// Invariants:
//   - Concatenating the left segments of all rows, in row order, reproduces the left input exactly. Same for the right.
//   - Every input segment appears in exactly one row.
//   - DiffPositions is sorted, has no duplicates, and every index is below the longer segment's element count.
//
// Alignment: Align maximizes Match rows with a longest common subsequence over whole segments, like a line diff at segment granularity. Unmatched runs between Match
// anchors form gaps; inside a gap, left and right segments with the same id are paired into Modified rows by order of occurrence (never by content similarity). This
// means a reordering of repeated segments of one type shows up as Modified pairs rather than a move.
//
// Presentation: Present derives a display list from a Result: an optional type filter, then optional "diffs only" collapsing, which keeps every significant row
// (non-Match, or pinned id) plus ContextSize rows around it, and replaces each hidden run with a Collapsed row. Index arithmetic for context happens after the type
// filter is applied.
//
//	res := structdiff.Align(oldDoc.Segments, newDoc.Segments)
//	opts := structdiff.DefaultPresentOptions()
//	opts.DiffsOnly = true
//	opts.PinnedIDs = structdiff.NewIDSet(segment.DefaultPinnedIDs(oldDoc.Dialect)...)
//	fmt.Println(structdiff.RenderText(structdiff.Present(res, opts)))
//
// Everything in this package is a pure function of its inputs. Align is O(N*D) in time (N segments, D edits), which can be slow for large, very different documents;
// Compare runs it on another goroutine so interactive callers can stay responsive and give up early.
package structdiff
