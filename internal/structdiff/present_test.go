package structdiff

import (
	"strconv"
	"strings"
	"testing"

	"github.com/codalotl/segdiff/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildResult builds a Result from shorthand specs: "=N1*A" is a Match, "~N3*A|N3*B" is Modified, "-SE*1" is LeftOnly, "+SE*2" is RightOnly.
func buildResult(t *testing.T, specs ...string) Result {
	t.Helper()
	var rows []Row
	for _, s := range specs {
		require.NotEmpty(t, s)
		body := s[1:]
		switch s[0] {
		case '=':
			seg := segment.Split(body, "*")
			rows = append(rows, Match{Left: seg, Right: seg})
		case '~':
			l, r, _ := strings.Cut(body, "|")
			ls, rs := segment.Split(l, "*"), segment.Split(r, "*")
			rows = append(rows, Modified{Left: ls, Right: rs, DiffPositions: DiffElements(ls, rs)})
		case '-':
			rows = append(rows, LeftOnly{Left: segment.Split(body, "*")})
		case '+':
			rows = append(rows, RightOnly{Right: segment.Split(body, "*")})
		default:
			t.Fatalf("bad row spec %q", s)
		}
	}
	return Result{Rows: rows}
}

// describe renders display rows compactly: the row's id for rows and "#n" for Collapsed.
func describe(rows []DisplayRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		switch r := r.(type) {
		case Collapsed:
			out[i] = "#" + strconv.Itoa(r.Count)
		case Row:
			out[i] = r.ID()
		}
	}
	return out
}

func diffsOnly(ctx int, pins ...string) PresentOptions {
	return PresentOptions{DiffsOnly: true, ContextSize: ctx, PinnedIDs: NewIDSet(pins...)}
}

func TestPresent_NoOptions(t *testing.T) {
	res := buildResult(t, "=ISA*1", "~N3*A|N3*B", "=SE*1")

	rows := Present(res, DefaultPresentOptions())
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, res.Rows[i], r)
	}
}

func TestPresent_TypeFilter(t *testing.T) {
	res := buildResult(t, "=ISA*1", "=N1*BY*ACME", "=N3*MAIN", "~N1*ST*A|N1*ST*B", "+N1*RE*C", "-N4*X", "=SE*1")

	rows := Present(res, PresentOptions{TypeFilter: "N1"})
	assert.Equal(t, []string{"N1", "N1", "N1"}, describe(rows))

	opts := diffsOnly(0)
	opts.TypeFilter = "N1"
	rows = Present(res, opts)
	assert.Equal(t, []string{"#1", "N1", "N1"}, describe(rows))

	assert.Empty(t, Present(res, PresentOptions{TypeFilter: "ZZZ"}))
	assert.Empty(t, Present(res, PresentOptions{TypeFilter: "ZZZ", DiffsOnly: true}))
}

func TestPresent_ContextMeasuredAfterFilter(t *testing.T) {
	// In the unfiltered list the modified N1 is far from the other N1 rows; after filtering they are adjacent.
	res := buildResult(t, "=N1*A", "=X*1", "=X*2", "=X*3", "=X*4", "~N1*B|N1*C", "=X*5", "=X*6", "=X*7", "=N1*D", "=N1*E", "=N1*F")

	opts := diffsOnly(1)
	opts.TypeFilter = "N1"
	assert.Equal(t, []string{"N1", "N1", "N1", "#2"}, describe(Present(res, opts)))
}

func TestPresent_Collapsing(t *testing.T) {
	cases := []struct {
		name  string
		specs []string
		opts  PresentOptions
		want  []string
	}{
		{
			name:  "run between two windows",
			specs: []string{"~A*1|A*2", "=M*1", "=M*2", "=M*3", "=M*4", "=M*5", "=M*6", "=M*7", "=M*8", "=M*9", "=M*10", "~B*1|B*2"},
			opts:  diffsOnly(2),
			want:  []string{"A", "M", "M", "#6", "M", "M", "B"},
		},
		{
			name:  "leading and trailing runs",
			specs: []string{"=M*1", "=M*2", "=M*3", "=M*4", "=M*5", "-D*1", "=M*6", "=M*7", "=M*8", "=M*9", "=M*10"},
			opts:  diffsOnly(2),
			want:  []string{"#3", "M", "M", "D", "M", "M", "#3"},
		},
		{
			name:  "overlapping windows merge",
			specs: []string{"~A*1|A*2", "=M*1", "=M*2", "=M*3", "=M*4", "+B*1"},
			opts:  diffsOnly(2),
			want:  []string{"A", "M", "M", "M", "M", "B"},
		},
		{
			name:  "gap one longer than twice the context",
			specs: []string{"-A*1", "=M*1", "=M*2", "=M*3", "=M*4", "=M*5", "+B*1"},
			opts:  diffsOnly(2),
			want:  []string{"A", "M", "M", "#1", "M", "M", "B"},
		},
		{
			name:  "zero context",
			specs: []string{"=M*1", "~A*1|A*2", "=M*2", "=M*3", "+B*1", "=M*4"},
			opts:  diffsOnly(0),
			want:  []string{"#1", "A", "#2", "B", "#1"},
		},
		{
			name:  "negative context acts as zero",
			specs: []string{"=M*1", "~A*1|A*2", "=M*2"},
			opts:  diffsOnly(-3),
			want:  []string{"#1", "A", "#1"},
		},
		{
			name:  "no differences collapses everything",
			specs: []string{"=M*1", "=M*2", "=M*3"},
			opts:  diffsOnly(2),
			want:  []string{"#3"},
		},
		{
			name:  "pinned rows stay visible with context",
			specs: []string{"=ISA*1", "=GS*1", "=M*1", "=M*2", "=M*3", "=M*4", "=M*5", "~N1*A|N1*B", "=M*6", "=M*7", "=M*8", "=IEA*1"},
			opts:  diffsOnly(1, "ISA", "GS", "IEA"),
			want:  []string{"ISA", "GS", "M", "#3", "M", "N1", "M", "#1", "M", "IEA"},
		},
		{
			name:  "empty result",
			specs: nil,
			opts:  diffsOnly(2),
			want:  []string{},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := buildResult(t, c.specs...)
			assert.Equal(t, c.want, describe(Present(res, c.opts)))
		})
	}
}

func TestPresent_CollapsedRowsAccountForEveryRow(t *testing.T) {
	res := buildResult(t, "=M*1", "=M*2", "-A*1", "=M*3", "=M*4", "=M*5", "=M*6", "=M*7", "+B*1", "=M*8")
	rows := Present(res, diffsOnly(1))

	total := 0
	for _, r := range rows {
		if c, ok := r.(Collapsed); ok {
			total += c.Count
			continue
		}
		total++
	}
	assert.Equal(t, len(res.Rows), total)
}

func TestNavigation(t *testing.T) {
	res := buildResult(t, "=M*1", "~A*1|A*2", "=M*2", "=M*3", "=M*4", "=M*5", "+B*1")
	rows := Present(res, diffsOnly(0))
	require.Equal(t, []string{"#1", "A", "#4", "B"}, describe(rows))

	assert.Equal(t, 1, NextDifference(rows, -1))
	assert.Equal(t, 3, NextDifference(rows, 1))
	assert.Equal(t, -1, NextDifference(rows, 3))
	assert.Equal(t, 1, PrevDifference(rows, 3))
	assert.Equal(t, -1, PrevDifference(rows, 1))
	assert.Equal(t, 3, PrevDifference(rows, 100))
	assert.Equal(t, 1, res.FirstDifference())
}

func TestIDSet(t *testing.T) {
	s := NewIDSet("ST", "ISA")
	assert.True(t, s.Has("ISA"))
	s.Add("GS")
	s.Remove("ST")
	assert.Equal(t, []string{"GS", "ISA"}, s.Sorted())

	var nilSet IDSet
	assert.False(t, nilSet.Has("ISA"))
}

func TestSummarize_IgnoresPresentation(t *testing.T) {
	res := buildResult(t, "=ISA*1", "~N1*A|N1*B", "+N1*C", "-N3*D", "-N3*E", "=SE*1")

	want := Summary{Added: 1, Removed: 2, Modified: 1, Unchanged: 2}
	assert.Equal(t, want, Summarize(res))
	assert.True(t, want.HasDifferences())
	assert.Equal(t, "1 added, 2 removed, 1 modified, 2 unchanged", want.String())

	// Filtering a view never changes the summary, which is computed from the result.
	opts := diffsOnly(0)
	opts.TypeFilter = "SE"
	_ = Present(res, opts)
	assert.Equal(t, want, Summarize(res))
}
