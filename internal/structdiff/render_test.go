package structdiff

import (
	"strings"
	"testing"

	"github.com/codalotl/segdiff/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderText(t *testing.T) {
	left := segs("ISA*1", "GS*A", "N1*BUYER", "N3*123 Main St", "REF*DP*1", "SE*1")
	right := segs("ISA*1", "GS*A", "N1*BUYER", "N3*456 Oak Ave", "SE*1", "SE*2")
	res := Align(left, right)

	exp := strings.Join([]string{
		"  ISA*1",
		"  GS*A",
		"  N1*BUYER",
		"~ N3*123 Main St  ->  N3*456 Oak Ave",
		"- REF*DP*1",
		"  SE*1",
		"+ SE*2",
	}, "\n")
	assert.Equal(t, exp, RenderText(Present(res, DefaultPresentOptions())))

	opts := diffsOnly(0)
	exp = strings.Join([]string{
		"  ... 3 unchanged segments ...",
		"~ N3*123 Main St  ->  N3*456 Oak Ave",
		"- REF*DP*1",
		"  ... 1 unchanged segment ...",
		"+ SE*2",
	}, "\n")
	assert.Equal(t, exp, RenderText(Present(res, opts)))

	assert.Equal(t, "", RenderText(nil))
}

func TestRenderSideBySide_Plain(t *testing.T) {
	res := buildResult(t, "=ISA*1", "~N3*123 Main St|N3*456 Oak Ave", "-REF*DP", "+SE*2")
	rows := Present(res, DefaultPresentOptions())
	rows = append(rows, Collapsed{Count: 4})

	// Width 40 leaves 17 cells per column.
	pad := func(s string) string { return s + strings.Repeat(" ", 17-len(s)) }
	exp := strings.Join([]string{
		"  " + pad("ISA*1") + " │ " + pad("ISA*1"),
		"~ " + pad("N3*123 Main St") + " │ " + pad("N3*456 Oak Ave"),
		"- " + pad("REF*DP") + " │ " + pad(""),
		"+ " + pad("") + " │ " + pad("SE*2"),
		"  " + "... 4 unchanged segments ..." + strings.Repeat(" ", 10),
	}, "\n")
	assert.Equal(t, exp, RenderSideBySide(rows, SideBySideOptions{Width: 40}))
}

func TestRenderSideBySide_Truncates(t *testing.T) {
	res := buildResult(t, "~N3*123 Main St|N3*456 Oak Ave")

	// Width 25 leaves 10 cells per column.
	out := RenderSideBySide(Present(res, DefaultPresentOptions()), SideBySideOptions{Width: 25})
	assert.Equal(t, "~ N3*123 Ma… │ N3*456 Oa…", out)

	// Widths below the minimum are raised to it.
	assert.Equal(t, out, RenderSideBySide(Present(res, DefaultPresentOptions()), SideBySideOptions{Width: 3}))
}

func TestRenderSideBySide_ColorHighlightsDifferingElements(t *testing.T) {
	res := buildResult(t, "~PO1*1*10*EA|PO1*1*12*EA", "-SE*1")
	out := RenderSideBySide(Present(res, DefaultPresentOptions()), SideBySideOptions{Width: 60, Color: true})

	assert.Contains(t, out, pinkSpan+"10"+reset)
	assert.Contains(t, out, greenSpan+"12"+reset)
	assert.NotContains(t, out, pinkSpan+"PO1")
	assert.NotContains(t, out, pinkSpan+"EA")
	assert.Contains(t, out, blackFG+pinkLine+"SE*1")
}

func TestRenderSideBySide_ControlCharactersStayOnOneLine(t *testing.T) {
	left := segment.Segment{ID: "N1", Elements: []string{"N1", "A\nB"}, Raw: "N1*A\nB"}
	right := segment.Segment{ID: "N1", Elements: []string{"N1", "A\x00B"}, Raw: "N1*A\x00B"}
	rows := []DisplayRow{
		Modified{Left: left, Right: right, DiffPositions: DiffElements(left, right)},
		LeftOnly{Left: segment.Segment{ID: "NTE", Elements: []string{"NTE", "x\ty"}, Raw: "NTE*x\ty"}},
	}

	for _, color := range []bool{false, true} {
		out := RenderSideBySide(rows, SideBySideOptions{Width: 60, Color: color})
		lines := strings.Split(out, "\n")
		require.Len(t, lines, len(rows))
		assert.Contains(t, lines[0], "A␊B")
		assert.Contains(t, lines[0], "A␀B")
		assert.Contains(t, lines[1], "x␉y")
		assert.NotContains(t, out, "\t")
	}
}

func TestRenderSideBySide_UnrebuildableRawShownAsWritten(t *testing.T) {
	// Elements are stored unescaped, so the release character only survives in Raw.
	left := segment.Segment{ID: "FTX", Elements: []string{"FTX", "AAI", "Rate 10+2"}, Raw: "FTX+AAI+Rate 10?+2"}
	right := segment.Segment{ID: "FTX", Elements: []string{"FTX", "AAI", "Rate 12"}, Raw: "FTX+AAI+Rate 12"}
	una := segment.Segment{ID: "UNA", Elements: []string{"UNA", ":+.? "}, Raw: "UNA:+.? "}
	una2 := segment.Segment{ID: "UNA", Elements: []string{"UNA", ":+,? "}, Raw: "UNA:+,? "}
	rows := []DisplayRow{
		Modified{Left: left, Right: right, DiffPositions: DiffElements(left, right)},
		Modified{Left: una, Right: una2, DiffPositions: DiffElements(una, una2)},
	}

	out := RenderSideBySide(rows, SideBySideOptions{Width: 80})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "FTX+AAI+Rate 10?+2")
	assert.Contains(t, lines[0], "FTX+AAI+Rate 12")
	assert.Contains(t, lines[1], "UNA:+.? ")
	assert.NotContains(t, lines[1], "UNA::")
}
