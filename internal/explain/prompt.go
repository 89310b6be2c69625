package explain

import (
	"fmt"
	"strings"
)

const systemPrompt = "You explain differences between two versions of an EDI segment (ANSI X12 or UN/EDIFACT). " +
	"Answer in one or two plain sentences. Name the element positions that changed and what the change likely means for the business document. Do not restate the raw segments."

// maxElementLen bounds each element value in the compact prompt.
const maxElementLen = 48

// Prompt renders the full user prompt for req: both raw segments and the list of differing positions.
func Prompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dialect: %s\nSegment: %s\n", req.Dialect, req.Left.ID)
	fmt.Fprintf(&b, "Old: %s\nNew: %s\n", req.Left.Raw, req.Right.Raw)
	b.WriteString("Changed positions:")
	for _, p := range req.DiffPositions {
		fmt.Fprintf(&b, " %02d", p)
	}
	b.WriteByte('\n')
	return b.String()
}

// CompactPrompt renders a smaller prompt listing only the differing elements, each truncated to a bounded length.
func CompactPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dialect: %s\nSegment: %s\n", req.Dialect, req.Left.ID)
	for _, p := range req.DiffPositions {
		fmt.Fprintf(&b, "%s%02d: %q -> %q\n", req.Left.ID, p, clip(req.Left.Element(p)), clip(req.Right.Element(p)))
	}
	return b.String()
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= maxElementLen {
		return s
	}
	return string(r[:maxElementLen]) + "..."
}
