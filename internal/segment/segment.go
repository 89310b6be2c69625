package segment

import (
	"slices"
	"strings"
)

// Segment is one record of an interchange: a segment id followed by its elements.
//
// Comparison identity is (ID, Elements). Raw and LineNumber describe where the segment came from and never take part in equality, so two segments that differ only in
// terminator or surrounding whitespace are Equal.
type Segment struct {
	ID         string   // Segment id (ex: "N1", "UNH"). May be empty for malformed input; empty ids compare literally.
	Elements   []string // Fields in source order. Elements[0] is the segment id, so data elements start at index 1.
	Raw        string   // Source text of the segment without its terminator.
	LineNumber int      // 1-based ordinal of the segment within its document.
}

// Element returns the element at index i, or "" if i is out of range.
func (s Segment) Element(i int) string {
	if i < 0 || i >= len(s.Elements) {
		return ""
	}
	return s.Elements[i]
}

// Equal reports whether s and o have the same id and elements.
func (s Segment) Equal(o Segment) bool {
	return s.ID == o.ID && slices.Equal(s.Elements, o.Elements)
}

// Separator returns the element separator used in s.Raw, or 0 if Raw isn't exactly Elements joined by one separator byte. That covers segments with no data
// elements, the EDIFACT UNA service string advice, and segments whose elements were unescaped from release characters.
func (s Segment) Separator() byte {
	if len(s.Elements) < 2 || len(s.Raw) <= len(s.Elements[0]) {
		return 0
	}
	sep := s.Raw[len(s.Elements[0])]
	if strings.Join(s.Elements, string(sep)) != s.Raw {
		return 0
	}
	return sep
}

// Split builds a Segment from one raw record using sep as the element separator. Surrounding whitespace is trimmed; the terminator, if any, must already be removed.
func Split(raw string, sep string) Segment {
	raw = strings.TrimSpace(raw)
	elems := strings.Split(raw, sep)
	return Segment{ID: elems[0], Elements: elems, Raw: raw}
}

// FromStrings splits each raw record with sep and numbers the resulting segments from 1.
//
// Ex: FromStrings("*", "ISA*1", "GS*A") yields two segments with ids "ISA" and "GS".
func FromStrings(sep string, raws ...string) []Segment {
	segs := make([]Segment, 0, len(raws))
	for i, raw := range raws {
		s := Split(raw, sep)
		s.LineNumber = i + 1
		segs = append(segs, s)
	}
	return segs
}
