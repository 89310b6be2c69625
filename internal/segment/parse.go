package segment

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUnrecognized is returned by Parse when data is neither an X12 nor an EDIFACT interchange.
var ErrUnrecognized = errors.New("unrecognized interchange: expected X12 (ISA) or EDIFACT (UNA/UNB)")

// Document is a parsed interchange.
type Document struct {
	Dialect    Dialect
	Delimiters Delimiters
	Segments   []Segment
}

// IDs returns the distinct segment ids of d in order of first appearance.
func (d Document) IDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, s := range d.Segments {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		ids = append(ids, s.ID)
	}
	return ids
}

// Parse detects the dialect and delimiters of data and splits it into segments.
//
// Data that is not valid UTF-8 is decoded as ISO-8859-1, which covers the EDIFACT UNOB/UNOC syntax levels and the single-byte encodings X12 trading partners use in practice.
// Segments are trimmed of surrounding whitespace and empty segments are dropped, so line breaks after terminators don't matter. Segment ordinals start at 1.
//
// An error wrapping ErrUnrecognized is returned when the dialect can't be detected; callers typically fall back to a text diff.
func Parse(data []byte) (Document, error) {
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return Document{}, fmt.Errorf("decode ISO-8859-1: %w", err)
		}
		data = decoded
	}
	text := string(trimLeading(data))

	switch Detect(data) {
	case DialectX12:
		return parseX12(text)
	case DialectEDIFACT:
		return parseEDIFACT(text)
	default:
		return Document{}, ErrUnrecognized
	}
}

// ParseString is Parse for a string.
func ParseString(s string) (Document, error) {
	return Parse([]byte(s))
}

// x12Delimiters reads the delimiters from a fixed-layout ISA segment: the element separator directly follows "ISA", the component separator is ISA16 (the character after
// the 16th element separator), and the segment terminator follows ISA16.
func x12Delimiters(text string) (Delimiters, error) {
	if len(text) < 4 {
		return Delimiters{}, fmt.Errorf("x12: ISA segment is truncated")
	}
	d := Delimiters{Element: text[3]}

	count := 0
	for i := 3; i < len(text); i++ {
		if text[i] != d.Element {
			continue
		}
		count++
		if count < 16 {
			continue
		}
		if i+2 >= len(text) {
			return Delimiters{}, fmt.Errorf("x12: ISA segment is truncated")
		}
		d.Component = text[i+1]
		d.Segment = text[i+2]
		if d.Segment == '\r' {
			d.Segment = '\n'
		}

		// ISA11 is the repetition separator from 00402 on; older versions put "U" there.
		isa := strings.Split(text[:i], string(d.Element))
		if len(isa) > 11 && len(isa[11]) == 1 && !isAlnum(isa[11][0]) && isa[11][0] != ' ' {
			d.Repetition = isa[11][0]
		}
		return d, nil
	}
	return Delimiters{}, fmt.Errorf("x12: ISA segment has %d element separators, want 16", count)
}

func parseX12(text string) (Document, error) {
	delims, err := x12Delimiters(text)
	if err != nil {
		return Document{}, err
	}

	doc := Document{Dialect: DialectX12, Delimiters: delims}
	for _, raw := range strings.Split(text, string(delims.Segment)) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		elems := strings.Split(raw, string(delims.Element))
		doc.Segments = append(doc.Segments, Segment{
			ID:         elems[0],
			Elements:   elems,
			Raw:        raw,
			LineNumber: len(doc.Segments) + 1,
		})
	}
	return doc, nil
}

func parseEDIFACT(text string) (Document, error) {
	doc := Document{Dialect: DialectEDIFACT, Delimiters: defaultEDIFACT}

	// The UNA service string advice is fixed-length: "UNA" followed by component, element, decimal, release, repetition, and terminator characters.
	if strings.HasPrefix(text, "UNA") {
		if len(text) < 9 {
			return Document{}, fmt.Errorf("edifact: UNA service string advice is truncated")
		}
		doc.Delimiters = Delimiters{
			Component:  text[3],
			Element:    text[4],
			Decimal:    text[5],
			Release:    serviceChar(text[6]),
			Repetition: serviceChar(text[7]),
			Segment:    text[8],
		}
		doc.Segments = append(doc.Segments, Segment{
			ID:         "UNA",
			Elements:   []string{"UNA", text[3:8]},
			Raw:        text[:8],
			LineNumber: 1,
		})
		text = text[9:]
	}

	d := doc.Delimiters
	for _, raw := range splitReleased(text, d.Segment, d.Release, false) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		elems := splitReleased(raw, d.Element, d.Release, true)
		doc.Segments = append(doc.Segments, Segment{
			ID:         elems[0],
			Elements:   elems,
			Raw:        raw,
			LineNumber: len(doc.Segments) + 1,
		})
	}
	return doc, nil
}

// splitReleased splits s on sep, honoring the release (escape) character. If unescape is true, release characters are dropped from the returned parts; otherwise they're kept.
// It always returns at least one part.
func splitReleased(s string, sep, release byte, unescape bool) []string {
	var parts []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if release != 0 && c == release && i+1 < len(s) {
			if !unescape {
				b.WriteByte(c)
			}
			b.WriteByte(s[i+1])
			i++
			continue
		}
		if c == sep {
			parts = append(parts, b.String())
			b.Reset()
			continue
		}
		b.WriteByte(c)
	}
	return append(parts, b.String())
}

// serviceChar maps the UNA "not used" marker (a space) to 0.
func serviceChar(c byte) byte {
	if c == ' ' {
		return 0
	}
	return c
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
