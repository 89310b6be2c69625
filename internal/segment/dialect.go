package segment

import "bytes"

// Dialect is a segment grammar family.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectX12
	DialectEDIFACT
)

func (d Dialect) String() string {
	switch d {
	case DialectX12:
		return "X12"
	case DialectEDIFACT:
		return "EDIFACT"
	default:
		return "unknown"
	}
}

// Delimiters are the service characters of one interchange. A zero byte means the delimiter is not used.
type Delimiters struct {
	Element    byte
	Component  byte
	Repetition byte
	Segment    byte
	Release    byte // EDIFACT only.
	Decimal    byte // EDIFACT only.
}

// defaultEDIFACT are the delimiters implied when an EDIFACT interchange has no UNA service string advice.
var defaultEDIFACT = Delimiters{
	Component: ':',
	Element:   '+',
	Decimal:   '.',
	Release:   '?',
	Segment:   '\'',
}

// Envelope and header segment ids per dialect. Callers use these as default pinned ids so the reader keeps their orientation even when the envelopes are unchanged.
var (
	x12Envelope     = []string{"ISA", "GS", "ST", "SE", "GE", "IEA"}
	edifactEnvelope = []string{"UNA", "UNB", "UNG", "UNH", "UNT", "UNE", "UNZ"}
)

// DefaultPinnedIDs returns the conventional envelope/header segment ids for d. For DialectUnknown, it returns the ids of both dialects.
func DefaultPinnedIDs(d Dialect) []string {
	switch d {
	case DialectX12:
		return append([]string(nil), x12Envelope...)
	case DialectEDIFACT:
		return append([]string(nil), edifactEnvelope...)
	default:
		out := append([]string(nil), x12Envelope...)
		return append(out, edifactEnvelope...)
	}
}

// Detect returns the dialect of data based on its leading segment. Leading whitespace and a UTF-8 BOM are ignored.
func Detect(data []byte) Dialect {
	data = trimLeading(data)
	switch {
	case bytes.HasPrefix(data, []byte("ISA")):
		return DialectX12
	case bytes.HasPrefix(data, []byte("UNA")), bytes.HasPrefix(data, []byte("UNB")):
		return DialectEDIFACT
	default:
		return DialectUnknown
	}
}

func trimLeading(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return bytes.TrimLeft(data, " \t\r\n")
}
