// Package explain produces short natural-language explanations of modified segments. Explanations are optional: nothing in the comparison depends on them.
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codalotl/segdiff/internal/segment"
	"github.com/codalotl/segdiff/internal/simplelogger"
	"github.com/codalotl/segdiff/internal/structdiff"
)

// ErrNoAPIKey is returned when no API key is configured for the model provider.
var ErrNoAPIKey = errors.New("explain: no API key (set OPENAI_API_KEY or explain.apikey)")

// Request asks for an explanation of one Modified row.
type Request struct {
	Dialect       segment.Dialect
	Left          segment.Segment
	Right         segment.Segment
	DiffPositions []int
}

// NewRequest builds a Request from a Modified row.
func NewRequest(d segment.Dialect, m structdiff.Modified) Request {
	return Request{Dialect: d, Left: m.Left, Right: m.Right, DiffPositions: m.DiffPositions}
}

// Key identifies the request's content. Requests with equal keys get the same explanation.
func (r Request) Key() string {
	var b strings.Builder
	b.WriteString(r.Dialect.String())
	for _, side := range []segment.Segment{r.Left, r.Right} {
		b.WriteByte(0)
		b.WriteString(strings.Join(side.Elements, "\x1f"))
	}
	return b.String()
}

// Explainer explains a single modified segment.
type Explainer interface {
	Explain(ctx context.Context, req Request) (string, error)
}

// Explanation is the explanation of one row of a Result.
type Explanation struct {
	Row  int    // Index into Result.Rows.
	ID   string // Segment id of the row.
	Text string
}

// Rows explains the Modified rows of result in order, stopping after limit explanations (limit <= 0 means no limit). It stops at the first error, returning the
// explanations gathered so far along with it.
func Rows(ctx context.Context, e Explainer, result structdiff.Result, d segment.Dialect, limit int) ([]Explanation, error) {
	var out []Explanation
	for i, row := range result.Rows {
		m, ok := row.(structdiff.Modified)
		if !ok {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		text, err := e.Explain(ctx, NewRequest(d, m))
		if err != nil {
			return out, fmt.Errorf("explain row %d (%s): %w", i, m.ID(), err)
		}
		simplelogger.Log("explain: row %d %s: %d bytes", i, m.ID(), len(text))
		out = append(out, Explanation{Row: i, ID: m.ID(), Text: strings.TrimSpace(text)})
	}
	return out, nil
}
