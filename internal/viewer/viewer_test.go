package viewer

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codalotl/segdiff/internal/segment"
	"github.com/codalotl/segdiff/internal/structdiff"
)

func sampleLoad(ctx context.Context) (Comparison, error) {
	left := segment.FromStrings("*", "ISA*1", "GS*A", "N1*BUYER", "N3*123 Main St", "N4*X", "N4*Y", "N4*Z", "REF*1", "SE*1")
	right := segment.FromStrings("*", "ISA*1", "GS*A", "N1*BUYER", "N3*456 Oak Ave", "N4*X", "N4*Y", "N4*Z", "REF*1", "SE*1", "IEA*1")
	res, err := structdiff.Compare(ctx, left, right)
	return Comparison{Left: "a.edi", Right: "b.edi", Dialect: segment.DialectX12, Result: res}, err
}

// started runs the load command and applies its result and a window size.
func started(t *testing.T, opts Options) Model {
	t.Helper()
	m := New(context.Background(), sampleLoad, opts)
	cmd := m.Init()
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	return update(t, m, tea.WindowSizeMsg{Width: 60, Height: 12})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = update(t, m, msg)
	}
	return m
}

func ids(rows []structdiff.DisplayRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		if row, ok := r.(structdiff.Row); ok {
			out[i] = row.ID()
		} else {
			out[i] = "#"
		}
	}
	return out
}

func TestViewer_LoadsAndFocusesFirstDifference(t *testing.T) {
	m := started(t, Options{ContextSize: 1})
	require.NotNil(t, m.cmp)
	assert.Len(t, m.rows, 10)
	assert.Equal(t, 3, m.cursor)
	assert.Equal(t, structdiff.Summary{Added: 1, Modified: 1, Unchanged: 8}, m.summary)

	view := m.View()
	assert.Contains(t, view, "a.edi vs b.edi (X12)")
	assert.Contains(t, view, "1 added, 0 removed, 1 modified, 8 unchanged")
}

func TestViewer_DiffsOnlyAndContext(t *testing.T) {
	m := started(t, Options{ContextSize: 1})

	m = press(t, m, "d")
	assert.Equal(t, []string{"#", "N1", "N3", "N4", "#", "SE", "IEA"}, ids(m.rows))

	m = press(t, m, "-")
	assert.Equal(t, 0, m.present.ContextSize)
	assert.Equal(t, []string{"#", "N3", "#", "IEA"}, ids(m.rows))

	m = press(t, m, "-")
	assert.Equal(t, 0, m.present.ContextSize)

	m = press(t, m, "+", "+")
	assert.Equal(t, 2, m.present.ContextSize)

	m = press(t, m, "d")
	assert.Len(t, m.rows, 10)
}

func TestViewer_TypeFilterCycle(t *testing.T) {
	m := started(t, Options{})
	assert.Equal(t, []string{"ISA", "GS", "N1", "N3", "N4", "REF", "SE", "IEA"}, m.types)

	m = press(t, m, "t")
	assert.Equal(t, "ISA", m.present.TypeFilter)
	m = press(t, m, "t", "t", "t", "t")
	assert.Equal(t, "N4", m.present.TypeFilter)
	assert.Equal(t, []string{"N4", "N4", "N4"}, ids(m.rows))

	m = press(t, m, "T")
	assert.Equal(t, "N3", m.present.TypeFilter)
	assert.Equal(t, 0, m.cursor)

	m = press(t, m, "esc")
	assert.Equal(t, "", m.present.TypeFilter)
	assert.Len(t, m.rows, 10)

	m = press(t, m, "T")
	assert.Equal(t, "IEA", m.present.TypeFilter)
}

func TestViewer_Navigation(t *testing.T) {
	m := started(t, Options{})
	assert.Equal(t, 3, m.cursor)

	m = press(t, m, "n")
	assert.Equal(t, 9, m.cursor)
	m = press(t, m, "n")
	assert.Equal(t, 9, m.cursor)
	assert.Equal(t, "no more differences", m.status)

	m = press(t, m, "N")
	assert.Equal(t, 3, m.cursor)
	m = press(t, m, "k", "k", "k", "k", "k")
	assert.Equal(t, 0, m.cursor)
	m = press(t, m, "G")
	assert.Equal(t, 9, m.cursor)
	m = press(t, m, "j")
	assert.Equal(t, 9, m.cursor)
}

func TestViewer_PinToggle(t *testing.T) {
	m := started(t, Options{ContextSize: 0, DiffsOnly: true})
	require.Equal(t, []string{"#", "N3", "#", "IEA"}, ids(m.rows))

	// Pin REF: move to it by clearing diffs-only, pinning, and turning it back on.
	m = press(t, m, "d", "n", "N", "j", "j", "j", "j")
	require.Equal(t, 7, m.cursor)
	m = press(t, m, "p")
	assert.Equal(t, "pinned REF", m.status)
	m = press(t, m, "d")
	assert.Equal(t, []string{"#", "N3", "#", "REF", "#", "IEA"}, ids(m.rows))

	m = press(t, m, "G", "k", "k", "p")
	assert.Equal(t, "unpinned REF", m.status)
	assert.Equal(t, []string{"#", "N3", "#", "IEA"}, ids(m.rows))

	m = press(t, m, "g", "p")
	assert.Equal(t, "nothing to pin on a collapsed row", m.status)
}

func TestViewer_LoadError(t *testing.T) {
	boom := errors.New("parse failed")
	m := New(context.Background(), func(context.Context) (Comparison, error) { return Comparison{}, boom }, Options{})
	next, cmd := m.Update(m.Init()())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Contains(t, next.View(), "error: parse failed")
}

func TestViewer_QuitAndIgnoresKeysBeforeLoad(t *testing.T) {
	m := New(context.Background(), sampleLoad, Options{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.Nil(t, cmd)
	assert.False(t, next.(Model).present.DiffsOnly)
	assert.Contains(t, next.View(), "comparing...")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewer_CursorMarksItsRowWithEmbeddedNewlines(t *testing.T) {
	load := func(ctx context.Context) (Comparison, error) {
		left := []segment.Segment{
			{ID: "NTE", Elements: []string{"NTE", "line one\nline two"}, Raw: "NTE*line one\nline two"},
			{ID: "N3", Elements: []string{"N3", "A"}, Raw: "N3*A"},
		}
		right := []segment.Segment{
			{ID: "NTE", Elements: []string{"NTE", "line one\nline two"}, Raw: "NTE*line one\nline two"},
			{ID: "N3", Elements: []string{"N3", "B"}, Raw: "N3*B"},
		}
		res, err := structdiff.Compare(ctx, left, right)
		return Comparison{Left: "a.edi", Right: "b.edi", Result: res}, err
	}
	m := New(context.Background(), load, Options{})
	m = update(t, m, m.Init()())
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})
	require.Equal(t, 1, m.cursor)

	lines := strings.Split(m.content(), "\n")
	require.Len(t, lines, len(m.rows))
	assert.True(t, strings.HasPrefix(lines[1], "> ~ N3*A"), lines[1])
	assert.True(t, strings.HasPrefix(lines[0], "    NTE*line one␊line two"), lines[0])
}
