// Package viewer is the interactive terminal view of a comparison. The comparison itself runs as a command off the UI goroutine; every key that changes the view
// re-derives display rows from the same Result.
package viewer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/codalotl/segdiff/internal/segment"
	"github.com/codalotl/segdiff/internal/simplelogger"
	"github.com/codalotl/segdiff/internal/structdiff"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const helpText = "n/N diff  j/k move  d diffs-only  t/T type  esc clear  p pin  +/- context  q quit"

// Comparison is what the viewer displays.
type Comparison struct {
	Left    string // Name of the left document.
	Right   string
	Dialect segment.Dialect
	Result  structdiff.Result
}

// LoadFunc produces the comparison. It runs on its own goroutine.
type LoadFunc func(ctx context.Context) (Comparison, error)

// Options set the initial view.
type Options struct {
	DiffsOnly   bool
	ContextSize int
	PinnedIDs   []string
	TypeFilter  string
	Color       bool
}

// Model is the bubbletea model of the viewer.
type Model struct {
	ctx  context.Context
	load LoadFunc

	cmp     *Comparison
	err     error
	summary structdiff.Summary

	present structdiff.PresentOptions
	color   bool
	types   []string // Distinct segment ids in first-appearance order, for t/T.
	rows    []structdiff.DisplayRow
	cursor  int
	status  string

	vp     viewport.Model
	width  int
	height int
}

// New returns a viewer that calls load when started.
func New(ctx context.Context, load LoadFunc, opts Options) Model {
	return Model{
		ctx:  ctx,
		load: load,
		present: structdiff.PresentOptions{
			TypeFilter:  opts.TypeFilter,
			DiffsOnly:   opts.DiffsOnly,
			PinnedIDs:   structdiff.NewIDSet(opts.PinnedIDs...),
			ContextSize: max(opts.ContextSize, 0),
		},
		color:  opts.Color,
		vp:     viewport.New(80, 20),
		width:  80,
		height: 22,
		status: "comparing...",
	}
}

// Run starts the viewer full screen and blocks until it quits.
func Run(ctx context.Context, load LoadFunc, opts Options) error {
	p := tea.NewProgram(New(ctx, load, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}

type comparedMsg struct {
	cmp Comparison
	err error
}

func (m Model) compare() tea.Msg {
	cmp, err := m.load(m.ctx)
	return comparedMsg{cmp: cmp, err: err}
}

func (m Model) Init() tea.Cmd {
	return m.compare
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case comparedMsg:
		if msg.err != nil {
			simplelogger.Log("viewer: compare failed: %v", msg.err)
			m.err = msg.err
			return m, tea.Quit
		}
		m.cmp = &msg.cmp
		m.summary = structdiff.Summarize(msg.cmp.Result)
		m.types = distinctIDs(msg.cmp.Result)
		m.status = ""
		m.refresh()
		if i := structdiff.NextDifference(m.rows, -1); i >= 0 {
			m.cursor = i
		}
		m.sync()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-2, 1)
		m.refresh()
		m.sync()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "q" || key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.cmp == nil {
		return m, nil
	}

	m.status = ""
	switch key {
	case "d":
		m.present.DiffsOnly = !m.present.DiffsOnly
		m.refresh()
	case "t", "T":
		m.cycleType(key == "t")
	case "esc":
		m.present.TypeFilter = ""
		m.refresh()
	case "p":
		m.togglePin()
	case "+", "=":
		m.present.ContextSize++
		m.refresh()
	case "-", "_":
		m.present.ContextSize = max(m.present.ContextSize-1, 0)
		m.refresh()
	case "n":
		if i := structdiff.NextDifference(m.rows, m.cursor); i >= 0 {
			m.cursor = i
		} else {
			m.status = "no more differences"
		}
	case "N":
		if i := structdiff.PrevDifference(m.rows, m.cursor); i >= 0 {
			m.cursor = i
		} else {
			m.status = "no earlier differences"
		}
	case "j", "down":
		m.cursor = min(m.cursor+1, len(m.rows)-1)
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.rows) - 1
	case "pgdown", " ":
		m.cursor = min(m.cursor+m.vp.Height, len(m.rows)-1)
	case "pgup":
		m.cursor = max(m.cursor-m.vp.Height, 0)
	default:
		return m, nil
	}
	m.cursor = max(m.cursor, 0)
	m.sync()
	return m, nil
}

func (m *Model) cycleType(forward bool) {
	if len(m.types) == 0 {
		return
	}
	idx := -1
	for i, id := range m.types {
		if id == m.present.TypeFilter {
			idx = i
		}
	}
	switch {
	case forward:
		idx = (idx + 1) % len(m.types)
	case idx <= 0:
		idx = len(m.types) - 1
	default:
		idx--
	}
	m.present.TypeFilter = m.types[idx]
	m.refresh()
	m.cursor = max(structdiff.NextDifference(m.rows, -1), 0)
}

func (m *Model) togglePin() {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return
	}
	row, ok := m.rows[m.cursor].(structdiff.Row)
	if !ok {
		m.status = "nothing to pin on a collapsed row"
		return
	}
	id := row.ID()
	if m.present.PinnedIDs.Has(id) {
		m.present.PinnedIDs.Remove(id)
		m.status = "unpinned " + id
	} else {
		m.present.PinnedIDs.Add(id)
		m.status = "pinned " + id
	}
	m.refresh()
}

// refresh re-derives the display rows and keeps the cursor in range.
func (m *Model) refresh() {
	if m.cmp == nil {
		return
	}
	m.rows = structdiff.Present(m.cmp.Result, m.present)
	m.cursor = min(m.cursor, len(m.rows)-1)
	m.cursor = max(m.cursor, 0)
}

// sync renders the rows into the viewport and scrolls so the cursor is visible.
func (m *Model) sync() {
	m.vp.SetContent(m.content())
	switch {
	case m.cursor < m.vp.YOffset:
		m.vp.SetYOffset(m.cursor)
	case m.cursor >= m.vp.YOffset+m.vp.Height:
		m.vp.SetYOffset(m.cursor - m.vp.Height + 1)
	}
}

func (m Model) content() string {
	if len(m.rows) == 0 {
		return statusStyle.Render("  (no rows)")
	}
	body := structdiff.RenderSideBySide(m.rows, structdiff.SideBySideOptions{Width: m.width - 2, Color: m.color})
	lines := strings.Split(body, "\n")
	for i := range lines {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("error: "+m.err.Error()) + "\n"
	}
	if m.cmp == nil {
		return statusStyle.Render(m.status) + "\n"
	}
	return m.title() + "\n" + m.vp.View() + "\n" + m.statusLine()
}

func (m Model) title() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s vs %s", m.cmp.Left, m.cmp.Right)
	if m.cmp.Dialect != segment.DialectUnknown {
		fmt.Fprintf(&b, " (%s)", m.cmp.Dialect)
	}
	if m.present.TypeFilter != "" {
		fmt.Fprintf(&b, "  type=%s", m.present.TypeFilter)
	}
	if m.present.DiffsOnly {
		fmt.Fprintf(&b, "  diffs-only context=%d", m.present.ContextSize)
	}
	return titleStyle.Render(b.String())
}

func (m Model) statusLine() string {
	s := m.summary.String()
	if m.status != "" {
		s += "  " + m.status
	}
	return statusStyle.Render(s + "  |  " + helpText)
}

func distinctIDs(res structdiff.Result) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, row := range res.Rows {
		if id := row.ID(); !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
