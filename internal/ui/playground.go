// Package ui implements the interactive playground: a textarea editor wired
// to the compile pipeline, with a loading overlay and an error panel.
package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sketch/internal/editor"
	"sketch/internal/pipeline"
)

// ErrorPanel is the textual error surface shown under the editor. It
// implements present.Panel and is safe for concurrent use: a compile cycle
// writes it while the view reads.
type ErrorPanel struct {
	mu      sync.RWMutex
	lines   []string
	visible bool
}

func (p *ErrorPanel) Show(lines []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = lines
	p.visible = true
}

func (p *ErrorPanel) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = nil
	p.visible = false
}

// Lines returns the current panel content and whether it is visible.
func (p *ErrorPanel) Lines() ([]string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lines, p.visible
}

// compileDoneMsg carries one finished pipeline cycle back into the model.
type compileDoneMsg struct {
	res pipeline.Result
	err error
}

// Model is the playground TUI. The pipeline owns the compile semantics; the
// model only mirrors its states: loading overlay while compiling, panel and
// gutter marks afterwards.
type Model struct {
	ta      textarea.Model
	spinner spinner.Model
	buf     *editor.Buffer
	panel   *ErrorPanel
	pipe    *pipeline.Pipeline

	width   int
	height  int
	loading bool
	status  string
	markup  string
	done    bool
}

// New builds the playground around an already-wired pipeline. buf must be the
// editor handle the pipeline was configured with, and panel its presenter's
// panel; the model pushes the textarea content into buf before every compile.
func New(pipe *pipeline.Pipeline, buf *editor.Buffer, panel *ErrorPanel) *Model {
	ta := textarea.New()
	ta.Placeholder = "x -> y: hello"
	ta.SetValue(buf.Value())
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return &Model{
		ta:      ta,
		spinner: sp,
		buf:     buf,
		panel:   panel,
		pipe:    pipe,
		width:   80,
		height:  24,
		status:  "ctrl+r to compile, ctrl+c to quit",
	}
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.done = true
			return m, tea.Quit
		case "ctrl+r":
			return m, m.startCompile()
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.ta.SetWidth(msg.Width - 2)
		}
		if msg.Height > 0 {
			m.height = msg.Height
			m.ta.SetHeight(max(msg.Height-10, 5))
		}
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case compileDoneMsg:
		m.loading = false
		m.applyOutcome(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// startCompile pushes the textarea into the editor handle and kicks off one
// pipeline cycle. The gate inside the pipeline refuses overlap, so mashing
// ctrl+r while loading only yields a status hint.
func (m *Model) startCompile() tea.Cmd {
	if m.pipe.Busy() {
		m.status = "compile already running"
		return nil
	}
	m.buf.SetValue(m.ta.Value())
	m.loading = true
	m.status = "compiling..."
	run := func() tea.Msg {
		res, err := m.pipe.Compile(context.Background())
		return compileDoneMsg{res: res, err: err}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) applyOutcome(msg compileDoneMsg) {
	if msg.err != nil {
		// ErrBusy cannot happen here (checked before dispatch); anything else
		// is a compiler contract violation worth surfacing verbatim.
		m.status = msg.err.Error()
		return
	}
	res := msg.res
	switch res.State {
	case pipeline.StateRenderingDiagram:
		m.markup = res.Markup
		m.status = fmt.Sprintf("diagram rendered (%d bytes of markup)", len(res.Markup))
	case pipeline.StateShowingUserErrors:
		m.status = fmt.Sprintf("%d error(s)", len(res.Errors))
	default:
		m.status = res.Alert
	}
}

// Markup returns the most recently rendered diagram markup.
func (m *Model) Markup() string {
	return m.markup
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func (m *Model) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder

	header := "sketch playground"
	if m.loading {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")
	b.WriteString(m.ta.View())
	b.WriteString("\n")

	if marked := m.markedLines(); marked != "" {
		b.WriteString(gutterStyle.Render("marks: " + marked))
		b.WriteString("\n")
	}
	if lines, visible := m.panel.Lines(); visible {
		for _, line := range lines {
			b.WriteString(errorStyle.Render("▌ " + truncate(line, m.width-2)))
			b.WriteString("\n")
		}
	}

	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	return b.String()
}

// markedLines summarizes the current gutter decorations, e.g. "lines 3, 7-9".
func (m *Model) markedLines() string {
	decos := m.buf.Decorations()
	if len(decos) == 0 {
		return ""
	}
	sort.Slice(decos, func(i, j int) bool { return decos[i].StartLine < decos[j].StartLine })
	parts := make([]string, 0, len(decos))
	for _, d := range decos {
		if d.StartLine == d.EndLine {
			parts = append(parts, fmt.Sprintf("%d", d.StartLine))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", d.StartLine, d.EndLine))
		}
	}
	return "lines " + strings.Join(parts, ", ")
}

func truncate(s string, width int) string {
	if width < 4 {
		width = 4
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-1, "…")
}
