// Package tui is a terminal diff viewer: the two documents side by side, or
// merged into one unified pane, with syntax colouring and changed words
// highlighted.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/sqllens/internal/cli/output"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/pkg/decorate"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/diff"
	"github.com/leapstack-labs/sqllens/pkg/highlight"
	"github.com/mattn/go-runewidth"
)

// gutterWidth is the width of the line-number column, separator included.
const gutterWidth = 5

// chrome is the number of rows used by the header, pane titles and footer.
const chrome = 3

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// Loader reads the two documents. It runs at start-up and on reload.
type Loader func() (original, modified string, err error)

// Validator checks SQL syntax.
type Validator interface {
	Validate(ctx context.Context, sql string, tag dialect.Tag) []validate.ValidationError
}

// Options configures the viewer.
type Options struct {
	Dialect   dialect.Tag
	Load      Loader
	Validator Validator
	Unified   bool
	Logger    *slog.Logger
}

type keyMap struct {
	Quit    key.Binding
	Swap    key.Binding
	Diff    key.Binding
	Unified key.Binding
	Reload  key.Binding
	Copy    key.Binding
	CopyOld key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Swap:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "swap")),
	Diff:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "toggle diff")),
	Unified: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unified")),
	Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy modified")),
	CopyOld: key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy original")),
}

// loadedMsg carries freshly read documents.
type loadedMsg struct {
	original, modified string
	errs               [2]int
	err                error
}

// Model is the bubbletea model of the viewer.
type Model struct {
	opts   Options
	styles *output.Styles

	original string
	modified string
	errs     [2]int
	stats    diff.Stats
	showDiff bool
	unified  bool
	notice   string
	err      error

	width  int
	height int
	ready  bool
	loaded bool

	left     viewport.Model
	right    viewport.Model
	combined viewport.Model
}

// New creates a viewer.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Model{
		opts:     opts,
		styles:   output.NewStyles(lipgloss.DefaultRenderer()),
		showDiff: true,
		unified:  opts.Unified,
		left:     viewport.New(0, 0),
		right:    viewport.New(0, 0),
		combined: viewport.New(0, 0),
	}
}

// Run shows the viewer until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init loads the documents.
func (m *Model) Init() tea.Cmd {
	return m.load
}

func (m *Model) load() tea.Msg {
	if m.opts.Load == nil {
		return loadedMsg{}
	}
	original, modified, err := m.opts.Load()
	if err != nil {
		return loadedMsg{err: err}
	}
	msg := loadedMsg{original: original, modified: modified}
	if m.opts.Validator != nil {
		for i, doc := range []string{original, modified} {
			if strings.TrimSpace(doc) != "" {
				msg.errs[i] = len(m.opts.Validator.Validate(context.Background(), doc, m.opts.Dialect))
			}
		}
	}
	return msg
}

// Update handles input, resizes and reloads.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.ready = true
		m.render()
		return m, nil

	case loadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.original, m.modified, m.errs = msg.original, msg.modified, msg.errs
			m.loaded = true
		}
		m.render()
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Swap):
			m.original, m.modified = m.modified, m.original
			m.errs[0], m.errs[1] = m.errs[1], m.errs[0]
			m.render()
			return m, nil
		case key.Matches(msg, keys.Diff):
			m.showDiff = !m.showDiff
			m.render()
			return m, nil
		case key.Matches(msg, keys.Unified):
			m.unified = !m.unified
			m.render()
			return m, nil
		case key.Matches(msg, keys.Reload):
			return m, m.load
		case key.Matches(msg, keys.Copy):
			m.copy("modified", m.modified)
			return m, nil
		case key.Matches(msg, keys.CopyOld):
			m.copy("original", m.original)
			return m, nil
		}
	}

	if m.unified {
		var cmd tea.Cmd
		m.combined, cmd = m.combined.Update(msg)
		return m, cmd
	}

	prevLeft, prevRight := m.left.YOffset, m.right.YOffset
	var leftCmd, rightCmd tea.Cmd
	m.left, leftCmd = m.left.Update(msg)
	m.right, rightCmd = m.right.Update(msg)
	if m.left.YOffset != prevLeft {
		m.right.SetYOffset(m.left.YOffset)
	} else if m.right.YOffset != prevRight {
		m.left.SetYOffset(m.right.YOffset)
	}
	return m, tea.Batch(leftCmd, rightCmd)
}

// copy puts one document on the system clipboard. A failed copy is only
// logged; the viewer keeps running.
func (m *Model) copy(name, doc string) {
	if err := writeClipboard(doc); err != nil {
		m.opts.Logger.Debug("clipboard copy failed", "document", name, "error", err)
		return
	}
	m.notice = "Copied " + name
}

// paneWidth returns the width of each side-by-side pane.
func (m *Model) paneWidth() int {
	return max((m.width-1)/2, gutterWidth+1)
}

func (m *Model) resize() {
	h := max(m.height-chrome, 1)
	w := m.paneWidth()
	m.left.Width, m.left.Height = w, h
	m.right.Width, m.right.Height = w, h
	m.combined.Width, m.combined.Height = max(m.width, gutterWidth+1), h
}

// render rebuilds the viewport contents from the documents.
func (m *Model) render() {
	tag := m.opts.Dialect
	var spans []diff.Span
	if m.showDiff && (m.original != "" || m.modified != "") {
		spans = diff.Words(m.original, m.modified)
	}
	m.stats = diff.Count(spans)

	if m.unified {
		var segs []decorate.Segment
		if spans != nil {
			segs = decorate.UnifiedSegments(decorate.Unified(spans, tag))
		} else {
			segs = decorate.Segments(highlight.Tokenize(m.modified, tag), nil)
		}
		m.combined.SetContent(m.pane(decorate.SplitLines(segs), m.combined.Width))
		return
	}

	w := m.paneWidth()
	m.left.SetContent(m.pane(m.lines(m.original, spans, diff.Original), w))
	m.right.SetContent(m.pane(m.lines(m.modified, spans, diff.Modified), w))
}

// lines decorates one side, without diff classes when spans is nil.
func (m *Model) lines(doc string, spans []diff.Span, side diff.Side) []decorate.Line {
	if spans != nil {
		if segs, err := decorate.Decorate(doc, spans, side, m.opts.Dialect); err == nil {
			return decorate.SplitLines(segs)
		}
	}
	return decorate.SplitLines(decorate.Segments(highlight.Tokenize(doc, m.opts.Dialect), nil))
}

// pane renders lines into a block exactly width cells wide.
func (m *Model) pane(lines []decorate.Line, width int) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.styles.LineNumber.Render(fmt.Sprintf("%*d ", gutterWidth-1, line.Number)))
		b.WriteString(m.renderLine(line, width-gutterWidth))
	}
	return b.String()
}

// renderLine styles a line's segments, clipped and padded to width cells.
func (m *Model) renderLine(line decorate.Line, width int) string {
	var b strings.Builder
	used := 0
	for _, seg := range line.Segments {
		if used >= width {
			break
		}
		text := strings.ReplaceAll(seg.Text, "\t", "    ")
		w := runewidth.StringWidth(text)
		if used+w > width {
			text = runewidth.Truncate(text, width-used, "")
			w = runewidth.StringWidth(text)
		}
		if text != "" {
			b.WriteString(m.styles.Segment(seg).Render(text))
		}
		used += w
	}
	if used < width {
		b.WriteString(strings.Repeat(" ", width-used))
	}
	return b.String()
}

// View draws the screen.
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress r to reload or q to quit.", m.err)
	}
	if !m.ready || !m.loaded {
		return "Loading…"
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')
	if m.unified {
		b.WriteString(m.styles.Bold.Render("Unified"))
		b.WriteByte('\n')
		b.WriteString(m.combined.View())
	} else {
		w := m.paneWidth()
		titles := lipgloss.JoinHorizontal(lipgloss.Top,
			m.title("Original", m.errs[0], w), " ", m.title("Modified", m.errs[1], w))
		b.WriteString(titles)
		b.WriteByte('\n')
		sep := strings.TrimSuffix(strings.Repeat("│\n", m.left.Height), "\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			m.left.View(), m.styles.Muted.Render(sep), m.right.View()))
	}
	b.WriteByte('\n')
	b.WriteString(m.footer())
	return b.String()
}

func (m *Model) header() string {
	name := dialect.Lookup(m.opts.Dialect).DisplayName
	stats := "diff off"
	if m.showDiff {
		stats = m.styles.Success.Render(fmt.Sprintf("+%d", m.stats.Added)) + " " +
			m.styles.Error.Render(fmt.Sprintf("-%d", m.stats.Removed))
	}
	return m.styles.Header.Render("SQL Lens") + " " + m.styles.Muted.Render(name) + "  " + stats
}

func (m *Model) title(label string, errs, width int) string {
	if errs > 0 {
		label += m.styles.Error.Render(fmt.Sprintf(" (%d errors)", errs))
	}
	return lipgloss.NewStyle().Width(width).Bold(true).Render(label)
}

func (m *Model) footer() string {
	var parts []string
	for _, k := range []key.Binding{keys.Swap, keys.Diff, keys.Unified, keys.Copy, keys.Reload, keys.Quit} {
		h := k.Help()
		parts = append(parts, m.styles.Bold.Render(h.Key)+" "+h.Desc)
	}
	footer := m.styles.Muted.Render(strings.Join(parts, " • "))
	if m.notice != "" {
		footer = m.styles.Success.Render(m.notice) + "  " + footer
	}
	return footer
}
