package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/sqllens/pkg/decorate"
	"github.com/leapstack-labs/sqllens/pkg/highlight"
)

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	Keyword    lipgloss.Style
	String     lipgloss.Style
	Number     lipgloss.Style
	Comment    lipgloss.Style
	Identifier lipgloss.Style

	Added      lipgloss.Style
	Removed    lipgloss.Style
	LineNumber lipgloss.Style
}

// Palette colours, light then dark background.
var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#6d28d9", Dark: "#a78bfa"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}
	colorYellow  = lipgloss.AdaptiveColor{Light: "#a16207", Dark: "#facc15"}
	colorRed     = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}
	colorBlue    = lipgloss.AdaptiveColor{Light: "#1d4ed8", Dark: "#60a5fa"}
	colorAddBg   = lipgloss.AdaptiveColor{Light: "#dcfce7", Dark: "#14532d"}
	colorDelBg   = lipgloss.AdaptiveColor{Light: "#fee2e2", Dark: "#7f1d1d"}
	colorString  = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#6ee7b7"}
	colorNumber  = lipgloss.AdaptiveColor{Light: "#c2410c", Dark: "#fdba74"}
	colorComment = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"}
)

// NewStyles builds styles bound to lr, so colour output follows lr's profile.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:  lr.NewStyle().Bold(true).Foreground(colorAccent),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(colorMuted),
		Success: lr.NewStyle().Foreground(colorGreen),
		Warning: lr.NewStyle().Foreground(colorYellow),
		Error:   lr.NewStyle().Foreground(colorRed),
		Info:    lr.NewStyle().Foreground(colorBlue),

		Keyword:    lr.NewStyle().Bold(true).Foreground(colorAccent),
		String:     lr.NewStyle().Foreground(colorString),
		Number:     lr.NewStyle().Foreground(colorNumber),
		Comment:    lr.NewStyle().Italic(true).Foreground(colorComment),
		Identifier: lr.NewStyle(),

		Added:      lr.NewStyle().Background(colorAddBg),
		Removed:    lr.NewStyle().Background(colorDelBg).Strikethrough(true),
		LineNumber: lr.NewStyle().Foreground(colorMuted),
	}
}

// Token returns the style for a syntax kind.
func (s *Styles) Token(k highlight.Kind) lipgloss.Style {
	switch k {
	case highlight.Keyword:
		return s.Keyword
	case highlight.String:
		return s.String
	case highlight.Number:
		return s.Number
	case highlight.Comment:
		return s.Comment
	default:
		return s.Identifier
	}
}

// Segment returns the style for a decorated segment: its syntax colour with
// the diff background layered on.
func (s *Styles) Segment(seg decorate.Segment) lipgloss.Style {
	style := s.Token(seg.Kind)
	switch seg.Class {
	case decorate.DiffAdd:
		style = style.Inherit(s.Added)
	case decorate.DiffDel:
		style = style.Inherit(s.Removed)
	}
	return style
}
