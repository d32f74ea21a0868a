package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// difficultyColors are the badge colors of each difficulty shortname.
var difficultyColors = map[string]lipgloss.Color{
	"NOV": lipgloss.Color("#8A5CF6"),
	"ADV": lipgloss.Color("#E6B800"),
	"EXH": lipgloss.Color("#E0344B"),
	"MXM": lipgloss.Color("#9E9E9E"),
	"INF": lipgloss.Color("#E05FB4"),
	"GRV": lipgloss.Color("#E07A1F"),
	"HVN": lipgloss.Color("#3AA9E0"),
	"VVD": lipgloss.Color("#E060C0"),
}

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func (p *Palette) On(s string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Padding(0, 1).Render(s)
}

func (p *Palette) As(s string, fg lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(fg).Render(s)
}

// Badge renders a difficulty shortname in its color, or plainly when the shortname is unknown.
func Badge(p Painter, shortname string) string {
	color, ok := difficultyColors[strings.ToUpper(shortname)]
	if !ok {
		return shortname
	}
	return p.On(shortname, color)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
