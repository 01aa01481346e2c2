package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#4ECDC4")
	warningColor = lipgloss.Color("#FFE66D")
	subtleColor  = lipgloss.Color("#666666")
)

// printer writes styled console output. Colors are dropped automatically
// when out is not a terminal.
type printer struct {
	out    io.Writer
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	warn   lipgloss.Style
	subtle lipgloss.Style
}

func newPrinter(out io.Writer) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out:    out,
		title:  r.NewStyle().Bold(true).Foreground(primaryColor),
		label:  r.NewStyle().Width(22),
		value:  r.NewStyle().Bold(true),
		warn:   r.NewStyle().Foreground(warningColor),
		subtle: r.NewStyle().Foreground(subtleColor),
	}
}

func (p *printer) Title(s string) {
	fmt.Fprintln(p.out, p.title.Render(s))
}

func (p *printer) Row(label, value string) {
	fmt.Fprintln(p.out, p.label.Render(label)+p.value.Render(value))
}

func (p *printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.warn.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) Note(format string, args ...any) {
	fmt.Fprintln(p.out, p.subtle.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) Line() {
	fmt.Fprintln(p.out)
}
