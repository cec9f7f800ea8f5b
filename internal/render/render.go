// Package render formats news items for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/Adda-Baaj/newsreader/internal/domain"
)

const (
	// Width is the maximum rendered line width.
	Width = 80

	descriptionLabel = "Description: "
	progressClear    = 40
)

var rule = strings.Repeat("-", Width)

// Printer writes headings, items and progress lines to one writer. Styling is
// applied only when the writer is a color-capable terminal.
type Printer struct {
	out     io.Writer
	heading lipgloss.Style
	label   lipgloss.Style
}

// NewPrinter builds a Printer bound to out.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		heading: r.NewStyle().Bold(true),
		label:   r.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

// Items prints the header for feedName followed by every item.
func (p *Printer) Items(feedName string, items []domain.NewsItem) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.heading.Render("Latest News from "+feedName+":"))
	fmt.Fprintln(p.out, rule)

	for _, it := range items {
		fmt.Fprintln(p.out, p.label.Render("Title:")+" "+it.Title)
		fmt.Fprintln(p.out, p.label.Render("Description:")+" "+WrapDescription(it.Description))
		fmt.Fprintln(p.out, p.label.Render("Link:")+" "+it.Link)
		fmt.Fprintln(p.out, p.label.Render("Date:")+" "+it.PubDate)
		fmt.Fprintln(p.out, rule)
	}
}

// Progress returns a callback that rewrites a single progress line.
func (p *Printer) Progress() func(current, total int) {
	return func(current, total int) {
		fmt.Fprintf(p.out, "Fetching news items: %d/%d\r", current, total)
	}
}

// ClearProgress blanks the progress line.
func (p *Printer) ClearProgress() {
	fmt.Fprint(p.out, strings.Repeat(" ", progressClear)+"\r")
}

// WrapDescription collapses whitespace in s and wraps it so that, printed
// after "Description: ", no line exceeds Width. Continuation lines are
// indented to align under the first word.
func WrapDescription(s string) string {
	text := strings.Join(strings.Fields(s), " ")
	if text == "" {
		return ""
	}

	limit := Width - len(descriptionLabel)
	wrapped := wrap.String(wordwrap.String(text, limit), limit)

	lines := strings.Split(wrapped, "\n")
	indent := strings.Repeat(" ", len(descriptionLabel))
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + strings.TrimLeft(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}
