// Package picker is a small standalone TUI for choosing one search result.
package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/placemarks/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)
)

// Picker lists search results and lets the user pick one.
type Picker struct {
	results   []search.Result
	meta      func(search.Result) string
	query     string
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a Picker. meta returns the dimmed second line of a result
// and may be nil.
func New(results []search.Result, query string, meta func(search.Result) string) Picker {
	if meta == nil {
		meta = func(search.Result) string { return "" }
	}
	return Picker{
		results: results,
		meta:    meta,
		query:   query,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit

		case tea.KeyEnter:
			p.selected = true
			return p, tea.Quit

		case tea.KeyDown:
			p.move(1)
			return p, nil

		case tea.KeyUp:
			p.move(-1)
			return p, nil
		}

		// Handle j/k vim keys
		if msg.Type == tea.KeyRunes {
			switch string(msg.Runes) {
			case "j":
				p.move(1)
			case "k":
				p.move(-1)
			case "q":
				p.cancelled = true
				return p, tea.Quit
			}
		}
	}

	return p, nil
}

func (p *Picker) move(delta int) {
	next := p.cursor + delta
	if next >= 0 && next < len(p.results) {
		p.cursor = next
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	for i, result := range p.results {
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		kind := "bookmark"
		if result.Kind == search.KindCategory {
			kind = "category"
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, style.Render(result.Name()), metaStyle.Render("["+kind+"]")))
		if meta := p.meta(result); meta != "" {
			b.WriteString(fmt.Sprintf("   %s\n", metaStyle.Render(meta)))
		}
	}

	b.WriteString("\n")
	b.WriteString(metaStyle.Render("j/k: move  Enter: show  q/Esc: cancel"))

	return b.String()
}

// Selected returns the chosen result. ok is false if the user cancelled.
func (p Picker) Selected() (search.Result, bool) {
	if p.cancelled || !p.selected || p.cursor >= len(p.results) {
		return search.Result{}, false
	}
	return p.results[p.cursor], true
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
