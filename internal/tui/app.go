// Package tui is a read-only terminal inspector that pages through widgets in z order.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/widgetd/internal/service"
	"github.com/jask/widgetd/internal/spatial"
	"github.com/jask/widgetd/internal/widget"
)

// Lister is the part of the widget service the inspector reads from.
type Lister interface {
	List(ctx context.Context, q service.Query) (service.Page, error)
}

// App ties together the inspector view.
type App struct {
	ctx      context.Context
	svc      Lister
	area     spatial.AreaParams
	pageSize int
	offset   int
	page     service.Page
	cursor   int
	status   string
}

type pageMsg service.Page

type errMsg struct{ error }

// New returns an inspector showing pageSize widgets at a time, restricted to area.
func New(ctx context.Context, svc Lister, pageSize int, area spatial.AreaParams) *App {
	if pageSize < 1 {
		pageSize = 10
	}
	return &App{ctx: ctx, svc: svc, pageSize: pageSize, area: area}
}

func (a *App) Init() tea.Cmd {
	return a.load()
}

func (a *App) load() tea.Cmd {
	offset, limit := a.offset, a.pageSize
	return func() tea.Msg {
		page, err := a.svc.List(a.ctx, service.Query{Area: a.area, Offset: &offset, Limit: &limit})
		if err != nil {
			return errMsg{err}
		}
		return pageMsg(page)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		switch m.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "up", "k":
			if a.cursor > 0 {
				a.cursor--
			}
		case "down", "j":
			if a.cursor < len(a.page.Widgets)-1 {
				a.cursor++
			}
		case "right", "n":
			if a.offset+a.pageSize < a.page.Total {
				a.offset += a.pageSize
				a.status = "loading..."
				return a, a.load()
			}
		case "left", "p":
			if a.offset > 0 {
				a.offset = max(a.offset-a.pageSize, 0)
				a.status = "loading..."
				return a, a.load()
			}
		case "r":
			a.status = "refreshing..."
			return a, a.load()
		}
	case pageMsg:
		a.page = service.Page(m)
		a.status = ""
		if a.page.BestEffort {
			a.status = "best-effort: lock timed out, snapshot may be inconsistent"
		}
		if a.cursor >= len(a.page.Widgets) {
			a.cursor = 0
		}
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Widgets by z"))
	b.WriteString("\n")

	pages := (a.page.Total + a.pageSize - 1) / a.pageSize
	fmt.Fprintf(&b, "page %d/%d  total %d\n", a.offset/a.pageSize+1, max(pages, 1), a.page.Total)
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %6s  %7s %7s %6s %6s  %s", "z", "x", "y", "w", "h", "id")))
	b.WriteString("\n")
	if len(a.page.Widgets) == 0 {
		b.WriteString("  no widgets\n")
	}
	for i, w := range a.page.Widgets {
		line := row(w)
		if i == a.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("[j/k] Move  [n/p] Page  [r] Refresh  [q] Quit")
	if a.status != "" {
		b.WriteString("\n")
		if a.page.BestEffort {
			b.WriteString(warnStyle.Render(a.status))
		} else {
			b.WriteString(a.status)
		}
	}
	return b.String()
}

func row(w widget.Widget) string {
	return fmt.Sprintf("  %6d  %7d %7d %6d %6d  %s", w.Z, w.X, w.Y, w.Width, w.Height, w.ID)
}
