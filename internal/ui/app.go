package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rileylov/designlab/internal/catalog"
	"github.com/rileylov/designlab/internal/nav"
)

const appName = "designlab"

// tab is one gallery with its own navigation path.
type tab struct {
	name  string
	root  Screen
	stack nav.Stack[Screen]
}

func (t *tab) current() Screen {
	if s, ok := t.stack.Top(); ok {
		return s
	}
	return t.root
}

func (t *tab) screens() []Screen {
	return append([]Screen{t.root}, t.stack.Path()...)
}

// App is the root bubbletea model.
type App struct {
	opts   Options
	width  int
	height int
	body   tea.WindowSizeMsg

	header *header
	footer *footer
	tabs   []*tab
	active int
}

// New builds the tab shell. Every screen receives its collaborators
// through opts.
func New(opts Options) *App {
	opts = opts.withDefaults()
	tabs := []*tab{
		{name: "Gallery", root: newCatalogScreen("Gallery", catalog.Gallery(), opts)},
		{name: "Archive", root: newCatalogScreen("Archive", catalog.Archive(), opts)},
	}
	names := make([]string, len(tabs))
	for i, t := range tabs {
		names[i] = t.name
	}
	a := &App{
		opts:   opts,
		header: newHeader(names),
		footer: &footer{},
		tabs:   tabs,
	}
	a.syncChrome()
	return a
}

func (a *App) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, t := range a.tabs {
		cmds = append(cmds, t.root.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) isInitialized() bool {
	return a.height != 0 && a.width != 0
}

func (a *App) tab() *tab { return a.tabs[a.active] }

// Current is the screen on top of the active tab.
func (a *App) Current() Screen { return a.tab().current() }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !a.isInitialized() {
		if _, ok := msg.(tea.WindowSizeMsg); !ok {
			return a, nil
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+e":
			zone.SetEnabled(!zone.Enabled())
			return a, nil
		case "tab":
			return a, a.selectTab((a.active + 1) % len(a.tabs))
		case "shift+tab":
			return a, a.selectTab((a.active + len(a.tabs) - 1) % len(a.tabs))
		case "esc", "backspace":
			if a.tab().stack.Len() > 0 {
				return a, a.back()
			}
		}
		return a, a.updateCurrent(msg)

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.footer.terminalWidth, a.footer.terminalHeight = msg.Width, msg.Height
		inner := tea.WindowSizeMsg{Width: max(msg.Width-2, 1), Height: max(msg.Height-2, 1)}
		a.header.Update(inner)
		a.footer.Update(inner)
		a.body = tea.WindowSizeMsg{
			Width:  inner.Width,
			Height: max(inner.Height-lipgloss.Height(a.header.View())-lipgloss.Height(a.footer.View()), 1),
		}
		return a, a.updateCurrent(a.body)

	case tea.MouseMsg:
		if i := a.header.Update(msg); i >= 0 {
			return a, a.selectTab(i)
		}
		return a, a.updateCurrent(msg)

	case navigateMsg:
		return a, a.push(msg.dest)
	}

	// Timers and other internal messages go to every live screen; each
	// one ignores ids that are not its own.
	var cmds []tea.Cmd
	for _, t := range a.tabs {
		for _, s := range t.screens() {
			_, cmd := s.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	return a, tea.Batch(cmds...)
}

func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	_, cmd := a.Current().Update(msg)
	return cmd
}

func (a *App) selectTab(i int) tea.Cmd {
	if i == a.active {
		// Re-selecting a tab returns to its root.
		a.tab().stack.PopToRoot()
	}
	a.active = i
	a.syncChrome()
	return a.updateCurrent(a.body)
}

func (a *App) push(dest catalog.Destination) tea.Cmd {
	s, err := a.opts.NewScreen(dest)
	if err != nil {
		a.opts.Logger.Error("open screen", "destination", dest.String(), "error", err)
		return nil
	}
	a.opts.Logger.Debug("navigate", "tab", a.tab().name, "destination", dest.String())
	a.tab().stack.Push(s)
	a.syncChrome()
	_, sizeCmd := s.Update(a.body)
	return tea.Batch(s.Init(), sizeCmd)
}

func (a *App) back() tea.Cmd {
	a.tab().stack.Pop()
	a.syncChrome()
	return a.updateCurrent(a.body)
}

// syncChrome refreshes the breadcrumb, selected tab and footer hints.
func (a *App) syncChrome() {
	crumbs := []string{appName}
	for _, s := range a.tab().screens() {
		crumbs = append(crumbs, s.Title())
	}
	a.header.crumbs = crumbs
	a.header.selected = a.active
	a.footer.depth = a.tab().stack.Len()
}

func (a *App) View() string {
	if !a.isInitialized() {
		return ""
	}
	body := lipgloss.NewStyle().
		Width(a.body.Width).
		Height(a.body.Height).
		MaxHeight(a.body.Height).
		Render(a.Current().View())

	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(highlight).
		MaxHeight(a.height).
		MaxWidth(a.width)
	return zone.Scan(frame.Render(lipgloss.JoinVertical(lipgloss.Top,
		a.header.View(),
		body,
		a.footer.View(),
	)))
}
