package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rileylov/designlab/internal/catalog"
)

const searchDebounce = 150 * time.Millisecond

var (
	chipStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Margin(0, 1, 0, 0).
			Background(subtle)
	chipActiveStyle = chipStyle.
			Background(highlight).
			Foreground(white).
			Bold(true)
)

type debouncedFilterMsg struct {
	id string
}

type catalogScreen struct {
	id        string
	title     string
	opts      Options
	items     []catalog.Item
	shown     []catalog.Item
	table     table.Model
	textInput textinput.Model

	category *catalog.Category
	query    string

	width           int
	debounceRunning bool
	statusMessage   string
}

func newCatalogScreen(title string, items []catalog.Item, opts Options) *catalogScreen {
	opts = opts.withDefaults()

	t := table.New(
		table.WithColumns(catalogColumns(80)),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(st)

	ti := textinput.New()
	ti.Placeholder = "Search demos..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 30

	s := &catalogScreen{
		id:        zone.NewPrefix(),
		title:     title,
		opts:      opts,
		items:     items,
		table:     t,
		textInput: ti,
	}
	s.refresh()
	return s
}

func catalogColumns(width int) []table.Column {
	desc := max(20, width-2-24-14-24-8)
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Title", Width: 24},
		{Title: "Category", Width: 14},
		{Title: "Tags", Width: 24},
		{Title: "Description", Width: desc},
	}
}

func (s *catalogScreen) Title() string { return s.title }

func (s *catalogScreen) Init() tea.Cmd { return textinput.Blink }

func (s *catalogScreen) chipID(i int) string { return fmt.Sprintf("%schip_%d", s.id, i) }

// selectCategory sets the filter; nil shows every category.
func (s *catalogScreen) selectCategory(c *catalog.Category) {
	s.category = c
	s.refresh()
}

// cycleCategory steps All -> each category -> All.
func (s *catalogScreen) cycleCategory() {
	cats := catalog.Categories()
	if s.category == nil {
		s.selectCategory(&cats[0])
		return
	}
	for i, c := range cats {
		if c == *s.category {
			if i+1 < len(cats) {
				s.selectCategory(&cats[i+1])
			} else {
				s.selectCategory(nil)
			}
			return
		}
	}
}

func (s *catalogScreen) refresh() {
	s.shown = catalog.Filter(s.items, s.query, s.category)
	rows := make([]table.Row, 0, len(s.shown))
	for _, it := range s.shown {
		rows = append(rows, table.Row{it.Category.Icon(), it.Title, it.Category.String(), strings.Join(it.Tags, ", "), it.Description})
	}
	s.table.SetRows(rows)
	if s.table.Cursor() >= len(rows) {
		s.table.SetCursor(0)
	}
}

func (s *catalogScreen) selected() (catalog.Item, bool) {
	i := s.table.Cursor()
	if i < 0 || i >= len(s.shown) {
		return catalog.Item{}, false
	}
	return s.shown[i], true
}

func (s *catalogScreen) debounceCmd() tea.Cmd {
	id := s.id
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg { return debouncedFilterMsg{id: id} })
}

func (s *catalogScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.table.SetColumns(catalogColumns(msg.Width))
		s.table.SetWidth(msg.Width)
		s.table.SetHeight(max(3, msg.Height-6))
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if it, ok := s.selected(); ok {
				return s, navigate(it.Destination)
			}
			s.statusMessage = "Nothing selected"
			return s, nil
		case "ctrl+f":
			s.cycleCategory()
			return s, nil
		case "ctrl+y":
			s.copySelected()
			return s, nil
		case "alt+ctrl+h", "ctrl+w":
			s.textInput.SetValue("")
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			s.clickChip(msg)
		}
		return s, nil

	case debouncedFilterMsg:
		if msg.id != s.id {
			return s, nil
		}
		s.debounceRunning = false
		if q := s.textInput.Value(); q != s.query {
			s.query = q
			s.refresh()
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.textInput, cmd = s.textInput.Update(msg)
	cmds = append(cmds, cmd)

	if s.textInput.Value() != s.query && !s.debounceRunning {
		s.debounceRunning = true
		cmds = append(cmds, s.debounceCmd())
	}

	// Printable keys belong to the search field, not the table's j/k.
	if km, ok := msg.(tea.KeyMsg); !ok || km.Type != tea.KeyRunes {
		s.table, cmd = s.table.Update(msg)
		cmds = append(cmds, cmd)
	}

	return s, tea.Batch(cmds...)
}

func (s *catalogScreen) clickChip(msg tea.MouseMsg) {
	if z := zone.Get(s.chipID(0)); z != nil && z.InBounds(msg) {
		s.selectCategory(nil)
		return
	}
	cats := catalog.Categories()
	for i := range cats {
		if z := zone.Get(s.chipID(i + 1)); z != nil && z.InBounds(msg) {
			s.selectCategory(&cats[i])
			return
		}
	}
}

func (s *catalogScreen) copySelected() {
	it, ok := s.selected()
	if !ok {
		s.statusMessage = "Nothing selected"
		return
	}
	if s.opts.Clipboard == nil {
		s.statusMessage = "Clipboard unavailable"
		return
	}
	summary := fmt.Sprintf("%s (%s): %s", it.Title, it.Category, it.Description)
	if err := s.opts.Clipboard(summary); err != nil {
		s.statusMessage = fmt.Sprintf("Couldn't write to clipboard: %v", err)
		return
	}
	s.statusMessage = "Copied " + it.Title
}

func (s *catalogScreen) renderChips() string {
	style := func(active bool) lipgloss.Style {
		if active {
			return chipActiveStyle
		}
		return chipStyle
	}
	chips := []string{zone.Mark(s.chipID(0), style(s.category == nil).Render("All"))}
	for i, c := range catalog.Categories() {
		active := s.category != nil && *s.category == c
		chips = append(chips, zone.Mark(s.chipID(i+1), style(active).Render(c.Icon()+" "+c.String())))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (s *catalogScreen) View() string {
	body := s.table.View()
	if len(s.shown) == 0 {
		body = statusStyle.Render("No demos here yet.")
	}
	status := fmt.Sprintf("Items: %d", len(s.shown))
	if s.statusMessage != "" {
		status += " | " + s.statusMessage
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		s.textInput.View(),
		s.renderChips(),
		"",
		body,
		statusStyle.Render(status),
	)
}
