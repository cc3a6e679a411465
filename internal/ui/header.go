// Copyright (c) Liam Stanley <liam@liam.sh>. All rights reserved. Use of
// this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
)

const crumbSep = " › "

var (
	headerStyle = lipgloss.NewStyle().
			Background(subtle).
			Foreground(lipgloss.AdaptiveColor{Light: "#333", Dark: "#FFF"}).
			Height(1)

	headerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(highlight).
				Background(subtle)
)

// header shows the breadcrumb on the left and the tab buttons on the right.
type header struct {
	id       string
	width    int
	crumbs   []string
	tabs     []string
	selected int
}

func newHeader(tabs []string) *header {
	return &header{
		id:   zone.NewPrefix(),
		tabs: tabs,
	}
}

// Update returns the index of a clicked tab, or -1.
func (h *header) Update(msg tea.Msg) int {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width = msg.Width

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return -1
		}
		for i := range h.tabs {
			if z := zone.Get(h.tabID(i)); z != nil && z.InBounds(msg) {
				return i
			}
		}
	}
	return -1
}

func (h *header) View() string {
	var buttonViews []string
	for i, label := range h.tabs {
		style := buttonStyle
		if i == h.selected {
			style = buttonActiveStyle
		}
		buttonViews = append(buttonViews, zone.Mark(h.tabID(i), style.Render(label)))
	}
	buttonsSection := lipgloss.JoinHorizontal(lipgloss.Center, buttonViews...)
	buttonsWidth := lipgloss.Width(buttonsSection)

	titleText := fitCrumbs(h.crumbs, max(h.width-buttonsWidth-2, 0))
	title := headerTitleStyle.Render(titleText)

	spacingWidth := max(h.width-lipgloss.Width(title)-buttonsWidth, 0)
	spacing := lipgloss.NewStyle().Background(subtle).Width(spacingWidth).Render("")
	content := lipgloss.JoinHorizontal(lipgloss.Center, title, spacing, buttonsSection)
	return headerStyle.Width(h.width).Render(content)
}

// fitCrumbs joins crumbs into at most width cells. Leading crumbs are
// dropped first so the current screen stays visible; a single crumb that is
// still too wide is cut with an ellipsis.
func fitCrumbs(crumbs []string, width int) string {
	if width <= 0 || len(crumbs) == 0 {
		return ""
	}
	for i := range crumbs {
		line := " " + strings.Join(crumbs[i:], crumbSep)
		if i > 0 {
			line = " …" + crumbSep + strings.Join(crumbs[i:], crumbSep)
		}
		if lipgloss.Width(line) <= width {
			return line
		}
	}
	return ansi.Truncate(" "+crumbs[len(crumbs)-1], width, "…")
}

func (h *header) tabID(index int) string {
	return h.id + "tab_" + strconv.Itoa(index)
}
