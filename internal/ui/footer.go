// Copyright (c) Liam Stanley <liam@liam.sh>. All rights reserved. Use of
// this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

var (
	footerStyle = lipgloss.NewStyle().
			Background(subtle).
			Foreground(lipgloss.AdaptiveColor{Light: "#666", Dark: "#AAA"}).
			Height(1)

	debugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999", Dark: "#666"})
)

type footer struct {
	width          int
	terminalWidth  int
	terminalHeight int
	depth          int
}

func (f *footer) Update(msg tea.Msg) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		f.width = msg.Width
	}
}

func (f *footer) View() string {
	mouseInfo := "Mouse: disabled"
	if zone.Enabled() {
		mouseInfo = "Mouse: enabled"
	}
	keys := "Tab=switch | Ctrl+E=mouse | Ctrl+C=quit"
	if f.depth > 0 {
		keys = "Esc=back | " + keys
	}
	info := fmt.Sprintf("Terminal: %dx%d | %s | %s", f.terminalWidth, f.terminalHeight, mouseInfo, keys)
	return footerStyle.Width(f.width).Render(debugStyle.Render(info))
}
