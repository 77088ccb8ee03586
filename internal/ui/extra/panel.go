// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extra renders the auxiliary tool panel below the toolbar.
package extra

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/roomchat-tui/internal/ui/styles"
)

// DefaultTools are the tiles shown in the panel. They are display-only.
var DefaultTools = []string{"Image", "Camera", "File", "Location"}

// Panel is the extra-tools panel. Its only input is Visible.
type Panel struct {
	Visible bool

	width int
	tools []string
	theme *styles.Theme
}

// New creates a hidden panel.
func New(theme *styles.Theme) *Panel {
	return &Panel{
		tools: DefaultTools,
		theme: theme,
	}
}

// SetTheme restyles the panel.
func (p *Panel) SetTheme(theme *styles.Theme) {
	p.theme = theme
}

// SetWidth sets the panel width.
func (p *Panel) SetWidth(width int) {
	p.width = width
}

// View renders the panel, or "" when hidden.
func (p *Panel) View() string {
	if !p.Visible {
		return ""
	}

	tiles := make([]string, 0, len(p.tools))
	for _, name := range p.tools {
		tiles = append(tiles, p.theme.PanelTile.Render(name))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tiles...)

	style := p.theme.Panel
	if p.width > 0 {
		style = style.Width(p.width)
	}
	return style.Render(row)
}
