// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package room

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/roomchat-tui/internal/ui/toolbar"
)

// KeyMap holds the bindings the room handles before the toolbar sees a key.
type KeyMap struct {
	Quit       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

// DefaultKeyMap returns the default room bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
	}
}

// footerKeys merges room and toolbar bindings for the help line.
type footerKeys struct {
	room    KeyMap
	toolbar toolbar.KeyMap
}

func (f footerKeys) ShortHelp() []key.Binding {
	return append(f.toolbar.ShortHelp(), f.room.ScrollUp, f.room.Quit)
}

func (f footerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		f.toolbar.ShortHelp(),
		{f.room.ScrollUp, f.room.ScrollDown, f.room.Quit},
	}
}

func (m *Model) helpKeys() footerKeys {
	return footerKeys{room: m.keys, toolbar: m.toolbar.KeyMap()}
}
