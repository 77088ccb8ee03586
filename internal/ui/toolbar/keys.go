// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolbar

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the toolbar's keyboard bindings.
type KeyMap struct {
	// Submit triggers whichever affordance is visible: send, or open tools.
	Submit   key.Binding
	Newline  key.Binding
	OpenTool key.Binding
	Focus    key.Binding
}

// DefaultKeyMap returns the default toolbar bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("M-Enter", "new line"),
		),
		OpenTool: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "more tools"),
		),
		Focus: key.NewBinding(
			key.WithKeys("esc", "tab"),
			key.WithHelp("Esc/Tab", "back to input"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Newline, k.OpenTool, k.Focus}
}
