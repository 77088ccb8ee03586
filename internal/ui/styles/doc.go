// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for roomchat.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values so they follow the terminal's
light or dark background:

  - Purple - App title and accents
  - Cyan - Focus ring and the send button
  - Emerald, Amber, Rose - Connection status (online, connecting, error)
  - OwnBubble* / PeerBubble* - Message bubbles for own and other members' messages

# Theme (theme.go)

Theme groups the lipgloss styles used by the room header, the message list,
the composition toolbar and the extra panel. Create one per program:

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(width, height)
*/
package styles
