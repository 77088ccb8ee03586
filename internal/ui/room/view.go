// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package room

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/roomchat-tui/internal/model"
	"github.com/jeranaias/roomchat-tui/internal/store"
)

const (
	appTitle      = "roomchat"
	maxNameWidth  = 24
	imageLabel    = "[image] "
	emptyTimeline = "No messages yet. Say hello."
)

// View renders the room: header, timeline, optional panel, toolbar and help.
func (m *Model) View() string {
	parts := []string{
		m.renderHeader(),
		m.viewport.View(),
	}
	if p := m.panel.View(); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts,
		m.toolbar.View(),
		m.help.View(m.helpKeys()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// =============================================================================
// HEADER
// =============================================================================

func (m *Model) renderHeader() string {
	th := m.theme
	state := m.store.State()

	title := th.HeaderTitle.Render(appTitle)
	if room := m.cfg.Server.Room; room != "" {
		title += th.HeaderMeta.Render(" #" + room)
	}
	meta := th.HeaderMeta.Render(fmt.Sprintf("  %d online  ", len(state.Members)))

	line := title + meta + m.renderStatus()
	if m.width > 0 {
		return th.Header.Width(m.width).Render(line)
	}
	return th.Header.Render(line)
}

func (m *Model) renderStatus() string {
	th := m.theme
	switch m.status {
	case statusOnline:
		return th.StatusOnline.Render("● online")
	case statusConnecting:
		return th.StatusWait.Render("○ connecting")
	case statusFailed:
		text := "✕ connection failed"
		if m.connErr != nil {
			text += ": " + m.connErr.Error()
		}
		return th.StatusError.Render(runewidth.Truncate(text, max(m.width/2, 24), "…"))
	default:
		return th.StatusWait.Render("○ offline")
	}
}

// =============================================================================
// TIMELINE
// =============================================================================

// refreshMessages re-renders the timeline when the message count changed or
// when force is set. It keeps the view pinned to the bottom if it was there.
func (m *Model) refreshMessages(force bool) {
	state := m.store.State()
	if !force && len(state.Messages) == m.rendered {
		return
	}
	m.rendered = len(state.Messages)

	follow := m.viewport.AtBottom() || m.viewport.TotalLineCount() == 0
	m.viewport.SetContent(m.renderTimeline(state))
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderTimeline(state store.State) string {
	if len(state.Messages) == 0 {
		return m.theme.SystemNotice.Render(emptyTimeline)
	}

	blocks := make([]string, 0, len(state.Messages))
	for _, msg := range state.Messages {
		blocks = append(blocks, m.renderMessage(state, msg))
	}
	return strings.Join(blocks, "\n")
}

func (m *Model) renderMessage(state store.State, msg model.Message) string {
	th := m.theme
	width := max(m.width, th.BubbleWidth())

	if msg.IsSystem() {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, th.SystemNotice.Render(msg.Text()))
	}

	body := m.renderBody(msg)
	style := th.PeerBubble
	if msg.IsOwner {
		style = th.OwnBubble
	}
	if m.cfg.UI.Compact {
		style = style.UnsetBorderStyle()
	}
	bubble := style.MaxWidth(th.BubbleWidth()).Render(body)

	if msg.IsOwner {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	}
	if m.cfg.UI.Compact {
		return bubble
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderSender(state, msg.UserID), bubble)
}

func (m *Model) renderSender(state store.State, userID string) string {
	name := userID
	if member, ok := state.Member(userID); ok {
		name = member.DisplayName()
	}
	if name == "" {
		name = "unknown"
	}
	return m.theme.SenderName.Render(runewidth.Truncate(name, maxNameWidth, "…"))
}

// renderBody formats text through glamour when markdown is enabled, falling
// back to wrapped plain text.
func (m *Model) renderBody(msg model.Message) string {
	text := msg.Text()
	if m.renderer != nil && text != "" {
		out, err := m.renderer.Render(text)
		if err != nil {
			log.Debug().Err(err).Str("id", msg.ID).Msg("markdown render failed")
		} else {
			text = strings.Trim(out, "\n")
		}
	} else if text != "" {
		text = runewidth.Wrap(text, max(m.theme.BubbleWidth()-4, 10))
	}

	if msg.HasImage() {
		ref := m.theme.ImageRef.Render(imageLabel + msg.Content.Image)
		if text == "" {
			return ref
		}
		return text + "\n" + ref
	}
	return text
}
