// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolbar implements the message-composition bar at the bottom of a room.
//
// The toolbar keeps one piece of local state, the draft text. Everything else
// (socket, message count, current user, active tool) is read from the store,
// and changes go back through store.Dispatch.
package toolbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/roomchat-tui/internal/model"
	"github.com/jeranaias/roomchat-tui/internal/store"
	"github.com/jeranaias/roomchat-tui/internal/transport"
	"github.com/jeranaias/roomchat-tui/internal/ui/styles"
)

const (
	maxDraftRows = 5

	micIcon    = "(o)"
	toolIcon   = "(+)"
	sendLabel  = "Send"
	minInputW  = 10
	chromeCols = 4 // draft box border + padding
)

// Toolbar is the composition bar: mic icon, draft input, and either a send
// button or an open-tools button.
type Toolbar struct {
	store *store.Store
	input textarea.Model
	keys  KeyMap
	theme *styles.Theme
	width int
}

// New creates a toolbar bound to st. The draft input starts focused.
func New(st *store.Store, theme *styles.Theme) *Toolbar {
	ta := textarea.New()
	ta.Placeholder = "Message"
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	// Zero limits: the draft is unbounded and fitHeight caps only the visible rows.
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(1)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline = DefaultKeyMap().Newline
	ta.Focus()

	t := &Toolbar{
		store: st,
		input: ta,
		keys:  DefaultKeyMap(),
	}
	t.SetTheme(theme)
	return t
}

// SetTheme restyles the toolbar, for example after a config reload.
func (t *Toolbar) SetTheme(theme *styles.Theme) {
	t.theme = theme
	t.input.FocusedStyle.Placeholder = theme.Placeholder
	t.input.BlurredStyle.Placeholder = theme.Placeholder
	if t.width > 0 {
		t.SetWidth(t.width)
	}
}

// KeyMap returns the toolbar bindings, for help rendering.
func (t *Toolbar) KeyMap() KeyMap {
	return t.keys
}

// =============================================================================
// DRAFT
// =============================================================================

// Draft returns the current draft text.
func (t *Toolbar) Draft() string {
	return t.input.Value()
}

// SetDraft replaces the draft text.
func (t *Toolbar) SetDraft(text string) {
	t.input.SetValue(text)
	t.fitHeight()
}

// ShowSend reports whether the send affordance is shown instead of the
// open-tools affordance.
func (t *Toolbar) ShowSend() bool {
	return strings.TrimSpace(t.input.Value()) != ""
}

// Focused reports whether the draft input has focus.
func (t *Toolbar) Focused() bool {
	return t.input.Focused()
}

// =============================================================================
// ACTIONS
// =============================================================================

// Send transmits the draft and inserts an optimistic local copy into the store.
// Without a socket it does nothing and returns false.
func (t *Toolbar) Send() bool {
	state := t.store.State()
	if state.Socket == nil {
		log.Debug().Msg("send suppressed: no socket")
		return false
	}

	draft := t.input.Value()

	err := state.Socket.Emit(transport.EventNewMessage, transport.OutboundMessage{
		Message: draft,
		Type:    model.TypeTextSimple,
	})
	if err != nil {
		log.Warn().Err(err).Msg("emit new message failed")
	}

	t.store.Dispatch(store.InsertMessage{
		Message: model.NewTextMessage(
			model.MessageID(len(state.Messages)),
			state.CurrentUserID,
			draft,
			true,
		),
	})

	t.input.Reset()
	t.fitHeight()
	return true
}

// Focus focuses the draft input and collapses the extra panel.
func (t *Toolbar) Focus() tea.Cmd {
	t.store.Dispatch(store.UpdateActiveTool{Tool: store.ActiveToolNull})
	return t.input.Focus()
}

// OpenTool reveals the extra panel and moves focus away from the input.
func (t *Toolbar) OpenTool() {
	t.store.Dispatch(store.UpdateActiveTool{Tool: store.ActiveToolExtra})
	t.input.Blur()
}

// =============================================================================
// BUBBLE TEA
// =============================================================================

// SetWidth sets the toolbar width.
func (t *Toolbar) SetWidth(width int) {
	t.width = width

	buttons := lipgloss.Width(t.theme.IconButton.Render(micIcon)) +
		max(lipgloss.Width(t.theme.SendButton.Render(sendLabel)),
			lipgloss.Width(t.theme.IconButton.Render(toolIcon)))
	t.input.SetWidth(max(width-buttons-chromeCols, minInputW))
}

// Update handles key presses and forwards the rest to the draft input.
func (t *Toolbar) Update(msg tea.Msg) (*Toolbar, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, t.keys.Submit):
			if t.ShowSend() {
				t.Send()
			} else {
				t.OpenTool()
			}
			return t, nil
		case key.Matches(keyMsg, t.keys.OpenTool):
			t.OpenTool()
			return t, nil
		case key.Matches(keyMsg, t.keys.Focus):
			return t, t.Focus()
		}
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	t.fitHeight()
	return t, cmd
}

// View renders the toolbar.
func (t *Toolbar) View() string {
	mic := t.theme.IconButton.Render(micIcon)

	box := t.theme.DraftBox
	if t.input.Focused() {
		box = t.theme.DraftFocused
	}
	draft := box.Render(t.input.View())

	bar := lipgloss.JoinHorizontal(lipgloss.Bottom, mic, draft, t.renderAction())

	style := t.theme.AppBar
	if t.width > 0 {
		style = style.Width(t.width)
	}
	return style.Render(bar)
}

// renderAction renders exactly one of the send button or the open-tools button.
func (t *Toolbar) renderAction() string {
	if t.ShowSend() {
		return t.theme.SendButton.Render(sendLabel)
	}
	return t.theme.IconButton.Render(toolIcon)
}

func (t *Toolbar) fitHeight() {
	rows := t.input.LineCount()
	if rows < 1 {
		rows = 1
	}
	if rows > maxDraftRows {
		rows = maxDraftRows
	}
	t.input.SetHeight(rows)
}
