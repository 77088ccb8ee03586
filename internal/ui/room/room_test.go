// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package room

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/roomchat-tui/internal/config"
	"github.com/jeranaias/roomchat-tui/internal/model"
	"github.com/jeranaias/roomchat-tui/internal/store"
	"github.com/jeranaias/roomchat-tui/internal/transport"
	"github.com/jeranaias/roomchat-tui/internal/ui/styles"
)

// =============================================================================
// HELPERS
// =============================================================================

type emitCall struct {
	event   string
	payload any
}

type fakeConn struct {
	id     string
	events chan transport.Event
	calls  []emitCall
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id, events: make(chan transport.Event, 8)}
}

func (c *fakeConn) Emit(event string, payload any) error {
	if c.closed {
		return transport.ErrClosed
	}
	c.calls = append(c.calls, emitCall{event: event, payload: payload})
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func (c *fakeConn) ID() string                      { return c.id }
func (c *fakeConn) Events() <-chan transport.Event { return c.events }

func newRoom(t *testing.T) *Model {
	t.Helper()
	cfg := config.Default()
	cfg.User.Name = "ada"
	cfg.Server.Room = "lobby"

	m := New(Options{Config: cfg, Theme: styles.NewTheme("dark")})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func connect(t *testing.T, m *Model, id string) *fakeConn {
	t.Helper()
	conn := newFakeConn(id)
	_, cmd := m.Update(transport.ConnectedMsg{Conn: conn})
	require.NotNil(t, cmd)
	return conn
}

func event(t *testing.T, name string, payload any) transport.EventMsg {
	t.Helper()
	ev, err := transport.NewEvent(name, payload)
	require.NoError(t, err)
	return transport.EventMsg{Event: ev}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// =============================================================================
// CONNECTION TESTS
// =============================================================================

func TestConnected_RegistersSocketAndAnnounces(t *testing.T) {
	m := newRoom(t)
	conn := connect(t, m, "c1")

	state := m.Store().State()
	assert.Same(t, conn, state.Socket)
	assert.Equal(t, "c1", state.CurrentUserID)

	self, ok := state.Member("c1")
	require.True(t, ok)
	assert.Equal(t, "ada", self.Name)

	require.Len(t, conn.calls, 1)
	assert.Equal(t, transport.EventAddUser, conn.calls[0].event)
	assert.Equal(t, transport.AddUserPayload{Name: "ada"}, conn.calls[0].payload)

	assert.Contains(t, m.View(), "online")
}

func TestConnectErr_ShowsFailure(t *testing.T) {
	m := newRoom(t)
	m.Update(transport.ConnectErrMsg{Err: errors.New("refused")})

	assert.Nil(t, m.Store().State().Socket)
	assert.Contains(t, m.View(), "connection failed")
}

func TestInit_DialsWhenConfigured(t *testing.T) {
	dialed := false
	dial := func(ctx context.Context, opts transport.Options) (transport.Conn, error) {
		dialed = true
		return nil, errors.New("unused")
	}

	m := New(Options{Config: config.Default(), Theme: styles.NewTheme("dark"), Dial: dial})
	require.NotNil(t, m.Init())
	assert.Equal(t, statusConnecting, m.status)
	assert.False(t, dialed, "dialing happens inside the command")
}

func TestDisconnected_SuppressesSends(t *testing.T) {
	m := newRoom(t)
	conn := connect(t, m, "c1")

	m.Update(transport.DisconnectedMsg{})
	assert.Nil(t, m.Store().State().Socket)

	m.toolbar.SetDraft("anyone?")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Len(t, conn.calls, 1, "only the add user announcement was sent")
	assert.Empty(t, m.Store().State().Messages)
	assert.Contains(t, m.View(), "offline")
}

// =============================================================================
// INBOUND EVENT TESTS
// =============================================================================

func TestEvent_NewMessageOwnership(t *testing.T) {
	m := newRoom(t)
	connect(t, m, "c1")

	m.Update(event(t, transport.EventNewMessage, transport.InboundMessage{UserID: "c2", Message: "hi", Type: model.TypeTextSimple}))
	m.Update(event(t, transport.EventNewMessage, transport.InboundMessage{UserID: "c1", Message: "hello", Type: model.TypeTextSimple}))

	messages := m.Store().State().Messages
	require.Len(t, messages, 2)

	assert.Equal(t, "message-0", messages[0].ID)
	assert.False(t, messages[0].IsOwner)
	assert.Equal(t, "hi", messages[0].Text())

	assert.Equal(t, "message-1", messages[1].ID)
	assert.True(t, messages[1].IsOwner)
}

func TestEvent_NewMessageImage(t *testing.T) {
	m := newRoom(t)
	connect(t, m, "c1")

	m.Update(event(t, transport.EventNewMessage, transport.InboundMessage{
		UserID: "c2",
		Type:   model.TypeImageSimple,
		Image:  "https://example.com/cat.png",
	}))

	messages := m.Store().State().Messages
	require.Len(t, messages, 1)
	assert.Equal(t, model.TypeImageSimple, messages[0].Type)
	assert.True(t, messages[0].HasImage())
	assert.Contains(t, m.View(), "cat.png")
}

func TestEvent_UnknownTypeFallsBackToText(t *testing.T) {
	m := newRoom(t)

	m.Update(event(t, transport.EventNewMessage, map[string]string{"userId": "c2", "message": "x", "type": "STICKER"}))

	messages := m.Store().State().Messages
	require.Len(t, messages, 1)
	assert.Equal(t, model.TypeTextSimple, messages[0].Type)
}

func TestEvent_LoginRebindsSelf(t *testing.T) {
	m := newRoom(t)
	connect(t, m, "c1")

	m.Update(event(t, transport.EventLogin, transport.LoginPayload{UserID: "u-42"}))

	state := m.Store().State()
	assert.Equal(t, "u-42", state.CurrentUserID)
	_, stale := state.Member("c1")
	assert.False(t, stale)
	self, ok := state.Member("u-42")
	require.True(t, ok)
	assert.Equal(t, "ada", self.Name)
}

func TestEvent_UserJoinedAndLeft(t *testing.T) {
	m := newRoom(t)
	connect(t, m, "c1")

	m.Update(event(t, transport.EventUserJoined, transport.UserPayload{UserID: "c2", Name: "grace"}))
	_, ok := m.Store().State().Member("c2")
	require.True(t, ok)

	m.Update(event(t, transport.EventUserLeft, transport.UserPayload{UserID: "c2"}))
	state := m.Store().State()
	_, ok = state.Member("c2")
	assert.False(t, ok)
	assert.Len(t, state.Members, 1)

	require.Len(t, state.Messages, 2)
	assert.True(t, state.Messages[0].IsSystem())
	assert.Equal(t, "grace joined", state.Messages[0].Text())
	assert.Equal(t, "grace left", state.Messages[1].Text(), "name comes from the roster")
}

func TestEvent_IgnoresUnknownAndMalformed(t *testing.T) {
	m := newRoom(t)
	connect(t, m, "c1")
	before := m.Store().State()

	m.Update(transport.EventMsg{Event: transport.Event{Name: "typing"}})
	m.Update(transport.EventMsg{Event: transport.Event{Name: transport.EventNewMessage, Data: json.RawMessage(`[1,2]`)}})
	m.Update(transport.EventMsg{Event: transport.Event{Name: transport.EventUserJoined}})

	after := m.Store().State()
	assert.Equal(t, before.Messages, after.Messages)
	assert.Equal(t, before.Members, after.Members)
}

// =============================================================================
// KEYBOARD TESTS
// =============================================================================

func TestTypingAndEnterSendsThroughConn(t *testing.T) {
	m := newRoom(t)
	conn := connect(t, m, "c1")

	m.Update(runes("hey"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, conn.calls, 2)
	assert.Equal(t, transport.EventNewMessage, conn.calls[1].event)
	assert.Equal(t, transport.OutboundMessage{Message: "hey", Type: model.TypeTextSimple}, conn.calls[1].payload)

	messages := m.Store().State().Messages
	require.Len(t, messages, 1)
	assert.True(t, messages[0].IsOwner)
	assert.Contains(t, m.View(), "hey")
}

func TestPanelFollowsActiveTool(t *testing.T) {
	m := newRoom(t)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, store.ActiveToolExtra, m.Store().State().ActiveTool)
	assert.True(t, m.panel.Visible)
	assert.Contains(t, m.View(), "Camera")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.panel.Visible)
	assert.NotContains(t, m.View(), "Camera")
}

func TestCtrlC_ClosesConnAndQuits(t *testing.T) {
	m := newRoom(t)
	conn := connect(t, m, "c1")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, conn.closed)
}

// =============================================================================
// CONFIG RELOAD TESTS
// =============================================================================

func TestConfigReload_AppliesDisplaySettingsOnly(t *testing.T) {
	updates := make(chan *config.Config, 1)
	cfg := config.Default()
	cfg.User.Name = "ada"

	m := New(Options{Config: cfg, Theme: styles.NewTheme("dark"), ConfigUpdates: updates})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	next := config.Default()
	next.User.Name = "someone else"
	next.UI.Compact = true
	next.UI.Markdown = true

	_, cmd := m.Update(ConfigReloadedMsg{Config: next})
	require.NotNil(t, cmd, "keeps waiting for further reloads")

	assert.True(t, m.cfg.UI.Compact)
	assert.True(t, m.cfg.UI.Markdown)
	assert.NotNil(t, m.renderer)
	assert.Equal(t, "ada", m.cfg.User.Name)
}

func TestConfigReload_SwitchesTheme(t *testing.T) {
	// NewTheme sets lipgloss's global background flag.
	t.Cleanup(func() { styles.NewTheme("dark") })

	cfg := config.Default()
	cfg.UI.Theme = "dark"
	cfg.UI.Markdown = true

	m := New(Options{Config: cfg, Theme: styles.NewTheme("dark")})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	require.True(t, m.theme.IsDark)

	next := config.Default()
	next.UI.Theme = "light"
	next.UI.Markdown = true
	m.Update(ConfigReloadedMsg{Config: next})

	assert.False(t, m.theme.IsDark)
	assert.Equal(t, "light", m.theme.GlamourStyle())
	assert.Equal(t, 100, m.theme.Width, "new theme keeps the window size")
	assert.NotNil(t, m.renderer)
}

func TestConfigReload_KeepsFlagOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.UI.Theme = "dark"

	m := New(Options{
		Config:    cfg,
		Theme:     styles.NewTheme("dark"),
		Overrides: func(c *config.Config) { c.UI.Theme = "dark" },
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	theme := m.theme

	next := config.Default()
	next.UI.Theme = "light"
	next.UI.Compact = true
	m.Update(ConfigReloadedMsg{Config: next})

	assert.Equal(t, "dark", m.cfg.UI.Theme)
	assert.True(t, m.cfg.UI.Compact)
	assert.Same(t, theme, m.theme)
}

func TestRosterChange_RerendersSenderLabels(t *testing.T) {
	m := newRoom(t)
	connect(t, m, "c1")

	m.Update(event(t, transport.EventNewMessage, transport.InboundMessage{UserID: "c2", Message: "hi", Type: model.TypeTextSimple}))
	require.NotContains(t, m.viewport.View(), "Grace")

	m.Store().Dispatch(store.InsertMember{Member: model.Member{ID: "c2", Name: "Grace"}})

	assert.Contains(t, m.viewport.View(), "Grace")
	assert.Len(t, m.Store().State().Messages, 1)
}

func TestWaitForConfig_ReturnsNilWhenClosed(t *testing.T) {
	updates := make(chan *config.Config)
	close(updates)

	cmd := waitForConfig(updates)
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Nil(t, waitForConfig(nil))
}
