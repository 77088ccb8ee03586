// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package room

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/roomchat-tui/internal/config"
	"github.com/jeranaias/roomchat-tui/internal/model"
	"github.com/jeranaias/roomchat-tui/internal/store"
	"github.com/jeranaias/roomchat-tui/internal/transport"
	"github.com/jeranaias/roomchat-tui/internal/ui/extra"
	"github.com/jeranaias/roomchat-tui/internal/ui/styles"
	"github.com/jeranaias/roomchat-tui/internal/ui/toolbar"
)

// =============================================================================
// CONNECTION STATUS
// =============================================================================

type connStatus int

const (
	statusOffline connStatus = iota
	statusConnecting
	statusOnline
	statusFailed
)

// =============================================================================
// MODEL
// =============================================================================

// Options configures a room Model.
type Options struct {
	Config *config.Config
	Theme  *styles.Theme
	// Dial opens the connection. Nil starts the room offline.
	Dial transport.DialFunc
	// ConfigUpdates delivers reloaded configs, usually from config.Watch.
	ConfigUpdates <-chan *config.Config
	// Overrides is applied to every reloaded config so command-line flags
	// keep winning over the file.
	Overrides func(*config.Config)
}

// Model is the root Bubble Tea model of a chat room. It owns the store and
// hands it to the toolbar; nothing else holds a reference to the state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg   *config.Config
	theme *styles.Theme
	store *store.Store

	toolbar  *toolbar.Toolbar
	panel    *extra.Panel
	viewport viewport.Model
	help     help.Model
	keys     KeyMap

	dial    transport.DialFunc
	conn    transport.Conn
	status  connStatus
	connErr error

	updates   <-chan *config.Config
	overrides func(*config.Config)
	renderer  *glamour.TermRenderer

	width, height int
	rendered      int
	roster        map[string]string
	self          string
}

// New creates a room model.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}

	ctx, cancel := context.WithCancel(context.Background())
	st := store.New()

	m := &Model{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		theme:    theme,
		store:    st,
		toolbar:  toolbar.New(st, theme),
		panel:    extra.New(theme),
		viewport: viewport.New(0, 0),
		help:     help.New(),
		keys:     DefaultKeyMap(),
		dial:     opts.Dial,
		updates:   opts.ConfigUpdates,
		overrides: opts.Overrides,
		rendered:  -1,
	}

	st.Subscribe(m.syncFromState)
	m.rebuildRenderer()
	return m
}

// Store exposes the room's state container.
func (m *Model) Store() *store.Store {
	return m.store
}

// Init starts connecting and listening for config reloads.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.dial != nil {
		m.status = statusConnecting
		cmds = append(cmds, transport.ConnectCmd(m.ctx, m.dial, m.dialOptions()))
	}
	if m.updates != nil {
		cmds = append(cmds, waitForConfig(m.updates))
	}
	return tea.Batch(cmds...)
}

func (m *Model) dialOptions() transport.Options {
	return transport.Options{
		URL:              m.cfg.Server.URL,
		Room:             m.cfg.Server.Room,
		HandshakeTimeout: time.Duration(m.cfg.Server.HandshakeTimeoutSecs) * time.Second,
		SendQueueSize:    m.cfg.Server.SendQueueSize,
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.toolbar.SetWidth(msg.Width)
		m.panel.SetWidth(msg.Width)
		m.viewport.Width = msg.Width
		m.help.Width = msg.Width
		m.rebuildRenderer()
		m.layout()
		m.refreshMessages(true)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.shutdown()
			return m, tea.Quit
		case key.Matches(msg, m.keys.ScrollUp):
			m.viewport.HalfViewUp()
		case key.Matches(msg, m.keys.ScrollDown):
			m.viewport.HalfViewDown()
		default:
			_, cmd = m.toolbar.Update(msg)
		}

	case transport.ConnectedMsg:
		cmd = m.handleConnected(msg.Conn)

	case transport.ConnectErrMsg:
		m.status = statusFailed
		m.connErr = msg.Err
		log.Error().Err(msg.Err).Str("url", m.cfg.Server.URL).Msg("connect failed")

	case transport.EventMsg:
		m.handleEvent(msg.Event)
		if m.conn != nil {
			cmd = transport.WaitForEvent(m.conn)
		}

	case transport.DisconnectedMsg:
		m.handleDisconnected()

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)
		cmd = waitForConfig(m.updates)

	default:
		_, cmd = m.toolbar.Update(msg)
	}

	m.layout()
	return m, cmd
}

// syncFromState runs after every dispatch. Sender labels come from the
// roster, so a member change re-renders the timeline too.
func (m *Model) syncFromState(state store.State) {
	m.panel.Visible = state.ActiveTool == store.ActiveToolExtra
	m.refreshMessages(m.rosterChanged(state))
}

func (m *Model) rosterChanged(state store.State) bool {
	changed := len(state.Members) != len(m.roster) || state.CurrentUserID != m.self
	if !changed {
		for id, member := range state.Members {
			if m.roster[id] != member.DisplayName() {
				changed = true
				break
			}
		}
	}
	if changed {
		m.self = state.CurrentUserID
		m.roster = make(map[string]string, len(state.Members))
		for id, member := range state.Members {
			m.roster[id] = member.DisplayName()
		}
	}
	return changed
}

// layout gives the viewport whatever height the other parts leave over.
func (m *Model) layout() {
	if m.height == 0 {
		return
	}
	used := lipgloss.Height(m.renderHeader()) +
		lipgloss.Height(m.toolbar.View()) +
		lipgloss.Height(m.help.View(m.helpKeys()))
	if p := m.panel.View(); p != "" {
		used += lipgloss.Height(p)
	}
	m.viewport.Height = max(m.height-used, 1)
}

// shutdown closes the connection and stops background commands.
func (m *Model) shutdown() {
	m.cancel()
	if m.conn != nil {
		if err := m.conn.Close(); err != nil {
			log.Warn().Err(err).Msg("close connection")
		}
	}
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

// ConfigReloadedMsg carries a config read back from disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

func waitForConfig(updates <-chan *config.Config) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-updates
		if !ok {
			return nil
		}
		return ConfigReloadedMsg{Config: cfg}
	}
}

// applyConfig takes over display settings. Server and user settings only
// apply on the next start.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	loaded := cfg.Clone()
	if m.overrides != nil {
		m.overrides(loaded)
	}

	next := m.cfg.Clone()
	next.UI = loaded.UI
	themeChanged := !strings.EqualFold(next.UI.Theme, m.cfg.UI.Theme)
	m.cfg = next

	if themeChanged {
		m.setTheme(styles.NewTheme(next.UI.Theme))
	}
	m.rebuildRenderer()
	m.refreshMessages(true)
}

func (m *Model) setTheme(theme *styles.Theme) {
	theme.SetSize(m.width, m.height)
	m.theme = theme
	m.toolbar.SetTheme(theme)
	m.panel.SetTheme(theme)
	log.Info().Str("theme", m.cfg.UI.Theme).Bool("dark", theme.IsDark).Msg("theme changed")
}

func (m *Model) rebuildRenderer() {
	m.renderer = nil
	if !m.cfg.UI.Markdown {
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.theme.GlamourStyle()),
		glamour.WithWordWrap(max(m.theme.BubbleWidth()-4, 10)),
	)
	if err != nil {
		log.Warn().Err(err).Msg("markdown renderer unavailable, using plain text")
		return
	}
	m.renderer = r
}

// selfMember is the roster entry announced for the local user.
func (m *Model) selfMember(id string) model.Member {
	return model.Member{ID: id, Name: m.cfg.User.Name, Avatar: m.cfg.User.Avatar}
}
