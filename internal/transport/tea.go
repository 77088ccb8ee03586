// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// ConnectedMsg reports a successful Dial.
type ConnectedMsg struct {
	Conn Conn
}

// ConnectErrMsg reports a failed Dial. There is no automatic retry.
type ConnectErrMsg struct {
	Err error
}

// EventMsg delivers one inbound event to the UI loop.
type EventMsg struct {
	Event Event
}

// DisconnectedMsg signals that the inbound stream has ended.
type DisconnectedMsg struct{}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// DialFunc opens a connection. Dial satisfies it through DialConn.
type DialFunc func(ctx context.Context, opts Options) (Conn, error)

// DialConn adapts Dial to DialFunc.
func DialConn(ctx context.Context, opts Options) (Conn, error) {
	c, err := Dial(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ConnectCmd dials in the background and reports ConnectedMsg or ConnectErrMsg.
func ConnectCmd(ctx context.Context, dial DialFunc, opts Options) tea.Cmd {
	return func() tea.Msg {
		conn, err := dial(ctx, opts)
		if err != nil {
			return ConnectErrMsg{Err: err}
		}
		return ConnectedMsg{Conn: conn}
	}
}

// WaitForEvent blocks until the next inbound event. Re-issue it after every
// EventMsg to keep listening.
func WaitForEvent(conn Conn) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-conn.Events()
		if !ok {
			return DisconnectedMsg{}
		}
		return EventMsg{Event: ev}
	}
}
