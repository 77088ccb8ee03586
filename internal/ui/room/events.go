// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package room

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/roomchat-tui/internal/model"
	"github.com/jeranaias/roomchat-tui/internal/store"
	"github.com/jeranaias/roomchat-tui/internal/transport"
)

// handleConnected registers the connection in the store, announces the
// local user and starts reading events.
func (m *Model) handleConnected(conn transport.Conn) tea.Cmd {
	m.conn = conn
	m.status = statusOnline
	m.connErr = nil

	m.store.Dispatch(store.InsertSocket{Socket: conn})
	m.store.Dispatch(store.UpdateCurrentUserID{UserID: conn.ID()})
	m.store.Dispatch(store.InsertMember{Member: m.selfMember(conn.ID())})

	hello := transport.AddUserPayload{Name: m.cfg.User.Name, Avatar: m.cfg.User.Avatar}
	if err := conn.Emit(transport.EventAddUser, hello); err != nil {
		log.Warn().Err(err).Msg("announce user")
	}

	log.Info().Str("client_id", conn.ID()).Str("room", m.cfg.Server.Room).Msg("joined room")
	return transport.WaitForEvent(conn)
}

// handleDisconnected drops the socket from the store so later sends are
// suppressed instead of failing.
func (m *Model) handleDisconnected() {
	m.status = statusOffline
	m.conn = nil
	m.store.Dispatch(store.InsertSocket{Socket: nil})
	log.Warn().Msg("disconnected from server")
}

// handleEvent maps one server event onto store actions.
func (m *Model) handleEvent(ev transport.Event) {
	switch ev.Name {
	case transport.EventLogin:
		var p transport.LoginPayload
		if !decode(ev, &p) || p.UserID == "" {
			return
		}
		m.rebindSelf(p.UserID)

	case transport.EventUserJoined:
		var p transport.UserPayload
		if !decode(ev, &p) || p.UserID == "" {
			return
		}
		member := p.Member()
		m.store.Dispatch(store.InsertMember{Member: member})
		m.notice(fmt.Sprintf("%s joined", member.DisplayName()))

	case transport.EventUserLeft:
		var p transport.UserPayload
		if !decode(ev, &p) || p.UserID == "" {
			return
		}
		member := p.Member()
		if known, ok := m.store.State().Member(p.UserID); ok {
			member = known
		}
		m.store.Dispatch(store.RemoveMember{Member: member})
		m.notice(fmt.Sprintf("%s left", member.DisplayName()))

	case transport.EventNewMessage:
		var p transport.InboundMessage
		if !decode(ev, &p) {
			return
		}
		m.store.Dispatch(store.InsertMessage{Message: m.inbound(p)})

	default:
		log.Debug().Str("event", ev.Name).Msg("ignoring unknown event")
	}
}

// rebindSelf moves the local roster entry to the id assigned by the server.
func (m *Model) rebindSelf(id string) {
	state := m.store.State()
	if state.CurrentUserID == id {
		return
	}
	if self, ok := state.Member(state.CurrentUserID); ok {
		m.store.Dispatch(store.RemoveMember{Member: self})
	}
	m.store.Dispatch(store.UpdateCurrentUserID{UserID: id})
	m.store.Dispatch(store.InsertMember{Member: m.selfMember(id)})
}

// inbound converts a server message into a timeline entry.
func (m *Model) inbound(p transport.InboundMessage) model.Message {
	state := m.store.State()

	typ := p.Type
	if !typ.Valid() {
		typ = model.TypeTextSimple
	}

	msg := model.Message{
		ID:      model.MessageID(len(state.Messages)),
		Type:    typ,
		UserID:  p.UserID,
		IsOwner: p.UserID != "" && p.UserID == state.CurrentUserID,
	}
	if p.Message != "" || p.Image != "" {
		msg.Content = &model.Content{Text: p.Message, Image: p.Image}
	}
	return msg
}

func (m *Model) notice(text string) {
	id := model.MessageID(len(m.store.State().Messages))
	m.store.Dispatch(store.InsertMessage{Message: model.NewSystemMessage(id, text)})
}

func decode(ev transport.Event, v any) bool {
	if err := ev.Decode(v); err != nil {
		log.Warn().Err(err).Str("event", ev.Name).Msg("dropping event with bad payload")
		return false
	}
	return true
}
