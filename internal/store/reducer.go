// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the chat-room state behind a reducer.
//
// State is never mutated in place. Reduce copies whatever it touches, so a
// State value obtained earlier keeps observing the old messages and members.
package store

import (
	"fmt"
	"maps"

	"github.com/jeranaias/roomchat-tui/internal/model"
	"github.com/jeranaias/roomchat-tui/internal/transport"
)

// State is the shared state of one chat room.
type State struct {
	// Socket is nil until a connection has been inserted.
	Socket transport.Socket
	// Messages in insertion order.
	Messages []model.Message
	// Members keyed by Member.ID.
	Members       map[string]model.Member
	ActiveTool    ActiveTool
	CurrentUserID string
}

// Initial returns the state a room starts with.
func Initial() State {
	return State{
		Messages:   []model.Message{},
		Members:    map[string]model.Member{},
		ActiveTool: ActiveToolNull,
	}
}

// Member looks up a roster entry.
func (s State) Member(id string) (model.Member, bool) {
	m, ok := s.Members[id]
	return m, ok
}

// Reduce applies action to state and returns the new state.
// It panics on an action outside the closed set (in practice, a nil Action).
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case InsertMessage:
		messages := make([]model.Message, len(state.Messages), len(state.Messages)+1)
		copy(messages, state.Messages)
		state.Messages = append(messages, a.Message)
		return state

	case InsertSocket:
		state.Socket = a.Socket
		return state

	case InsertMember:
		members := cloneMembers(state.Members)
		members[a.Member.ID] = a.Member
		state.Members = members
		return state

	case RemoveMember:
		members := cloneMembers(state.Members)
		delete(members, a.Member.ID)
		state.Members = members
		return state

	case UpdateActiveTool:
		state.ActiveTool = a.Tool
		return state

	case UpdateCurrentUserID:
		state.CurrentUserID = a.UserID
		return state

	default:
		panic(fmt.Sprintf("store: unknown action %T", action))
	}
}

func cloneMembers(members map[string]model.Member) map[string]model.Member {
	if members == nil {
		return map[string]model.Member{}
	}
	return maps.Clone(members)
}
