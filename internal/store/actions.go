// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"github.com/jeranaias/roomchat-tui/internal/model"
	"github.com/jeranaias/roomchat-tui/internal/transport"
)

// =============================================================================
// ACTIVE TOOL
// =============================================================================

// ActiveTool is the toolbar's auxiliary-panel mode.
type ActiveTool int

const (
	ActiveToolNull ActiveTool = iota
	ActiveToolExtra
)

// String returns the string representation of the tool mode.
func (t ActiveTool) String() string {
	switch t {
	case ActiveToolExtra:
		return "EXTRA"
	case ActiveToolNull:
		return "NULL"
	default:
		return "UNKNOWN"
	}
}

// =============================================================================
// ACTIONS
// =============================================================================

// Action is a state transition request. The set of actions is closed: only the
// types in this file implement it.
type Action interface {
	// Kind names the action for logging.
	Kind() string
	action()
}

// InsertMessage appends a message to the end of the message list.
type InsertMessage struct {
	Message model.Message
}

// InsertSocket replaces the transport handle.
type InsertSocket struct {
	Socket transport.Socket
}

// InsertMember upserts a member into the roster by ID.
type InsertMember struct {
	Member model.Member
}

// RemoveMember deletes the roster entry for Member.ID.
type RemoveMember struct {
	Member model.Member
}

// UpdateActiveTool replaces the active tool mode.
type UpdateActiveTool struct {
	Tool ActiveTool
}

// UpdateCurrentUserID replaces the current user id.
type UpdateCurrentUserID struct {
	UserID string
}

func (InsertMessage) Kind() string       { return "INSERT_MESSAGE" }
func (InsertSocket) Kind() string        { return "INSERT_SOCKET" }
func (InsertMember) Kind() string        { return "INSERT_MEMBER" }
func (RemoveMember) Kind() string        { return "REMOVE_MEMBER" }
func (UpdateActiveTool) Kind() string    { return "UPDATE_ACTIVE_TOOL" }
func (UpdateCurrentUserID) Kind() string { return "UPDATE_CURRENT_USER_ID" }

func (InsertMessage) action()       {}
func (InsertSocket) action()        {}
func (InsertMember) action()        {}
func (RemoveMember) action()        {}
func (UpdateActiveTool) action()    {}
func (UpdateCurrentUserID) action() {}
