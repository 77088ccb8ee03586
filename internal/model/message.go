// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat-room messages and members.
package model

import (
	"strconv"
	"strings"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// MessageType is the message kind vocabulary shared with the chat server.
type MessageType string

const (
	TypeTextSimple  MessageType = "TEXT_SIMPLE"
	TypeImageSimple MessageType = "IMAGE_SIMPLE"
	TypeSystem      MessageType = "SYSTEM"
)

// String returns the string representation of the message type.
func (t MessageType) String() string {
	return string(t)
}

// Valid reports whether t is one of the known message types.
func (t MessageType) Valid() bool {
	switch t {
	case TypeTextSimple, TypeImageSimple, TypeSystem:
		return true
	default:
		return false
	}
}

// =============================================================================
// MESSAGE
// =============================================================================

// Content is the body of a message. Either field may be empty.
type Content struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

// Message represents a single entry in the room's message list.
// ID is assigned by whoever creates the message and is not checked for uniqueness.
type Message struct {
	ID      string      `json:"id"`
	Type    MessageType `json:"type"`
	UserID  string      `json:"userId,omitempty"`
	IsOwner bool        `json:"isOwner,omitempty"`
	Content *Content    `json:"content,omitempty"`
}

// MessageID builds the local message identifier for the n-th message in a room.
func MessageID(n int) string {
	return "message-" + strconv.Itoa(n)
}

// NewTextMessage creates a TEXT_SIMPLE message.
func NewTextMessage(id, userID, text string, owner bool) Message {
	return Message{
		ID:      id,
		Type:    TypeTextSimple,
		UserID:  userID,
		IsOwner: owner,
		Content: &Content{Text: text},
	}
}

// NewSystemMessage creates a SYSTEM notice, e.g. for members joining or leaving.
func NewSystemMessage(id, text string) Message {
	return Message{
		ID:      id,
		Type:    TypeSystem,
		Content: &Content{Text: text},
	}
}

// Text returns the message text, or "" when the message has no content.
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return m.Content.Text
}

// HasImage reports whether the message carries an image reference.
func (m Message) HasImage() bool {
	return m.Content != nil && strings.TrimSpace(m.Content.Image) != ""
}

// IsSystem reports whether the message is a room notice rather than user text.
func (m Message) IsSystem() bool {
	return m.Type == TypeSystem
}
