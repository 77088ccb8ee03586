// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jeranaias/roomchat-tui/internal/model"
)

// =============================================================================
// EVENT NAMES
// =============================================================================

const (
	// Outbound
	EventNewMessage = "new message"
	EventAddUser    = "add user"

	// Inbound
	EventLogin      = "login"
	EventUserJoined = "user joined"
	EventUserLeft   = "user left"
)

// =============================================================================
// WIRE ENVELOPE
// =============================================================================

// ErrNoData is returned by Event.Decode when the frame carried no payload.
var ErrNoData = errors.New("event has no data")

// Event is a single frame on the wire: {"event": "...", "data": {...}}.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent marshals payload into an Event named name.
func NewEvent(name string, payload any) (Event, error) {
	ev := Event{Name: name}
	if payload == nil {
		return ev, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %q payload: %w", name, err)
	}
	ev.Data = data
	return ev, nil
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v any) error {
	if len(e.Data) == 0 {
		return ErrNoData
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("failed to decode %q payload: %w", e.Name, err)
	}
	return nil
}

// =============================================================================
// PAYLOADS
// =============================================================================

// OutboundMessage is the payload of an outbound "new message" event.
type OutboundMessage struct {
	Message string            `json:"message"`
	Type    model.MessageType `json:"type"`
}

// AddUserPayload announces the local user to the room after connecting.
type AddUserPayload struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// InboundMessage is the payload of a "new message" event broadcast by the server.
type InboundMessage struct {
	UserID  string            `json:"userId"`
	Message string            `json:"message"`
	Type    model.MessageType `json:"type"`
	Image   string            `json:"image,omitempty"`
}

// LoginPayload carries the user id the server assigned to this connection.
type LoginPayload struct {
	UserID string `json:"userId"`
}

// UserPayload describes a member joining or leaving.
type UserPayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Member converts the payload into a roster entry.
func (p UserPayload) Member() model.Member {
	return model.Member{ID: p.UserID, Name: p.Name, Avatar: p.Avatar}
}
