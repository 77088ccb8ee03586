// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessageID(t *testing.T) {
	assert.Equal(t, "message-0", MessageID(0))
	assert.Equal(t, "message-12", MessageID(12))
}

func TestNewTextMessage(t *testing.T) {
	msg := NewTextMessage("message-3", "u1", "hello", true)

	assert.Equal(t, "message-3", msg.ID)
	assert.Equal(t, TypeTextSimple, msg.Type)
	assert.Equal(t, "u1", msg.UserID)
	assert.True(t, msg.IsOwner)
	assert.Equal(t, "hello", msg.Text())
	assert.False(t, msg.HasImage())
	assert.False(t, msg.IsSystem())
}

func TestMessage_TextWithoutContent(t *testing.T) {
	msg := Message{ID: "m", Type: TypeImageSimple}
	assert.Equal(t, "", msg.Text())
	assert.False(t, msg.HasImage())
}

func TestMessage_JSONFieldNames(t *testing.T) {
	msg := NewTextMessage("message-0", "u1", "hi", true)

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "message-0", raw["id"])
	assert.Equal(t, "TEXT_SIMPLE", raw["type"])
	assert.Equal(t, "u1", raw["userId"])
	assert.Equal(t, true, raw["isOwner"])
	assert.Equal(t, map[string]any{"text": "hi"}, raw["content"])
}

func TestMessageType_Valid(t *testing.T) {
	tests := []struct {
		typ  MessageType
		want bool
	}{
		{TypeTextSimple, true},
		{TypeImageSimple, true},
		{TypeSystem, true},
		{"VOICE", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.Valid())
		})
	}
}

// =============================================================================
// MEMBER TESTS
// =============================================================================

func TestMember_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada", Member{ID: "u1", Name: "Ada"}.DisplayName())
	assert.Equal(t, "u1", Member{ID: "u1"}.DisplayName())
}
