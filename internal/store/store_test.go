// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/roomchat-tui/internal/model"
)

type nopSocket struct{ name string }

func (*nopSocket) Emit(string, any) error { return nil }
func (*nopSocket) Close() error           { return nil }

// =============================================================================
// REDUCER TESTS
// =============================================================================

func TestInitial(t *testing.T) {
	s := Initial()

	assert.Nil(t, s.Socket)
	assert.NotNil(t, s.Messages)
	assert.Empty(t, s.Messages)
	assert.NotNil(t, s.Members)
	assert.Empty(t, s.Members)
	assert.Equal(t, ActiveToolNull, s.ActiveTool)
	assert.Equal(t, "", s.CurrentUserID)
}

func TestReduce_InsertMessagePreservesOrder(t *testing.T) {
	s := Initial()
	texts := []string{"one", "two", "three", "four"}
	for i, text := range texts {
		s = Reduce(s, InsertMessage{Message: model.NewTextMessage(model.MessageID(i), "u1", text, false)})
	}

	require.Len(t, s.Messages, len(texts))
	for i, text := range texts {
		assert.Equal(t, text, s.Messages[i].Text())
		assert.Equal(t, model.MessageID(i), s.Messages[i].ID)
	}
}

func TestReduce_InsertMessageDoesNotMutatePrevious(t *testing.T) {
	before := Reduce(Initial(), InsertMessage{Message: model.NewTextMessage("a", "", "a", false)})
	after := Reduce(before, InsertMessage{Message: model.NewTextMessage("b", "", "b", false)})

	assert.Len(t, before.Messages, 1)
	assert.Len(t, after.Messages, 2)

	// Appending to the old slice must not leak into the new one.
	extended := Reduce(before, InsertMessage{Message: model.NewTextMessage("c", "", "c", false)})
	assert.Equal(t, "b", after.Messages[1].ID)
	assert.Equal(t, "c", extended.Messages[1].ID)
}

func TestReduce_InsertMemberLastWriteWins(t *testing.T) {
	s := Initial()
	s = Reduce(s, InsertMember{Member: model.Member{ID: "u1", Name: "first"}})
	s = Reduce(s, InsertMember{Member: model.Member{ID: "u2", Name: "other"}})
	s = Reduce(s, InsertMember{Member: model.Member{ID: "u1", Name: "second"}})

	require.Len(t, s.Members, 2)
	m, ok := s.Member("u1")
	require.True(t, ok)
	assert.Equal(t, "second", m.Name)
}

func TestReduce_InsertMemberDoesNotMutatePrevious(t *testing.T) {
	before := Reduce(Initial(), InsertMember{Member: model.Member{ID: "u1"}})
	_ = Reduce(before, InsertMember{Member: model.Member{ID: "u2"}})

	assert.Len(t, before.Members, 1)
}

func TestReduce_RemoveMember(t *testing.T) {
	s := Initial()
	s = Reduce(s, InsertMember{Member: model.Member{ID: "u1", Name: "Ada"}})
	s = Reduce(s, InsertMember{Member: model.Member{ID: "u2", Name: "Grace"}})
	before := s

	s = Reduce(s, RemoveMember{Member: model.Member{ID: "u1"}})

	_, ok := s.Member("u1")
	assert.False(t, ok)
	_, ok = s.Member("u2")
	assert.True(t, ok)
	assert.Len(t, before.Members, 2, "previous state must keep its roster")
}

func TestReduce_RemoveUnknownMember(t *testing.T) {
	s := Reduce(Initial(), InsertMember{Member: model.Member{ID: "u1"}})
	s = Reduce(s, RemoveMember{Member: model.Member{ID: "missing"}})

	assert.Len(t, s.Members, 1)
}

func TestReduce_UpdateActiveToolIdempotent(t *testing.T) {
	for _, tool := range []ActiveTool{ActiveToolExtra, ActiveToolNull} {
		t.Run(tool.String(), func(t *testing.T) {
			once := Reduce(Initial(), UpdateActiveTool{Tool: tool})
			twice := Reduce(once, UpdateActiveTool{Tool: tool})
			assert.Equal(t, once.ActiveTool, twice.ActiveTool)
			assert.Equal(t, tool, twice.ActiveTool)
		})
	}
}

func TestReduce_InsertSocketReplaces(t *testing.T) {
	first, second := &nopSocket{name: "first"}, &nopSocket{name: "second"}
	s := Reduce(Initial(), InsertSocket{Socket: first})
	s = Reduce(s, InsertSocket{Socket: second})

	assert.Same(t, second, s.Socket)
}

func TestReduce_UpdateCurrentUserID(t *testing.T) {
	s := Reduce(Initial(), UpdateCurrentUserID{UserID: "u42"})
	assert.Equal(t, "u42", s.CurrentUserID)
}

func TestReduce_UnknownActionPanics(t *testing.T) {
	assert.Panics(t, func() {
		Reduce(Initial(), nil)
	})
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestStore_DispatchIsSynchronous(t *testing.T) {
	s := New()
	s.Dispatch(UpdateCurrentUserID{UserID: "u1"})
	s.Dispatch(InsertMessage{Message: model.NewTextMessage(model.MessageID(0), "u1", "hi", true)})

	state := s.State()
	assert.Equal(t, "u1", state.CurrentUserID)
	require.Len(t, state.Messages, 1)
	assert.True(t, state.Messages[0].IsOwner)
}

func TestStore_Subscribe(t *testing.T) {
	s := New()
	var seen []ActiveTool
	s.Subscribe(func(st State) { seen = append(seen, st.ActiveTool) })

	s.Dispatch(UpdateActiveTool{Tool: ActiveToolExtra})
	s.Dispatch(UpdateActiveTool{Tool: ActiveToolNull})

	assert.Equal(t, []ActiveTool{ActiveToolExtra, ActiveToolNull}, seen)
}

func TestStore_DispatchNilPanics(t *testing.T) {
	s := New()
	assert.Panics(t, func() { s.Dispatch(nil) })
}

func TestActiveTool_String(t *testing.T) {
	assert.Equal(t, "EXTRA", ActiveToolExtra.String())
	assert.Equal(t, "NULL", ActiveToolNull.String())
	assert.Equal(t, "UNKNOWN", ActiveTool(9).String())
}
