// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"github.com/rs/zerolog/log"
)

// Store owns one room's State and is the only place it changes.
//
// Store is not safe for concurrent use. It is meant to be driven from the
// Bubble Tea update loop, which already serializes every event.
type Store struct {
	state     State
	listeners []func(State)
}

// New creates a store holding Initial().
func New() *Store {
	return &Store{state: Initial()}
}

// State returns the current state.
func (s *Store) State() State {
	return s.state
}

// Dispatch applies action synchronously. The new state is visible to the
// caller as soon as Dispatch returns.
func (s *Store) Dispatch(action Action) {
	s.state = Reduce(s.state, action)

	log.Debug().
		Str("action", action.Kind()).
		Int("messages", len(s.state.Messages)).
		Int("members", len(s.state.Members)).
		Str("active_tool", s.state.ActiveTool.String()).
		Msg("dispatch")

	for _, fn := range s.listeners {
		fn(s.state)
	}
}

// Subscribe registers fn to run after every dispatch.
func (s *Store) Subscribe(fn func(State)) {
	s.listeners = append(s.listeners, fn)
}
