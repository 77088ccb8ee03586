// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides a small relay for developing against roomchat
// without a production chat backend.
//
// # Endpoints
//
//   - GET /ws      - websocket; query parameter "room" selects the room
//   - GET /health  - JSON status with room and peer counts
//
// # Relay behavior
//
// On connect the relay sends "login" with the client id from the
// X-Client-ID header, or a fresh UUID when the header is missing or taken.
// "add user" records the member's profile, replays the current roster to the
// newcomer and broadcasts "user joined". "new message" is rebroadcast to the
// rest of the room with the sender's id. Disconnecting broadcasts
// "user left". Nothing is persisted.
//
// Requests are rate limited per IP and messages per connection, using
// golang.org/x/time/rate token buckets.
package server
