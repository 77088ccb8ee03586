// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat-room messages and members.
//
// # Key Types
//
//   - Message: Single room entry with a type, sender, owner flag and content
//   - Content: Text and/or image reference carried by a message
//   - Member: Room participant, identified by ID
//   - MessageType: Kind vocabulary shared with the server (TEXT_SIMPLE, IMAGE_SIMPLE, SYSTEM)
//
// # Usage
//
//	msg := model.NewTextMessage(model.MessageID(len(messages)), userID, "hello", true)
//	fmt.Println(msg.Text())
package model
