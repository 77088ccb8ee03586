// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for roomchat.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - ServerConfig: Websocket endpoint, room and send queue sizing
//   - UserConfig: Display name and avatar announced to the room
//   - UIConfig: Theme, markdown rendering and compact layout (reloadable)
//   - LogConfig: Log level and file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the cli package)
//   - Environment variables (ROOMCHAT_*)
//   - ~/.roomchat/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Watch for edits while the TUI is running:
//
//	updates, err := config.Watch(ctx, path)
package config
