// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the roomchat command line.
//
// Running roomchat with no subcommand starts the chat interface:
//
//	roomchat --server wss://chat.example.com/ws --room lobby --name ada
//
// Subcommands:
//
//	roomchat version        Print version information
//	roomchat config show    Print the resolved configuration
//	roomchat config path    Print the config file location
//	roomchat config init    Write a default config file
//	roomchat serve          Run a local development relay
//
// Errors are returned from every command and mapped to exit codes by Execute.
package cli
