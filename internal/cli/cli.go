// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/roomchat-tui/internal/config"
	"github.com/jeranaias/roomchat-tui/internal/logging"
	"github.com/jeranaias/roomchat-tui/internal/transport"
	"github.com/jeranaias/roomchat-tui/internal/ui/room"
	"github.com/jeranaias/roomchat-tui/internal/ui/styles"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	server     string
	room       string
	name       string
	theme      string
	logLevel   string
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		DisplayError(cmd.ErrOrStderr(), err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// NewRootCmd builds the roomchat command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "roomchat",
		Short: "Terminal client for a realtime chat room",
		Long: `roomchat joins a chat room over a websocket and shows the conversation
in the terminal. Messages you send appear immediately; messages from other
members arrive as the server broadcasts them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.roomchat/config.toml)")
	flags.StringVar(&opts.server, "server", "", "websocket URL of the chat server")
	flags.StringVar(&opts.room, "room", "", "room to join")
	flags.StringVar(&opts.name, "name", "", "display name announced to the room")
	flags.StringVar(&opts.theme, "theme", "", "color theme: auto, dark or light")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(newVersionCmd(), newConfigCmd(opts), newServeCmd(opts))
	return cmd
}

// =============================================================================
// CONFIG RESOLUTION
// =============================================================================

// resolveConfig loads the config file, applies flag overrides and publishes
// the result through config.SetGlobal. Flags win over the environment, which
// wins over the file. It returns the config file path.
func resolveConfig(opts *rootOptions) (string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)

	if opts.configPath != "" {
		path = opts.configPath
		cfg, err = config.LoadFromPath(path)
	} else {
		path, _ = config.ConfigPath()
		cfg, err = config.Load()
	}
	if err != nil {
		return path, err
	}

	opts.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return path, fmt.Errorf("invalid flags: %w", err)
	}

	config.SetGlobal(cfg)
	return path, nil
}

// applyOverrides copies the flags that were set onto cfg.
func (o *rootOptions) applyOverrides(cfg *config.Config) {
	if o.server != "" {
		cfg.Server.URL = o.server
	}
	if o.room != "" {
		cfg.Server.Room = o.room
	}
	if o.name != "" {
		cfg.User.Name = o.name
	}
	if o.theme != "" {
		cfg.UI.Theme = o.theme
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
}

// =============================================================================
// TUI
// =============================================================================

func runTUI(ctx context.Context, opts *rootOptions) error {
	if !CanRunTUI() {
		return &UsageError{
			Field:  "terminal",
			Reason: "roomchat needs an interactive terminal",
		}
	}

	path, err := resolveConfig(opts)
	if err != nil {
		return err
	}
	cfg := config.Global()

	logPath, err := cfg.LogPath()
	if err != nil {
		return NewCommandError("config", "resolve", "no log location", err)
	}
	closer, err := logging.Setup(logPath, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var updates <-chan *config.Config
	if _, statErr := os.Stat(path); statErr == nil {
		updates, err = config.Watch(ctx, path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config hot reload disabled")
		}
	}

	log.Info().
		Str("version", Version).
		Str("server", cfg.Server.URL).
		Str("room", cfg.Server.Room).
		Msg("starting")

	m := room.New(room.Options{
		Config:        cfg,
		Theme:         styles.NewTheme(cfg.UI.Theme),
		Dial:          transport.DialConn,
		ConfigUpdates: updates,
		Overrides:     opts.applyOverrides,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", RenderConditional(TitleStyle, "roomchat"), Version)
			fmt.Fprintf(out, "  %s%s\n", RenderLabel("commit:"), GitCommit)
			fmt.Fprintf(out, "  %s%s\n", RenderLabel("built:"), BuildDate)
		},
	}
}
