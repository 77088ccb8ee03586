// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jeranaias/roomchat-tui/internal/logging"
	"github.com/jeranaias/roomchat-tui/internal/server"
)

type serveOptions struct {
	addr         string
	messageRate  float64
	messageBurst int
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local relay to chat against during development",
		Long: `serve starts a relay that speaks the same events as a roomchat server:
login, add user, user joined, user left and new message. Point clients at
ws://<addr>/ws. Nothing is persisted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := root.logLevel
			if level == "" {
				level = "info"
			}
			if err := logging.Console(cmd.ErrOrStderr(), level); err != nil {
				return &UsageError{Field: "log-level", Value: level, Reason: err.Error()}
			}
			return runServe(cmd.Context(), opts)
		},
	}

	d := server.DefaultOptions()
	cmd.Flags().StringVar(&opts.addr, "addr", d.Addr, "listen address")
	cmd.Flags().Float64Var(&opts.messageRate, "message-rate", float64(d.MessageRate), "messages per second allowed per connection")
	cmd.Flags().IntVar(&opts.messageBurst, "message-burst", d.MessageBurst, "message burst allowed per connection")
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	if opts.messageBurst <= 0 {
		return &UsageError{Field: "message-burst", Reason: "must be positive", Example: "roomchat serve --message-burst 20"}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Addr:         opts.addr,
		MessageRate:  rate.Limit(opts.messageRate),
		MessageBurst: opts.messageBurst,
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("relay shutdown")
	}
	return <-errc
}
