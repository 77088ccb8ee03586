// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr matches the client's default server URL.
	DefaultAddr = "127.0.0.1:3000"

	// Version is reported by the health endpoint.
	Version = "0.1.0"
)

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server.
type Options struct {
	Addr string

	// ConnectRate and ConnectBurst limit HTTP requests per client IP.
	ConnectRate  rate.Limit
	ConnectBurst int

	// MessageRate and MessageBurst limit chat messages per connection.
	MessageRate  rate.Limit
	MessageBurst int
}

// DefaultOptions returns the options used by `roomchat serve`.
func DefaultOptions() Options {
	return Options{
		Addr:         DefaultAddr,
		ConnectRate:  5,
		ConnectBurst: 20,
		MessageRate:  10,
		MessageBurst: 20,
	}
}

// Server is the development relay: an HTTP server exposing the chat
// websocket and a health endpoint.
type Server struct {
	opts    Options
	router  *http.ServeMux
	hub     *Hub
	limiter *RateLimiter
	started time.Time
	server  *http.Server
}

// New creates a Server. Zero-valued options fall back to DefaultOptions.
func New(opts Options) *Server {
	d := DefaultOptions()
	if opts.Addr == "" {
		opts.Addr = d.Addr
	}
	if opts.ConnectBurst <= 0 {
		opts.ConnectRate, opts.ConnectBurst = d.ConnectRate, d.ConnectBurst
	}
	if opts.MessageBurst <= 0 {
		opts.MessageRate, opts.MessageBurst = d.MessageRate, d.MessageBurst
	}

	s := &Server{
		opts:    opts,
		router:  http.NewServeMux(),
		hub:     NewHub(opts.MessageRate, opts.MessageBurst),
		limiter: NewRateLimiter(opts.ConnectRate, opts.ConnectBurst),
		started: time.Now(),
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Hub returns the server's relay hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.opts.Addr
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) setupRoutes() {
	s.router.Handle("GET /ws", s.hub)
	s.router.HandleFunc("GET /health", s.handleHealth)
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(),
		RateLimitMiddleware(s.limiter),
	)(s.router)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Rooms   int    `json:"rooms"`
	Peers   int    `json:"peers"`
	Uptime  string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	rooms, peers := s.hub.Stats()
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
		Rooms:   rooms,
		Peers:   peers,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start listens on the configured address and blocks until Shutdown. It
// returns nil after a clean shutdown, even one that happened before Start.
func (s *Server) Start() error {
	log.Info().Str("addr", s.opts.Addr).Str("version", Version).Msg("relay listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("relay on %s: %w", s.opts.Addr, err)
	}
	return nil
}

// Shutdown stops accepting connections and disconnects every peer.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("relay shutting down")
	s.hub.CloseAll()
	return s.server.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}
