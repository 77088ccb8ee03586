// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport provides the real-time connection to the chat server.
//
// The rest of the application only sees the Socket interface: a fire-and-forget
// Emit plus Close. Client is the websocket implementation. It runs one reader
// and one writer goroutine so Emit never blocks the UI loop.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// =============================================================================
// SOCKET INTERFACE
// =============================================================================

// Socket is the outbound half of the connection as seen by the store and views.
type Socket interface {
	// Emit queues an event for transmission. It does not wait for delivery.
	Emit(event string, payload any) error
	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// Conn is a Socket that also delivers inbound events.
type Conn interface {
	Socket
	// ID is the client id sent in the handshake.
	ID() string
	// Events is closed when the connection ends.
	Events() <-chan Event
}

var (
	// ErrClosed is returned by Emit after the connection has been closed.
	ErrClosed = errors.New("transport: connection closed")
	// ErrQueueFull is returned by Emit when the send queue is saturated.
	ErrQueueFull = errors.New("transport: send queue full")
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultSendQueueSize    = 64
	defaultEventBufferSize  = 64
	writeWait               = 10 * time.Second
	closeWait               = time.Second

	// ClientIDHeader carries the client id during the websocket handshake.
	ClientIDHeader = "X-Client-ID"
)

// =============================================================================
// CLIENT
// =============================================================================

// Options configures Dial.
type Options struct {
	// URL is the ws:// or wss:// endpoint.
	URL string
	// Room is sent as the "room" query parameter when set.
	Room string
	// ClientID defaults to a random UUID.
	ClientID string

	HandshakeTimeout time.Duration
	SendQueueSize    int
}

// Client is a websocket-backed Conn.
type Client struct {
	conn   *websocket.Conn
	id     string
	send   chan []byte
	events chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}

	wg sync.WaitGroup
}

// Dial connects to the chat server and starts the reader and writer goroutines.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	endpoint, err := buildURL(opts.URL, opts.Room)
	if err != nil {
		return nil, err
	}

	id := opts.ClientID
	if id == "" {
		id = uuid.NewString()
	}

	timeout := opts.HandshakeTimeout
	if timeout <= 0 {
		timeout = defaultHandshakeTimeout
	}
	queue := opts.SendQueueSize
	if queue <= 0 {
		queue = defaultSendQueueSize
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: timeout,
	}
	header := http.Header{}
	header.Set(ClientIDHeader, id)

	log.Debug().Str("url", endpoint).Str("client_id", id).Msg("dialing chat server")

	conn, resp, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %s)", endpoint, err, resp.Status)
		}
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	c := newClient(conn, id, queue)
	log.Info().Str("url", endpoint).Str("client_id", id).Msg("connected to chat server")
	return c, nil
}

func newClient(conn *websocket.Conn, id string, queue int) *Client {
	c := &Client{
		conn:   conn,
		id:     id,
		send:   make(chan []byte, queue),
		events: make(chan Event, defaultEventBufferSize),
		done:   make(chan struct{}),
	}
	c.wg.Add(2)
	go c.readPump()
	go c.writePump()
	return c
}

func buildURL(raw, room string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", raw, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("invalid server url %q: scheme must be ws or wss", raw)
	}
	if room != "" {
		q := u.Query()
		q.Set("room", room)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// ID returns the client id sent in the handshake.
func (c *Client) ID() string {
	return c.id
}

// Events returns the inbound event stream.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Emit marshals payload and queues it. It never blocks.
func (c *Client) Emit(event string, payload any) error {
	ev, err := NewEvent(event, payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %q frame: %w", event, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops both goroutines and closes the underlying connection. It waits
// at most closeWait for the writer before dropping the socket.
func (c *Client) Close() error {
	c.shutdown()

	stopped := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(closeWait):
		// A write is stuck on a dead link; closing the socket unblocks it.
		log.Warn().Msg("chat connection did not close in time, dropping it")
		_ = c.conn.Close()
		<-stopped
	}
	return nil
}

func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}

func (c *Client) readPump() {
	defer c.wg.Done()
	defer close(c.events)
	defer c.shutdown()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("chat connection lost")
			} else {
				log.Debug().Err(err).Msg("chat connection closed")
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Warn().Err(err).Int("bytes", len(data)).Msg("dropping malformed frame")
			continue
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.wg.Done()
	defer c.conn.Close()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Warn().Err(err).Msg("write to chat server failed")
				c.shutdown()
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(closeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
