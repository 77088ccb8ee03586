// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jeranaias/roomchat-tui/internal/model"
	"github.com/jeranaias/roomchat-tui/internal/transport"
)

const (
	// DefaultRoom is used when a client connects without a room parameter.
	DefaultRoom = "lobby"

	peerQueueSize = 64
	maxFrameSize  = 64 * 1024
	writeWait     = 10 * time.Second
)

// ============================================================================
// PEER
// ============================================================================

// peer is one connected client. member and announced are guarded by the
// hub's mutex.
type peer struct {
	id      string
	room    string
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter

	member    model.Member
	announced bool

	done      chan struct{}
	closeOnce sync.Once
}

// emit queues an event without blocking. A slow peer loses frames rather
// than stalling the room.
func (p *peer) emit(ev transport.Event) {
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event", ev.Name).Msg("marshal frame")
		return
	}
	select {
	case p.send <- frame:
	default:
		log.Warn().Str("peer", p.id).Str("event", ev.Name).Msg("peer queue full, dropping frame")
	}
}

func (p *peer) close() {
	p.closeOnce.Do(func() { close(p.done) })
}

func (p *peer) writePump() {
	defer p.conn.Close()

	for {
		select {
		case frame := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Debug().Err(err).Str("peer", p.id).Msg("write failed")
				p.close()
				return
			}
		case <-p.done:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = p.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// ============================================================================
// HUB
// ============================================================================

// Hub relays events between the peers of each room.
type Hub struct {
	upgrader     websocket.Upgrader
	messageRate  rate.Limit
	messageBurst int

	mu    sync.RWMutex
	rooms map[string]map[string]*peer
}

// NewHub creates a hub. Each peer may send messageRate messages per second
// with the given burst; excess messages are dropped.
func NewHub(messageRate rate.Limit, messageBurst int) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		messageRate:  messageRate,
		messageBurst: messageBurst,
		rooms:        make(map[string]map[string]*peer),
	}
}

// ServeHTTP upgrades the request and runs the peer until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", GetClientIP(r)).Msg("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxFrameSize)

	room := r.URL.Query().Get("room")
	if room == "" {
		room = DefaultRoom
	}

	p := &peer{
		id:      r.Header.Get(transport.ClientIDHeader),
		room:    room,
		conn:    conn,
		send:    make(chan []byte, peerQueueSize),
		limiter: rate.NewLimiter(h.messageRate, h.messageBurst),
		done:    make(chan struct{}),
	}
	h.join(p)
	go p.writePump()

	h.emitTo(p, transport.EventLogin, transport.LoginPayload{UserID: p.id})
	log.Info().Str("peer", p.id).Str("room", room).Msg("peer connected")

	h.readPump(p)
}

func (h *Hub) readPump(p *peer) {
	defer func() {
		h.leave(p)
		p.close()
	}()

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("peer", p.id).Msg("peer connection lost")
			}
			return
		}

		var ev transport.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Warn().Err(err).Str("peer", p.id).Msg("dropping malformed frame")
			continue
		}
		h.handle(p, ev)
	}
}

// handle applies one event from p.
func (h *Hub) handle(p *peer, ev transport.Event) {
	switch ev.Name {
	case transport.EventAddUser:
		var payload transport.AddUserPayload
		if err := ev.Decode(&payload); err != nil {
			log.Warn().Err(err).Str("peer", p.id).Msg("bad add user")
			return
		}
		h.announce(p, payload)

	case transport.EventNewMessage:
		var payload transport.OutboundMessage
		if err := ev.Decode(&payload); err != nil {
			log.Warn().Err(err).Str("peer", p.id).Msg("bad message")
			return
		}
		if !p.limiter.Allow() {
			log.Warn().Str("peer", p.id).Msg("message rate exceeded, dropping")
			return
		}
		typ := payload.Type
		if !typ.Valid() || typ == model.TypeSystem {
			typ = model.TypeTextSimple
		}
		h.broadcast(p.room, p.id, transport.EventNewMessage, transport.InboundMessage{
			UserID:  p.id,
			Message: payload.Message,
			Type:    typ,
		})

	default:
		log.Debug().Str("peer", p.id).Str("event", ev.Name).Msg("ignoring unknown event")
	}
}

// announce records p's profile. The first announcement also sends p the
// members already present.
func (h *Hub) announce(p *peer, payload transport.AddUserPayload) {
	h.mu.Lock()
	first := !p.announced
	p.announced = true
	p.member = model.Member{ID: p.id, Name: payload.Name, Avatar: payload.Avatar}

	var existing []model.Member
	if first {
		for id, other := range h.rooms[p.room] {
			if id != p.id && other.announced {
				existing = append(existing, other.member)
			}
		}
	}
	h.mu.Unlock()

	sort.Slice(existing, func(i, j int) bool { return existing[i].ID < existing[j].ID })
	for _, m := range existing {
		h.emitTo(p, transport.EventUserJoined, userPayload(m))
	}
	h.broadcast(p.room, p.id, transport.EventUserJoined, userPayload(p.member))
}

func (h *Hub) join(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[p.room]
	if !ok {
		members = make(map[string]*peer)
		h.rooms[p.room] = members
	}
	if _, taken := members[p.id]; taken || p.id == "" {
		p.id = uuid.NewString()
	}
	p.member = model.Member{ID: p.id}
	members[p.id] = p
}

func (h *Hub) leave(p *peer) {
	h.mu.Lock()
	members := h.rooms[p.room]
	if members[p.id] != p {
		h.mu.Unlock()
		return
	}
	delete(members, p.id)
	if len(members) == 0 {
		delete(h.rooms, p.room)
	}
	announced, member := p.announced, p.member
	h.mu.Unlock()

	log.Info().Str("peer", p.id).Str("room", p.room).Msg("peer disconnected")
	if announced {
		h.broadcast(p.room, p.id, transport.EventUserLeft, userPayload(member))
	}
}

// broadcast sends an event to every peer in room except the one with id except.
func (h *Hub) broadcast(room, except, name string, payload any) {
	ev, err := transport.NewEvent(name, payload)
	if err != nil {
		log.Error().Err(err).Str("event", name).Msg("encode broadcast")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, p := range h.rooms[room] {
		if id != except {
			p.emit(ev)
		}
	}
}

func (h *Hub) emitTo(p *peer, name string, payload any) {
	ev, err := transport.NewEvent(name, payload)
	if err != nil {
		log.Error().Err(err).Str("event", name).Msg("encode event")
		return
	}
	p.emit(ev)
}

// Members lists the announced members of room, sorted by id.
func (h *Hub) Members(room string) []model.Member {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []model.Member
	for _, p := range h.rooms[room] {
		if p.announced {
			out = append(out, p.member)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stats reports the number of open rooms and connected peers.
func (h *Hub) Stats() (rooms, peers int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, members := range h.rooms {
		peers += len(members)
	}
	return len(h.rooms), peers
}

// CloseAll disconnects every peer.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, members := range h.rooms {
		for _, p := range members {
			p.close()
		}
	}
}

func userPayload(m model.Member) transport.UserPayload {
	return transport.UserPayload{UserID: m.ID, Name: m.Name, Avatar: m.Avatar}
}
