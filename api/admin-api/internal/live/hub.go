// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/commons"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	// Buffered events per subscriber; a client that cannot drain this
	// backlog gets dropped instead of blocking the publisher.
	sendBuffer = 32
)

// Event is one live-call notification pushed to dashboard subscribers.
type Event struct {
	Event   string                       `json:"event"`
	Session *internal_entity.CallSession `json:"session"`
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans live-call events out to websocket subscribers, partitioned by
// organization. It implements internal_service.SessionPublisher.
type Hub struct {
	logger commons.Logger

	mu      sync.RWMutex
	clients map[uint64]map[*client]bool
}

func NewHub(logger commons.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[uint64]map[*client]bool),
	}
}

// Publish delivers the event to every subscriber of the organization. Slow
// subscribers are disconnected rather than awaited.
func (h *Hub) Publish(organizationId uint64, event string, session *internal_entity.CallSession) {
	h.mu.RLock()
	subscribers := make([]*client, 0, len(h.clients[organizationId]))
	for c := range h.clients[organizationId] {
		subscribers = append(subscribers, c)
	}
	h.mu.RUnlock()

	payload := Event{Event: event, Session: session}
	for _, c := range subscribers {
		select {
		case c.send <- payload:
		default:
			h.logger.Warnw("dropping slow live subscriber", "organization", organizationId)
			h.remove(organizationId, c)
		}
	}
}

// Subscribers reports the current subscriber count for the organization.
func (h *Hub) Subscribers(organizationId uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[organizationId])
}

// Serve owns the connection until the peer disappears. It runs the write
// pump on the calling goroutine and a read pump for pong/close handling.
func (h *Hub) Serve(organizationId uint64, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan Event, sendBuffer)}

	h.mu.Lock()
	if h.clients[organizationId] == nil {
		h.clients[organizationId] = make(map[*client]bool)
	}
	h.clients[organizationId][c] = true
	h.mu.Unlock()

	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(c, done)
	h.remove(organizationId, c)
}

func (h *Hub) readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Subscribers never send application data; this drains control
		// frames and detects the close.
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Errorw("unable to encode live event", "error", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *Hub) remove(organizationId uint64, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subscribers, ok := h.clients[organizationId]; ok {
		if subscribers[c] {
			delete(subscribers, c)
			c.conn.Close()
		}
		if len(subscribers) == 0 {
			delete(h.clients, organizationId)
		}
	}
}
