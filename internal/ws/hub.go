package ws

import (
	"context"
	"io"
	"log"
	"sync"
)

// Hub fans worker events out to every connected page. A page whose buffer is full is
// disconnected instead of stalling the others.
type Hub struct {
	logger *log.Logger

	events chan []byte
	joins  chan *Client
	leaves chan *Client

	mu      sync.RWMutex
	clients map[*Client]struct{}
	// controller is the version that last claimed the pages, "" before activation.
	controller string
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Hub{
		logger:  logger,
		events:  make(chan []byte, 256),
		joins:   make(chan *Client, 64),
		leaves:  make(chan *Client, 64),
		clients: make(map[*Client]struct{}),
	}
}

// Run serves the hub until ctx is done, then disconnects every page.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.joins:
			h.add(c)
		case c := <-h.leaves:
			h.remove(c, "left")
		case msg := <-h.events:
			h.fanout(msg)
		}
	}
}

func (h *Hub) add(c *Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Printf("[WS] page connected | pages=%d", n)
}

func (h *Hub) remove(c *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.logger.Printf("[WS] page disconnected | reason=%s pages=%d", reason, n)
	}
}

func (h *Hub) fanout(msg []byte) {
	h.mu.RLock()
	pages := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		pages = append(pages, c)
	}
	h.mu.RUnlock()

	for _, c := range pages {
		select {
		case c.send <- msg:
		default:
			h.remove(c, "slow")
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) Register(c *Client) {
	if h != nil {
		h.joins <- c
	}
}

func (h *Hub) Unregister(c *Client) {
	if h != nil {
		h.leaves <- c
	}
}

// Broadcast queues msg for every page. It never blocks; when the queue is full the
// event is dropped and logged.
func (h *Hub) Broadcast(msg []byte) {
	if h == nil {
		return
	}
	select {
	case h.events <- msg:
	default:
		h.logger.Printf("[WS] event dropped | reason=queue_full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Controller returns the version that currently controls the pages.
func (h *Hub) Controller() string {
	if h == nil {
		return ""
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.controller
}

func (h *Hub) setController(version string) {
	h.mu.Lock()
	h.controller = version
	h.mu.Unlock()
}
