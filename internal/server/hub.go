package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
)

// broadcastBuffer is the number of messages queued for the hub loop.
const broadcastBuffer = 16

// Hub maintains the set of live clients and broadcasts change events to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

var _ contract.Notifier = &Hub{}

// NewHub returns a hub that is idle until Run is called.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is done.
// Every client channel is closed when it returns.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for client := range h.clients {
			delete(h.clients, client)
			close(client.send)
		}
		h.mu.Unlock()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Live client registered: %s", client.remote)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Live client unregistered: %s", client.remote)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					log.Printf("Live client %s send buffer full, removing", client.remote)
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish broadcasts a change event as {"type":"change","payload":event}.
// Events published after the hub stopped are dropped.
func (h *Hub) Publish(event schema.ChangeEvent) {
	message, err := json.Marshal(map[string]any{"type": "change", "payload": event})
	if err != nil {
		log.Printf("Error marshalling change event: %v", err)
		return
	}
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// Register adds a client. It reports false when the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
