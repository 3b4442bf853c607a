package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub fans run-progress events out to every connected observer. Unlike the
// reconciliation engine it is fire-and-forget: a slow client is dropped, not
// waited on.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Client can't keep up; its write pump will clean up.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop shuts the hub down and waits for Run to exit.
func (h *Hub) Stop() {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}
	close(h.stop)
	<-h.done
}

// Publish broadcasts one progress event to all observers.
func (h *Hub) Publish(event ProgressEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal progress event: %v", err)
		return
	}
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Printf("progress broadcast dropped: hub backlog full")
	}
}
