package websocket

import (
	"log"

	"cadenza/types"
)

// Hub broadcasts progress snapshots to every connected client. Since
// only one download runs at a time, all clients see the same stream.
type Hub interface {
	Run()
	Notify(msg types.ProgressMessage)
	RegisterClient(client *Client)
	UnregisterClient(client *Client)
}

// hub maintains the set of active clients and broadcasts messages to them
type hub struct {
	clients map[*Client]bool

	// Broadcast channel for progress snapshots
	broadcast chan types.ProgressMessage

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new WebSocket hub
func NewHub() Hub {
	return &hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan types.ProgressMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main event loop
func (h *hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("WebSocket client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			log.Printf("WebSocket client disconnected")

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client; drop it rather than stall the stream.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Notify queues a snapshot for broadcast. Fire-and-forget: when the
// broadcast channel is full the snapshot is dropped, never blocking the
// download pipeline.
func (h *hub) Notify(msg types.ProgressMessage) {
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("WebSocket broadcast channel full, dropping snapshot for job %s", msg.JobID)
	}
}

// RegisterClient registers a new client with the hub
func (h *hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient unregisters a client from the hub
func (h *hub) UnregisterClient(client *Client) {
	h.unregister <- client
}
