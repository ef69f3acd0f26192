package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of connected activity-feed clients and broadcasts
// events to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound event payloads for broadcast.
	broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Feed client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Feed client disconnected")
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish queues a message for broadcast to all connected clients. Publishing
// never blocks the caller; the message is dropped if the hub is saturated.
func (h *Hub) Publish(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		log.Warn().Msg("Activity feed broadcast buffer full, dropping message")
	}
}
