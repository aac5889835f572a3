package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event types pushed to subscribed clients.
const (
	EventInvoiceUpdated = "invoice.updated"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// eventUpdate is an internal struct for routing events to one event's room
type eventUpdate struct {
	EventID uuid.UUID
	Event   Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Clients subscribe to one event's invoice; every save pushes the fresh
// summary to everyone watching that event.
type Hub struct {
	// Registered clients by event ID
	rooms map[uuid.UUID]map[*Client]bool

	// Inbound messages from clients (register/unregister)
	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *eventUpdate

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *eventUpdate, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.eventID] == nil {
				h.rooms[client.eventID] = make(map[*Client]bool)
			}
			h.rooms[client.eventID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.eventID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					// Clean up empty rooms
					if len(clients) == 0 {
						delete(h.rooms, client.eventID)
					}
				}
			}
			h.mu.Unlock()

		case update := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[update.EventID]

			// Marshal event to JSON once
			message, err := json.Marshal(update.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			// Send to all clients in this event's room
			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.rooms[update.EventID], client)
					if len(h.rooms[update.EventID]) == 0 {
						delete(h.rooms, update.EventID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToEvent sends an event to all clients watching a specific event's
// invoice. This is the public API for handlers to broadcast updates.
func (h *Hub) BroadcastToEvent(eventID uuid.UUID, event Event) {
	h.broadcast <- &eventUpdate{
		EventID: eventID,
		Event:   event,
	}
}
