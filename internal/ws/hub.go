package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// AllBranches is the room of dashboards watching every branch.
var AllBranches = uuid.Nil

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// branchEvent is an internal struct for routing events to specific branches
type branchEvent struct {
	BranchID uuid.UUID
	Event    Event
}

// Hub maintains the set of active admin clients and broadcasts order events to them
type Hub struct {
	// Registered clients by branch ID
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *branchEvent

	// Closed when Run returns
	done chan struct{}

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *branchEvent, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is done.
// This should be called as a goroutine: go hub.Run(ctx)
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.branchID] == nil {
				h.rooms[client.branchID] = make(map[*Client]bool)
			}
			h.rooms[client.branchID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client.branchID, client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			// Marshal event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				continue
			}

			h.mu.Lock()
			h.deliver(event.BranchID, message)
			if event.BranchID != AllBranches {
				h.deliver(AllBranches, message)
			}
			h.mu.Unlock()
		}
	}
}

// deliver sends message to every client in a room. Caller holds h.mu.
func (h *Hub) deliver(branchID uuid.UUID, message []byte) {
	for client := range h.rooms[branchID] {
		select {
		case client.send <- message:
		default:
			// Client's send buffer is full, close and unregister
			h.remove(branchID, client)
		}
	}
}

// remove closes a client's send channel and drops empty rooms. Caller holds h.mu.
func (h *Hub) remove(branchID uuid.UUID, client *Client) {
	clients, ok := h.rooms[branchID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, branchID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for branchID, clients := range h.rooms {
		for client := range clients {
			close(client.send)
		}
		delete(h.rooms, branchID)
	}
}

// BroadcastToBranch sends an event to all clients subscribed to a branch and
// to clients watching every branch. It never blocks; events are dropped while
// the queue is full.
func (h *Hub) BroadcastToBranch(branchID uuid.UUID, event Event) {
	select {
	case h.broadcast <- &branchEvent{BranchID: branchID, Event: event}:
	default:
	}
}

// NewEvent marshals payload into an Event of the given type.
func NewEvent(eventType string, payload any) (Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Payload: b}, nil
}
