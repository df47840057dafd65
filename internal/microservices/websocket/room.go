package websocket

import (
	"log/slog"
	"sync"
)

// Room = the delivery scope for one owner's live connections. Any number of
// sockets (tabs, devices) may sit in the same room.
type Room struct {
	ID      string             // derived from the owner's user id, see RoomID
	Clients map[string]*Client // map[clientID] -> *Client
	mu      sync.RWMutex       // mutex for concurrent access
}

// NewRoom creates a new delivery Room
func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		Clients: make(map[string]*Client),
	}
}

// AddClient: adds a client to the room
func (r *Room) AddClient(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Clients[c.ID] == nil {
		slog.Info("Client added to room", "room_id", r.ID, "client_id", c.ID)
		r.Clients[c.ID] = c
	} else {
		slog.Warn("Client already in room", "room_id", r.ID, "client_id", c.ID)
	}
}

// RemoveClient: removes a client from the room
func (r *Room) RemoveClient(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Clients[c.ID] != nil {
		slog.Info("Client removed from room", "room_id", r.ID, "client_id", c.ID)
		delete(r.Clients, c.ID)
	}
}

// Broadcast: delivers a raw payload to every client currently in the room.
// Fire-and-forget: a client whose send buffer is full misses the event.
func (r *Room) Broadcast(message []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, client := range r.Clients {
		select {
		case client.SendChannel <- message:
		default:
			slog.Warn("Client send buffer full, dropping event", "room_id", r.ID, "client_id", client.ID)
		}
	}
}

// ClientCount: returns the number of clients in the room
func (r *Room) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Clients)
}
