package websocket

import (
	"log/slog"
	"sync"
)

// Central hub managing all connections and rooms.
// Each WebSocket connection runs in its own goroutine; the hub is the only
// shared state between them and is guarded by its mutex.
type Hub struct {
	rooms map[string]*Room
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]*Room),
	}
}

// JoinRoom puts the client into the room, creating it on first join.
func (h *Hub) JoinRoom(roomID string, c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[roomID]
	if !ok {
		room = NewRoom(roomID)
		h.rooms[roomID] = room
	}
	h.mu.Unlock()

	room.AddClient(c)
	c.trackRoom(roomID)
}

// RemoveClient takes the client out of every room it joined. Called on
// disconnect; empty rooms are dropped so the map does not grow forever.
func (h *Hub) RemoveClient(c *Client) {
	for _, roomID := range c.joinedRooms() {
		h.mu.Lock()
		room, ok := h.rooms[roomID]
		h.mu.Unlock()
		if !ok {
			continue
		}
		room.RemoveClient(c)
		if room.ClientCount() == 0 {
			h.mu.Lock()
			if room.ClientCount() == 0 {
				delete(h.rooms, roomID)
			}
			h.mu.Unlock()
		}
	}
}

// Publish delivers an event to every socket currently in the room. A room
// with no members is a no-op, not an error - events are not queued or
// replayed for late joiners.
func (h *Hub) Publish(roomID, event string, data any) {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	payload, err := NewServerMessage(event, data).ToJSON()
	if err != nil {
		return
	}

	slog.Debug("Publishing event to room", "room_id", roomID, "event", event, "clients", room.ClientCount())
	room.Broadcast(payload)
}

// RoomCount: returns the number of live rooms
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}
