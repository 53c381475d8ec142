package realtime

import (
	"sync"
)

// Client is one connected socket in a call room. Writes go through the
// send channel so a single writer goroutine owns the connection.
type Client struct {
	UserID uint
	Role   string
	send   chan []byte
}

func NewClient(userID uint, role string) *Client {
	return &Client{
		UserID: userID,
		Role:   role,
		send:   make(chan []byte, 32),
	}
}

// Send returns the client's outbound channel
func (c *Client) Send() <-chan []byte {
	return c.send
}

// Hub tracks which clients sit in which call room. A single hub serves
// the whole process; rooms are created on first join and deleted when
// the last member leaves.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// Join adds the client to the room. The first member of a room is the
// offerer: it creates the WebRTC offer once a peer shows up.
func (h *Hub) Join(room string, c *Client) (offerer bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	offerer = len(members) == 0
	members[c] = struct{}{}
	return offerer
}

// Leave removes the client and drops the room once it is empty
func (h *Hub) Leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// RoomSize reports the member count of a room
func (h *Hub) RoomSize(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

// Broadcast relays a payload to every room member except the sender.
// A client whose send buffer is full misses the frame rather than
// blocking the room.
func (h *Hub) Broadcast(room string, from *Client, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for member := range h.rooms[room] {
		if member == from {
			continue
		}
		select {
		case member.send <- payload:
		default:
		}
	}
}
