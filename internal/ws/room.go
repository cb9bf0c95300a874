package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Room is one live session's viewer set. Broadcasts fan out to every
// connected client; a client with a full send buffer is skipped rather than
// allowed to stall the room.
type Room struct {
	ID        string
	Clients   map[int64]*Client
	mu        sync.RWMutex
	createdAt time.Time
}

func NewRoom(id string) *Room {
	return &Room{
		ID:        id,
		Clients:   make(map[int64]*Client),
		createdAt: time.Now(),
	}
}

func (r *Room) add(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	// a reconnect replaces the previous connection of the same user
	if prev, ok := r.Clients[c.UserID]; ok && prev != c {
		close(prev.Send)
	}
	r.Clients[c.UserID] = c
	return len(r.Clients)
}

func (r *Room) remove(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.Clients[c.UserID]; ok && cur == c {
		delete(r.Clients, c.UserID)
	}
	return len(r.Clients)
}

func (r *Room) Broadcast(msgType string, data any) {
	msg, err := json.Marshal(Envelope{Type: msgType, Data: data})
	if err != nil {
		log.Printf("Room.Broadcast: room=%s marshal error: %v", r.ID, err)
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for uid, c := range r.Clients {
		select {
		case c.Send <- msg:
		default:
			log.Printf("Room.Broadcast: room=%s user=%d send buffer full, dropping", r.ID, uid)
		}
	}
}

func (r *Room) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Clients)
}
