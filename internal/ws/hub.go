package ws

import (
	"log"
	"sync"
	"time"

	"zunda_backend/internal/service"
)

// Hub tracks one Room per live session. Rooms appear when the first viewer
// joins and are reaped once they sit empty for a while.
type Hub struct {
	Rooms map[string]*Room
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Rooms: make(map[string]*Room),
	}
}

func (h *Hub) Join(c *Client) *Room {
	h.mu.Lock()
	room, ok := h.Rooms[c.LiveID]
	if !ok {
		room = NewRoom(c.LiveID)
		h.Rooms[c.LiveID] = room
		log.Printf("Hub.Join: created room=%s", c.LiveID)
	}
	h.mu.Unlock()

	viewers := room.add(c)
	log.Printf("Hub.Join: user=%d joined room=%s viewers=%d", c.UserID, c.LiveID, viewers)

	room.Broadcast(MsgJoined, JoinedPayload{LiveID: room.ID, Viewers: viewers})
	return room
}

func (h *Hub) OnDisconnect(c *Client) {
	viewers := c.Room.remove(c)
	log.Printf("Hub.OnDisconnect: user=%d room=%s viewers=%d", c.UserID, c.Room.ID, viewers)
}

// PublishGiftSent implements service.GiftNotifier. Publishing to a live
// session nobody watches is a no-op.
func (h *Hub) PublishGiftSent(liveID string, event service.GiftSentEvent) {
	h.mu.RLock()
	room, ok := h.Rooms[liveID]
	h.mu.RUnlock()

	if !ok {
		return
	}
	room.Broadcast(MsgGiftSent, event)
}

func (h *Hub) StartCleanup() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			h.cleanupStaleRooms()
		}
	}()
}

func (h *Hub) cleanupStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()

	for liveID, room := range h.Rooms {
		if room.size() == 0 && now.Sub(room.createdAt) > time.Hour {
			delete(h.Rooms, liveID)
			log.Printf("cleaned up stale room: %s", liveID)
		}
	}
}
