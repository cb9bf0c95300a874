package ws

import (
	"encoding/json"
	"testing"
	"time"

	"zunda_backend/internal/service"
)

func testClient(userID int64, liveID string) *Client {
	return &Client{
		UserID: userID,
		LiveID: liveID,
		Send:   make(chan []byte, 4),
	}
}

func TestRoom_AddRemove(t *testing.T) {
	room := NewRoom("live-1")

	a := testClient(1, "live-1")
	b := testClient(2, "live-1")

	if n := room.add(a); n != 1 {
		t.Fatalf("expected 1 viewer, got %d", n)
	}
	if n := room.add(b); n != 2 {
		t.Fatalf("expected 2 viewers, got %d", n)
	}

	// reconnect of the same user replaces the old connection
	a2 := testClient(1, "live-1")
	if n := room.add(a2); n != 2 {
		t.Fatalf("expected 2 viewers after reconnect, got %d", n)
	}
	if _, ok := <-a.Send; ok {
		t.Fatalf("replaced connection's send channel should be closed")
	}

	// removing the stale client must not evict the reconnected one
	if n := room.remove(a); n != 2 {
		t.Fatalf("stale remove changed viewer count: %d", n)
	}
	if n := room.remove(a2); n != 1 {
		t.Fatalf("expected 1 viewer, got %d", n)
	}
}

func TestRoom_Broadcast(t *testing.T) {
	room := NewRoom("live-1")
	a := testClient(1, "live-1")
	b := testClient(2, "live-1")
	room.add(a)
	room.add(b)

	room.Broadcast(MsgGiftSent, map[string]string{"gift": "rose"})

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var env Envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if env.Type != MsgGiftSent {
				t.Fatalf("expected type %s, got %s", MsgGiftSent, env.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("user %d did not receive broadcast", c.UserID)
		}
	}
}

// A client that stopped draining its buffer is skipped, not waited on.
func TestRoom_BroadcastFullBuffer(t *testing.T) {
	room := NewRoom("live-1")
	stuck := &Client{UserID: 1, LiveID: "live-1", Send: make(chan []byte)}
	room.add(stuck)

	done := make(chan struct{})
	go func() {
		room.Broadcast(MsgGiftSent, map[string]string{"gift": "rose"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("broadcast blocked on a stuck client")
	}
}

func TestHub_PublishGiftSent(t *testing.T) {
	hub := NewHub()

	// publishing to a live session nobody watches is a no-op
	hub.PublishGiftSent("empty-live", service.GiftSentEvent{})

	c := testClient(5, "live-7")
	room := hub.Join(c)
	if room == nil {
		t.Fatalf("join returned nil room")
	}
	<-c.Send // drain the joined broadcast

	ev := service.GiftSentEvent{Value: 100}
	ev.Gift.Name = "Роза"
	hub.PublishGiftSent("live-7", ev)

	select {
	case raw := <-c.Send:
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if env.Type != MsgGiftSent {
			t.Fatalf("expected %s, got %s", MsgGiftSent, env.Type)
		}
	case <-time.After(time.Second):
		t.Fatalf("viewer did not receive gift event")
	}
}

func TestHub_CleanupStaleRooms(t *testing.T) {
	hub := NewHub()

	empty := NewRoom("old-live")
	empty.createdAt = time.Now().Add(-2 * time.Hour)
	hub.Rooms["old-live"] = empty

	busy := NewRoom("busy-live")
	busy.createdAt = time.Now().Add(-2 * time.Hour)
	busy.add(testClient(1, "busy-live"))
	hub.Rooms["busy-live"] = busy

	hub.cleanupStaleRooms()

	if _, ok := hub.Rooms["old-live"]; ok {
		t.Fatalf("stale empty room survived cleanup")
	}
	if _, ok := hub.Rooms["busy-live"]; !ok {
		t.Fatalf("room with viewers was reaped")
	}
}
