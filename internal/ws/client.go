package ws

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

type Client struct {
	UserID int64
	LiveID string
	Conn   *websocket.Conn
	Send   chan []byte

	Hub  *Hub
	Room *Room
	Done chan struct{}
}

func NewClient(userID int64, liveID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID: userID,
		LiveID: liveID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    hub,
		Done:   make(chan struct{}),
	}
}

func (c *Client) Run() {
	go c.writePump()
	go c.readPump()

	c.Room = c.Hub.Join(c)

	// wait for readPump to finish (disconnect)
	<-c.Done
}

//read
func (c *Client) readPump() {
	defer func() {
		c.disconnect()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// viewers only receive; inbound frames just refresh the deadline
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

//write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("Client.writePump: user=%d write error: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

//disconnect
func (c *Client) disconnect() {
	if c.Room != nil {
		c.Hub.OnDisconnect(c)
	}
	_ = c.Conn.Close()
}
