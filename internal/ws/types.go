package ws

const (
	// client - server
	MsgPing = "ping"

	// server - client
	MsgJoined   = "joined"
	MsgGiftSent = "gift_sent"
	MsgError    = "error"
)
