package ws

// server → client envelope
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type JoinedPayload struct {
	LiveID  string `json:"live_id"`
	Viewers int    `json:"viewers"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
