package websocket

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventAttemptCompleted Event = "attempt_completed"
	EventError            Event = "error"
	EventPing             Event = "ping"
)

// AttemptCompletedMessage is pushed to admin monitors whenever a submission
// lands. The payload mirrors the event published on the Redis channel.
type AttemptCompletedMessage struct {
	Event   Event       `json:"event"`
	Payload interface{} `json:"payload"`
}

// ErrorMessage reports a stream-level failure before the connection closes.
type ErrorMessage struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

// PingMessage keeps idle connections alive through proxies.
type PingMessage struct {
	Event Event `json:"event"`
}
