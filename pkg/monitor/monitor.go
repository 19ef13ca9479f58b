package monitor

import "time"

// MonitorMessage represents one observed chat exchange item.
type MonitorMessage struct {
	Timestamp   time.Time
	MessageType string // "USER" or "ASSISTANT"
	ChannelID   string // "web", "ws", "telegram"
	Username    string
	Content     string
}

// Monitor receives a copy of every message flowing through the gateway.
type Monitor interface {
	Start() error
	Stop() error

	// OnMessage receives and displays a monitoring message.
	// Implementations must be safe for concurrent use; requests are
	// handled in parallel.
	OnMessage(msg MonitorMessage)
}
