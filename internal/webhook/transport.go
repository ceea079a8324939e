package webhook

import "time"

// InboundMessage is one WhatsApp message delivered by the gateway.
type InboundMessage struct {
	MessageID string `json:"messageId" validate:"required,max=128"`
	From      string `json:"from" validate:"required,max=32"`
	Text      string `json:"text" validate:"max=4096"`
	Timestamp int64  `json:"timestamp"`
}

// SentAt converts the gateway's unix timestamp; zero means "now".
func (m InboundMessage) SentAt() time.Time {
	if m.Timestamp == 0 {
		return time.Now()
	}
	return time.Unix(m.Timestamp, 0)
}

// InboundResponse acknowledges an accepted message.
type InboundResponse struct {
	Status string `json:"status"`
}
