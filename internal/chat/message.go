// Package chat defines the message payloads exchanged with the
// transport. The transport moves and stores these structures; it never
// interprets or mutates the pixel data inside them.
package chat

import (
	"time"

	"github.com/google/uuid"

	"PixelChat/internal/artifact"
)

// MessageType discriminates the wire messages.
type MessageType string

const (
	TypeText  MessageType = "text"
	TypeImage MessageType = "image"
)

// Message is one chat message. Image messages carry the full artifact:
// the canonical payload rides along wherever the message goes, so the
// receiving side can always rebuild the ephemeral handles. A message's
// recovery status is derived at the consumer, never stored here.
type Message struct {
	ID     string      `json:"id"`
	Type   MessageType `json:"type"`
	Sender string      `json:"sender"`
	SentAt time.Time   `json:"sent_at"`

	Text  string             `json:"text,omitempty"`
	Image *artifact.Artifact `json:"image,omitempty"`
}

// NewTextMessage builds a plain text message from the acting user.
func NewTextMessage(sender, text string) Message {
	return Message{
		ID:     uuid.NewString(),
		Type:   TypeText,
		Sender: sender,
		SentAt: time.Now(),
		Text:   text,
	}
}

// NewImageMessage wraps an artifact for transport.
func NewImageMessage(sender string, a *artifact.Artifact) Message {
	return Message{
		ID:     uuid.NewString(),
		Type:   TypeImage,
		Sender: sender,
		SentAt: time.Now(),
		Image:  a,
	}
}
