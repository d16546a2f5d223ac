package telegram

import (
	"context"
	"io"
)

// Sender identifies the user behind an inbound event.
type Sender struct {
	ID        int64
	Username  string
	FirstName string
}

// Meta carries the conversation key and sender shared by every event variant.
type Meta struct {
	ChatID int64
	User   Sender
}

func (Meta) event() {}

// Event is one inbound conversation event. The raw transport update is
// converted into exactly one variant at this boundary, so downstream code
// never inspects optional message fields.
type Event interface {
	event()
}

// CommandEvent is a slash command, name without the leading slash.
type CommandEvent struct {
	Meta
	Name string
}

// TextEvent is a plain text message.
type TextEvent struct {
	Meta
	Body string
}

// PhotoEvent is a message carrying photo attachments with an optional caption.
type PhotoEvent struct {
	Meta
	Caption string
	Photos  []Attachment
}

// Attachment is a photo resolvable to a downloadable byte stream.
type Attachment interface {
	ID() string
	Open(ctx context.Context) (io.ReadCloser, error)
}
