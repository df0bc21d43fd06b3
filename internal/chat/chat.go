// Package chat is the boundary to the outbound messaging collaborator. The
// engine only ever sees the Sender interface and the opaque message
// reference it returns; rendering and transport details live outside.
package chat

import "context"

// Message is an outbound payload addressed to a space (room or direct
// conversation). ThreadKey groups messages of the same day into one thread
// where the transport supports it.
type Message struct {
	Space     string
	Text      string
	ThreadKey string
}

// Sender delivers messages to the chat transport. Create returns a message
// reference that Update accepts to edit the earlier message in place.
type Sender interface {
	Create(ctx context.Context, msg Message) (string, error)
	Update(ctx context.Context, ref string, msg Message) error
}
