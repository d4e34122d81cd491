package mqtt

import (
	"context"

	"github.com/ibs-source/champions-bot/internal/message"
)

// Publisher mirrors reply events. Implemented by Client and, when no broker
// is configured, by Nop.
type Publisher interface {
	PublishReply(ctx context.Context, event message.ReplyEvent) error
	Close() error
}

// Ensure Client implements Publisher
var _ Publisher = (*Client)(nil)

// Ensure Nop implements Publisher
var _ Publisher = Nop{}

// Nop drops every event
type Nop struct{}

// PublishReply discards the event
func (Nop) PublishReply(context.Context, message.ReplyEvent) error { return nil }

// Close does nothing
func (Nop) Close() error { return nil }
