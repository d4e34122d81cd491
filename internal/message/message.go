// Package message provides the data structures shared by the provider client, the command parser, the dispatcher and the reply mirror.
package message

import "time"

// MarkerBotCommand is the marker type that denotes an executable command
const MarkerBotCommand = "bot_command"

// Marker annotates a span of the message text (command, mention, hashtag...)
type Marker struct {
	Type   string
	Offset int
	Length int
}

// Inbound is a message retrieved from the provider queue. It is treated as immutable.
type Inbound struct {
	ID         int64 // Queue offset of the update carrying the message
	ChatID     int64
	SenderName string
	Text       string
	Markers    []Marker
}

// Batch is an envelope returned by one poll call, in provider order
type Batch struct {
	Items   []Inbound
	Skipped []int64 // Ids of queue entries that carried no chat message
}

// Empty reports whether the poll returned nothing at all
func (b Batch) Empty() bool {
	return len(b.Items) == 0 && len(b.Skipped) == 0
}

// MaxID returns the highest id in the batch, skipped entries included; ok is
// false when the batch is empty. Provider order is not assumed to be sorted.
func (b Batch) MaxID() (id int64, ok bool) {
	for _, m := range b.Items {
		if !ok || m.ID > id {
			id, ok = m.ID, true
		}
	}
	for _, s := range b.Skipped {
		if !ok || s > id {
			id, ok = s, true
		}
	}
	return id, ok
}

// Reply is an outbound text for a chat
type Reply struct {
	ChatID int64
	Text   string
}

// ReplyEvent is the mirror record published for every reply attempt
type ReplyEvent struct {
	ID        string    `json:"id"`
	MessageID int64     `json:"message_id"`
	ChatID    int64     `json:"chat_id"`
	Text      string    `json:"text"`
	Sent      bool      `json:"sent"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}
