// Package dispatch routes inbound messages to their replies and delivers them.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ibs-source/champions-bot/internal/champions"
	"github.com/ibs-source/champions-bot/internal/command"
	"github.com/ibs-source/champions-bot/internal/log"
	"github.com/ibs-source/champions-bot/internal/message"
	"github.com/ibs-source/champions-bot/internal/mqtt"
)

// Reply texts
const (
	ReplyGoodbye     = "Bye Bye... "
	ReplyUnknown     = "WHAT? Choose a command"
	ReplyUnavailable = "Sorry, the champions list is unavailable right now. Try again later."
)

// Command names
const (
	CommandChampions = "champions"
	CommandStart     = "start"
	CommandHelp      = "help"
)

// Source answers roster queries
type Source interface {
	Holders(ctx context.Context, roster string) (string, []champions.TitleHolder, error)
	Rosters() []string
}

// Sender delivers a reply to a chat
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Outcome is the result of handling one message
type Outcome struct {
	Reply message.Reply
	Stop  bool // The message was the termination phrase
}

// Dispatcher classifies messages, runs the matching handler and delivers the reply
type Dispatcher struct {
	source Source
	sender Sender
	mirror mqtt.Publisher
	secret string
	now    func() time.Time
	log    *log.Logger
}

// New creates a Dispatcher. A nil mirror disables reply events.
func New(source Source, sender Sender, mirror mqtt.Publisher, secret string, logger *log.Logger) *Dispatcher {
	if mirror == nil {
		mirror = mqtt.Nop{}
	}
	return &Dispatcher{
		source: source,
		sender: sender,
		mirror: mirror,
		secret: secret,
		now:    time.Now,
		log:    logger,
	}
}

// Handle dispatches msg and delivers its reply. Delivery failures are logged
// and do not change the outcome.
func (d *Dispatcher) Handle(ctx context.Context, msg message.Inbound) Outcome {
	out := d.Dispatch(ctx, msg)
	d.deliver(ctx, msg, out.Reply)
	return out
}

// Dispatch computes the reply for msg without sending it
func (d *Dispatcher) Dispatch(ctx context.Context, msg message.Inbound) Outcome {
	d.log.DebugWithFields(logrus.Fields{
		"update": msg.ID,
		"chat":   msg.ChatID,
		"from":   msg.SenderName,
	}, "Dispatching message")

	cmd, ok := command.Parse(msg)
	if !ok {
		return d.plainText(msg)
	}

	reply := message.Reply{ChatID: msg.ChatID}
	switch cmd.Name {
	case CommandChampions:
		reply.Text = d.champions(ctx, cmd)
	case CommandStart, CommandHelp:
		reply.Text = d.help()
	default:
		reply.Text = ReplyUnknown
	}
	return Outcome{Reply: reply}
}

func (d *Dispatcher) plainText(msg message.Inbound) Outcome {
	if d.secret != "" && msg.Text == d.secret {
		d.log.Info("Termination phrase received from %s in chat %d", msg.SenderName, msg.ChatID)
		return Outcome{Reply: message.Reply{ChatID: msg.ChatID, Text: ReplyGoodbye}, Stop: true}
	}
	return Outcome{Reply: message.Reply{ChatID: msg.ChatID, Text: ReplyUnknown}}
}

func (d *Dispatcher) champions(ctx context.Context, cmd command.Command) string {
	roster := cmd.Arg(0)
	if roster == "" {
		return d.usage()
	}

	label, holders, err := d.source.Holders(ctx, roster)
	switch {
	case errors.Is(err, champions.ErrRosterNotFound):
		d.log.Debug("Roster lookup failed: %v", err)
		return fmt.Sprintf("Unrecognized roster: %s. Choose one of: %s", roster, d.rosterList())
	case err != nil:
		d.log.Error("Failed to load title holders for %s: %v", roster, err)
		return ReplyUnavailable
	}
	return champions.Format(label, holders)
}

func (d *Dispatcher) usage() string {
	return fmt.Sprintf("Usage: /%s <roster>\nRosters: %s", CommandChampions, d.rosterList())
}

func (d *Dispatcher) help() string {
	return fmt.Sprintf("Available commands:\n/%s <roster> - current title holders (%s)\n/%s - this message",
		CommandChampions, d.rosterList(), CommandHelp)
}

func (d *Dispatcher) rosterList() string {
	return strings.Join(d.source.Rosters(), ", ")
}

// deliver sends reply and mirrors the attempt
func (d *Dispatcher) deliver(ctx context.Context, msg message.Inbound, reply message.Reply) {
	event := message.ReplyEvent{
		ID:        uuid.NewString(),
		MessageID: msg.ID,
		ChatID:    reply.ChatID,
		Text:      reply.Text,
		At:        d.now().UTC(),
	}

	if err := d.sender.SendMessage(ctx, reply.ChatID, reply.Text); err != nil {
		d.log.Error("Failed to send reply to chat %d: %v", reply.ChatID, err)
		event.Error = err.Error()
	} else {
		event.Sent = true
	}

	if err := d.mirror.PublishReply(ctx, event); err != nil {
		d.log.Warn("Failed to mirror reply %s: %v", event.ID, err)
	}
}
