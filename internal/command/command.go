// Package command classifies inbound message text as a structured command or free text.
package command

import (
	"strings"

	"github.com/ibs-source/champions-bot/internal/message"
)

// Command is a parsed slash command
type Command struct {
	Name string   // Lower-cased, without the leading slash and any @botname suffix
	Args []string // Whitespace-delimited tokens after the command token
}

// Arg returns the i-th argument or "" when absent
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Parse returns the command carried by msg. ok is false for plain text: no
// markers at all, or a first marker that is not a bot command at offset 0.
func Parse(msg message.Inbound) (cmd Command, ok bool) {
	if len(msg.Markers) == 0 {
		return Command{}, false
	}
	first := msg.Markers[0]
	if first.Type != message.MarkerBotCommand || first.Offset != 0 {
		return Command{}, false
	}

	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return Command{}, false
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return Command{}, false
	}

	return Command{Name: strings.ToLower(name), Args: fields[1:]}, true
}
