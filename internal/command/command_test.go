package command

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ibs-source/champions-bot/internal/message"
)

func botCommand(length int) []message.Marker {
	return []message.Marker{{Type: message.MarkerBotCommand, Offset: 0, Length: length}}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		msg     message.Inbound
		want    Command
		wantCmd bool
	}{
		{
			name:    "command with argument",
			msg:     message.Inbound{Text: "/champions raw", Markers: botCommand(10)},
			want:    Command{Name: "champions", Args: []string{"raw"}},
			wantCmd: true,
		},
		{
			name:    "command without argument",
			msg:     message.Inbound{Text: "/champions", Markers: botCommand(10)},
			want:    Command{Name: "champions", Args: []string{}},
			wantCmd: true,
		},
		{
			name:    "all arguments kept in order",
			msg:     message.Inbound{Text: "/champions  nxt   extra\tmore", Markers: botCommand(10)},
			want:    Command{Name: "champions", Args: []string{"nxt", "extra", "more"}},
			wantCmd: true,
		},
		{
			name:    "bot suffix and case are normalized",
			msg:     message.Inbound{Text: "/Champions@WWEBot smackdown", Markers: botCommand(17)},
			want:    Command{Name: "champions", Args: []string{"smackdown"}},
			wantCmd: true,
		},
		{
			name: "no markers is plain text",
			msg:  message.Inbound{Text: "/champions raw"},
		},
		{
			name: "empty marker list is plain text",
			msg:  message.Inbound{Text: "/champions raw", Markers: []message.Marker{}},
		},
		{
			name: "mention is not a command",
			msg: message.Inbound{
				Text:    "@someone hello",
				Markers: []message.Marker{{Type: "mention", Offset: 0, Length: 8}},
			},
		},
		{
			name: "command marker not at start",
			msg: message.Inbound{
				Text:    "please /champions raw",
				Markers: []message.Marker{{Type: message.MarkerBotCommand, Offset: 7, Length: 10}},
			},
		},
		{
			name: "only the first marker decides",
			msg: message.Inbound{
				Text: "#raw /champions",
				Markers: []message.Marker{
					{Type: "hashtag", Offset: 0, Length: 4},
					{Type: message.MarkerBotCommand, Offset: 5, Length: 10},
				},
			},
		},
		{
			name: "bare slash",
			msg:  message.Inbound{Text: "/", Markers: botCommand(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.msg)
			assert.Equal(t, tt.wantCmd, ok)
			if tt.wantCmd {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCommandArg(t *testing.T) {
	cmd := Command{Name: "champions", Args: []string{"raw"}}
	assert.Equal(t, "raw", cmd.Arg(0))
	assert.Equal(t, "", cmd.Arg(1))
	assert.Equal(t, "", cmd.Arg(-1))
}
