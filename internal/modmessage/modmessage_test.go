package modmessage

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestCommandChoices(t *testing.T) {
	messages := map[string]string{
		"support":            "Please ask in the support channel.",
		"flagged":            "Your post was flagged.",
		"criticize_language": "Please keep it friendly.",
	}

	choices := commandChoices(messages)
	if len(choices) != 3 {
		t.Fatalf("expected 3 choices, got %d", len(choices))
	}

	// Keys must come out sorted so repeated syncs are stable.
	want := []string{"criticize_language", "flagged", "support"}
	for i, choice := range choices {
		if choice.Name != want[i] {
			t.Errorf("choice %d = %s, want %s", i, choice.Name, want[i])
		}
		if choice.Value != choice.Name {
			t.Errorf("choice %d value = %v, want %s", i, choice.Value, choice.Name)
		}
	}
}

func TestCommandChoicesEmpty(t *testing.T) {
	if got := commandChoices(nil); len(got) != 0 {
		t.Errorf("expected no choices, got %d", len(got))
	}
}

func TestPostable(t *testing.T) {
	tests := []struct {
		name        string
		channelType discordgo.ChannelType
		want        bool
	}{
		{"text channel", discordgo.ChannelTypeGuildText, true},
		{"news channel", discordgo.ChannelTypeGuildNews, true},
		{"public thread", discordgo.ChannelTypeGuildPublicThread, true},
		{"private thread", discordgo.ChannelTypeGuildPrivateThread, true},
		{"voice channel", discordgo.ChannelTypeGuildVoice, false},
		{"category", discordgo.ChannelTypeGuildCategory, false},
		{"forum", discordgo.ChannelTypeGuildForum, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postable(tt.channelType); got != tt.want {
				t.Errorf("postable(%d) = %v, want %v", tt.channelType, got, tt.want)
			}
		})
	}
}

func TestComposeMessage(t *testing.T) {
	if got := composeMessage("hello", nil); got != "hello" {
		t.Errorf("composeMessage without mention = %q", got)
	}

	user := &discordgo.User{ID: "1234"}
	if got := composeMessage("hello", user); got != "<@1234> hello" {
		t.Errorf("composeMessage with mention = %q", got)
	}
}
