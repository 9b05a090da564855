package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestToMessage(t *testing.T) {
	m := &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: "c1",
		Content:   `!generate_image "a red fox",5`,
		Author:    &discordgo.User{ID: "u1"},
	}}
	got := toMessage(m)
	if got.ChannelID != "c1" || got.AuthorID != "u1" || got.Content != m.Content {
		t.Fatalf("unexpected message: %+v", got)
	}

	m.Author = nil
	if got := toMessage(m); got.AuthorID != "" {
		t.Fatalf("expected empty author, got %+v", got)
	}
}

func TestToReaction(t *testing.T) {
	r := &discordgo.MessageReaction{UserID: "u1", ChannelID: "c1", Emoji: discordgo.Emoji{Name: "👍"}}
	got := toReaction(r, true)
	if got.ChannelID != "c1" || got.UserID != "u1" || got.Emoji != "👍" || !got.Added {
		t.Fatalf("unexpected reaction: %+v", got)
	}
}

func TestSelfIDBeforeReady(t *testing.T) {
	s, err := NewSession("token")
	if err != nil {
		t.Fatal(err)
	}
	if s.Identify.Intents != Intents {
		t.Fatalf("intents = %d", s.Identify.Intents)
	}
	if id := NewMessenger(s).SelfID(); id != "" {
		t.Fatalf("expected empty self id, got %q", id)
	}
}
