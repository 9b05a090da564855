package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/basel-ax/openjourney-bot/internal/bot"
)

// Intents the bot needs: message content for commands, reactions for feedback.
const Intents = discordgo.IntentGuildMessages |
	discordgo.IntentDirectMessages |
	discordgo.IntentGuildMessageReactions |
	discordgo.IntentDirectMessageReactions |
	discordgo.IntentMessageContent

// NewSession creates a Discord session authenticated with a bot token
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = Intents
	return s, nil
}

// Messenger implements bot.Messenger and bot.Presence over a Discord session
type Messenger struct {
	session *discordgo.Session
}

// NewMessenger creates a new Discord messenger
func NewMessenger(s *discordgo.Session) *Messenger {
	return &Messenger{session: s}
}

// Send posts a new message and returns its ID
func (m *Messenger) Send(channelID, content string) (string, error) {
	msg, err := m.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

// Edit replaces the content of a message
func (m *Messenger) Edit(channelID, messageID, content string) error {
	if _, err := m.session.ChannelMessageEdit(channelID, messageID, content); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// Delete removes a message
func (m *Messenger) Delete(channelID, messageID string) error {
	if err := m.session.ChannelMessageDelete(channelID, messageID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// SetStatus updates the "Playing ..." line of the bot
func (m *Messenger) SetStatus(text string) error {
	return m.session.UpdateGameStatus(0, text)
}

// SelfID returns the bot user ID once the session is ready
func (m *Messenger) SelfID() string {
	state := m.session.State
	if state == nil {
		return ""
	}
	state.RLock()
	defer state.RUnlock()
	if state.User == nil {
		return ""
	}
	return state.User.ID
}

// Register wires the session events to the bot
func Register(ctx context.Context, s *discordgo.Session, b *bot.Bot) {
	s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged on as %s", r.User.String())
	})
	s.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		b.HandleMessage(ctx, toMessage(m))
	})
	s.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
		b.HandleReaction(toReaction(r.MessageReaction, true))
	})
	s.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionRemove) {
		b.HandleReaction(toReaction(r.MessageReaction, false))
	})
}

func toMessage(m *discordgo.MessageCreate) bot.Message {
	msg := bot.Message{ChannelID: m.ChannelID, Content: m.Content}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
	}
	return msg
}

func toReaction(r *discordgo.MessageReaction, added bool) bot.Reaction {
	return bot.Reaction{
		ChannelID: r.ChannelID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.Name,
		Added:     added,
	}
}
